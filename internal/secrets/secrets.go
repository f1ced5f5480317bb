// Package secrets resolves named credentials (source API tokens, the
// AMQP URI, the Gemini key) without ever putting them in the config
// file: inline value, secret file, environment variable, then the OS
// keyring, first hit wins.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringService groups the engine's secrets in the OS keychain.
const KeyringService = "jobmatch-engine"

// Source describes how to load one secret.
type Source struct {
	// Name is used in error messages to give context about the secret.
	Name string
	// Value is an inline secret provided via configuration or flags.
	Value string
	// File points to a file containing the secret value.
	File string
	// Env names an environment variable holding the secret.
	Env string
	// KeyringAccount is the account name under KeyringService.
	KeyringAccount string
}

// Load resolves the secret: Value, then File, then Env, then the OS
// keyring. The result is always trimmed; an error names the secret and
// every place that was tried.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	if v := strings.TrimSpace(src.Value); v != "" {
		return v, nil
	}

	if file := strings.TrimSpace(src.File); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		if v := strings.TrimSpace(string(data)); v != "" {
			return v, nil
		}
		return "", fmt.Errorf("%s file %q is empty", name, file)
	}

	if env := strings.TrimSpace(src.Env); env != "" {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v, nil
		}
	}

	if account := strings.TrimSpace(src.KeyringAccount); account != "" {
		v, err := keyring.Get(KeyringService, account)
		if err == nil && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), nil
		}
	}

	return "", fmt.Errorf("%s is not configured (set a value, file, %s, or keychain entry)", name, envHint(src.Env))
}

func envHint(env string) string {
	if strings.TrimSpace(env) == "" {
		return "env var"
	}
	return env
}

// Set stores a secret in the OS keyring.
func Set(account, value string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(value) == "" {
		return errors.New("secret value is empty")
	}
	return keyring.Set(KeyringService, account, value)
}

// Delete removes a secret from the OS keyring.
func Delete(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, account)
}
