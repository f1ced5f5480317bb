package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func enabledRSS() SourceConfig {
	return SourceConfig{Name: "acme-rss", Type: "rss", URL: "https://jobs.acme.com/feed.xml", Enabled: true}
}

func TestValidateMinimalConfig(t *testing.T) {
	cfg := Default()
	cfg.Sources = []SourceConfig{enabledRSS()}

	out, res := NormalizeAndValidate(cfg)
	if !res.OK() {
		t.Fatalf("expected valid config, got errors: %v", res.Errors)
	}
	if out.Store.Driver != "sqlite" {
		t.Fatalf("driver = %q, want sqlite default", out.Store.Driver)
	}
	if out.Store.Path == "" {
		t.Fatal("sqlite path default was not applied")
	}
}

func TestValidateRejectsNoSources(t *testing.T) {
	_, res := NormalizeAndValidate(Default())
	if res.OK() {
		t.Fatal("config with no enabled sources must not validate")
	}
}

func TestValidateBoardNeedsWhitelist(t *testing.T) {
	cfg := Default()
	cfg.Sources = []SourceConfig{
		{Name: "acme", Type: "board", URL: "https://jobs.acme.com/careers", Enabled: true},
	}

	_, res := NormalizeAndValidate(cfg)
	if res.OK() {
		t.Fatal("board source without whitelist must not validate")
	}

	cfg.Whitelist = []string{"acme.com"}
	_, res = NormalizeAndValidate(cfg)
	if !res.OK() {
		t.Fatalf("expected valid config, got errors: %v", res.Errors)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad driver", func(c *Config) { c.Store.Driver = "postgres" }},
		{"mongo without uri", func(c *Config) { c.Store.Driver = "mongo"; c.Store.Database = "jm" }},
		{"bad source type", func(c *Config) { c.Sources[0].Type = "imap" }},
		{"missing source url", func(c *Config) { c.Sources[0].URL = "" }},
		{"duplicate source name", func(c *Config) {
			c.Sources = append(c.Sources, c.Sources[0])
		}},
		{"bad ingest interval", func(c *Config) { c.Schedule.IngestEvery = "often" }},
		{"min score out of range", func(c *Config) { c.Scoring.MinScore = 140 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			cfg.Sources = []SourceConfig{enabledRSS()}
			tc.mutate(&cfg)
			if _, res := NormalizeAndValidate(cfg); res.OK() {
				t.Fatal("expected a validation error")
			}
		})
	}
}

func TestValidateNormalizesWhitelist(t *testing.T) {
	cfg := Default()
	cfg.Sources = []SourceConfig{enabledRSS()}
	cfg.Whitelist = []string{" acme.com ", "acme.com", "", "Other.io"}

	out, res := NormalizeAndValidate(cfg)
	if !res.OK() {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if len(out.Whitelist) != 2 {
		t.Fatalf("whitelist = %v, want trimmed and deduped to 2 entries", out.Whitelist)
	}
}

func TestValidateWarnsOnShortInterval(t *testing.T) {
	cfg := Default()
	cfg.Sources = []SourceConfig{enabledRSS()}
	cfg.Schedule.IngestEvery = "10s"

	_, res := NormalizeAndValidate(cfg)
	if !res.OK() {
		t.Fatalf("short interval should warn, not error: %v", res.Errors)
	}
	if len(res.Warnings) == 0 {
		t.Fatal("expected a warning about the short interval")
	}
}

func TestIngestInterval(t *testing.T) {
	cfg := Default()
	d, err := cfg.IngestInterval()
	if err != nil {
		t.Fatalf("default interval: %v", err)
	}
	if d != 2*time.Hour {
		t.Fatalf("default interval = %v, want 2h", d)
	}

	cfg.Schedule.IngestEvery = "45m"
	if d, _ = cfg.IngestInterval(); d != 45*time.Minute {
		t.Fatalf("interval = %v, want 45m", d)
	}

	cfg.Schedule.IngestEvery = "often"
	if _, err = cfg.IngestInterval(); err == nil {
		t.Fatal("expected error for unparseable interval")
	}
}

func TestEnsureDefaultWritesParseableConfig(t *testing.T) {
	dir := t.TempDir()

	path, err := EnsureDefault(dir)
	if err != nil {
		t.Fatalf("EnsureDefault: %v", err)
	}
	if path != filepath.Join(dir, "config.yml") {
		t.Fatalf("path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read default config: %v", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("default config does not parse: %v", err)
	}
	if cfg.Store.Driver != "sqlite" {
		t.Fatalf("store.driver = %q, want sqlite", cfg.Store.Driver)
	}
	if len(cfg.Sources) == 0 {
		t.Fatal("default config has no example sources")
	}
	for _, s := range cfg.Sources {
		if s.Enabled {
			t.Fatalf("example source %q must ship disabled", s.Name)
		}
	}

	// second call must not clobber the existing file
	if err := os.WriteFile(path, []byte("app:\n  data_dir: custom\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	again, err := EnsureDefault(dir)
	if err != nil {
		t.Fatalf("EnsureDefault second call: %v", err)
	}
	data, _ = os.ReadFile(again)
	if string(data) != "app:\n  data_dir: custom\n" {
		t.Fatal("EnsureDefault overwrote an existing config")
	}
}

func TestEnabledSources(t *testing.T) {
	cfg := Default()
	cfg.Sources = []SourceConfig{
		enabledRSS(),
		{Name: "off", Type: "rss", URL: "https://x.example/feed", Enabled: false},
	}
	got := cfg.EnabledSources()
	if len(got) != 1 || got[0].Name != "acme-rss" {
		t.Fatalf("EnabledSources = %+v", got)
	}
}
