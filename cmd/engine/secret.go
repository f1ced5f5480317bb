package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"jobmatch-engine/internal/secrets"
)

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Manage keychain entries for source tokens, the AMQP URI, and the Gemini key",
}

var secretSetCmd = &cobra.Command{
	Use:   "set ACCOUNT",
	Short: "Store a secret in the OS keychain (value read from stdin)",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		fmt.Fprint(os.Stderr, "secret value: ")
		value, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && value == "" {
			log.Fatalf("reading secret: %v", err)
		}
		if err := secrets.Set(args[0], strings.TrimSpace(value)); err != nil {
			log.Fatalf("storing secret: %v", err)
		}
		fmt.Printf("stored %q in the %s keychain\n", args[0], secrets.KeyringService)
	},
}

var secretRmCmd = &cobra.Command{
	Use:   "rm ACCOUNT",
	Short: "Remove a secret from the OS keychain",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		if err := secrets.Delete(args[0]); err != nil {
			log.Fatalf("removing secret: %v", err)
		}
		fmt.Printf("removed %q from the %s keychain\n", args[0], secrets.KeyringService)
	},
}

func init() {
	rootCmd.AddCommand(secretCmd)
	secretCmd.AddCommand(secretSetCmd)
	secretCmd.AddCommand(secretRmCmd)
}
