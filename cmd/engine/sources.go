package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/source"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Inspect the configured sources and the whitelist gate",
}

var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured sources with their gate verdict and last fetch state",
	Run: func(cmd *cobra.Command, _ []string) {
		listSources(cmd.Context())
	},
}

var sourcesCheckCmd = &cobra.Command{
	Use:   "check URL",
	Short: "Report whether the whitelist gate would allow fetching the given URL",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		checkURL(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
	sourcesCmd.AddCommand(sourcesListCmd)
	sourcesCmd.AddCommand(sourcesCheckCmd)
}

func listSources(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	d, err := buildDeps(ctx)
	if err != nil {
		log.Fatalf("starting the engine: %v", err)
	}
	defer d.Close()

	fmt.Printf("%-20s %-6s %-8s %-10s %s\n", "NAME", "TYPE", "GATE", "LAST", "URL")
	for _, f := range d.fetchers {
		desc := f.Descriptor()
		verdict := "denied"
		if d.gate.Allowed(desc) {
			verdict = "allowed"
		}

		last := "-"
		st, err := d.store.SourceState(ctx, f.Name())
		switch {
		case errors.Is(err, domain.ErrNotFound):
		case err == nil:
			last = st.LastStatus
		}

		fmt.Printf("%-20s %-6s %-8s %-10s %s\n",
			f.Name(), desc.Kind, verdict, last, desc.URL)
	}
}

func checkURL(ctx context.Context, raw string) {
	if ctx == nil {
		ctx = context.Background()
	}
	d, err := buildDeps(ctx)
	if err != nil {
		log.Fatalf("starting the engine: %v", err)
	}
	defer d.Close()

	desc := source.Descriptor{Kind: source.KindURL, URL: raw}
	if d.gate.Allowed(desc) {
		fmt.Printf("allowed: %s\n", raw)
		return
	}
	fmt.Printf("denied: %s (host is not on the whitelist)\n", raw)
}
