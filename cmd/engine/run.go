package main

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one ingestion batch and print the report",
	Run: func(cmd *cobra.Command, _ []string) {
		runOnce(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runOnce(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	d, err := buildDeps(ctx)
	if err != nil {
		log.Fatalf("starting the engine: %v", err)
	}
	defer d.Close()

	d.log.Info("starting the engine", zap.String("version", version))

	report, ran := d.runner.RunNow(ctx)
	if !ran {
		d.log.Warn("a batch is already in flight, nothing to do")
		return
	}
	writeJSON(report)
}
