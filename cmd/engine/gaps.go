package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobmatch-engine/internal/events"
	"jobmatch-engine/internal/skillgap"
)

var gapsCmd = &cobra.Command{
	Use:   "gaps",
	Short: "Analyze the skill gaps between a profile and a posting or role",
	Long: `Computes per-skill gaps, a readiness score, and a prioritized learning
path for a profile against either a stored posting (by url hash) or a
named role template from the skill catalog. Each run persists a new
analysis version and deactivates the previous one.`,
	Run: func(cmd *cobra.Command, _ []string) {
		runGaps(cmd)
	},
}

func init() {
	rootCmd.AddCommand(gapsCmd)

	gapsCmd.Flags().StringP("profile", "p", "", "profile id in the profiles dir, or a path to a profile YAML")
	gapsCmd.Flags().String("posting", "", "url hash of a stored posting to analyze against")
	gapsCmd.Flags().String("role", "", "role template from the skill catalog to analyze against")

	gapsCmd.MarkFlagRequired("profile")
	gapsCmd.MarkFlagsOneRequired("posting", "role")
	gapsCmd.MarkFlagsMutuallyExclusive("posting", "role")
}

func runGaps(cmd *cobra.Command) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	d, err := buildDeps(ctx)
	if err != nil {
		log.Fatalf("starting the engine: %v", err)
	}
	defer d.Close()

	prof, err := resolveProfile(ctx, d, cmd.Flag("profile").Value.String())
	if err != nil {
		d.log.Fatal("loading profile", zap.Error(err))
	}

	var target skillgap.Target
	if hash := cmd.Flag("posting").Value.String(); hash != "" {
		posting, err := d.store.GetPosting(ctx, hash)
		if err != nil {
			d.log.Fatal("loading posting", zap.String("url_hash", hash), zap.Error(err))
		}
		target = skillgap.TargetFromPosting(posting)
	} else {
		role := cmd.Flag("role").Value.String()
		target, err = d.catalog.RoleTarget(role)
		if err != nil {
			d.log.Fatal("resolving role", zap.String("role", role), zap.Error(err))
		}
	}

	analysis := skillgap.NewAnalyzer(d.catalog).Analyze(prof, target)
	analysis.ID = uuid.NewString()
	analysis.CreatedAt = time.Now().UTC()

	if err := d.store.SaveAnalysis(ctx, analysis); err != nil {
		d.log.Fatal("saving analysis", zap.Error(err))
	}
	d.hub.Publish(events.Make("", events.TypeAnalysisCreated, map[string]any{
		"id":         analysis.ID,
		"profile_id": analysis.ProfileID,
		"readiness":  analysis.ReadinessScore,
	}))
	d.log.Info("analysis saved",
		zap.String("id", analysis.ID),
		zap.Float64("readiness", analysis.ReadinessScore),
		zap.Int("gaps", len(analysis.Gaps)),
		zap.Int("total_hours", analysis.TotalHours))

	writeJSON(analysis)
}
