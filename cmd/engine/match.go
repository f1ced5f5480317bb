package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/match"
	"jobmatch-engine/internal/profile"
	"jobmatch-engine/internal/store"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score the stored postings against a profile and print the ranked results",
	Run: func(cmd *cobra.Command, _ []string) {
		runMatch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("profile", "p", "", "profile id in the profiles dir, or a path to a profile YAML")
	matchCmd.Flags().IntP("top", "n", 0, "print at most N results (default scoring.top_n)")
	matchCmd.Flags().Float64("min-score", -1, "hide results below this score (default scoring.min_score)")
	matchCmd.Flags().Bool("out-json", false, "print results as JSON instead of a table")

	matchCmd.MarkFlagRequired("profile")
}

func runMatch(cmd *cobra.Command) {
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

	postings, err := d.store.ListPostings(ctx, store.ListOptions{ActiveOnly: true})
	if err != nil {
		d.log.Fatal("listing postings", zap.Error(err))
	}
	if len(postings) == 0 {
		d.log.Info("no postings stored yet, run an ingestion batch first")
		return
	}

	engine := match.NewEngine(d.weights, time.Now().UTC())
	ranked := match.Rank(engine.ScoreAll(prof, postings))

	topN, _ := cmd.Flags().GetInt("top")
	if topN <= 0 {
		topN = d.cfg.Scoring.TopN
	}
	minScore, _ := cmd.Flags().GetFloat64("min-score")
	if minScore < 0 {
		minScore = d.cfg.Scoring.MinScore
	}

	var shown []domain.MatchResult
	for _, r := range ranked {
		if r.Score < minScore || len(shown) >= topN {
			break
		}
		shown = append(shown, r)
	}

	if ok, _ := cmd.Flags().GetBool("out-json"); ok {
		writeJSON(shown)
		return
	}
	renderMatches(shown, len(ranked))
}

// resolveProfile accepts either a profile id or a direct path to a
// profile YAML file.
func resolveProfile(ctx context.Context, d *deps, ref string) (domain.Profile, error) {
	if strings.ContainsAny(ref, "/\\") || strings.HasSuffix(ref, ".yml") || strings.HasSuffix(ref, ".yaml") {
		return profile.LoadFile(ref)
	}
	return d.profiles.Get(ctx, ref)
}

func renderMatches(results []domain.MatchResult, total int) {
	if len(results) == 0 {
		fmt.Println("no postings met the score threshold")
		return
	}
	w := os.Stdout
	fmt.Fprintf(w, "%-6s %-40s %-20s %-10s %s\n", "SCORE", "TITLE", "COMPANY", "CONF", "MISSING")
	for _, r := range results {
		fmt.Fprintf(w, "%-6.1f %-40s %-20s %-10s %s\n",
			r.Score,
			clip(r.PostingTitle, 40),
			clip(r.PostingCompany, 20),
			r.Confidence,
			strings.Join(r.MissingSkills, ","))
	}
	fmt.Fprintf(w, "\n%d of %d scored postings shown\n", len(results), total)
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
