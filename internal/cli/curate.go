package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"prospector/internal/curator"
	"prospector/internal/dedup"
	"prospector/internal/score"
)

var (
	curateMinRelevance float64
	curateAutoMerge    bool
	curateMaxQueue     int
)

// curateCmd represents the curate command
var curateCmd = &cobra.Command{
	Use:   "curate",
	Short: "Run one curation pass: dedup, score and promote candidates",
	Long: `Curate runs the full pipeline over candidates in the analyzing state:
- detect and merge duplicate candidates
- score every candidate for relevance
- promote the best candidates into the review queue, best first,
  without exceeding the queue capacity

Example:
  prospector curate
  prospector curate --min-relevance 0.5 --max-queue 20 --auto-merge=false`,
	RunE: runCurate,
}

func init() {
	rootCmd.AddCommand(curateCmd)

	defaults := loadDefaults()
	curateCmd.Flags().Float64Var(&curateMinRelevance, "min-relevance", defaults.Curation.MinRelevance, "minimum relevance score for promotion")
	curateCmd.Flags().BoolVar(&curateAutoMerge, "auto-merge", defaults.Curation.AutoMerge, "merge detected duplicates automatically")
	curateCmd.Flags().IntVar(&curateMaxQueue, "max-queue", defaults.Curation.MaxReviewQueue, "review queue capacity")
}

func runCurate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	detector := dedup.NewDetector(st, cfg.Curation.NameThreshold, cfg.Curation.URLThreshold)
	scorer := score.NewScorer(st)
	c := curator.New(st, detector, scorer, logger)

	summary, err := c.Run(context.Background(), curator.Options{
		MinRelevance:   curateMinRelevance,
		AutoMerge:      curateAutoMerge,
		MaxReviewQueue: curateMaxQueue,
	})
	if err != nil {
		return err
	}

	return printJSON(cmd, summary)
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
