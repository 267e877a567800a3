package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"prospector/internal/score"
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score <candidate-id>",
	Short: "Score a single candidate's relevance",
	Long: `Score computes the relevance score of one candidate from its
category, claims and description, and prints the score with the
reasons that contributed to it. The score is not persisted; run
'prospector curate' to score and promote in one pass.

Example:
  prospector score 42`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	candidateID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid candidate id %q", args[0])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	result, err := score.NewScorer(st).Score(context.Background(), candidateID)
	if err != nil {
		return err
	}

	cmd.Printf("Candidate %d: %.3f\n", result.CandidateID, result.Relevance)
	cmd.Printf("Claims: %d, feeds: %d\n", result.ClaimCount, result.FeedCount)
	for _, reason := range result.Reasons {
		cmd.Printf("  - %s\n", reason)
	}
	return nil
}
