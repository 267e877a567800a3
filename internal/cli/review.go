package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"prospector/internal/lifecycle"
	"prospector/internal/model"
	"prospector/internal/store"
)

var rejectReason string

// reviewCmd represents the review command
var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Record approve/reject decisions on candidates",
}

var reviewListCmd = &cobra.Command{
	Use:   "list",
	Short: "List candidates awaiting review",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(st *store.Store) error {
			candidates, err := st.CandidatesByStatus(context.Background(), model.StatusReview)
			if err != nil {
				return err
			}
			if len(candidates) == 0 {
				cmd.Println("Review queue is empty")
				return nil
			}
			for _, c := range candidates {
				score := "unscored"
				if c.RelevanceScore != nil {
					score = fmt.Sprintf("%.3f", *c.RelevanceScore)
				}
				cmd.Printf("%4d  %-24s %-10s %s  %s\n", c.ID, c.Name, c.Category, score, c.URL)
			}
			return nil
		})
	},
}

var reviewApproveCmd = &cobra.Command{
	Use:   "approve <candidate-id>",
	Short: "Approve a candidate into the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDecision(cmd, args[0], model.StatusApproved, "")
	},
}

var reviewRejectCmd = &cobra.Command{
	Use:   "reject <candidate-id>",
	Short: "Reject a candidate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDecision(cmd, args[0], model.StatusRejected, rejectReason)
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)
	reviewCmd.AddCommand(reviewListCmd)
	reviewCmd.AddCommand(reviewApproveCmd)
	reviewCmd.AddCommand(reviewRejectCmd)

	reviewRejectCmd.Flags().StringVar(&rejectReason, "reason", "", "why the candidate was rejected")
}

func runDecision(cmd *cobra.Command, rawID string, status model.Status, reason string) error {
	candidateID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid candidate id %q", rawID)
	}

	return withStore(func(st *store.Store) error {
		machine := lifecycle.New(st)
		if err := machine.SetStatus(context.Background(), candidateID, status, reason); err != nil {
			return err
		}
		cmd.Printf("Candidate %d set to %s\n", candidateID, status)
		return nil
	})
}

// withStore opens the configured store, runs fn and closes it.
func withStore(fn func(*store.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	return fn(st)
}
