package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"prospector/internal/model"
	"prospector/internal/store"
)

var changesSince time.Duration

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show pipeline statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(st *store.Store) error {
			ctx := context.Background()

			stats, err := st.Stats(ctx)
			if err != nil {
				return err
			}

			cmd.Println("Pipeline:")
			total := 0
			for _, status := range model.AllStatuses() {
				count := stats[status]
				total += count
				cmd.Printf("  %-10s %d\n", status, count)
			}
			cmd.Printf("  %-10s %d\n", "total", total)

			feeds, err := st.ListFeeds(ctx)
			if err != nil {
				return err
			}
			cmd.Println("\nFeeds:")
			for _, feed := range feeds {
				cmd.Printf("  %-14s %-14s mentions=%d useful=%d\n",
					feed.Name, feed.Reliability, feed.TotalMentions, feed.UsefulMentions)
			}
			return nil
		})
	},
}

// changesCmd represents the changes command
var changesCmd = &cobra.Command{
	Use:   "changes",
	Short: "List recently detected changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(st *store.Store) error {
			since := time.Now().Add(-changesSince)
			events, err := st.RecentChanges(context.Background(), since, 100)
			if err != nil {
				return err
			}
			if len(events) == 0 {
				cmd.Println("No changes detected")
				return nil
			}
			for _, event := range events {
				cmd.Printf("%s  candidate=%d  %-15s %s\n",
					event.DetectedAt.Format(time.RFC3339), event.CandidateID, event.Type, event.Description)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(changesCmd)

	changesCmd.Flags().DurationVar(&changesSince, "since", 7*24*time.Hour, "how far back to list changes")
}
