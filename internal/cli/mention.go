package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"prospector/internal/store"
)

var (
	mentionFeed      string
	mentionSourceURL string
	mentionMetadata  string
)

// mentionCmd represents the mention command
var mentionCmd = &cobra.Command{
	Use:   "mention",
	Short: "Manage raw feed mentions",
}

var mentionAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Queue a raw mention for extraction",
	Long: `Add queues one raw mention for the next 'prospector analyze' run.

Example:
  prospector mention add "Apollo is great for cold outreach" --feed reddit`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(st *store.Store) error {
			ctx := context.Background()

			feed, err := st.FeedByName(ctx, mentionFeed)
			if err != nil {
				return fmt.Errorf("unknown feed %q: %w", mentionFeed, err)
			}

			id, err := st.AddMention(ctx, feed.ID, mentionSourceURL, args[0], mentionMetadata)
			if err != nil {
				return err
			}
			cmd.Printf("Mention %d queued on feed %s\n", id, feed.Name)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(mentionCmd)
	mentionCmd.AddCommand(mentionAddCmd)

	mentionAddCmd.Flags().StringVar(&mentionFeed, "feed", "web_search", "feed the mention came from")
	mentionAddCmd.Flags().StringVar(&mentionSourceURL, "url", "", "source URL of the mention")
	mentionAddCmd.Flags().StringVar(&mentionMetadata, "metadata", "", "JSON metadata blob")
}
