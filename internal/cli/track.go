package cli

import (
	"context"

	"github.com/spf13/cobra"

	"prospector/internal/tracker"
)

// trackCmd represents the track command
var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Check approved candidates' webpages for changes",
	Long: `Track fetches the webpage of every approved candidate, compares it
against the last stored snapshot and records pricing, feature, content
and title changes in the changelog. Fetch failures are logged and
skipped; they never abort the batch.

Example:
  prospector track`,
	RunE: runTrack,
}

func init() {
	rootCmd.AddCommand(trackCmd)
}

func runTrack(cmd *cobra.Command, args []string) error {
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

	t := tracker.New(st, tracker.Options{
		Timeout:           cfg.HTTP.Timeout,
		UserAgent:         cfg.HTTP.UserAgent,
		MaxBodyBytes:      cfg.HTTP.MaxBodyBytes,
		RespectRobots:     cfg.HTTP.RespectRobots,
		RobotsTTL:         cfg.HTTP.RobotsTTL,
		Workers:           cfg.Tracker.Workers,
		RequestsPerSecond: cfg.Tracker.RequestsPerSecond,
		Burst:             cfg.Tracker.Burst,
	}, logger)

	summary, err := t.Run(context.Background())
	if err != nil {
		return err
	}

	return printJSON(cmd, summary)
}
