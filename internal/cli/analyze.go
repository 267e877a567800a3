package cli

import (
	"context"

	"github.com/spf13/cobra"

	"prospector/internal/extract"
)

var (
	analyzeMock  bool
	analyzeLimit int
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Extract candidates and claims from unprocessed mentions",
	Long: `Analyze runs the extraction analyzer over raw mentions that have not
been processed yet. Extracted products enter the pipeline in the
analyzing state; claims attach to the product they describe.

By default the OpenAI analyzer is used (requires OPENAI_API_KEY or
llm.api_key in the config). With --mock a pattern-based analyzer runs
instead, which needs no API access.

Example:
  prospector analyze
  prospector analyze --mock --limit 25`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().BoolVar(&analyzeMock, "mock", false, "use the pattern analyzer instead of the OpenAI API")
	analyzeCmd.Flags().IntVar(&analyzeLimit, "limit", 10, "maximum mentions to process")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	var analyzer extract.Analyzer
	if analyzeMock {
		analyzer = extract.NewPatternAnalyzer()
	} else {
		analyzer, err = extract.NewOpenAIAnalyzer(cfg.LLM)
		if err != nil {
			return err
		}
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	summary, err := extract.NewProcessor(st, analyzer, logger).Run(context.Background(), analyzeLimit)
	if err != nil {
		return err
	}

	return printJSON(cmd, summary)
}
