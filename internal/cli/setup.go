package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/viper"

	"prospector/internal/logging"
	"prospector/internal/model"
	"prospector/internal/store"
)

// loadDefaults returns the built-in defaults for flag registration,
// before viper has read any config file.
func loadDefaults() *model.Config {
	return model.DefaultConfig()
}

// loadConfig merges the config file and PROSPECTOR_* environment
// variables over the built-in defaults.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	return cfg, nil
}

func newLogger(cfg *model.Config) (*slog.Logger, error) {
	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	return logging.New(logging.Options{Level: level, Format: cfg.Logging.Format})
}

func openStore(cfg *model.Config) (*store.Store, error) {
	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}
