package model

import "time"

// Config holds the full application configuration
type Config struct {
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
	HTTP     HTTPConfig     `yaml:"http" mapstructure:"http"`
	Curation CurationConfig `yaml:"curation" mapstructure:"curation"`
	Tracker  TrackerConfig  `yaml:"tracker" mapstructure:"tracker"`
	LLM      LLMConfig      `yaml:"llm" mapstructure:"llm"`
	Logging  LoggingConfig  `yaml:"logging" mapstructure:"logging"`
}

// DatabaseConfig configures the SQLite store
type DatabaseConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// HTTPConfig configures page fetching for the update tracker
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_bytes" mapstructure:"max_bytes"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	RobotsTTL     time.Duration `yaml:"robots_ttl" mapstructure:"robots_ttl"`
}

// CurationConfig configures scoring thresholds and the review queue cap.
// The similarity thresholds and keyword weights are hand-tuned values
// carried over from operating the pipeline; they are configuration, not
// derived constants.
type CurationConfig struct {
	MinRelevance   float64 `yaml:"min_relevance" mapstructure:"min_relevance"`
	AutoMerge      bool    `yaml:"auto_merge" mapstructure:"auto_merge"`
	MaxReviewQueue int     `yaml:"max_review_queue" mapstructure:"max_review_queue"`
	NameThreshold  float64 `yaml:"name_threshold" mapstructure:"name_threshold"`
	URLThreshold   float64 `yaml:"url_threshold" mapstructure:"url_threshold"`
}

// TrackerConfig configures the update-check batch
type TrackerConfig struct {
	Workers           int     `yaml:"workers" mapstructure:"workers"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// LLMConfig configures the extraction analyzer
type LLMConfig struct {
	APIKey    string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// LoggingConfig configures structured logging output
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "db/prospector.db",
		},
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "Prospector/0.1 (product change tracker)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
			RobotsTTL:     time.Hour,
		},
		Curation: CurationConfig{
			MinRelevance:   0.3,
			AutoMerge:      true,
			MaxReviewQueue: 50,
			NameThreshold:  0.85,
			URLThreshold:   0.90,
		},
		Tracker: TrackerConfig{
			Workers:           4,
			RequestsPerSecond: 1.0,
			Burst:             3,
		},
		LLM: LLMConfig{
			Model:     "gpt-4o-mini",
			MaxTokens: 2000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
