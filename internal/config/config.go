package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

// Config holds all environment backed configuration for the service.
type Config struct {
	Mode Mode `env:"INSIGHTS_MODE" envDefault:"local"`

	Port string `env:"INSIGHTS_PORT" envDefault:"8080"`

	GCPProjectID string `env:"INSIGHTS_GCP_PROJECT"`
	GCPLocation  string `env:"INSIGHTS_GCP_LOCATION" envDefault:"us-central1"`

	// Models behind the sentiment and similarity capabilities.
	SentimentModel string `env:"INSIGHTS_SENTIMENT_MODEL" envDefault:"gemini-2.5-flash-lite"`
	EmbeddingModel string `env:"INSIGHTS_EMBEDDING_MODEL" envDefault:"gemini-embedding-001"`

	StorageBackend string `env:"INSIGHTS_STORAGE_BACKEND" envDefault:"memory"` // "memory" or "firestore"
	UseMockScorers bool   `env:"INSIGHTS_USE_MOCK_SCORERS"`                    // true = heuristic scorers even on GCP

	// Upper bound on each external model call; a timeout degrades that
	// sub-metric instead of failing the analysis.
	ScorerTimeout time.Duration `env:"INSIGHTS_SCORER_TIMEOUT" envDefault:"10s"`

	// Background analyzer that picks up conversations without a report.
	AnalyzerEnabled         bool `env:"INSIGHTS_ANALYZER_ENABLED" envDefault:"true"`
	AnalyzerIntervalMinutes int  `env:"INSIGHTS_ANALYZER_INTERVAL_MINUTES" envDefault:"5"`

	LogLevel string `env:"INSIGHTS_LOG_LEVEL" envDefault:"info"`
}

// Load reads all env vars and builds the config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config from env: %w", err)
	}

	switch cfg.Mode {
	case ModeLocal, ModeGCP:
	default:
		cfg.Mode = ModeLocal
	}

	// Local mode without a GCP project falls back to the heuristic
	// scorers so the service runs with no cloud credentials at all.
	if cfg.Mode == ModeLocal && cfg.GCPProjectID == "" {
		cfg.UseMockScorers = true
	}

	// Minimal validation in GCP mode.
	if cfg.Mode == ModeGCP && cfg.GCPProjectID == "" {
		return nil, fmt.Errorf("INSIGHTS_GCP_PROJECT must be set in gcp mode")
	}
	if cfg.StorageBackend == "firestore" && cfg.GCPProjectID == "" {
		return nil, fmt.Errorf("INSIGHTS_GCP_PROJECT is required for the firestore storage backend")
	}

	return cfg, nil
}
