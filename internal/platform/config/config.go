package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// CORS
	AllowedOrigins []string

	// Gemini scoring backend
	GeminiAPIKey string
	GeminiModel  string

	// Batch matching policy
	MatchBatchSize       int
	MatchInterBatchDelay time.Duration
	MatchScoreTimeout    time.Duration

	// Rate limit for the batch-match trigger, e.g. "10-M" (10 per minute).
	MatchRunRateLimit string
}

// LoadConfig loads configuration from environment variables and a .env file
// if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ALLOWED_ORIGINS", []string{"http://localhost:3000"})
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	viper.SetDefault("MATCH_BATCH_SIZE", 10)
	viper.SetDefault("MATCH_INTER_BATCH_DELAY", "2s")
	viper.SetDefault("MATCH_SCORE_TIMEOUT", "30s")
	viper.SetDefault("MATCH_RUN_RATE_LIMIT", "10-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.AllowedOrigins = viper.GetStringSlice("ALLOWED_ORIGINS")

	cfg.GeminiAPIKey = viper.GetString("GEMINI_API_KEY")
	cfg.GeminiModel = viper.GetString("GEMINI_MODEL")
	if cfg.GeminiAPIKey == "" {
		log.Println("Warning: GEMINI_API_KEY environment variable not set. Batch matching will fail until it is provided.")
	}

	cfg.MatchBatchSize = viper.GetInt("MATCH_BATCH_SIZE")
	if cfg.MatchBatchSize <= 0 {
		return nil, fmt.Errorf("MATCH_BATCH_SIZE must be positive, got %d", cfg.MatchBatchSize)
	}

	delayStr := viper.GetString("MATCH_INTER_BATCH_DELAY")
	delay, err := time.ParseDuration(delayStr)
	if err != nil {
		return nil, fmt.Errorf("invalid MATCH_INTER_BATCH_DELAY %q: %w", delayStr, err)
	}
	cfg.MatchInterBatchDelay = delay

	timeoutStr := viper.GetString("MATCH_SCORE_TIMEOUT")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid MATCH_SCORE_TIMEOUT %q: %w", timeoutStr, err)
	}
	cfg.MatchScoreTimeout = timeout

	cfg.MatchRunRateLimit = viper.GetString("MATCH_RUN_RATE_LIMIT")

	return cfg, nil
}
