package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/animetimes/annbot/internal/dates"
)

type Config struct {
	// Telegram settings
	BotToken string
	ChatID   string

	// Source settings
	SourceConfigPath string
	ListingMode      string // "html" or "rss"

	// Freshness policy
	FreshnessPolicy dates.Policy
	FreshnessWindow time.Duration
	Timezone        string
	Location        *time.Location

	// Pipeline settings
	DetailWorkers int
	MaxNewsLimit  int

	// Network settings
	RequestTimeout time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration

	// Ledger settings
	LedgerPath string

	// Formatting
	FallbackImageURL string

	Debug bool
}

func Load() (*Config, error) {
	cfg := &Config{
		// Default values
		SourceConfigPath: "configs/source.yaml",
		ListingMode:      "html",
		FreshnessPolicy:  dates.PolicyWindow,
		FreshnessWindow:  24 * time.Hour,
		Timezone:         "UTC",
		DetailWorkers:    3,
		MaxNewsLimit:     10,
		RequestTimeout:   15 * time.Second,
		RetryAttempts:    3,
		RetryDelay:       2 * time.Second,
		LedgerPath:       "posted_news.json",
	}

	// Load from environment
	cfg.BotToken = os.Getenv("BOT_TOKEN")
	cfg.ChatID = os.Getenv("CHAT_ID")

	cfg.SourceConfigPath = getEnvOrDefault("SOURCE_CONFIG_PATH", cfg.SourceConfigPath)
	cfg.LedgerPath = getEnvOrDefault("LEDGER_FILE_PATH", cfg.LedgerPath)
	cfg.FallbackImageURL = os.Getenv("FALLBACK_IMAGE_URL")

	if mode := os.Getenv("LISTING_MODE"); mode != "" {
		cfg.ListingMode = mode
	}
	if policy := os.Getenv("FRESHNESS_POLICY"); policy != "" {
		cfg.FreshnessPolicy = dates.Policy(policy)
	}
	if hours := getEnvIntOrDefault("FRESHNESS_WINDOW_HOURS", 0); hours > 0 {
		cfg.FreshnessWindow = time.Duration(hours) * time.Hour
	}
	if tz := os.Getenv("TIMEZONE"); tz != "" {
		cfg.Timezone = tz
	}

	if workers := getEnvIntOrDefault("DETAIL_WORKERS", 0); workers > 0 {
		cfg.DetailWorkers = workers
	}
	if limit := getEnvIntOrDefault("MAX_NEWS_LIMIT", 0); limit > 0 {
		cfg.MaxNewsLimit = limit
	}

	if secs := getEnvIntOrDefault("REQUEST_TIMEOUT_SECONDS", 0); secs > 0 {
		cfg.RequestTimeout = time.Duration(secs) * time.Second
	}
	if attempts := getEnvIntOrDefault("RETRY_ATTEMPTS", 0); attempts > 0 {
		cfg.RetryAttempts = attempts
	}
	if secs := getEnvIntOrDefault("RETRY_DELAY_SECONDS", 0); secs > 0 {
		cfg.RetryDelay = time.Duration(secs) * time.Second
	}

	if os.Getenv("DEBUG") == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if c.ChatID == "" {
		return fmt.Errorf("CHAT_ID is required")
	}
	if c.ListingMode != "html" && c.ListingMode != "rss" {
		return fmt.Errorf("LISTING_MODE must be 'html' or 'rss'")
	}
	if c.FreshnessPolicy != dates.PolicyWindow && c.FreshnessPolicy != dates.PolicyCalendarDay {
		return fmt.Errorf("FRESHNESS_POLICY must be 'window' or 'calendar-day'")
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("TIMEZONE %q is invalid: %w", c.Timezone, err)
	}
	c.Location = loc

	return nil
}
