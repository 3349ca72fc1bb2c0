package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken   string
	DiscordGuildID string

	// Database configuration
	DatabaseURL string

	// Per-guild defaults, applied when a guild has no stored value
	DefaultPrefix        string
	DefaultUsePagination bool

	// Game content API
	PssAPIBaseURL string

	// Hour in UTC at which the autodaily poster runs (0-23)
	AutodailyPostHour int

	// Environment
	Environment string // "development" or "production"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// Discord
		DiscordToken:   os.Getenv("DISCORD_TOKEN"),
		DiscordGuildID: os.Getenv("DISCORD_GUILD_ID"),

		// Database
		DatabaseURL: os.Getenv("DATABASE_URL"),

		// Defaults
		DefaultPrefix:        "/",
		DefaultUsePagination: true,
		PssAPIBaseURL:        "https://api.pixelstarships.com/",
		AutodailyPostHour:    12,

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if prefix := os.Getenv("DEFAULT_PREFIX"); prefix != "" {
		config.DefaultPrefix = prefix
	}
	if pagination := os.Getenv("DEFAULT_USE_PAGINATION"); pagination != "" {
		config.DefaultUsePagination = pagination == "true"
	}
	if baseURL := os.Getenv("PSS_API_BASE_URL"); baseURL != "" {
		config.PssAPIBaseURL = baseURL
	}
	if hour := os.Getenv("AUTODAILY_POST_HOUR"); hour != "" {
		if parsedHour, err := strconv.Atoi(hour); err == nil && parsedHour >= 0 && parsedHour <= 23 {
			config.AutodailyPostHour = parsedHour
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
