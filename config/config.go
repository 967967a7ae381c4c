package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/cmertnic/EXPBOT/models"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken   string
	DiscordGuildID string

	// Database configuration
	DatabaseURL string

	// Defaults applied when a server's settings row is first created
	DefaultLogChannelName  string
	DefaultLanguage        string
	DefaultGrantRoles      string
	DefaultRevokeRoles     string
	DefaultVoiceGrantRoles string
	DefaultQueryRoles      string

	// Environment
	Environment string // "development", "production" or "test"
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

		// Settings defaults
		DefaultLogChannelName:  getEnvOrDefault("DEFAULT_LOG_CHANNEL", "logs"),
		DefaultLanguage:        getEnvOrDefault("DEFAULT_LANGUAGE", models.LanguageEnglish),
		DefaultGrantRoles:      os.Getenv("DEFAULT_GRANT_ROLES"),
		DefaultRevokeRoles:     os.Getenv("DEFAULT_REVOKE_ROLES"),
		DefaultVoiceGrantRoles: os.Getenv("DEFAULT_VOICE_GRANT_ROLES"),
		DefaultQueryRoles:      os.Getenv("DEFAULT_QUERY_ROLES"),

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.DefaultLanguage != models.LanguageEnglish && config.DefaultLanguage != models.LanguageRussian {
		return nil, fmt.Errorf("DEFAULT_LANGUAGE must be %q or %q, got %q",
			models.LanguageEnglish, models.LanguageRussian, config.DefaultLanguage)
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

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
