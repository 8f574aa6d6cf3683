// Package config provides configuration management for the ResolveX
// services.
//
// This package handles loading configuration from environment
// variables, validating required settings, and providing sensible
// defaults for optional parameters. Configuration is loaded once at
// startup and remains immutable during runtime for thread-safety.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (highest priority)
//  2. .env file in the working directory (fallback)
//  3. Hard-coded defaults (lowest priority)
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
//
// This struct is immutable after creation to ensure thread-safety.
type Config struct {
	// Backend service
	Port   int    // HTTP listen port for the backend service
	DBFile string // Path of the JSON document file

	// Client core
	CacheDir    string        // Directory for the local cache store
	APIBaseURL  string        // Base URL of the backend API, e.g. "http://localhost:3000/api"
	HTTPTimeout time.Duration // Timeout applied to every backend request

	// Telegram notifications (optional)
	TelegramBotToken string // Telegram bot API token
	TelegramChatID   string // Telegram chat ID for notifications

	// Debug mode - notifications are logged instead of sent
	DebugMode bool
}

// Load loads configuration from environment variables with defaults.
//
// A .env file in the working directory is read first so that local
// development does not require exporting variables; real environment
// variables always win.
//
// Returns:
//   - *Config: Fully populated configuration struct
//   - error: Validation error if a value is unusable
func Load() (*Config, error) {
	// Optional; absence just means plain environment variables.
	_ = godotenv.Load()

	cfg := &Config{
		Port:   getEnvInt("PORT", 3000),
		DBFile: getEnvOrDefault("DB_FILE", "db.json"),

		CacheDir:    getEnvOrDefault("CACHE_DIR", ".resolvex"),
		APIBaseURL:  getEnvOrDefault("API_BASE_URL", "http://localhost:3000/api"),
		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 10*time.Second),

		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   os.Getenv("TELEGRAM_CHAT_ID"),

		DebugMode: getEnvOrDefault("DEBUG_MODE", "false") == "true",
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present and values
// are sensible.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be a valid port number, got %d", c.Port)
	}
	if c.DBFile == "" {
		return fmt.Errorf("DB_FILE cannot be empty")
	}
	if c.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL cannot be empty")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.HTTPTimeout)
	}
	return nil
}

// Helper functions for environment variable parsing

// getEnvOrDefault returns the environment variable value or a default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as an integer or a default if not set/invalid
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns the environment variable as a duration or a
// default if not set/invalid.
//
// Accepts standard Go duration strings like "5s", "10m", "1h30m"
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
