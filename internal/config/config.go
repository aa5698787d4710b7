package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers
const (
	StoreDriverFile   = "file"
	StoreDriverSQLite = "sqlite"
)

// Defaults that serverless adaptation may override
const (
	DefaultStorageLocalPath = "./data"
	DefaultDatabasePath     = "./data/notes.db"
)

// Config holds all configuration for the application
type Config struct {
	Environment string `validate:"required"`
	Port        string `validate:"required,numeric"`
	NotesRoute  string `validate:"required,startswith=/"`
	Store       StoreConfig
	Storage     StorageConfig
	Database    DatabaseConfig
	RateLimit   RateLimitConfig
	Log         LogConfig
}

// StoreConfig selects where the note collection is kept
type StoreConfig struct {
	Driver string `validate:"oneof=file sqlite"`
	// Key names the JSON document for the file driver
	Key string `validate:"required"`
}

// StorageConfig holds file storage configuration
type StorageConfig struct {
	Type          string `validate:"oneof=local mock"`
	LocalPath     string
	RetryAttempts int `validate:"gte=0"`
}

// RateLimitConfig configures the HTTP rate limiter. RPS 0 disables it.
type RateLimitConfig struct {
	RPS   float64 `validate:"gte=0"`
	Burst int     `validate:"gte=0"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `validate:"oneof=trace debug info warn error fatal"`
	Format string `validate:"oneof=text json"`
	File   string
}

// Load loads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8081")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("NOTES_ROUTE", "/api/notes")
	v.SetDefault("STORE_DRIVER", StoreDriverFile)
	v.SetDefault("NOTES_KEY", "notes.json")
	v.SetDefault("STORAGE_TYPE", "local")
	v.SetDefault("STORAGE_LOCAL_PATH", DefaultStorageLocalPath)
	v.SetDefault("STORAGE_RETRY_ATTEMPTS", 3)
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	setDatabaseDefaults(v)

	config := &Config{
		Environment: v.GetString("ENVIRONMENT"),
		Port:        v.GetString("PORT"),
		NotesRoute:  v.GetString("NOTES_ROUTE"),
		Store: StoreConfig{
			Driver: strings.ToLower(v.GetString("STORE_DRIVER")),
			Key:    v.GetString("NOTES_KEY"),
		},
		Storage: StorageConfig{
			Type:          strings.ToLower(v.GetString("STORAGE_TYPE")),
			LocalPath:     v.GetString("STORAGE_LOCAL_PATH"),
			RetryAttempts: v.GetInt("STORAGE_RETRY_ATTEMPTS"),
		},
		Database: loadDatabaseConfig(v),
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			Burst: v.GetInt("RATE_LIMIT_BURST"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("LOG_LEVEL")),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
			File:   v.GetString("LOG_FILE"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration values
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return c.Database.Validate()
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}
