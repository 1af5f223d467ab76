package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	customerrors "github.com/axellelanca/linkpool/internal/errors"
)

// Config represents the main structure mapping the entire application configuration.
// This struct uses mapstructure tags to map YAML keys and environment variables to Go struct fields.
type Config struct {
	// Server configuration section containing HTTP server settings
	Server struct {
		Port    int    `mapstructure:"port"`     // HTTP server port (default: 8080)
		BaseURL string `mapstructure:"base_url"` // Base URL printed for created links
	} `mapstructure:"server"`

	// Database configuration section
	Database struct {
		Driver string `mapstructure:"driver"` // "sqlite" or "postgres"
		Name   string `mapstructure:"name"`   // SQLite database file name
		DSN    string `mapstructure:"dsn"`    // Postgres connection string
	} `mapstructure:"database"`

	// Links configuration: resolution and code generation policy
	Links struct {
		TargetCap          int  `mapstructure:"target_cap"`           // Max targets loaded per link
		CodeLength         int  `mapstructure:"code_length"`          // Length of generated short codes
		CodeRetries        int  `mapstructure:"code_retries"`         // Attempts for generated codes before giving up
		PermanentByDefault bool `mapstructure:"permanent_by_default"` // Redirect mode when the request omits it
	} `mapstructure:"links"`

	// Counters configuration for detached visit increments
	Counters struct {
		TimeoutSeconds int `mapstructure:"timeout_seconds"`
	} `mapstructure:"counters"`

	// Monitor configuration for destination health checking
	Monitor struct {
		Enabled         bool `mapstructure:"enabled"`
		IntervalMinutes int  `mapstructure:"interval_minutes"` // Interval in minutes between health checks
	} `mapstructure:"monitor"`
}

// CounterTimeout returns the deadline given to each visit increment.
func (c *Config) CounterTimeout() time.Duration {
	return time.Duration(c.Counters.TimeoutSeconds) * time.Second
}

// MonitorInterval returns the delay between two monitor passes.
func (c *Config) MonitorInterval() time.Duration {
	return time.Duration(c.Monitor.IntervalMinutes) * time.Minute
}

// Validate checks that the loaded values can drive the service.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Name == "" {
			return errors.New("database.name is required for sqlite")
		}
	case "postgres":
		if c.Database.DSN == "" {
			return errors.New("database.dsn is required for postgres")
		}
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}
	if c.Links.TargetCap < 1 {
		return fmt.Errorf("links.target_cap must be positive, got %d", c.Links.TargetCap)
	}
	if c.Links.CodeLength < 1 {
		return fmt.Errorf("links.code_length must be positive, got %d", c.Links.CodeLength)
	}
	if c.Links.CodeRetries < 1 {
		return fmt.Errorf("links.code_retries must be positive, got %d", c.Links.CodeRetries)
	}
	if c.Counters.TimeoutSeconds < 1 {
		return fmt.Errorf("counters.timeout_seconds must be positive, got %d", c.Counters.TimeoutSeconds)
	}
	if c.Monitor.Enabled && c.Monitor.IntervalMinutes < 1 {
		return fmt.Errorf("monitor.interval_minutes must be positive, got %d", c.Monitor.IntervalMinutes)
	}
	return nil
}

// LoadConfig loads the application configuration using Viper.
// An optional .env file is applied to the environment first, then
// environment variables override ./configs/config.yaml, which overrides defaults.
func LoadConfig() (*Config, error) {
	// Missing .env is the normal case outside local development
	_ = godotenv.Load()

	v := viper.New()

	// e.g., "links.target_cap" becomes "LINKS_TARGET_CAP"
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.AddConfigPath("./configs")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.name", "linkpool.db")
	v.SetDefault("database.dsn", "")
	v.SetDefault("links.target_cap", 10)
	v.SetDefault("links.code_length", 5)
	v.SetDefault("links.code_retries", 3)
	v.SetDefault("links.permanent_by_default", false)
	v.SetDefault("counters.timeout_seconds", 5)
	v.SetDefault("monitor.enabled", false)
	v.SetDefault("monitor.interval_minutes", 5)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Println("Config file not found, using default values")
		} else {
			return nil, customerrors.ErrConfigLoad{Path: "./configs/config.yaml", Reason: err.Error()}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Printf("Configuration loaded: Server Port=%d, DB Driver=%s, Target Cap=%d, Code Length=%d",
		cfg.Server.Port, cfg.Database.Driver, cfg.Links.TargetCap, cfg.Links.CodeLength)

	return &cfg, nil
}
