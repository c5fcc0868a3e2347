// internal/pkg/config/config.go
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App     AppConfig
	API     APIConfig
	Session SessionConfig
	UI      UIConfig
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Version     string
	LogLevel    string
	LogFormat   string // json, text
	Debug       bool
}

// APIConfig holds settings for the remote inventory API
type APIConfig struct {
	BaseURL         string
	Timeout         time.Duration
	RateLimitRPS    float64
	RateLimitBurst  int
	RequestIDHeader string
}

// SessionConfig holds session persistence configuration
type SessionConfig struct {
	Dir string // empty = user config dir
}

// UIConfig holds presentation configuration
type UIConfig struct {
	NoticeTTL      time.Duration
	ConfirmDeletes bool
}

// Load loads configuration from environment variables
func Load(logger *slog.Logger) (*Config, error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Load .env file in development
	if env == "development" || env == "local" {
		if err := godotenv.Load(); err != nil {
			logger.Debug("no .env file found, using environment variables",
				slog.String("error", err.Error()))
		}
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.SetTypeByDefaultValue(true)

	setDefaults()

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "sweetctl"),
			Environment: env,
			Version:     getEnv("APP_VERSION", "dev"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFormat:   getEnv("LOG_FORMAT", "text"),
			Debug:       getBoolEnv("APP_DEBUG", env == "development"),
		},
		API: APIConfig{
			BaseURL:         getEnv("API_BASE_URL", "http://localhost:8080/api"),
			Timeout:         getDurationEnv("API_TIMEOUT", 15*time.Second),
			RateLimitRPS:    getFloatEnv("API_RATE_LIMIT_RPS", 10),
			RateLimitBurst:  getIntEnv("API_RATE_LIMIT_BURST", 5),
			RequestIDHeader: getEnv("API_REQUEST_ID_HEADER", "X-Request-ID"),
		},
		Session: SessionConfig{
			Dir: getEnv("SESSION_DIR", ""),
		},
		UI: UIConfig{
			NoticeTTL:      getDurationEnv("UI_NOTICE_TTL", 3*time.Second),
			ConfirmDeletes: getBoolEnv("UI_CONFIRM_DELETES", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("API base URL is required")
	}
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("API base URL must be an http(s) URL")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("API timeout must be positive")
	}
	if c.API.RateLimitRPS < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}
	if c.UI.NoticeTTL <= 0 {
		return fmt.Errorf("notice TTL must be positive")
	}
	return nil
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "local"
}

// Helper functions

func setDefaults() {
	viper.SetDefault("app.name", "sweetctl")
	viper.SetDefault("app.environment", "development")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		f, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return defaultValue
}
