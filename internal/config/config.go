// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/radif/mediarelay/internal/media"
	"github.com/radif/mediarelay/pkg/logger"
)

// DefaultMediaBaseURL is the media server upload root; the target group is appended to it.
const DefaultMediaBaseURL = "http://media2.medianet:8080/upload/"

// ErrMissingCredentials is returned when the media upload credentials are not set.
var ErrMissingCredentials = errors.New("media upload credentials not configured")

// Config holds all runtime configuration for the relay.
type Config struct {
	Port     string
	AppEnv   string
	LogLevel string

	// Remote media server
	MediaBaseURL        string
	MediaUploadUser     string
	MediaUploadPassword string

	// Optional: Bearer JWT guard on relay routes when non-empty.
	JWTSecret string
	// Optional: attempt journal when non-empty.
	DatabaseURL string

	AllowedOrigins []string
}

// Load reads configuration from a .env file (if present) and environment
// variables. Missing media credentials fail startup rather than every upload.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Log.Debug().Msg("no .env file found, reading from environment")
	}

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		MediaBaseURL:        getEnv("MEDIA_UPLOAD_URL", DefaultMediaBaseURL),
		MediaUploadUser:     os.Getenv("MEDIA_UPLOAD_USER"),
		MediaUploadPassword: os.Getenv("MEDIA_UPLOAD_PASSWORD"),

		JWTSecret:   os.Getenv("JWT_SECRET"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	var missing []string
	if cfg.MediaUploadUser == "" {
		missing = append(missing, "MEDIA_UPLOAD_USER")
	}
	if cfg.MediaUploadPassword == "" {
		missing = append(missing, "MEDIA_UPLOAD_PASSWORD")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}

	return cfg, nil
}

// Endpoint returns the immutable remote media server settings.
func (c *Config) Endpoint() media.Endpoint {
	return media.Endpoint{
		BaseURL:  c.MediaBaseURL,
		Username: c.MediaUploadUser,
		Password: c.MediaUploadPassword,
	}
}

// IsProduction returns true when the app is running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// JournalEnabled reports whether upload attempts should be persisted.
func (c *Config) JournalEnabled() bool {
	return c.DatabaseURL != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
