package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the AR memo service.
// Environment variables are parsed from the ARMEMO_ prefix.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// MongoDB Configuration
	MongoURI      string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDatabase string `envconfig:"MONGO_DATABASE" default:"armemo"`

	// Object storage (GCS)
	GCSBucket          string `envconfig:"GCS_BUCKET" default:""`
	GCSCredentialsFile string `envconfig:"GCS_CREDENTIALS_FILE" default:""`

	// Signed read/upload URL lifetime
	SignedURLTTLMinutes int `envconfig:"SIGNED_URL_TTL_MINUTES" default:"15"`

	// Auth
	JWTSecret string `envconfig:"JWT_SECRET" default:""`

	// Upload limits
	MaxUploadBytes int64 `envconfig:"MAX_UPLOAD_BYTES" default:"10485760"`
}

// Validate checks settings that have no usable default.
func (c *Config) Validate() error {
	if c.Environment != EnvDevelopment && c.Environment != EnvProduction {
		return fmt.Errorf("unsupported ENVIRONMENT: %s", c.Environment)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("ARMEMO_JWT_SECRET is required")
	}
	if c.SignedURLTTLMinutes <= 0 {
		return fmt.Errorf("ARMEMO_SIGNED_URL_TTL_MINUTES must be positive")
	}
	return nil
}

// IsProduction reports whether the service runs with production error policy.
func (c *Config) IsProduction() bool { return c.Environment == EnvProduction }

// New creates a new Config by parsing environment variables.
// Example: ARMEMO_HTTP_PORT, ARMEMO_MONGO_URI, ARMEMO_GCS_BUCKET.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("ARMEMO", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Int("port", cfg.HTTPPort).
		Str("mongo_database", cfg.MongoDatabase).
		Str("gcs_bucket", cfg.GCSBucket).
		Int("signed_url_ttl_minutes", cfg.SignedURLTTLMinutes).
		Msg("Configuration loaded")

	return &cfg, nil
}
