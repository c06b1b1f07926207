package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config holds all configuration for the collab service.
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"collab-service"`
	HTTPHost    string `env:"HTTP_HOST"    envDefault:"0.0.0.0"`
	HTTPPort    int    `env:"HTTP_PORT"    envDefault:"3333"`

	MongoURI      string `env:"MONGO_URI"      envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"teamforge"`

	ConsulEnabled bool `env:"CONSUL_ENABLED" envDefault:"false"`

	Token TokenConfig

	// OTPExpiryMinutes is the lifetime of emailed verification codes.
	OTPExpiryMinutes int `env:"OTP_EXPIRY_MINUTES" envDefault:"10"`

	// TwoFactorIssuer is the issuer name shown in authenticator apps.
	TwoFactorIssuer string `env:"TWO_FACTOR_ISSUER" envDefault:"TeamForge"`
}

// TokenConfig holds session-token signing configuration.
type TokenConfig struct {
	Secret           string        `env:"JWT_SECRET"`
	Issuer           string        `env:"JWT_ISSUER"               envDefault:"teamforge"`
	SessionExpiresIn time.Duration `env:"SESSION_TOKEN_EXPIRES_IN" envDefault:"1h"`
}

// OTPExpiry returns the verification-code lifetime as a duration.
func (c *Config) OTPExpiry() time.Duration {
	return time.Duration(c.OTPExpiryMinutes) * time.Minute
}

// New creates a Config instance from environment variables.
func New(logger *zerolog.Logger) *Config {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate configuration")
	}

	return &cfg
}

// validate checks if the configuration is valid.
func (c *Config) validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("missing MONGO_URI environment variable")
	}
	if c.Token.Secret == "" {
		return fmt.Errorf("missing JWT_SECRET environment variable")
	}
	if c.OTPExpiryMinutes <= 0 {
		return fmt.Errorf("OTP_EXPIRY_MINUTES must be positive")
	}

	return nil
}
