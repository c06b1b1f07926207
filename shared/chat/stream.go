package chat

import (
	"fmt"
	"time"

	stream "github.com/GetStream/stream-chat-go/v5"
	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// StreamTokenIssuer issues Stream Chat tokens for authenticated users.
type StreamTokenIssuer struct {
	client *stream.Client
	config *streamConfig
}

// NewStreamTokenIssuer creates a token issuer backed by the Stream Chat API.
func NewStreamTokenIssuer(logger *zerolog.Logger) *StreamTokenIssuer {
	cfg := newStreamConfig(logger)

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate Stream Chat configuration")
	}

	client, err := stream.NewClient(cfg.APIKey, cfg.APISecret)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create Stream Chat client")
	}

	return &StreamTokenIssuer{
		client: client,
		config: cfg,
	}
}

// IssueToken returns an opaque chat token identifying the given user.
func (s *StreamTokenIssuer) IssueToken(userID string) (string, error) {
	expire := time.Time{}
	if s.config.TokenTTL > 0 {
		expire = time.Now().Add(s.config.TokenTTL)
	}

	return s.client.CreateToken(userID, expire)
}

// streamConfig holds Stream Chat API credentials.
type streamConfig struct {
	APIKey    string        `env:"STREAM_API_KEY"`
	APISecret string        `env:"STREAM_API_SECRET"`
	TokenTTL  time.Duration `env:"STREAM_TOKEN_TTL"`
}

func newStreamConfig(logger *zerolog.Logger) *streamConfig {
	cfg, err := env.ParseAs[streamConfig]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	return &cfg
}

func (c *streamConfig) validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("missing STREAM_API_KEY environment variable")
	}
	if c.APISecret == "" {
		return fmt.Errorf("missing STREAM_API_SECRET environment variable")
	}

	return nil
}
