package client

import (
	"fmt"

	"github.com/modelfan/modelfan-go/pkg/auth"
	"github.com/modelfan/modelfan-go/pkg/config"
	"github.com/modelfan/modelfan-go/pkg/debug"
)

// NewFromConfig builds a Client from a loaded configuration: it initializes
// debug logging, constructs the token source named by auth.type, and applies
// the endpoint settings.
func NewFromConfig(cfg *config.Config) (*Client, error) {
	debug.Init(cfg.Debug.Categories, cfg.Debug.Level)

	tokens, err := tokenSource(cfg.Auth)
	if err != nil {
		return nil, err
	}

	return New(cfg.Client.BaseURL, tokens, cfg.Client.Timeout), nil
}

// tokenSource builds the auth.TokenSource for the configured auth type.
func tokenSource(cfg config.AuthConfig) (auth.TokenSource, error) {
	switch cfg.Type {
	case "apikey":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("building token source: %w", auth.ErrNoCredentials)
		}
		return auth.StaticKey(cfg.APIKey), nil

	case "service_account":
		signer, err := auth.NewSigner(auth.SignerConfig{
			KeyID:  cfg.KeyID,
			Secret: []byte(cfg.Secret),
			TTL:    cfg.TokenTTL,
		})
		if err != nil {
			return nil, fmt.Errorf("building token source: %w", err)
		}
		return signer, nil

	default:
		return nil, fmt.Errorf("unknown auth type %q", cfg.Type)
	}
}
