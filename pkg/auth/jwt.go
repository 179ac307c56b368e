package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// expiryMargin is how long before expiry a cached token is considered stale.
const expiryMargin = 30 * time.Second

// SignerConfig holds the service-account credentials used to mint tokens.
type SignerConfig struct {
	// KeyID identifies the service-account key; it is placed in the JWT
	// "kid" header and the "iss" claim.
	KeyID string

	// Secret is the HMAC signing secret for the key.
	Secret []byte

	// TTL is the lifetime of each minted token. Default: 5 minutes.
	TTL time.Duration
}

// applyDefaults fills in zero-value fields with sensible defaults.
func (c *SignerConfig) applyDefaults() {
	if c.TTL == 0 {
		c.TTL = 5 * time.Minute
	}
}

// Signer is a TokenSource that mints short-lived HS256 JWTs for a platform
// service account. Tokens are cached and reused until close to expiry.
type Signer struct {
	config SignerConfig

	// now allows injecting a clock in tests.
	now func() time.Time

	mu      sync.Mutex
	cached  string
	expires time.Time
}

// NewSigner creates a Signer for the given service-account credentials.
func NewSigner(cfg SignerConfig) (*Signer, error) {
	if cfg.KeyID == "" || len(cfg.Secret) == 0 {
		return nil, ErrNoCredentials
	}
	cfg.applyDefaults()
	return &Signer{config: cfg, now: time.Now}, nil
}

// Token returns a signed bearer token, minting a fresh one when the cached
// token is absent or within the expiry margin.
func (s *Signer) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.cached != "" && now.Before(s.expires.Add(-expiryMargin)) {
		return s.cached, nil
	}

	expires := now.Add(s.config.TTL)
	claims := jwtlib.RegisteredClaims{
		Issuer:    s.config.KeyID,
		IssuedAt:  jwtlib.NewNumericDate(now),
		ExpiresAt: jwtlib.NewNumericDate(expires),
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	token.Header["kid"] = s.config.KeyID

	signed, err := token.SignedString(s.config.Secret)
	if err != nil {
		return "", fmt.Errorf("signing service-account token: %w", err)
	}

	s.cached = signed
	s.expires = expires
	return signed, nil
}
