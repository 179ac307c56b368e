// Package auth provides bearer-token credentials for the platform API.
//
// Two credential kinds exist: plain API keys (StaticKey) and platform
// service accounts, which authenticate with short-lived HMAC-signed JWTs
// minted from a key-id/secret pair (Signer).
package auth

import (
	"context"
	"errors"
)

// ErrNoCredentials is returned by token sources that have nothing to offer.
var ErrNoCredentials = errors.New("no credentials configured")

// TokenSource yields the bearer token placed in the Authorization header of
// every platform request. Implementations must be safe for concurrent use.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticKey is a TokenSource backed by a fixed platform API key.
type StaticKey string

// Token returns the key verbatim.
func (k StaticKey) Token(ctx context.Context) (string, error) {
	if k == "" {
		return "", ErrNoCredentials
	}
	return string(k), nil
}
