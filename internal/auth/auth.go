// Package auth delegates authentication to the external identity provider.
// Tokens are verified locally against the provider's published JWKS; account
// management goes through the provider's REST API.
package auth

import (
	"context"
	"errors"
)

// ErrInvalidToken is returned by Verifier implementations for any token that
// fails validation (bad signature, expired, malformed, missing subject).
var ErrInvalidToken = errors.New("invalid token")

// Principal is the authenticated identity attached to a request.
type Principal struct {
	Subject string
	Email   string
}

// Verifier validates a bearer token and resolves its principal.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Principal, error)
}
