package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"campusdocs/internal/config"
)

// Claims carried by identity-provider tokens. Only subject and email are
// consumed; any valid token grants access (single-admin-account assumption).
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// JWKSVerifier validates RS256 tokens against the identity provider's JWKS
// endpoint. Keys are fetched over HTTP and refreshed in the background.
type JWKSVerifier struct {
	keys   keyfunc.Keyfunc
	leeway time.Duration
}

// NewJWKSVerifier builds a verifier from the configured JWKS URL.
// The initial fetch is allowed to fail so the service can start before the
// identity provider is reachable.
func NewJWKSVerifier(cfg config.AuthConfig) (*JWKSVerifier, error) {
	if cfg.JWKSURL == "" {
		return nil, fmt.Errorf("auth jwks url is required")
	}

	store, err := jwkset.NewStorageFromHTTP(cfg.JWKSURL, jwkset.HTTPClientStorageOptions{
		Client:                    &http.Client{Timeout: time.Duration(cfg.ClientTimeoutSec) * time.Second},
		NoErrorReturnFirstHTTPReq: true,
		RefreshInterval:           time.Duration(cfg.RefreshIntervalSec) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("create jwks storage: %w", err)
	}

	keys, err := keyfunc.New(keyfunc.Options{Storage: store})
	if err != nil {
		return nil, fmt.Errorf("create keyfunc: %w", err)
	}

	return &JWKSVerifier{
		keys:   keys,
		leeway: time.Duration(cfg.LeewaySec) * time.Second,
	}, nil
}

// NewJWKSVerifierWithKeyfunc builds a verifier with a caller-supplied keyfunc.
// Used by tests to substitute static key sets.
func NewJWKSVerifierWithKeyfunc(kf keyfunc.Keyfunc, leeway time.Duration) *JWKSVerifier {
	return &JWKSVerifier{keys: kf, leeway: leeway}
}

var _ Verifier = (*JWKSVerifier)(nil)

// Verify parses and validates the token, returning its principal.
func (v *JWKSVerifier) Verify(ctx context.Context, token string) (*Principal, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, v.keys.KeyfuncCtx(ctx),
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return nil, ErrInvalidToken
	}

	return &Principal{Subject: subject, Email: claims.Email}, nil
}
