package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"campusdocs/internal/config"
)

// IdentityClient talks to the identity provider's admin REST API. The portal
// only needs one call: creating the fixed admin account at bootstrap.
type IdentityClient struct {
	baseURL string
	apiKey  string
	http    *http.Client

	adminEmail    string
	adminPassword string
}

// NewIdentityClient builds a client for the configured provider.
func NewIdentityClient(cfg config.AuthConfig) (*IdentityClient, error) {
	if cfg.IdentityURL == "" {
		return nil, fmt.Errorf("identity url is required")
	}
	return &IdentityClient{
		baseURL:       strings.TrimRight(cfg.IdentityURL, "/"),
		apiKey:        cfg.IdentityKey,
		http:          &http.Client{Timeout: time.Duration(cfg.ClientTimeoutSec) * time.Second},
		adminEmail:    cfg.AdminEmail,
		adminPassword: cfg.AdminPassword,
	}, nil
}

// NewIdentityClientForTest builds a client pointed at a test server.
func NewIdentityClientForTest(baseURL, email, password string) *IdentityClient {
	return &IdentityClient{
		baseURL:       strings.TrimRight(baseURL, "/"),
		http:          &http.Client{Timeout: 5 * time.Second},
		adminEmail:    email,
		adminPassword: password,
	}
}

// EnsureAdmin creates the fixed admin account on the identity provider.
// A conflict response means the account already exists and is treated as
// success, making the bootstrap idempotent.
func (c *IdentityClient) EnsureAdmin(ctx context.Context) error {
	if c.adminEmail == "" || c.adminPassword == "" {
		return fmt.Errorf("admin credentials are not configured")
	}

	body, err := json.Marshal(map[string]string{
		"email":    c.adminEmail,
		"password": c.adminPassword,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/users", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("identity provider request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusConflict:
		// Admin account already exists.
		return nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("identity provider returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
}
