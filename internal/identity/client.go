// Package identity wraps the external token verification service.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/papertrade/papertrade/internal/config"
	"github.com/papertrade/papertrade/internal/trading"
)

// Client verifies bearer tokens against the identity service REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new client targeting the given identity service URL.
func NewClient(cfg config.IdentityConfig) *Client {
	return &Client{
		baseURL:    cfg.URL,
		httpClient: &http.Client{Timeout: cfg.GetTimeout()},
	}
}

// NewClientWithURL creates a client with the default timeout. Used by tests.
func NewClientWithURL(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// VerifyToken exchanges a bearer token for a stable user identifier.
// POST /api/auth/verify with JSON body -> { status: "ok", data: { user_id } }
// Any 4xx response yields trading.ErrInvalidToken; the caller treats that
// as unauthenticated, never as a fault.
func (c *Client) VerifyToken(ctx context.Context, token string) (string, error) {
	bodyJSON, err := json.Marshal(map[string]string{"token": token})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/verify", bytes.NewReader(bodyJSON))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach identity service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return "", trading.ErrInvalidToken
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("identity service returned %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Status string `json:"status"`
		Data   struct {
			UserID string `json:"user_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if result.Data.UserID == "" {
		return "", trading.ErrInvalidToken
	}

	return result.Data.UserID, nil
}
