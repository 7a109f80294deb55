package helix

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// ensureToken returns the held app access token, acquiring one via the
// client-credentials grant if none is held yet. It never refreshes a token
// that is already present; expiry is handled reactively on 401.
func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" {
		return c.accessToken, nil
	}
	return c.refreshTokenLocked(ctx)
}

// RefreshToken forces acquisition of a new app access token regardless of
// current state, replaces the held token, and invokes the refresh callback
// with the new value. The previous token is discarded.
func (c *Client) RefreshToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshTokenLocked(ctx)
}

// refreshTokenLocked performs the client-credentials grant. Callers must hold
// c.mu so concurrent refreshes cannot race.
func (c *Client) refreshTokenLocked(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &AuthError{Err: fmt.Errorf("token endpoint returned status %d: %s", resp.StatusCode, string(body))}
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", &AuthError{Err: fmt.Errorf("malformed token response: %w", err)}
	}
	if token.AccessToken == "" {
		return "", &AuthError{Err: fmt.Errorf("token response contains no access token")}
	}

	c.accessToken = token.AccessToken
	c.expiresAt = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)

	if c.onTokenRefresh != nil {
		c.onTokenRefresh(token.AccessToken)
	}

	slog.Debug("refreshed app access token", "expires_in", token.ExpiresIn)
	return c.accessToken, nil
}
