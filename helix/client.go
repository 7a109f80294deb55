package helix

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const (
	defaultAPIBaseURL = "https://api.twitch.tv/helix"
	defaultTokenURL   = "https://id.twitch.tv/oauth2/token"

	defaultHTTPTimeout = 10 * time.Second
)

// Options configures a Client. ClientID and ClientSecret are required;
// everything else has a working default.
type Options struct {
	ClientID     string
	ClientSecret string

	// AccessToken seeds the client with an existing app access token. When
	// set, no OAuth call happens until a request comes back 401.
	AccessToken string

	// OnTokenRefresh is invoked with the new token every time a refresh
	// actually happens, so the caller can persist it. May be nil.
	OnTokenRefresh func(token string)

	// HTTPClient overrides the default client (10s timeout).
	HTTPClient *http.Client

	// APIBaseURL and TokenURL override the Twitch endpoints, mainly for
	// tests against httptest servers.
	APIBaseURL string
	TokenURL   string
}

// Client is a connection to the Twitch Helix API. Each Client owns its own
// token; the refresh path is the only synchronized section, so a Client is
// safe to share across goroutines.
type Client struct {
	clientID     string
	clientSecret string

	httpClient *http.Client
	apiBaseURL string
	tokenURL   string

	onTokenRefresh func(token string)

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

// envelope is the Helix response wrapper around every resource.
type envelope struct {
	Data       []map[string]any `json:"data"`
	Pagination struct {
		Cursor string `json:"cursor"`
	} `json:"pagination"`
	Total int `json:"total"`
}

// NewClient creates a Client from opts. It performs no network I/O; a token
// is acquired lazily on the first authenticated request.
func NewClient(opts *Options) (*Client, error) {
	if opts == nil || opts.ClientID == "" || opts.ClientSecret == "" {
		return nil, errors.New("helix: client id and client secret are required")
	}

	c := &Client{
		clientID:       opts.ClientID,
		clientSecret:   opts.ClientSecret,
		accessToken:    opts.AccessToken,
		onTokenRefresh: opts.OnTokenRefresh,
		httpClient:     opts.HTTPClient,
		apiBaseURL:     opts.APIBaseURL,
		tokenURL:       opts.TokenURL,
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	if c.apiBaseURL == "" {
		c.apiBaseURL = defaultAPIBaseURL
	}
	if c.tokenURL == "" {
		c.tokenURL = defaultTokenURL
	}

	return c, nil
}

// Get performs an authenticated GET against a Helix resource (for example
// "games/top") and returns the decoded "data" array.
func (c *Client) Get(ctx context.Context, endpoint string, params url.Values) ([]map[string]any, error) {
	env, err := c.request(ctx, http.MethodGet, endpoint, params, nil)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Post performs an authenticated POST against a Helix resource. Query
// parameters and the JSON body are both optional; body is JSON-encoded when
// non-nil. Returns the decoded "data" array.
func (c *Client) Post(ctx context.Context, endpoint string, params url.Values, body any) ([]map[string]any, error) {
	env, err := c.request(ctx, http.MethodPost, endpoint, params, body)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// request issues one authenticated call, retrying exactly once after a forced
// token refresh when the first attempt comes back 401. A second 401 is an
// AuthError. The retried flag is scoped to this call, never to the client.
func (c *Client) request(ctx context.Context, method, endpoint string, params url.Values, body any) (*envelope, error) {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return nil, err
	}

	env, status, err := c.doRequest(ctx, method, endpoint, params, body, token)
	if err != nil || status != http.StatusUnauthorized {
		return env, err
	}

	slog.Debug("helix request unauthorized, refreshing app access token", "endpoint", endpoint)
	token, err = c.RefreshToken(ctx)
	if err != nil {
		return nil, err
	}

	env, status, err = c.doRequest(ctx, method, endpoint, params, body, token)
	if status == http.StatusUnauthorized {
		return nil, &AuthError{Err: fmt.Errorf("request to %q unauthorized after token refresh", endpoint)}
	}
	return env, err
}

// doRequest performs a single HTTP exchange. For a 401 it returns the status
// with a nil error so the caller can decide to refresh; any other non-2xx
// becomes an APIError.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, params url.Values, body any, token string) (*envelope, int, error) {
	reqURL := c.apiBaseURL + "/" + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Client-Id", c.clientID)
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("helix request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, resp.StatusCode, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var env envelope
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &env); err != nil {
			return nil, resp.StatusCode, fmt.Errorf("failed to decode helix response: %w", err)
		}
	}

	slog.Debug("helix request completed", "method", method, "endpoint", endpoint, "records", len(env.Data))
	return &env, resp.StatusCode, nil
}
