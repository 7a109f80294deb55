package helix

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, opts Options) *Client {
	t.Helper()

	if opts.ClientID == "" {
		opts.ClientID = "test_client"
	}
	if opts.ClientSecret == "" {
		opts.ClientSecret = "test_secret"
	}

	client, err := NewClient(&opts)
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	_, err := NewClient(&Options{ClientID: "only_id"})
	assert.Error(t, err)

	_, err = NewClient(&Options{ClientSecret: "only_secret"})
	assert.Error(t, err)

	_, err = NewClient(nil)
	assert.Error(t, err)
}

func TestRefreshToken_Success(t *testing.T) {
	var callbackTokens []string

	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify request method and headers
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		// Verify form data
		err := r.ParseForm()
		require.NoError(t, err)
		assert.Equal(t, "test_client", r.FormValue("client_id"))
		assert.Equal(t, "test_secret", r.FormValue("client_secret"))
		assert.Equal(t, "client_credentials", r.FormValue("grant_type"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "new_access",
			"expires_in":   5011271,
			"token_type":   "bearer",
		})
	}))
	defer mockServer.Close()

	client := newTestClient(t, Options{
		TokenURL:       mockServer.URL,
		OnTokenRefresh: func(token string) { callbackTokens = append(callbackTokens, token) },
	})

	token, err := client.RefreshToken(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "new_access", token)
	assert.Equal(t, []string{"new_access"}, callbackTokens, "callback fires exactly once per refresh")
}

func TestEnsureToken_AcquiresOnlyOnce(t *testing.T) {
	tokenCalls := 0
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "acquired",
			"expires_in":   3600,
			"token_type":   "bearer",
		})
	}))
	defer mockServer.Close()

	client := newTestClient(t, Options{TokenURL: mockServer.URL})

	ctx := context.Background()
	first, err := client.ensureToken(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, first)

	second, err := client.ensureToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, tokenCalls, "held token must be reused, not re-acquired")
}

func TestEnsureToken_SuppliedTokenSkipsOAuth(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no OAuth call expected while a supplied token is held")
	}))
	defer mockServer.Close()

	client := newTestClient(t, Options{
		TokenURL:    mockServer.URL,
		AccessToken: "supplied",
	})

	token, err := client.ensureToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "supplied", token)
}

func TestRefreshToken_NonSuccessStatus(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"status":403,"message":"invalid client secret"}`))
	}))
	defer mockServer.Close()

	callbackCalls := 0
	client := newTestClient(t, Options{
		TokenURL:       mockServer.URL,
		OnTokenRefresh: func(string) { callbackCalls++ },
	})

	token, err := client.RefreshToken(context.Background())

	assert.Empty(t, token)
	require.Error(t, err)
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "invalid client secret")
	assert.Equal(t, 0, callbackCalls, "no callback on failed refresh")
}

func TestRefreshToken_MalformedJSON(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{invalid json`))
	}))
	defer mockServer.Close()

	client := newTestClient(t, Options{TokenURL: mockServer.URL})

	_, err := client.RefreshToken(context.Background())

	require.Error(t, err)
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestRefreshToken_MissingAccessToken(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"expires_in": 3600,
		})
	}))
	defer mockServer.Close()

	client := newTestClient(t, Options{TokenURL: mockServer.URL})

	_, err := client.RefreshToken(context.Background())

	require.Error(t, err)
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Contains(t, err.Error(), "no access token")
}

func TestRefreshToken_ReplacesPriorToken(t *testing.T) {
	counter := 0
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		counter++
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": map[int]string{1: "first", 2: "second"}[counter],
			"expires_in":   3600,
		})
	}))
	defer mockServer.Close()

	var seen []string
	client := newTestClient(t, Options{
		TokenURL:       mockServer.URL,
		OnTokenRefresh: func(token string) { seen = append(seen, token) },
	})

	ctx := context.Background()
	first, err := client.RefreshToken(ctx)
	require.NoError(t, err)
	second, err := client.RefreshToken(ctx)
	require.NoError(t, err)

	assert.Equal(t, "first", first)
	assert.Equal(t, "second", second)
	assert.Equal(t, []string{"first", "second"}, seen)

	// The discarded token is gone, the current one wins.
	current, err := client.ensureToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", current)
}

func TestRefreshToken_NetworkError(t *testing.T) {
	// Use an invalid URL to trigger network error
	client := newTestClient(t, Options{
		TokenURL: "http://invalid-host-that-does-not-exist-12345:9999/oauth2/token",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := client.RefreshToken(ctx)

	require.Error(t, err)
	var authErr *AuthError
	assert.False(t, errors.As(err, &authErr), "transient network errors surface unmodified, not as AuthError")
}
