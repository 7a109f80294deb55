package helix

import "fmt"

// AuthError indicates that token acquisition or refresh failed, or that a
// request still received 401 after a forced refresh.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("twitch auth failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// APIError is any non-2xx Helix response other than the retried 401 case.
// Body carries the raw response body for caller diagnosis.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("helix request failed with status %d: %s", e.StatusCode, e.Body)
}
