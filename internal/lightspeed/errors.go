package lightspeed

import (
	"errors"
	"fmt"
)

// ErrorKind classifies client failures so callers can decide between
// fail-fast and resume-next-run without string matching.
type ErrorKind string

const (
	// KindAuth is a 401 from upstream. Fatal, never retried.
	KindAuth ErrorKind = "authentication"
	// KindRateLimit is a 429 whose single automatic retry also failed.
	KindRateLimit ErrorKind = "rate_limit"
	// KindAPI covers every other non-200 response.
	KindAPI ErrorKind = "api"
	// KindNetwork covers transport-level failures (timeouts, resets).
	KindNetwork ErrorKind = "network"
)

// APIError is the single error type surfaced by the client.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("lightspeed %s error (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("lightspeed %s error: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// IsAuthError reports whether err is a 401 classification.
func IsAuthError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindAuth
}

// IsRateLimitError reports whether err is an exhausted 429 retry.
func IsRateLimitError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindRateLimit
}
