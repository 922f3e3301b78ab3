package httputil

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// DefaultTimeout bounds every request made by [NewHTTPClient] clients.
const DefaultTimeout = 10 * time.Second

var (
	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for transport failures and unexpected statuses.
	ErrNetwork = errors.New("network error")

	// ErrRateLimited is returned for 429 responses.
	ErrRateLimited = errors.New("rate limited")
)

// NewHTTPClient creates an HTTP client with the standard timeout.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: DefaultTimeout}
}

// StatusError classifies a response. 200 yields nil, 404 ErrNotFound,
// 429 a retryable ErrRateLimited honoring Retry-After (seconds), 5xx a
// retryable ErrNetwork and anything else a plain ErrNetwork.
func StatusError(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests:
		re := &RetryableError{Err: ErrRateLimited}
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
			re.After = time.Duration(secs) * time.Second
		}
		return re
	case code >= 500:
		return &RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
