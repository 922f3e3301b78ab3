package integrations

import (
	"context"
	"errors"
	"net/http"

	werrors "github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/httputil"
)

var (
	// ErrNotFound is returned when a resource doesn't exist upstream.
	ErrNotFound = httputil.ErrNotFound

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = httputil.ErrNetwork

	// ErrRateLimited is returned when the upstream answers 429.
	ErrRateLimited = httputil.ErrRateLimited
)

// NewHTTPClient creates an HTTP client with the standard timeout for feed requests.
func NewHTTPClient() *http.Client {
	return httputil.NewHTTPClient()
}

// Classify attaches an error code to a transport failure so that feed
// consumers can react to its category: TIMEOUT, RATE_LIMITED, NOT_FOUND or
// NETWORK_ERROR. Nil, cancellation, already coded and unrecognized errors
// are returned unchanged. The sentinel stays reachable through errors.Is.
func Classify(err error, format string, args ...any) error {
	var code werrors.Code
	switch {
	case err == nil, errors.Is(err, context.Canceled), werrors.GetCode(err) != "":
		return err
	case errors.Is(err, context.DeadlineExceeded):
		code = werrors.ErrCodeTimeout
	case errors.Is(err, ErrRateLimited):
		code = werrors.ErrCodeRateLimited
	case errors.Is(err, ErrNotFound):
		code = werrors.ErrCodeNotFound
	case errors.Is(err, ErrNetwork):
		code = werrors.ErrCodeNetwork
	default:
		return err
	}
	return werrors.Wrap(code, err, format, args...)
}
