// Package httputil provides HTTP plumbing shared by photo source clients.
//
// # Retry
//
// [Retry] re-runs an operation with exponential backoff when it fails with
// a [RetryableError]. Clients wrap transient failures (connection errors,
// 5xx responses, 429 rate limits) in RetryableError and return everything
// else unwrapped so it fails fast:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    return fetchPage(ctx, page)
//	})
//
// A RetryableError may carry a server-supplied delay (Retry-After), which
// replaces the backoff delay for the next attempt.
//
// # Clients
//
// [NewHTTPClient] returns an *http.Client with the standard request timeout.
// [StatusError] maps a response status code to the error classes above.
package httputil
