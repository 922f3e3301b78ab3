package errors

import (
	"math"
	"net/url"
)

// MaxColumns bounds the column count accepted from user input. The engine
// itself has no upper limit; this keeps CLI and HTTP callers from asking for
// absurd grids.
const MaxColumns = 64

// ValidateColumns checks a column count supplied by a caller.
func ValidateColumns(n int) error {
	if n < 1 {
		return New(ErrCodeInvalidConfiguration, "column count must be at least 1, got %d", n)
	}
	if n > MaxColumns {
		return New(ErrCodeInvalidConfiguration, "column count too large (max %d), got %d", MaxColumns, n)
	}
	return nil
}

// ValidateHeight checks that an item height is a finite positive number.
func ValidateHeight(id string, h float64) error {
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return New(ErrCodeInvalidItem, "item %q: height must be finite", id)
	}
	if h <= 0 {
		return New(ErrCodeInvalidItem, "item %q: height must be positive, got %g", id, h)
	}
	return nil
}

// ValidateURL checks that rawURL is an absolute http or https URL with a
// host. Photo URLs end up in SVG image references, so nothing else is
// accepted.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "malformed URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme, got %q", u.Scheme)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL %q has no host", rawURL)
	}
	return nil
}
