package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	err := New(ErrCodeInvalidItem, "item %q: height must be positive", "p1")
	if err.Code != ErrCodeInvalidItem {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidItem)
	}
	if want := `INVALID_ITEM: item "p1": height must be positive`; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	wrapped := Wrap(ErrCodeTimeout, context.DeadlineExceeded, "picsum page %d", 3)
	if want := "TIMEOUT: picsum page 3: context deadline exceeded"; wrapped.Error() != want {
		t.Errorf("Error() = %q, want %q", wrapped.Error(), want)
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeNetwork, cause, "load page")

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false")
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}

	var e *Error
	if !errors.As(fmt.Errorf("feed: %w", err), &e) || e.Code != ErrCodeNetwork {
		t.Errorf("errors.As through fmt wrapping = %v", e)
	}
}

func TestIs(t *testing.T) {
	columns := New(ErrCodeInvalidConfiguration, "column count must be at least 1, got 0")
	item := New(ErrCodeInvalidItem, "item %q: height must be positive, got 0", "a")

	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"direct", columns, ErrCodeInvalidConfiguration, true},
		{"other code", columns, ErrCodeInvalidItem, false},
		{"outer code wins first", Wrap(ErrCodeNetwork, item, "outer"), ErrCodeNetwork, true},
		{"inner code found", Wrap(ErrCodeNetwork, item, "outer"), ErrCodeInvalidItem, true},
		{"fmt wrapped", fmt.Errorf("layout: %w", columns), ErrCodeInvalidConfiguration, true},
		{"joined batch", errors.Join(errors.New("x"), item), ErrCodeInvalidItem, true},
		{"joined without code", errors.Join(errors.New("x"), errors.New("y")), ErrCodeInvalidItem, false},
		{"plain", errors.New("plain"), ErrCodeInvalidInput, false},
		{"nil", nil, ErrCodeInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is(%v, %s) = %v, want %v", tt.err, tt.code, got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"coded", New(ErrCodeRateLimited, "slow down"), ErrCodeRateLimited},
		{"wrapped", fmt.Errorf("render: %w", New(ErrCodeInvalidFormat, "gif")), ErrCodeInvalidFormat},
		{"plain", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	coded := fmt.Errorf("invalid options: %w", New(ErrCodeInvalidStyle, "unknown style %q", "neon"))
	if got, want := UserMessage(coded), `unknown style "neon"`; got != want {
		t.Errorf("UserMessage(coded) = %q, want %q", got, want)
	}
	if got, want := UserMessage(errors.New("disk full")), "disk full"; got != want {
		t.Errorf("UserMessage(plain) = %q, want %q", got, want)
	}
}
