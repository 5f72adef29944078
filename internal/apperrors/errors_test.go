// Package apperrors tests verify the custom error types (ErrTransport,
// ErrParse, ErrCacheWrite, ErrLoopGuard), their Error() messages, Is()
// matching semantics, constructor helpers, and compatibility with
// errors.Is() including through fmt.Errorf wrapping.
package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrTransport_Error(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      *ErrTransport
		expected string
	}{
		{
			name:     "with status",
			err:      &ErrTransport{URL: "https://cdn.test/pl.m3u8", Status: 503},
			expected: "fetch of https://cdn.test/pl.m3u8 returned status 503",
		},
		{
			name:     "with cause",
			err:      &ErrTransport{URL: "https://cdn.test/pl.m3u8", Cause: errors.New("dial tcp: timeout")},
			expected: "fetch of https://cdn.test/pl.m3u8 failed: dial tcp: timeout",
		},
		{
			name:     "bare",
			err:      &ErrTransport{URL: "https://cdn.test/pl.m3u8"},
			expected: "fetch of https://cdn.test/pl.m3u8 failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := tt.err.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrTransport_Is(t *testing.T) {
	t.Parallel()

	err := NewTransportStatusError("https://cdn.test/a.ts", 429)
	if !errors.Is(err, &ErrTransport{}) {
		t.Error("errors.Is() should match another ErrTransport")
	}
	if errors.Is(err, &ErrParse{}) {
		t.Error("errors.Is() should not match ErrParse")
	}

	wrapped := fmt.Errorf("attempt 2: %w", err)
	if !errors.Is(wrapped, &ErrTransport{}) {
		t.Error("errors.Is() should match through fmt.Errorf wrapping")
	}
}

func TestErrTransport_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := NewTransportError("https://cdn.test/a.ts", cause)
	if !errors.Is(err, cause) {
		t.Error("errors.Is() should reach the underlying cause")
	}
}

func TestErrParse(t *testing.T) {
	t.Parallel()

	err := NewParseError("no #EXTM3U header")
	want := "playlist parse failed: no #EXTM3U header"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, &ErrParse{}) {
		t.Error("errors.Is() should match another ErrParse")
	}
	if errors.Is(err, &ErrCacheWrite{}) {
		t.Error("errors.Is() should not match ErrCacheWrite")
	}
}

func TestErrCacheWrite(t *testing.T) {
	t.Parallel()

	err := NewCacheWriteError("/tmp/hls/abc.ts")
	want := "cache write to /tmp/hls/abc.ts produced an empty file"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, &ErrCacheWrite{}) {
		t.Error("errors.Is() should match another ErrCacheWrite")
	}
}

func TestErrLoopGuard(t *testing.T) {
	t.Parallel()

	err := NewLoopGuardError("https://proxy.test/?url=...", 5)
	want := "proxy unwrap of https://proxy.test/?url=... did not converge after 5 iterations"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, &ErrLoopGuard{}) {
		t.Error("errors.Is() should match another ErrLoopGuard")
	}
	if errors.Is(err, &ErrTransport{}) {
		t.Error("errors.Is() should not match ErrTransport")
	}
}
