package apperrors

import "fmt"

// ErrTransport represents a failed fetch: connection error, timeout, or a
// non-2xx upstream status. Status is zero when no response was received.
type ErrTransport struct {
	URL    string
	Status int
	Cause  error
}

// Error implements the error interface.
func (e *ErrTransport) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch of %s returned status %d", e.URL, e.Status)
	}
	if e.Cause != nil {
		return fmt.Sprintf("fetch of %s failed: %v", e.URL, e.Cause)
	}
	return fmt.Sprintf("fetch of %s failed", e.URL)
}

// Unwrap returns the underlying cause, if any.
func (e *ErrTransport) Unwrap() error {
	return e.Cause
}

// Is allows for error checking with errors.Is().
func (e *ErrTransport) Is(target error) bool {
	_, ok := target.(*ErrTransport)
	return ok
}

// NewTransportError creates a new ErrTransport for a request that failed
// before producing a response.
func NewTransportError(url string, cause error) *ErrTransport {
	return &ErrTransport{URL: url, Cause: cause}
}

// NewTransportStatusError creates a new ErrTransport for a non-2xx response.
func NewTransportStatusError(url string, status int) *ErrTransport {
	return &ErrTransport{URL: url, Status: status}
}

// ErrParse is returned when fetched content carries no recognizable playlist
// directive or URI. Callers treat it as "no usable content" and move on.
type ErrParse struct {
	Reason string
}

// Error implements the error interface.
func (e *ErrParse) Error() string {
	return fmt.Sprintf("playlist parse failed: %s", e.Reason)
}

// Is allows for error checking with errors.Is().
func (e *ErrParse) Is(target error) bool {
	_, ok := target.(*ErrParse)
	return ok
}

// NewParseError creates a new ErrParse.
func NewParseError(reason string) *ErrParse {
	return &ErrParse{Reason: reason}
}

// ErrCacheWrite is returned when a cache write produced a zero-byte file.
type ErrCacheWrite struct {
	Path string
}

// Error implements the error interface.
func (e *ErrCacheWrite) Error() string {
	return fmt.Sprintf("cache write to %s produced an empty file", e.Path)
}

// Is allows for error checking with errors.Is().
func (e *ErrCacheWrite) Is(target error) bool {
	_, ok := target.(*ErrCacheWrite)
	return ok
}

// NewCacheWriteError creates a new ErrCacheWrite.
func NewCacheWriteError(path string) *ErrCacheWrite {
	return &ErrCacheWrite{Path: path}
}

// ErrLoopGuard is returned when proxy URL unwrapping hit its iteration bound
// while the value still matched a known proxy shape. Non-fatal: the caller
// receives the partially-unwrapped URL alongside this error.
type ErrLoopGuard struct {
	URL        string
	Iterations int
}

// Error implements the error interface.
func (e *ErrLoopGuard) Error() string {
	return fmt.Sprintf("proxy unwrap of %s did not converge after %d iterations", e.URL, e.Iterations)
}

// Is allows for error checking with errors.Is().
func (e *ErrLoopGuard) Is(target error) bool {
	_, ok := target.(*ErrLoopGuard)
	return ok
}

// NewLoopGuardError creates a new ErrLoopGuard.
func NewLoopGuardError(url string, iterations int) *ErrLoopGuard {
	return &ErrLoopGuard{URL: url, Iterations: iterations}
}
