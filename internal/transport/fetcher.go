// Package transport provides the HTTP fetch primitive the rest of the
// pipeline consumes: one call, explicit headers, a bounded timeout, and a
// fully buffered response.
package transport

import (
	"context"
	"net/http"
)

// FetchResult is the buffered outcome of one fetch.
type FetchResult struct {
	Status int
	Body   []byte
	Header http.Header
}

// OK reports whether the response carried a 2xx status.
func (r *FetchResult) OK() bool {
	return r != nil && r.Status >= 200 && r.Status < 300
}

// Fetcher executes a single GET with the given headers. Implementations
// return an error only for request-level failures (connect, timeout, read);
// a non-2xx status is reported through FetchResult.Status.
type Fetcher interface {
	Fetch(ctx context.Context, url string, headers map[string]string) (*FetchResult, error)
}
