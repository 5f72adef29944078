// Tests for server.go: routing, parameter validation, and payload shapes,
// using a stub resolver.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hlsgate/hlsgate/internal/models"
	"github.com/hlsgate/hlsgate/internal/progress"
)

type stubResolver struct {
	lastURL      string
	lastProvider string
	source       models.StreamSource
	clearErr     error
	clearCalls   int
}

func (s *stubResolver) Resolve(_ context.Context, rawURL, provider string) models.StreamSource {
	s.lastURL = rawURL
	s.lastProvider = provider
	return s.source
}

func (s *stubResolver) ClearCache() error {
	s.clearCalls++
	return s.clearErr
}

func newTestServer(t *testing.T, stub *stubResolver) (*httptest.Server, *progress.Notifier) {
	t.Helper()
	notifier := progress.NewNotifier()
	srv := httptest.NewServer(New(stub, notifier).Handler())
	t.Cleanup(srv.Close)
	return srv, notifier
}

func TestServer_Resolve(t *testing.T) {
	t.Parallel()
	stub := &stubResolver{source: models.StreamSource{
		URI:     "/cache/abc.m3u8",
		Headers: map[string]string{},
	}}
	srv, _ := newTestServer(t, stub)

	res, err := http.Get(srv.URL + "/resolve?url=https%3A%2F%2Fcdn.test%2Fep.m3u8&provider=gogoanime")
	if err != nil {
		t.Fatalf("GET /resolve failed: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", res.StatusCode)
	}
	var src models.StreamSource
	if err := json.NewDecoder(res.Body).Decode(&src); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if src.URI != "/cache/abc.m3u8" {
		t.Errorf("URI = %s, want the resolver's result", src.URI)
	}
	if stub.lastURL != "https://cdn.test/ep.m3u8" || stub.lastProvider != "gogoanime" {
		t.Errorf("resolver called with (%s, %s)", stub.lastURL, stub.lastProvider)
	}
}

func TestServer_ResolveRequiresURL(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t, &stubResolver{})

	res, err := http.Get(srv.URL + "/resolve?provider=gogoanime")
	if err != nil {
		t.Fatalf("GET /resolve failed: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 without a url parameter", res.StatusCode)
	}
}

func TestServer_Progress(t *testing.T) {
	t.Parallel()
	srv, notifier := newTestServer(t, &stubResolver{})
	notifier.Publish(models.NewProgressSnapshot(10, 5, 2))

	res, err := http.Get(srv.URL + "/progress")
	if err != nil {
		t.Fatalf("GET /progress failed: %v", err)
	}
	defer res.Body.Close()

	var snapshot models.ProgressSnapshot
	if err := json.NewDecoder(res.Body).Decode(&snapshot); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if snapshot.Total != 10 || snapshot.Completed != 5 || snapshot.Percentage != 50 {
		t.Errorf("snapshot = %+v, want the published one", snapshot)
	}
}

func TestServer_ClearCache(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		clearErr   error
		wantStatus int
	}{
		{"success", nil, http.StatusNoContent},
		{"failure", errors.New("disk trouble"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			stub := &stubResolver{clearErr: tt.clearErr}
			srv, _ := newTestServer(t, stub)

			res, err := http.Post(srv.URL+"/cache/clear", "", nil)
			if err != nil {
				t.Fatalf("POST /cache/clear failed: %v", err)
			}
			defer res.Body.Close()

			if res.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", res.StatusCode, tt.wantStatus)
			}
			if stub.clearCalls != 1 {
				t.Errorf("ClearCache called %d times, want 1", stub.clearCalls)
			}
		})
	}
}

func TestServer_ClearCacheRejectsGet(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t, &stubResolver{})

	res, err := http.Get(srv.URL + "/cache/clear")
	if err != nil {
		t.Fatalf("GET /cache/clear failed: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405 for GET on a POST route", res.StatusCode)
	}
}

func TestServer_Healthz(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t, &stubResolver{})

	res, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz failed: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", res.StatusCode)
	}
}
