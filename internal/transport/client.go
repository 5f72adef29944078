package transport

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/timeout"

	"github.com/hlsgate/hlsgate/internal/apperrors"
	"github.com/hlsgate/hlsgate/internal/config"
)

// defaultTimeout bounds every fetch in this subsystem. CDN stalls surface
// as ordinary fetch failures, not distinct cancellation signals.
const defaultTimeout = 10 * time.Second

// HTTPFetcher implements Fetcher on net/http with transparent response
// decompression and a failsafe timeout policy per call.
type HTTPFetcher struct {
	client  *http.Client
	timeout timeout.Timeout[*FetchResult]
}

// NewHTTPFetcher creates a fetcher using the configured client timeout.
func NewHTTPFetcher(cfg *config.Config) *HTTPFetcher {
	perFetch := defaultTimeout
	if cfg != nil && cfg.ClientTimeout != "" {
		if parsed, err := time.ParseDuration(cfg.ClientTimeout); err != nil {
			logger := config.GetLogger()
			logger.Warn().Err(err).Str("timeout", cfg.ClientTimeout).Msg("Invalid timeout duration, using default 10s")
		} else {
			perFetch = parsed
		}
	}

	// Clone DefaultTransport to preserve its connection pooling and HTTP/2
	// settings, then add transparent decompression on top.
	base := http.DefaultTransport.(*http.Transport).Clone()

	return &HTTPFetcher{
		client: &http.Client{
			Transport: newDecompressionTransport(base),
		},
		timeout: timeout.With[*FetchResult](perFetch),
	}
}

// Fetch executes one GET. The timeout policy covers the whole exchange,
// headers through body.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string, headers map[string]string) (*FetchResult, error) {
	return failsafe.Get(func() (*FetchResult, error) {
		return f.fetch(ctx, url, headers)
	}, f.timeout)
}

func (f *HTTPFetcher) fetch(ctx context.Context, url string, headers map[string]string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.NewTransportError(url, err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", config.GetUserAgent())
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, apperrors.NewTransportError(url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewTransportError(url, err)
	}

	return &FetchResult{
		Status: resp.StatusCode,
		Body:   body,
		Header: resp.Header,
	}, nil
}
