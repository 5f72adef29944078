package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/hlsgate/hlsgate/internal/cache"
	"github.com/hlsgate/hlsgate/internal/config"
	"github.com/hlsgate/hlsgate/internal/metrics"
	"github.com/hlsgate/hlsgate/internal/progress"
	"github.com/hlsgate/hlsgate/internal/proxyurl"
	"github.com/hlsgate/hlsgate/internal/resolver"
	"github.com/hlsgate/hlsgate/internal/scheduler"
	"github.com/hlsgate/hlsgate/internal/server"
	"github.com/hlsgate/hlsgate/internal/transport"
)

func main() {
	cfg := config.GetConfig()
	logger := config.GetLogger()

	logger.Info().
		Str("cache_dir", cfg.CacheDir).
		Str("wrap_proxy", cfg.WrapProxy).
		Int("server_port", cfg.Server.Port).
		Str("server_address", cfg.Server.Address).
		Msg("Application started with configuration")

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN}); err != nil {
			logger.Error().Err(err).Msg("Failed to initialize Sentry")
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	store := cache.NewStore(cfg.CacheDir)
	if err := store.EnsureDirectory(); err != nil {
		logger.Fatal().Err(err).Str("dir", cfg.CacheDir).Msg("Failed to create cache directory")
	}

	playlists, err := cache.New(cfg.PlaylistCache.Backend, playlistCacheConfig(cfg))
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.PlaylistCache.Backend).Msg("Failed to create playlist cache")
	}
	defer func() {
		if err := playlists.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close playlist cache")
		}
	}()

	fetcher := transport.NewHTTPFetcher(cfg)
	notifier := progress.NewNotifier()
	sched := scheduler.New(fetcher, store, notifier)
	defer sched.Close()

	codec := proxyurl.New(cfg.WrapProxy)
	res := resolver.New(fetcher, store, sched, codec, playlists, cfg.ForwardProxies)

	// Start Prometheus metrics HTTP server
	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewHTTPServer(cfg.Server.Address, cfg.Metrics.Port)
		go func() {
			logger.Info().Str("address", metricsServer.Addr).Msg("Starting Prometheus metrics HTTP server")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal().Err(err).Msg("Failed to serve metrics")
			}
		}()
		defer func() {
			if err := metricsServer.Shutdown(context.Background()); err != nil {
				logger.Error().Err(err).Msg("Failed to shutdown metrics server")
			}
		}()
	}

	address := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		logger.Fatal().Err(err).Str("address", address).Msg("Failed to create listener")
	}

	apiServer := &http.Server{Handler: server.New(res, notifier).Handler()}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		if err := apiServer.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("Failed to shutdown API server")
		}
	}()

	logger.Info().Str("address", address).Msg("Starting API server")
	if err := apiServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		sentry.CaptureException(err)
		logger.Fatal().Err(err).Msg("Failed to serve API")
	}

	logger.Info().Msg("Server stopped gracefully")
}

// playlistCacheConfig maps the loaded configuration onto the cache factory's
// provider config, falling back to an hour of TTL on a malformed duration.
func playlistCacheConfig(cfg *config.Config) cache.ProviderConfig {
	ttl := time.Hour
	if cfg.PlaylistCache.TTL != "" {
		if parsed, err := time.ParseDuration(cfg.PlaylistCache.TTL); err != nil {
			logger := config.GetLogger()
			logger.Warn().Err(err).Str("ttl", cfg.PlaylistCache.TTL).Msg("Invalid playlist cache TTL, using default 1h")
		} else {
			ttl = parsed
		}
	}

	return cache.ProviderConfig{
		Size:          cfg.PlaylistCache.Size,
		TTL:           ttl,
		RedisAddress:  cfg.PlaylistCache.RedisAddress,
		RedisPassword: cfg.PlaylistCache.RedisPassword,
		RedisDB:       cfg.PlaylistCache.RedisDB,
		Group:         "playlist",
	}
}
