// Package resolver turns an upstream stream URL into something a local
// player can actually open. It tries a fixed ladder of strategies, from the
// ideal outcome (a locally materialized, rewritten playlist with segment
// prefetch running) down to handing back the original URL with provider
// headers. Resolve never fails; the last rung always produces a source.
package resolver

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/hlsgate/hlsgate/internal/apperrors"
	"github.com/hlsgate/hlsgate/internal/cache"
	"github.com/hlsgate/hlsgate/internal/config"
	"github.com/hlsgate/hlsgate/internal/metrics"
	"github.com/hlsgate/hlsgate/internal/models"
	"github.com/hlsgate/hlsgate/internal/playlist"
	"github.com/hlsgate/hlsgate/internal/proxyurl"
	"github.com/hlsgate/hlsgate/internal/transport"
)

// prefetchLimit caps how many playlist targets are handed to the scheduler
// per resolve. Enough to cover playback startup without downloading a whole
// episode up front.
const prefetchLimit = 10

// playlistMagic is the mandatory first directive of a valid m3u8 file.
const playlistMagic = "#EXTM3U"

// Prefetcher receives the segment URLs of a freshly materialized playlist.
// Implementations must not block.
type Prefetcher interface {
	Prefetch(provider string, urls []string)
}

// Resolver orchestrates the fallback ladder over the fetch, cache, codec,
// and scheduling subsystems. Safe for concurrent use; all mutable state
// lives in the subsystems it composes.
type Resolver struct {
	fetcher        transport.Fetcher
	store          *cache.Store
	prefetcher     Prefetcher
	codec          *proxyurl.Codec
	rewriter       *playlist.Rewriter
	playlists      cache.TextCache
	forwardProxies []string
}

// New creates a Resolver. playlists may be nil, which disables the playlist
// text cache but not disk materialization.
func New(
	fetcher transport.Fetcher,
	store *cache.Store,
	prefetcher Prefetcher,
	codec *proxyurl.Codec,
	playlists cache.TextCache,
	forwardProxies []string,
) *Resolver {
	return &Resolver{
		fetcher:        fetcher,
		store:          store,
		prefetcher:     prefetcher,
		codec:          codec,
		rewriter:       playlist.NewRewriter(codec),
		playlists:      playlists,
		forwardProxies: forwardProxies,
	}
}

// resolveState carries what earlier rungs learned so later rungs do not
// refetch. masterText is set once a master playlist has been fetched and
// validated, even when materializing it subsequently failed.
type resolveState struct {
	origin     string
	provider   string
	masterText string
}

type attempt struct {
	name string
	fn   func(ctx context.Context, st *resolveState) *models.StreamSource
}

// Resolve maps rawURL to a playable stream source for the given provider.
// Any proxy wrapping on rawURL is stripped before the ladder runs, so a
// URL that has already been through Resolve resolves to the same source.
func (r *Resolver) Resolve(ctx context.Context, rawURL, provider string) models.StreamSource {
	logger := config.GetLogger()

	st := &resolveState{
		origin:   r.codec.Unwrap(rawURL),
		provider: provider,
	}

	attempts := []attempt{
		{"raw_passthrough", r.rawPassthrough},
		{"local_playlist", r.localPlaylist},
		{"direct_variant", r.directVariant},
		{"proxy_probe", r.proxyProbe},
	}

	for _, a := range attempts {
		src := r.try(ctx, a, st)
		if src == nil {
			metrics.ResolveAttemptsTotal.WithLabelValues(a.name, "miss").Inc()
			continue
		}
		metrics.ResolveAttemptsTotal.WithLabelValues(a.name, "hit").Inc()
		logger.Debug().
			Str("step", a.name).
			Str("url", st.origin).
			Str("resolved", src.URI).
			Msg("Stream resolved")
		return *src
	}

	// Last rung: the origin itself with the headers its CDN wants.
	metrics.ResolveAttemptsTotal.WithLabelValues("direct_origin", "hit").Inc()
	return models.StreamSource{
		URI:     st.origin,
		Headers: transport.DefaultHeaders(provider),
	}
}

// try runs one rung, converting a panic into a miss so a bug in a single
// strategy cannot take playback down with it.
func (r *Resolver) try(ctx context.Context, a attempt, st *resolveState) (src *models.StreamSource) {
	defer func() {
		if rec := recover(); rec != nil {
			logger := config.GetLogger()
			logger.Error().
				Str("step", a.name).
				Str("url", st.origin).
				Interface("panic", rec).
				Msg("Resolve step panicked, treating as miss")
			src = nil
		}
	}()
	return a.fn(ctx, st)
}

// ClearCache wipes the on-disk cache directory. Playlist text entries are
// left to expire by TTL; a later resolve simply rematerializes them.
func (r *Resolver) ClearCache() error {
	return r.store.Clear()
}

// rawPassthrough handles non-HLS URLs: direct files (mp4, mkv) need no
// rewriting, only the provider's headers.
func (r *Resolver) rawPassthrough(_ context.Context, st *resolveState) *models.StreamSource {
	if isHLSURL(st.origin) {
		return nil
	}
	return &models.StreamSource{
		URI:     st.origin,
		Headers: transport.DefaultHeaders(st.provider),
	}
}

// localPlaylist is the happy path: serve a rewritten playlist from the local
// disk cache, fetching and materializing it on miss. A master playlist is
// narrowed to one variant per the quality policy before materialization.
// Prefetch of the playlist's first segments is kicked off fire-and-forget.
func (r *Resolver) localPlaylist(ctx context.Context, st *resolveState) *models.StreamSource {
	logger := config.GetLogger()

	if entry := r.store.Has(st.provider, st.origin); entry != nil {
		return localSource(entry)
	}

	key := st.provider + "|" + st.origin
	if r.playlists != nil {
		if text, ok := r.playlists.Get(key); ok {
			entry, err := r.store.Put(st.provider, st.origin, []byte(text))
			if err == nil {
				return localSource(entry)
			}
			logger.Warn().Err(err).Str("url", st.origin).Msg("Rematerializing cached playlist text failed")
		}
	}

	text, err := r.fetchPlaylist(ctx, st.origin, st.provider)
	if err != nil {
		logger.Debug().Err(err).Str("url", st.origin).Msg("Playlist fetch failed")
		return nil
	}

	target := st.origin
	if playlist.Classify(text) == playlist.KindMaster {
		st.masterText = text
		variants := playlist.ParseVariants(text, playlist.BaseURL(st.origin))
		if selected := playlist.SelectVariant(variants); selected != nil {
			variantText, err := r.fetchPlaylist(ctx, selected.URL, st.provider)
			if err != nil {
				logger.Debug().Err(err).
					Str("variant", selected.String()).
					Msg("Selected variant fetch failed")
				return nil
			}
			text = variantText
			target = selected.URL
		}
	}

	rewritten := r.rewriter.Rewrite(text, playlist.BaseURL(target))
	entry, err := r.store.Put(st.provider, st.origin, []byte(rewritten))
	if err != nil {
		logger.Warn().Err(err).Str("url", st.origin).Msg("Playlist materialization failed")
		return nil
	}
	if r.playlists != nil {
		r.playlists.Set(key, rewritten)
	}

	if r.prefetcher != nil {
		targets := playlist.MediaTargets(text, playlist.BaseURL(target), prefetchLimit)
		for i, t := range targets {
			targets[i] = r.codec.Unwrap(t)
		}
		if len(targets) > 0 {
			r.prefetcher.Prefetch(st.provider, targets)
		}
	}

	return localSource(entry)
}

// directVariant plays one variant of an already-fetched master playlist
// straight from the CDN. Reached when the master was fetched fine but
// materializing it locally did not work out; the middle variant trades
// quality against the bandwidth trouble that likely caused the failure.
func (r *Resolver) directVariant(_ context.Context, st *resolveState) *models.StreamSource {
	if st.masterText == "" {
		return nil
	}
	variants := playlist.ParseVariants(st.masterText, playlist.BaseURL(st.origin))
	if len(variants) == 0 {
		return nil
	}
	middle := len(variants) / 2
	if middle >= len(variants) {
		middle = len(variants) - 1
	}
	return &models.StreamSource{
		URI:     variants[middle].URL,
		Headers: transport.DefaultHeaders(st.provider),
	}
}

// proxyProbe tries each forwarding proxy in configured order and returns the
// first wrapped URL that answers 2xx with content. The proxy injects the
// provider headers itself, so the player needs none.
func (r *Resolver) proxyProbe(ctx context.Context, st *resolveState) *models.StreamSource {
	logger := config.GetLogger()

	for _, prefix := range r.forwardProxies {
		wrapped := r.codec.WrapThrough(prefix, st.origin)
		res, err := r.fetcher.Fetch(ctx, wrapped, nil)
		if err != nil || !res.OK() || len(res.Body) == 0 {
			logger.Debug().Err(err).Str("proxy", prefix).Msg("Forwarding proxy probe failed")
			continue
		}
		return &models.StreamSource{
			URI:     wrapped,
			Headers: map[string]string{},
		}
	}
	return nil
}

// fetchPlaylist fetches a playlist URL, normalizes its encoding to UTF-8,
// and validates the m3u8 magic.
func (r *Resolver) fetchPlaylist(ctx context.Context, playlistURL, provider string) (string, error) {
	res, err := r.fetcher.Fetch(ctx, playlistURL, transport.DefaultHeaders(provider))
	if err != nil {
		return "", err
	}
	if !res.OK() {
		return "", apperrors.NewTransportStatusError(playlistURL, res.Status)
	}
	if len(res.Body) == 0 {
		return "", apperrors.NewParseError("empty playlist body")
	}

	reader, err := playlist.NewUTF8Reader(bytes.NewReader(res.Body), res.Header.Get("Content-Type"))
	if err != nil {
		return "", apperrors.NewParseError("unreadable playlist encoding")
	}
	normalized, err := io.ReadAll(reader)
	if err != nil {
		return "", apperrors.NewParseError("decoding playlist body failed")
	}

	text := string(normalized)
	if !strings.HasPrefix(strings.TrimSpace(text), playlistMagic) {
		return "", apperrors.NewParseError("missing " + playlistMagic + " header")
	}
	return text, nil
}

// localSource builds the stream source for a materialized playlist. Headers
// are empty on purpose: local files need none, and an empty map tells the
// caller nothing has to be forwarded.
func localSource(entry *models.CacheEntry) *models.StreamSource {
	return &models.StreamSource{
		URI:     entry.LocalPath,
		Headers: map[string]string{},
	}
}

// isHLSURL reports whether the URL path points at an m3u8 playlist.
func isHLSURL(rawURL string) bool {
	if parsed, err := url.Parse(rawURL); err == nil {
		return strings.Contains(parsed.Path, ".m3u8")
	}
	return strings.Contains(rawURL, ".m3u8")
}
