// Package proxyurl encodes and decodes real URLs into and out of the known
// forwarding-proxy URL shapes. Upstream playlists occasionally arrive with
// URIs already wrapped by one of these proxies (sometimes more than once);
// the codec undoes any recognized wrapping before applying its own.
package proxyurl

import (
	"net/url"
	"strings"

	"github.com/hlsgate/hlsgate/internal/apperrors"
	"github.com/hlsgate/hlsgate/internal/config"
)

// maxUnwrapDepth bounds how many nested proxy layers Unwrap will peel off.
// Anything deeper is treated as a wrapping loop.
const maxUnwrapDepth = 5

// Kind distinguishes how a proxy embeds the target URL.
type Kind int

const (
	// KindQuery proxies carry the target percent-encoded in a query
	// parameter: https://proxy.test/?url=https%3A%2F%2Fcdn...
	KindQuery Kind = iota

	// KindPath proxies append the raw target after their own path:
	// https://proxy.test/https://cdn...
	KindPath
)

// Prefix is one recognized proxy URL shape.
type Prefix struct {
	Value string
	Kind  Kind
}

// DefaultPrefixes lists the proxy shapes seen in the wild. The table is
// static but extensible: codecs built from config gain the configured
// wrap proxy automatically.
var DefaultPrefixes = []Prefix{
	{Value: "https://m3u8proxy.hlsgate.workers.dev/?url=", Kind: KindQuery},
	{Value: "https://proxy.ctrl.workers.dev/?url=", Kind: KindQuery},
	{Value: "https://cors.consumet.stream/", Kind: KindPath},
}

// Codec wraps and unwraps URLs through a fixed table of proxy prefixes.
// Wrap always produces exactly one layer of the canonical (query-style)
// encoding, regardless of how the input was wrapped.
type Codec struct {
	wrapBase string
	prefixes []Prefix
}

// New creates a Codec that wraps through wrapBase (a query-style prefix,
// e.g. "https://proxy.test/?url=") and recognizes DefaultPrefixes plus
// wrapBase itself during unwrapping.
func New(wrapBase string) *Codec {
	prefixes := make([]Prefix, 0, len(DefaultPrefixes)+1)
	known := false
	for _, p := range DefaultPrefixes {
		if p.Value == wrapBase {
			known = true
		}
		prefixes = append(prefixes, p)
	}
	if !known && wrapBase != "" {
		prefixes = append(prefixes, Prefix{Value: wrapBase, Kind: KindQuery})
	}
	return &Codec{wrapBase: wrapBase, prefixes: prefixes}
}

// Wrap encodes url into the canonical proxy shape. The input is unwrapped
// first, so Wrap(Wrap(u)) == Wrap(u) and the result never carries more than
// one proxy layer.
func (c *Codec) Wrap(rawURL string) string {
	if c.wrapBase == "" {
		return rawURL
	}
	origin := c.Unwrap(rawURL)
	return c.wrapBase + url.QueryEscape(origin)
}

// WrapThrough encodes rawURL through an arbitrary proxy prefix instead of the
// canonical wrap base. Prefixes ending in "=" are query-style and receive the
// target percent-encoded; all others are path-style and receive it raw. The
// input is unwrapped first, like Wrap.
func (c *Codec) WrapThrough(prefix, rawURL string) string {
	origin := c.Unwrap(rawURL)
	if prefix == "" {
		return origin
	}
	if strings.HasSuffix(prefix, "=") {
		return prefix + url.QueryEscape(origin)
	}
	return prefix + origin
}

// Unwrap strips recognized proxy prefixes from rawURL until the true origin
// URL remains, up to maxUnwrapDepth layers. A value that matches no prefix is
// returned unchanged. Malformed percent-encoding stops unwrapping and returns
// the value reached so far rather than failing.
func (c *Codec) Unwrap(rawURL string) string {
	current := rawURL
	for i := 0; i < maxUnwrapDepth; i++ {
		next, ok := c.unwrapOnce(current)
		if !ok {
			return current
		}
		current = next
	}

	if _, stillWrapped := c.unwrapOnce(current); stillWrapped {
		logger := config.GetLogger()
		logger.Warn().
			Err(apperrors.NewLoopGuardError(rawURL, maxUnwrapDepth)).
			Str("partial", current).
			Msg("Proxy unwrap hit its iteration bound, returning partially unwrapped URL")
	}
	return current
}

// unwrapOnce removes a single proxy layer. It reports false when no prefix
// matched or the embedded value is not usable as a URL.
func (c *Codec) unwrapOnce(rawURL string) (string, bool) {
	for _, p := range c.prefixes {
		if !strings.HasPrefix(rawURL, p.Value) {
			continue
		}
		remainder := rawURL[len(p.Value):]

		switch p.Kind {
		case KindQuery:
			decoded, err := url.QueryUnescape(remainder)
			if err != nil || !isHTTPURL(decoded) {
				return "", false
			}
			return decoded, true
		case KindPath:
			if !isHTTPURL(remainder) {
				return "", false
			}
			return remainder, true
		}
	}
	return "", false
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
