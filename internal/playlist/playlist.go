// Package playlist implements protocol-level handling of HLS m3u8 text:
// master/media classification, URI rewriting, variant extraction, and
// quality selection. Playlists are treated as immutable text; every
// function here is pure and safe to call from any goroutine.
package playlist

import (
	"net/url"
	"strings"
)

// masterMarker is the directive whose presence classifies a playlist as a
// master playlist referencing alternate-quality variants.
const masterMarker = "#EXT-X-STREAM-INF"

// Kind classifies a playlist as master or media.
type Kind int

const (
	// KindMedia playlists reference media segments.
	KindMedia Kind = iota

	// KindMaster playlists reference alternate-quality sub-playlists.
	KindMaster
)

// Classify returns KindMaster when the playlist contains the master-stream
// directive, KindMedia otherwise.
func Classify(text string) Kind {
	if strings.Contains(text, masterMarker) {
		return KindMaster
	}
	return KindMedia
}

// BaseURL returns the prefix of playlistURL up to and including the last
// slash, the base against which relative playlist URIs resolve.
func BaseURL(playlistURL string) string {
	// Never cut into the scheme's "//".
	if i := strings.LastIndex(playlistURL, "/"); i > len("https://") {
		return playlistURL[:i+1]
	}
	return playlistURL
}

// Resolve absolutizes ref against base. Already-absolute refs are returned
// unchanged; unparseable inputs fall back to naive concatenation so the
// rewriter always produces some line rather than dropping one.
func Resolve(base, ref string) string {
	if isAbsolute(ref) {
		return ref
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return base + ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return base + ref
	}
	return baseURL.ResolveReference(refURL).String()
}

func isAbsolute(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
