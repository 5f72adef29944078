package playlist

import (
	"strings"

	"github.com/hlsgate/hlsgate/internal/proxyurl"
)

// Rewriter rewrites every URI in an m3u8 playlist into proxy-wrapped
// absolute form so the playback surface needs no per-request headers.
type Rewriter struct {
	codec *proxyurl.Codec
}

// NewRewriter creates a Rewriter that wraps URIs through the given codec.
func NewRewriter(codec *proxyurl.Codec) *Rewriter {
	return &Rewriter{codec: codec}
}

// Rewrite transforms playlist text line by line: bare URI lines and every
// URI="..." attribute on directive lines are absolutized against baseURL
// and wrapped through the proxy codec. The transform is strictly 1:1;
// line count and order are preserved exactly, because directives such as
// #EXTINF are position-relative to the segment line that follows them.
func (r *Rewriter) Rewrite(text, baseURL string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = r.rewriteLine(line, baseURL)
	}
	return strings.Join(lines, "\n")
}

func (r *Rewriter) rewriteLine(line, baseURL string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return line
	}

	if strings.HasPrefix(trimmed, "#") {
		// Comment fragments without a URI attribute pass through unchanged.
		return RewriteURIs(line, func(uri string) string {
			return r.codec.Wrap(Resolve(baseURL, uri))
		})
	}

	// A bare line is a variant URL (master) or segment URL (media).
	return r.codec.Wrap(Resolve(baseURL, trimmed))
}
