package playlist

import (
	"io"

	"golang.org/x/net/html/charset"
)

// NewUTF8Reader wraps an io.Reader with automatic character encoding
// detection and conversion to UTF-8. m3u8 is UTF-8 by specification, but
// flaky CDNs serve playlists with BOMs or mislabeled legacy encodings;
// normalizing here keeps the rewriter's line handling byte-exact.
//
// If the content is already UTF-8, this is a no-op wrapper with minimal overhead.
func NewUTF8Reader(body io.Reader, contentType string) (io.Reader, error) {
	return charset.NewReader(body, contentType)
}
