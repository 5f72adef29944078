package models

// StreamSource is the ready-to-play result handed to the video surface:
// a URI plus the HTTP headers the player must send when fetching it.
// Headers is empty exactly when URI points at local storage.
type StreamSource struct {
	URI     string            `json:"uri"`
	Headers map[string]string `json:"headers"`
}

// IsLocal reports whether the source points at a local file rather than
// a remote or proxied URL.
func (s StreamSource) IsLocal() bool {
	return len(s.URI) > 0 && s.URI[0] == '/'
}
