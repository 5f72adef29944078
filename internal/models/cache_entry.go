package models

// CacheEntry describes the on-disk materialization of one remote URL.
type CacheEntry struct {
	// SourceURL is the remote URL this entry was downloaded from.
	SourceURL string

	// LocalPath is the absolute path of the cached file.
	LocalPath string

	// SizeBytes is the file size at the time the entry was produced.
	SizeBytes int64

	// Exists is true when the file is present and passed the content sniff.
	Exists bool
}
