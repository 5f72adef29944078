package cache

import (
	"bytes"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/hlsgate/hlsgate/internal/apperrors"
	"github.com/hlsgate/hlsgate/internal/config"
	"github.com/hlsgate/hlsgate/internal/models"
)

// playlistMagic is the mandatory first directive of any m3u8 file; the
// sniff rejects anything that does not start with it.
var playlistMagic = []byte("#EXTM3U")

// tsSyncByte starts every MPEG-TS packet.
const tsSyncByte = 0x47

// Store maps remote URLs onto files in a single cache directory. Keys are a
// fast non-cryptographic hash of (provider, sourceURL); a collision costs an
// extra download, never corruption, because every hit is re-validated by a
// content sniff rather than trusted by key.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir. Call EnsureDirectory before use.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the cache directory root.
func (s *Store) Dir() string {
	return s.dir
}

// EnsureDirectory creates the cache directory tree if it does not exist.
func (s *Store) EnsureDirectory() error {
	return os.MkdirAll(s.dir, 0o755)
}

// Path returns the local path a (provider, sourceURL) pair materializes to.
func (s *Store) Path(provider, sourceURL string) string {
	key := strconv.FormatUint(xxhash.Sum64String(provider+"|"+sourceURL), 16)
	return filepath.Join(s.dir, key+extensionFor(sourceURL))
}

// Has checks whether a sniff-valid cached file exists for the pair.
// Returns nil on miss or when the cached bytes fail validation.
func (s *Store) Has(provider, sourceURL string) *models.CacheEntry {
	localPath := s.Path(provider, sourceURL)

	info, err := os.Stat(localPath)
	if err != nil {
		return nil
	}
	if !sniffValid(localPath, info.Size()) {
		logger := config.GetLogger()
		logger.Debug().Str("path", localPath).Msg("Cached file failed content sniff")
		return nil
	}

	return &models.CacheEntry{
		SourceURL: sourceURL,
		LocalPath: localPath,
		SizeBytes: info.Size(),
		Exists:    true,
	}
}

// Put writes data for the pair and re-reads the resulting size, raising
// ErrCacheWrite when the write produced an empty file.
func (s *Store) Put(provider, sourceURL string, data []byte) (*models.CacheEntry, error) {
	localPath := s.Path(provider, sourceURL)

	if err := os.WriteFile(localPath, data, 0o644); err != nil {
		return nil, err
	}

	info, err := os.Stat(localPath)
	if err != nil {
		return nil, err
	}
	if info.Size() == 0 {
		_ = os.Remove(localPath)
		return nil, apperrors.NewCacheWriteError(localPath)
	}

	return &models.CacheEntry{
		SourceURL: sourceURL,
		LocalPath: localPath,
		SizeBytes: info.Size(),
		Exists:    true,
	}, nil
}

// Clear deletes and recreates the whole cache directory tree. Invoked only
// from the explicit maintenance entry point.
func (s *Store) Clear() error {
	if err := os.RemoveAll(s.dir); err != nil {
		return err
	}
	return s.EnsureDirectory()
}

// sniffValid performs the cheap partial-content check: playlists must begin
// with #EXTM3U, segments must be non-empty, and .ts files must start with
// the MPEG-TS sync byte.
func sniffValid(localPath string, size int64) bool {
	if size == 0 {
		return false
	}

	f, err := os.Open(localPath)
	if err != nil {
		return false
	}
	defer f.Close()

	prefix := make([]byte, len(playlistMagic))
	n, err := f.Read(prefix)
	if err != nil || n == 0 {
		return false
	}
	prefix = prefix[:n]

	switch filepath.Ext(localPath) {
	case ".m3u8":
		return bytes.HasPrefix(prefix, playlistMagic)
	case ".ts":
		return prefix[0] == tsSyncByte
	default:
		return true
	}
}

// extensionFor derives the cached file's extension from the source URL path,
// defaulting to .ts for extension-less segment URLs.
func extensionFor(sourceURL string) string {
	p := sourceURL
	if parsed, err := url.Parse(sourceURL); err == nil {
		p = parsed.Path
	}
	if strings.Contains(p, ".m3u8") {
		return ".m3u8"
	}
	if ext := path.Ext(p); ext != "" {
		return ext
	}
	return ".ts"
}
