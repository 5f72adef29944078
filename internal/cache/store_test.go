// Tests for store.go: key/path derivation, sniff-based validation of
// hits, zero-byte write detection, and directory clearing.
package cache

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hlsgate/hlsgate/internal/apperrors"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "hls"))
	if err := s.EnsureDirectory(); err != nil {
		t.Fatalf("EnsureDirectory() failed: %v", err)
	}
	return s
}

func TestStore_Path(t *testing.T) {
	t.Parallel()
	s := NewStore("/cache")

	tests := []struct {
		name      string
		sourceURL string
		wantExt   string
	}{
		{"playlist", "https://cdn.test/a/index.m3u8", ".m3u8"},
		{"playlist with query", "https://cdn.test/a/index.m3u8?token=1", ".m3u8"},
		{"segment", "https://cdn.test/a/seg1.ts", ".ts"},
		{"extensionless", "https://cdn.test/a/seg1", ".ts"},
		{"other media", "https://cdn.test/a/frag.mp4", ".mp4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := s.Path("gogoanime", tt.sourceURL)
			if !strings.HasSuffix(got, tt.wantExt) {
				t.Errorf("Path(%q) = %q, want extension %q", tt.sourceURL, got, tt.wantExt)
			}
			// Same inputs, same path.
			if again := s.Path("gogoanime", tt.sourceURL); again != got {
				t.Errorf("Path() is not stable: %q vs %q", got, again)
			}
			// Different provider, different path.
			if other := s.Path("zoro", tt.sourceURL); other == got {
				t.Error("Path() should differ per provider")
			}
		})
	}
}

func TestStore_PutThenHas(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	const url = "https://cdn.test/a/index.m3u8"
	entry, err := s.Put("gogoanime", url, []byte("#EXTM3U\nseg1.ts\n"))
	if err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if !entry.Exists || entry.SizeBytes == 0 {
		t.Errorf("Put() entry = %+v, want existing non-empty entry", entry)
	}

	hit := s.Has("gogoanime", url)
	if hit == nil {
		t.Fatal("Has() = nil after Put()")
	}
	if hit.LocalPath != entry.LocalPath {
		t.Errorf("Has() path = %q, want %q", hit.LocalPath, entry.LocalPath)
	}
}

func TestStore_Has_SniffRejects(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	tests := []struct {
		name string
		url  string
		data []byte
	}{
		{"playlist without magic", "https://cdn.test/pl.m3u8", []byte("<html>rate limited</html>")},
		{"segment without sync byte", "https://cdn.test/seg.ts", []byte("oops")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			// Write behind Put's back so the sniff is what rejects it.
			if err := os.WriteFile(s.Path("p", tt.url), tt.data, 0o644); err != nil {
				t.Fatalf("WriteFile() failed: %v", err)
			}
			if hit := s.Has("p", tt.url); hit != nil {
				t.Errorf("Has() = %+v, want nil for sniff-invalid content", hit)
			}
		})
	}
}

func TestStore_Has_AcceptsValidSegment(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	data := append([]byte{0x47}, make([]byte, 187)...)
	if _, err := s.Put("p", "https://cdn.test/seg.ts", data); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if hit := s.Has("p", "https://cdn.test/seg.ts"); hit == nil {
		t.Error("Has() = nil for a valid MPEG-TS segment")
	}
}

func TestStore_Put_ZeroByte(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	_, err := s.Put("p", "https://cdn.test/empty.ts", nil)
	if err == nil {
		t.Fatal("Put() succeeded for an empty body")
	}
	if !errors.Is(err, &apperrors.ErrCacheWrite{}) {
		t.Errorf("Put() error = %v, want ErrCacheWrite", err)
	}
	// The failed write must not leave a file behind that a later Has()
	// could mistake for a valid entry.
	if hit := s.Has("p", "https://cdn.test/empty.ts"); hit != nil {
		t.Errorf("Has() = %+v after failed Put, want nil", hit)
	}
}

func TestStore_Clear(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	if _, err := s.Put("p", "https://cdn.test/pl.m3u8", []byte("#EXTM3U\n")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}
	if hit := s.Has("p", "https://cdn.test/pl.m3u8"); hit != nil {
		t.Error("Has() found an entry after Clear()")
	}
	// Directory is recreated, so a fresh Put works immediately.
	if _, err := s.Put("p", "https://cdn.test/pl.m3u8", []byte("#EXTM3U\n")); err != nil {
		t.Errorf("Put() after Clear() failed: %v", err)
	}
}
