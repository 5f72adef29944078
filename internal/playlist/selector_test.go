// Tests for selector.go and variants.go: variant extraction from master
// playlists and the quality selection policy.
package playlist

import (
	"testing"

	"github.com/hlsgate/hlsgate/internal/models"
	"github.com/hlsgate/hlsgate/internal/testutil"
)

func TestParseVariants(t *testing.T) {
	t.Parallel()

	variants := ParseVariants(testutil.MasterPlaylist, "https://cdn.test/a/")
	if len(variants) != 2 {
		t.Fatalf("ParseVariants() returned %d variants, want 2", len(variants))
	}

	first := variants[0]
	if first.Bandwidth != 5000000 || first.Width != 1920 || first.Height != 1080 {
		t.Errorf("first variant = %+v, want 1920x1080@5000000", first)
	}
	if first.URL != "https://cdn.test/a/hls/1080/index.m3u8" {
		t.Errorf("first variant URL = %q, want absolutized relative URI", first.URL)
	}

	second := variants[1]
	if second.Bandwidth != 2000000 || second.Height != 720 {
		t.Errorf("second variant = %+v, want 1280x720@2000000", second)
	}
}

func TestParseVariants_MediaPlaylist(t *testing.T) {
	t.Parallel()

	if variants := ParseVariants(testutil.MediaPlaylist, "https://cdn.test/"); variants != nil {
		t.Errorf("ParseVariants(media) = %v, want nil", variants)
	}
}

func TestParseVariants_MissingAttributes(t *testing.T) {
	t.Parallel()

	text := "#EXTM3U\n#EXT-X-STREAM-INF:PROGRAM-ID=1\nlow.m3u8\n"
	variants := ParseVariants(text, "https://cdn.test/")
	if len(variants) != 1 {
		t.Fatalf("ParseVariants() returned %d variants, want 1", len(variants))
	}
	v := variants[0]
	if v.Bandwidth != 0 || v.HasResolution() {
		t.Errorf("variant = %+v, want zero bandwidth and no resolution", v)
	}
}

func TestSelectVariant(t *testing.T) {
	t.Parallel()

	v1080 := models.VariantStream{Bandwidth: 5000000, Width: 1920, Height: 1080, URL: "1080.m3u8"}
	v720 := models.VariantStream{Bandwidth: 2000000, Width: 1280, Height: 720, URL: "720.m3u8"}
	v360 := models.VariantStream{Bandwidth: 800000, Width: 640, Height: 360, URL: "360.m3u8"}
	bwHigh := models.VariantStream{Bandwidth: 3000000, URL: "high.m3u8"}
	bwLow := models.VariantStream{Bandwidth: 500000, URL: "low.m3u8"}

	tests := []struct {
		name     string
		variants []models.VariantStream
		wantURL  string
	}{
		{"empty list", nil, ""},
		{"single variant", []models.VariantStream{v360}, "360.m3u8"},
		{"1080 present picks tallest", []models.VariantStream{v1080, v720, v360}, "1080.m3u8"},
		{"no 1080 prefers 720", []models.VariantStream{v720, v360}, "720.m3u8"},
		{"no 1080 no 720 picks tallest", []models.VariantStream{v360, {Bandwidth: 1, Width: 854, Height: 480, URL: "480.m3u8"}}, "480.m3u8"},
		{"no resolution picks highest bandwidth", []models.VariantStream{bwLow, bwHigh}, "high.m3u8"},
		{"mixed metadata uses resolution subset", []models.VariantStream{bwHigh, v720, bwLow}, "720.m3u8"},
		{"above 1080 counts as 1080 tier", []models.VariantStream{{Bandwidth: 9000000, Width: 3840, Height: 2160, URL: "2160.m3u8"}, v720}, "2160.m3u8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := SelectVariant(tt.variants)
			if tt.wantURL == "" {
				if got != nil {
					t.Errorf("SelectVariant() = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("SelectVariant() = nil, want a variant")
			}
			if got.URL != tt.wantURL {
				t.Errorf("SelectVariant() = %q, want %q", got.URL, tt.wantURL)
			}
		})
	}
}

func TestMediaTargets(t *testing.T) {
	t.Parallel()

	targets := MediaTargets(testutil.MediaPlaylistN(20), "https://cdn.test/a/", 10)
	if len(targets) != 10 {
		t.Fatalf("MediaTargets() returned %d targets, want 10", len(targets))
	}
	if targets[0] != "https://cdn.test/a/seg1.ts" {
		t.Errorf("first target = %q, want absolutized seg1.ts", targets[0])
	}
	if targets[9] != "https://cdn.test/a/seg10.ts" {
		t.Errorf("tenth target = %q, want seg10.ts", targets[9])
	}
}
