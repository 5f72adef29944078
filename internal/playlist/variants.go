package playlist

import (
	"strconv"
	"strings"

	"github.com/hlsgate/hlsgate/internal/models"
)

// ParseVariants extracts the variant streams of a master playlist: each
// #EXT-X-STREAM-INF directive paired with the next bare line. URLs are
// absolutized against baseURL but not proxy-wrapped, so a variant can be
// played directly with provider headers. Returns nil for media playlists.
func ParseVariants(text, baseURL string) []models.VariantStream {
	var variants []models.VariantStream

	lines := strings.Split(text, "\n")
	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(trimmed, masterMarker) {
			continue
		}

		d := ParseDirective(trimmed)
		v := models.VariantStream{}
		if bw, err := strconv.Atoi(d.Attributes["BANDWIDTH"]); err == nil {
			v.Bandwidth = bw
		}
		v.Width, v.Height = parseResolution(d.Attributes["RESOLUTION"])

		// The variant URL is the next non-empty, non-comment line.
		for j := i + 1; j < len(lines); j++ {
			candidate := strings.TrimSpace(lines[j])
			if candidate == "" {
				continue
			}
			if strings.HasPrefix(candidate, "#") {
				break
			}
			v.URL = Resolve(baseURL, candidate)
			i = j
			break
		}

		if v.URL != "" {
			variants = append(variants, v)
		}
	}
	return variants
}

// parseResolution parses "WIDTHxHEIGHT"; both zero when absent or malformed.
func parseResolution(s string) (int, int) {
	w, h, ok := strings.Cut(s, "x")
	if !ok {
		return 0, 0
	}
	width, errW := strconv.Atoi(strings.TrimSpace(w))
	height, errH := strconv.Atoi(strings.TrimSpace(h))
	if errW != nil || errH != nil || width <= 0 || height <= 0 {
		return 0, 0
	}
	return width, height
}

// MediaTargets returns up to limit absolutized URLs from the playlist's bare
// lines: segment URLs for a media playlist, variant URLs for a master.
// Used to seed prefetching; URLs are not proxy-wrapped.
func MediaTargets(text, baseURL string, limit int) []string {
	var targets []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		targets = append(targets, Resolve(baseURL, trimmed))
		if len(targets) == limit {
			break
		}
	}
	return targets
}
