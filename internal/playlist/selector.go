package playlist

import "github.com/hlsgate/hlsgate/internal/models"

// SelectVariant picks one variant stream from a master playlist's variant
// list. Policy, tuned for mobile bandwidth:
//
//   - no variants: nil, the caller keeps the playlist unmodified
//   - one variant: that variant
//   - variants with resolution metadata: the tallest when it reaches 1080,
//     otherwise 720p when present, otherwise the tallest available
//   - no resolution metadata anywhere: the highest-bandwidth entry
//
// Pure function; missing metadata degrades to a coarser signal, never fails.
func SelectVariant(variants []models.VariantStream) *models.VariantStream {
	switch len(variants) {
	case 0:
		return nil
	case 1:
		return &variants[0]
	}

	var tallest *models.VariantStream
	var at720 *models.VariantStream
	for i := range variants {
		v := &variants[i]
		if !v.HasResolution() {
			continue
		}
		if tallest == nil || v.Height > tallest.Height {
			tallest = v
		}
		if v.Height == 720 && at720 == nil {
			at720 = v
		}
	}

	if tallest == nil {
		return highestBandwidth(variants)
	}
	if tallest.Height >= 1080 {
		return tallest
	}
	if at720 != nil {
		return at720
	}
	return tallest
}

func highestBandwidth(variants []models.VariantStream) *models.VariantStream {
	best := &variants[0]
	for i := range variants {
		if variants[i].Bandwidth > best.Bandwidth {
			best = &variants[i]
		}
	}
	return best
}
