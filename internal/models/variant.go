package models

import "fmt"

// VariantStream is one alternate-quality stream referenced from a master
// playlist. Width and Height are zero when the RESOLUTION attribute was
// absent; Bandwidth is zero when BANDWIDTH was absent or unparseable.
type VariantStream struct {
	Bandwidth int
	Width     int
	Height    int
	URL       string
}

// HasResolution reports whether the variant carried a RESOLUTION attribute.
func (v VariantStream) HasResolution() bool {
	return v.Width > 0 && v.Height > 0
}

// String returns a compact human-readable description for logging.
func (v VariantStream) String() string {
	if v.HasResolution() {
		return fmt.Sprintf("%dx%d@%d", v.Width, v.Height, v.Bandwidth)
	}
	return fmt.Sprintf("?x?@%d", v.Bandwidth)
}
