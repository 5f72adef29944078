package playlist

import (
	"regexp"
	"strings"
)

// uriAttribute matches one quoted URI attribute occurrence on a directive
// line. Defined once so every directive type (#EXT-X-KEY, #EXT-X-MAP,
// #EXT-X-MEDIA, ...) shares the same parsing rule.
var uriAttribute = regexp.MustCompile(`URI="([^"]*)"`)

// Directive is a parsed "#NAME:KEY=value,..." playlist line. Raw preserves
// the original text; Attributes holds the comma-separated key/value pairs
// with surrounding quotes stripped. Pure comments parse with an empty
// attribute map.
type Directive struct {
	Raw        string
	Name       string
	Attributes map[string]string
}

// ParseDirective parses a "#..." line into its name and attribute map.
func ParseDirective(line string) Directive {
	d := Directive{Raw: line, Attributes: map[string]string{}}

	name, rest, found := strings.Cut(line, ":")
	d.Name = name
	if !found {
		return d
	}

	for _, pair := range splitAttributes(rest) {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		d.Attributes[key] = strings.Trim(value, `"`)
	}
	return d
}

// RewriteURIs returns the directive line with every URI="..." occurrence
// replaced by transform(uri). Lines without a URI attribute pass through
// unchanged; multiple occurrences are rewritten independently.
func RewriteURIs(line string, transform func(string) string) string {
	return uriAttribute.ReplaceAllStringFunc(line, func(match string) string {
		uri := match[len(`URI="`) : len(match)-1]
		return `URI="` + transform(uri) + `"`
	})
}

// splitAttributes splits an attribute list on commas, keeping commas inside
// quoted values (e.g. CODECS="avc1.64001f,mp4a.40.2") intact.
func splitAttributes(s string) []string {
	var parts []string
	var b strings.Builder
	inQuotes := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
			b.WriteByte(c)
		case c == ',' && !inQuotes:
			parts = append(parts, b.String())
			b.Reset()
		default:
			b.WriteByte(c)
		}
	}
	if b.Len() > 0 {
		parts = append(parts, b.String())
	}
	return parts
}
