package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify converts a name into a URL-safe slug: lowercased ASCII with
// hyphens between words and diacritics stripped
func Slugify(name string) string {
	ascii, _, err := transform.String(deaccent, name)
	if err != nil {
		ascii = name
	}

	var b strings.Builder
	b.Grow(len(ascii))
	lastHyphen := true
	for _, r := range strings.ToLower(ascii) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	return strings.Trim(b.String(), "-")
}
