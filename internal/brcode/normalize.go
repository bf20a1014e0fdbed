package brcode

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeField prepares free text for a BR Code field: diacritics are
// stripped, the result is uppercased and capped at max bytes. Characters
// outside printable ASCII are dropped so the payload stays ASCII-safe.
func NormalizeField(s string, max int) string {
	s = strings.TrimSpace(s)
	if out, _, err := transform.String(stripAccents, s); err == nil {
		s = out
	}

	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if r < 0x20 || r > 0x7E {
			continue
		}
		b.WriteRune(r)
	}

	s = strings.TrimSpace(b.String())
	if len(s) > max {
		s = strings.TrimSpace(s[:max])
	}
	return s
}
