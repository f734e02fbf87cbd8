package standings

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName builds the key used to compare driver names across sources.
// Accents and case are folded, punctuation becomes whitespace and whitespace
// runs collapse. The result is never displayed.
func NormalizeName(name string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn))), strings.ToLower(name))
	if err != nil {
		folded = strings.ToLower(name)
	}

	mapped := strings.Map(func(r rune) rune {
		switch {
		case r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r):
			return unicode.ToLower(r)
		default:
			return ' '
		}
	}, folded)

	return strings.Join(strings.Fields(mapped), " ")
}
