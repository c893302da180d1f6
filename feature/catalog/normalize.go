package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds s into the form names are compared in.
// It lower-cases, applies every locale's fold table, strips remaining
// combining marks and collapses whitespace. The result is never displayed.
func Normalize(locales []Locale, s string) string {
	tag := language.Und
	if len(locales) > 0 {
		tag = locales[0].Tag
	}
	// Non-Turkish casing maps 'İ' to "i̇"; the dot is removed below with the other marks.
	s = cases.Lower(tag).String(s)

	s = strings.Map(func(r rune) rune {
		for _, loc := range locales {
			if base, ok := loc.Fold[r]; ok {
				return base
			}
		}
		return r
	}, s)

	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}

	return strings.Join(strings.Fields(s), " ")
}
