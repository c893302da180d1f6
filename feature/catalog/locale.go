package catalog

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Locale describes a supported name language and how its letters fold for comparison.
type Locale struct {
	// Code is the short code used in the catalog file (e.g. "tr").
	Code string
	// Tag is the BCP 47 tag used for case mapping.
	Tag language.Tag
	// Fold maps locale-specific letters to the base letter typed on a plain keyboard.
	Fold map[rune]rune
}

var registry = map[string]Locale{
	"en": {Code: "en", Tag: language.English},
	"tr": {
		Code: "tr",
		Tag:  language.Turkish,
		Fold: map[rune]rune{
			'ı': 'i',
			'İ': 'i',
			'ş': 's',
			'Ş': 's',
			'ç': 'c',
			'Ç': 'c',
			'ğ': 'g',
			'Ğ': 'g',
			'ö': 'o',
			'Ö': 'o',
			'ü': 'u',
			'Ü': 'u',
		},
	},
}

// LookupLocales resolves locale codes against the built-in registry.
func LookupLocales(codes []string) ([]Locale, error) {
	out := make([]Locale, 0, len(codes))
	for _, code := range codes {
		code = strings.ToLower(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		loc, ok := registry[code]
		if !ok {
			return nil, fmt.Errorf("unsupported locale %q", code)
		}
		out = append(out, loc)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no locales configured")
	}
	return out, nil
}
