package utils

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeName trims, collapses inner whitespace and capitalises each word
// of a make, model or city. Existing capitals are kept, so "BMW" stays "BMW"
// and "land cruiser" becomes "Land Cruiser".
func NormalizeName(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return s
	}
	return cases.Title(language.Und, cases.NoLower).String(s)
}

// NormalizeNamePtr applies NormalizeName through a pointer, keeping nil.
func NormalizeNamePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := NormalizeName(*s)
	return &v
}
