package text

import (
	"strings"

	"github.com/rivo/uniseg"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Transform applies text-transform. Upper and lower case use the locale's
// case mapping; capitalize uppercases the first grapheme of every word as
// a unit, so combining sequences stay intact.
func Transform(s, transform, locale string) string {
	tag := language.Und
	if locale != "" {
		tag = language.Make(locale)
	}
	switch transform {
	case "uppercase":
		return cases.Upper(tag).String(s)
	case "lowercase":
		return cases.Lower(tag).String(s)
	case "capitalize":
		return capitalize(s, cases.Upper(tag))
	}
	return s
}

func capitalize(s string, upper cases.Caser) string {
	var (
		b     strings.Builder
		word  string
		state = -1
	)
	b.Grow(len(s))
	for len(s) > 0 {
		word, s, state = uniseg.FirstWordInString(s, state)
		first, rest, _, _ := uniseg.FirstGraphemeClusterInString(word, -1)
		b.WriteString(upper.String(first))
		b.WriteString(rest)
	}
	return b.String()
}
