package text

import (
	"slices"
	"unicode"
)

// Special categories. A segment in one of these is routed to a dedicated
// font regardless of locale.
const (
	CategoryEmoji  = "emoji"
	CategorySymbol = "symbol"
	CategoryMath   = "math"
	Unknown        = "unknown"
)

type matcher struct {
	name  string
	match func(rune) bool
}

// specials are tested after emoji, in order; the first hit short-circuits.
var specials = []matcher{
	{CategorySymbol, isSymbol},
	{CategoryMath, isMath},
}

func isHan(r rune) bool { return unicode.Is(unicode.Han, r) }

func in(tables ...*unicode.RangeTable) func(rune) bool {
	return func(r rune) bool { return unicode.IsOneOf(tables, r) }
}

// locales is the fixed priority order of supported scripts.
var locales = []matcher{
	{"ja-JP", func(r rune) bool {
		return unicode.In(r, unicode.Hiragana, unicode.Katakana, unicode.Han) ||
			r == '\u3000' || (r >= '\uff00' && r <= '\uffef')
	}},
	{"ko-KR", in(unicode.Hangul)},
	{"zh-CN", isHan},
	{"zh-TW", isHan},
	{"zh-HK", isHan},
	{"th-TH", in(unicode.Thai)},
	{"bn-IN", in(unicode.Bengali)},
	{"ar-AR", in(unicode.Arabic)},
	{"ta-IN", in(unicode.Tamil)},
	{"ml-IN", in(unicode.Malayalam)},
	{"he-IL", in(unicode.Hebrew)},
	{"te-IN", in(unicode.Telugu)},
	{"devanagari", in(unicode.Devanagari)},
	{"kannada", in(unicode.Kannada)},
}

// Locales returns the supported locales in priority order.
func Locales() []string {
	out := make([]string, len(locales))
	for i, l := range locales {
		out[i] = l.name
	}
	return out
}

// Classify returns the candidate font buckets for a segment.
//
// Emoji, symbol and math are tested first and return a single category.
// Otherwise every matching locale is returned in priority order, with
// preferred moved to the front when it matched. No match yields
// ["unknown"].
func Classify(segment, preferred string) []string {
	if HasEmoji(segment) {
		return []string{CategoryEmoji}
	}
	for _, s := range specials {
		if containsFunc(segment, s.match) {
			return []string{s.name}
		}
	}

	var out []string
	for _, l := range locales {
		if containsFunc(segment, l.match) {
			out = append(out, l.name)
		}
	}
	if len(out) == 0 {
		return []string{Unknown}
	}
	if i := slices.Index(out, preferred); i > 0 {
		out = append([]string{preferred}, slices.Delete(out, i, i+1)...)
	}
	return out
}

func containsFunc(s string, f func(rune) bool) bool {
	for _, r := range s {
		if f(r) {
			return true
		}
	}
	return false
}

// isSymbol matches non-ASCII pictographic symbols that are not emoji.
func isSymbol(r rune) bool {
	if r < 0x80 {
		return false
	}
	return unicode.In(r, unicode.So, unicode.Sc, unicode.Sk) ||
		(r >= 0x2190 && r <= 0x21ff) || // arrows
		(r >= 0x2500 && r <= 0x25ff) // box drawing, block elements, geometric shapes
}

// isMath matches non-ASCII mathematical operators and alphanumerics.
func isMath(r rune) bool {
	if r < 0x80 {
		return false
	}
	return unicode.Is(unicode.Sm, r) ||
		(r >= 0x2200 && r <= 0x22ff) ||
		(r >= 0x1d400 && r <= 0x1d7ff)
}
