package text

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// lineFeeds are the characters that force a line break.
const lineFeeds = "\n\r\v\f\u0085\u2028\u2029"

// LineBreakResult is text split into break units. RequiredBreaks[i] marks a
// forced line break right after Words[i].
type LineBreakResult struct {
	Words          []string
	RequiredBreaks []bool
	AllowSoftWrap  bool
	AllowBreakWord bool
}

// Graphemes splits s into extended grapheme clusters.
func Graphemes(s string) []string {
	var (
		out     []string
		cluster string
		state   = -1
	)
	for len(s) > 0 {
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		out = append(out, cluster)
	}
	return out
}

// SplitWords segments s at UAX #14 line break opportunities.
//
// Line feeds are removed from the units and recorded as required breaks.
// break-all turns every grapheme into a unit; keep-all merges units that are
// not separated by whitespace.
func SplitWords(s, wordBreak, overflowWrap string) LineBreakResult {
	res := LineBreakResult{
		AllowBreakWord: wordBreak == "break-all" || wordBreak == "break-word" ||
			overflowWrap == "break-word" || overflowWrap == "anywhere",
	}

	var (
		segment   string
		mustBreak bool
		state     = -1
	)
	for len(s) > 0 {
		segment, s, mustBreak, state = uniseg.FirstLineSegmentInString(s, state)
		// The final segment always reports a mandatory break (end of text).
		required := mustBreak && hasLineFeed(segment)
		segment = strings.TrimRight(segment, lineFeeds)

		switch wordBreak {
		case "break-all":
			gs := Graphemes(segment)
			if len(gs) == 0 {
				res.push("", required)
				continue
			}
			for i, g := range gs {
				res.push(g, required && i == len(gs)-1)
			}
		case "keep-all":
			n := len(res.Words)
			if n > 0 && !res.RequiredBreaks[n-1] && !endsWithSpace(res.Words[n-1]) && segment != "" {
				res.Words[n-1] += segment
				res.RequiredBreaks[n-1] = required
				continue
			}
			res.push(segment, required)
		default:
			res.push(segment, required)
		}
	}
	return res
}

func (r *LineBreakResult) push(word string, required bool) {
	r.Words = append(r.Words, word)
	r.RequiredBreaks = append(r.RequiredBreaks, required)
}

func hasLineFeed(s string) bool {
	return strings.ContainsAny(s, lineFeeds)
}

func endsWithSpace(s string) bool {
	if s == "" {
		return false
	}
	r := []rune(s)
	return unicode.IsSpace(r[len(r)-1])
}
