package text

import (
	"regexp"
	"strings"
)

var spaceRun = regexp.MustCompile(`[ \t]+`)

// NormalizeWhitespace applies white-space handling and reports whether soft
// wrapping is allowed.
//
// pre, pre-wrap and pre-line keep line feeds; every other mode turns them
// into spaces. normal, nowrap and pre-line collapse runs of spaces and tabs
// and trim the ends.
func NormalizeWhitespace(s, whiteSpace string) (string, bool) {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	switch whiteSpace {
	case "pre", "pre-wrap", "pre-line":
	default:
		s = strings.ReplaceAll(s, "\n", " ")
	}
	switch whiteSpace {
	case "", "normal", "nowrap", "pre-line":
		s = spaceRun.ReplaceAllString(s, " ")
		s = strings.Trim(s, " ")
	}
	allowSoftWrap := whiteSpace != "pre" && whiteSpace != "nowrap"
	return s, allowSoftWrap
}
