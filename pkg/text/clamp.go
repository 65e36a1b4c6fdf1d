package text

import (
	"strconv"
	"strings"

	"github.com/matzehuels/boxsvg/pkg/style"
)

// DefaultEllipsis is the single-character ellipsis glyph.
const DefaultEllipsis = "…"

// LineLimit caps the number of rendered lines. MaxLines 0 means unlimited.
type LineLimit struct {
	MaxLines int
	Ellipsis string
}

// Limited reports whether a cap applies.
func (l LineLimit) Limited() bool { return l.MaxLines > 0 }

// ResolveLineLimit picks the block ellipsis policy. The checks run in a
// fixed order and the first one that applies wins:
//
//  1. display:block with a numeric line-clamp, optionally followed by a
//     quoted ellipsis string
//  2. -webkit-box-orient:vertical with a positive -webkit-line-clamp and
//     text-overflow:ellipsis
//  3. text-overflow:ellipsis with overflow:hidden when soft wrap is off
//     (one line)
//  4. unlimited
func ResolveLineLimit(s style.Style, allowSoftWrap bool) LineLimit {
	if s.Display == "block" && s.LineClamp != "" {
		if n, ellipsis, ok := parseLineClamp(s.LineClamp); ok {
			return LineLimit{MaxLines: n, Ellipsis: ellipsis}
		}
	}
	if s.WebkitBoxOrient == "vertical" && s.WebkitLineClamp > 0 && s.TextOverflow == "ellipsis" {
		return LineLimit{MaxLines: s.WebkitLineClamp, Ellipsis: DefaultEllipsis}
	}
	if s.TextOverflow == "ellipsis" && s.Overflow == "hidden" && !allowSoftWrap {
		return LineLimit{MaxLines: 1, Ellipsis: DefaultEllipsis}
	}
	return LineLimit{}
}

// parseLineClamp reads `N` or `N "custom"`.
func parseLineClamp(v string) (int, string, bool) {
	v = strings.TrimSpace(v)
	num, rest, _ := strings.Cut(v, " ")
	n, err := strconv.Atoi(num)
	if err != nil || n <= 0 {
		return 0, "", false
	}
	rest = strings.TrimSpace(rest)
	if len(rest) >= 2 && (rest[0] == '"' || rest[0] == '\'') && rest[len(rest)-1] == rest[0] {
		return n, rest[1 : len(rest)-1], true
	}
	return n, DefaultEllipsis, true
}
