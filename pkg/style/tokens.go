package style

import "strings"

// Fields splits s around runs of whitespace that are outside parentheses
// and quotes.
func Fields(s string) []string {
	return split(s, func(r rune) bool { return r == ' ' || r == '\t' || r == '\n' || r == '\r' })
}

// SplitCommas splits s at top-level commas and trims each part. Empty parts
// are dropped.
func SplitCommas(s string) []string {
	return split(s, func(r rune) bool { return r == ',' })
}

func split(s string, sep func(rune) bool) []string {
	var (
		parts []string
		buf   strings.Builder
		depth int
		quote rune
	)
	flush := func() {
		if p := strings.TrimSpace(buf.String()); p != "" {
			parts = append(parts, p)
		}
		buf.Reset()
	}
	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case depth == 0 && sep(r):
			flush()
			continue
		}
		buf.WriteRune(r)
	}
	flush()
	return parts
}

// expand4 applies the CSS 1-to-4 value expansion, returning values in
// top, right, bottom, left (or top-left, top-right, bottom-right,
// bottom-left) order.
func expand4(vals []string) ([4]string, bool) {
	switch len(vals) {
	case 1:
		return [4]string{vals[0], vals[0], vals[0], vals[0]}, true
	case 2:
		return [4]string{vals[0], vals[1], vals[0], vals[1]}, true
	case 3:
		return [4]string{vals[0], vals[1], vals[2], vals[1]}, true
	case 4:
		return [4]string{vals[0], vals[1], vals[2], vals[3]}, true
	}
	return [4]string{}, false
}
