package geom

import (
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	"github.com/matzehuels/boxsvg/pkg/render/svg"
	"github.com/matzehuels/boxsvg/pkg/style"
)

// Color is a non-premultiplied sRGB color.
type Color struct {
	R, G, B uint8
	A       float64
}

// Black is the initial value of color.
var Black = Color{A: 1}

// Transparent reports whether the color has zero alpha.
func (c Color) Transparent() bool { return c.A <= 0 }

// Hex returns the color as #rrggbb, ignoring alpha.
func (c Color) Hex() string {
	const digits = "0123456789abcdef"
	b := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range []uint8{c.R, c.G, c.B} {
		b[1+2*i] = digits[v>>4]
		b[2+2*i] = digits[v&0x0f]
	}
	return string(b)
}

// String formats the color for use in CSS-aware SVG attributes.
func (c Color) String() string {
	if c.A >= 1 {
		return c.Hex()
	}
	return "rgba(" + strconv.Itoa(int(c.R)) + "," + strconv.Itoa(int(c.G)) + "," +
		strconv.Itoa(int(c.B)) + "," + svg.Num(c.A) + ")"
}

// Opacity returns the alpha as an attribute value, nil when opaque.
func (c Color) Opacity() any {
	if c.A >= 1 {
		return nil
	}
	return c.A
}

// ParseColor parses a CSS color. currentcolor resolves to current, which
// defaults to black. Malformed values report false.
func ParseColor(value, current string) (Color, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch {
	case v == "":
		return Color{}, false
	case v == "transparent":
		return Color{}, true
	case v == "currentcolor":
		if current == "" || strings.EqualFold(strings.TrimSpace(current), "currentcolor") {
			return Black, true
		}
		return ParseColor(current, "")
	case strings.HasPrefix(v, "#"):
		return parseHex(v[1:])
	case strings.HasPrefix(v, "rgb"):
		return parseRGB(v)
	case strings.HasPrefix(v, "hsl"):
		return parseHSL(v)
	}
	if c, ok := colornames.Map[v]; ok {
		return Color{R: c.R, G: c.G, B: c.B, A: float64(c.A) / 255}, true
	}
	return Color{}, false
}

func parseHex(x string) (Color, bool) {
	n, err := strconv.ParseUint(x, 16, 32)
	if err != nil {
		return Color{}, false
	}
	nib := func(shift uint) uint8 { v := uint8(n >> shift & 0xf); return v<<4 | v }
	byt := func(shift uint) uint8 { return uint8(n >> shift & 0xff) }
	switch len(x) {
	case 3:
		return Color{R: nib(8), G: nib(4), B: nib(0), A: 1}, true
	case 4:
		return Color{R: nib(12), G: nib(8), B: nib(4), A: float64(nib(0)) / 255}, true
	case 6:
		return Color{R: byt(16), G: byt(8), B: byt(0), A: 1}, true
	case 8:
		return Color{R: byt(24), G: byt(16), B: byt(8), A: float64(byt(0)) / 255}, true
	}
	return Color{}, false
}

// functionArgs splits "name(a, b, c / d)" into its arguments. Both the
// comma and the space separated syntaxes are accepted.
func functionArgs(v string) ([]string, bool) {
	open := strings.IndexByte(v, '(')
	if open < 0 || !strings.HasSuffix(v, ")") {
		return nil, false
	}
	inner := strings.NewReplacer(",", " ", "/", " ").Replace(v[open+1 : len(v)-1])
	return strings.Fields(inner), true
}

func parseAlpha(args []string, i int) (float64, bool) {
	if len(args) <= i {
		return 1, true
	}
	a, ok := parseLength(args[i], 1)
	if !ok {
		return 0, false
	}
	return clamp01(a), true
}

func parseRGB(v string) (Color, bool) {
	args, ok := functionArgs(v)
	if !ok || len(args) < 3 || len(args) > 4 {
		return Color{}, false
	}
	var ch [3]uint8
	for i := range ch {
		c, ok := parseLength(args[i], 255)
		if !ok {
			return Color{}, false
		}
		ch[i] = uint8(min(max(c, 0), 255) + 0.5)
	}
	a, ok := parseAlpha(args, 3)
	if !ok {
		return Color{}, false
	}
	return Color{R: ch[0], G: ch[1], B: ch[2], A: a}, true
}

func parseHSL(v string) (Color, bool) {
	args, ok := functionArgs(v)
	if !ok || len(args) < 3 || len(args) > 4 {
		return Color{}, false
	}
	h, ok := parseAngle(args[0])
	if !ok {
		if h, ok = parseLength(args[0], 0); !ok {
			return Color{}, false
		}
	}
	s, ok1 := parseLength(args[1], 1)
	l, ok2 := parseLength(args[2], 1)
	if !ok1 || !ok2 || !strings.HasSuffix(args[1], "%") || !strings.HasSuffix(args[2], "%") {
		return Color{}, false
	}
	a, ok := parseAlpha(args, 3)
	if !ok {
		return Color{}, false
	}
	h = mod(h, 360)
	r, g, b := colorful.Hsl(h, clamp01(s), clamp01(l)).Clamped().RGB255()
	return Color{R: r, G: g, B: b, A: a}, true
}

// paintColor resolves a style color for fill and stroke, falling back to
// the node's text color.
func paintColor(value string, s *style.Style) (Color, bool) {
	if value == "" {
		value = "currentcolor"
	}
	return ParseColor(value, s.Color)
}

func clamp01(v float64) float64 { return min(max(v, 0), 1) }

func mod(a, b float64) float64 {
	m := a - b*float64(int(a/b))
	if m < 0 {
		m += b
	}
	return m
}
