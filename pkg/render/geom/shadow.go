package geom

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/boxsvg/pkg/node"
	"github.com/matzehuels/boxsvg/pkg/render/svg"
	"github.com/matzehuels/boxsvg/pkg/style"
)

// Shadow is one box-shadow layer.
type Shadow struct {
	OffsetX, OffsetY float64
	Blur             float64
	Spread           float64
	Color            Color
	Inset            bool
}

// ParseBoxShadow parses a comma separated box-shadow list. Layers that do
// not parse are dropped; "none" yields no shadows. Inset layers are parsed
// but never painted.
func ParseBoxShadow(value, current string) []Shadow {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "none") {
		return nil
	}
	var out []Shadow
	for _, layer := range style.SplitCommas(value) {
		if s, ok := parseShadow(layer, current); ok {
			out = append(out, s)
		}
	}
	return out
}

func parseShadow(layer, current string) (Shadow, bool) {
	var (
		s        = Shadow{Color: Black}
		lengths  []float64
		hasColor bool
	)
	if current != "" {
		if c, ok := ParseColor(current, ""); ok {
			s.Color = c
		}
	}
	for _, tok := range style.Fields(layer) {
		if strings.EqualFold(tok, "inset") {
			s.Inset = true
			continue
		}
		if v, ok := parseLength(tok, 0); ok && !strings.HasSuffix(tok, "%") {
			lengths = append(lengths, v)
			continue
		}
		c, ok := ParseColor(tok, current)
		if !ok || hasColor {
			return Shadow{}, false
		}
		s.Color, hasColor = c, true
	}
	switch len(lengths) {
	case 4:
		s.Spread = lengths[3]
		fallthrough
	case 3:
		s.Blur = max(lengths[2], 0)
		fallthrough
	case 2:
		s.OffsetX, s.OffsetY = lengths[0], lengths[1]
	default:
		return Shadow{}, false
	}
	return s, true
}

// ShadowRegion returns the filter region for a shadow as percentages of
// the box: x, y, width and height. The box is extended by twice the blur
// radius plus a positive spread on every side, plus the offset on the side
// it points to.
func ShadowRegion(b node.Box, s Shadow) (x, y, w, h float64) {
	if b.Width <= 0 || b.Height <= 0 {
		return 0, 0, 100, 100
	}
	grow := s.Blur*2 + max(s.Spread, 0)
	left := min(0, s.OffsetX) - grow
	right := max(0, s.OffsetX) + grow
	top := min(0, s.OffsetY) - grow
	bottom := max(0, s.OffsetY) + grow
	return left / b.Width * 100,
		top / b.Height * 100,
		(b.Width + right - left) / b.Width * 100,
		(b.Height + bottom - top) / b.Height * 100
}

// ShadowFilter builds the filter for the outer shadows of a box. The
// filter paints only the shadows; the caller applies it to a dedicated
// copy of the box shape underneath the node's own paint. Spread dilates
// (or, when negative, erodes) the shape's alpha before the blur. It
// returns "" when there is nothing to paint.
func ShadowFilter(id string, b node.Box, shadows []Shadow) string {
	var (
		prims  []string
		merge  []string
		region [4]float64
		first  = true
	)
	for i, s := range shadows {
		if s.Inset || s.Color.Transparent() {
			continue
		}
		x, y, w, h := ShadowRegion(b, s)
		if first {
			region, first = [4]float64{x, y, x + w, y + h}, false
		} else {
			region = [4]float64{min(region[0], x), min(region[1], y), max(region[2], x+w), max(region[3], y+h)}
		}
		n := strconv.Itoa(i)
		source := "SourceAlpha"
		if s.Spread != 0 {
			op := "dilate"
			if s.Spread < 0 {
				op = "erode"
			}
			source = "m" + n
			prims = append(prims, svg.Emit("feMorphology", svg.Attrs{
				svg.A("in", "SourceAlpha"),
				svg.A("operator", op),
				svg.A("radius", math.Abs(s.Spread)),
				svg.A("result", source),
			}))
		}
		prims = append(prims,
			svg.Emit("feGaussianBlur", svg.Attrs{
				svg.A("in", source),
				svg.A("stdDeviation", s.Blur/2),
				svg.A("result", "b"+n),
			}),
			svg.Emit("feOffset", svg.Attrs{
				svg.A("in", "b"+n),
				svg.A("dx", s.OffsetX),
				svg.A("dy", s.OffsetY),
				svg.A("result", "o"+n),
			}),
			svg.Emit("feFlood", svg.Attrs{
				svg.A("flood-color", s.Color.Hex()),
				svg.A("flood-opacity", s.Color.Opacity()),
				svg.A("result", "f"+n),
			}),
			svg.Emit("feComposite", svg.Attrs{
				svg.A("in", "f"+n),
				svg.A("in2", "o"+n),
				svg.A("operator", "in"),
				svg.A("result", "s"+n),
			}),
		)
		// Earlier layers paint on top.
		merge = append([]string{svg.Emit("feMergeNode", svg.Attrs{svg.A("in", "s"+n)})}, merge...)
	}
	if len(prims) == 0 {
		return ""
	}
	prims = append(prims, svg.Emit("feMerge", nil, merge...))
	return svg.Emit("filter", svg.Attrs{
		svg.A("id", id),
		svg.A("x", svg.Num(region[0])+"%"),
		svg.A("y", svg.Num(region[1])+"%"),
		svg.A("width", svg.Num(region[2]-region[0])+"%"),
		svg.A("height", svg.Num(region[3]-region[1])+"%"),
		svg.A("color-interpolation-filters", "sRGB"),
	}, prims...)
}
