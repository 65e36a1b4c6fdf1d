// Package geom builds the vector fragments a node paints with.
//
// Every builder is a pure function of a node's box, its resolved style and
// the ids the caller allocated for it. Builders return SVG markup or path
// data and never fail: malformed style values are treated as absent.
//
// The builders are:
//
//   - [RoundedRectPath] for the box outline, with the corner radius
//     resolution from [ResolveRadii]
//   - [ShadowFilter] for box-shadow
//   - [NormalizeStops], [MaskStops] and [ParseGradient] for gradients
//   - [Background] and [CompositeMask] for layered backgrounds and masks
//   - [ClipPath], [OverflowClip] and [ContentMask] for clipping
//   - [Decoration] for text-decoration lines with skip-ink
//   - [TransformMatrix] for CSS transforms
//   - [Border] for box borders
package geom

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/boxsvg/pkg/node"
	"github.com/matzehuels/boxsvg/pkg/render/svg"
)

// Image is a resolved image source.
type Image struct {
	// Href is the value used for the href attribute, usually a data URI.
	Href string
	// Width and Height are the intrinsic size, zero when unknown.
	Width, Height float64
}

// ImageLookup returns the resolved image for a source url.
type ImageLookup func(src string) (Image, bool)

// parseLength parses a px, percentage or unitless token against base.
func parseLength(tok string, base float64) (float64, bool) {
	tok = strings.TrimSpace(strings.ToLower(tok))
	switch {
	case tok == "":
		return 0, false
	case strings.HasSuffix(tok, "%"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(tok, "%"), 64)
		if err != nil {
			return 0, false
		}
		return v * base / 100, true
	case strings.HasSuffix(tok, "px"):
		tok = strings.TrimSuffix(tok, "px")
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseAngle parses deg, rad, grad and turn tokens into degrees. A bare
// zero is accepted.
func parseAngle(tok string) (float64, bool) {
	tok = strings.TrimSpace(strings.ToLower(tok))
	units := []struct {
		suffix string
		scale  float64
	}{
		{"deg", 1},
		{"grad", 0.9},
		{"rad", 180 / math.Pi},
		{"turn", 360},
	}
	for _, u := range units {
		if strings.HasSuffix(tok, u.suffix) {
			v, err := strconv.ParseFloat(strings.TrimSuffix(tok, u.suffix), 64)
			if err != nil {
				return 0, false
			}
			return v * u.scale, true
		}
	}
	if tok == "0" {
		return 0, true
	}
	return 0, false
}

// parsePosition resolves a CSS position (background-position, transform
// origin, "at" in gradients and shapes) inside an area of w x h, for an
// object of size ow x oh. Keywords and percentages align the object inside
// the area. An empty value means def.
func parsePosition(value string, w, h, ow, oh float64, def string) (x, y float64) {
	toks := strings.Fields(strings.ToLower(value))
	if len(toks) == 0 {
		toks = strings.Fields(def)
	}
	horiz, vert := "50%", "50%"
	switch len(toks) {
	case 1:
		switch toks[0] {
		case "top", "bottom":
			vert = toks[0]
		default:
			horiz = toks[0]
		}
	default:
		horiz, vert = toks[0], toks[1]
		if horiz == "top" || horiz == "bottom" || vert == "left" || vert == "right" {
			horiz, vert = vert, horiz
		}
	}
	return axis(horiz, w-ow, "left", "right"), axis(vert, h-oh, "top", "bottom")
}

func axis(tok string, free float64, start, end string) float64 {
	switch tok {
	case start:
		return 0
	case end:
		return free
	case "center":
		return free / 2
	}
	if strings.HasSuffix(tok, "%") {
		v, ok := parseLength(tok, free)
		if ok {
			return v
		}
		return free / 2
	}
	v, ok := parseLength(tok, 0)
	if !ok {
		return free / 2
	}
	return v
}

// rect emits a rect or, when path is set, a path of the same shape.
// Outline draws the outline of b: the rounded path when set, otherwise the
// plain box.
func Outline(b node.Box, path string, attrs ...svg.Attr) string {
	return rect(b, path, attrs...)
}

func rect(b node.Box, path string, attrs ...svg.Attr) string {
	if path != "" {
		return svg.Emit("path", append(svg.Attrs{svg.A("d", path)}, attrs...))
	}
	return svg.Emit("rect", append(svg.Attrs{
		svg.A("x", b.Left),
		svg.A("y", b.Top),
		svg.A("width", b.Width),
		svg.A("height", b.Height),
	}, attrs...))
}
