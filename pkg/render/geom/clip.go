package geom

import (
	"math"
	"strings"

	"github.com/matzehuels/boxsvg/pkg/node"
	"github.com/matzehuels/boxsvg/pkg/render/svg"
	"github.com/matzehuels/boxsvg/pkg/style"
)

// ClipShape converts a clip-path basic shape to an SVG element in document
// coordinates: inset(), circle(), ellipse(), polygon() and path().
// Lengths and percentages resolve against b. "none" and malformed values
// report false.
func ClipShape(b node.Box, value string) (string, bool) {
	v := strings.TrimSpace(value)
	lower := strings.ToLower(v)
	open := strings.IndexByte(v, '(')
	if lower == "" || lower == "none" || open < 0 || !strings.HasSuffix(v, ")") {
		return "", false
	}
	args := strings.TrimSpace(v[open+1 : len(v)-1])
	switch lower[:open] {
	case "inset":
		return insetShape(b, args)
	case "circle":
		return circleShape(b, args)
	case "ellipse":
		return ellipseShape(b, args)
	case "polygon":
		return polygonShape(b, args)
	case "path":
		d := strings.Trim(args, `"'`)
		if d == "" {
			return "", false
		}
		return svg.Emit("path", svg.Attrs{
			svg.A("d", d),
			svg.A("transform", translate(b.Left, b.Top)),
		}), true
	}
	return "", false
}

func translate(x, y float64) any {
	if x == 0 && y == 0 {
		return nil
	}
	return "translate(" + svg.Num(x) + " " + svg.Num(y) + ")"
}

func insetShape(b node.Box, args string) (string, bool) {
	var round []string
	if i := strings.Index(args, " round "); i >= 0 {
		round = strings.Fields(args[i+len(" round "):])
		args = args[:i]
	}
	toks := strings.Fields(args)
	if len(toks) == 0 || len(toks) > 4 {
		return "", false
	}
	for len(toks) < 4 {
		// top right bottom left, filled like margins.
		switch len(toks) {
		case 1:
			toks = append(toks, toks[0])
		case 2:
			toks = append(toks, toks[0])
		case 3:
			toks = append(toks, toks[1])
		}
	}
	var side [4]float64
	for i, t := range toks {
		base := b.Height
		if i%2 == 1 {
			base = b.Width
		}
		v, ok := parseLength(t, base)
		if !ok {
			return "", false
		}
		side[i] = v
	}
	inner := node.Box{
		Left:   b.Left + side[3],
		Top:    b.Top + side[0],
		Width:  max(b.Width-side[1]-side[3], 0),
		Height: max(b.Height-side[0]-side[2], 0),
	}
	if len(round) > 0 {
		var r [4]float64
		for i := range r {
			t := round[min(i, len(round)-1)]
			if len(round) == 2 && i == 2 {
				t = round[0]
			}
			if len(round) == 3 && i == 3 {
				t = round[1]
			}
			r[i], _ = parseLength(t, min(inner.Width, inner.Height))
		}
		if p := RoundedRectPath(inner, Radii{r[0], r[1], r[2], r[3]}); p != "" {
			return svg.Emit("path", svg.Attrs{svg.A("d", p)}), true
		}
	}
	return rect(inner, ""), true
}

// splitAt separates "<size> at <position>".
func splitAt(args string) (size, pos string) {
	if i := strings.Index(" "+args+" ", " at "); i >= 0 {
		end := min(i+3, len(args))
		return strings.TrimSpace(args[:max(i-1, 0)]), strings.TrimSpace(args[end:])
	}
	return args, ""
}

func shapeRadius(tok string, ref float64, near, far float64) (float64, bool) {
	switch tok {
	case "", "closest-side":
		return near, true
	case "farthest-side":
		return far, true
	}
	return parseLength(tok, ref)
}

func circleShape(b node.Box, args string) (string, bool) {
	size, pos := splitAt(args)
	cx, cy := parsePosition(pos, b.Width, b.Height, 0, 0, "center")
	near := min(cx, b.Width-cx, cy, b.Height-cy)
	far := max(cx, b.Width-cx, cy, b.Height-cy)
	ref := math.Hypot(b.Width, b.Height) / math.Sqrt2
	r, ok := shapeRadius(strings.TrimSpace(size), ref, near, far)
	if !ok {
		return "", false
	}
	return svg.Emit("circle", svg.Attrs{
		svg.A("cx", b.Left+cx),
		svg.A("cy", b.Top+cy),
		svg.A("r", r),
	}), true
}

func ellipseShape(b node.Box, args string) (string, bool) {
	size, pos := splitAt(args)
	cx, cy := parsePosition(pos, b.Width, b.Height, 0, 0, "center")
	toks := strings.Fields(size)
	for len(toks) < 2 {
		toks = append(toks, "")
	}
	rx, ok1 := shapeRadius(toks[0], b.Width, min(cx, b.Width-cx), max(cx, b.Width-cx))
	ry, ok2 := shapeRadius(toks[1], b.Height, min(cy, b.Height-cy), max(cy, b.Height-cy))
	if !ok1 || !ok2 {
		return "", false
	}
	return svg.Emit("ellipse", svg.Attrs{
		svg.A("cx", b.Left+cx),
		svg.A("cy", b.Top+cy),
		svg.A("rx", rx),
		svg.A("ry", ry),
	}), true
}

func polygonShape(b node.Box, args string) (string, bool) {
	var fillRule any
	pts := style.SplitCommas(args)
	if len(pts) > 0 {
		if first := strings.ToLower(pts[0]); first == "nonzero" || first == "evenodd" {
			fillRule, pts = first, pts[1:]
		}
	}
	if len(pts) < 3 {
		return "", false
	}
	coords := make([]string, 0, len(pts))
	for _, p := range pts {
		xy := strings.Fields(p)
		if len(xy) != 2 {
			return "", false
		}
		x, ok1 := parseLength(xy[0], b.Width)
		y, ok2 := parseLength(xy[1], b.Height)
		if !ok1 || !ok2 {
			return "", false
		}
		coords = append(coords, svg.Num(b.Left+x)+","+svg.Num(b.Top+y))
	}
	return svg.Emit("polygon", svg.Attrs{
		svg.A("points", strings.Join(coords, " ")),
		svg.A("clip-rule", fillRule),
	}), true
}

// ClipPath builds the clip element for a clip-path value. The shape
// follows the node's transform matrix, "" when untransformed. It returns
// "" for none and malformed values.
func ClipPath(id string, b node.Box, value, matrix string) string {
	shape, ok := ClipShape(b, value)
	if !ok {
		return ""
	}
	return svg.Emit("clipPath", svg.Attrs{
		svg.A("id", id),
		svg.A("transform", svg.Opt(matrix)),
	}, shape)
}

// NeedsOverflowClip reports whether a node clips its children: overflow
// hidden, or replaced content such as an image.
func NeedsOverflowClip(s *style.Style, image bool) bool {
	return image || s.Overflow == "hidden"
}

// OverflowClip builds the clip that confines children to the node's
// outline: path when rounded, otherwise the plain box. The clip is
// transformed by matrix only when overflow is hidden and a transform is
// present, so children are clipped in the plane they paint in.
func OverflowClip(id string, b node.Box, s *style.Style, path, matrix string) string {
	var transform any
	if s.Overflow == "hidden" && matrix != "" {
		transform = matrix
	}
	return svg.Emit("clipPath", svg.Attrs{
		svg.A("id", id),
		svg.A("transform", transform),
	}, rect(b, path))
}

// ContentMask builds the mask that isolates a node's own paint. Boxes get
// the border-only variant, a white area inset by the border widths. Images
// get the full-area variant covering the whole outline.
func ContentMask(id string, b node.Box, s *style.Style, path string, image bool) string {
	var shape string
	if image {
		shape = rect(b, path, svg.A("fill", "#fff"))
	} else {
		inner := insetBorders(b, s)
		shape = rect(inner, "", svg.A("fill", "#fff"))
	}
	return svg.Emit("mask", svg.Attrs{svg.A("id", id)}, shape)
}
