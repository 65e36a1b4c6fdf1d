package geom

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/boxsvg/pkg/render/svg"
	"github.com/matzehuels/boxsvg/pkg/style"
)

// ColorStop is a declared gradient stop. A nil Offset means the position
// was not given.
type ColorStop struct {
	Color  string
	Offset *style.Length
}

// Stop is a resolved gradient stop with an offset in [0, 1].
type Stop struct {
	Offset float64
	Color  string
}

// NormalizeStops resolves declared stops against a gradient line of
// totalLength pixels.
//
// The first stop is pinned to 0: a first stop with no offset gets 0 and a
// first stop elsewhere is preceded by a copy of its color at 0. Percentages
// divide by 100 and lengths by totalLength. The last stop is pinned to 1:
// it gets 1 when it had no offset, is moved to 1 for repeating gradients
// with more than one stop, and is followed by a copy of its color at 1
// otherwise. Stops without an offset are spread evenly between their
// anchored neighbours.
//
// The result always starts at 0, ends at 1 and never decreases.
func NormalizeStops(stops []ColorStop, totalLength float64, repeating bool) []Stop {
	resolve := func(l style.Length) float64 {
		if l.Percent {
			return l.Value / 100
		}
		if totalLength <= 0 {
			return 0
		}
		return l.Value / totalLength
	}

	type pending struct {
		offset float64
		set    bool
		color  string
	}
	var out []pending
	for _, s := range stops {
		if len(out) == 0 {
			out = append(out, pending{offset: 0, set: true, color: s.Color})
			if s.Offset == nil || resolve(*s.Offset) == 0 {
				continue
			}
		}
		p := pending{color: s.Color}
		if s.Offset != nil {
			p.offset, p.set = resolve(*s.Offset), true
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		out = append(out, pending{offset: 0, set: true, color: "transparent"})
	}

	last := &out[len(out)-1]
	switch {
	case last.set && last.offset == 1:
	case !last.set:
		last.offset, last.set = 1, true
	case repeating && len(out) > 1:
		last.offset = 1
	default:
		out = append(out, pending{offset: 1, set: true, color: last.color})
	}

	prev, next := 0, 1
	for i := range out {
		if out[i].set {
			prev = i
			continue
		}
		if next < i {
			next = i
		}
		for !out[next].set {
			next++
		}
		step := (out[next].offset - out[prev].offset) / float64(next-prev)
		out[i].offset = out[prev].offset + step*float64(i-prev)
	}

	res := make([]Stop, len(out))
	floor := 0.0
	for i, p := range out {
		off := max(clamp01(p.offset), floor)
		if i == len(out)-1 {
			off = 1
		}
		res[i] = Stop{Offset: off, Color: p.color}
		floor = off
	}
	return res
}

// MaskStops remaps paint stops for a luminance mask: fully transparent
// colors become opaque black and every other color becomes white at its
// original alpha. Colors that do not parse count as transparent.
func MaskStops(stops []Stop) []Stop {
	out := make([]Stop, len(stops))
	for i, s := range stops {
		c, ok := ParseColor(s.Color, "")
		if !ok || c.Transparent() {
			out[i] = Stop{Offset: s.Offset, Color: "#000000"}
			continue
		}
		out[i] = Stop{Offset: s.Offset, Color: Color{R: 255, G: 255, B: 255, A: c.A}.String()}
	}
	return out
}

// GradientKind distinguishes linear from radial gradients.
type GradientKind int

const (
	Linear GradientKind = iota
	Radial
)

// Gradient is a parsed CSS gradient function.
type Gradient struct {
	Kind      GradientKind
	Repeating bool

	// Angle in degrees for linear gradients; 0 points up, 90 right.
	Angle float64
	// Corner is set for "to top right" style directions, whose angle
	// depends on the box aspect ratio.
	Corner string

	// Shape is "circle" or "ellipse" and Extent a size keyword or one or
	// two lengths, for radial gradients.
	Shape  string
	Extent []string
	// At is the center position of radial gradients.
	At string

	Stops []ColorStop
}

// ParseGradient parses linear-gradient(), radial-gradient() and their
// repeating variants. Malformed values report false.
func ParseGradient(value string) (Gradient, bool) {
	v := strings.TrimSpace(value)
	lower := strings.ToLower(v)
	var g Gradient
	var name string
	for _, n := range []string{"repeating-linear-gradient", "repeating-radial-gradient", "linear-gradient", "radial-gradient"} {
		if strings.HasPrefix(lower, n+"(") {
			name = n
			break
		}
	}
	if name == "" || !strings.HasSuffix(v, ")") {
		return Gradient{}, false
	}
	g.Repeating = strings.HasPrefix(name, "repeating-")
	if strings.HasSuffix(name, "radial-gradient") {
		g.Kind = Radial
	}

	parts := style.SplitCommas(v[len(name)+1 : len(v)-1])
	if len(parts) == 0 {
		return Gradient{}, false
	}
	var ok bool
	if g.Kind == Linear {
		g.Angle, g.Corner, ok = parseDirection(parts[0])
		if !ok {
			g.Angle = 180
		}
	} else {
		ok = parseRadialShape(parts[0], &g)
	}
	if ok {
		parts = parts[1:]
	}
	for _, p := range parts {
		stops, ok := parseStops(p)
		if !ok {
			return Gradient{}, false
		}
		g.Stops = append(g.Stops, stops...)
	}
	if len(g.Stops) == 0 {
		return Gradient{}, false
	}
	return g, true
}

var sideAngles = map[string]float64{"top": 0, "right": 90, "bottom": 180, "left": 270}

func parseDirection(p string) (angle float64, corner string, ok bool) {
	p = strings.ToLower(strings.TrimSpace(p))
	if a, ok := parseAngle(p); ok {
		return a, "", true
	}
	toks := strings.Fields(p)
	if len(toks) < 2 || toks[0] != "to" {
		return 0, "", false
	}
	switch len(toks) {
	case 2:
		a, ok := sideAngles[toks[1]]
		return a, "", ok
	case 3:
		v, h := toks[1], toks[2]
		if v == "left" || v == "right" {
			v, h = h, v
		}
		if (v != "top" && v != "bottom") || (h != "left" && h != "right") {
			return 0, "", false
		}
		return 0, v + " " + h, true
	}
	return 0, "", false
}

func parseRadialShape(p string, g *Gradient) bool {
	toks := strings.Fields(strings.ToLower(p))
	if len(toks) == 0 {
		return false
	}
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch {
		case t == "circle" || t == "ellipse":
			g.Shape = t
		case t == "closest-side" || t == "closest-corner" || t == "farthest-side" || t == "farthest-corner":
			g.Extent = []string{t}
		case t == "at":
			g.At = strings.Join(toks[i+1:], " ")
			i = len(toks)
		default:
			if _, ok := parseLength(t, 1); !ok {
				return false
			}
			g.Extent = append(g.Extent, t)
		}
	}
	return true
}

// parseStops parses one comma separated part: a color with zero, one or
// two positions. Two positions produce two stops of the same color.
func parseStops(p string) ([]ColorStop, bool) {
	toks := style.Fields(p)
	if len(toks) == 0 || len(toks) > 3 {
		return nil, false
	}
	if _, ok := ParseColor(toks[0], ""); !ok && !strings.EqualFold(toks[0], "currentcolor") {
		return nil, false
	}
	color := toks[0]
	if len(toks) == 1 {
		return []ColorStop{{Color: color}}, true
	}
	var out []ColorStop
	for _, t := range toks[1:] {
		l, ok := stopOffset(t)
		if !ok {
			return nil, false
		}
		out = append(out, ColorStop{Color: color, Offset: &l})
	}
	return out, true
}

func stopOffset(t string) (style.Length, bool) {
	if strings.HasSuffix(t, "%") {
		v, err := strconv.ParseFloat(strings.TrimSuffix(t, "%"), 64)
		return style.Pct(v), err == nil
	}
	v, ok := parseLength(t, 0)
	return style.Px(v), ok
}

// angleFor returns the gradient angle for a w x h box, resolving corner
// directions so the line is perpendicular to the box diagonal.
func (g Gradient) angleFor(w, h float64) float64 {
	if g.Corner == "" {
		return g.Angle
	}
	a := math.Atan2(h, w) * 180 / math.Pi
	switch g.Corner {
	case "top right":
		return a
	case "bottom right":
		return 180 - a
	case "bottom left":
		return 180 + a
	default:
		return 360 - a
	}
}

// Emit returns the gradient definition for a w x h tile whose origin is
// 0,0. Stops are remapped with [MaskStops] when mask is set.
func (g Gradient) Emit(id string, w, h float64, current string, mask bool) string {
	if g.Kind == Radial {
		return g.emitRadial(id, w, h, current, mask)
	}
	return g.emitLinear(id, w, h, current, mask)
}

func (g Gradient) emitLinear(id string, w, h float64, current string, mask bool) string {
	rad := g.angleFor(w, h) * math.Pi / 180
	dx, dy := math.Sin(rad), -math.Cos(rad)
	length := math.Abs(w*dx) + math.Abs(h*dy)
	cx, cy := w/2, h/2
	x1, y1 := cx-dx*length/2, cy-dy*length/2

	stops, period := g.resolveStops(length)
	return svg.Emit("linearGradient", svg.Attrs{
		svg.A("id", id),
		svg.A("gradientUnits", "userSpaceOnUse"),
		svg.A("x1", x1),
		svg.A("y1", y1),
		svg.A("x2", x1+dx*period),
		svg.A("y2", y1+dy*period),
		svg.A("spreadMethod", repeatMethod(g.Repeating)),
	}, stopElems(stops, current, mask)...)
}

func (g Gradient) emitRadial(id string, w, h float64, current string, mask bool) string {
	cx, cy := parsePosition(g.At, w, h, 0, 0, "center")
	rx, ry := g.radialSize(cx, cy, w, h)
	if rx <= 0 || ry <= 0 {
		rx, ry = max(rx, 0.001), max(ry, 0.001)
	}
	stops, period := g.resolveStops(rx)
	var transform any
	if ry != rx {
		transform = "translate(" + svg.Num(cx) + " " + svg.Num(cy) + ") scale(1 " + svg.Num(ry/rx) +
			") translate(" + svg.Num(-cx) + " " + svg.Num(-cy) + ")"
	}
	return svg.Emit("radialGradient", svg.Attrs{
		svg.A("id", id),
		svg.A("gradientUnits", "userSpaceOnUse"),
		svg.A("cx", cx),
		svg.A("cy", cy),
		svg.A("r", period),
		svg.A("gradientTransform", transform),
		svg.A("spreadMethod", repeatMethod(g.Repeating)),
	}, stopElems(stops, current, mask)...)
}

// radialSize returns the ending shape radii; the default extent is
// farthest-corner.
func (g Gradient) radialSize(cx, cy, w, h float64) (rx, ry float64) {
	circle := g.Shape == "circle" || (g.Shape == "" && len(g.Extent) == 1 && !isExtentKeyword(g.Extent[0]))
	if len(g.Extent) > 0 && !isExtentKeyword(g.Extent[0]) {
		rx, _ = parseLength(g.Extent[0], w)
		ry = rx
		if len(g.Extent) > 1 {
			ry, _ = parseLength(g.Extent[1], h)
		}
		return rx, ry
	}
	extent := "farthest-corner"
	if len(g.Extent) > 0 {
		extent = g.Extent[0]
	}
	sx := []float64{cx, w - cx}
	sy := []float64{cy, h - cy}
	pick := math.Max
	if strings.HasPrefix(extent, "closest") {
		pick = math.Min
	}
	side := strings.HasSuffix(extent, "side")
	if circle {
		if side {
			r := pick(pick(sx[0], sx[1]), pick(sy[0], sy[1]))
			return r, r
		}
		var r float64
		for i, x := range sx {
			for j, y := range sy {
				d := math.Hypot(x, y)
				if i == 0 && j == 0 {
					r = d
				} else {
					r = pick(r, d)
				}
			}
		}
		return r, r
	}
	rx, ry = pick(sx[0], sx[1]), pick(sy[0], sy[1])
	if !side {
		rx, ry = rx*math.Sqrt2, ry*math.Sqrt2
	}
	return rx, ry
}

func isExtentKeyword(s string) bool {
	return strings.HasPrefix(s, "closest-") || strings.HasPrefix(s, "farthest-")
}

// resolveStops normalizes stops along a line of length pixels. Repeating
// gradients repeat every period pixels, the position of their last
// declared stop.
func (g Gradient) resolveStops(length float64) ([]Stop, float64) {
	if !g.Repeating {
		return NormalizeStops(g.Stops, length, false), length
	}
	abs := make([]ColorStop, len(g.Stops))
	period := 0.0
	for i, s := range g.Stops {
		abs[i] = ColorStop{Color: s.Color}
		if s.Offset != nil {
			px := style.Px(s.Offset.Resolve(length))
			abs[i].Offset = &px
			period = max(period, px.Value)
		}
	}
	if period <= 0 {
		period = length
	}
	return NormalizeStops(abs, period, true), period
}

func repeatMethod(repeating bool) any {
	if repeating {
		return "repeat"
	}
	return nil
}

func stopElems(stops []Stop, current string, mask bool) []string {
	if mask {
		stops = MaskStops(resolveCurrent(stops, current))
	}
	out := make([]string, 0, len(stops))
	for _, s := range stops {
		c, ok := ParseColor(s.Color, current)
		if !ok {
			c = Color{}
		}
		out = append(out, svg.Emit("stop", svg.Attrs{
			svg.A("offset", s.Offset),
			svg.A("stop-color", c.Hex()),
			svg.A("stop-opacity", c.Opacity()),
		}))
	}
	return out
}

func resolveCurrent(stops []Stop, current string) []Stop {
	out := make([]Stop, len(stops))
	for i, s := range stops {
		out[i] = s
		if strings.EqualFold(s.Color, "currentcolor") {
			if c, ok := ParseColor(s.Color, current); ok {
				out[i].Color = c.String()
			}
		}
	}
	return out
}
