package geom

import (
	"strings"

	"github.com/matzehuels/boxsvg/pkg/node"
	"github.com/matzehuels/boxsvg/pkg/render/svg"
	"github.com/matzehuels/boxsvg/pkg/style"
)

// Radii holds the four corner radii in pixels.
type Radii struct {
	TopLeft, TopRight, BottomRight, BottomLeft float64
}

// IsZero reports whether every corner is square.
func (r Radii) IsZero() bool {
	return r.TopLeft == 0 && r.TopRight == 0 && r.BottomRight == 0 && r.BottomLeft == 0
}

// RadiiFromStyle reads the corner radii of s. Percentages resolve against
// the shorter side of the box.
func RadiiFromStyle(s *style.Style, w, h float64) Radii {
	base := min(w, h)
	return Radii{
		TopLeft:     max(s.BorderTopLeftRadius.Resolve(base), 0),
		TopRight:    max(s.BorderTopRightRadius.Resolve(base), 0),
		BottomRight: max(s.BorderBottomRightRadius.Resolve(base), 0),
		BottomLeft:  max(s.BorderBottomLeftRadius.Resolve(base), 0),
	}
}

// ResolveRadii fits r into a w x h box.
//
// Each radius is first clamped to min(radius, w, h). Then every edge whose
// two adjacent radii sum to more than its length is fixed: when both
// exceed half the edge they become exactly half, otherwise the larger one
// shrinks to the edge length minus the other. Edges are processed top,
// left, right, bottom and later edges see the radii earlier ones adjusted.
func ResolveRadii(r Radii, w, h float64) Radii {
	limit := max(min(w, h), 0)
	r.TopLeft = min(r.TopLeft, limit)
	r.TopRight = min(r.TopRight, limit)
	r.BottomRight = min(r.BottomRight, limit)
	r.BottomLeft = min(r.BottomLeft, limit)

	fitEdge(&r.TopLeft, &r.TopRight, w)
	fitEdge(&r.TopLeft, &r.BottomLeft, h)
	fitEdge(&r.TopRight, &r.BottomRight, h)
	fitEdge(&r.BottomLeft, &r.BottomRight, w)
	return r
}

func fitEdge(a, b *float64, edge float64) {
	if *a+*b <= edge {
		return
	}
	half := edge / 2
	switch {
	case *a > half && *b > half:
		*a, *b = half, half
	case *a > half:
		*a = edge - *b
	default:
		*b = edge - *a
	}
}

// RoundedRectPath returns the outline of b with corners r as closed path
// data. The path starts on the top edge just past the top-left corner and
// runs clockwise. Square boxes return "" so callers fall back to a rect.
func RoundedRectPath(b node.Box, r Radii) string {
	if r.IsZero() {
		return ""
	}
	r = ResolveRadii(r, b.Width, b.Height)
	if r.IsZero() {
		return ""
	}
	x, y, w, h := b.Left, b.Top, b.Width, b.Height

	var p pathBuilder
	p.cmd("M", x+r.TopLeft, y)
	p.cmd("H", x+w-r.TopRight)
	p.arc(r.TopRight, x+w, y+r.TopRight)
	p.cmd("V", y+h-r.BottomRight)
	p.arc(r.BottomRight, x+w-r.BottomRight, y+h)
	p.cmd("H", x+r.BottomLeft)
	p.arc(r.BottomLeft, x, y+h-r.BottomLeft)
	p.cmd("V", y+r.TopLeft)
	p.arc(r.TopLeft, x+r.TopLeft, y)
	p.close()
	return p.String()
}

// pathBuilder accumulates path data.
type pathBuilder struct {
	b strings.Builder
}

func (p *pathBuilder) cmd(c string, args ...float64) {
	if p.b.Len() > 0 {
		p.b.WriteByte(' ')
	}
	p.b.WriteString(c)
	for _, a := range args {
		p.b.WriteByte(' ')
		p.b.WriteString(svg.Num(a))
	}
}

// arc draws a clockwise quarter ellipse of radius r to (x, y). Zero radii
// draw nothing; the following straight segment reaches the corner.
func (p *pathBuilder) arc(r, x, y float64) {
	if r <= 0 {
		return
	}
	p.cmd("A", r, r, 0, 0, 1, x, y)
}

func (p *pathBuilder) close() { p.cmd("Z") }

func (p *pathBuilder) String() string { return p.b.String() }
