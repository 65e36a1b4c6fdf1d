package geom

import (
	"math"
	"strings"

	"github.com/matzehuels/boxsvg/pkg/node"
	"github.com/matzehuels/boxsvg/pkg/render/svg"
)

// Matrix is a 2D affine transform in SVG order: a b c d e f.
type Matrix [6]float64

// Identity is the identity transform.
var Identity = Matrix{1, 0, 0, 1, 0, 0}

// Mul returns m × n: n applies first, then m.
func (m Matrix) Mul(n Matrix) Matrix {
	return Matrix{
		m[0]*n[0] + m[2]*n[1],
		m[1]*n[0] + m[3]*n[1],
		m[0]*n[2] + m[2]*n[3],
		m[1]*n[2] + m[3]*n[3],
		m[0]*n[4] + m[2]*n[5] + m[4],
		m[1]*n[4] + m[3]*n[5] + m[5],
	}
}

// Apply transforms a point.
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// IsIdentity reports whether m is the identity, within rounding.
func (m Matrix) IsIdentity() bool {
	for i, v := range m {
		if math.Abs(v-Identity[i]) > 1e-9 {
			return false
		}
	}
	return true
}

// String formats m as an SVG matrix() transform.
func (m Matrix) String() string {
	parts := make([]string, len(m))
	for i, v := range m {
		parts[i] = svg.Num(v)
	}
	return "matrix(" + strings.Join(parts, ",") + ")"
}

func translateM(x, y float64) Matrix { return Matrix{1, 0, 0, 1, x, y} }

// ParseTransform parses a CSS transform list for a w x h box. Translate
// percentages resolve against the box. Functions compose left to right.
// Malformed lists report false.
func ParseTransform(value string, w, h float64) (Matrix, bool) {
	v := strings.TrimSpace(value)
	if v == "" || strings.EqualFold(v, "none") {
		return Identity, true
	}
	m := Identity
	for v != "" {
		open := strings.IndexByte(v, '(')
		end := strings.IndexByte(v, ')')
		if open <= 0 || end < open {
			return Identity, false
		}
		name := strings.ToLower(strings.TrimSpace(v[:open]))
		args := strings.Fields(strings.ReplaceAll(v[open+1:end], ",", " "))
		f, ok := transformFunc(name, args, w, h)
		if !ok {
			return Identity, false
		}
		m = m.Mul(f)
		v = strings.TrimSpace(v[end+1:])
	}
	return m, true
}

func transformFunc(name string, args []string, w, h float64) (Matrix, bool) {
	lengths := func(bases ...float64) ([]float64, bool) {
		out := make([]float64, len(args))
		for i, a := range args {
			base := bases[min(i, len(bases)-1)]
			v, ok := parseLength(a, base)
			if !ok {
				return nil, false
			}
			out[i] = v
		}
		return out, true
	}
	numbers := func() ([]float64, bool) {
		out := make([]float64, len(args))
		for i, a := range args {
			v, ok := parseLength(a, 1)
			if !ok {
				return nil, false
			}
			out[i] = v
		}
		return out, true
	}
	angles := func() ([]float64, bool) {
		out := make([]float64, len(args))
		for i, a := range args {
			v, ok := parseAngle(a)
			if !ok {
				return nil, false
			}
			out[i] = v * math.Pi / 180
		}
		return out, true
	}
	arity := func(lo, hi int) bool { return len(args) >= lo && len(args) <= hi }

	switch name {
	case "translate", "translatex", "translatey":
		if !arity(1, 2) || (name != "translate" && len(args) != 1) {
			return Identity, false
		}
		l, ok := lengths(w, h)
		if !ok {
			return Identity, false
		}
		switch {
		case name == "translatex":
			return translateM(l[0], 0), true
		case name == "translatey":
			if v, ok := parseLength(args[0], h); ok {
				return translateM(0, v), true
			}
			return Identity, false
		case len(l) == 1:
			return translateM(l[0], 0), true
		}
		return translateM(l[0], l[1]), true
	case "scale", "scalex", "scaley":
		if !arity(1, 2) || (name != "scale" && len(args) != 1) {
			return Identity, false
		}
		n, ok := numbers()
		if !ok {
			return Identity, false
		}
		switch {
		case name == "scalex":
			return Matrix{n[0], 0, 0, 1, 0, 0}, true
		case name == "scaley":
			return Matrix{1, 0, 0, n[0], 0, 0}, true
		case len(n) == 1:
			return Matrix{n[0], 0, 0, n[0], 0, 0}, true
		}
		return Matrix{n[0], 0, 0, n[1], 0, 0}, true
	case "rotate":
		if !arity(1, 1) {
			return Identity, false
		}
		a, ok := angles()
		if !ok {
			return Identity, false
		}
		sin, cos := math.Sincos(a[0])
		return Matrix{cos, sin, -sin, cos, 0, 0}, true
	case "skew", "skewx", "skewy":
		if !arity(1, 2) || (name != "skew" && len(args) != 1) {
			return Identity, false
		}
		a, ok := angles()
		if !ok {
			return Identity, false
		}
		switch {
		case name == "skewx":
			return Matrix{1, 0, math.Tan(a[0]), 1, 0, 0}, true
		case name == "skewy":
			return Matrix{1, math.Tan(a[0]), 0, 1, 0, 0}, true
		case len(a) == 1:
			return Matrix{1, 0, math.Tan(a[0]), 1, 0, 0}, true
		}
		return Matrix{1, math.Tan(a[1]), math.Tan(a[0]), 1, 0, 0}, true
	case "matrix":
		if !arity(6, 6) {
			return Identity, false
		}
		var m Matrix
		for i, a := range args {
			v, ok := parseLength(a, 0)
			if !ok {
				return Identity, false
			}
			m[i] = v
		}
		return m, true
	}
	return Identity, false
}

// TransformMatrix composes a node's transform around its transform origin
// (the box center by default) in document coordinates. It returns "" for
// no transform, the identity, or a malformed value.
func TransformMatrix(b node.Box, transform, origin string) string {
	m, ok := ParseTransform(transform, b.Width, b.Height)
	if !ok || m.IsIdentity() {
		return ""
	}
	ox, oy := parsePosition(origin, b.Width, b.Height, 0, 0, "center")
	ox, oy = b.Left+ox, b.Top+oy
	return translateM(ox, oy).Mul(m).Mul(translateM(-ox, -oy)).String()
}
