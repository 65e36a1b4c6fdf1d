// Package style holds the closed set of CSS-like properties a node may carry.
//
// A [Style] is a plain struct with one field per supported property. Values
// arrive pre-resolved: lengths are pixels, keywords and percentages stay as
// string tokens. Unknown property names are rejected when a Style is built
// from a map ([FromMap]) or from inline declarations ([ParseDeclarations]),
// so they never reach the renderer.
//
// # Inheritance
//
// [Inherit] projects a node's style onto the subset its children receive:
// typography, opacity, filter and the internal plumbing fields that carry
// clip/mask ids and the viewport size down the tree. The allow-list is a
// static table; there is no way to change it at runtime.
//
// # Validation
//
// [Validate] checks enumerated properties (display, position, overflow,
// text-transform, ...) against their allowed values and reports the first
// violation as an [errors.InvalidPropertyValueError].
package style

import "strconv"

// DefaultFontSize is used when no font-size is set anywhere up the tree.
const DefaultFontSize = 16

// DefaultLineHeightScale multiplies font-size when line-height is unset.
const DefaultLineHeightScale = 1.2

// Length is either an absolute pixel value or a percentage of a reference
// dimension. The zero value is 0px.
type Length struct {
	Value   float64
	Percent bool
}

// Px returns an absolute length.
func Px(v float64) Length { return Length{Value: v} }

// Pct returns a percentage length.
func Pct(v float64) Length { return Length{Value: v, Percent: true} }

// Resolve converts the length to pixels against base.
func (l Length) Resolve(base float64) float64 {
	if l.Percent {
		return l.Value * base / 100
	}
	return l.Value
}

// IsZero reports whether the length is zero.
func (l Length) IsZero() bool { return l.Value == 0 }

// String formats the length as a CSS token.
func (l Length) String() string {
	s := strconv.FormatFloat(l.Value, 'f', -1, 64)
	if l.Percent {
		return s + "%"
	}
	return s + "px"
}

// Style is the resolved style of one node.
//
// String fields are empty when unset. Numeric fields use their zero value as
// "unset" unless they are pointers.
type Style struct {
	// Box
	Display         string
	Position        string
	Overflow        string
	Transform       string
	TransformOrigin string
	ClipPath        string
	Opacity         *float64
	Filter          string
	BoxShadow       string
	ObjectFit       string

	// Background
	BackgroundColor    string
	BackgroundImage    string
	BackgroundPosition string
	BackgroundSize     string
	BackgroundRepeat   string
	BackgroundClip     string

	// Border
	BorderTopLeftRadius     Length
	BorderTopRightRadius    Length
	BorderBottomRightRadius Length
	BorderBottomLeftRadius  Length
	BorderTopWidth          float64
	BorderRightWidth        float64
	BorderBottomWidth       float64
	BorderLeftWidth         float64
	BorderTopColor          string
	BorderRightColor        string
	BorderBottomColor       string
	BorderLeftColor         string
	BorderStyle             string

	// Mask; each field may hold a comma separated list, one entry per layer.
	MaskImage    string
	MaskPosition string
	MaskSize     string
	MaskRepeat   string
	MaskOrigin   string
	MaskClip     string

	// Typography
	Color                 string
	FontFamily            string
	FontSize              float64
	FontWeight            int
	FontStyle             string
	LineHeight            float64
	LetterSpacing         float64
	TextAlign             string
	TextTransform         string
	WhiteSpace            string
	WordBreak             string
	OverflowWrap          string
	TextOverflow          string
	LineClamp             string
	WebkitLineClamp       int
	WebkitBoxOrient       string
	TextDecorationLine    string
	TextDecorationStyle   string
	TextDecorationColor   string
	TextDecorationSkipInk string

	// Plumbing set by the renderer, never read from input. Children are
	// painted inside the group that applies the ancestor clip and mask, so
	// the ids are only carried for introspection of the computed style.
	InheritedClipPathID string
	InheritedMaskID     string
	ViewportWidth       float64
	ViewportHeight      float64
}

// ResolvedFontSize returns the font size or DefaultFontSize.
func (s Style) ResolvedFontSize() float64 {
	if s.FontSize > 0 {
		return s.FontSize
	}
	return DefaultFontSize
}

// ResolvedLineHeight returns the line height in pixels.
func (s Style) ResolvedLineHeight() float64 {
	if s.LineHeight > 0 {
		return s.LineHeight
	}
	return s.ResolvedFontSize() * DefaultLineHeightScale
}

// ResolvedFontWeight returns the numeric font weight (400 when unset).
func (s Style) ResolvedFontWeight() int {
	if s.FontWeight > 0 {
		return s.FontWeight
	}
	return 400
}

// ResolvedOpacity returns the opacity, 1 when unset.
func (s Style) ResolvedOpacity() float64 {
	if s.Opacity == nil {
		return 1
	}
	return *s.Opacity
}

// HasBorder reports whether any side has a positive width.
func (s Style) HasBorder() bool {
	return s.BorderTopWidth > 0 || s.BorderRightWidth > 0 ||
		s.BorderBottomWidth > 0 || s.BorderLeftWidth > 0
}

// Float returns a pointer to v, for optional numeric fields.
func Float(v float64) *float64 { return &v }
