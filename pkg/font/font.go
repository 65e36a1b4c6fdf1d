// Package font defines the font engine contract used by text layout and
// decoration, and ships a default OpenType implementation.
//
// The renderer never parses font files itself. It asks an [Engine] for
// grapheme advances, glyph ink boxes (for skip-ink underlines) and vertical
// metrics. [Registry] implements Engine on top of golang.org/x/image/font/sfnt
// and can be seeded with the Go fonts via [Default].
package font

import (
	"strconv"
	"strings"
)

// Spec selects a face and size.
type Spec struct {
	Family        string  // CSS font-family list, e.g. `"Inter", sans-serif`
	Weight        int     // 100..900; 0 means 400
	Style         string  // normal, italic, oblique
	Size          float64 // px
	LetterSpacing float64 // px added after every grapheme
}

// Key identifies the measurement configuration of a spec. Two specs with
// the same key always produce the same widths.
func (s Spec) Key() string {
	var b strings.Builder
	b.WriteString(strings.ToLower(s.Family))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(s.weight()))
	b.WriteByte('|')
	b.WriteString(s.style())
	b.WriteByte('|')
	b.WriteString(strconv.FormatFloat(s.Size, 'f', -1, 64))
	b.WriteByte('|')
	b.WriteString(strconv.FormatFloat(s.LetterSpacing, 'f', -1, 64))
	return b.String()
}

func (s Spec) weight() int {
	if s.Weight <= 0 {
		return 400
	}
	return s.Weight
}

func (s Spec) style() string {
	if s.Style == "italic" || s.Style == "oblique" {
		return "italic"
	}
	return "normal"
}

// GlyphBox is the ink bounding box of one grapheme in document space.
// Y grows downwards.
type GlyphBox struct {
	X1, Y1, X2, Y2 float64
}

// Metrics are the vertical metrics of a face at a size. Both values are
// positive distances from the baseline.
type Metrics struct {
	Ascent  float64
	Descent float64
}

// Engine measures and describes glyphs.
type Engine interface {
	// Measure returns the advance of one grapheme including letter spacing.
	Measure(grapheme string, spec Spec) float64
	// GlyphBoxes returns one ink box per grapheme of run, laid out from x on
	// the given baseline.
	GlyphBoxes(graphemes []string, spec Spec, x, baseline float64) []GlyphBox
	// Metrics returns ascent and descent for a font Spec.
	Metrics(spec Spec) Metrics
	// Empty reports whether no font data is available.
	Empty() bool
}

// Families splits a CSS font-family list into unquoted, lowercased names.
func Families(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ",") {
		name := strings.Trim(strings.TrimSpace(part), `"'`)
		if name != "" {
			out = append(out, strings.ToLower(name))
		}
	}
	return out
}
