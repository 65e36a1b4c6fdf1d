package geom

import (
	"math"
	"sort"
	"strings"

	"github.com/matzehuels/boxsvg/pkg/font"
	"github.com/matzehuels/boxsvg/pkg/render/svg"
)

// Range is a horizontal interval [Start, End].
type Range struct {
	Start, End float64
}

// DecorationThickness returns the stroke width used for a font size.
func DecorationThickness(fontSize float64) float64 {
	return max(1, fontSize*0.06)
}

// DecorationY returns the y of a decoration line for a text line whose
// top is top and whose font ascent is ascent.
func DecorationY(line string, top, ascent float64) float64 {
	switch line {
	case "underline":
		return top + ascent*1.1
	case "line-through":
		return top + ascent*0.7
	}
	return top
}

// SkipRanges returns the merged intervals an underline at y must skip.
//
// A glyph contributes [x1-bleed, x2+bleed], with bleed =
// max(stroke/2, stroke*1.25), only when its ink crosses the underline
// band: its bottom reaches below baseline+stroke/2 and its top is above
// y+stroke/2. Overlapping ranges are merged; the result is sorted and
// pairwise disjoint.
func SkipRanges(glyphs []font.GlyphBox, baseline, y, stroke float64) []Range {
	half := stroke / 2
	bleed := max(half, stroke*1.25)
	var raw []Range
	for _, g := range glyphs {
		if g.Y2 > baseline+half && g.Y1 < y+half {
			raw = append(raw, Range{g.X1 - bleed, g.X2 + bleed})
		}
	}
	sort.Slice(raw, func(i, j int) bool { return raw[i].Start < raw[j].Start })
	var merged []Range
	for _, r := range raw {
		if n := len(merged); n > 0 && r.Start <= merged[n-1].End {
			merged[n-1].End = max(merged[n-1].End, r.End)
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// Segments returns the parts of [start, end] not covered by skips, which
// must be sorted and disjoint. Segments and the covered parts of skips
// together tile [start, end] exactly.
func Segments(start, end float64, skips []Range) []Range {
	var out []Range
	x := start
	for _, s := range skips {
		if s.End <= x {
			continue
		}
		if s.Start >= end {
			break
		}
		if s.Start > x {
			out = append(out, Range{x, s.Start})
		}
		x = s.End
	}
	if x < end {
		out = append(out, Range{x, end})
	}
	return out
}

// DecorationOptions describes one decorated run.
type DecorationOptions struct {
	Line  string // underline, overline or line-through
	Style string // solid, double, dotted, dashed or wavy
	Color string

	Start, End float64
	Top        float64
	Baseline   float64
	Ascent     float64
	FontSize   float64

	// SkipInk enables skip-ink for underlines; Glyphs are the ink boxes of
	// the run.
	SkipInk bool
	Glyphs  []font.GlyphBox
}

// Decoration draws the decoration lines of a run. Underlines with skip-ink
// break around descending glyphs; every other line is one segment.
func Decoration(o DecorationOptions) string {
	if o.End <= o.Start {
		return ""
	}
	var out strings.Builder
	for _, line := range strings.Fields(o.Line) {
		if line != "underline" && line != "overline" && line != "line-through" {
			continue
		}
		stroke := DecorationThickness(o.FontSize)
		y := DecorationY(line, o.Top, o.Ascent)

		segs := []Range{{o.Start, o.End}}
		if line == "underline" && o.SkipInk {
			segs = Segments(o.Start, o.End, SkipRanges(o.Glyphs, o.Baseline, y, stroke))
		}

		offsets := []float64{0}
		if o.Style == "double" {
			offsets = append(offsets, stroke+1)
		}
		for _, dy := range offsets {
			for _, s := range segs {
				out.WriteString(decorationLine(o, s, y+dy, stroke))
			}
		}
	}
	return out.String()
}

func decorationLine(o DecorationOptions, s Range, y, stroke float64) string {
	if o.Style == "wavy" {
		return svg.Emit("path", svg.Attrs{
			svg.A("d", wavePath(s, y, stroke)),
			svg.A("fill", "none"),
			svg.A("stroke", o.Color),
			svg.A("stroke-width", stroke),
		})
	}
	var dash any
	lineCap := "square"
	switch o.Style {
	case "dashed":
		dash = svg.Num(stroke*2) + " " + svg.Num(stroke)
	case "dotted":
		dash = "0 " + svg.Num(stroke*2)
		lineCap = "round"
	}
	return svg.Emit("line", svg.Attrs{
		svg.A("x1", s.Start),
		svg.A("y1", y),
		svg.A("x2", s.End),
		svg.A("y2", y),
		svg.A("stroke", o.Color),
		svg.A("stroke-width", stroke),
		svg.A("stroke-dasharray", dash),
		svg.A("stroke-linecap", lineCap),
	})
}

// wavePath approximates a wavy line with quadratic segments whose
// wavelength is four strokes.
func wavePath(s Range, y, stroke float64) string {
	var p pathBuilder
	wave := stroke * 4
	amp := stroke
	p.cmd("M", s.Start, y)
	up := true
	for x := s.Start; x < s.End; x += wave / 2 {
		next := math.Min(x+wave/2, s.End)
		cy := y + amp
		if up {
			cy = y - amp
		}
		p.cmd("Q", (x+next)/2, cy, next, y)
		up = !up
	}
	return p.String()
}
