package render

import (
	"fmt"
	"strings"

	"github.com/matzehuels/boxsvg/pkg/font"
	"github.com/matzehuels/boxsvg/pkg/node"
	"github.com/matzehuels/boxsvg/pkg/render/geom"
	"github.com/matzehuels/boxsvg/pkg/render/svg"
	"github.com/matzehuels/boxsvg/pkg/style"
	"github.com/matzehuels/boxsvg/pkg/text"
)

func fontSpec(s style.Style) font.Spec {
	return font.Spec{
		Family:        s.FontFamily,
		Weight:        s.ResolvedFontWeight(),
		Style:         s.FontStyle,
		Size:          s.ResolvedFontSize(),
		LetterSpacing: s.LetterSpacing,
	}
}

// text lays out and paints the content of a text node.
func (rc *renderContext) text(n *node.Node, s style.Style, b node.Box) (defs, body string, err error) {
	if n.Content == "" {
		return "", "", nil
	}
	spec := fontSpec(s)
	m := rc.r.measure.Measurer(spec, rc.r.graphemeImages)
	metrics := rc.r.engine.Metrics(spec)

	block, err := text.Layout(text.Preprocess(n.Content, s, rc.r.locale), m, text.LayoutOptions{
		Left:       b.Left,
		Top:        b.Top,
		Width:      b.Width,
		LineHeight: s.ResolvedLineHeight(),
		Ascent:     metrics.Ascent,
		Descent:    metrics.Descent,
		Align:      s.TextAlign,
	})
	if err != nil {
		return "", "", fmt.Errorf("node %s: %w", n.ID, err)
	}
	rc.useFamilies(spec.Family)

	fill, ok := geom.ParseColor(s.Color, "")
	if !ok {
		fill = geom.Black
	}
	attrs := textAttrs(s, spec, fill)

	var out strings.Builder
	wide := false
	for _, line := range block.Lines {
		wide = wide || line.Width > b.Width
		for _, run := range line.Runs {
			out.WriteString(rc.run(run, m, attrs, metrics))
			out.WriteString(rc.decoration(run, s, spec, metrics, fill))
		}
	}
	body = out.String()

	if s.TextOverflow == "clip" && wide {
		id := svg.ID(svg.TextClip, n.ID)
		defs = svg.Emit("clipPath", svg.Attrs{svg.A("id", id)}, geom.Outline(b, ""))
		body = svg.Emit("g", svg.Attrs{svg.A("clip-path", svg.URL(id))}, body)
	}
	return defs, body, nil
}

func textAttrs(s style.Style, spec font.Spec, fill geom.Color) svg.Attrs {
	var weight, fontStyle any
	if spec.Weight != 400 {
		weight = spec.Weight
	}
	if s.FontStyle != "" && s.FontStyle != "normal" {
		fontStyle = s.FontStyle
	}
	return svg.Attrs{
		svg.A("font-family", svg.Opt(spec.Family)),
		svg.A("font-size", spec.Size),
		svg.A("font-weight", weight),
		svg.A("font-style", fontStyle),
		svg.A("letter-spacing", svg.Opt(spec.LetterSpacing)),
		svg.A("fill", fill.Hex()),
		svg.A("fill-opacity", fill.Opacity()),
	}
}

// run paints one positioned run. Graphemes registered as images are drawn
// as square <image> elements the size of the font, vertically centered on
// the glyph area; the text around them is split into separate elements.
func (rc *renderContext) run(r text.Run, m *text.Measurer, attrs svg.Attrs, metrics font.Metrics) string {
	var (
		out  strings.Builder
		seg  strings.Builder
		x    = r.X
		segX = r.X
	)
	flush := func() {
		if seg.Len() > 0 {
			out.WriteString(textElement(seg.String(), segX, r.Y, attrs))
			seg.Reset()
		}
	}
	size := m.Spec().Size
	for _, g := range text.Graphemes(r.Text) {
		w := m.Measure(g)
		if src, ok := m.Image(g); ok {
			flush()
			out.WriteString(svg.Emit("image", svg.Attrs{
				svg.A("href", rc.href(src)),
				svg.A("x", x),
				svg.A("y", r.Y-metrics.Ascent+(metrics.Ascent+metrics.Descent-size)/2),
				svg.A("width", size),
				svg.A("height", size),
			}))
			x += w
			continue
		}
		if seg.Len() == 0 {
			segX = x
		}
		seg.WriteString(g)
		x += w
	}
	flush()
	return out.String()
}

func textElement(content string, x, y float64, attrs svg.Attrs) string {
	var space any
	if strings.Contains(content, "  ") || strings.TrimSpace(content) != content {
		space = "preserve"
	}
	all := append(svg.Attrs{svg.A("x", x), svg.A("y", y)}, attrs...)
	all = append(all, svg.A("xml:space", space))
	return svg.Emit("text", all, svg.Text(content))
}

func (rc *renderContext) decoration(r text.Run, s style.Style, spec font.Spec, metrics font.Metrics, fill geom.Color) string {
	line := strings.TrimSpace(s.TextDecorationLine)
	if line == "" || line == "none" {
		return ""
	}
	color := fill
	if c, ok := geom.ParseColor(s.TextDecorationColor, s.Color); ok {
		color = c
	}
	skipInk := s.TextDecorationSkipInk != "none"
	var glyphs []font.GlyphBox
	if skipInk && strings.Contains(line, "underline") {
		glyphs = rc.r.engine.GlyphBoxes(text.Graphemes(r.Text), spec, r.X, r.Y)
	}
	return geom.Decoration(geom.DecorationOptions{
		Line:     line,
		Style:    s.TextDecorationStyle,
		Color:    color.Hex(),
		Start:    r.X,
		End:      r.X + r.Width,
		Top:      r.Y - metrics.Ascent,
		Baseline: r.Y,
		Ascent:   metrics.Ascent,
		FontSize: spec.Size,
		SkipInk:  skipInk,
		Glyphs:   glyphs,
	})
}
