package text

import (
	"strings"
	"unicode"
)

// LayoutOptions positions a text block.
type LayoutOptions struct {
	Left, Top  float64
	Width      float64 // available line width
	LineHeight float64
	Ascent     float64
	Descent    float64
	Align      string // left, right, center, justify, start, end
}

// Run is a positioned piece of text. Y is the baseline.
type Run struct {
	Text  string
	X, Y  float64
	Width float64
}

// Line is one laid out line.
type Line struct {
	Runs  []Run
	Width float64
}

// Block is the result of Layout.
type Block struct {
	Lines     []Line
	Height    float64
	Truncated bool
}

// Text returns the visible text of a line.
func (l Line) Text() string {
	var b strings.Builder
	for i, r := range l.Runs {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(r.Text)
	}
	return b.String()
}

type pendingLine struct {
	pieces []string
	hard   bool // ended by a required break
}

func (p pendingLine) text() string { return strings.Join(p.pieces, "") }

// Layout breaks p into lines that fit opts.Width and positions them.
//
// Lines are filled greedily; trailing whitespace does not count toward the
// fit. A unit wider than the line is split per grapheme when
// p.AllowBreakWord. Lines past p.Limit are dropped and the last kept line
// gets the ellipsis.
func Layout(p Processed, m *Measurer, opts LayoutOptions) (*Block, error) {
	if err := m.Check(p.Text); err != nil {
		return nil, err
	}

	var (
		lines []pendingLine
		cur   pendingLine
		width float64
	)
	flush := func(hard bool) {
		cur.hard = hard
		lines = append(lines, cur)
		cur, width = pendingLine{}, 0
	}
	fits := func(w float64) bool { return !p.AllowSoftWrap || w <= opts.Width }

	for i, word := range p.Words {
		required := i < len(p.RequiredBreaks) && p.RequiredBreaks[i]
		if word != "" {
			full := m.MeasureText(word)
			trimmed := m.MeasureText(trimTrailingSpace(word))

			if len(cur.pieces) > 0 && !fits(width+trimmed) {
				flush(false)
			}
			if p.AllowBreakWord && p.AllowSoftWrap && trimmed > opts.Width {
				for _, g := range Graphemes(word) {
					gw := m.Measure(g)
					if len(cur.pieces) > 0 && !isSpace(g) && !fits(width+gw) {
						flush(false)
					}
					cur.pieces = append(cur.pieces, g)
					width += gw
				}
			} else {
				cur.pieces = append(cur.pieces, word)
				width += full
			}
		}
		if required {
			flush(true)
		}
	}
	if len(cur.pieces) > 0 {
		flush(false)
	}

	block := &Block{}
	if p.Limit.Limited() {
		if len(lines) > p.Limit.MaxLines {
			lines = lines[:p.Limit.MaxLines]
			block.Truncated = true
		}
		if n := len(lines); n > 0 {
			last := &lines[n-1]
			if block.Truncated || m.MeasureText(trimTrailingSpace(last.text())) > opts.Width {
				last.pieces = []string{applyEllipsis(last.text(), p.Limit.Ellipsis, m, opts.Width)}
				last.hard = true
				block.Truncated = true
			}
		}
	}

	lh := opts.LineHeight
	for i, pl := range lines {
		baseline := opts.Top + float64(i)*lh + (lh-(opts.Ascent+opts.Descent))/2 + opts.Ascent
		justify := opts.Align == "justify" && !pl.hard && i < len(lines)-1
		block.Lines = append(block.Lines, positionLine(pl, m, opts, baseline, justify))
	}
	block.Height = float64(len(lines)) * lh
	return block, nil
}

// applyEllipsis removes graphemes from the end of line until line plus
// ellipsis fits width. An ellipsis that cannot fit on its own falls back to
// DefaultEllipsis.
func applyEllipsis(line, ellipsis string, m *Measurer, width float64) string {
	ew := m.MeasureText(ellipsis)
	if ew > width && ellipsis != DefaultEllipsis {
		ellipsis = DefaultEllipsis
		ew = m.MeasureText(ellipsis)
	}
	gs := Graphemes(trimTrailingSpace(line))
	for len(gs) > 0 && m.MeasureGraphemes(gs)+ew > width {
		gs = gs[:len(gs)-1]
	}
	return trimTrailingSpace(strings.Join(gs, "")) + ellipsis
}

func positionLine(pl pendingLine, m *Measurer, opts LayoutOptions, baseline float64, justify bool) Line {
	text := trimTrailingSpace(pl.text())
	w := m.MeasureText(text)
	line := Line{Width: w}
	if text == "" {
		return line
	}

	if justify {
		words := strings.Fields(text)
		if len(words) > 1 {
			var inked float64
			widths := make([]float64, len(words))
			for i, word := range words {
				widths[i] = m.MeasureText(word)
				inked += widths[i]
			}
			gap := (opts.Width - inked) / float64(len(words)-1)
			x := opts.Left
			for i, word := range words {
				line.Runs = append(line.Runs, Run{Text: word, X: x, Y: baseline, Width: widths[i]})
				x += widths[i] + gap
			}
			line.Width = opts.Width
			return line
		}
	}

	x := opts.Left
	switch opts.Align {
	case "right", "end":
		x += opts.Width - w
	case "center":
		x += (opts.Width - w) / 2
	}
	line.Runs = []Run{{Text: text, X: x, Y: baseline, Width: w}}
	return line
}

func trimTrailingSpace(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

func isSpace(g string) bool {
	return strings.TrimSpace(g) == ""
}
