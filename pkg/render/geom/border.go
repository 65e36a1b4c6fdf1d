package geom

import (
	"strings"

	"github.com/matzehuels/boxsvg/pkg/node"
	"github.com/matzehuels/boxsvg/pkg/render/svg"
	"github.com/matzehuels/boxsvg/pkg/style"
)

type side struct {
	width float64
	color Color
}

func borderSides(s *style.Style) [4]side {
	var out [4]side
	widths := [4]float64{s.BorderTopWidth, s.BorderRightWidth, s.BorderBottomWidth, s.BorderLeftWidth}
	colors := [4]string{s.BorderTopColor, s.BorderRightColor, s.BorderBottomColor, s.BorderLeftColor}
	for i := range out {
		c, ok := paintColor(colors[i], s)
		if !ok {
			c = Black
		}
		out[i] = side{width: max(widths[i], 0), color: c}
	}
	return out
}

func borderDash(style string, w float64) (dash any, lineCap string) {
	switch style {
	case "dashed":
		return svg.Num(w*2) + " " + svg.Num(w), "butt"
	case "dotted":
		return "0 " + svg.Num(w*2), "round"
	}
	return nil, "butt"
}

// Border draws the border of a node. A uniform border is one stroke of
// the outline at twice the width, clipped to the outline so it paints
// inside the box; the clip is returned in defs under id. Sides that differ
// in width or color are drawn as separate straight lines.
func Border(id string, b node.Box, s *style.Style, path string) (defs, body string) {
	if !s.HasBorder() {
		return "", ""
	}
	bs := strings.ToLower(s.BorderStyle)
	if bs == "none" || bs == "hidden" {
		return "", ""
	}
	sides := borderSides(s)
	uniform := true
	for _, sd := range sides[1:] {
		if sd != sides[0] {
			uniform = false
		}
	}

	if uniform {
		w := sides[0].width
		dash, lineCap := borderDash(bs, w)
		defs = svg.Emit("clipPath", svg.Attrs{svg.A("id", id)}, rect(b, path))
		body = rect(b, path,
			svg.A("fill", "none"),
			svg.A("stroke", sides[0].color.Hex()),
			svg.A("stroke-opacity", sides[0].color.Opacity()),
			svg.A("stroke-width", w*2),
			svg.A("stroke-dasharray", dash),
			svg.A("stroke-linecap", lineCapOrEmpty(lineCap)),
			svg.A("clip-path", svg.URL(id)),
		)
		return defs, body
	}

	x, y, w, h := b.Left, b.Top, b.Width, b.Height
	lines := [4][4]float64{
		{x, y + sides[0].width/2, x + w, y + sides[0].width/2},
		{x + w - sides[1].width/2, y, x + w - sides[1].width/2, y + h},
		{x, y + h - sides[2].width/2, x + w, y + h - sides[2].width/2},
		{x + sides[3].width/2, y, x + sides[3].width/2, y + h},
	}
	var out strings.Builder
	for i, sd := range sides {
		if sd.width <= 0 || sd.color.Transparent() {
			continue
		}
		dash, lineCap := borderDash(bs, sd.width)
		l := lines[i]
		out.WriteString(svg.Emit("line", svg.Attrs{
			svg.A("x1", l[0]),
			svg.A("y1", l[1]),
			svg.A("x2", l[2]),
			svg.A("y2", l[3]),
			svg.A("stroke", sd.color.Hex()),
			svg.A("stroke-opacity", sd.color.Opacity()),
			svg.A("stroke-width", sd.width),
			svg.A("stroke-dasharray", dash),
			svg.A("stroke-linecap", lineCapOrEmpty(lineCap)),
		}))
	}
	return "", out.String()
}

// lineCapOrEmpty drops the SVG default cap.
func lineCapOrEmpty(c string) any {
	if c == "butt" {
		return nil
	}
	return c
}
