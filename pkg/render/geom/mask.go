package geom

import (
	"strconv"
	"strings"

	"github.com/matzehuels/boxsvg/pkg/node"
	"github.com/matzehuels/boxsvg/pkg/render/svg"
	"github.com/matzehuels/boxsvg/pkg/style"
)

// MaskLayers returns the declared mask-image layers of s. mask-origin
// defaults to the border box.
func MaskLayers(s *style.Style) []MaskLayer {
	layers := Layers(s.MaskImage, s.MaskPosition, s.MaskSize, s.MaskRepeat, s.MaskOrigin, s.MaskClip)
	for i := range layers {
		if layers[i].Origin == "" {
			layers[i].Origin = "border-box"
		}
	}
	return layers
}

// CompositeMask paints every layer, in reverse declared order, into one
// shared mask container with the given id. Each layer gets its own
// pattern (and gradient) definition plus a rect referencing it. Gradient
// layers use mask stops so their alpha drives visibility. It returns ""
// when no layer can be painted.
func CompositeMask(id string, b node.Box, layers []MaskLayer, s *style.Style, images ImageLookup) string {
	var defs, body strings.Builder
	for i := len(layers) - 1; i >= 0; i-- {
		pid := svg.Sub(id, strconv.Itoa(i))
		def, ok := tile(pid, b, layers[i], s, images, true)
		if !ok {
			continue
		}
		defs.WriteString(def)
		area := b
		if strings.EqualFold(layers[i].Clip, "padding-box") || strings.EqualFold(layers[i].Clip, "content-box") {
			area = insetBorders(b, s)
		}
		body.WriteString(rect(area, "", svg.A("fill", svg.URL(pid))))
	}
	if body.Len() == 0 {
		return ""
	}
	return svg.Emit("mask", svg.Attrs{
		svg.A("id", id),
		svg.A("maskUnits", "userSpaceOnUse"),
		svg.A("x", b.Left),
		svg.A("y", b.Top),
		svg.A("width", b.Width),
		svg.A("height", b.Height),
	}, defs.String(), body.String())
}
