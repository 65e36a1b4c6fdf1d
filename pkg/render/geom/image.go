package geom

import (
	"github.com/matzehuels/boxsvg/pkg/node"
	"github.com/matzehuels/boxsvg/pkg/render/svg"
)

// PreserveAspectRatio maps object-fit to the SVG attribute. none and
// scale-down keep the intrinsic ratio without cropping.
func PreserveAspectRatio(objectFit string) string {
	switch objectFit {
	case "cover":
		return "xMidYMid slice"
	case "fill", "":
		return "none"
	}
	return "xMidYMid meet"
}

// ImageContent draws replaced content stretched over b according to
// object-fit. mask is the id of the node's content mask, "" for none.
func ImageContent(b node.Box, href, objectFit, mask string) string {
	var m any
	if mask != "" {
		m = svg.URL(mask)
	}
	return svg.Emit("image", svg.Attrs{
		svg.A("href", href),
		svg.A("x", b.Left),
		svg.A("y", b.Top),
		svg.A("width", b.Width),
		svg.A("height", b.Height),
		svg.A("preserveAspectRatio", PreserveAspectRatio(objectFit)),
		svg.A("mask", m),
	})
}
