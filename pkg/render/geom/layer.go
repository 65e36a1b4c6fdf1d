package geom

import (
	"strconv"
	"strings"

	"github.com/matzehuels/boxsvg/pkg/node"
	"github.com/matzehuels/boxsvg/pkg/render/svg"
	"github.com/matzehuels/boxsvg/pkg/style"
)

// Layer is one background or mask image layer.
type Layer struct {
	Image    string
	Position string
	Size     string
	Repeat   string
	Origin   string
	Clip     string
}

// MaskLayer is one stacked mask-image layer.
type MaskLayer = Layer

// Layers zips comma separated layer lists. The image list decides the
// layer count; shorter lists repeat, as in CSS.
func Layers(images, positions, sizes, repeats, origins, clips string) []Layer {
	imgs := style.SplitCommas(images)
	if len(imgs) == 0 {
		return nil
	}
	lists := [][]string{
		style.SplitCommas(positions),
		style.SplitCommas(sizes),
		style.SplitCommas(repeats),
		style.SplitCommas(origins),
		style.SplitCommas(clips),
	}
	at := func(list []string, i int) string {
		if len(list) == 0 {
			return ""
		}
		return list[i%len(list)]
	}
	out := make([]Layer, 0, len(imgs))
	for i, img := range imgs {
		if strings.EqualFold(img, "none") {
			continue
		}
		out = append(out, Layer{
			Image:    img,
			Position: at(lists[0], i),
			Size:     at(lists[1], i),
			Repeat:   at(lists[2], i),
			Origin:   at(lists[3], i),
			Clip:     at(lists[4], i),
		})
	}
	return out
}

// urlValue extracts the target of url(...).
func urlValue(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(strings.ToLower(v), "url(") || !strings.HasSuffix(v, ")") {
		return "", false
	}
	u := strings.TrimSpace(v[4 : len(v)-1])
	return strings.Trim(u, `"'`), true
}

// ImageURLs returns the url() sources used by a layer list.
func ImageURLs(layers []Layer) []string {
	var out []string
	for _, l := range layers {
		if u, ok := urlValue(l.Image); ok {
			out = append(out, u)
		}
	}
	return out
}

// tileSize resolves background-size for content with intrinsic size iw x ih
// (zero when unknown) in an area of w x h.
func tileSize(size string, w, h, iw, ih float64) (float64, float64) {
	size = strings.ToLower(strings.TrimSpace(size))
	if iw <= 0 || ih <= 0 {
		iw, ih = w, h
	}
	switch size {
	case "", "auto", "auto auto":
		return iw, ih
	case "cover", "contain":
		sx, sy := w/iw, h/ih
		s := max(sx, sy)
		if size == "contain" {
			s = min(sx, sy)
		}
		return iw * s, ih * s
	}
	toks := strings.Fields(size)
	tw, okW := parseLength(toks[0], w)
	th, okH := tw, okW
	if len(toks) > 1 {
		th, okH = parseLength(toks[1], h)
	}
	switch {
	case !okW && !okH:
		return iw, ih
	case !okW:
		tw = th * iw / ih
	case !okH:
		th = tw * ih / iw
	}
	return tw, th
}

// layerArea returns the positioning area for background-origin or
// mask-origin; the default is the padding box. Content boxes are not known
// here and fall back to the padding box.
func layerArea(b node.Box, origin string, s *style.Style) node.Box {
	if strings.EqualFold(origin, "border-box") {
		return b
	}
	return insetBorders(b, s)
}

func insetBorders(b node.Box, s *style.Style) node.Box {
	if s == nil {
		return b
	}
	return node.Box{
		Left:   b.Left + s.BorderLeftWidth,
		Top:    b.Top + s.BorderTopWidth,
		Width:  max(b.Width-s.BorderLeftWidth-s.BorderRightWidth, 0),
		Height: max(b.Height-s.BorderTopWidth-s.BorderBottomWidth, 0),
	}
}

// tile builds the pattern painting one layer over b and returns its
// definitions. The pattern id is id; nested gradients get sub ids. ok is
// false when the layer's image cannot be painted.
func tile(id string, b node.Box, l Layer, s *style.Style, images ImageLookup, mask bool) (string, bool) {
	area := layerArea(b, l.Origin, s)
	var (
		iw, ih  float64
		content func(w, h float64) (defs, body string)
	)
	if g, ok := ParseGradient(l.Image); ok {
		gid := svg.Sub(id, "gradient")
		content = func(w, h float64) (string, string) {
			return g.Emit(gid, w, h, s.Color, mask),
				svg.Emit("rect", svg.Attrs{
					svg.A("x", 0), svg.A("y", 0),
					svg.A("width", w), svg.A("height", h),
					svg.A("fill", svg.URL(gid)),
				})
		}
	} else if u, ok := urlValue(l.Image); ok && images != nil {
		img, ok := images(u)
		if !ok {
			return "", false
		}
		iw, ih = img.Width, img.Height
		content = func(w, h float64) (string, string) {
			return "", svg.Emit("image", svg.Attrs{
				svg.A("x", 0), svg.A("y", 0),
				svg.A("width", w), svg.A("height", h),
				svg.A("preserveAspectRatio", "none"),
				svg.A("href", img.Href),
			})
		}
	} else {
		return "", false
	}

	tw, th := tileSize(l.Size, area.Width, area.Height, iw, ih)
	if tw <= 0 || th <= 0 {
		return "", false
	}
	ox, oy := parsePosition(l.Position, area.Width, area.Height, tw, th, "0% 0%")

	repeatX, repeatY := true, true
	switch strings.ToLower(strings.TrimSpace(l.Repeat)) {
	case "no-repeat":
		repeatX, repeatY = false, false
	case "repeat-x":
		repeatY = false
	case "repeat-y":
		repeatX = false
	}
	pw, ph := tw, th
	if !repeatX {
		pw = tw + b.Width
	}
	if !repeatY {
		ph = th + b.Height
	}

	defs, body := content(tw, th)
	return defs + svg.Emit("pattern", svg.Attrs{
		svg.A("id", id),
		svg.A("patternUnits", "userSpaceOnUse"),
		svg.A("x", area.Left+ox),
		svg.A("y", area.Top+oy),
		svg.A("width", pw),
		svg.A("height", ph),
	}, body), true
}

// Background paints the background color and image layers of a node.
// Image layers paint in reverse declared order, so the first declared
// layer ends up on top. path is the rounded outline, "" for a plain box.
// contentMask, when set, masks layers clipped to the padding box.
func Background(id string, b node.Box, s *style.Style, path, contentMask string, images ImageLookup) (defs, body string) {
	var d, out strings.Builder
	if c, ok := ParseColor(s.BackgroundColor, s.Color); ok && !c.Transparent() {
		out.WriteString(rect(b, path, svg.A("fill", c.Hex()), svg.A("fill-opacity", c.Opacity())))
	}
	layers := Layers(s.BackgroundImage, s.BackgroundPosition, s.BackgroundSize, s.BackgroundRepeat, "", s.BackgroundClip)
	for i := len(layers) - 1; i >= 0; i-- {
		l := layers[i]
		pid := svg.Sub(id, strconv.Itoa(i))
		def, ok := tile(pid, b, l, s, images, false)
		if !ok {
			continue
		}
		d.WriteString(def)
		var m any
		if contentMask != "" && clipsToPadding(l.Clip) {
			m = svg.URL(contentMask)
		}
		out.WriteString(rect(b, path, svg.A("fill", svg.URL(pid)), svg.A("mask", m)))
	}
	return d.String(), out.String()
}

func clipsToPadding(clip string) bool {
	switch strings.ToLower(clip) {
	case "padding-box", "content-box":
		return true
	}
	return false
}
