package render

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/boxsvg/pkg/errors"
	"github.com/matzehuels/boxsvg/pkg/font"
	"github.com/matzehuels/boxsvg/pkg/layout"
	"github.com/matzehuels/boxsvg/pkg/node"
	"github.com/matzehuels/boxsvg/pkg/observability"
	"github.com/matzehuels/boxsvg/pkg/render/geom"
	"github.com/matzehuels/boxsvg/pkg/render/svg"
	"github.com/matzehuels/boxsvg/pkg/resource"
	"github.com/matzehuels/boxsvg/pkg/style"
	"github.com/matzehuels/boxsvg/pkg/text"
)

// Renderer renders node trees to SVG. It holds no per-render state and is
// safe for concurrent use; only the measurement cache is shared between
// renders.
type Renderer struct {
	engine         font.Engine
	layout         layout.Engine
	resolver       resource.Resolver
	measure        *text.MeasureCache
	logger         *log.Logger
	concurrency    int
	embedFonts     bool
	graphemeImages map[string]string
	locale         string
}

// New creates a Renderer. A measurement cache passed with
// [WithMeasureCache] decides the font engine.
func New(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range opts {
		opt(r)
	}
	switch {
	case r.measure != nil:
		r.engine = r.measure.Engine()
	case r.engine == nil:
		r.engine = font.Default()
		fallthrough
	default:
		r.measure = text.NewMeasureCache(r.engine)
	}
	if r.layout == nil {
		r.layout = layout.Static{}
	}
	if r.resolver == nil {
		r.resolver = resource.New()
	}
	if r.logger == nil {
		r.logger = log.New(io.Discard)
	}
	return r
}

// MeasureCache returns the measurement cache used by the renderer.
func (r *Renderer) MeasureCache() *text.MeasureCache { return r.measure }

// FontEngine returns the font engine used by the renderer.
func (r *Renderer) FontEngine() font.Engine { return r.engine }

// Render lays out root in a width x height viewport and returns the SVG
// document. Nodes without an id get one assigned first. Any error aborts
// the render; no partial document is returned.
func (r *Renderer) Render(ctx context.Context, root *node.Node, width, height float64) (out string, err error) {
	if root == nil {
		return "", errors.New(errors.ErrCodeInvalidInput, "render: nil root")
	}
	if err := errors.ValidateDimensions(width, height); err != nil {
		return "", err
	}
	node.AssignIDs(root)
	if err := node.Validate(root); err != nil {
		return "", err
	}

	count := node.Count(root)
	start := time.Now()
	observability.Render().OnRenderStart(ctx, count)
	defer func() {
		observability.Render().OnRenderComplete(ctx, count, time.Since(start), err)
	}()

	boxes, err := r.runLayout(ctx, root, width, height, count)
	if err != nil {
		return "", err
	}
	images, err := resource.Prefetch(ctx, r.resolver, r.sources(root), r.concurrency)
	if err != nil {
		return "", err
	}

	rc := &renderContext{r: r, boxes: boxes, images: images, families: make(map[string]bool)}
	body, err := rc.node(ctx, root, style.Style{ViewportWidth: width, ViewportHeight: height})
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", errors.Wrap(errors.ErrCodeCanceled, err, "render")
	}

	var defs string
	if r.embedFonts {
		defs = rc.fontFaces()
	}
	out = svg.Document(width, height, defs, body)
	hits, misses := r.measure.Stats()
	r.logger.Debug("rendered", "nodes", count, "bytes", len(out), "measure_hits", hits, "measure_misses", misses, "duration", time.Since(start))
	return out, nil
}

func (r *Renderer) runLayout(ctx context.Context, root *node.Node, width, height float64, count int) (layout.Boxes, error) {
	start := time.Now()
	observability.Render().OnLayoutStart(ctx, count)
	boxes, err := r.layout.Layout(ctx, root, width, height)
	observability.Render().OnLayoutComplete(ctx, count, time.Since(start), err)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeCanceled, ctx.Err(), "layout")
		}
		return nil, fmt.Errorf("layout: %w", err)
	}
	r.logger.Debug("layout complete", "nodes", count, "duration", time.Since(start))
	return boxes, nil
}

// sources lists every image the visible tree references: image nodes,
// background and mask layers, and grapheme images used by text nodes.
func (r *Renderer) sources(root *node.Node) []string {
	var srcs, graphemes []string
	node.Walk(root, func(n *node.Node, _ int) bool {
		if n.Style.Display == "none" {
			return false
		}
		if n.Kind == node.KindImage && n.Src != "" {
			srcs = append(srcs, n.Src)
		}
		srcs = append(srcs, geom.ImageURLs(geom.Layers(n.Style.BackgroundImage, "", "", "", "", ""))...)
		srcs = append(srcs, geom.ImageURLs(geom.MaskLayers(&n.Style))...)
		if n.Kind == node.KindText {
			for g, src := range r.graphemeImages {
				if strings.Contains(n.Content, g) {
					graphemes = append(graphemes, src)
				}
			}
		}
		return true
	})
	slices.Sort(graphemes)
	return append(srcs, graphemes...)
}

// renderContext is the state of one Render call.
type renderContext struct {
	r      *Renderer
	boxes  layout.Boxes
	images map[string]geom.Image

	mu       sync.Mutex
	families map[string]bool
}

func (rc *renderContext) lookup(src string) (geom.Image, bool) {
	img, ok := rc.images[src]
	return img, ok
}

// href returns the inline href for src, or src itself when unresolved.
func (rc *renderContext) href(src string) string {
	if img, ok := rc.lookup(src); ok {
		return img.Href
	}
	return src
}

func (rc *renderContext) node(ctx context.Context, n *node.Node, inherited style.Style) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.Wrap(errors.ErrCodeCanceled, err, "render")
	}
	if n.Style.Display == "none" {
		return "", nil
	}
	if err := style.Validate(n.Style); err != nil {
		return "", fmt.Errorf("node %s: %w", n.ID, err)
	}
	if len(n.Children) > 1 && !n.Style.IsFlexOrNone() {
		return "", &errors.MissingDisplayModeError{NodeID: n.ID, Children: len(n.Children)}
	}
	b, ok := rc.boxes[n.ID]
	if !ok {
		return "", errors.New(errors.ErrCodeInternal, "layout returned no box for node %s", n.ID)
	}

	s := style.Cascade(inherited, n.Style)
	isImage := n.Kind == node.KindImage
	path := geom.RoundedRectPath(b, geom.RadiiFromStyle(&s, b.Width, b.Height))
	matrix := geom.TransformMatrix(b, s.Transform, s.TransformOrigin)
	childStyle := style.Inherit(s)

	var (
		defs  strings.Builder
		outer svg.Attrs
	)
	if op := s.ResolvedOpacity(); op < 1 {
		outer = append(outer, svg.A("opacity", max(op, 0)))
	}
	if f := strings.TrimSpace(s.Filter); f != "" && f != "none" {
		outer = append(outer, svg.A("filter", f))
	}
	if layers := geom.MaskLayers(&s); len(layers) > 0 {
		id := svg.ID(svg.Mask, n.ID)
		if m := geom.CompositeMask(id, b, layers, &s, rc.lookup); m != "" {
			defs.WriteString(m)
			outer = append(outer, svg.A("mask", svg.URL(id)))
			childStyle.InheritedMaskID = id
		}
	}
	if s.ClipPath != "" {
		id := svg.ID(svg.Clip, n.ID)
		if c := geom.ClipPath(id, b, s.ClipPath, matrix); c != "" {
			defs.WriteString(c)
			outer = append(outer, svg.A("clip-path", svg.URL(id)))
			childStyle.InheritedClipPathID = id
		}
	}

	var shadow string
	if shadows := geom.ParseBoxShadow(s.BoxShadow, s.Color); len(shadows) > 0 {
		id := svg.ID(svg.Filter, n.ID)
		if f := geom.ShadowFilter(id, b, shadows); f != "" {
			defs.WriteString(f)
			shadow = geom.Outline(b, path,
				svg.A("fill", "#000"),
				svg.A("filter", svg.URL(id)),
				svg.A("transform", svg.Opt(matrix)),
			)
		}
	}

	var own strings.Builder
	contentMask := svg.ID(svg.ContentMask, n.ID)
	defs.WriteString(geom.ContentMask(contentMask, b, &s, path, isImage))
	bgDefs, bg := geom.Background(svg.ID(svg.Pattern, n.ID), b, &s, path, contentMask, rc.lookup)
	defs.WriteString(bgDefs)
	own.WriteString(bg)

	switch n.Kind {
	case node.KindImage:
		own.WriteString(geom.ImageContent(b, rc.href(n.Src), s.ObjectFit, contentMask))
	case node.KindText:
		textDefs, body, err := rc.text(n, s, b)
		if err != nil {
			return "", err
		}
		defs.WriteString(textDefs)
		own.WriteString(body)
	}

	borderDefs, border := geom.Border(svg.Sub(svg.ID(svg.Clip, n.ID), "border"), b, &s, path)
	defs.WriteString(borderDefs)
	own.WriteString(border)

	children, err := rc.children(ctx, n.Children, childStyle)
	if err != nil {
		return "", err
	}

	inner := group(svg.Attrs{svg.A("transform", svg.Opt(matrix))}, own.String()+children)
	if geom.NeedsOverflowClip(&s, isImage) && inner != "" {
		id := svg.ID(svg.Overflow, n.ID)
		defs.WriteString(geom.OverflowClip(id, b, &s, path, matrix))
		inner = group(svg.Attrs{svg.A("clip-path", svg.URL(id))}, inner)
	}
	return defs.String() + group(outer, shadow+inner), nil
}

// children renders kids in declaration order, in parallel when the
// renderer allows it.
func (rc *renderContext) children(ctx context.Context, kids []*node.Node, inherited style.Style) (string, error) {
	out := make([]string, len(kids))
	if rc.r.concurrency <= 1 || len(kids) < 2 {
		for i, k := range kids {
			s, err := rc.node(ctx, k, inherited)
			if err != nil {
				return "", err
			}
			out[i] = s
		}
		return strings.Join(out, ""), nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rc.r.concurrency)
	for i, k := range kids {
		g.Go(func() error {
			s, err := rc.node(gctx, k, inherited)
			if err != nil {
				return err
			}
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}
	return strings.Join(out, ""), nil
}

// group wraps content in a <g> carrying attrs. Without content it returns
// "" and without any set attribute it returns content unwrapped.
func group(attrs svg.Attrs, content string) string {
	if content == "" {
		return ""
	}
	for _, a := range attrs {
		if a.Value != nil {
			return svg.Emit("g", attrs, content)
		}
	}
	return content
}
