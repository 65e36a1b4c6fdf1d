package render

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/boxsvg/pkg/font"
	"github.com/matzehuels/boxsvg/pkg/layout"
	"github.com/matzehuels/boxsvg/pkg/resource"
	"github.com/matzehuels/boxsvg/pkg/text"
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithFontEngine sets the font engine. Defaults to [font.Default].
func WithFontEngine(e font.Engine) Option { return func(r *Renderer) { r.engine = e } }

// WithLayout sets the box layout engine. Defaults to [layout.Static].
func WithLayout(l layout.Engine) Option { return func(r *Renderer) { r.layout = l } }

// WithResolver sets the image resolver. Defaults to [resource.New].
func WithResolver(res resource.Resolver) Option { return func(r *Renderer) { r.resolver = res } }

// WithMeasureCache shares a measurement cache between renderers. Its
// engine is used when no font engine is set.
func WithMeasureCache(c *text.MeasureCache) Option { return func(r *Renderer) { r.measure = c } }

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(l *log.Logger) Option { return func(r *Renderer) { r.logger = l } }

// WithConcurrency renders up to n sibling subtrees in parallel and
// resolves up to n images at once. n <= 1 renders sequentially.
func WithConcurrency(n int) Option { return func(r *Renderer) { r.concurrency = n } }

// WithEmbedFonts embeds the font faces used by text nodes as @font-face
// rules, so the document renders the same without the fonts installed.
func WithEmbedFonts() Option { return func(r *Renderer) { r.embedFonts = true } }

// WithGraphemeImages paints the given graphemes (usually emoji) as images
// instead of glyphs. Values are image sources resolved like image nodes.
func WithGraphemeImages(m map[string]string) Option {
	return func(r *Renderer) { r.graphemeImages = m }
}

// WithLocale sets the locale used for case transforms, e.g. "tr-TR".
func WithLocale(locale string) Option { return func(r *Renderer) { r.locale = locale } }
