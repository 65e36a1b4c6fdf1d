package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/boxsvg/pkg/cache"
	"github.com/matzehuels/boxsvg/pkg/font"
	"github.com/matzehuels/boxsvg/pkg/layout"
	"github.com/matzehuels/boxsvg/pkg/node"
	"github.com/matzehuels/boxsvg/pkg/render"
	"github.com/matzehuels/boxsvg/pkg/resource"
	"github.com/matzehuels/boxsvg/pkg/text"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner stores no pipeline results. Besides the cache it keeps the
// grapheme measurement cache, which lives as long as the font engine, so
// repeated renders skip font lookups. Multiple goroutines can safely use
// the same Runner with different options.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger
	Fonts    font.Engine
	Layout   layout.Engine
	Resolver resource.Resolver

	once      sync.Once
	measure   *text.MeasureCache
	fontsKey  string
	artifacts cache.Cache
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// Fonts, Layout and Resolver may be replaced before the first Execute;
// they default to the bundled fonts, precomputed boxes and a fetcher that
// shares the runner's cache.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		Fonts:  font.Default(),
		Layout: layout.Static{},
		Resolver: resource.New(
			resource.WithCache(cache.WithHooks(c, "resource"), cache.TTLResource),
			resource.WithKeyer(keyer),
			resource.WithLogger(logger),
		),
	}
}

func (r *Runner) init() {
	r.once.Do(func() {
		r.measure = text.NewMeasureCache(r.Fonts)
		r.fontsKey = FontsKey(r.Fonts)
		r.artifacts = cache.WithHooks(r.Cache, "artifact")
	})
}

// Execute runs the complete parse → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Parse
	parseStart := time.Now()
	doc, err := Parse(opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	opts.Apply(doc)
	hash, err := DocumentHash(doc)
	if err != nil {
		return nil, err
	}
	result.Document = doc
	result.DocHash = hash
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.NodeCount = node.Count(doc.Root)

	opts.Logger.Debug("parsed document",
		"nodes", result.Stats.NodeCount,
		"width", doc.Width,
		"height", doc.Height,
		"duration", result.Stats.ParseTime)

	// Stage 2+3: Layout and render
	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, doc, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache
// hit info. hash is the document's content hash.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, doc *node.Document, hash string, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.init()

	key := func(format string) string {
		return r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(doc, format, r.fontsKey))
	}

	// Try to get all formats from cache
	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			data, hit, err := r.artifacts.Get(ctx, key(format))
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil // All artifacts from cache
		}
	}

	rendered, err := Render(ctx, r.Renderer(doc, opts), r.Layout, doc, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		if err := r.artifacts.Set(ctx, key(format), data, cache.TTLArtifact); err != nil {
			opts.Logger.Warn("cache write failed", "format", format, "error", err)
		}
	}

	return rendered, false, nil // Cache miss
}

// Renderer returns a renderer for doc that shares the runner's fonts,
// measurement cache and resolver.
func (r *Runner) Renderer(doc *node.Document, opts Options) *render.Renderer {
	r.init()
	ro := []render.Option{
		render.WithMeasureCache(r.measure),
		render.WithLayout(r.Layout),
		render.WithResolver(r.Resolver),
		render.WithLogger(opts.Logger),
		render.WithConcurrency(opts.Concurrency),
		render.WithLocale(doc.Locale),
		render.WithGraphemeImages(doc.GraphemeImages),
	}
	if opts.EmbedFonts {
		ro = append(ro, render.WithEmbedFonts())
	}
	return render.New(ro...)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// FontsKey identifies the face set of engine for cache keys. Engines that
// cannot list their faces are identified by type.
func FontsKey(engine font.Engine) string {
	lister, ok := engine.(interface{ Faces() []*font.Face })
	if !ok {
		return fmt.Sprintf("%T", engine)
	}
	var b strings.Builder
	for _, f := range lister.Faces() {
		b.WriteString(f.Family)
		b.WriteByte('|')
		b.WriteString(strconv.Itoa(f.Weight))
		b.WriteByte('|')
		b.WriteString(f.Style)
		b.WriteByte('|')
		b.WriteString(cache.Hash(f.Data))
		b.WriteByte('\n')
	}
	return cache.Hash([]byte(b.String()))
}
