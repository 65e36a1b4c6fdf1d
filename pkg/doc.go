// Package pkg provides the core libraries for boxsvg.
//
// # Overview
//
// boxsvg renders a tree of styled boxes, text runs and images into one
// self-contained SVG document, the way a browser would paint the same
// tree after layout. It is aimed at preview cards and other generated
// images where a headless browser is too heavy.
//
// # Architecture
//
// The data flow through boxsvg:
//
//	JSON document (nodes + CSS-like styles)
//	         ↓
//	    [node] + [style] (decode, validate, cascade)
//	         ↓
//	    [layout] (boxes per node)
//	         ↓
//	    [render] with [text], [font], [resource] (paint to SVG)
//	         ↓
//	    SVG/PNG/PDF/JSON output
//
// [pipeline] runs the whole flow with caching and is shared by the CLI
// and the HTTP server.
//
// # Quick Start
//
//	doc, _ := node.ImportJSON("card.json")
//	r := render.New(render.WithFontEngine(font.Default()))
//	svg, _ := r.Render(ctx, doc.Root, doc.Width, doc.Height)
//
// # Packages
//
// [style] - The supported CSS properties, value parsing, inheritance and
// validation against enumerated values.
//
// [node] - The node tree, JSON documents and Graphviz tree diagrams.
//
// [layout] - The layout engine interface and a static engine that reads
// precomputed boxes.
//
// [text] - Whitespace processing, text-transform, grapheme and line-break
// segmentation, line clamping, script classification and a shared
// measurement cache.
//
// [font] - Font registry, measurement and glyph boxes backed by
// golang.org/x/image.
//
// [resource] - Image resolution for data URIs and remote URLs with cached,
// retried fetches.
//
// [render] - The SVG renderer and its geometry helpers ([render/geom]) and
// writer ([render/svg]).
//
// [cache] - Artifact and resource caching with file, Redis and MongoDB
// backends.
//
// [errors] - Error codes shared by every package.
//
// [observability] - Hooks for metrics and tracing.
//
// [node]: https://pkg.go.dev/github.com/matzehuels/boxsvg/pkg/node
// [style]: https://pkg.go.dev/github.com/matzehuels/boxsvg/pkg/style
// [layout]: https://pkg.go.dev/github.com/matzehuels/boxsvg/pkg/layout
// [text]: https://pkg.go.dev/github.com/matzehuels/boxsvg/pkg/text
// [font]: https://pkg.go.dev/github.com/matzehuels/boxsvg/pkg/font
// [resource]: https://pkg.go.dev/github.com/matzehuels/boxsvg/pkg/resource
// [render]: https://pkg.go.dev/github.com/matzehuels/boxsvg/pkg/render
// [render/geom]: https://pkg.go.dev/github.com/matzehuels/boxsvg/pkg/render/geom
// [render/svg]: https://pkg.go.dev/github.com/matzehuels/boxsvg/pkg/render/svg
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/boxsvg/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/boxsvg/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/boxsvg/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/boxsvg/pkg/observability
package pkg
