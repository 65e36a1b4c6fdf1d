// Package render turns a laid out node tree into a self-contained SVG
// document.
//
// # Overview
//
// A [Renderer] walks the tree depth first. For every node it resolves the
// inherited style, builds the geometry fragments from [geom] (outline,
// clip paths, masks, shadow filter, background, border, transform) and
// nests them as
//
//	defs
//	<g opacity filter mask clip-path>        node level effects
//	  shadow
//	  <g clip-path="overflow">               children stay inside the outline
//	    <g transform>                        own paint, then children
//
// Text nodes go through the [text] engine: preprocessing, line breaking
// with the shared measurement cache and decoration with skip-ink.
//
//	r := render.New(render.WithFontEngine(font.Default()))
//	out, err := r.Render(ctx, doc.Root, 1200, 630)
//
// The external collaborators are injected: box layout ([layout.Engine]),
// fonts ([font.Engine]) and image resolution ([resource.Resolver]).
//
// # Format Conversion
//
// [ToPNG] and [ToPDF] rasterize any SVG with the external rsvg-convert tool
// (from librsvg). Render never calls them.
//
//	png, err := render.ToPNG(ctx, []byte(out), 2.0) // 2x scale
//
// [geom]: github.com/matzehuels/boxsvg/pkg/render/geom
// [text]: github.com/matzehuels/boxsvg/pkg/text
package render
