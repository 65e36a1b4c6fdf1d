package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"slices"

	"github.com/matzehuels/boxsvg/pkg/layout"
	"github.com/matzehuels/boxsvg/pkg/node"
	"github.com/matzehuels/boxsvg/pkg/render"
)

// Render generates output artifacts of doc in the requested formats. The
// SVG is rendered once and shared by the raster formats; JSON is the
// document with computed boxes.
func Render(ctx context.Context, r *render.Renderer, engine layout.Engine, doc *node.Document, opts Options) (map[string][]byte, error) {
	var svg []byte
	needsSVG := slices.ContainsFunc(opts.Formats, func(f string) bool { return f != FormatJSON })
	if needsSVG {
		out, err := r.Render(ctx, doc.Root, doc.Width, doc.Height)
		if err != nil {
			return nil, err
		}
		svg = []byte(out)
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = svg
		case FormatPNG:
			data, err = render.ToPNG(ctx, svg, opts.Scale)
		case FormatPDF:
			data, err = render.ToPDF(ctx, svg)
		case FormatJSON:
			data, err = renderJSON(ctx, engine, doc)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func renderJSON(ctx context.Context, engine layout.Engine, doc *node.Document) ([]byte, error) {
	laid, err := Layout(ctx, engine, doc)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := node.WriteJSON(laid, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
