package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boxsvg/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string  // output file path (or base path for multiple outputs)
	formats     string  // comma-separated output formats
	width       float64 // viewport width override
	height      float64 // viewport height override
	scale       float64 // PNG scale factor
	locale      string  // preferred locale for text
	concurrency int     // parallel subtree rendering
	embedFonts  bool    // embed @font-face data
	noCache     bool    // disable the artifact cache
	refresh     bool    // re-render even when cached
}

// renderCommand creates the render command.
//
// Flags default to the config file; the document's own viewport is used
// unless --width/--height are given.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <document.json|->",
		Short: "Render a document to SVG, PNG, PDF or laid-out JSON",
		Long: `Render a JSON document to one or more formats.

PNG and PDF output require rsvg-convert (librsvg). With several formats,
--output is used as the base name and each file gets its format extension.`,
		Example: `  boxsvg render card.json
  boxsvg render card.json -f svg,png --scale 3 -o out/card
  cat card.json | boxsvg render - -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format), base path (multiple), or - for stdout")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "viewport width (default from document)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "viewport height (default from document)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "PNG scale factor (default from config)")
	cmd.Flags().StringVar(&opts.locale, "locale", "", "preferred locale for text, e.g. ja-JP")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "sibling subtrees rendered in parallel (default from config)")
	cmd.Flags().BoolVar(&opts.embedFonts, "embed-fonts", false, "embed used fonts as @font-face data")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "render even if a cached artifact exists")

	return cmd
}

// pipelineOptions merges flags over the config.
func (c *CLI) pipelineOptions(cmd *cobra.Command, input string, opts renderOpts) (pipeline.Options, error) {
	po := c.Config.Options()
	po.Formats = parseFormats(opts.formats)
	po.Refresh = opts.refresh
	po.Logger = c.Logger

	if input == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return po, fmt.Errorf("read stdin: %w", err)
		}
		po.Data = data
	} else {
		po.Input = input
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		po.Width = opts.width
	}
	if flags.Changed("height") {
		po.Height = opts.height
	}
	if flags.Changed("scale") {
		po.Scale = opts.scale
	}
	if flags.Changed("locale") {
		po.Locale = opts.locale
	}
	if flags.Changed("concurrency") {
		po.Concurrency = opts.concurrency
	}
	if flags.Changed("embed-fonts") {
		po.EmbedFonts = opts.embedFonts
	}
	return po, po.ValidateAndSetDefaults()
}

func (c *CLI) runRender(ctx context.Context, cmd *cobra.Command, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)

	po, err := c.pipelineOptions(cmd, input, opts)
	if err != nil {
		return err
	}
	if opts.output == "-" && len(po.Formats) > 1 {
		return fmt.Errorf("stdout output supports a single format, got %s", strings.Join(po.Formats, ","))
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, "Rendering "+input+"...")
	spinner.Start()
	result, err := runner.Execute(ctx, po)
	spinner.Stop()
	if err != nil {
		if spinner.Cancelled() {
			return ctx.Err()
		}
		return err
	}
	prog.done("Rendered " + input)

	if opts.output == "-" {
		_, err := cmd.OutOrStdout().Write(result.Artifacts[po.Formats[0]])
		return err
	}

	printStats(result.Stats.NodeCount, result.Document.Width, result.Document.Height, result.CacheInfo.RenderHit)
	for _, format := range po.Formats {
		path := outputPath(opts.output, input, format, len(po.Formats) > 1)
		if err := writeOutput(path, result.Artifacts[format]); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		if input == "-" {
			return "out"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath returns the file for one format. A single-format render
// writes to output verbatim when given.
func outputPath(output, input, format string, multiple bool) string {
	if output != "" && !multiple {
		return output
	}
	base := basePath(output, input)
	if format == pipeline.FormatJSON && output == "" {
		// Keep the laid-out document from overwriting its input.
		base += ".layout"
	}
	return base + "." + format
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}
