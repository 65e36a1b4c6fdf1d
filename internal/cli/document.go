package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boxsvg/pkg/layout"
	"github.com/matzehuels/boxsvg/pkg/node"
	"github.com/matzehuels/boxsvg/pkg/pipeline"
)

// loadDocument reads the document named by input ("-" for stdin) and
// applies the configured viewport, locale and grapheme images. With
// laidOut, every node gets its box from the static layout.
func (c *CLI) loadDocument(ctx context.Context, cmd *cobra.Command, input string, laidOut bool) (*node.Document, error) {
	opts := c.Config.Options()
	if input == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		opts.Data = data
	} else {
		opts.Input = input
	}

	doc, err := pipeline.Parse(opts)
	if err != nil {
		return nil, err
	}
	opts.Apply(doc)
	if !laidOut {
		return doc, nil
	}
	return pipeline.Layout(ctx, layout.Static{}, doc)
}
