package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boxsvg/pkg/node"
)

type treeOpts struct {
	output   string
	format   string
	detailed bool
}

// treeCommand creates the tree command, which draws a document's node tree
// with Graphviz.
func (c *CLI) treeCommand() *cobra.Command {
	var opts treeOpts

	cmd := &cobra.Command{
		Use:   "tree <document.json|->",
		Short: "Draw the node tree of a document",
		Long: `Draw the node tree of a document as a Graphviz diagram.

With --detailed, labels show each node's kind, laid out box and style.
The dot format prints the Graphviz source instead of rendering it.`,
		Example: `  boxsvg tree card.json -o card.tree.svg
  boxsvg tree card.json --format dot --detailed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTree(cmd.Context(), cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>.tree.<format>, - for stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "svg", "output format: svg or dot")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include kind, box and style in labels")

	return cmd
}

func (c *CLI) runTree(ctx context.Context, cmd *cobra.Command, input string, opts treeOpts) error {
	if opts.format != "svg" && opts.format != "dot" {
		return fmt.Errorf("invalid tree format %q (want svg or dot)", opts.format)
	}

	doc, err := c.loadDocument(ctx, cmd, input, opts.detailed)
	if err != nil {
		return err
	}

	dot := node.ToDOT(doc.Root, node.DOTOptions{Detailed: opts.detailed})
	data := []byte(dot)
	if opts.format == "svg" {
		spinner := newSpinnerWithContext(ctx, "Running Graphviz...")
		spinner.Start()
		data, err = node.RenderTreeSVG(ctx, dot)
		spinner.Stop()
		if err != nil {
			return err
		}
	}

	if opts.output == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	path := opts.output
	if path == "" {
		path = strings.TrimSuffix(basePath("", input), ".layout") + ".tree." + opts.format
	}
	if err := writeOutput(path, data); err != nil {
		return err
	}
	printSuccess("Drew %d nodes", node.Count(doc.Root))
	printFile(path)
	return nil
}
