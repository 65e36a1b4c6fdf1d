package cli

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// inspectCommand creates the inspect command, an interactive browser over a
// document's nodes, boxes and computed styles.
func (c *CLI) inspectCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "inspect <document.json|->",
		Short: "Browse the nodes, boxes and computed styles of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := c.loadDocument(cmd.Context(), cmd, args[0], true)
			if err != nil {
				return err
			}
			if plain || args[0] == "-" {
				return printNodeTable(cmd.OutOrStdout(), flattenNodes(doc.Root))
			}

			p := tea.NewProgram(NewNodeListModel(doc.Root), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print a table instead of the interactive browser")

	return cmd
}

// printNodeTable writes every node with its box and own style.
func printNodeTable(w io.Writer, entries []nodeEntry) error {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		var props []string
		e.Node.Style.Each(func(name, value string) {
			props = append(props, name+": "+value)
		})
		rows = append(rows, []string{
			strings.Repeat("  ", e.Depth) + e.label(),
			e.Node.Kind.String(),
			e.box(),
			strings.Join(props, "; "),
		})
	}

	t := newTable(rows, nil, "Node", "Kind", "Box", "Style")

	_, err := fmt.Fprintln(w, t.Render())
	return err
}
