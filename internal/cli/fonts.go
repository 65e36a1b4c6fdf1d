package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

// fontsCommand creates the fonts command, which lists the font faces
// available to the renderer.
func (c *CLI) fontsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fonts",
		Short: "List the bundled and configured font faces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.Config.FontRegistry()
			if err != nil {
				return err
			}

			faces := faceInfos(reg)
			rows := make([][]string, 0, len(faces))
			for _, f := range faces {
				rows = append(rows, []string{f.Family, fmt.Sprint(f.Weight), f.Style, fmt.Sprintf("%.1f KiB", float64(f.Size)/1024)})
			}

			t := newTable(rows, nil, "Family", "Weight", "Style", "Size")
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			printDetail("%d faces", len(faces))
			if len(c.Config.Fonts) == 0 {
				printNextStep("Add fonts with [[fonts]] entries in", filepath.Join("$XDG_CONFIG_HOME", appName, configFile))
			}
			return nil
		},
	}
}
