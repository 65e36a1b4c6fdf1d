package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/boxsvg/pkg/text"
)

// classifyCommand creates the classify command, which shows how text is
// segmented for line breaking and which font buckets each segment needs.
func (c *CLI) classifyCommand() *cobra.Command {
	var (
		locale       string
		wordBreak    string
		overflowWrap string
	)

	cmd := &cobra.Command{
		Use:   "classify <text>...",
		Short: "Show line-break segments and their font buckets",
		Long: `Show line-break segments and their font buckets.

Each segment is classified as emoji, symbol or math, or by the locales
whose scripts it contains. The preferred --locale moves to the front.

Supported locales: ` + strings.Join(text.Locales(), ", "),
		Example: `  boxsvg classify "日本語と한국어"
  boxsvg classify --locale zh-TW "漢字"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if locale == "" {
				locale = c.Config.Locale
			}
			res := text.SplitWords(strings.Join(args, " "), wordBreak, overflowWrap)
			rows := classifyRows(res, locale)
			if len(rows) == 0 {
				printInfo("No segments")
				return nil
			}

			t := newTable(rows, func(row, col int) lipgloss.Style {
				if col == 4 {
					return StyleHighlight
				}
				return lipgloss.NewStyle()
			}, "#", "Segment", "Graphemes", "Break", "Buckets")
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}

	cmd.Flags().StringVar(&locale, "locale", "", "preferred locale (default from config)")
	cmd.Flags().StringVar(&wordBreak, "word-break", "normal", "word-break value")
	cmd.Flags().StringVar(&overflowWrap, "overflow-wrap", "normal", "overflow-wrap value")

	return cmd
}

// classifyRows builds one table row per segment.
func classifyRows(res text.LineBreakResult, locale string) [][]string {
	rows := make([][]string, 0, len(res.Words))
	for i, w := range res.Words {
		brk := "soft"
		if i < len(res.RequiredBreaks) && res.RequiredBreaks[i] {
			brk = "required"
		}
		rows = append(rows, []string{
			fmt.Sprint(i),
			fmt.Sprintf("%q", w),
			fmt.Sprint(len(text.Graphemes(w))),
			brk,
			strings.Join(text.Classify(w, locale), ", "),
		})
	}
	return rows
}
