package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/boxsvg/pkg/node"
	"github.com/matzehuels/boxsvg/pkg/style"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	tableHeaderStyle  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// Node entries
// =============================================================================

// nodeEntry is one row of the flattened node tree.
type nodeEntry struct {
	Node  *node.Node
	Depth int
	// Computed is the node's style after inheritance from its ancestors.
	Computed style.Style
}

// flattenNodes lists the tree in document order with computed styles.
func flattenNodes(root *node.Node) []nodeEntry {
	var entries []nodeEntry
	var visit func(n *node.Node, depth int, parent style.Style)
	visit = func(n *node.Node, depth int, parent style.Style) {
		computed := style.Cascade(parent, n.Style)
		entries = append(entries, nodeEntry{Node: n, Depth: depth, Computed: computed})
		for _, c := range n.Children {
			visit(c, depth+1, computed)
		}
	}
	if root != nil {
		visit(root, 0, style.Style{})
	}
	return entries
}

func (e nodeEntry) label() string {
	n := e.Node
	switch n.Kind {
	case node.KindText:
		return fmt.Sprintf("%s %q", n.ID, truncateText(n.Content, 24))
	case node.KindImage:
		return fmt.Sprintf("%s <%s>", n.ID, truncateText(n.Src, 24))
	}
	return n.ID
}

func (e nodeEntry) box() string {
	if e.Node.Box == nil {
		return "—"
	}
	b := e.Node.Box
	return fmt.Sprintf("%g,%g %g×%g", b.Left, b.Top, b.Width, b.Height)
}

func truncateText(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// styleTable renders the set properties of s. Properties the node did not
// set itself are dimmed.
func styleTable(own, computed style.Style) string {
	rows := [][]string{}
	inherited := []bool{}
	computed.Each(func(name, value string) {
		_, set := own.Get(name)
		rows = append(rows, []string{name, value})
		inherited = append(inherited, !set)
	})
	if len(rows) == 0 {
		return listDimStyle.Render("  no style properties")
	}

	return newTable(rows, func(row, col int) lipgloss.Style {
		if row < len(inherited) && inherited[row] {
			return listDimStyle
		}
		return listNormalStyle
	}, "Property", "Value").Render()
}

// =============================================================================
// NodeListModel - Interactive node browser
// =============================================================================

// NodeListModel is the bubbletea model for browsing a document's nodes.
type NodeListModel struct {
	Entries []nodeEntry
	Cursor  int
	Height  int
	Offset  int
}

// NewNodeListModel creates a browser over the tree rooted at root.
func NewNodeListModel(root *node.Node) NodeListModel {
	return NodeListModel{Entries: flattenNodes(root), Height: 12}
}

func (m NodeListModel) Init() tea.Cmd {
	return nil
}

func (m NodeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Entries)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = len(m.Entries) - 1
			m.Offset = max(0, m.Cursor-m.Height+1)
		}
	case tea.WindowSizeMsg:
		// Leave room for the style table below the list.
		m.Height = max(5, msg.Height/2-4)
	}
	return m, nil
}

func (m NodeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Document Nodes"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	if len(m.Entries) == 0 {
		b.WriteString(listDimStyle.Render("  empty document"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Entries))
	for i := m.Offset; i < end; i++ {
		e := m.Entries[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%s%-32s %-5s %s",
			cursor, strings.Repeat("  ", e.Depth), e.label(), e.Node.Kind, e.box())
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	cur := m.Entries[m.Cursor]
	b.WriteString("\n")
	b.WriteString(styleTable(cur.Node.Style, cur.Computed))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Entries))))

	return b.String()
}
