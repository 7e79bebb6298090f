package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/repomap/pkg/tree"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listFolderStyle   = lipgloss.NewStyle().Foreground(colorBlue)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

const (
	iconCollapsed = "▸"
	iconExpanded  = "▾"
)

// reloadMsg delivers a rebuilt tree from watch mode.
type reloadMsg struct {
	root *tree.Node
	err  error
}

// =============================================================================
// TreeBrowserModel - Interactive folder tree
// =============================================================================

// TreeBrowserModel is the bubbletea model for browsing a folder tree.
// All expand and collapse actions go through [tree.ExpandState]; the tree
// itself is never modified.
type TreeBrowserModel struct {
	Title  string
	Root   *tree.Node
	State  tree.ExpandState
	Cursor int
	Offset int
	Height int
	Err    error // last reload failure, shown until the next good reload

	rows []tree.Row
}

// NewTreeBrowserModel creates a browser with only the root expanded.
func NewTreeBrowserModel(title string, root *tree.Node) TreeBrowserModel {
	m := TreeBrowserModel{
		Title:  title,
		Root:   root,
		State:  tree.NewExpandState(),
		Height: 20,
	}
	m.refresh()
	return m
}

// Rows returns the rows currently on screen or scrolled out of view.
func (m TreeBrowserModel) Rows() []tree.Row {
	return m.rows
}

func (m TreeBrowserModel) Init() tea.Cmd {
	return nil
}

func (m TreeBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.moveTo(m.Cursor - 1)
		case "down", "j":
			m.moveTo(m.Cursor + 1)
		case "home", "g":
			m.moveTo(0)
		case "end", "G":
			m.moveTo(len(m.rows) - 1)
		case "enter", " ":
			if row, ok := m.current(); ok && row.Kind == tree.KindFolder {
				m.setState(m.State.Toggle(row.Path))
			}
		case "right", "l":
			if row, ok := m.current(); ok && row.Kind == tree.KindFolder {
				m.setState(m.State.Expand(row.Path))
			}
		case "left", "h":
			m.collapseOrParent()
		case "e":
			m.setState(tree.ExpandAll(m.Root))
		case "c":
			m.setState(tree.NewExpandState())
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
		m.moveTo(m.Cursor)
	case reloadMsg:
		m.Err = msg.err
		if msg.err == nil && msg.root != nil {
			key := m.currentKey()
			m.Root = msg.root
			m.refresh()
			m.moveTo(m.indexOf(key))
		}
	}
	return m, nil
}

func (m TreeBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ toggle  ←/→ collapse/expand  e/c all  q quit"))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(listDimStyle.Render("  (empty)"))
		b.WriteString("\n")
	}

	end := min(m.Offset+m.Height, len(m.rows))
	for i := m.Offset; i < end; i++ {
		b.WriteString(m.renderRow(i))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d files", m.Cursor+1, len(m.rows), m.Root.FileCount())))
	if m.Err != nil {
		b.WriteString("\n")
		b.WriteString(listErrorStyle.Render("  reload failed: " + m.Err.Error()))
	}

	return b.String()
}

func (m TreeBrowserModel) renderRow(i int) string {
	row := m.rows[i]

	cursor := "  "
	if i == m.Cursor {
		cursor = "> "
	}
	indent := strings.Repeat("  ", row.Depth)

	var line string
	if row.Kind == tree.KindFolder {
		icon := iconCollapsed
		if row.Expanded {
			icon = iconExpanded
		}
		line = fmt.Sprintf("%s%s%s %s/", cursor, indent, icon, row.Name)
		if !row.Expanded {
			line += " " + listDimStyle.Render(fmt.Sprintf("(%d)", row.Folder.FileCount()))
		}
		if i == m.Cursor {
			return listSelectedStyle.Render(line)
		}
		return listFolderStyle.Render(line)
	}

	line = fmt.Sprintf("%s%s  %s", cursor, indent, row.Name)
	size := listDimStyle.Render(formatBytes(row.File.Size))
	if i == m.Cursor {
		return listSelectedStyle.Render(line) + " " + size
	}
	return listNormalStyle.Render(line) + " " + size
}

// =============================================================================
// Helpers
// =============================================================================

func (m *TreeBrowserModel) refresh() {
	m.rows = tree.Visible(m.Root, m.State)
}

// setState swaps in a new expand state and keeps the cursor on the same row.
func (m *TreeBrowserModel) setState(s tree.ExpandState) {
	key := m.currentKey()
	m.State = s
	m.refresh()
	m.moveTo(m.indexOf(key))
}

// moveTo places the cursor at i, clamped to the rows, and scrolls it into view.
func (m *TreeBrowserModel) moveTo(i int) {
	m.Cursor = max(0, min(i, len(m.rows)-1))
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	if m.Offset > max(0, len(m.rows)-m.Height) {
		m.Offset = max(0, len(m.rows)-m.Height)
	}
}

// collapseOrParent collapses an expanded folder, otherwise jumps to the
// folder containing the current row.
func (m *TreeBrowserModel) collapseOrParent() {
	row, ok := m.current()
	if !ok {
		return
	}
	if row.Kind == tree.KindFolder && row.Expanded {
		m.setState(m.State.Collapse(row.Path))
		return
	}
	for i := m.Cursor - 1; i >= 0; i-- {
		if m.rows[i].Kind == tree.KindFolder && m.rows[i].Depth == row.Depth-1 {
			m.moveTo(i)
			return
		}
	}
}

func (m TreeBrowserModel) current() (tree.Row, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.rows) {
		return tree.Row{}, false
	}
	return m.rows[m.Cursor], true
}

func (m TreeBrowserModel) currentKey() string {
	row, ok := m.current()
	if !ok {
		return ""
	}
	return string(row.Kind) + ":" + row.Key()
}

// indexOf returns the index of the row with key, or the current cursor when
// the row is no longer visible.
func (m TreeBrowserModel) indexOf(key string) int {
	for i, row := range m.rows {
		if string(row.Kind)+":"+row.Key() == key {
			return i
		}
	}
	return m.Cursor
}
