package cli

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/repomap/pkg/analysis"
	"github.com/matzehuels/repomap/pkg/tree"
)

func browserFiles() []analysis.FileEntry {
	return []analysis.FileEntry{
		{ID: "1", Path: "src/a.ts", Name: "a.ts"},
		{ID: "2", Path: "src/lib/b.ts", Name: "b.ts"},
		{ID: "3", Path: "docs/guide.md", Name: "guide.md"},
		{ID: "4", Path: "README.md", Name: "README.md"},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m TreeBrowserModel, keys ...string) TreeBrowserModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(TreeBrowserModel)
	}
	return m
}

func rowNames(m TreeBrowserModel) []string {
	var names []string
	for _, r := range m.Rows() {
		names = append(names, strings.Repeat(".", r.Depth)+r.Name)
	}
	return names
}

func TestTreeBrowserInitialRows(t *testing.T) {
	m := NewTreeBrowserModel("demo", tree.Build(browserFiles()))

	got := strings.Join(rowNames(m), ",")
	if want := "src,docs,README.md"; got != want {
		t.Errorf("rows = %s, want %s", got, want)
	}
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d, want 0", m.Cursor)
	}
}

func TestTreeBrowserToggle(t *testing.T) {
	m := NewTreeBrowserModel("demo", tree.Build(browserFiles()))
	initial := m.State

	m = press(m, "enter")
	got := strings.Join(rowNames(m), ",")
	if want := "src,.lib,.a.ts,docs,README.md"; got != want {
		t.Errorf("after expand rows = %s, want %s", got, want)
	}
	if !m.State.IsExpanded("src") {
		t.Error("src not expanded")
	}

	m = press(m, " ")
	if !m.State.Equal(initial) {
		t.Errorf("toggling twice: state = %v, want %v", m.State.Paths(), initial.Paths())
	}
}

func TestTreeBrowserToggleFileIgnored(t *testing.T) {
	m := NewTreeBrowserModel("demo", tree.Build(browserFiles()))
	m = press(m, "j", "j") // README.md
	before := m.State

	m = press(m, "enter")
	if !m.State.Equal(before) {
		t.Error("toggling a file row changed the expand state")
	}
}

func TestTreeBrowserNavigation(t *testing.T) {
	m := NewTreeBrowserModel("demo", tree.Build(browserFiles()))

	m = press(m, "k")
	if m.Cursor != 0 {
		t.Errorf("cursor moved above first row: %d", m.Cursor)
	}
	m = press(m, "j", "j", "j", "j")
	if m.Cursor != 2 {
		t.Errorf("cursor moved past last row: %d", m.Cursor)
	}
	m = press(m, "g")
	if m.Cursor != 0 {
		t.Errorf("g: cursor = %d, want 0", m.Cursor)
	}
}

func TestTreeBrowserExpandCollapse(t *testing.T) {
	m := NewTreeBrowserModel("demo", tree.Build(browserFiles()))

	m = press(m, "l", "j", "l", "j") // expand src, move to lib, expand lib, move to b.ts
	got := strings.Join(rowNames(m), ",")
	if want := "src,.lib,..b.ts,.a.ts,docs,README.md"; got != want {
		t.Fatalf("rows = %s, want %s", got, want)
	}
	if row, _ := m.current(); row.Name != "b.ts" {
		t.Fatalf("cursor on %q, want b.ts", row.Name)
	}

	// Left on a file jumps to its folder, left again collapses it.
	m = press(m, "h")
	if row, _ := m.current(); row.Path != "src/lib" {
		t.Fatalf("cursor on %q, want src/lib", row.Path)
	}
	m = press(m, "h")
	if m.State.IsExpanded("src/lib") {
		t.Error("src/lib still expanded")
	}
	if row, _ := m.current(); row.Path != "src/lib" {
		t.Errorf("cursor left the collapsed folder: %q", row.Path)
	}
}

func TestTreeBrowserExpandAll(t *testing.T) {
	root := tree.Build(browserFiles())
	m := NewTreeBrowserModel("demo", root)

	m = press(m, "e")
	if !m.State.Equal(tree.ExpandAll(root)) {
		t.Errorf("e: state = %v", m.State.Paths())
	}
	if len(m.Rows()) != 7 {
		t.Errorf("rows = %d, want 7", len(m.Rows()))
	}

	m = press(m, "c")
	if !m.State.Equal(tree.NewExpandState()) {
		t.Errorf("c: state = %v", m.State.Paths())
	}
}

func TestTreeBrowserScroll(t *testing.T) {
	var files []analysis.FileEntry
	for i := range 30 {
		files = append(files, analysis.FileEntry{ID: string(rune('a' + i)), Path: "f" + string(rune('a'+i)), Name: "f" + string(rune('a'+i))})
	}
	m := NewTreeBrowserModel("demo", tree.Build(files))

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 16})
	m = next.(TreeBrowserModel)
	if m.Height != 10 {
		t.Fatalf("Height = %d, want 10", m.Height)
	}

	for range 15 {
		m = press(m, "j")
	}
	if m.Cursor != 15 || m.Offset != 6 {
		t.Errorf("Cursor, Offset = %d, %d; want 15, 6", m.Cursor, m.Offset)
	}
	if !strings.Contains(m.View(), "[16/30]") {
		t.Errorf("view missing position:\n%s", m.View())
	}
}

func TestTreeBrowserReload(t *testing.T) {
	m := NewTreeBrowserModel("demo", tree.Build(browserFiles()))
	m = press(m, "j") // docs

	next, _ := m.Update(reloadMsg{err: errors.New("boom")})
	m = next.(TreeBrowserModel)
	if !strings.Contains(m.View(), "reload failed: boom") {
		t.Error("reload error not shown")
	}

	files := append([]analysis.FileEntry{{ID: "0", Path: "a/new.ts", Name: "new.ts"}}, browserFiles()...)
	next, _ = m.Update(reloadMsg{root: tree.Build(files)})
	m = next.(TreeBrowserModel)
	if m.Err != nil {
		t.Errorf("Err = %v after good reload", m.Err)
	}
	if row, _ := m.current(); row.Path != "docs" {
		t.Errorf("cursor on %q after reload, want docs", row.Path)
	}
}

func TestTreeBrowserQuit(t *testing.T) {
	m := NewTreeBrowserModel("demo", tree.Build(browserFiles()))
	for _, k := range []string{"q", "esc"} {
		_, cmd := m.Update(key(k))
		if cmd == nil {
			t.Errorf("%s: expected quit command", k)
			continue
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: expected tea.QuitMsg", k)
		}
	}
}

func TestTreeBrowserEmpty(t *testing.T) {
	m := NewTreeBrowserModel("empty", tree.Build(nil))
	m = press(m, "j", "enter", "h", "l")
	if len(m.Rows()) != 0 || m.Cursor != 0 {
		t.Errorf("rows = %d, cursor = %d", len(m.Rows()), m.Cursor)
	}
	if !strings.Contains(m.View(), "(empty)") {
		t.Error("empty view not shown")
	}
}
