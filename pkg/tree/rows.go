package tree

import "github.com/matzehuels/repomap/pkg/analysis"

// Row is one visible line of a rendered tree view.
type Row struct {
	Depth    int
	Kind     Kind
	Name     string
	Path     string              // folder path, or the file's path
	Folder   *Node               // set for folder rows
	File     *analysis.FileEntry // set for file rows
	Expanded bool                // folder rows only
}

// Key returns a stable identity for the row: the folder path for folders and
// the file id for files.
func (r Row) Key() string {
	if r.Kind == KindFile {
		return r.File.ID
	}
	return r.Path
}

// Visible flattens the rows a view would draw for state. The root itself is
// not a row; its contents appear at depth 0 when the root is expanded.
// Folders precede files within a folder, each in insertion order.
func Visible(root *Node, state ExpandState) []Row {
	var rows []Row
	if state.IsExpanded(root.Path) {
		rows = appendContents(rows, root, state, 0)
	}
	return rows
}

func appendContents(rows []Row, n *Node, state ExpandState, depth int) []Row {
	for _, c := range n.Folders() {
		expanded := state.IsExpanded(c.Path)
		rows = append(rows, Row{
			Depth:    depth,
			Kind:     KindFolder,
			Name:     c.Name,
			Path:     c.Path,
			Folder:   c,
			Expanded: expanded,
		})
		if expanded {
			rows = appendContents(rows, c, state, depth+1)
		}
	}
	for i := range n.Files {
		f := &n.Files[i]
		rows = append(rows, Row{
			Depth: depth,
			Kind:  KindFile,
			Name:  f.Name,
			Path:  f.Path,
			File:  f,
		})
	}
	return rows
}
