package tree

import (
	"strings"

	"github.com/matzehuels/repomap/pkg/analysis"
)

// Kind distinguishes folders from files.
type Kind string

const (
	KindFolder Kind = "folder"
	KindFile   Kind = "file"
)

// RootPath is the identity key of the synthetic root folder. No other folder
// can have an empty path because empty segments are collapsed.
const RootPath = ""

// Node is a folder in the repository tree.
type Node struct {
	Name     string
	Kind     Kind
	Path     string // segments from the root joined by "/"; RootPath for the root
	Children map[string]*Node
	Files    []analysis.FileEntry

	order []string // child names in first-occurrence order
}

func newFolder(name, path string) *Node {
	return &Node{
		Name:     name,
		Kind:     KindFolder,
		Path:     path,
		Children: make(map[string]*Node),
	}
}

// Build converts a flat list of files into a folder tree.
//
// For a fixed input order the child order of every folder and the order of
// its files equal first-occurrence order in files. Duplicate paths are kept
// as sibling entries.
func Build(files []analysis.FileEntry) *Node {
	root := newFolder("", RootPath)

	for _, f := range files {
		segs := splitPath(f.Path)
		cur := root
		for i := 0; i < len(segs)-1; i++ {
			cur = cur.child(segs[i], strings.Join(segs[:i+1], "/"))
		}
		cur.Files = append(cur.Files, f)
	}

	return root
}

// child returns the named sub-folder, creating it if missing.
func (n *Node) child(name, path string) *Node {
	if c, ok := n.Children[name]; ok {
		return c
	}
	c := newFolder(name, path)
	n.Children[name] = c
	n.order = append(n.order, name)
	return c
}

// splitPath splits a slash-separated path, dropping empty segments.
func splitPath(p string) []string {
	raw := strings.Split(p, "/")
	segs := raw[:0]
	for _, s := range raw {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

// IsRoot reports whether n is the synthetic root.
func (n *Node) IsRoot() bool { return n.Path == RootPath }

// Folders returns the sub-folders in insertion order.
func (n *Node) Folders() []*Node {
	out := make([]*Node, 0, len(n.order))
	for _, name := range n.order {
		out = append(out, n.Children[name])
	}
	return out
}

// FileCount returns the number of file entries in n and all its descendants.
func (n *Node) FileCount() int {
	count := len(n.Files)
	for _, c := range n.Children {
		count += c.FileCount()
	}
	return count
}

// FolderCount returns the number of folders below n, excluding n itself.
func (n *Node) FolderCount() int {
	count := len(n.Children)
	for _, c := range n.Children {
		count += c.FolderCount()
	}
	return count
}

// Walk visits n and every descendant folder depth-first in insertion order.
// Returning false from fn skips the folder's descendants.
func (n *Node) Walk(fn func(folder *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Folders() {
		c.walk(fn, depth+1)
	}
}

// Find returns the folder with the given path.
func (n *Node) Find(path string) (*Node, bool) {
	cur := n
	for _, seg := range splitPath(path) {
		next, ok := cur.Children[seg]
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Equal reports whether two trees have the same structure, order and files.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Name != o.Name || n.Kind != o.Kind || n.Path != o.Path {
		return false
	}
	if len(n.Files) != len(o.Files) || len(n.order) != len(o.order) {
		return false
	}
	for i := range n.Files {
		if n.Files[i] != o.Files[i] {
			return false
		}
	}
	for i, name := range n.order {
		if o.order[i] != name || !n.Children[name].Equal(o.Children[name]) {
			return false
		}
	}
	return true
}
