package tree

import (
	"encoding/json"

	"github.com/matzehuels/repomap/pkg/analysis"
)

// wireNode is the JSON shape of a folder. Children are an array so that
// insertion order survives a round trip.
type wireNode struct {
	Name     string               `json:"name"`
	Kind     Kind                 `json:"kind"`
	Path     string               `json:"path"`
	Children []*wireNode          `json:"children,omitempty"`
	Files    []analysis.FileEntry `json:"files,omitempty"`
}

// MarshalJSON encodes the tree with children in insertion order.
func (n Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(toWire(&n))
}

// UnmarshalJSON decodes a tree produced by MarshalJSON.
func (n *Node) UnmarshalJSON(data []byte) error {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*n = *fromWire(&w)
	return nil
}

func toWire(n *Node) *wireNode {
	w := &wireNode{
		Name:  n.Name,
		Kind:  n.Kind,
		Path:  n.Path,
		Files: n.Files,
	}
	for _, c := range n.Folders() {
		w.Children = append(w.Children, toWire(c))
	}
	return w
}

func fromWire(w *wireNode) *Node {
	n := newFolder(w.Name, w.Path)
	if w.Kind != "" {
		n.Kind = w.Kind
	}
	n.Files = w.Files
	for _, c := range w.Children {
		n.Children[c.Name] = fromWire(c)
		n.order = append(n.order, c.Name)
	}
	return n
}
