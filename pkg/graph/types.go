package graph

// Edge types understood by the web renderer.
const (
	EdgeTypeSmoothStep = "smoothstep"
	EdgeTypeStraight   = "straight"
	EdgeTypeStep       = "step"
)

// Graph is the node-link result of [Build].
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
	Stats Stats  `json:"stats"`
}

// Position is an integer grid coordinate in pixels.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Node is a file drawn on the diagram.
type Node struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Path     string   `json:"path"`
	Position Position `json:"position"`
	ColorKey string   `json:"color_key"` // the file type, e.g. ".ts"
	Color    string   `json:"color"`     // ColorKey resolved through the palette
}

// Edge is a resolved import from Source to Target.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Import string `json:"import"` // the import string that produced the edge
	Type   string `json:"type,omitempty"`
}

// Stats counts what Build kept and dropped.
type Stats struct {
	Files          int `json:"files"`           // input files
	Nodes          int `json:"nodes"`           // files in the working set
	Truncated      int `json:"truncated"`       // files past the node cap
	Imports        int `json:"imports"`         // imports of working-set files
	Resolved       int `json:"resolved"`        // imports that matched a node
	Unresolved     int `json:"unresolved"`      // imports that matched nothing
	DuplicateEdges int `json:"duplicate_edges"` // edges skipped for a repeated id
}

// NodeIDs returns the set of node ids in g.
func (g Graph) NodeIDs() map[string]bool {
	ids := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		ids[n.ID] = true
	}
	return ids
}

// Node returns the node with the given id.
func (g Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Bounds returns the width and height spanned by node positions, including
// one cell for the last row and column.
func (g Graph) Bounds(opts Options) (width, height int) {
	for _, n := range g.Nodes {
		width = max(width, n.Position.X+opts.CellWidth)
		height = max(height, n.Position.Y+opts.CellHeight)
	}
	return width, height
}
