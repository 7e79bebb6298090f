package graph

import "fmt"

// Layout defaults.
const (
	DefaultNodeCap    = 50
	DefaultColumns    = 8
	DefaultCellWidth  = 200
	DefaultCellHeight = 150
)

// Options configures [Build].
type Options struct {
	NodeCap    int     // maximum number of nodes; files past it are ignored
	Columns    int     // grid columns
	CellWidth  int     // horizontal distance between columns, in pixels
	CellHeight int     // vertical distance between rows, in pixels
	Palette    Palette // file type to color lookup
	EdgeType   string  // renderer edge style stamped on every edge
}

// DefaultOptions returns the standard layout: 50 nodes on an 8-column grid
// of 200x150 cells with the built-in palette.
func DefaultOptions() Options {
	return Options{
		NodeCap:    DefaultNodeCap,
		Columns:    DefaultColumns,
		CellWidth:  DefaultCellWidth,
		CellHeight: DefaultCellHeight,
		Palette:    DefaultPalette(),
		EdgeType:   EdgeTypeSmoothStep,
	}
}

// WithDefaults fills zero fields from [DefaultOptions].
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.NodeCap == 0 {
		o.NodeCap = d.NodeCap
	}
	if o.Columns == 0 {
		o.Columns = d.Columns
	}
	if o.CellWidth == 0 {
		o.CellWidth = d.CellWidth
	}
	if o.CellHeight == 0 {
		o.CellHeight = d.CellHeight
	}
	if o.Palette.colors == nil && o.Palette.fallback == "" {
		o.Palette = d.Palette
	}
	if o.EdgeType == "" {
		o.EdgeType = d.EdgeType
	}
	return o
}

// Validate checks that the layout parameters are usable.
func (o Options) Validate() error {
	if o.NodeCap <= 0 {
		return fmt.Errorf("node cap must be positive, got %d", o.NodeCap)
	}
	if o.Columns <= 0 {
		return fmt.Errorf("columns must be positive, got %d", o.Columns)
	}
	if o.CellWidth <= 0 || o.CellHeight <= 0 {
		return fmt.Errorf("cell size must be positive, got %dx%d", o.CellWidth, o.CellHeight)
	}
	return nil
}
