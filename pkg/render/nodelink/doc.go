// Package nodelink exports the import graph as a Graphviz node-link diagram.
//
// # Overview
//
// The graph produced by [graph.Build] is already laid out on a grid. This
// package does not compute a layout of its own: [ToDOT] pins each node at
// its grid position (converted from pixels to points, y negated) and selects
// the neato engine, which honors pinned positions.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// The DOT source can also be saved and processed with external Graphviz
// tools, e.g. `neato -n2 -Tpng`.
//
// # Options
//
//   - Detailed: node labels include the file path below the name
//   - EdgeLabels: edges are labeled with the import string that produced them
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
//
// [graph.Build]: github.com/matzehuels/repomap/pkg/graph.Build
package nodelink
