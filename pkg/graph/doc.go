// Package graph builds the import graph diagram of an analyzed repository.
//
// [Build] converts the file list and dependency map of an analysis payload
// into a capped set of grid-positioned nodes and deduplicated edges. The
// result is rendering-ready: positions are final, colors are resolved, and
// every edge references a node in the result.
//
// # Node Selection and Layout
//
// Only the first [Options.NodeCap] files (default 50) become nodes. Node i is
// placed on a raster:
//
//	x = (i mod Columns) * CellWidth
//	y = (i / Columns) * CellHeight
//
// Files past the cap take part in neither nodes nor edges.
//
// # Import Resolution
//
// Import strings are resolved to nodes with a deliberately permissive
// substring heuristic (see [Resolve]). It does not interpret relative paths,
// directories or extensions and produces false positives: "util" matches both
// "utils.js" and "utility.js", whichever comes first. Treat edges as a
// best-effort sketch of the import structure, not as module resolution.
// Imports that match nothing are dropped silently.
//
// # Serialization
//
// Graphs use a node-link JSON format suitable for a web renderer:
//
//	{
//	  "nodes": [{"id": "1", "label": "a.js", "position": {"x": 0, "y": 0}, ...}],
//	  "edges": [{"id": "1-2-0", "source": "1", "target": "2", ...}]
//	}
//
// # Concurrency
//
// Build is pure and safe for concurrent use. [Palette] values are immutable.
package graph
