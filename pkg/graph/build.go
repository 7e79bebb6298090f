package graph

import (
	"fmt"

	"github.com/matzehuels/repomap/pkg/analysis"
)

// Build converts files and their dependencies into a positioned graph.
//
// The steps are:
//  1. select the first opts.NodeCap files and place them on the grid
//  2. index the selected files by path; dependency entries for other paths
//     are skipped
//  3. resolve each import of a selected file with [Resolve]
//  4. emit an edge "{source}-{target}-{index}" per resolved import, where
//     index is the import's position in its file's list, skipping ids that
//     were already emitted
//
// Edges are ordered by their source's position in the working set, then by
// import index. When several selected files share a path, the last of them
// owns that path's imports. Zero fields of opts take their defaults.
//
// Build never fails: empty inputs, missing dependency entries and unresolved
// imports simply produce fewer edges.
func Build(files []analysis.FileEntry, deps analysis.DependencyMap, opts Options) Graph {
	opts = opts.WithDefaults()

	limit := max(0, min(opts.NodeCap, len(files)))
	working := files[:limit]

	g := Graph{
		Nodes: make([]Node, 0, limit),
		Edges: []Edge{},
		Stats: Stats{
			Files:     len(files),
			Nodes:     limit,
			Truncated: len(files) - limit,
		},
	}

	for i, f := range working {
		g.Nodes = append(g.Nodes, Node{
			ID:       f.ID,
			Label:    f.Name,
			Path:     f.Path,
			Position: gridPosition(i, opts),
			ColorKey: f.Type,
			Color:    opts.Palette.Color(f.Type),
		})
	}

	// path -> id of the owning file; paths in first-occurrence order
	index := make(map[string]string, limit)
	var sources []string
	for _, f := range working {
		if _, ok := index[f.Path]; !ok {
			sources = append(sources, f.Path)
		}
		index[f.Path] = f.ID
	}

	seen := make(map[string]bool)
	for _, path := range sources {
		sourceID := index[path]
		for i, imp := range deps[path] {
			g.Stats.Imports++
			j := Resolve(imp, working)
			if j < 0 {
				g.Stats.Unresolved++
				continue
			}
			g.Stats.Resolved++

			targetID := working[j].ID
			id := EdgeID(sourceID, targetID, i)
			if seen[id] {
				g.Stats.DuplicateEdges++
				continue
			}
			seen[id] = true
			g.Edges = append(g.Edges, Edge{
				ID:     id,
				Source: sourceID,
				Target: targetID,
				Import: imp,
				Type:   opts.EdgeType,
			})
		}
	}

	return g
}

// EdgeID derives the id of the edge produced by the index-th import of source.
func EdgeID(source, target string, index int) string {
	return fmt.Sprintf("%s-%s-%d", source, target, index)
}

func gridPosition(i int, opts Options) Position {
	return Position{
		X: (i % opts.Columns) * opts.CellWidth,
		Y: (i / opts.Columns) * opts.CellHeight,
	}
}
