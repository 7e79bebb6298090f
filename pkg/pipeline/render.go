package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/repomap/pkg/graph"
	"github.com/matzehuels/repomap/pkg/render/nodelink"
)

// ExportOptions controls DOT and SVG export.
type ExportOptions struct {
	Detailed   bool // node labels include the file path
	EdgeLabels bool // edges are labeled with their import string
}

// Export encodes a graph in the given format.
func Export(ctx context.Context, g graph.Graph, format string, opts ExportOptions) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatJSON:
		data, err = graph.MarshalGraph(g)
	case FormatDOT:
		data = []byte(nodelink.ToDOT(g, nodelinkOptions(opts)))
	case FormatSVG:
		data, err = nodelink.RenderSVG(ctx, nodelink.ToDOT(g, nodelinkOptions(opts)))
	}
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", format, err)
	}
	return data, nil
}

func nodelinkOptions(opts ExportOptions) nodelink.Options {
	return nodelink.Options{Detailed: opts.Detailed, EdgeLabels: opts.EdgeLabels}
}
