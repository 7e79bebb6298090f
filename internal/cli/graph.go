package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/repomap/pkg/graph"
	"github.com/matzehuels/repomap/pkg/pipeline"
)

// formatTable prints the graph as terminal tables instead of exporting it.
const formatTable = "table"

// graphOpts holds the flags of the graph command.
type graphOpts struct {
	format     string
	output     string
	nodeCap    int
	columns    int
	cellWidth  int
	cellHeight int
	edgeType   string
	detailed   bool
	edgeLabels bool
	refresh    bool
	watch      bool
}

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var opts graphOpts

	cmd := &cobra.Command{
		Use:   "graph <payload.json>",
		Short: "Build the import graph of a payload",
		Long: `Graph places the first --cap files of the payload on a grid and links them
by the imports that could be matched to another placed file.

Import matching is a heuristic: an import links to the first file whose path
contains it, or whose name without extension it contains. Imports that match
nothing are dropped.

Formats:
  table   nodes and edges as terminal tables (default)
  json    nodes and edges for a web renderer
  dot     Graphviz DOT with pinned node positions
  svg     rendered with Graphviz`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			popts, err := c.graphPipelineOptions(cmd, args[0], opts)
			if err != nil {
				return err
			}
			return c.runGraph(cmd.Context(), cmd.OutOrStdout(), popts, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", formatTable, "output format: table, json, dot, svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().IntVar(&opts.nodeCap, "cap", graph.DefaultNodeCap, "maximum number of nodes")
	cmd.Flags().IntVar(&opts.columns, "cols", graph.DefaultColumns, "nodes per grid row")
	cmd.Flags().IntVar(&opts.cellWidth, "cell-width", graph.DefaultCellWidth, "horizontal grid spacing in pixels")
	cmd.Flags().IntVar(&opts.cellHeight, "cell-height", graph.DefaultCellHeight, "vertical grid spacing in pixels")
	cmd.Flags().StringVar(&opts.edgeType, "edge-type", graph.EdgeTypeSmoothStep, "edge style for the web renderer: smoothstep, straight, step")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include file paths in DOT/SVG node labels")
	cmd.Flags().BoolVar(&opts.edgeLabels, "edge-labels", false, "label DOT/SVG edges with their import")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "rebuild when the payload changes")

	return cmd
}

// graphPipelineOptions merges the config file with the flags the user set.
func (c *CLI) graphPipelineOptions(cmd *cobra.Command, path string, opts graphOpts) (pipeline.Options, error) {
	if opts.format != formatTable {
		if err := pipeline.ValidateFormat(opts.format); err != nil {
			return pipeline.Options{}, invalidFlag("format", opts.format, "table, json, dot, svg")
		}
	}

	popts := c.Config.PipelineOptions()
	popts.Path = path
	popts.SkipTree = true
	popts.Refresh = opts.refresh

	flags := cmd.Flags()
	if flags.Changed("cap") {
		popts.NodeCap = opts.nodeCap
	}
	if flags.Changed("cols") {
		popts.Columns = opts.columns
	}
	if flags.Changed("cell-width") {
		popts.CellWidth = opts.cellWidth
	}
	if flags.Changed("cell-height") {
		popts.CellHeight = opts.cellHeight
	}
	if flags.Changed("edge-type") {
		popts.EdgeType = opts.edgeType
	}

	if err := popts.ValidateForGraph(); err != nil {
		return pipeline.Options{}, err
	}
	return popts, nil
}

func (c *CLI) runGraph(ctx context.Context, w io.Writer, popts pipeline.Options, opts graphOpts) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	build := func() error {
		res, err := runner.Execute(ctx, popts)
		if err != nil {
			return err
		}
		if opts.format == formatTable {
			return writeGraphTables(w, res)
		}
		return c.exportGraph(ctx, w, res.Graph, opts)
	}

	if err := build(); err != nil {
		if !opts.watch {
			return err
		}
		c.Logger.Error("build failed", "err", err)
	}
	if !opts.watch {
		return nil
	}
	return watchFile(ctx, popts.Path, c.Logger, build)
}

// exportGraph encodes g and writes it to the output file or w.
func (c *CLI) exportGraph(ctx context.Context, w io.Writer, g graph.Graph, opts graphOpts) error {
	eopts := pipeline.ExportOptions{Detailed: opts.detailed, EdgeLabels: opts.edgeLabels}

	var (
		data []byte
		err  error
	)
	if opts.format == pipeline.FormatSVG && opts.output != "" {
		s := newSpinner(ctx, c.errOut, "Rendering SVG...")
		s.Start()
		data, err = pipeline.Export(ctx, g, opts.format, eopts)
		s.Stop()
	} else {
		data, err = pipeline.Export(ctx, g, opts.format, eopts)
	}
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err = w.Write(data)
		return err
	}

	prog := newProgress(c.Logger)
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	prog.done("wrote graph", "format", opts.format, "nodes", len(g.Nodes), "edges", len(g.Edges))
	printFile(w, opts.output)
	return nil
}

// writeGraphTables prints the nodes and edges of a pipeline result.
func writeGraphTables(w io.Writer, res *pipeline.Result) error {
	g := res.Graph
	fmt.Fprintln(w, nodeTable(g))
	if len(g.Edges) > 0 {
		fmt.Fprintln(w, edgeTable(g))
	}

	printStats(w, res.CacheInfo.GraphHit, counted(len(g.Nodes), "nodes"), counted(len(g.Edges), "edges"))
	printDetail(w, "%d of %d imports resolved", g.Stats.Resolved, g.Stats.Imports)
	if g.Stats.Truncated > 0 {
		printWarning(w, "%d files beyond the node cap are not shown", g.Stats.Truncated)
	}
	return nil
}

var tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

func newTable() *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})
}

// nodeTable lists every node with its position and how many imports it makes.
func nodeTable(g graph.Graph) string {
	out := make(map[string]int, len(g.Nodes))
	for _, e := range g.Edges {
		out[e.Source]++
	}

	rows := make([][]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		typ := n.ColorKey
		if typ == "" {
			typ = "—"
		}
		rows = append(rows, []string{
			n.ID,
			n.Path,
			lipgloss.NewStyle().Foreground(lipgloss.Color(n.Color)).Render(typ),
			fmt.Sprintf("%d,%d", n.Position.X, n.Position.Y),
			fmt.Sprint(out[n.ID]),
		})
	}
	return newTable().Headers("ID", "Path", "Type", "Position", "Imports").Rows(rows...).Render()
}

// edgeTable lists every edge with the import that produced it.
func edgeTable(g graph.Graph) string {
	paths := make(map[string]string, len(g.Nodes))
	for _, n := range g.Nodes {
		paths[n.ID] = n.Path
	}

	rows := make([][]string, 0, len(g.Edges))
	for _, e := range g.Edges {
		rows = append(rows, []string{e.ID, paths[e.Source], paths[e.Target], e.Import})
	}
	return newTable().Headers("ID", "Source", "Target", "Import").Rows(rows...).Render()
}
