package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/repomap/pkg/graph"
)

// pointsPerPixel converts grid pixels to Graphviz points (72 per inch) at 96 dpi.
const pointsPerPixel = 72.0 / 96.0

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the file path below the file name in node labels.
	Detailed bool

	// EdgeLabels prints the import string that produced each edge.
	EdgeLabels bool
}

// ToDOT converts a positioned graph to Graphviz DOT source.
//
// Every node is pinned to its grid position and filled with its resolved
// color, so the neato engine reproduces the layout instead of computing one.
// Grid y grows downwards; Graphviz y grows upwards, so y is negated.
func ToDOT(g graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=12, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  edge [arrowsize=0.6, color=\"#9ca3af\"];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		attrs := fmtAttrs(n, fmtLabel(n, opts.Detailed))
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		attrs := []string{fmt.Sprintf("id=%q", e.ID)}
		if opts.EdgeLabels {
			attrs = append(attrs, fmt.Sprintf("label=%q", e.Import), "fontsize=9")
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n graph.Node, detailed bool) string {
	if !detailed || n.Path == "" || n.Path == n.Label {
		return n.Label
	}
	return n.Label + "\n" + n.Path
}

func fmtAttrs(n graph.Node, label string) []string {
	return []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("pos=\"%s,%s!\"", fmtPoints(n.Position.X), fmtPoints(-n.Position.Y)),
		fmt.Sprintf("fillcolor=%q", n.Color),
		fmt.Sprintf("fontcolor=%q", fontColor(n.Color)),
	}
}

func fmtPoints(px int) string {
	return strconv.FormatFloat(float64(px)*pointsPerPixel, 'f', -1, 64)
}

// fontColor picks black or white text for a "#rrggbb" fill. Named colors
// get black.
func fontColor(fill string) string {
	if len(fill) != 7 || fill[0] != '#' {
		return "black"
	}
	rgb, err := strconv.ParseUint(fill[1:], 16, 32)
	if err != nil {
		return "black"
	}
	r, g, b := (rgb>>16)&0xff, (rgb>>8)&0xff, rgb&0xff
	// ITU-R BT.601 luma
	if 299*r+587*g+114*b < 128_000 {
		return "white"
	}
	return "black"
}

// RenderSVG renders DOT source to SVG using Graphviz.
// The neato engine is used so pinned node positions are kept.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
