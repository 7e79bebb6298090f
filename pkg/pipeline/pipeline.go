// Package pipeline provides the load → tree → graph pipeline for repomap.
//
// This package wires payload decoding, the tree and graph builders, caching
// and observability hooks together so the CLI commands, the watch loop and
// the interactive browser all behave the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Decode, normalize and validate an analysis payload file
//  2. Tree: Build the folder hierarchy of the payload's files
//  3. Graph: Build the capped, grid-positioned import graph
//
// Each stage can be run independently or as part of the complete pipeline.
// Tree and graph results are cached under keys derived from the content hash
// of the payload's files and dependencies, so an unchanged payload never
// rebuilds. Both builders are pure; a cache failure only costs a rebuild.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{Path: "analysis.json"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Graph.Stats.Nodes)
//
// Run individual stages:
//
//	p, err := runner.Load(ctx, "analysis.json")
//	root, err := runner.Tree(ctx, p)
//	g, err := runner.Graph(ctx, p, opts)
//
// Export a graph:
//
//	svg, err := pipeline.Export(ctx, g, pipeline.FormatSVG, pipeline.ExportOptions{})
package pipeline

import (
	"fmt"
	"maps"
	"time"

	"github.com/matzehuels/repomap/pkg/analysis"
	"github.com/matzehuels/repomap/pkg/cache"
	"github.com/matzehuels/repomap/pkg/graph"
	"github.com/matzehuels/repomap/pkg/tree"
)

// Format constants for graph export.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported export formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// ValidEdgeTypes is the set of edge styles understood by the web renderer.
var ValidEdgeTypes = map[string]bool{
	graph.EdgeTypeSmoothStep: true,
	graph.EdgeTypeStraight:   true,
	graph.EdgeTypeStep:       true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// Zero values take the graph package defaults.
type Options struct {
	// Load options
	Path string `json:"path"`

	// Graph options
	NodeCap      int               `json:"node_cap,omitempty"`
	Columns      int               `json:"columns,omitempty"`
	CellWidth    int               `json:"cell_width,omitempty"`
	CellHeight   int               `json:"cell_height,omitempty"`
	EdgeType     string            `json:"edge_type,omitempty"`
	DefaultColor string            `json:"default_color,omitempty"`
	Colors       map[string]string `json:"colors,omitempty"` // merged over the built-in palette

	// Stage selection
	SkipTree  bool `json:"skip_tree,omitempty"`
	SkipGraph bool `json:"skip_graph,omitempty"`

	// Refresh bypasses cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Payload is the loaded and validated analysis payload.
	Payload *analysis.Payload

	// PayloadHash is the content hash of the payload's files and dependencies.
	PayloadHash string

	// Tree is the folder hierarchy; nil when SkipTree is set.
	Tree *tree.Node

	// Graph is the import graph; empty when SkipGraph is set.
	Graph graph.Graph

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Files     int
	Folders   int
	Nodes     int
	Edges     int
	LoadTime  time.Duration
	TreeTime  time.Duration
	GraphTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	TreeHit  bool // Whether the tree came from cache
	GraphHit bool // Whether the graph came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: json, dot, svg)", format)
	}
	return nil
}

// ValidateEdgeType checks that an edge type is valid.
func ValidateEdgeType(edgeType string) error {
	if !ValidEdgeTypes[edgeType] {
		return fmt.Errorf("invalid edge_type: %q (must be one of: smoothstep, straight, step)", edgeType)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Path == "" {
		return fmt.Errorf("path is required")
	}
	if err := o.ValidateForGraph(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetGraphDefaults sets default values for graph building.
func (o *Options) SetGraphDefaults() {
	if o.NodeCap == 0 {
		o.NodeCap = graph.DefaultNodeCap
	}
	if o.Columns == 0 {
		o.Columns = graph.DefaultColumns
	}
	if o.CellWidth == 0 {
		o.CellWidth = graph.DefaultCellWidth
	}
	if o.CellHeight == 0 {
		o.CellHeight = graph.DefaultCellHeight
	}
	if o.EdgeType == "" {
		o.EdgeType = graph.EdgeTypeSmoothStep
	}
	if o.DefaultColor == "" {
		o.DefaultColor = graph.DefaultColor
	}
}

// ValidateForGraph validates and sets defaults for graph building.
func (o *Options) ValidateForGraph() error {
	o.SetGraphDefaults()
	if err := o.GraphOptions().Validate(); err != nil {
		return err
	}
	return ValidateEdgeType(o.EdgeType)
}

// GraphOptions converts the options to [graph.Options]. Colors are merged
// over the built-in palette.
func (o *Options) GraphOptions() graph.Options {
	palette := graph.NewPalette(graph.DefaultPalette().Colors(), o.DefaultColor).With(o.Colors)
	return graph.Options{
		NodeCap:    o.NodeCap,
		Columns:    o.Columns,
		CellWidth:  o.CellWidth,
		CellHeight: o.CellHeight,
		Palette:    palette,
		EdgeType:   o.EdgeType,
	}
}

// GraphKeyOpts returns cache key options for graph building.
func (o *Options) GraphKeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{
		NodeCap:      o.NodeCap,
		Columns:      o.Columns,
		CellWidth:    o.CellWidth,
		CellHeight:   o.CellHeight,
		EdgeType:     o.EdgeType,
		DefaultColor: o.DefaultColor,
		Colors:       maps.Clone(o.Colors),
	}
}
