// Package pkg provides the core libraries for repomap.
//
// # Overview
//
// repomap turns the analysis payload of a repository, a flat list of files
// plus the import strings found in each file, into two views a web client
// can draw: a collapsible folder tree and a grid-positioned import graph.
// The pkg directory is organized into these areas:
//
//  1. [analysis] - Payload model, normalization and boundary validation
//  2. [analyze] - Payloads from a local checkout (tree-sitter import parsing)
//  3. [tree] - Folder tree builder and expand/collapse state
//  4. [graph] - Import graph builder, import resolution and color palette
//  5. [render/nodelink] - DOT and SVG export of a built graph
//  6. [pipeline] - Orchestration (load → tree → graph) with caching
//  7. [cache], [config], [errors], [observability] - Supporting infrastructure
//
// # Architecture
//
// The typical data flow through repomap:
//
//	[analyze] (local checkout)
//	     ↓
//	analysis.json
//	     ↓
//	[analysis] package (decode, normalize, validate)
//	     ↓
//	[tree] package ──────────── [graph] package
//	(folders, expand state)      (nodes on a grid, resolved imports)
//	                                  ↓
//	                             [render/nodelink] (DOT, SVG)
//
// Both builders are pure: the same payload and options always produce the
// same result, which is what makes the content-addressed [cache] safe.
//
// # Quick Start
//
//	p, err := analysis.ReadFile("analysis.json")
//	if err != nil {
//	    return err
//	}
//
//	root := tree.Build(p.Files)
//	rows := tree.Visible(root, tree.NewExpandState())
//
//	g := graph.Build(p.Files, p.Dependencies, graph.DefaultOptions())
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//
// Or run the whole pipeline with caching:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{Path: "analysis.json"})
package pkg
