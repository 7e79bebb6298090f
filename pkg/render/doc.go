// Package render groups the exporters for built graphs.
//
// The graph builder already decides where every node goes, so renderers here
// never compute a layout. The [nodelink] subpackage writes Graphviz DOT with
// pinned positions and turns it into SVG through go-graphviz.
package render
