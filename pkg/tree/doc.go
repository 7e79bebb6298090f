// Package tree builds the folder/file hierarchy of an analyzed repository.
//
// [Build] turns the flat file list of an analysis payload into a tree of
// folders rooted at a synthetic root node. Folders exist only because at
// least one file path passes through them; files are terminal entries stored
// on the folder that contains them and are never treated as path components.
//
//	root := tree.Build(payload.Files)
//	for _, f := range root.Folders() {
//	    fmt.Println(f.Path, f.FileCount())
//	}
//
// # Empty Segments
//
// Paths with empty segments ("a//b.js", "a/b/") are not rejected. Empty
// segments are collapsed, so "a//b.js" lands in the same folder as "a/b.js"
// and folder paths never contain "//".
//
// # Expand/Collapse State
//
// [ExpandState] is the transient presentation state of a tree view: the set
// of expanded folder paths, seeded with the root. It is immutable; [ExpandState.Toggle]
// returns a new state. [Visible] flattens the rows a view would draw for a
// given state without touching the tree.
//
// # Concurrency
//
// Build is a pure function and safe for concurrent use. A built tree is not
// mutated by anything in this package and may be shared between readers.
package tree
