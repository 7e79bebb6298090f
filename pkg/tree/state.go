package tree

import (
	"maps"
	"slices"
)

// ExpandState is an immutable set of expanded folder paths.
// The zero value is an empty set; use [NewExpandState] for the usual
// root-expanded starting point.
type ExpandState struct {
	paths map[string]struct{}
}

// NewExpandState returns a state with only the root expanded.
func NewExpandState() ExpandState {
	return ExpandState{paths: map[string]struct{}{RootPath: {}}}
}

// IsExpanded reports whether the folder at path is expanded.
func (s ExpandState) IsExpanded(path string) bool {
	_, ok := s.paths[path]
	return ok
}

// Toggle returns a new state with path's membership flipped.
// Toggling the same path twice yields a state equal to the original.
func (s ExpandState) Toggle(path string) ExpandState {
	next := s.clone()
	if _, ok := next.paths[path]; ok {
		delete(next.paths, path)
	} else {
		next.paths[path] = struct{}{}
	}
	return next
}

// Expand returns a new state with path expanded.
func (s ExpandState) Expand(path string) ExpandState {
	if s.IsExpanded(path) {
		return s
	}
	return s.Toggle(path)
}

// Collapse returns a new state with path collapsed.
func (s ExpandState) Collapse(path string) ExpandState {
	if !s.IsExpanded(path) {
		return s
	}
	return s.Toggle(path)
}

// Len returns the number of expanded paths.
func (s ExpandState) Len() int { return len(s.paths) }

// Paths returns the expanded paths in sorted order.
func (s ExpandState) Paths() []string {
	return slices.Sorted(maps.Keys(s.paths))
}

// Equal reports whether two states contain the same paths.
func (s ExpandState) Equal(o ExpandState) bool {
	if len(s.paths) != len(o.paths) {
		return false
	}
	for p := range s.paths {
		if _, ok := o.paths[p]; !ok {
			return false
		}
	}
	return true
}

func (s ExpandState) clone() ExpandState {
	next := make(map[string]struct{}, len(s.paths)+1)
	for p := range s.paths {
		next[p] = struct{}{}
	}
	return ExpandState{paths: next}
}

// ExpandAll returns a state with every folder of root expanded.
func ExpandAll(root *Node) ExpandState {
	return ExpandToDepth(root, -1)
}

// ExpandToDepth returns a state with folders up to depth expanded; the root
// is depth 0. A negative depth expands everything.
func ExpandToDepth(root *Node, depth int) ExpandState {
	s := ExpandState{paths: make(map[string]struct{})}
	root.Walk(func(f *Node, d int) bool {
		if depth >= 0 && d > depth {
			return false
		}
		s.paths[f.Path] = struct{}{}
		return true
	})
	return s
}
