// Package analysis defines the repository analysis payload and its boundary
// validation.
//
// A payload is produced by an upstream analyzer and describes one repository:
// a flat list of [FileEntry] records and a [DependencyMap] from file path to
// the import strings found in that file. Descriptive fields (repository name,
// URL, framework, entry points, insight text) pass through unmodified.
//
// # Boundary Validation
//
// The tree and graph builders assume well-formed input. [Decode] and
// [ReadFile] normalize and validate a payload before it reaches them:
//
//	p, err := analysis.ReadFile("analysis.json")
//	if err != nil {
//	    // errors.Is(err, errors.ErrCodeInvalidPayload), ErrCodeDuplicateID, ...
//	}
//	root := tree.Build(p.Files)
//	g := graph.Build(p.Files, p.Dependencies, graph.DefaultOptions())
//
// Structural violations (missing id or path, absolute paths, duplicate ids)
// fail fast. Unresolvable imports and empty dependency maps are not errors.
package analysis
