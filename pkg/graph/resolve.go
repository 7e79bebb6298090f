package graph

import (
	"strings"

	"github.com/matzehuels/repomap/pkg/analysis"
)

// Resolve returns the index of the first file in candidates that an import
// string refers to, or -1.
//
// A file matches when its path contains imp, or when imp contains the file
// name with its final extension stripped. The scan stops at the first match,
// so candidate order decides between competing matches.
//
// This is a best-effort heuristic, not module resolution. Known false
// positives, all intentional:
//   - "util" resolves to whichever of "utils.js" and "utility.js" comes first
//   - a file named ".env" has an empty stem and matches every import
//   - a file can match its own imports, producing a self-edge
//   - an empty import string matches the first candidate
func Resolve(imp string, candidates []analysis.FileEntry) int {
	for i, f := range candidates {
		if matches(imp, f) {
			return i
		}
	}
	return -1
}

func matches(imp string, f analysis.FileEntry) bool {
	return strings.Contains(f.Path, imp) || strings.Contains(imp, Stem(f.Name))
}

// Stem strips the final extension from a file name: "a.test.js" becomes
// "a.test", ".env" becomes "", "Makefile" and "a." are unchanged.
func Stem(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return name
	}
	return name[:i]
}
