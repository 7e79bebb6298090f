// Package buildinfo reports which repomap build is running.
//
// Release builds set the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/repomap/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/repomap/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/repomap/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	// Version is the semantic version, or "dev" for local builds.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("repomap %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the version template for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

// CacheScope returns the cache key prefix of this build. Trees and graphs
// cached by one build are not read by another, since builder rules may have
// changed between them. Development builds are told apart by commit.
func CacheScope() string {
	if Version == "dev" && Commit != "none" {
		return fmt.Sprintf("dev-%.12s:", Commit)
	}
	return Version + ":"
}
