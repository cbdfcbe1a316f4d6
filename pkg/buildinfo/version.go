// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/matzehuels/framegrid/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/framegrid/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/framegrid/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/framegrid
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Fields returns the build information as string pairs, for health
// responses and structured logs.
func Fields() map[string]string {
	return map[string]string{
		"version": Version,
		"commit":  Commit,
		"built":   Date,
	}
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
