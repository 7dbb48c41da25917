// Package buildinfo carries version information stamped in at link time:
//
//	go build -ldflags "-X github.com/matzehuels/staffsheet/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/staffsheet/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/staffsheet/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/staffsheet
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

// UserAgent identifies the preview server in response headers.
func UserAgent() string {
	return "staffsheet/" + Version
}
