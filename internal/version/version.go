// Package version holds build-time version information for the newsgw
// binaries, injected with -ldflags:
//
// -X github.com/ferro-labs/news-gateway/internal/version.Version=v0.3.0
// -X github.com/ferro-labs/news-gateway/internal/version.Commit=abc1234
// -X github.com/ferro-labs/news-gateway/internal/version.Date=2026-10-01T00:00:00Z
package version

import "fmt"

// Variables set at link time. Local builds keep the dev values.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns a single-line version string, e.g.
// "v0.3.0 (commit abc1234, built 2026-10-01T00:00:00Z)".
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date)
}

// Short returns just the version tag.
func Short() string {
	return Version
}
