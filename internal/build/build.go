// Package build holds version information set at link time:
//
//	go build -ldflags "-X github.com/squadready/squadready/internal/build.Version=v1.2.0"
//
// It has no dependencies on other internal packages.
package build

import "fmt"

var (
	// Version information - set via ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// IsDevBuild returns true if running a development build (not a release).
func IsDevBuild() bool {
	return Version == "dev"
}

// UserAgent identifies squadready in outgoing HTTP requests.
func UserAgent() string {
	return fmt.Sprintf("squadready/%s", Version)
}
