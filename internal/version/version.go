// Package version carries build metadata injected at link time.
package version

import "fmt"

var (
	// Version is the release tag, overridden via -ldflags at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func Get() string {
	return fmt.Sprintf("nextcdn %s (commit %s, built %s)", Version, Commit, Date)
}
