// Package version exposes build metadata for the shelfsearch binary.
package version

import (
	"fmt"
	"runtime"
)

// Version is injected with -ldflags "-X github.com/Aman-CERP/shelfsearch/pkg/version.Version=...".
var Version = "dev"

var (
	// Commit is the short git hash of the build.
	Commit = "unknown"

	// Date is the RFC3339 build timestamp.
	Date = "unknown"

	// GoVersion is the toolchain that produced the binary.
	GoVersion = runtime.Version()
)

// BuildInfo is the JSON shape printed by `shelfsearch version --json`.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// String returns a one-line summary of the build.
func String() string {
	return fmt.Sprintf("shelfsearch %s (commit: %s, built: %s, go: %s)",
		Version, Commit, Date, GoVersion)
}

// Short returns just the version string.
func Short() string {
	return Version
}

// GetInfo returns the build metadata as a struct.
func GetInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: GoVersion,
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}
