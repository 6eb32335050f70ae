// Package buildinfo exposes the build identity injected at link time.
//
// Release builds stamp the three variables via ldflags:
//
//	go build -ldflags "\
//	    -X github.com/isoclass/isoclass/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/isoclass/isoclass/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/isoclass/isoclass/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Unstamped binaries report the development defaults.
package buildinfo

import "fmt"

var (
	// Version is the semantic version, "dev" when unstamped.
	Version = "dev"

	// Commit is the git commit SHA, "none" when unstamped.
	Commit = "none"

	// Date is the UTC build timestamp, "unknown" when unstamped.
	Date = "unknown"
)

// Info bundles the build identity for surfaces that report it (the CLI
// --version output and the HTTP health endpoint).
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Get returns the identity of the running binary.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// Stamped reports whether any build metadata was injected.
func (i Info) Stamped() bool {
	return i.Version != "dev" || i.Commit != "none" || i.Date != "unknown"
}

// String renders the identity one field per line.
func (i Info) String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", i.Version, i.Commit, i.Date)
}

// String returns the formatted build information of the running binary.
func String() string {
	return Get().String()
}

// Template returns the version template string for cobra.
func Template() string {
	i := Get()
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", i.Version, i.Commit, i.Date)
}
