// Package version holds build metadata for the ideashub-e2e binary,
// injected with -ldflags "-X github.com/hackideas/ideashub-e2e/internal/version.Version=...".
package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is the release tag, or "dev" for local builds.
	Version = "dev"

	// GitCommit is the short commit SHA.
	GitCommit = "unknown"

	BuildDate = "unknown"
)

// Info is the version metadata printed by the version command.
type Info struct {
	Version    string `yaml:"version"`
	GitCommit  string `yaml:"git_commit"`
	BuildDate  string `yaml:"build_date"`
	GoVersion  string `yaml:"go_version"`
	Playwright string `yaml:"playwright"`
}

// PlaywrightVersion is the playwright-go release the driver is pinned to.
const PlaywrightVersion = "v0.5200.0"

// GetInfo returns the current version info.
func GetInfo() Info {
	return Info{
		Version:    Version,
		GitCommit:  GitCommit,
		BuildDate:  BuildDate,
		GoVersion:  runtime.Version(),
		Playwright: PlaywrightVersion,
	}
}

// String returns "v1.2.0 (abc1234)".
func String() string {
	return fmt.Sprintf("%s (%s)", Version, GitCommit)
}
