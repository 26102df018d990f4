// Package version carries the build information of the depminer binary and
// decides whether data written by another build can be read.
package version

import (
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"
)

// Build information. These variables are set at build time via ldflags.
var (
	// CommitHash is the git commit hash when the binary was built
	CommitHash = "dev"

	// BuildTime is when the binary was built
	BuildTime = "unknown"

	// Version is the semantic version (if tagged)
	Version = "dev"
)

// Info contains version and build information
type Info struct {
	CommitHash string `json:"commit_hash" yaml:"commit_hash"`
	BuildTime  string `json:"build_time" yaml:"build_time"`
	Version    string `json:"version" yaml:"version"`
	GoVersion  string `json:"go_version" yaml:"go_version"`
	Platform   string `json:"platform" yaml:"platform"`
}

// Get returns the current version information
func Get() Info {
	return Info{
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		Version:    Version,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a human-readable version string
func (i Info) String() string {
	if i.Version != "dev" {
		return fmt.Sprintf("depminer %s (commit %s, built %s)", i.Version, i.CommitHash, i.BuildTime)
	}
	return fmt.Sprintf("depminer dev (commit %s, built %s)", i.CommitHash, i.BuildTime)
}

// Short returns a short version string with just the commit hash
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}

// Semver parses Version. Development builds parse as 0.0.0-dev.
func Semver() *semver.Version {
	v, err := semver.NewVersion(Version)
	if err != nil {
		return semver.MustParse("0.0.0-dev")
	}
	return v
}

// Compatibility is the outcome of comparing a recorded version with this build.
type Compatibility int

const (
	// Compatible: same major version, or either side is a development build.
	Compatible Compatibility = iota
	// Older: the data was written by an older major version.
	Older
	// Newer: the data was written by a newer major version and may use
	// features this build does not know.
	Newer
)

// Check compares a version recorded alongside persisted data with running.
// Unparseable or development versions are treated as compatible.
func Check(recorded string, running *semver.Version) Compatibility {
	rec, err := semver.NewVersion(recorded)
	if err != nil || running == nil || rec.Prerelease() == "dev" || running.Prerelease() == "dev" {
		return Compatible
	}
	switch {
	case rec.Major() > running.Major():
		return Newer
	case rec.Major() < running.Major():
		return Older
	}
	return Compatible
}
