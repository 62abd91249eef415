// Package buildinfo contains build information.
//
// Build information should be set during compilation by passing
// -ldflags "-X github.com/pyritelang/pyrite/pkg/buildinfo.Var=value" to
// "go build".
package buildinfo

import "runtime"

// Version identifies the version of pyrite. On development commits, it
// identifies the next release.
const Version = "0.1.0"

// VersionSuffix is appended to Version in the output of "pyrite version" to
// build the full version string. Release builds override it to be empty.
var VersionSuffix = "-dev.unknown"

// Reproducible identifies whether the build is reproducible. This can be
// overridden when building pyrite.
var Reproducible = "false"

// Info is the structured form of the build information, suitable for JSON
// output.
type Info struct {
	Version      string `json:"version"`
	GoVersion    string `json:"goversion"`
	Reproducible bool   `json:"reproducible"`
}

// Value contains the build information of the current binary.
var Value = Info{
	Version:      Version + VersionSuffix,
	GoVersion:    runtime.Version(),
	Reproducible: Reproducible == "true",
}
