// Package version holds the build version string.
package version

// Version is the release version, overridable at build time with
// -ldflags "-X scoretree/pkg/version.Version=...".
var Version = "0.3.0"
