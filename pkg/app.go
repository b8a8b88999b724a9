// Package app holds application-wide metadata injected at build time.
package app

var (
	// Version is the application version, set via ldflags on release builds.
	Version = "v0.1.0"

	// Build is the build timestamp or commit, set via ldflags.
	Build = "n/a"
)
