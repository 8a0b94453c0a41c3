// Package version holds the ffufai version string.
package version

// Version is overridden at build time via -ldflags.
var Version = "dev"
