// Package flasky keeps build-time metadata of the flasky CLI.
package flasky

var (
	// Version of the application, set by build flags.
	Version = "v0.1.0"
	// Build timestamp, set by build flags.
	Build = "n/a"
)
