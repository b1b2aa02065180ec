package anu

var (
	// Version of the anu application.
	Version = "v0.1.0"
	// Build timestamp, set during compilation.
	Build = "n/a"
)
