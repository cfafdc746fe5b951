// Package build holds build-time information.
package build

// Version is the genopipe version. Defaults to "dev"; release builds
// overwrite it via linker flags.
var Version = "dev"
