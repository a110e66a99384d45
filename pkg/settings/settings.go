// Package settings provides build metadata and the per-run options the
// pathpick CLI carries through its command context.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "pathpick"

// VersionInformation is populated at build time via ldflags and holds the
// commit hash, semantic version, and build timestamp of the running binary.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Run holds the settings of a single invocation.
type Run struct {
	MinLogLevel int8
	Debug       bool
	NoColor     bool
	ConfigFile  string
	// Print0 separates printed paths with NUL instead of newlines.
	Print0 bool
}

// NewCliParams returns the CLI defaults.
func NewCliParams() *Run {
	return &Run{}
}

// Separator returns the output separator for chosen paths.
func (r *Run) Separator() string {
	if r != nil && r.Print0 {
		return "\x00"
	}
	return "\n"
}
