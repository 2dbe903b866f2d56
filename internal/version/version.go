// Package version provides build-time version information.
package version

import "runtime/debug"

// These variables are set at build time using -ldflags
var (
	// Version is the semantic version
	Version = ""

	// BuildTime is the UTC time when the binary was built
	BuildTime = ""

	// GitCommit is the git commit hash
	GitCommit = ""
)

// Get returns the version.
// Priority: ldflags > debug.ReadBuildInfo > "(devel)"
func Get() string {
	if Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

// Commit returns the short commit hash, or "unknown".
func Commit() string {
	if GitCommit != "" {
		return GitCommit
	}
	if v := buildSetting("vcs.revision"); v != "" {
		if len(v) > 7 {
			return v[:7]
		}
		return v
	}
	return "unknown"
}

// Date returns the build or commit time, or "unknown".
func Date() string {
	if BuildTime != "" {
		return BuildTime
	}
	if v := buildSetting("vcs.time"); v != "" {
		return v
	}
	return "unknown"
}

func buildSetting(key string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}
