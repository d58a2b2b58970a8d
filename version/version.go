// Package version reports the build version, preferring a value set at
// link time over whatever the VCS stamp says.
package version

import "runtime/debug"

// Set at build time with something like:
// go build -ldflags "-X github.com/stemplay/stemplay/version.Version=$(git describe --dirty)"

var Version string

var hash = func() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	modified := false
	for _, setting := range info.Settings {
		if setting.Key == "vcs.modified" && setting.Value == "true" {
			modified = true
			break
		}
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" {
			short := setting.Value[:7]
			if modified {
				return short + "-dirty"
			}
			return short
		}
	}
	return ""
}()

// String returns the linked-in version, the VCS revision, or "(devel)"
// when neither is available.
func String() string {
	if Version != "" {
		return Version
	}
	if hash != "" {
		return hash
	}
	return "(devel)"
}
