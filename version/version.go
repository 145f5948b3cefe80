// Package version reports what build of strike is running, for the -v flag
// and log banners.
package version

import "runtime/debug"

// Version is the release tag, set at build time:
//
//	go build -ldflags "-X github.com/strikesynth/strike/version.Version=$(git describe --dirty)"
//
// Development builds leave it empty and fall back to the VCS hash stamped
// into the binary.
var Version string

// Hash is the short VCS revision of the build, suffixed with "-dirty" when
// the working tree had local changes, or "" when no VCS info was stamped.
var Hash = func() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	var revision string
	var modified bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}
	if len(revision) < 7 {
		return ""
	}
	if modified {
		return revision[:7] + "-dirty"
	}
	return revision[:7]
}()

// VersionOrHash is the most specific build identifier available.
var VersionOrHash = func() string {
	if Version != "" {
		return Version
	}
	return Hash
}()
