package utils

import (
	"runtime/debug"
	"strings"
)

const (
	unknownVersion    = "unknown"
	develBuildVersion = "(devel)"
)

// ReleaseVersion is stamped at link time with -ldflags "-X ...utils.ReleaseVersion=v1.2.3".
var ReleaseVersion = ""

// GetApplicationVersion reports the stamped release version, falling back to the
// module version recorded by go install. The working directory is never consulted
// since it belongs to the tree being printed, not to ptree.
func GetApplicationVersion() string {
	if trimmedRelease := strings.TrimSpace(ReleaseVersion); trimmedRelease != "" {
		return trimmedRelease
	}
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != "" && buildInfo.Main.Version != develBuildVersion {
		return buildInfo.Main.Version
	}
	return unknownVersion
}
