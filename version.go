package main

import (
	"fmt"
	"runtime/debug"
	"strconv"
)

var (
	gitSHA1   string = "unknown"
	gitDirty  string = "unknown"
	buildID   string = "unknown"
	buildDate string = "unknown"
)

// Version reports the module version plus git commit and working tree
// status when they were stamped in with -ldflags.
func Version() string {
	version := "(devel)"
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		version = info.Main.Version
	}

	// Add git commit and working tree status when available
	if sha1Int, err := strconv.ParseInt(gitSHA1, 16, 64); err == nil && sha1Int != 0 {
		version = fmt.Sprintf("%s (git:%s", version, gitSHA1)
		if dirtyInt, err := strconv.ParseInt(gitDirty, 10, 64); err == nil && dirtyInt != 0 {
			version = fmt.Sprintf("%s-dirty", version)
		}
		version = fmt.Sprintf("%s)", version)
	}
	if buildID != "unknown" {
		version = fmt.Sprintf("%s build=%s", version, buildID)
	}
	if buildDate != "unknown" {
		version = fmt.Sprintf("%s date=%s", version, buildDate)
	}
	return version
}
