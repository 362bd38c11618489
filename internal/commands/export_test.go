package commands

import (
	"runtime/debug"
	"time"
)

// SetNow replaces the list clock and returns a function restoring it.
func SetNow(f func() time.Time) (restore func()) {
	prev := now
	now = f
	return func() { now = prev }
}

// SetBuildInfo replaces the build info reader used by version.
func SetBuildInfo(info *debug.BuildInfo) (restore func()) {
	prev := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return info, info != nil }
	return func() { readBuildInfo = prev }
}
