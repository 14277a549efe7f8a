package buildconfig

import (
	"runtime/debug"
	"sync"
)

// Set with -ldflags "-X github.com/Harshitk-cp/menugate/internal/buildconfig.version=..."
var (
	version   = "dev"
	commit    = ""
	buildTime = ""
)

var vcsOnce sync.Once

// fillFromVCS uses the revision stamped by the go tool when ldflags left
// commit or buildTime empty.
func fillFromVCS() {
	vcsOnce.Do(func() {
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if commit == "" {
					commit = s.Value
				}
			case "vcs.time":
				if buildTime == "" {
					buildTime = s.Value
				}
			}
		}
	})
}

func Version() string {
	return version
}

func Commit() string {
	fillFromVCS()
	if commit == "" {
		return "unknown"
	}
	return commit
}

func BuildTime() string {
	fillFromVCS()
	if buildTime == "" {
		return "unknown"
	}
	return buildTime
}

// VersionInfo is served on /health. The map is fresh on every call.
func VersionInfo() map[string]string {
	return map[string]string{
		"service":    "menugate",
		"version":    Version(),
		"commit":     Commit(),
		"build_time": BuildTime(),
	}
}
