package version

import (
	"runtime/debug"

	"github.com/samcharles93/cybertag/pkg/sig"
	"github.com/samcharles93/cybertag/pkg/ygobin"
)

var (
	// Version is the release version (set via -ldflags).
	Version = ""
	// Commit is the git commit hash (set via -ldflags).
	Commit = ""
	// BuildTime is the build timestamp (set via -ldflags).
	BuildTime = ""
)

type Info struct {
	Version          string `json:"version"`
	Commit           string `json:"commit,omitempty"`
	BuildTime        string `json:"build_time,omitempty"`
	ContainerVersion uint8  `json:"container_version"`
	SignatureVersion uint8  `json:"signature_version"`
}

// Resolve fills in missing ldflags values from the embedded build info.
func Resolve() Info {
	info := Info{
		Version:          Version,
		Commit:           Commit,
		BuildTime:        BuildTime,
		ContainerVersion: ygobin.DataVersion,
		SignatureVersion: sig.Version,
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		if info.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.Commit == "" {
					info.Commit = s.Value
				}
			case "vcs.time":
				if info.BuildTime == "" {
					info.BuildTime = s.Value
				}
			}
		}
	}
	if info.Version == "" {
		info.Version = "dev"
	}
	return info
}

func String() string {
	info := Resolve()
	if info.Commit == "" {
		return info.Version
	}
	return info.Version + " (" + shortCommit(info.Commit) + ")"
}

func shortCommit(commit string) string {
	if len(commit) <= 12 {
		return commit
	}
	return commit[:12]
}
