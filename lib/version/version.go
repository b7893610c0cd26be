// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// These variables are set via -ldflags at build time, for example:
//
//	go build -ldflags "-X github.com/arta-lang/arta/lib/version.GitCommit=$(git rev-parse --short HEAD)"
var (
	// GitCommit is the short git SHA of the build.
	GitCommit = "unknown"

	// GitDirty indicates whether there were uncommitted changes.
	GitDirty = "false"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"

	// Version is the semantic version. This is set manually for releases.
	Version = "0.1.0-dev"
)

// Language is the revision of the Arta language this binary accepts.
const Language = "1"

// Build is a resolved view of the build stamps.
type Build struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Dirty     bool   `json:"dirty"`
	BuildTime string `json:"build_time"`
	Language  string `json:"language"`
	Go        string `json:"go"`
	Platform  string `json:"platform"`
}

// Read resolves the build stamps, falling back to the toolchain's VCS
// settings for anything -ldflags did not set.
func Read() Build {
	build := Build{
		Version:   Version,
		Commit:    GitCommit,
		Dirty:     GitDirty == "true",
		BuildTime: BuildTime,
		Language:  Language,
		Go:        runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		build.fill(info.Settings)
	}
	return build
}

func (b *Build) fill(settings []debug.BuildSetting) {
	for _, setting := range settings {
		switch setting.Key {
		case "vcs.revision":
			if b.Commit == "unknown" && setting.Value != "" {
				b.Commit = setting.Value
				if len(b.Commit) > 7 {
					b.Commit = b.Commit[:7]
				}
			}
		case "vcs.time":
			if b.BuildTime == "unknown" && setting.Value != "" {
				b.BuildTime = setting.Value
			}
		case "vcs.modified":
			if GitDirty == "false" && setting.Value == "true" {
				b.Dirty = true
			}
		}
	}
}

// Info returns a formatted version string suitable for --version output.
func Info() string {
	return Read().Info()
}

// Info formats b as "version (commit[-dirty], time)".
func (b Build) Info() string {
	dirty := ""
	if b.Dirty {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", b.Version, b.Commit, dirty, b.BuildTime)
}

// Full returns detailed version information including Go version.
func Full() string {
	b := Read()
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s\n  Language: %s",
		b.Info(), b.Go, b.Platform, b.Language)
}

// Short returns just the version number.
func Short() string {
	return Version
}
