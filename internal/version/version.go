// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package version reports what cvsanitize binary is running. Release builds
// set Version, GitCommit and BuildDate with -ldflags; other builds fall back
// to the module and VCS data the Go toolchain embeds.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

// Set with -ldflags "-X cv-sanitizer/internal/version.Version=...".
var (
	Version   = "dev"
	GitCommit = ""
	BuildDate = ""
)

// detectionLibraries are the modules whose versions change detection or
// extraction results, reported so that an audit can be reproduced.
var detectionLibraries = []string{
	"github.com/nyaruka/phonenumbers",
	"github.com/ledongthuc/pdf",
	"github.com/pdfcpu/pdfcpu",
	"github.com/rwcarlsen/goexif",
}

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string            `json:"version"`
	Commit    string            `json:"commit,omitempty"`
	BuildDate string            `json:"build_date,omitempty"`
	Modified  bool              `json:"modified,omitempty"`
	GoVersion string            `json:"go_version"`
	Platform  string            `json:"platform"`
	Libraries map[string]string `json:"libraries,omitempty"`
}

var (
	once    sync.Once
	current BuildInfo
)

// Get returns the build information, read once per process.
func Get() BuildInfo {
	once.Do(func() {
		current = resolve(debug.ReadBuildInfo())
	})
	return current
}

func resolve(bi *debug.BuildInfo, ok bool) BuildInfo {
	info := BuildInfo{
		Version:   Version,
		Commit:    GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if !ok || bi == nil {
		return info
	}

	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.BuildDate == "" {
				info.BuildDate = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}

	for _, dep := range bi.Deps {
		for _, lib := range detectionLibraries {
			if dep.Path != lib {
				continue
			}
			if info.Libraries == nil {
				info.Libraries = make(map[string]string)
			}
			if dep.Replace != nil {
				info.Libraries[lib] = dep.Replace.Version
			} else {
				info.Libraries[lib] = dep.Version
			}
		}
	}
	return info
}

// Info returns a one line description of the binary.
func Info() string {
	bi := Get()
	commit := bi.Commit
	if commit == "" {
		commit = "unknown"
	} else if len(commit) > 12 {
		commit = commit[:12]
	}
	if bi.Modified {
		commit += "-dirty"
	}
	return fmt.Sprintf("cvsanitize %s (commit: %s, go: %s, platform: %s)", bi.Version, commit, bi.GoVersion, bi.Platform)
}

// Short returns just the version number.
func Short() string {
	return Get().Version
}
