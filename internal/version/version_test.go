// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveWithoutBuildInfo(t *testing.T) {
	info := resolve(nil, false)
	assert.Equal(t, Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
	assert.Empty(t, info.Libraries)
}

func TestResolveReadsVCSAndLibraries(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Path: "cv-sanitizer", Version: "v1.2.0"},
		Deps: []*debug.Module{
			{Path: "github.com/nyaruka/phonenumbers", Version: "v1.7.1"},
			{Path: "github.com/pdfcpu/pdfcpu", Version: "v0.11.0", Replace: &debug.Module{Path: "../pdfcpu", Version: "v0.11.1-local"}},
			{Path: "go.uber.org/zap", Version: "v1.27.1"},
		},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef0123"},
			{Key: "vcs.time", Value: "2025-05-01T10:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	info := resolve(bi, true)
	assert.Equal(t, "v1.2.0", info.Version)
	assert.Equal(t, "0123456789abcdef0123", info.Commit)
	assert.Equal(t, "2025-05-01T10:00:00Z", info.BuildDate)
	assert.True(t, info.Modified)
	assert.Equal(t, map[string]string{
		"github.com/nyaruka/phonenumbers": "v1.7.1",
		"github.com/pdfcpu/pdfcpu":        "v0.11.1-local",
	}, info.Libraries)
}

func TestResolvePrefersLinkerValues(t *testing.T) {
	defer func(v, c string) { Version, GitCommit = v, c }(Version, GitCommit)
	Version, GitCommit = "2.0.0", "release"

	bi := &debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc"}},
	}
	info := resolve(bi, true)
	assert.Equal(t, "2.0.0", info.Version)
	assert.Equal(t, "release", info.Commit)
}

func TestDevelBuildKeepsDevVersion(t *testing.T) {
	info := resolve(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, true)
	assert.Equal(t, Version, info.Version)
}

func TestInfo(t *testing.T) {
	assert.Contains(t, Info(), "cvsanitize "+Short())
	assert.Contains(t, Info(), "platform: "+Get().Platform)
}
