// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-sanitizer/internal/config"
	"cv-sanitizer/internal/review"
	"cv-sanitizer/internal/version"
)

const sampleCV = "Jane Doe\nEmail: jane.doe@example.com\nMobile: 07700 900123\n\nSenior engineer with ten years of experience.\n"

type testEnv struct {
	dir    string
	config string
	cv     string
	out    string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("CVSANITIZER_CONFIG_DIR", dir)
	t.Setenv("CVSANITIZER_DATABASE_URL", "")

	env := testEnv{
		dir:    dir,
		config: filepath.Join(dir, "cvsanitizer.yaml"),
		cv:     filepath.Join(dir, "cv.txt"),
		out:    filepath.Join(dir, "out"),
	}
	yaml := "defaults:\n  locale: GB\n  no_color: true\nstore:\n  driver: file\n  file_dir: " + filepath.Join(dir, "sessions") + "\n"
	require.NoError(t, os.WriteFile(env.config, []byte(yaml), 0o600))
	require.NoError(t, os.WriteFile(env.cv, []byte(sampleCV), 0o600))
	return env
}

func (e testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", e.config}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestDetectJSON(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "detect", "--format", "json", "--show-match", env.cv)
	require.NoError(t, err)

	var report struct {
		Documents []struct {
			Locale  string `json:"country_code"`
			Results []struct {
				Category string `json:"category"`
				Text     string `json:"text"`
			} `json:"results"`
		} `json:"documents"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Documents, 1)
	assert.Equal(t, "GB", report.Documents[0].Locale)

	found := map[string]string{}
	for _, r := range report.Documents[0].Results {
		found[r.Category] = r.Text
	}
	assert.Equal(t, "jane.doe@example.com", found["email"])
	assert.Contains(t, found, "phone")
}

func TestDetectChecksFilter(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "--checks", "email", "detect", "--format", "json", env.cv)
	require.NoError(t, err)
	assert.Contains(t, out, `"category": "email"`)
	assert.NotContains(t, out, `"category": "phone"`)
	assert.NotContains(t, out, "jane.doe@example.com")
}

func TestDetectErrors(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "detect", "--format", "xml", env.cv)
	assert.ErrorContains(t, err, "unsupported format")

	_, err = env.run(t, "detect", "--confidence", "extreme", env.cv)
	assert.ErrorContains(t, err, "invalid confidence level")

	_, err = env.run(t, "detect", filepath.Join(env.dir, "missing.txt"))
	assert.Error(t, err)

	_, err = env.run(t, "--profile", "nope", "detect", env.cv)
	assert.ErrorIs(t, err, config.ErrUnknownProfile)
}

func TestPreviewJSON(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "preview", "--format", "json", env.cv)
	require.NoError(t, err)

	var preview struct {
		TotalItems         int    `json:"total_items"`
		TextWithHighlights string `json:"text_with_highlights"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &preview))
	assert.Positive(t, preview.TotalItems)
	assert.Contains(t, preview.TextWithHighlights, "[EMAIL]jane.doe@example.com[/EMAIL]")
}

func TestRedactRestoreRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "redact", "--yes", "--user", "alice", "-o", env.out, env.cv)
	require.NoError(t, err)
	assert.Contains(t, out, "Redaction Summary")
	assert.Contains(t, out, "Final Summary")

	redactedPath := filepath.Join(env.out, "cv_redacted.json")
	redacted, err := os.ReadFile(redactedPath)
	require.NoError(t, err)
	assert.NotContains(t, string(redacted), "jane.doe@example.com")
	assert.FileExists(t, filepath.Join(env.out, "cv.pii.json"))

	restoredPath := filepath.Join(env.dir, "restored.txt")
	_, err = env.run(t, "restore", "-o", restoredPath, redactedPath)
	require.NoError(t, err)
	restored, err := os.ReadFile(restoredPath)
	require.NoError(t, err)
	assert.Contains(t, string(restored), "Email: jane.doe@example.com")
	assert.Contains(t, string(restored), "Mobile: 07700 900123")

	out, err = env.run(t, "sessions", "list", "--user", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "completed")
	assert.Contains(t, out, env.cv)

	out, err = env.run(t, "audit", "--from", "2000-01-01")
	require.NoError(t, err)
	var report struct {
		Total     int      `json:"total_sessions"`
		Completed int      `json:"completed_sessions"`
		Users     []string `json:"unique_users"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 1, report.Total)
	assert.Equal(t, 1, report.Completed)
	assert.Equal(t, []string{"alice"}, report.Users)
}

func TestRedactRequiresTerminal(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "redact", "-o", env.out, env.cv)
	require.Error(t, err)
	assert.True(t, errors.Is(err, review.ErrNotTerminal))
	assert.Contains(t, err.Error(), "--yes")
	assert.NoFileExists(t, filepath.Join(env.out, "cv_redacted.json"))
}

func TestBatch(t *testing.T) {
	env := newTestEnv(t)
	in := filepath.Join(env.dir, "cvs")
	require.NoError(t, os.MkdirAll(filepath.Join(in, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(in, "a.txt"), []byte(sampleCV), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(in, "nested", "b.txt"), []byte(sampleCV), 0o600))

	out, err := env.run(t, "batch", "-o", env.out, in)
	require.NoError(t, err)
	assert.Contains(t, out, "Processed 1 files")
	assert.FileExists(t, filepath.Join(env.out, "a_redacted.json"))
	assert.NoFileExists(t, filepath.Join(env.out, "b_redacted.json"))

	out, err = env.run(t, "batch", "-r", "-o", env.out, in)
	require.NoError(t, err)
	assert.Contains(t, out, "Processed 2 files")
	assert.FileExists(t, filepath.Join(env.out, "b_redacted.json"))

	_, err = env.run(t, "batch", filepath.Join(env.dir, "empty-*.txt"))
	assert.ErrorContains(t, err, "no files match pattern")
}

func TestChecksAndVersion(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "checks")
	require.NoError(t, err)
	assert.Contains(t, out, "Available checks")

	_, err = env.run(t, "checks", "no-such-check")
	assert.ErrorContains(t, err, "unknown check")

	out, err = env.run(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, version.Short()+"\n", out)

	out, err = env.run(t, "version", "--json")
	require.NoError(t, err)
	var info version.BuildInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, version.Short(), info.Version)
	assert.NotEmpty(t, info.GoVersion)
}

func TestDefaultMappingPath(t *testing.T) {
	tests := map[string]string{
		filepath.Join("out", "cv_redacted.json"): filepath.Join("out", "cv.pii.json"),
		"cv.txt":                                  "cv.pii.json",
	}
	for in, want := range tests {
		assert.Equal(t, want, defaultMappingPath(in), in)
	}
}

func TestParseTimeFlag(t *testing.T) {
	tm, err := parseTimeFlag("from", "")
	require.NoError(t, err)
	assert.True(t, tm.IsZero())

	tm, err = parseTimeFlag("from", "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, 2024, tm.Year())

	tm, err = parseTimeFlag("to", "2024-03-01T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 10, tm.Hour())

	_, err = parseTimeFlag("to", "yesterday")
	assert.True(t, err != nil && strings.Contains(err.Error(), "--to"))
}

func TestIgnoreList(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "ignore", "add", "--category", "email", "--reason", "shared inbox", "jane.doe@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "SUP-00000001")
	assert.FileExists(t, filepath.Join(env.dir, "suppressions.yaml"))

	out, err = env.run(t, "ignore", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "shared inbox")
	assert.NotContains(t, out, "jane.doe@example.com")

	out, err = env.run(t, "detect", "--format", "json", "--show-match", env.cv)
	require.NoError(t, err)
	assert.NotContains(t, out, "jane.doe@example.com")

	out, err = env.run(t, "--no-suppressions", "detect", "--format", "json", "--show-match", env.cv)
	require.NoError(t, err)
	assert.Contains(t, out, "jane.doe@example.com")

	_, err = env.run(t, "ignore", "disable", "SUP-00000001")
	require.NoError(t, err)
	out, err = env.run(t, "detect", "--format", "json", "--show-match", env.cv)
	require.NoError(t, err)
	assert.Contains(t, out, "jane.doe@example.com")

	_, err = env.run(t, "ignore", "remove", "SUP-00000001")
	require.NoError(t, err)
	_, err = env.run(t, "ignore", "remove", "SUP-00000001")
	assert.Error(t, err)
}
