// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"strings"
	"testing"

	"cv-sanitizer/internal/detector"
	"cv-sanitizer/internal/formatters"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cv = "Jane Smith\nEmail: jane@example.com\n"

func report() formatters.Report {
	start := strings.Index(cv, "jane@")
	return formatters.NewReport("cv.txt", "text", "GB", cv, []detector.Match{
		detector.NewMatch(cv, detector.CategoryEmail, start, start+len("jane@example.com"), 0.95),
	})
}

func TestFormatTable(t *testing.T) {
	out, err := NewFormatter().Format([]formatters.Report{report()}, formatters.FormatterOptions{NoColor: true, ShowMatch: true})
	require.NoError(t, err)

	assert.Contains(t, out, "== cv.txt (GB) ==")
	assert.Contains(t, out, "[HIGH  ]")
	assert.Contains(t, out, "jane@example.com")
	assert.Contains(t, out, "Total: 1 (high 1, medium 0, low 0)")
	assert.Contains(t, out, "By category: email=1")
	assert.NotContains(t, out, "\x1b[")
}

func TestFormatRedacted(t *testing.T) {
	out, err := NewFormatter().Format([]formatters.Report{report()}, formatters.FormatterOptions{NoColor: true})
	require.NoError(t, err)
	assert.NotContains(t, out, "jane@example.com")
	assert.Contains(t, out, "[REDACTED]")
}

func TestFormatVerbose(t *testing.T) {
	out, err := NewFormatter().Format([]formatters.Report{report()}, formatters.FormatterOptions{NoColor: true, ShowMatch: true, Verbose: true})
	require.NoError(t, err)
	assert.Contains(t, out, "line: Email: jane@example.com")
}

func TestFormatNoMatches(t *testing.T) {
	out, err := NewFormatter().Format([]formatters.Report{formatters.NewReport("cv.txt", "text", "GB", "hello", nil)}, formatters.FormatterOptions{NoColor: true})
	require.NoError(t, err)
	assert.Contains(t, out, "No PII found.")

	out, err = NewFormatter().Format([]formatters.Report{report()}, formatters.FormatterOptions{NoColor: true, ConfidenceLevel: map[string]bool{"low": true}})
	require.NoError(t, err)
	assert.Contains(t, out, "No matches found at the specified confidence levels.")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
