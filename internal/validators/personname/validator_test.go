// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package personname

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-sanitizer/internal/detector"
	"cv-sanitizer/internal/patterns"
)

func TestDetectHeaderName(t *testing.T) {
	v := NewValidator(patterns.Default())
	text := "Jane Smith\nSoftware Engineer\njane@example.com\n+44 7700 900123"

	matches := v.Detect(text, "GB")
	require.Len(t, matches, 1)
	m := matches[0]
	assert.Equal(t, detector.CategoryName, m.Category)
	assert.Equal(t, "Jane Smith", m.Text)
	assert.Equal(t, 0, m.Start)
	assert.Equal(t, 10, m.End)
	assert.InDelta(t, HeaderConfidence, m.Confidence, 1e-9)
}

func TestDetectLaterHeaderLine(t *testing.T) {
	v := NewValidator(patterns.Default())
	text := "  Curriculum Vitae\n\nKovács Anna\n"

	matches := v.Detect(text, "HU")
	require.Len(t, matches, 1)
	m := matches[0]
	assert.Equal(t, "Kovács Anna", m.Text)
	assert.Equal(t, strings.Index(text, "Kovács"), m.Start)
	assert.Equal(t, text[m.Start:m.End], m.Text)
	assert.InDelta(t, LineConfidence, m.Confidence, 1e-9)
	assert.Equal(t, true, m.Metadata["known_surname"])
	assert.Equal(t, 3, m.Metadata["line"])
}

func TestDetectPrefersLongestCandidate(t *testing.T) {
	v := NewValidator(patterns.Default())

	matches := v.Detect("Dr. Jane Smith", "")
	require.Len(t, matches, 1)
	assert.Equal(t, "Dr. Jane Smith", matches[0].Text)

	matches = v.Detect("JANE DOE", "")
	require.Len(t, matches, 1)
	assert.Equal(t, "JANE DOE", matches[0].Text)
}

func TestDetectOnlyHeaderLines(t *testing.T) {
	v := NewValidator(patterns.Default())
	assert.Empty(t, v.Detect("a\nb\nc\nd\ne\nJane Smith", ""))
}

func TestIsLikelyName(t *testing.T) {
	v := NewValidator(patterns.Default())
	tests := []struct {
		in   string
		want bool
	}{
		{"Jane Smith", true},
		{"Anna Maria van Dijk", true},
		{"Jane", false},
		{"Jane Mary Ann Smith Jones", false},
		{"Jane smith", false},
		{"Curriculum Vitae", false},
		{"Senior Developer", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, v.IsLikelyName(tt.in))
		})
	}
}
