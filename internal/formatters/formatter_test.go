// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters

import (
	"testing"

	"cv-sanitizer/internal/detector"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFormatter struct{ name string }

func (s stubFormatter) Format(reports []Report, _ FormatterOptions) (string, error) {
	return s.name, nil
}
func (s stubFormatter) Name() string          { return s.name }
func (s stubFormatter) Description() string   { return "stub" }
func (s stubFormatter) FileExtension() string { return ".stub" }

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register(stubFormatter{"b"})
	r.Register(stubFormatter{"a"})

	assert.Equal(t, []string{"a", "b"}, r.List())
	f, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a", f.Name())
	_, ok = r.Get("c")
	assert.False(t, ok)
}

func TestExportUnknownFormat(t *testing.T) {
	_, err := Export("no-such-format", nil, FormatterOptions{})
	assert.ErrorContains(t, err, "unsupported format")
}

func TestNewReportSummary(t *testing.T) {
	text := "jane@example.com"
	r := NewReport("cv.txt", "text", "GB", text, []detector.Match{
		detector.NewMatch(text, detector.CategoryEmail, 0, len(text), 0.95),
	})
	assert.Equal(t, 1, r.Summary.Total)
	assert.Equal(t, 1, r.Summary.ByCategory["email"])
	assert.Equal(t, 1, r.Summary.ConfidenceDistribution.High)

	empty := NewReport("cv.txt", "text", "GB", "", nil)
	assert.NotNil(t, empty.Matches)
}

func TestParseConfidenceLevels(t *testing.T) {
	levels, err := ParseConfidenceLevels("")
	require.NoError(t, err)
	assert.Nil(t, levels)

	levels, err = ParseConfidenceLevels("all")
	require.NoError(t, err)
	assert.Nil(t, levels)

	levels, err = ParseConfidenceLevels("High, medium")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"high": true, "medium": true}, levels)

	_, err = ParseConfidenceLevels("high,extreme")
	assert.Error(t, err)
}

func TestFilterMatchesByConfidence(t *testing.T) {
	matches := []detector.Match{
		{Confidence: 0.95}, {Confidence: 0.7}, {Confidence: 0.3},
	}
	assert.Len(t, FilterMatchesByConfidence(matches, FormatterOptions{}), 3)

	got := FilterMatchesByConfidence(matches, FormatterOptions{ConfidenceLevel: map[string]bool{"medium": true}})
	require.Len(t, got, 1)
	assert.Equal(t, 0.7, got[0].Confidence)
}
