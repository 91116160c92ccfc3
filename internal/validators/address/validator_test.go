// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package address

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-sanitizer/internal/detector"
	"cv-sanitizer/internal/patterns"
)

func TestDetectNumberedStreet(t *testing.T) {
	v := NewValidator(patterns.Default())
	text := "12 Baker Street, NW1 6XE"

	matches := v.Detect(text, "GB")
	require.Len(t, matches, 1)
	assert.Equal(t, detector.CategoryAddress, matches[0].Category)
	assert.Equal(t, "12 Baker Street", matches[0].Text)
	assert.Equal(t, 0, matches[0].Start)
	assert.Equal(t, 15, matches[0].End)
	assert.InDelta(t, StreetConfidence, matches[0].Confidence, 1e-9)
}

func TestDetectLabelledAddressUnionsEvidence(t *testing.T) {
	v := NewValidator(patterns.Default())
	text := "Address: 10 Downing Street, London SW1A 2AA\n\nExperience"

	matches := v.Detect(text, "GB")
	require.Len(t, matches, 1)
	assert.Equal(t, "10 Downing Street, London SW1A 2AA", matches[0].Text)
	assert.Equal(t, text[matches[0].Start:matches[0].End], matches[0].Text)
}

func TestDetectHungarianAddress(t *testing.T) {
	v := NewValidator(patterns.Default())

	matches := v.Detect("Kossuth utca 12, 1051 Budapest", "HU")
	require.Len(t, matches, 1)
	assert.Equal(t, "Kossuth utca 12, 1051 Budapest", matches[0].Text)
	assert.InDelta(t, StructuralConfidence, matches[0].Confidence, 1e-9)

	text := "Kossuth utca 12\n1051 Budapest"
	matches = v.Detect(text, "HU")
	require.Len(t, matches, 1)
	assert.Equal(t, text, matches[0].Text)
	assert.Equal(t, "Kossuth utca 12 1051 Budapest", matches[0].Metadata["normalized"])
}

func TestDetectNothing(t *testing.T) {
	v := NewValidator(patterns.Default())
	assert.Empty(t, v.Detect("Senior engineer with 10 years of Go experience.", "GB"))
}

func TestIsLikelyAddress(t *testing.T) {
	v := NewValidator(patterns.Default())
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"street keyword", "12 Baker Street", true},
		{"postal code", "Flat 3, 1051 Budapest", true},
		{"german", "Berliner Str. 5", true},
		{"no number", "Baker Street", false},
		{"reject keyword", "Senior Developer 12 Baker Street", false},
		{"number only", "Unit 5 Acme", false},
		{"too long", "12 Baker Street " + strings.Repeat("x", 150), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.IsLikelyAddress(tt.text))
		})
	}
}
