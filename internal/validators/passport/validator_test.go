// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package passport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-sanitizer/internal/patterns"
)

func TestDetect(t *testing.T) {
	v := NewValidator(patterns.Default())
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"letters digits", "No. AB1234567 issued", []string{"AB1234567"}},
		{"eu", "C1234567D", []string{"C1234567D"}},
		{"digits letter", "12345678A", []string{"12345678A"}},
		{"too long", "AB123456789", nil},
		{"lowercase", "ab1234567", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, m := range v.Detect(tt.text, "GB") {
				assert.Equal(t, tt.text[m.Start:m.End], m.Text)
				assert.InDelta(t, Confidence, m.Confidence, 1e-9)
				got = append(got, m.Text)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFlagsLabelledNumbers(t *testing.T) {
	v := NewValidator(patterns.Default())
	matches := v.Detect("Passport number: AB1234567", "")
	require.Len(t, matches, 1)
	assert.Equal(t, true, matches[0].Metadata["labelled"])

	matches = v.Detect("Ref AB1234567", "")
	require.Len(t, matches, 1)
	assert.Nil(t, matches[0].Metadata["labelled"])
}

func TestIsLikelyPassport(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"AB123456", true},
		{"123456789", false},
		{"ABCDEFGHI", false},
		{"A1234", false},
		{"AB12345678", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsLikelyPassport(tt.in))
		})
	}
}
