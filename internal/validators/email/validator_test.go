// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-sanitizer/internal/detector"
	"cv-sanitizer/internal/patterns"
)

func TestDetectSingleAddress(t *testing.T) {
	v := NewValidator(patterns.Default())
	text := "Contact: jane.doe@example.com"

	matches := v.Detect(text, "GB")
	require.Len(t, matches, 1)

	m := matches[0]
	assert.Equal(t, detector.CategoryEmail, m.Category)
	assert.Equal(t, "jane.doe@example.com", m.Text)
	assert.Equal(t, 9, m.Start)
	assert.Equal(t, 29, m.End)
	assert.Equal(t, text[m.Start:m.End], m.Text)
	assert.InDelta(t, 0.8, m.Confidence, 1e-9)
	assert.Equal(t, "example.com", m.Metadata["domain"])
}

func TestDetectRepeatedAddress(t *testing.T) {
	v := NewValidator(patterns.Default())
	text := "a@b.io and again a@b.io"

	matches := v.Detect(text, "")
	require.Len(t, matches, 2)
	assert.Equal(t, 0, matches[0].Start)
	assert.Equal(t, 17, matches[1].Start)
}

func TestCalculateConfidence(t *testing.T) {
	v := NewValidator(patterns.Default())
	tests := []struct {
		addr string
		want float64
	}{
		{"jane.doe@gmail.com", 0.95},
		{"jdoe@gmail.com", 0.8},
		{"jane.doe@example.com", 0.8},
		{"jdoe@example.com", 0.6},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			assert.InDelta(t, tt.want, v.CalculateConfidence(tt.addr), 1e-9)
		})
	}
}

func TestAnalyzeEmailStructure(t *testing.T) {
	v := NewValidator(patterns.Default())
	parts := v.AnalyzeEmailStructure("Jane@Outlook.com")
	assert.Equal(t, "Jane", parts["username"])
	assert.Equal(t, "outlook.com", parts["domain"])
	assert.Equal(t, "com", parts["tld"])
	assert.Equal(t, "outlook", parts["provider"])
}

func TestDetectNoAddress(t *testing.T) {
	v := NewValidator(patterns.Default())
	assert.Empty(t, v.Detect("no contact details here @ all", "GB"))
}
