// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package age

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
		{"english", "Age: 34", []string{"34"}},
		{"english unit", "Age 34 years\n", []string{"34 years"}},
		{"german", "Alter: 41 Jahre", []string{"41 Jahre"}},
		{"suffix", "I am 29 years old.", []string{"29 years old"}},
		{"japanese", "年齢：34歳", []string{"34歳"}},
		{"inside word", "Page 3 of 4, Usage: 10", nil},
		{"implausible", "Age: 999", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, m := range v.Detect(tt.text, "") {
				assert.Equal(t, tt.text[m.Start:m.End], m.Text)
				got = append(got, m.Text)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectRecordsYears(t *testing.T) {
	matches := NewValidator(patterns.Default()).Detect("Edad: 27 años", "ES")
	require.Len(t, matches, 1)
	assert.Equal(t, 27, matches[0].Metadata["years"])
	assert.InDelta(t, Confidence, matches[0].Confidence, 1e-9)
}

func TestLeadingNumber(t *testing.T) {
	assert.Equal(t, 34, leadingNumber("34 years"))
	assert.Equal(t, 7, leadingNumber("age 7"))
	assert.Equal(t, -1, leadingNumber("years"))
}
