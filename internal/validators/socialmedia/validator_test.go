// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package socialmedia

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-sanitizer/internal/detector"
	"cv-sanitizer/internal/patterns"
)

func TestDetectPlatforms(t *testing.T) {
	v := NewValidator(patterns.Default())
	tests := []struct {
		name     string
		text     string
		want     string
		category detector.Category
		platform string
	}{
		{"linkedin", "See https://www.linkedin.com/in/jane-doe for more", "https://www.linkedin.com/in/jane-doe", detector.CategoryLinkedIn, "linkedin"},
		{"github", "Code: github.com/janedoe", "github.com/janedoe", detector.CategorySocialMedia, "github"},
		{"x", "https://x.com/jane_doe", "https://x.com/jane_doe", detector.CategorySocialMedia, "twitter"},
		{"twitter label", "Twitter: @jane_doe", "@jane_doe", detector.CategorySocialMedia, "twitter"},
		{"tiktok", "tiktok.com/@jane.doe", "tiktok.com/@jane.doe", detector.CategorySocialMedia, "tiktok"},
		{"portfolio", "Portfolio: https://janedoe.net.", "https://janedoe.net", detector.CategoryWebsite, "website"},
		{"personal domain", "Blog at janedoe.dev today", "janedoe.dev", detector.CategoryWebsite, "website"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := v.Detect(tt.text, "GB")
			require.Len(t, matches, 1)
			m := matches[0]
			assert.Equal(t, tt.want, m.Text)
			assert.Equal(t, tt.text[m.Start:m.End], m.Text)
			assert.Equal(t, tt.category, m.Category)
			assert.Equal(t, tt.platform, m.Metadata["platform"])
		})
	}
}

func TestDetectIgnoresEmailDomains(t *testing.T) {
	v := NewValidator(patterns.Default())
	assert.Empty(t, v.Detect("jane@janedoe.dev", "GB"))
	assert.Empty(t, v.Detect("mail jane@example.com now", "GB"))
}

func TestCalculateConfidence(t *testing.T) {
	tests := []struct {
		profile  string
		platform string
		want     float64
	}{
		{"https://www.linkedin.com/in/jane-doe", "linkedin", 0.95},
		{"linkedin.com/in/jane-doe", "linkedin", 0.9},
		{"linkedin.com/company/acme", "linkedin", 0.8},
		{"@jane_doe", "twitter", 0.9},
		{"https://github.com/janedoe", "github", 0.95},
		{"facebook.com/jane.doe", "facebook", 0.7},
	}
	for _, tt := range tests {
		t.Run(tt.profile, func(t *testing.T) {
			assert.InDelta(t, tt.want, CalculateConfidence(tt.profile, tt.platform), 1e-9)
		})
	}
}

func TestHandle(t *testing.T) {
	assert.Equal(t, "janedoe", Handle("https://github.com/janedoe/"))
	assert.Equal(t, "jane_doe", Handle("@jane_doe"))
	assert.Equal(t, "", Handle("linkedin.com/profile/view?id=42"))
	assert.Equal(t, "", Handle("janedoe"))
}
