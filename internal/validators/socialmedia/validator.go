// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package socialmedia

import (
	"strings"

	"cv-sanitizer/internal/detector"
	"cv-sanitizer/internal/observability"
	"cv-sanitizer/internal/patterns"
)

// BaseConfidence is the starting score of every profile match.
const BaseConfidence = 0.7

// Validator implements detector.Detector for social profiles and personal
// websites. LinkedIn profiles are reported as linkedin, personal sites as
// website, and every other platform as social_media; the platform is kept in
// the match metadata.
type Validator struct {
	rules []patterns.SocialRule

	// Observability
	observer *observability.StandardObserver
}

// NewValidator creates a social media validator over lib.
func NewValidator(lib *patterns.Library) *Validator {
	return &Validator{rules: lib.Social}
}

// SetObserver sets the observability component
func (v *Validator) SetObserver(observer *observability.StandardObserver) {
	v.observer = observer
}

func (v *Validator) Name() string { return "social_media" }

func (v *Validator) Category() detector.Category { return detector.CategorySocialMedia }

// Detect returns the profile references in text.
func (v *Validator) Detect(text, _ string) []detector.Match {
	finishTiming := v.observer.StartTiming("social_media_validator", "detect", "")

	var matches []detector.Match
	for _, r := range v.rules {
		for _, s := range r.FindAll(text) {
			profile := text[s.Start:s.End]
			m := detector.NewMatch(text, CategoryFor(r.Platform), s.Start, s.End, CalculateConfidence(profile, r.Platform))
			m.Metadata = map[string]any{"platform": r.Platform}
			if h := Handle(profile); h != "" && r.Platform != "website" {
				m.Metadata["handle"] = h
			}
			matches = append(matches, m)
		}
	}
	matches = detector.DedupeOverlapping(matches, func(m detector.Match) string {
		return strings.ToLower(m.Text)
	})

	finishTiming(true, map[string]interface{}{"match_count": len(matches)})
	return matches
}

// CategoryFor maps a platform name to the category its matches are reported
// under.
func CategoryFor(platform string) detector.Category {
	switch platform {
	case "linkedin":
		return detector.CategoryLinkedIn
	case "website":
		return detector.CategoryWebsite
	default:
		return detector.CategorySocialMedia
	}
}

// Handle extracts the user name from a profile URL or @handle.
func Handle(profile string) string {
	p := strings.TrimRight(profile, "/")
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		p = p[i+1:]
	} else if !strings.HasPrefix(p, "@") {
		return ""
	}
	if strings.ContainsAny(p, "?=") {
		return ""
	}
	return strings.TrimPrefix(p, "@")
}

// CalculateConfidence scores a profile for its platform.
func CalculateConfidence(profile, platform string) float64 {
	confidence := BaseConfidence
	lower := strings.ToLower(profile)

	switch platform {
	case "linkedin":
		if strings.Contains(lower, "/in/") {
			confidence += 0.2
		} else if strings.Contains(lower, "/company/") {
			confidence += 0.1
		}
	case "twitter":
		if n := len(Handle(profile)); n >= 1 && n <= 15 {
			confidence += 0.2
		}
	case "github":
		if n := len(Handle(profile)); n >= 1 && n <= 39 {
			confidence += 0.2
		}
	}

	if strings.HasPrefix(lower, "https://") {
		confidence += 0.1
	}
	return min(confidence, 0.95)
}
