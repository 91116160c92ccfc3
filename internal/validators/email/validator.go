// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package email

import (
	"regexp"
	"strings"

	"cv-sanitizer/internal/detector"
	"cv-sanitizer/internal/observability"
	"cv-sanitizer/internal/patterns"
)

var firstLastLocal = regexp.MustCompile(`^[^.]+(?:\.[^.]+)+$`)

// Validator implements detector.Detector for email addresses.
type Validator struct {
	rules     []patterns.Rule
	providers []string

	// Observability
	observer *observability.StandardObserver
}

// NewValidator creates an email validator over the library's email rules.
func NewValidator(lib *patterns.Library) *Validator {
	return &Validator{
		rules:     lib.Email,
		providers: lib.EmailProviders,
	}
}

// SetObserver sets the observability component
func (v *Validator) SetObserver(observer *observability.StandardObserver) {
	v.observer = observer
}

func (v *Validator) Name() string { return "email" }

func (v *Validator) Category() detector.Category { return detector.CategoryEmail }

// Detect returns every email address in text. Overlapping hits of the same
// address from different rules collapse into one.
func (v *Validator) Detect(text, _ string) []detector.Match {
	finishTiming := v.observer.StartTiming("email_validator", "detect", "")

	var matches []detector.Match
	for _, r := range v.rules {
		for _, s := range r.FindAll(text) {
			m := detector.NewMatch(text, detector.CategoryEmail, s.Start, s.End, 0)
			m.Confidence = v.CalculateConfidence(m.Text)
			parts := v.AnalyzeEmailStructure(m.Text)
			m.Metadata = map[string]any{
				"domain":   parts["domain"],
				"provider": parts["provider"],
				"pattern":  r.Name,
			}
			matches = append(matches, m)
		}
	}

	matches = detector.DedupeOverlapping(matches, func(m detector.Match) string {
		local, _, _ := strings.Cut(strings.ToLower(m.Text), "@")
		return local
	})

	finishTiming(true, map[string]interface{}{"match_count": len(matches)})
	return matches
}

// CalculateConfidence scores an address: 0.5 base, +0.2 for a consumer
// provider, +0.2 for a dotted local part, +0.1 for a multi-label domain.
func (v *Validator) CalculateConfidence(addr string) float64 {
	confidence := 0.5
	lower := strings.ToLower(addr)
	local, domain, _ := strings.Cut(lower, "@")

	for _, p := range v.providers {
		if strings.Contains(lower, p) {
			confidence += 0.2
			break
		}
	}
	if firstLastLocal.MatchString(local) {
		confidence += 0.2
	}
	if strings.Count(domain, ".") >= 1 {
		confidence += 0.1
	}
	return min(confidence, 0.95)
}

// AnalyzeEmailStructure splits an address into its parts.
func (v *Validator) AnalyzeEmailStructure(addr string) map[string]string {
	local, domain, _ := strings.Cut(addr, "@")
	parts := map[string]string{
		"username": local,
		"domain":   strings.ToLower(domain),
		"provider": "other",
	}
	if i := strings.LastIndex(domain, "."); i >= 0 {
		parts["tld"] = strings.ToLower(domain[i+1:])
	}
	lower := strings.ToLower(domain)
	for _, p := range v.providers {
		if strings.HasPrefix(lower, p+".") {
			parts["provider"] = p
			break
		}
	}
	return parts
}
