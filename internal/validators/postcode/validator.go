// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package postcode

import (
	"strings"

	"cv-sanitizer/internal/detector"
	"cv-sanitizer/internal/observability"
	"cv-sanitizer/internal/patterns"
)

// Confidence is assigned to every postal code match.
const Confidence = 0.7

// Validator implements detector.Detector for postal codes of the requested
// locale.
type Validator struct {
	lib      *patterns.Library
	observer *observability.StandardObserver
}

// NewValidator creates a postcode validator over lib.
func NewValidator(lib *patterns.Library) *Validator {
	return &Validator{lib: lib}
}

// SetObserver sets the observability component
func (v *Validator) SetObserver(observer *observability.StandardObserver) {
	v.observer = observer
}

func (v *Validator) Name() string { return "postcode" }

func (v *Validator) Category() detector.Category { return detector.CategoryPostcode }

// Detect returns the postal codes in text. Locales without postcode rules
// yield nothing.
func (v *Validator) Detect(text, locale string) []detector.Match {
	finishTiming := v.observer.StartTiming("postcode_validator", "detect", "")
	locale = detector.NormalizeLocale(locale)

	var matches []detector.Match
	for _, r := range v.lib.Postcode(locale) {
		for _, s := range r.FindAll(text) {
			m := detector.NewMatch(text, detector.CategoryPostcode, s.Start, s.End, Confidence)
			m.Locale = locale
			m.Metadata = map[string]any{"normalized": Normalize(m.Text)}
			matches = append(matches, m)
		}
	}
	matches = detector.DedupeOverlapping(matches, func(m detector.Match) string {
		return Normalize(m.Text)
	})

	finishTiming(true, map[string]interface{}{"match_count": len(matches), "locale": locale})
	return matches
}

// Normalize upper-cases a postcode and removes its spaces.
func Normalize(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), ""))
}
