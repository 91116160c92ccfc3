// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package nationalid

import (
	"cv-sanitizer/internal/detector"
	"cv-sanitizer/internal/observability"
	"cv-sanitizer/internal/patterns"
)

// Confidence is assigned to every national identifier match.
const Confidence = 0.8

// Validator implements detector.Detector for national identity numbers
// (NI number, SSN, Steuer-ID, INSEE, SIN, TFN, codice fiscale, DNI/NIE,
// personnummer).
type Validator struct {
	lib      *patterns.Library
	observer *observability.StandardObserver
}

// NewValidator creates a national identifier validator over lib.
func NewValidator(lib *patterns.Library) *Validator {
	return &Validator{lib: lib}
}

// SetObserver sets the observability component
func (v *Validator) SetObserver(observer *observability.StandardObserver) {
	v.observer = observer
}

func (v *Validator) Name() string { return "national_id" }

func (v *Validator) Category() detector.Category { return detector.CategoryNationalID }

func (v *Validator) Detect(text, locale string) []detector.Match {
	finishTiming := v.observer.StartTiming("national_id_validator", "detect", "")
	locale = detector.NormalizeLocale(locale)

	var matches []detector.Match
	for _, r := range v.lib.NationalID(locale) {
		for _, s := range r.FindAll(text) {
			m := detector.NewMatch(text, detector.CategoryNationalID, s.Start, s.End, Confidence)
			m.Locale = locale
			m.Metadata = map[string]any{"format": r.Name}
			matches = append(matches, m)
		}
	}
	matches = detector.DedupeOverlapping(matches, func(m detector.Match) string { return m.Text })

	finishTiming(true, map[string]interface{}{"match_count": len(matches), "locale": locale})
	return matches
}
