// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package dateofbirth

import (
	"cv-sanitizer/internal/detector"
	"cv-sanitizer/internal/observability"
	"cv-sanitizer/internal/patterns"
)

// Confidence is assigned to every date of birth match.
const Confidence = 0.8

// Validator implements detector.Detector for dates of birth: labelled dates in
// several languages, dates followed by an age, and bare numeric dates.
type Validator struct {
	rules    []patterns.Rule
	observer *observability.StandardObserver
}

// NewValidator creates a date of birth validator over lib.
func NewValidator(lib *patterns.Library) *Validator {
	return &Validator{rules: lib.DateOfBirth}
}

// SetObserver sets the observability component
func (v *Validator) SetObserver(observer *observability.StandardObserver) {
	v.observer = observer
}

func (v *Validator) Name() string { return "date_of_birth" }

func (v *Validator) Category() detector.Category { return detector.CategoryDateOfBirth }

func (v *Validator) Detect(text, _ string) []detector.Match {
	finishTiming := v.observer.StartTiming("date_of_birth_validator", "detect", "")

	var matches []detector.Match
	for _, r := range v.rules {
		for _, s := range r.FindAll(text) {
			m := detector.NewMatch(text, detector.CategoryDateOfBirth, s.Start, s.End, Confidence)
			m.Metadata = map[string]any{"format": r.Name}
			matches = append(matches, m)
		}
	}
	// The labelled and bare rules often find the same date.
	matches = detector.DedupeOverlapping(matches, func(m detector.Match) string { return "" })

	finishTiming(true, map[string]interface{}{"match_count": len(matches)})
	return matches
}
