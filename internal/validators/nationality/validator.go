// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package nationality

import (
	"strings"

	"cv-sanitizer/internal/detector"
	"cv-sanitizer/internal/observability"
	"cv-sanitizer/internal/patterns"
)

// Confidence is assigned to every nationality match.
const Confidence = 0.8

// Validator implements detector.Detector for labelled nationality or
// citizenship values. Only the value after the label is reported.
type Validator struct {
	rules    []patterns.Rule
	observer *observability.StandardObserver
}

func NewValidator(lib *patterns.Library) *Validator {
	return &Validator{rules: lib.Nationality}
}

// SetObserver sets the observability component
func (v *Validator) SetObserver(observer *observability.StandardObserver) {
	v.observer = observer
}

func (v *Validator) Name() string { return "nationality" }

func (v *Validator) Category() detector.Category { return detector.CategoryNationality }

func (v *Validator) Detect(text, _ string) []detector.Match {
	finishTiming := v.observer.StartTiming("nationality_validator", "detect", "")

	var matches []detector.Match
	for _, r := range v.rules {
		for _, s := range r.FindAll(text) {
			m := detector.NewMatch(text, detector.CategoryNationality, s.Start, s.End, Confidence)
			m.Metadata = map[string]any{"value": strings.ToLower(patterns.CollapseSpace(m.Text))}
			matches = append(matches, m)
		}
	}
	matches = detector.DedupeOverlapping(matches, func(m detector.Match) string {
		return strings.ToLower(m.Text)
	})

	finishTiming(true, map[string]interface{}{"match_count": len(matches)})
	return matches
}
