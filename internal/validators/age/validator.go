// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package age

import (
	"strconv"

	"cv-sanitizer/internal/detector"
	"cv-sanitizer/internal/observability"
	"cv-sanitizer/internal/patterns"
)

// Confidence is assigned to every age match.
const Confidence = 0.8

// MaxAge bounds the numeric value of a plausible age.
const MaxAge = 120

// Validator implements detector.Detector for stated ages ("Age: 34",
// "Alter: 34 Jahre", "29 years old", "年齢 34歳").
type Validator struct {
	rules    []patterns.Rule
	observer *observability.StandardObserver
}

// NewValidator creates an age validator over lib.
func NewValidator(lib *patterns.Library) *Validator {
	return &Validator{rules: lib.Age}
}

// SetObserver sets the observability component
func (v *Validator) SetObserver(observer *observability.StandardObserver) {
	v.observer = observer
}

func (v *Validator) Name() string { return "age" }

func (v *Validator) Category() detector.Category { return detector.CategoryAge }

func (v *Validator) Detect(text, _ string) []detector.Match {
	finishTiming := v.observer.StartTiming("age_validator", "detect", "")

	var matches []detector.Match
	for _, r := range v.rules {
		for _, s := range r.FindAll(text) {
			years := leadingNumber(text[s.Start:s.End])
			if years < 0 || years > MaxAge {
				continue
			}
			m := detector.NewMatch(text, detector.CategoryAge, s.Start, s.End, Confidence)
			m.Metadata = map[string]any{"years": years}
			matches = append(matches, m)
		}
	}
	matches = detector.DedupeOverlapping(matches, func(m detector.Match) string {
		return strconv.Itoa(leadingNumber(m.Text))
	})

	finishTiming(true, map[string]interface{}{"match_count": len(matches)})
	return matches
}

// leadingNumber returns the first run of ASCII digits in s, or -1.
func leadingNumber(s string) int {
	start := -1
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			n, _ := strconv.Atoi(s[start:i])
			return n
		}
	}
	if start < 0 {
		return -1
	}
	n, _ := strconv.Atoi(s[start:])
	return n
}
