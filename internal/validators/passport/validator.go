// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package passport

import (
	"strings"
	"unicode"

	"cv-sanitizer/internal/detector"
	"cv-sanitizer/internal/observability"
	"cv-sanitizer/internal/patterns"
)

// Confidence is assigned to every passport match.
const Confidence = 0.7

var passportKeywords = []string{"passport", "reisepass", "passaporte", "pasaporte", "passeport", "útlevél"}

// Validator implements detector.Detector for passport numbers. The formats
// are locale independent.
type Validator struct {
	rules     []patterns.Rule
	extractor *detector.ContextExtractor
	observer  *observability.StandardObserver
}

// NewValidator creates a passport validator over lib.
func NewValidator(lib *patterns.Library) *Validator {
	return &Validator{
		rules:     lib.Passport,
		extractor: detector.NewContextExtractor(),
	}
}

// SetObserver sets the observability component
func (v *Validator) SetObserver(observer *observability.StandardObserver) {
	v.observer = observer
}

func (v *Validator) Name() string { return "passport" }

func (v *Validator) Category() detector.Category { return detector.CategoryPassport }

// Detect returns passport-like tokens. Matches preceded by a passport label
// on the same paragraph carry metadata labelled=true.
func (v *Validator) Detect(text, _ string) []detector.Match {
	finishTiming := v.observer.StartTiming("passport_validator", "detect", "")

	var matches []detector.Match
	for _, r := range v.rules {
		for _, s := range r.FindAll(text) {
			if !IsLikelyPassport(text[s.Start:s.End]) {
				continue
			}
			m := detector.NewMatch(text, detector.CategoryPassport, s.Start, s.End, Confidence)
			m.Metadata = map[string]any{"format": r.Name}
			if v.hasPassportLabel(text, m) {
				m.Metadata["labelled"] = true
			}
			matches = append(matches, m)
		}
	}
	matches = detector.DedupeOverlapping(matches, func(m detector.Match) string { return m.Text })

	finishTiming(true, map[string]interface{}{"match_count": len(matches)})
	return matches
}

func (v *Validator) hasPassportLabel(text string, m detector.Match) bool {
	before := strings.ToLower(v.extractor.ExtractContext(text, m).BeforeText)
	for _, kw := range passportKeywords {
		if strings.Contains(before, kw) {
			return true
		}
	}
	return false
}

// IsLikelyPassport reports whether s is 8 or 9 characters long and mixes
// letters and digits.
func IsLikelyPassport(s string) bool {
	if len(s) < 8 || len(s) > 9 {
		return false
	}
	var letter, digit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}
