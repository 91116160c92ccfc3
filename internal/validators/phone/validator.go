// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"

	"cv-sanitizer/internal/detector"
	"cv-sanitizer/internal/observability"
	"cv-sanitizer/internal/patterns"
)

const (
	minDigits         = 7
	maxDigits         = 15
	minFallbackDigits = 10

	// FallbackConfidence is assigned to numbers found by the locale
	// independent rules.
	FallbackConfidence = 0.75
)

var tollFreeCodes = []string{"800", "888", "877", "866"}

// Validator implements detector.Detector for telephone numbers. Locale
// specific rules run first; the international and label anchored fallbacks
// run for every locale.
type Validator struct {
	lib *patterns.Library

	// Observability
	observer *observability.StandardObserver
}

// NewValidator creates a phone validator over lib.
func NewValidator(lib *patterns.Library) *Validator {
	return &Validator{lib: lib}
}

// SetObserver sets the observability component
func (v *Validator) SetObserver(observer *observability.StandardObserver) {
	v.observer = observer
}

func (v *Validator) Name() string { return "phone" }

func (v *Validator) Category() detector.Category { return detector.CategoryPhone }

// Detect returns the phone numbers in text for locale.
func (v *Validator) Detect(text, locale string) []detector.Match {
	finishTiming := v.observer.StartTiming("phone_validator", "detect", "")
	locale = detector.NormalizeLocale(locale)

	var matches []detector.Match
	for _, r := range v.lib.Phone(locale) {
		for _, s := range r.FindAll(text) {
			raw := text[s.Start:s.End]
			if !IsValidPhone(raw, locale) {
				continue
			}
			m := detector.NewMatch(text, detector.CategoryPhone, s.Start, s.End, CalculateConfidence(raw, locale))
			m.Locale = locale
			m.Metadata = map[string]any{"pattern": r.Name, "digits": patterns.Digits(raw)}
			matches = append(matches, m)
		}
	}

	for _, r := range v.lib.PhoneFallback {
		for _, s := range r.FindAll(text) {
			raw := text[s.Start:s.End]
			n := len(patterns.Digits(raw))
			if n < minFallbackDigits || n > maxDigits {
				continue
			}
			// A number with its country code is checked against that
			// country's numbering plan; a national one may belong to any.
			if strings.HasPrefix(raw, "+") && !IsValidPhone(raw, locale) {
				continue
			}
			m := detector.NewMatch(text, detector.CategoryPhone, s.Start, s.End, FallbackConfidence)
			m.Metadata = map[string]any{"pattern": r.Name, "digits": patterns.Digits(raw)}
			matches = append(matches, m)
		}
	}

	matches = detector.DedupeOverlapping(matches, func(m detector.Match) string {
		return patterns.Digits(m.Text)
	})

	if v.observer != nil && v.observer.DebugObserver != nil {
		v.observer.DebugObserver.LogDetail("phone_validator", "locale "+locale)
	}
	finishTiming(true, map[string]interface{}{"match_count": len(matches), "locale": locale})
	return matches
}

// IsValidPhone checks raw against the numbering plan of its country code or,
// without one, of locale. Numbers libphonenumber cannot parse (no country
// code and an unknown locale) only need between 7 and 15 digits.
func IsValidPhone(raw, locale string) bool {
	num, err := phonenumbers.Parse(raw, locale)
	if err != nil {
		n := len(patterns.Digits(raw))
		return n >= minDigits && n <= maxDigits
	}
	return phonenumbers.IsValidNumber(num)
}

// CalculateConfidence scores a number found by a locale rule.
func CalculateConfidence(phone, locale string) float64 {
	confidence := 0.6
	digits := patterns.Digits(phone)

	switch locale {
	case "GB":
		if strings.HasPrefix(phone, "+44") || strings.HasPrefix(phone, "0") {
			confidence += 0.2
		}
		if strings.Contains(phone, "7") && len(digits) == 11 {
			confidence += 0.1
		}
	case "US":
		if strings.HasPrefix(phone, "+1") || len(digits) == 10 {
			confidence += 0.2
		}
		for _, code := range tollFreeCodes {
			if strings.Contains(phone, code) {
				confidence += 0.1
				break
			}
		}
	}

	if strings.ContainsAny(phone, " \t\n-.()") {
		confidence += 0.1
	}
	return min(confidence, 0.9)
}
