// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package address

import (
	"strings"
	"unicode/utf8"

	"cv-sanitizer/internal/detector"
	"cv-sanitizer/internal/observability"
	"cv-sanitizer/internal/patterns"
)

const (
	IndicatorConfidence  = 0.7
	StructuralConfidence = 0.8
	StreetConfidence     = 0.7
)

// Validator implements detector.Detector for street addresses. It combines
// three sources: text following an address label or street word, complete
// addresses recognised by their grammar, and numbered street or apartment
// lines.
type Validator struct {
	rules    patterns.AddressRules
	observer *observability.StandardObserver
}

// NewValidator creates an address validator over lib.
func NewValidator(lib *patterns.Library) *Validator {
	return &Validator{rules: lib.Address}
}

// SetObserver sets the observability component
func (v *Validator) SetObserver(observer *observability.StandardObserver) {
	v.observer = observer
}

func (v *Validator) Name() string { return "address" }

func (v *Validator) Category() detector.Category { return detector.CategoryAddress }

// Detect returns address spans. Overlapping evidence for the same address is
// reported as one match covering all of it.
func (v *Validator) Detect(text, _ string) []detector.Match {
	finishTiming := v.observer.StartTiming("address_validator", "detect", "")

	var matches []detector.Match
	for _, r := range v.rules.Indicators {
		for _, s := range r.FindAll(text) {
			if !v.IsLikelyAddress(patterns.CollapseSpace(text[s.Start:s.End])) {
				continue
			}
			matches = append(matches, newMatch(text, s, IndicatorConfidence, "indicator", r.Name))
		}
	}
	for _, r := range v.rules.Structural {
		for _, s := range r.FindAll(text) {
			matches = append(matches, newMatch(text, s, StructuralConfidence, "structural", r.Name))
		}
	}
	for _, r := range v.rules.Street {
		for _, s := range r.FindAll(text) {
			matches = append(matches, newMatch(text, s, StreetConfidence, "street", r.Name))
		}
	}

	matches = unionOverlapping(text, matches)

	finishTiming(true, map[string]interface{}{"match_count": len(matches)})
	return matches
}

func newMatch(text string, s patterns.Span, confidence float64, source, rule string) detector.Match {
	m := detector.NewMatch(text, detector.CategoryAddress, s.Start, s.End, confidence)
	m.Metadata = map[string]any{"source": source, "rule": rule}
	if n := patterns.CollapseSpace(m.Text); n != m.Text {
		m.Metadata["normalized"] = n
	}
	return m
}

// unionOverlapping folds overlapping address matches into one span carrying
// the highest confidence among them.
func unionOverlapping(text string, matches []detector.Match) []detector.Match {
	if len(matches) < 2 {
		return matches
	}
	detector.SortMatches(matches)

	out := make([]detector.Match, 0, len(matches))
	for _, m := range matches {
		if n := len(out); n > 0 && out[n-1].Overlaps(m) {
			last := &out[n-1]
			if m.End > last.End {
				last.End = m.End
				last.Text = text[last.Start:last.End]
				if norm := patterns.CollapseSpace(last.Text); norm != last.Text {
					last.Metadata["normalized"] = norm
				}
			}
			if m.Confidence > last.Confidence {
				last.Confidence = m.Confidence
				last.Metadata["source"] = m.Metadata["source"]
				last.Metadata["rule"] = m.Metadata["rule"]
			}
			continue
		}
		out = append(out, m)
	}
	return out
}

// IsLikelyAddress reports whether text (whitespace already collapsed) reads as
// an address: at most MaxLength characters, free of CV section words, holding
// a street number and either a street keyword or a postal code.
func (v *Validator) IsLikelyAddress(text string) bool {
	if utf8.RuneCountInString(text) > v.rules.MaxLength {
		return false
	}
	lower := strings.ToLower(text)
	for _, kw := range v.rules.RejectKeywords {
		if strings.Contains(lower, kw) {
			return false
		}
	}
	if !v.rules.StreetNumber.MatchString(text) {
		return false
	}
	for _, kw := range v.rules.StreetKeywords {
		if kw.MatchString(text) {
			return true
		}
	}
	return v.rules.PostalLike.MatchString(text)
}
