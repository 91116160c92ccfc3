// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package personname

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"cv-sanitizer/internal/detector"
	"cv-sanitizer/internal/observability"
	"cv-sanitizer/internal/patterns"
)

const (
	// HeaderConfidence applies to a name on the first line of the document.
	HeaderConfidence = 0.8
	// LineConfidence applies to names on the following header lines.
	LineConfidence = 0.5

	minWords = 2
	maxWords = 4
)

// Validator implements detector.Detector for person names. Only the CV header
// (the first few lines) is searched; names in the body are left to the
// reviewer.
type Validator struct {
	rules    patterns.NameRules
	observer *observability.StandardObserver
}

// NewValidator creates a person name validator over lib.
func NewValidator(lib *patterns.Library) *Validator {
	return &Validator{rules: lib.Name}
}

// SetObserver sets the observability component
func (v *Validator) SetObserver(observer *observability.StandardObserver) {
	v.observer = observer
}

func (v *Validator) Name() string { return "person_name" }

func (v *Validator) Category() detector.Category { return detector.CategoryName }

// Detect returns the names found in the header lines of text.
func (v *Validator) Detect(text, _ string) []detector.Match {
	finishTiming := v.observer.StartTiming("person_name_validator", "detect", "")

	var matches []detector.Match
	offset := 0
	for lineNum := 0; lineNum < v.rules.HeaderLines && offset <= len(text); lineNum++ {
		line := text[offset:]
		next := len(text) + 1
		if i := strings.IndexByte(line, '\n'); i >= 0 {
			line = line[:i]
			next = offset + i + 1
		}
		matches = append(matches, v.detectLine(text, offset, line, lineNum)...)
		offset = next
	}

	finishTiming(true, map[string]interface{}{"match_count": len(matches)})
	return matches
}

func (v *Validator) detectLine(text string, lineStart int, line string, lineNum int) []detector.Match {
	if strings.TrimSpace(line) == "" || v.rules.SkipLine.MatchString(line) {
		return nil
	}

	confidence := LineConfidence
	if lineNum == 0 {
		confidence = HeaderConfidence
	}

	var candidates []patterns.Span
	for _, r := range v.rules.Rules {
		for _, s := range r.FindAll(line) {
			if v.IsLikelyName(line[s.Start:s.End]) {
				candidates = append(candidates, s)
			}
		}
	}

	// Keep the longest candidates that do not overlap each other.
	sort.SliceStable(candidates, func(i, j int) bool {
		li, lj := candidates[i].End-candidates[i].Start, candidates[j].End-candidates[j].Start
		if li != lj {
			return li > lj
		}
		return candidates[i].Start < candidates[j].Start
	})
	var kept []patterns.Span
	for _, c := range candidates {
		overlaps := false
		for _, k := range kept {
			if c.Start < k.End && k.Start < c.End {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, c)
		}
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].Start < kept[j].Start })

	matches := make([]detector.Match, 0, len(kept))
	for _, k := range kept {
		m := detector.NewMatch(text, detector.CategoryName, lineStart+k.Start, lineStart+k.End, confidence)
		m.Metadata = map[string]any{"line": lineNum + 1}
		if v.hasKnownSurname(m.Text) {
			m.Metadata["known_surname"] = true
		}
		matches = append(matches, m)
	}
	return matches
}

// IsLikelyName reports whether s has 2-4 words, at least 70% of them
// capitalised, and none of them a CV heading or job title word.
func (v *Validator) IsLikelyName(s string) bool {
	words := strings.Fields(s)
	if len(words) < minWords || len(words) > maxWords {
		return false
	}

	capitalised := 0
	for _, w := range words {
		r, _ := utf8.DecodeRuneInString(w)
		if unicode.IsUpper(r) {
			capitalised++
		}
		if v.rules.RejectWords[normalizeWord(w)] {
			return false
		}
	}
	return capitalised*10 >= len(words)*7
}

func (v *Validator) hasKnownSurname(s string) bool {
	for _, w := range strings.Fields(s) {
		if v.rules.CommonSurnames[normalizeWord(w)] {
			return true
		}
	}
	return false
}

func normalizeWord(w string) string {
	return strings.ToLower(strings.Trim(w, ".,;:"))
}
