// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"sort"
	"strings"
)

// Detector finds candidate matches of one category. Implementations only read
// the input text and may be called concurrently.
type Detector interface {
	Name() string
	Category() Category
	Detect(text, locale string) []Match
}

// Match represents one detected PII occurrence. Start and End are half-open
// UTF-8 byte offsets into the document text.
type Match struct {
	Category   Category       `json:"category" yaml:"category"`
	Text       string         `json:"text" yaml:"text"`
	Start      int            `json:"start" yaml:"start"`
	End        int            `json:"end" yaml:"end"`
	Confidence float64        `json:"confidence" yaml:"confidence"`
	Locale     string         `json:"country_code,omitempty" yaml:"country_code,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Len returns the span length in bytes.
func (m Match) Len() int {
	return m.End - m.Start
}

// Overlaps reports whether the two spans intersect.
func (m Match) Overlaps(o Match) bool {
	return m.Start < o.End && o.Start < m.End
}

// Clone returns a copy that does not share the metadata map.
func (m Match) Clone() Match {
	if m.Metadata != nil {
		md := make(map[string]any, len(m.Metadata))
		for k, v := range m.Metadata {
			md[k] = v
		}
		m.Metadata = md
	}
	return m
}

// NewMatch builds a match whose text is the exact source span.
func NewMatch(text string, c Category, start, end int, confidence float64) Match {
	return Match{
		Category:   c,
		Text:       text[start:end],
		Start:      start,
		End:        end,
		Confidence: confidence,
	}
}

// SortMatches orders matches by start, then span length, then category.
func SortMatches(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.Len() != b.Len() {
			return a.Len() < b.Len()
		}
		return a.Category < b.Category
	})
}

// NormalizeLocale upper-cases an ISO country code.
func NormalizeLocale(locale string) string {
	return strings.ToUpper(strings.TrimSpace(locale))
}
