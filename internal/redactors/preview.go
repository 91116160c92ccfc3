// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redactors

import (
	"strings"

	"cv-sanitizer/internal/detector"
)

// Confidence level thresholds.
const (
	HighConfidence   = 0.8
	MediumConfidence = 0.6
)

// ConfidenceLevel buckets a score into high, medium or low.
func ConfidenceLevel(confidence float64) string {
	switch {
	case confidence >= HighConfidence:
		return "high"
	case confidence >= MediumConfidence:
		return "medium"
	default:
		return "low"
	}
}

// Detection is a match as shown to a reviewer, addressed by its list index.
type Detection struct {
	ID          int               `json:"id" yaml:"id"`
	Category    detector.Category `json:"category" yaml:"category"`
	Text        string            `json:"text" yaml:"text"`
	Start       int               `json:"start" yaml:"start"`
	End         int               `json:"end" yaml:"end"`
	Confidence  float64           `json:"confidence" yaml:"confidence"`
	CountryCode string            `json:"country_code,omitempty" yaml:"country_code,omitempty"`
	Metadata    map[string]any    `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// PreviewResult is the review view of a document.
type PreviewResult struct {
	TotalItems         int                    `json:"total_items" yaml:"total_items"`
	ByCategory         map[string][]Detection `json:"by_category" yaml:"by_category"`
	TextWithHighlights string                 `json:"text_with_highlights" yaml:"text_with_highlights"`
	Detections         []Detection            `json:"detections" yaml:"detections"`
}

// ConfidenceDistribution counts matches per confidence level.
type ConfidenceDistribution struct {
	High   int `json:"high" yaml:"high"`
	Medium int `json:"medium" yaml:"medium"`
	Low    int `json:"low" yaml:"low"`
}

// PIISummary counts matches per category and confidence level.
type PIISummary struct {
	Total                  int                    `json:"total" yaml:"total"`
	ByCategory             map[string]int         `json:"by_category" yaml:"by_category"`
	ConfidenceDistribution ConfidenceDistribution `json:"confidence_distribution" yaml:"confidence_distribution"`
}

// Preview builds the reviewer view of matches over text.
func Preview(text string, matches []detector.Match) PreviewResult {
	result := PreviewResult{
		TotalItems:         len(matches),
		ByCategory:         make(map[string][]Detection),
		TextWithHighlights: Highlight(text, matches),
		Detections:         make([]Detection, 0, len(matches)),
	}
	for i, m := range matches {
		d := Detection{
			ID:          i,
			Category:    m.Category,
			Text:        m.Text,
			Start:       m.Start,
			End:         m.End,
			Confidence:  m.Confidence,
			CountryCode: m.Locale,
			Metadata:    m.Metadata,
		}
		result.Detections = append(result.Detections, d)
		key := m.Category.String()
		result.ByCategory[key] = append(result.ByCategory[key], d)
	}
	return result
}

// Highlight wraps every match span as [CATEGORY]text[/CATEGORY]. Matches that
// fall outside text or overlap an earlier one are left unmarked.
func Highlight(text string, matches []detector.Match) string {
	if len(matches) == 0 {
		return text
	}
	ordered := cloneMatches(matches)
	detector.SortMatches(ordered)

	var b strings.Builder
	last := 0
	for _, m := range ordered {
		if m.Start < last || m.End > len(text) || m.Start >= m.End {
			continue
		}
		tag := strings.ToUpper(m.Category.String())
		b.WriteString(text[last:m.Start])
		b.WriteString("[" + tag + "]")
		b.WriteString(text[m.Start:m.End])
		b.WriteString("[/" + tag + "]")
		last = m.End
	}
	b.WriteString(text[last:])
	return b.String()
}

// Summary counts matches per category and confidence level.
func Summary(matches []detector.Match) PIISummary {
	s := PIISummary{Total: len(matches), ByCategory: make(map[string]int)}
	for _, m := range matches {
		s.ByCategory[m.Category.String()]++
		switch ConfidenceLevel(m.Confidence) {
		case "high":
			s.ConfidenceDistribution.High++
		case "medium":
			s.ConfidenceDistribution.Medium++
		default:
			s.ConfidenceDistribution.Low++
		}
	}
	return s
}
