// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redactors

import (
	"fmt"
	"sort"
	"strings"

	"cv-sanitizer/internal/detector"
)

// Placeholder returns the token substituted for a redacted span. Serials are
// assigned in descending position order, so serial 1 is the last match in the
// document.
func Placeholder(c detector.Category, serial int) string {
	return fmt.Sprintf(`<pii type="%s" serial="%d">`, c, serial)
}

// Position is the half-open byte range a placeholder replaced.
type Position struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// MappingEntry records everything needed to reverse one placeholder.
type MappingEntry struct {
	Original    string            `json:"original" yaml:"original"`
	Category    detector.Category `json:"category" yaml:"category"`
	Position    Position          `json:"position" yaml:"position"`
	Confidence  float64           `json:"confidence" yaml:"confidence"`
	CountryCode string            `json:"country_code,omitempty" yaml:"country_code,omitempty"`
	Metadata    map[string]any    `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Mapping is keyed by placeholder.
type Mapping map[string]MappingEntry

// RedactionResult is the output of Redact.
type RedactionResult struct {
	RedactedText string  `json:"redacted_text"`
	Mapping      Mapping `json:"mapping"`
}

// Redact replaces every match span with a placeholder. The matches must lie
// within text and must not overlap; nothing is redacted when validation fails.
// Each mapping entry's Original is the exact source span, so Restore
// reproduces text.
func Redact(text string, matches []detector.Match) (*RedactionResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, inputError("redactor", ErrNoText, "cannot redact empty text")
	}
	if len(matches) == 0 {
		return nil, inputError("redactor", ErrNoMatches, "no matches supplied")
	}

	ordered := make([]detector.Match, len(matches))
	copy(ordered, matches)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Start < ordered[j].Start })

	for i, m := range ordered {
		if m.Start < 0 || m.End > len(text) || m.Start >= m.End {
			return nil, inputError("redactor", ErrOutOfBounds, "%s match [%d,%d) outside text of %d bytes", m.Category, m.Start, m.End, len(text))
		}
		if i > 0 && ordered[i-1].End > m.Start {
			prev := ordered[i-1]
			return nil, inputError("redactor", ErrOverlappingMatches, "[%d,%d) overlaps [%d,%d)", prev.Start, prev.End, m.Start, m.End)
		}
	}

	mapping := make(Mapping, len(ordered))
	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for i, m := range ordered {
		serial := len(ordered) - i
		placeholder := Placeholder(m.Category, serial)
		mapping[placeholder] = MappingEntry{
			Original:    text[m.Start:m.End],
			Category:    m.Category,
			Position:    Position{Start: m.Start, End: m.End},
			Confidence:  m.Confidence,
			CountryCode: m.Locale,
			Metadata:    m.Clone().Metadata,
		}
		b.WriteString(text[last:m.Start])
		b.WriteString(placeholder)
		last = m.End
	}
	b.WriteString(text[last:])

	return &RedactionResult{RedactedText: b.String(), Mapping: mapping}, nil
}

// Restore substitutes every placeholder in redacted with its original value.
// Placeholders missing from redacted are ignored.
func Restore(redacted string, mapping Mapping) string {
	if len(mapping) == 0 {
		return redacted
	}
	keys := make([]string, 0, len(mapping))
	for k := range mapping {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, k, mapping[k].Original)
	}
	return strings.NewReplacer(pairs...).Replace(redacted)
}
