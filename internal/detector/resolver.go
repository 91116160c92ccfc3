// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// RedundancyThreshold is the covered fraction above which a candidate is
// considered redundant with already accepted matches.
const RedundancyThreshold = 0.8

// ResolveOverlaps reduces candidates to a non-overlapping list sorted by start.
//
// Candidates are visited shortest-first at each start position. A candidate
// whose span is more than 80% covered by accepted matches is dropped. One that
// is only partially covered keeps its uncovered tail: its start moves past the
// accepted frontier and any leading whitespace or separators.
func ResolveOverlaps(candidates []Match) []Match {
	if len(candidates) == 0 {
		return nil
	}

	sorted := make([]Match, len(candidates))
	copy(sorted, candidates)
	SortMatches(sorted)

	accepted := make([]Match, 0, len(sorted))
	frontier := 0

	for _, c := range sorted {
		size := c.Len()
		if size <= 0 {
			continue
		}

		covered := 0
		for _, a := range accepted {
			lo := max(c.Start, a.Start)
			hi := min(c.End, a.End)
			if hi > lo {
				covered += hi - lo
			}
		}
		if float64(covered)/float64(size) > RedundancyThreshold {
			continue
		}

		if c.Start < frontier {
			trimmed, ok := trimStart(c, frontier)
			if !ok {
				continue
			}
			c = trimmed
		}

		accepted = append(accepted, c)
		if c.End > frontier {
			frontier = c.End
		}
	}
	return accepted
}

// leadingSeparators are skipped along with whitespace when a span is trimmed.
const leadingSeparators = ",;:.-–"

// trimStart cuts m so that it begins at or after from, skipping whitespace and
// separator punctuation.
func trimStart(m Match, from int) (Match, bool) {
	if from >= m.End {
		return m, false
	}
	offset := from - m.Start
	rest := m.Text[offset:]
	for len(rest) > 0 {
		r, size := utf8.DecodeRuneInString(rest)
		if !unicode.IsSpace(r) && !strings.ContainsRune(leadingSeparators, r) {
			break
		}
		rest = rest[size:]
		offset += size
	}
	if rest == "" {
		return m, false
	}

	out := m.Clone()
	out.Start = m.Start + offset
	out.Text = rest
	if out.Metadata == nil {
		out.Metadata = map[string]any{}
	}
	out.Metadata["trimmed"] = true
	return out, true
}
