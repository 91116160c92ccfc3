// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"regexp"
	"strings"
)

const (
	// MaxAddressGap is the largest gap, in bytes, bridged between address parts.
	MaxAddressGap = 50
	// MergedAddressConfidence is assigned to fused address matches.
	MergedAddressConfidence = 0.85
)

// addressGap accepts separators and at most one capitalised word (a city or
// country between a postcode and the next address fragment).
var addressGap = regexp.MustCompile(`^[\s,.\-–;:]*(?:[A-Z][a-záéíóúöüőű]+)?[\s,.\-–;:]*$`)

func isAddressPart(c Category) bool {
	return c == CategoryAddress || c == CategoryPostcode
}

// MergeAddresses fuses runs of consecutive address and postcode matches that
// are separated only by punctuation, whitespace or a single capitalised word.
// matches must be sorted and non-overlapping; other categories pass through.
func MergeAddresses(text string, matches []Match) []Match {
	if len(matches) < 2 {
		return matches
	}

	result := make([]Match, 0, len(matches))
	i := 0
	for i < len(matches) {
		current := matches[i]
		if !isAddressPart(current.Category) {
			result = append(result, current)
			i++
			continue
		}

		end := current.End
		j := i + 1
		for j < len(matches) {
			next := matches[j]
			if !isAddressPart(next.Category) {
				break
			}
			if next.Start < end || next.Start-end > MaxAddressGap {
				break
			}
			if !addressGap.MatchString(text[end:next.Start]) {
				break
			}
			end = next.End
			j++
		}

		if j == i+1 {
			result = append(result, current)
			i++
			continue
		}

		merged := NewMatch(text, CategoryAddress, current.Start, end, MergedAddressConfidence)
		merged.Locale = firstLocale(matches[i:j])
		merged.Metadata = map[string]any{
			"merged":     true,
			"components": j - i,
			"normalized": strings.Join(strings.Fields(merged.Text), " "),
		}
		result = append(result, merged)
		i = j
	}
	return result
}

func firstLocale(matches []Match) string {
	for _, m := range matches {
		if m.Locale != "" {
			return m.Locale
		}
	}
	return ""
}
