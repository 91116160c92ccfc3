// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

// DedupeOverlapping collapses overlapping matches that share a key into the
// longest of them. Matches with equal keys elsewhere in the document are kept,
// so a repeated phone number is reported at every occurrence.
func DedupeOverlapping(matches []Match, key func(Match) string) []Match {
	if len(matches) < 2 {
		return matches
	}
	SortMatches(matches)

	kept := make([]Match, 0, len(matches))
	keys := make([]string, 0, len(matches))
	for _, m := range matches {
		k := key(m)
		dup := false
		for i := range kept {
			if keys[i] != k || !kept[i].Overlaps(m) {
				continue
			}
			dup = true
			if m.Len() > kept[i].Len() {
				kept[i] = m
			}
			break
		}
		if !dup {
			kept = append(kept, m)
			keys = append(keys, k)
		}
	}
	SortMatches(kept)
	return kept
}
