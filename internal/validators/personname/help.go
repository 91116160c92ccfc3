// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package personname

import "cv-sanitizer/internal/help"

// GetCheckInfo returns standardized information about the person name check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	return help.CheckInfo{
		Name:             "NAME",
		ShortDescription: "Detects the candidate's name in the CV header",
		DetailedDescription: `The Name check searches the first lines of the document, where a CV carries
the candidate's name. Lines containing an @ or three or more digits are
skipped (contact lines).

A candidate must have two to four words, most of them capitalised, and must
not contain heading or job title words such as "Curriculum", "Resume" or
"Engineer". Accented names (Kovács Anna), titles (Dr. Jane Smith),
hyphenated and all-capitals names are supported.`,
		Patterns: []string{
			"First Last, First M. Last, First Middle Last",
			"Titled names (Dr, Mr, Mrs, Ms, Prof)",
			"Names with particles (Anna Maria van Dijk)",
			"ALL CAPITALS NAMES",
		},
		ConfidenceFactors: []help.ConfidenceFactor{
			{Name: "First Line", Description: "Name on the first line of the document", Weight: 80},
			{Name: "Header Line", Description: "Name on one of the following header lines", Weight: 50},
		},
		Examples: []string{
			"cvsanitize detect cv.txt --checks name",
		},
	}
}
