// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package passport

import "cv-sanitizer/internal/help"

// GetCheckInfo returns standardized information about the passport check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	return help.CheckInfo{
		Name:             "PASSPORT",
		ShortDescription: "Detects passport numbers",
		DetailedDescription: `The Passport check looks for 8 or 9 character tokens that mix capital letters
and digits in the arrangements used by passport issuers worldwide. Matches
that follow a passport label are flagged in the match metadata.`,
		Patterns: []string{
			"Letters then digits (e.g., AB1234567)",
			"Digits then a letter (e.g., 12345678A)",
			"Letter, seven digits, letter (e.g., C1234567D)",
		},
		ConfidenceFactors: []help.ConfidenceFactor{
			{Name: "Valid Format", Description: "8-9 characters with letters and digits", Weight: 70},
		},
		Examples: []string{
			"cvsanitize detect cv.txt --checks passport",
		},
	}
}
