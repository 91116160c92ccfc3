// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package postcode

import (
	"cv-sanitizer/internal/help"
	"cv-sanitizer/internal/patterns"
)

// GetCheckInfo returns standardized information about the postcode check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	return help.CheckInfo{
		Name:             "POSTCODE",
		ShortDescription: "Detects postal codes for the document locale",
		DetailedDescription: `The Postcode check applies the postal code format of the requested locale only.

Four digit codes (Australia, Hungary) that look like years are reported only
when they sit before a town name or after a state code.`,
		SupportedLocales: v.lib.Locales(patterns.KindPostcode),
		Patterns: []string{
			"UK outward and inward code (e.g., NW1 6XE)",
			"Canadian FSA LDU (e.g., K1A 0B1)",
		},
		ConfidenceFactors: []help.ConfidenceFactor{
			{Name: "Valid Format", Description: "Matches the locale postal code format", Weight: 70},
		},
		Examples: []string{
			"cvsanitize detect cv.txt --country CA --checks postcode",
		},
	}
}
