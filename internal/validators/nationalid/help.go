// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package nationalid

import (
	"cv-sanitizer/internal/help"
	"cv-sanitizer/internal/patterns"
)

// GetCheckInfo returns standardized information about the national ID check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	return help.CheckInfo{
		Name:             "NATIONAL_ID",
		ShortDescription: "Detects national identity and tax numbers for the document locale",
		DetailedDescription: `The National ID check applies the identifier formats of the requested locale:
UK National Insurance numbers, US Social Security numbers, German tax IDs,
French INSEE numbers, Canadian SINs, Australian TFNs, Italian codici fiscali,
Spanish DNI/NIE and Swedish personnummer.

When a value also looks like a passport number the national identifier wins.`,
		SupportedLocales: v.lib.Locales(patterns.KindNationalID),
		Patterns: []string{
			"UK NI number (e.g., AB123456C)",
			"US SSN (e.g., 123-45-6789)",
		},
		ConfidenceFactors: []help.ConfidenceFactor{
			{Name: "Valid Format", Description: "Matches the locale identifier format", Weight: 80},
		},
		Examples: []string{
			"cvsanitize detect cv.txt --country US --checks national_id",
		},
	}
}
