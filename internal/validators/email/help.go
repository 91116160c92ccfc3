// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package email

import (
	"strings"

	"cv-sanitizer/internal/help"
)

// GetCheckInfo returns standardized information about the email check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	return help.CheckInfo{
		Name:             "EMAIL",
		ShortDescription: "Detects email addresses",
		DetailedDescription: `The Email check finds email addresses anywhere in the document.

Several address shapes are tried (plain, dotted first.last local parts,
consumer providers, long TLDs). Overlapping hits of the same address are
reported once.`,
		Patterns: []string{
			"Standard format (e.g., user@domain.com)",
			"Dotted names (e.g., jane.doe@company.co.uk)",
			"Consumer providers: " + strings.Join(v.providers, ", "),
		},
		ConfidenceFactors: []help.ConfidenceFactor{
			{Name: "Base", Description: "Any well formed address", Weight: 50},
			{Name: "Provider", Description: "Consumer mail provider domain", Weight: 20},
			{Name: "Dotted Local Part", Description: "first.last style local part", Weight: 20},
			{Name: "Valid Domain", Description: "Domain has at least two labels", Weight: 10},
		},
		Examples: []string{
			"cvsanitize detect cv.txt --checks email",
		},
	}
}

