// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package address

import "cv-sanitizer/internal/help"

// GetCheckInfo returns standardized information about the address check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	return help.CheckInfo{
		Name:             "ADDRESS",
		ShortDescription: "Detects street addresses, including multi-line and Hungarian formats",
		DetailedDescription: `The Address check combines three sources of evidence:

  - text after an address label ("Address:", "Adresse:", "lives at") or a
    street word, up to the next blank line, kept only when it holds a street
    number and a street keyword or postal code;
  - complete addresses recognised by their grammar (Hungarian "Kossuth utca 12,
    1051 Budapest", German "Hauptstraße 5, 10115 Berlin", Spanish "Calle Mayor
    5, 28013 Madrid");
  - numbered street lines ("221B Baker Street") and apartment lines.

After detection, address pieces and postal codes separated only by
punctuation or a city name are merged into one address.`,
		Patterns: []string{
			"Labelled addresses (e.g., Address: 12 Baker Street, London)",
			"Hungarian street, number, postcode and city",
			"Numbered streets and apartments",
		},
		ConfidenceFactors: []help.ConfidenceFactor{
			{Name: "Structural Pattern", Description: "Complete address grammar", Weight: 80},
			{Name: "Label Context", Description: "Text after an address label that validates", Weight: 70},
			{Name: "Street Pattern", Description: "Numbered street or apartment line", Weight: 70},
		},
		Examples: []string{
			"cvsanitize detect cv.txt --country HU --checks address,postcode",
		},
	}
}
