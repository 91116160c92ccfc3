// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package phone

import (
	"cv-sanitizer/internal/help"
	"cv-sanitizer/internal/patterns"
)

// GetCheckInfo returns standardized information about the phone check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	return help.CheckInfo{
		Name:             "PHONE",
		ShortDescription: "Detects telephone numbers using locale specific formats",
		DetailedDescription: `The Phone check applies the number formats of the requested locale, then two
locale independent rules: any number written with a leading + and country code,
and any number following a label such as "Phone:" or "Mobil:".

Numbers split over lines by PDF extraction are recognised for Hungarian CVs.
Locale rule matches, and fallback matches written with a country code, must be
valid in that country's numbering plan (libphonenumber). Numbers it cannot
parse need between 7 and 15 digits; the fallback rules need at least 10.`,
		SupportedLocales: v.lib.Locales(patterns.KindPhone),
		Patterns: []string{
			"International numbers (e.g., +36 30 123 4567)",
			"Labelled numbers (e.g., Tel: 0171 234 5678)",
		},
		ConfidenceFactors: []help.ConfidenceFactor{
			{Name: "Base", Description: "Locale rule matched", Weight: 60},
			{Name: "Valid Prefix", Description: "National or international prefix for GB and US", Weight: 20},
			{Name: "Mobile or Toll Free", Description: "GB mobile length or US toll free code", Weight: 10},
			{Name: "Formatting", Description: "Number written with separators", Weight: 10},
		},
		Examples: []string{
			"cvsanitize detect cv.txt --country HU --checks phone",
		},
	}
}
