// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package nationality

import "cv-sanitizer/internal/help"

// GetCheckInfo returns standardized information about the nationality check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	return help.CheckInfo{
		Name:             "NATIONALITY",
		ShortDescription: "Detects labelled nationality and citizenship",
		DetailedDescription: `The Nationality check reports the value following a Nationality or
Citizenship label in English, Portuguese, German, Spanish, French or Japanese.
The value ends at the first comma or line break. Unlabelled mentions of a
country are not reported.`,
		Patterns: []string{
			"Nationality: British, Citizenship: Canadian",
			"Nacionalidade: brasileira, Staatsangehörigkeit: deutsch",
			"Nacionalidad: española, Nationalité: française, 国籍：日本",
		},
		ConfidenceFactors: []help.ConfidenceFactor{
			{Name: "Label Context", Description: "Value follows a nationality label", Weight: 80},
		},
		Examples: []string{
			"cvsanitize detect cv.txt --checks nationality",
		},
	}
}
