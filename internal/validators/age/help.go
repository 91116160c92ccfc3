// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package age

import "cv-sanitizer/internal/help"

// GetCheckInfo returns standardized information about the age check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	return help.CheckInfo{
		Name:             "AGE",
		ShortDescription: "Detects stated ages",
		DetailedDescription: `The Age check finds an age after a label (Age, Idade, Alter, Edad, Âge, Età,
Leeftijd, Wiek, Возраст, 年齢) or written as "29 years old" and its
translations. Only the number and its unit are redacted.`,
		Patterns: []string{
			"Age: 34, Age 34 years",
			"Idade: 34 anos, Alter: 34 Jahre, Edad: 34 años",
			"29 years old, 29 Jahre alt, 年齢 34歳",
		},
		ConfidenceFactors: []help.ConfidenceFactor{
			{Name: "Label Context", Description: "Age label or unit present", Weight: 80},
		},
		Examples: []string{
			"cvsanitize detect cv.txt --checks age",
		},
	}
}
