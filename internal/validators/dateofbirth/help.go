// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package dateofbirth

import "cv-sanitizer/internal/help"

// GetCheckInfo returns standardized information about the date of birth check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	return help.CheckInfo{
		Name:             "DATE_OF_BIRTH",
		ShortDescription: "Detects dates of birth",
		DetailedDescription: `The Date of Birth check finds dates after a birth label in English, German,
Portuguese, Spanish, French and Japanese, dates followed by an age such as
"12/05/1990 (34 years)", and bare numeric dates whose day and month are in
range. Only the date itself is redacted; the label stays readable.`,
		Patterns: []string{
			"Date of birth: 12/05/1990, DOB 1990-05-12, Born on 3 March 1988",
			"Geburtsdatum: 01.02.1985, Data de nascimento, Fecha de nacimiento",
			"生年月日 1990年5月12日",
		},
		ConfidenceFactors: []help.ConfidenceFactor{
			{Name: "Valid Format", Description: "Recognised date layout", Weight: 80},
		},
		Examples: []string{
			"cvsanitize detect cv.txt --checks date_of_birth,age",
		},
	}
}
