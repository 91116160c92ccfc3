// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package socialmedia

import "cv-sanitizer/internal/help"

// GetCheckInfo returns standardized information about this check
func (v *Validator) GetCheckInfo() help.CheckInfo {
	info := help.CheckInfo{}

	info.Name = "SOCIAL_MEDIA"
	info.ShortDescription = "Detects social media profiles, handles and personal websites"
	info.DetailedDescription = `This check detects profile references across major platforms:
- LinkedIn profile and company URLs (reported as LINKEDIN)
- Twitter/X URLs, "Twitter: @handle" labels and standalone @handles
- GitHub, Facebook, Instagram, YouTube and TikTok URLs
- Personal websites after a "Portfolio:" or "Website:" label and personal
  domains such as .dev or .io (reported as WEBSITE)

Additional platforms can be added through the patterns.social section of the
configuration file.`

	info.Patterns = []string{
		"linkedin.com/in/<name>, linkedin.com/company/<name>",
		"twitter.com/<handle>, x.com/<handle>, @handle",
		"github.com/<user>",
		"facebook.com/<name>, fb.com/<name>",
		"instagram.com/<name>, youtube.com/<channel>, youtu.be/<id>, tiktok.com/@<name>",
		"Portfolio: <url>, <name>.dev",
	}

	info.ConfidenceFactors = []help.ConfidenceFactor{
		{Name: "Base", Description: "Profile pattern matched", Weight: 70},
		{Name: "Valid Username", Description: "Profile path or handle length fits the platform", Weight: 20},
		{Name: "HTTPS", Description: "Full https:// URL", Weight: 10},
	}

	info.Examples = []string{
		"cvsanitize detect cv.txt --checks linkedin,social_media,website",
	}
	return info
}
