// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"strings"

	"cv-sanitizer/internal/detector"
	"cv-sanitizer/internal/observability"
	"cv-sanitizer/internal/patterns"
	"cv-sanitizer/internal/validators/address"
	"cv-sanitizer/internal/validators/age"
	"cv-sanitizer/internal/validators/dateofbirth"
	"cv-sanitizer/internal/validators/email"
	"cv-sanitizer/internal/validators/nationalid"
	"cv-sanitizer/internal/validators/nationality"
	"cv-sanitizer/internal/validators/passport"
	"cv-sanitizer/internal/validators/personname"
	"cv-sanitizer/internal/validators/phone"
	"cv-sanitizer/internal/validators/postcode"
	"cv-sanitizer/internal/validators/socialmedia"
)

// observable is implemented by every built-in validator.
type observable interface {
	detector.Detector
	SetObserver(*observability.StandardObserver)
}

// BuildDetectorSet constructs the detectors for the enabled categories in
// category order. A nil or empty map enables every category. The social media
// validator reports linkedin, website and social_media matches; when only some
// of those are enabled its output is filtered.
func BuildDetectorSet(enabled map[detector.Category]bool, lib *patterns.Library, observer *observability.StandardObserver) []detector.Detector {
	if lib == nil {
		lib = patterns.Default()
	}
	all := len(enabled) == 0
	on := func(c detector.Category) bool { return all || enabled[c] }

	var set []observable
	if on(detector.CategoryEmail) {
		set = append(set, email.NewValidator(lib))
	}
	if on(detector.CategoryPhone) {
		set = append(set, phone.NewValidator(lib))
	}
	if on(detector.CategoryAddress) {
		set = append(set, address.NewValidator(lib))
	}
	if on(detector.CategoryPostcode) {
		set = append(set, postcode.NewValidator(lib))
	}
	if on(detector.CategoryName) {
		set = append(set, personname.NewValidator(lib))
	}
	if on(detector.CategoryDateOfBirth) {
		set = append(set, dateofbirth.NewValidator(lib))
	}
	if on(detector.CategoryAge) {
		set = append(set, age.NewValidator(lib))
	}
	if on(detector.CategoryNationality) {
		set = append(set, nationality.NewValidator(lib))
	}
	if on(detector.CategoryNationalID) {
		set = append(set, nationalid.NewValidator(lib))
	}
	if on(detector.CategoryPassport) {
		set = append(set, passport.NewValidator(lib))
	}

	social := []detector.Category{detector.CategoryLinkedIn, detector.CategoryWebsite, detector.CategorySocialMedia}
	var socialOn []detector.Category
	for _, c := range social {
		if on(c) {
			socialOn = append(socialOn, c)
		}
	}

	result := make([]detector.Detector, 0, len(set)+1)
	for _, v := range set {
		v.SetObserver(observer)
		result = append(result, v)
	}
	if len(socialOn) > 0 {
		v := socialmedia.NewValidator(lib)
		v.SetObserver(observer)
		if len(socialOn) == len(social) {
			result = append(result, v)
		} else {
			result = append(result, newCategoryFilter(v, socialOn))
		}
	}
	return result
}

// categoryFilter drops matches outside an allowed category set.
type categoryFilter struct {
	detector.Detector
	allowed map[detector.Category]bool
}

func newCategoryFilter(d detector.Detector, allowed []detector.Category) *categoryFilter {
	f := &categoryFilter{Detector: d, allowed: make(map[detector.Category]bool, len(allowed))}
	for _, c := range allowed {
		f.allowed[c] = true
	}
	return f
}

func (f *categoryFilter) Detect(text, locale string) []detector.Match {
	matches := f.Detector.Detect(text, locale)
	out := matches[:0]
	for _, m := range matches {
		if f.allowed[m.Category] {
			out = append(out, m)
		}
	}
	return out
}

// ParseCategories converts category names into an enabled set. An empty list or
// ["all"] yields nil, which enables every category.
func ParseCategories(names []string) (map[detector.Category]bool, error) {
	if len(names) == 0 || (len(names) == 1 && names[0] == "all") {
		return nil, nil
	}
	enabled := make(map[detector.Category]bool, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		c, err := detector.ParseCategory(name)
		if err != nil {
			return nil, err
		}
		enabled[c] = true
	}
	return enabled, nil
}
