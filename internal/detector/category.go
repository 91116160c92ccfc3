// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCategory is returned when a category name is not one of the fixed set.
var ErrUnknownCategory = errors.New("unknown PII category")

// Category is the closed set of PII kinds the engine can report. The declaration
// order doubles as the tie-break order when two candidates share a span.
type Category uint8

const (
	CategoryEmail Category = iota
	CategoryPhone
	CategoryAddress
	CategoryPostcode
	CategoryName
	CategoryDateOfBirth
	CategoryAge
	CategoryNationality
	CategoryNationalID
	CategoryPassport
	CategoryLinkedIn
	CategoryWebsite
	CategorySocialMedia
)

var categoryNames = [...]string{
	CategoryEmail:       "email",
	CategoryPhone:       "phone",
	CategoryAddress:     "address",
	CategoryPostcode:    "postcode",
	CategoryName:        "name",
	CategoryDateOfBirth: "date_of_birth",
	CategoryAge:         "age",
	CategoryNationality: "nationality",
	CategoryNationalID:  "national_id",
	CategoryPassport:    "passport",
	CategoryLinkedIn:    "linkedin",
	CategoryWebsite:     "website",
	CategorySocialMedia: "social_media",
}

// AllCategories lists every category in declaration order.
func AllCategories() []Category {
	out := make([]Category, len(categoryNames))
	for i := range categoryNames {
		out[i] = Category(i)
	}
	return out
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("category(%d)", uint8(c))
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	return int(c) < len(categoryNames)
}

// ParseCategory converts a category name (case-insensitive) to a Category.
func ParseCategory(s string) (Category, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range categoryNames {
		if n == name {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, uint8(c))
	}
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
