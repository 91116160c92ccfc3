// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package patterns holds the recognizer rules shared by every category
// detector. A Library is built once and never mutated afterwards, so detectors
// running in parallel read it without locking.
package patterns

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// Span is a half-open byte range.
type Span struct {
	Start int
	End   int
}

// Rule is one recognizer: a regular expression, the capture group that
// delimits the reported span (0 for the whole match) and an optional predicate
// run on the span.
type Rule struct {
	Name   string
	Re     *regexp.Regexp
	Group  int
	Accept func(text string, start, end int) bool
	// TrimRight lists trailing runes cut from the span (sentence punctuation
	// after a URL, separators after a phone number).
	TrimRight string
}

// FindAll returns the spans matched by r in text. Spans taken from a capture
// group are trimmed of surrounding whitespace.
func (r Rule) FindAll(text string) []Span {
	var spans []Span
	for _, idx := range r.Re.FindAllStringSubmatchIndex(text, -1) {
		if 2*r.Group+1 >= len(idx) {
			continue
		}
		start, end := idx[2*r.Group], idx[2*r.Group+1]
		if start < 0 || end <= start {
			continue
		}
		if r.Group > 0 {
			start, end = TrimSpan(text, start, end)
		}
		if r.TrimRight != "" {
			end = TrimTrailing(text, start, end, r.TrimRight)
		}
		if end <= start {
			continue
		}
		if r.Accept != nil && !r.Accept(text, start, end) {
			continue
		}
		spans = append(spans, Span{Start: start, End: end})
	}
	return spans
}

// SocialRule ties a profile pattern to its platform.
type SocialRule struct {
	Rule
	Platform string
}

// AddressRules groups the address recognizers.
type AddressRules struct {
	// Indicators capture the text after a label or street word up to a
	// paragraph break (group 1).
	Indicators     []Rule
	StreetKeywords []*regexp.Regexp
	RejectKeywords []string
	StreetNumber   *regexp.Regexp
	PostalLike     *regexp.Regexp
	MaxLength      int
	// Structural rules recognise complete addresses by their grammar.
	Structural []Rule
	// Street rules recognise numbered street names and apartment lines.
	Street []Rule
}

// NameRules groups the person-name recognizers.
type NameRules struct {
	Rules          []Rule
	HeaderLines    int
	RejectWords    map[string]bool
	CommonSurnames map[string]bool
	SkipLine       *regexp.Regexp
}

// Library is the immutable set of rules for every category and locale.
type Library struct {
	Email          []Rule
	EmailProviders []string

	phone         map[string][]Rule
	PhoneFallback []Rule
	postcode      map[string][]Rule
	nationalID    map[string][]Rule

	Passport []Rule
	Address  AddressRules
	Social   []SocialRule
	Name     NameRules

	DateOfBirth []Rule
	Age         []Rule
	Nationality []Rule
}

// Kind names a locale-scoped rule table.
type Kind string

const (
	KindPhone      Kind = "phone"
	KindPostcode   Kind = "postcode"
	KindNationalID Kind = "national_id"
)

// Phone returns the phone rules for locale, or nil when the locale has none.
func (l *Library) Phone(locale string) []Rule {
	return l.phone[strings.ToUpper(locale)]
}

// Postcode returns the postal code rules for locale.
func (l *Library) Postcode(locale string) []Rule {
	return l.postcode[strings.ToUpper(locale)]
}

// NationalID returns the national identifier rules for locale.
func (l *Library) NationalID(locale string) []Rule {
	return l.nationalID[strings.ToUpper(locale)]
}

// Locales lists the locales that have rules of the given kind, sorted.
func (l *Library) Locales(kind Kind) []string {
	var table map[string][]Rule
	switch kind {
	case KindPhone:
		table = l.phone
	case KindPostcode:
		table = l.postcode
	case KindNationalID:
		table = l.nationalID
	}
	out := make([]string, 0, len(table))
	for locale := range table {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

var (
	defaultOnce sync.Once
	defaultLib  *Library
)

// Default returns the built-in library. It is built on first use and shared.
func Default() *Library {
	defaultOnce.Do(func() {
		defaultLib = newDefaultLibrary()
	})
	return defaultLib
}

// Extensions are additional user supplied patterns, keyed by locale (or by
// platform for social profiles).
type Extensions struct {
	Phone      map[string][]string
	Postcode   map[string][]string
	NationalID map[string][]string
	Social     map[string][]string
}

// IsZero reports whether no extension is configured.
func (e Extensions) IsZero() bool {
	return len(e.Phone) == 0 && len(e.Postcode) == 0 && len(e.NationalID) == 0 && len(e.Social) == 0
}

// Build returns a library made of the defaults plus ext. The default library is
// left untouched.
func Build(ext Extensions) (*Library, error) {
	base := Default()
	if ext.IsZero() {
		return base, nil
	}

	lib := *base
	var err error
	if lib.phone, err = extendTable(base.phone, ext.Phone, "phone"); err != nil {
		return nil, err
	}
	if lib.postcode, err = extendTable(base.postcode, ext.Postcode, "postcode"); err != nil {
		return nil, err
	}
	if lib.nationalID, err = extendTable(base.nationalID, ext.NationalID, "national_id"); err != nil {
		return nil, err
	}

	lib.Social = append([]SocialRule(nil), base.Social...)
	platforms := make([]string, 0, len(ext.Social))
	for p := range ext.Social {
		platforms = append(platforms, p)
	}
	sort.Strings(platforms)
	for _, platform := range platforms {
		for i, expr := range ext.Social[platform] {
			re, err := compileExtension(expr)
			if err != nil {
				return nil, fmt.Errorf("social pattern %s[%d]: %w", platform, i, err)
			}
			lib.Social = append(lib.Social, SocialRule{
				Rule:     Rule{Name: fmt.Sprintf("custom_%s_%d", platform, i), Re: re},
				Platform: strings.ToLower(platform),
			})
		}
	}
	return &lib, nil
}

func extendTable(base map[string][]Rule, extra map[string][]string, kind string) (map[string][]Rule, error) {
	out := make(map[string][]Rule, len(base)+len(extra))
	for locale, rules := range base {
		out[locale] = rules
	}
	for locale, exprs := range extra {
		key := strings.ToUpper(strings.TrimSpace(locale))
		rules := append([]Rule(nil), out[key]...)
		for i, expr := range exprs {
			re, err := compileExtension(expr)
			if err != nil {
				return nil, fmt.Errorf("%s pattern %s[%d]: %w", kind, key, i, err)
			}
			rules = append(rules, Rule{Name: fmt.Sprintf("custom_%s_%d", strings.ToLower(key), i), Re: re})
		}
		out[key] = rules
	}
	return out, nil
}

// CompileCheck reports whether expr is usable as an extension pattern.
func CompileCheck(expr string) error {
	_, err := compileExtension(expr)
	return err
}

func compileExtension(expr string) (*regexp.Regexp, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("empty pattern")
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	if re.MatchString("") {
		return nil, fmt.Errorf("pattern %q matches the empty string", expr)
	}
	return re, nil
}
