// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"strings"
	"unicode/utf8"
)

// ContextInfo stores the text surrounding a match, used when a reviewer decides
// whether to keep it.
type ContextInfo struct {
	BeforeText string
	AfterText  string
	FullLine   string
	LineNumber int // 1-based
}

// ContextExtractor cuts context windows out of the document text.
type ContextExtractor struct {
	// Number of bytes before and after the match to consider
	ContextChars int
}

// NewContextExtractor creates a new context extractor with default settings
func NewContextExtractor() *ContextExtractor {
	return &ContextExtractor{ContextChars: 40}
}

// WithContextChars sets the window size on each side of the match.
func (ce *ContextExtractor) WithContextChars(chars int) *ContextExtractor {
	ce.ContextChars = chars
	return ce
}

// ExtractContext returns the surroundings of m within text. Windows never split
// a UTF-8 sequence and never cross a blank line.
func (ce *ContextExtractor) ExtractContext(text string, m Match) ContextInfo {
	if m.Start < 0 || m.End > len(text) || m.Start >= m.End {
		return ContextInfo{}
	}

	lineStart := strings.LastIndexByte(text[:m.Start], '\n') + 1
	lineEnd := len(text)
	if i := strings.IndexByte(text[m.End:], '\n'); i >= 0 {
		lineEnd = m.End + i
	}

	before := max(0, m.Start-ce.ContextChars)
	for before < m.Start && !utf8.RuneStart(text[before]) {
		before++
	}
	after := min(len(text), m.End+ce.ContextChars)
	for after < len(text) && !utf8.RuneStart(text[after]) {
		after++
	}

	beforeText := text[before:m.Start]
	if i := strings.LastIndex(beforeText, "\n\n"); i >= 0 {
		beforeText = beforeText[i+2:]
	}
	afterText := text[m.End:after]
	if i := strings.Index(afterText, "\n\n"); i >= 0 {
		afterText = afterText[:i]
	}

	return ContextInfo{
		BeforeText: beforeText,
		AfterText:  afterText,
		FullLine:   text[lineStart:lineEnd],
		LineNumber: strings.Count(text[:m.Start], "\n") + 1,
	}
}
