// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package patterns

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// IsBoundary reports whether [start,end) is not glued to a letter or digit on
// either side. RE2's \b only knows ASCII, so rules touching accented letters
// use this instead.
func IsBoundary(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

// TrimSpan shrinks [start,end) past leading and trailing whitespace.
func TrimSpan(text string, start, end int) (int, int) {
	for start < end {
		r, size := utf8.DecodeRuneInString(text[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		start += size
	}
	for end > start {
		r, size := utf8.DecodeLastRuneInString(text[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		end -= size
	}
	return start, end
}

// TrimTrailing shrinks the end of [start,end) past any rune in cutset.
func TrimTrailing(text string, start, end int, cutset string) int {
	for end > start {
		r, size := utf8.DecodeLastRuneInString(text[start:end])
		if !strings.ContainsRune(cutset, r) && !unicode.IsSpace(r) {
			break
		}
		end -= size
	}
	return end
}

// Digits returns only the ASCII digits of s.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// CollapseSpace replaces whitespace runs with a single space and trims.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// followedByCapitalised reports whether the text after end (skipping spaces) starts with
// an upper-case letter.
func followedByCapitalised(text string, end int) bool {
	rest := strings.TrimLeft(text[end:], " \t")
	if len(rest) == len(text[end:]) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return unicode.IsUpper(r)
}

// precededByUpperWord reports whether the text before start ends with a short
// all-capitals token such as a state code ("NSW 2000").
func precededByUpperWord(text string, start int) bool {
	head := strings.TrimRight(text[:start], " \t")
	if len(head) == len(text[:start]) {
		return false
	}
	i := len(head)
	for i > 0 {
		r, size := utf8.DecodeLastRuneInString(head[:i])
		if !unicode.IsUpper(r) {
			break
		}
		i -= size
	}
	n := utf8.RuneCountInString(head[i:])
	if n < 2 || n > 3 {
		return false
	}
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(head[:i])
		if isWordRune(r) {
			return false
		}
	}
	return true
}
