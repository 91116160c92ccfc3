// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"regexp"
	"strings"
)

var (
	// "develop-\nment" -> "development"; only lowercase continuations so
	// dashed ranges like "2019-\n2021" survive.
	hyphenBreak = regexp.MustCompile(`(\p{L})-\n[ \t]*(\p{Ll})`)
	spaceRun    = regexp.MustCompile(`[ \t\x{00A0}]{2,}`)
)

// Normalize repairs extraction artefacts while keeping line structure:
// CRLF becomes LF, hyphenated line breaks are joined, runs of spaces collapse
// to one and trailing spaces are trimmed from each line.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\t", " ")
	text = hyphenBreak.ReplaceAllString(text, "$1$2")
	text = spaceRun.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \u00a0")
	}
	return strings.Join(lines, "\n")
}
