// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractContext(t *testing.T) {
	text := "Jane Smith\nEmail: jane@example.com (personal)\n\nExperience"
	m := at(text, CategoryEmail, "jane@example.com", 0.9)

	info := NewContextExtractor().WithContextChars(12).ExtractContext(text, m)
	assert.Equal(t, 2, info.LineNumber)
	assert.Equal(t, "Email: jane@example.com (personal)", info.FullLine)
	assert.Equal(t, "mith\nEmail: ", info.BeforeText)
	assert.Equal(t, " (personal)\n", info.AfterText)
}

func TestExtractContextStopsAtParagraph(t *testing.T) {
	text := "Skills\n\nPhone: 07700 900123"
	m := at(text, CategoryPhone, "07700 900123", 0.9)
	info := NewContextExtractor().ExtractContext(text, m)
	assert.Equal(t, "Phone: ", info.BeforeText)
	assert.Equal(t, "", info.AfterText)
}

func TestExtractContextInvalidSpan(t *testing.T) {
	assert.Equal(t, ContextInfo{}, NewContextExtractor().ExtractContext("abc", Match{Start: 2, End: 9}))
}
