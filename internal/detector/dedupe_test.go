// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedupeOverlapping(t *testing.T) {
	text := "Tel: +44 7700 900123"
	byDigits := func(m Match) string { return "447700900123" }

	got := DedupeOverlapping([]Match{
		at(text, CategoryPhone, "7700 900123", 0.8),
		at(text, CategoryPhone, "+44 7700 900123", 0.9),
	}, byDigits)
	require.Len(t, got, 1)
	assert.Equal(t, "+44 7700 900123", got[0].Text)
}

func TestDedupeKeepsDistinctKeysAndSpans(t *testing.T) {
	text := "a@b.co and a@b.co"
	key := func(m Match) string { return m.Text }
	first := NewMatch(text, CategoryEmail, 0, 6, 0.9)
	second := NewMatch(text, CategoryEmail, 11, 17, 0.9)

	got := DedupeOverlapping([]Match{second, first}, key)
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].Start)

	other := NewMatch(text, CategoryName, 0, 3, 0.5)
	got = DedupeOverlapping([]Match{first, other}, func(m Match) string { return m.Category.String() })
	assert.Len(t, got, 2)
}
