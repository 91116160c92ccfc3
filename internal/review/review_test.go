// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package review

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-sanitizer/internal/detector"
	"cv-sanitizer/internal/preprocessors"
	"cv-sanitizer/internal/redactors"
)

const cvText = "Jane Smith\njane@example.com\n07700 900123\nEngineer at Acme Ltd"

func newSession(t *testing.T) *redactors.Session {
	t.Helper()
	find := func(c detector.Category, sub string, conf float64) detector.Match {
		i := strings.Index(cvText, sub)
		require.GreaterOrEqual(t, i, 0, sub)
		return detector.NewMatch(cvText, c, i, i+len(sub), conf)
	}
	return redactors.NewSession(cvText, "GB", []detector.Match{
		find(detector.CategoryName, "Jane Smith", 0.7),
		find(detector.CategoryEmail, "jane@example.com", 0.95),
		find(detector.CategoryPhone, "07700 900123", 0.9),
	})
}

func runReview(t *testing.T, session *redactors.Session, input string) (bool, string, error) {
	t.Helper()
	var out bytes.Buffer
	r := New(strings.NewReader(input), &out, true)
	doc := &preprocessors.Document{Path: "/tmp/cv.pdf", Text: cvText}
	ok, err := r.Review(context.Background(), doc, session)
	return ok, out.String(), err
}

func TestReviewRemoveAndConfirm(t *testing.T) {
	session := newSession(t)
	ok, out, err := runReview(t, session, "0\nr\nd\ny\n")
	require.NoError(t, err)
	assert.True(t, ok)

	matches := session.Matches()
	require.Len(t, matches, 2)
	assert.Equal(t, detector.CategoryEmail, matches[0].Category)
	require.Len(t, session.Edits(), 1)
	assert.Equal(t, "remove", session.Edits()[0].Type)

	assert.Contains(t, out, "PII Detection Preview: cv.pdf")
	assert.Contains(t, out, "[NAME]Jane Smith[/NAME]")
	assert.Contains(t, out, "PII item removed")
	assert.Contains(t, out, "2 items will be replaced")
}

func TestReviewEdit(t *testing.T) {
	session := newSession(t)
	ok, out, err := runReview(t, session, "1\ne\njane@example.co\nd\nyes\n")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out, "Line 2: ")

	email := session.Matches()[1]
	assert.Equal(t, "jane@example.co", email.Text)
	assert.Equal(t, email.Start+len("jane@example.co"), email.End)
	assert.Equal(t, "edit", session.Edits()[0].Type)
}

func TestReviewKeepIsNoOp(t *testing.T) {
	session := newSession(t)
	ok, out, err := runReview(t, session, "2\nk\nd\ny\n")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, session.Matches(), 3)
	assert.Empty(t, session.Edits())
	assert.Contains(t, out, "PII item kept")
}

func TestReviewAddManual(t *testing.T) {
	session := newSession(t)
	ok, out, err := runReview(t, session, "a\nname\nAcme Ltd\n\nd\ny\n")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out, "Added PII detection: [name] Acme Ltd")

	matches := session.Matches()
	require.Len(t, matches, 4)
	last := matches[3]
	assert.Equal(t, "Acme Ltd", last.Text)
	assert.Equal(t, strings.Index(cvText, "Acme Ltd"), last.Start)
	assert.InDelta(t, 1.0, last.Confidence, 1e-9)
}

func TestReviewAddManualRejectsBadInput(t *testing.T) {
	session := newSession(t)
	input := strings.Join([]string{
		"a", "99", // category out of range
		"a", "name", "Nobody", "", // text not in document
		"a", "name", "Jane", "", // only occurrence is inside a detection
		"d", "y",
	}, "\n") + "\n"
	ok, out, err := runReview(t, session, input)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, session.Matches(), 3)
	assert.Equal(t, 3, strings.Count(out, "Error: "))
}

func TestReviewQuitRejects(t *testing.T) {
	ok, _, err := runReview(t, newSession(t), "q\n")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReviewDeclineAtConfirmation(t *testing.T) {
	ok, out, err := runReview(t, newSession(t), "x\n7\nd\n\n")
	require.NoError(t, err)
	assert.False(t, ok, "empty answer defaults to no")
	assert.Contains(t, out, `Invalid option "x"`)
	assert.Contains(t, out, `Invalid option "7"`)
}

func TestReviewInputClosed(t *testing.T) {
	_, _, err := runReview(t, newSession(t), "0\n")
	assert.ErrorIs(t, err, ErrAborted)
}

func TestReviewHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := New(strings.NewReader("d\ny\n"), &bytes.Buffer{}, true)
	_, err := r.Review(ctx, &preprocessors.Document{Path: "cv.txt", Text: cvText}, newSession(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFreeOccurrence(t *testing.T) {
	text := "Jane met Jane"
	taken := []detector.Match{detector.NewMatch(text, detector.CategoryName, 0, 4, 0.7)}

	assert.Equal(t, 9, FreeOccurrence(text, "Jane", taken))
	assert.Equal(t, 0, FreeOccurrence(text, "Jane", nil))
	assert.Equal(t, -1, FreeOccurrence(text, "Bob", nil))
	assert.Equal(t, -1, FreeOccurrence(text, "", nil))
	assert.Equal(t, -1, FreeOccurrence("Jane", "Jane", taken))
}
