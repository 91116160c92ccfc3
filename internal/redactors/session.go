// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redactors

import (
	"fmt"
	"sync"
	"time"

	"cv-sanitizer/internal/detector"
	"cv-sanitizer/internal/observability"
)

// EditAction is a reviewer decision on one detected match.
type EditAction string

const (
	ActionKeep   EditAction = "keep"
	ActionRemove EditAction = "remove"
	ActionEdit   EditAction = "edit"
)

// Edit addresses a match by its index in the list as it was when the batch
// started.
type Edit struct {
	ID      int        `json:"id" yaml:"id"`
	Action  EditAction `json:"action" yaml:"action"`
	NewText string     `json:"new_text,omitempty" yaml:"new_text,omitempty"`
}

// ManualMatch is a span the reviewer marks as PII.
type ManualMatch struct {
	Category string `json:"category" yaml:"category"`
	Text     string `json:"text" yaml:"text"`
	Start    int    `json:"start" yaml:"start"`
	End      int    `json:"end" yaml:"end"`
}

// EditRecord is one entry of the audit trail kept by a Session.
type EditRecord struct {
	Type          string          `json:"type" yaml:"type"`
	OriginalMatch *detector.Match `json:"original_match,omitempty" yaml:"original_match,omitempty"`
	NewMatch      *detector.Match `json:"new_match,omitempty" yaml:"new_match,omitempty"`
	Timestamp     time.Time       `json:"timestamp" yaml:"timestamp"`
}

// Session holds one document under review: its text, the current match list and
// the log of reviewer changes. Methods are safe for concurrent use.
type Session struct {
	mu       sync.Mutex
	text     string
	locale   string
	matches  []detector.Match
	edits    []EditRecord
	observer *observability.StandardObserver
	now      func() time.Time
}

// NewSession starts a review over matches, which are copied and sorted.
func NewSession(text, locale string, matches []detector.Match) *Session {
	s := &Session{
		text:    text,
		locale:  detector.NormalizeLocale(locale),
		matches: cloneMatches(matches),
		now:     time.Now,
	}
	detector.SortMatches(s.matches)
	return s
}

// SetObserver sets the observability component
func (s *Session) SetObserver(observer *observability.StandardObserver) {
	s.observer = observer
}

func (s *Session) Text() string   { return s.text }
func (s *Session) Locale() string { return s.locale }

// Matches returns a copy of the current match list.
func (s *Session) Matches() []detector.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneMatches(s.matches)
}

// Edits returns a copy of the audit trail.
func (s *Session) Edits() []EditRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]EditRecord, len(s.edits))
	copy(out, s.edits)
	return out
}

// ApplyEdits applies a batch of reviewer decisions. Matches not named in the
// batch are kept. The batch is validated as a whole: on error the session is
// unchanged.
//
// An edit keeps the match's start and moves its end to start+len(NewText).
// NewText must equal the document at that span, so an edit can only grow or
// shrink a match over the text that is already there; the mapping always
// records the document span as the original.
func (s *Session) ApplyEdits(edits []Edit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := make(map[int]bool)
	replaced := make(map[int]detector.Match)
	seen := make(map[int]bool, len(edits))

	for _, e := range edits {
		if e.ID < 0 || e.ID >= len(s.matches) {
			return inputError("session", ErrInvalidEditID, "id %d not in [0,%d)", e.ID, len(s.matches))
		}
		if seen[e.ID] {
			return inputError("session", ErrInvalidEditID, "id %d listed more than once", e.ID)
		}
		seen[e.ID] = true

		switch e.Action {
		case ActionKeep:
		case ActionRemove:
			removed[e.ID] = true
		case ActionEdit:
			if e.NewText == "" {
				return inputError("session", ErrInvalidAction, "edit of id %d has no new_text", e.ID)
			}
			m := s.matches[e.ID].Clone()
			m.Text = e.NewText
			m.End = m.Start + len(e.NewText)
			if m.End > len(s.text) {
				return inputError("session", ErrOutOfBounds, "edit of id %d ends at %d beyond %d", e.ID, m.End, len(s.text))
			}
			if s.text[m.Start:m.End] != e.NewText {
				return inputError("session", ErrTextMismatch, "edit of id %d: %q differs from span %q", e.ID, e.NewText, s.text[m.Start:m.End])
			}
			replaced[e.ID] = m
		default:
			return inputError("session", ErrInvalidAction, "unknown action %q", e.Action)
		}
	}

	next := make([]detector.Match, 0, len(s.matches))
	for i, m := range s.matches {
		if removed[i] {
			continue
		}
		if r, ok := replaced[i]; ok {
			m = r
		}
		next = append(next, m)
	}
	if len(replaced) > 0 {
		detector.SortMatches(next)
		for i := 1; i < len(next); i++ {
			if next[i-1].End > next[i].Start {
				return inputError("session", ErrOverlappingMatches, "edited span [%d,%d) collides with [%d,%d)",
					next[i-1].Start, next[i-1].End, next[i].Start, next[i].End)
			}
		}
	}

	ts := s.now()
	for i := range s.matches {
		orig := s.matches[i]
		if removed[i] {
			s.edits = append(s.edits, EditRecord{Type: string(ActionRemove), OriginalMatch: &orig, Timestamp: ts})
		} else if nm, ok := replaced[i]; ok {
			s.edits = append(s.edits, EditRecord{Type: string(ActionEdit), OriginalMatch: &orig, NewMatch: &nm, Timestamp: ts})
		}
	}
	s.matches = next
	return nil
}

// AddManual appends a reviewer supplied match with confidence 1.0. The text must
// equal the document span and must not overlap an existing match.
func (s *Session) AddManual(mm ManualMatch) (detector.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := detector.ParseCategory(mm.Category)
	if err != nil {
		return detector.Match{}, inputError("session", err, "manual match category")
	}
	if mm.Start < 0 || mm.End > len(s.text) || mm.Start >= mm.End {
		return detector.Match{}, inputError("session", ErrOutOfBounds, "manual match [%d,%d) outside text of %d bytes", mm.Start, mm.End, len(s.text))
	}
	if s.text[mm.Start:mm.End] != mm.Text {
		return detector.Match{}, inputError("session", ErrTextMismatch, "manual match text %q differs from span %q", mm.Text, s.text[mm.Start:mm.End])
	}

	m := detector.NewMatch(s.text, c, mm.Start, mm.End, 1.0)
	m.Locale = s.locale
	m.Metadata = map[string]any{"source": "manual"}
	for _, existing := range s.matches {
		if existing.Overlaps(m) {
			return detector.Match{}, inputError("session", ErrOverlappingMatches, "manual match [%d,%d) overlaps %s [%d,%d)",
				m.Start, m.End, existing.Category, existing.Start, existing.End)
		}
	}

	s.matches = append(s.matches, m)
	detector.SortMatches(s.matches)
	added := m.Clone()
	s.edits = append(s.edits, EditRecord{Type: "add", NewMatch: &added, Timestamp: s.now()})
	return m, nil
}

// Finalize redacts the document with the current match list.
func (s *Session) Finalize() (*RedactionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	finishTiming := s.observer.StartTiming("session", "finalize", "")
	result, err := Redact(s.text, s.matches)
	if err != nil {
		s.observer.Metrics().CountRedaction("error")
		finishTiming(false, map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	s.observer.Metrics().CountRedaction("success")
	finishTiming(true, map[string]interface{}{
		"placeholders": len(result.Mapping),
		"edits":        len(s.edits),
	})
	return result, nil
}

// String summarises the session for debug logs.
func (s *Session) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("session(locale=%s, matches=%d, edits=%d)", s.locale, len(s.matches), len(s.edits))
}

func cloneMatches(matches []detector.Match) []detector.Match {
	out := make([]detector.Match, len(matches))
	for i, m := range matches {
		out[i] = m.Clone()
	}
	return out
}
