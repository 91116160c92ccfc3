// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package sessions

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"cv-sanitizer/internal/detector"
	"cv-sanitizer/internal/redactors"
)

var (
	ErrNotFound          = errors.New("session not found")
	ErrInvalidTransition = errors.New("invalid session status transition")
)

// Status is the position of a session in its audit lifecycle:
// created -> pii_detected -> confirmed|rejected -> completed.
type Status string

const (
	StatusCreated     Status = "created"
	StatusPIIDetected Status = "pii_detected"
	StatusConfirmed   Status = "confirmed"
	StatusRejected    Status = "rejected"
	StatusCompleted   Status = "completed"
)

// Confirmation is the reviewer's final decision on a session.
type Confirmation struct {
	Username  string    `json:"username"`
	Confirmed bool      `json:"confirmed"`
	Notes     string    `json:"notes,omitempty"`
	Timestamp time.Time `json:"confirmation_time"`
}

// Record is the audit trail of processing one CV.
type Record struct {
	ID           string                 `json:"session_id"`
	Document     string                 `json:"document"`
	Username     string                 `json:"username"`
	CountryCode  string                 `json:"country_code"`
	Status       Status                 `json:"status"`
	Detections   []detector.Match       `json:"pii_detected"`
	Edits        []redactors.EditRecord `json:"user_edits"`
	Confirmation *Confirmation          `json:"final_confirmation,omitempty"`
	Outputs      map[string]string      `json:"output_files,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
	CompletedAt  *time.Time             `json:"processing_completed_at,omitempty"`
}

// Store persists session records.
type Store interface {
	// Create stores a new record. An empty ID is filled in; the status is
	// forced to created.
	Create(ctx context.Context, rec Record) (Record, error)
	RecordDetections(ctx context.Context, id string, matches []detector.Match) error
	RecordEdit(ctx context.Context, id string, edit redactors.EditRecord) error
	RecordConfirmation(ctx context.Context, id, username string, confirmed bool, notes string) error
	Complete(ctx context.Context, id string, outputs map[string]string) error
	Get(ctx context.Context, id string) (Record, error)
	// List returns the records of username, or all records when username is
	// empty, newest first.
	List(ctx context.Context, username string) ([]Record, error)
	Close() error
}

var transitions = map[Status][]Status{
	StatusCreated:     {StatusPIIDetected},
	StatusPIIDetected: {StatusPIIDetected, StatusConfirmed, StatusRejected},
	StatusConfirmed:   {StatusCompleted},
	StatusRejected:    {StatusCompleted},
}

func checkTransition(from, to Status) error {
	for _, s := range transitions[from] {
		if s == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

func checkEditable(status Status) error {
	if status != StatusPIIDetected {
		return fmt.Errorf("%w: cannot edit a session in status %s", ErrInvalidTransition, status)
	}
	return nil
}

// AuditReport summarizes a set of sessions.
type AuditReport struct {
	TotalSessions     int      `json:"total_sessions"`
	CompletedSessions int      `json:"completed_sessions"`
	RejectedSessions  int      `json:"rejected_sessions"`
	PendingSessions   int      `json:"pending_sessions"`
	TotalDetections   int      `json:"total_detections"`
	TotalEdits        int      `json:"total_edits"`
	Countries         []string `json:"countries_used"`
	Users             []string `json:"unique_users"`
}

// Summarize builds an audit report over records created in [from, to].
// Zero times leave that side open.
func Summarize(records []Record, from, to time.Time) AuditReport {
	var r AuditReport
	countries := map[string]bool{}
	users := map[string]bool{}
	for _, rec := range records {
		if !from.IsZero() && rec.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && rec.CreatedAt.After(to) {
			continue
		}
		r.TotalSessions++
		switch {
		case rec.Confirmation != nil && !rec.Confirmation.Confirmed:
			r.RejectedSessions++
		case rec.Status == StatusCompleted:
			r.CompletedSessions++
		default:
			r.PendingSessions++
		}
		r.TotalDetections += len(rec.Detections)
		r.TotalEdits += len(rec.Edits)
		if rec.CountryCode != "" {
			countries[rec.CountryCode] = true
		}
		if rec.Username != "" {
			users[rec.Username] = true
		}
	}
	r.Countries = sortedSet(countries)
	r.Users = sortedSet(users)
	return r
}

func sortedSet(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
