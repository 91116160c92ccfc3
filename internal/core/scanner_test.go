// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cv-sanitizer/internal/config"
	"cv-sanitizer/internal/detector"
	"cv-sanitizer/internal/preprocessors"
	"cv-sanitizer/internal/redactors"
	"cv-sanitizer/internal/sessions"
	"cv-sanitizer/internal/suppressions"
)

func newTestScanner(t *testing.T, categories ...string) *Scanner {
	t.Helper()
	s, err := NewScanner(ScanConfig{Config: config.Default(), Categories: categories})
	if err != nil {
		t.Fatalf("NewScanner: %v", err)
	}
	return s
}

func ofCategory(matches []detector.Match, c detector.Category) []detector.Match {
	var out []detector.Match
	for _, m := range matches {
		if m.Category == c {
			out = append(out, m)
		}
	}
	return out
}

func writeCV(t *testing.T, name, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseCategories_All(t *testing.T) {
	for _, input := range [][]string{nil, {}, {"all"}} {
		enabled, err := ParseCategories(input)
		if err != nil {
			t.Fatalf("ParseCategories(%v): %v", input, err)
		}
		if enabled != nil {
			t.Errorf("ParseCategories(%v) = %v, want nil", input, enabled)
		}
	}
}

func TestParseCategories_Specific(t *testing.T) {
	enabled, err := ParseCategories([]string{"email", " ", "PHONE"})
	if err != nil {
		t.Fatal(err)
	}
	if !enabled[detector.CategoryEmail] || !enabled[detector.CategoryPhone] {
		t.Errorf("email and phone should be enabled, got %v", enabled)
	}
	if enabled[detector.CategoryName] {
		t.Error("name should not be enabled")
	}

	if _, err := ParseCategories([]string{"credit_card"}); !errors.Is(err, detector.ErrUnknownCategory) {
		t.Errorf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestBuildDetectorSet(t *testing.T) {
	all := BuildDetectorSet(nil, nil, nil)
	if len(all) != 11 {
		t.Fatalf("expected 11 detectors, got %d", len(all))
	}
	if all[0].Category() != detector.CategoryEmail {
		t.Errorf("first detector should be email, got %s", all[0].Category())
	}

	some := BuildDetectorSet(map[detector.Category]bool{detector.CategoryPhone: true, detector.CategoryLinkedIn: true}, nil, nil)
	if len(some) != 2 {
		t.Fatalf("expected 2 detectors, got %d", len(some))
	}
	text := "linkedin.com/in/janedoe and github.com/janedoe"
	for _, m := range some[1].Detect(text, "GB") {
		if m.Category != detector.CategoryLinkedIn {
			t.Errorf("filtered social detector returned %s", m.Category)
		}
	}
}

func TestScenarioEmail(t *testing.T) {
	s := newTestScanner(t)
	matches, err := s.DetectText(context.Background(), "Contact: jane.doe@example.com", "GB")
	if err != nil {
		t.Fatal(err)
	}
	emails := ofCategory(matches, detector.CategoryEmail)
	if len(emails) != 1 {
		t.Fatalf("expected one email, got %v", matches)
	}
	if emails[0].Text != "jane.doe@example.com" {
		t.Errorf("text = %q", emails[0].Text)
	}
	if emails[0].Confidence < 0.7 {
		t.Errorf("confidence = %v, want >= 0.7", emails[0].Confidence)
	}
}

func TestScenarioUKMobile(t *testing.T) {
	s := newTestScanner(t)
	matches, err := s.DetectText(context.Background(), "Mobile: 07700 900123", "GB")
	if err != nil {
		t.Fatal(err)
	}
	phones := ofCategory(matches, detector.CategoryPhone)
	if len(phones) != 1 || phones[0].Text != "07700 900123" {
		t.Fatalf("expected phone 07700 900123, got %v", matches)
	}
}

func TestScenarioAddressMerge(t *testing.T) {
	s := newTestScanner(t)
	text := "123 High Street, SW1A 1AA"
	matches, err := s.DetectText(context.Background(), text, "GB")
	if err != nil {
		t.Fatal(err)
	}
	addresses := ofCategory(matches, detector.CategoryAddress)
	if len(addresses) != 1 {
		t.Fatalf("expected one address, got %v", matches)
	}
	if addresses[0].Text != text {
		t.Errorf("merged address = %q, want %q", addresses[0].Text, text)
	}
	if len(ofCategory(matches, detector.CategoryPostcode)) != 0 {
		t.Error("postcode should have been merged into the address")
	}
}

func TestDetectTextErrors(t *testing.T) {
	s := newTestScanner(t)
	if _, err := s.DetectText(context.Background(), "   ", "GB"); !errors.Is(err, detector.ErrEmptyText) {
		t.Errorf("expected ErrEmptyText, got %v", err)
	}
}

func TestScanFile(t *testing.T) {
	s := newTestScanner(t)
	path := writeCV(t, "cv.txt", "Contact: jane.doe@example.com\r\n")

	result, err := s.ScanFile(context.Background(), path, "")
	if err != nil {
		t.Fatal(err)
	}
	if result.Locale != "GB" {
		t.Errorf("locale = %q, want configured default GB", result.Locale)
	}
	if strings.Contains(result.Document.Text, "\r") {
		t.Error("document text was not normalized")
	}
	report := result.Report()
	if report.Document != "cv.txt" || report.Summary.Total != len(result.Matches) {
		t.Errorf("unexpected report %+v", report)
	}

	if _, err := s.ScanFile(context.Background(), writeCV(t, "cv.docx", "x"), ""); !errors.Is(err, preprocessors.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestRedactFile(t *testing.T) {
	ctx := context.Background()
	s := newTestScanner(t, "email", "phone")
	store, err := sessions.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	text := "Contact: jane.doe@example.com\nMobile: 07700 900123\n"
	path := writeCV(t, "cv.txt", text)
	outDir := t.TempDir()

	outcome, err := s.RedactFile(ctx, path, RedactOptions{Locale: "gb", OutputDir: outDir, Username: "alice", Store: store})
	if err != nil {
		t.Fatal(err)
	}
	if !outcome.Confirmed || outcome.SessionID == "" {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if len(outcome.Result.Mapping) != 2 {
		t.Fatalf("expected 2 mapping entries, got %d", len(outcome.Result.Mapping))
	}
	if strings.Contains(outcome.Result.RedactedText, "jane.doe") || strings.Contains(outcome.Result.RedactedText, "900123") {
		t.Errorf("PII left in redacted text: %q", outcome.Result.RedactedText)
	}
	if !strings.Contains(outcome.Result.RedactedText, `<pii type="email" serial="2">`) {
		t.Errorf("missing email placeholder in %q", outcome.Result.RedactedText)
	}
	if got := redactors.Restore(outcome.Result.RedactedText, outcome.Result.Mapping); got != text {
		t.Errorf("restore mismatch:\n got %q\nwant %q", got, text)
	}

	if filepath.Dir(outcome.Outputs.RedactedJSON) != outDir {
		t.Errorf("outputs written to %s, want %s", outcome.Outputs.RedactedJSON, outDir)
	}
	mapping, err := redactors.LoadMapping(outcome.Outputs.MappingJSON)
	if err != nil {
		t.Fatal(err)
	}
	if len(mapping) != 2 {
		t.Errorf("saved mapping has %d entries", len(mapping))
	}

	rec, err := store.Get(ctx, outcome.SessionID)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Status != sessions.StatusCompleted || rec.Outputs["pii_mapping_json"] != outcome.Outputs.MappingJSON {
		t.Errorf("unexpected audit record %+v", rec)
	}
	if len(rec.Detections) != 2 {
		t.Errorf("audit recorded %d detections", len(rec.Detections))
	}
}

type removeFirst struct{}

func (removeFirst) Review(_ context.Context, _ *preprocessors.Document, s *redactors.Session) (bool, error) {
	return true, s.ApplyEdits([]redactors.Edit{{ID: 0, Action: redactors.ActionRemove}})
}

type rejectAll struct{}

func (rejectAll) Review(context.Context, *preprocessors.Document, *redactors.Session) (bool, error) {
	return false, nil
}

func TestRedactFileWithReviewerEdits(t *testing.T) {
	ctx := context.Background()
	s := newTestScanner(t, "email", "phone")
	store, err := sessions.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := writeCV(t, "cv.txt", "Contact: jane.doe@example.com\nMobile: 07700 900123\n")

	outcome, err := s.RedactFile(ctx, path, RedactOptions{Locale: "GB", OutputDir: t.TempDir(), Store: store, Reviewer: removeFirst{}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(outcome.Result.RedactedText, "jane.doe@example.com") {
		t.Error("removed detection should stay in clear text")
	}
	if len(outcome.Result.Mapping) != 1 || len(outcome.Edits) != 1 {
		t.Errorf("mapping=%d edits=%d, want 1 and 1", len(outcome.Result.Mapping), len(outcome.Edits))
	}

	rec, err := store.Get(ctx, outcome.SessionID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.Edits) != 1 || rec.Edits[0].Type != "remove" {
		t.Errorf("audit edits = %+v", rec.Edits)
	}
}

func TestRedactFileRejected(t *testing.T) {
	ctx := context.Background()
	s := newTestScanner(t)
	store, err := sessions.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := writeCV(t, "cv.txt", "Contact: jane.doe@example.com\n")
	outDir := t.TempDir()

	outcome, err := s.RedactFile(ctx, path, RedactOptions{OutputDir: outDir, Store: store, Reviewer: rejectAll{}})
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
	entries, _ := os.ReadDir(outDir)
	if len(entries) != 0 {
		t.Errorf("rejected document wrote %d files", len(entries))
	}
	rec, err := store.Get(ctx, outcome.SessionID)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Confirmation == nil || rec.Confirmation.Confirmed {
		t.Errorf("expected a rejection in the audit record, got %+v", rec.Confirmation)
	}
}

func TestRedactFileWithoutPII(t *testing.T) {
	s := newTestScanner(t, "email")
	path := writeCV(t, "cv.txt", "Senior engineer with ten years of experience.\n")

	outcome, err := s.RedactFile(context.Background(), path, RedactOptions{OutputDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	if outcome.Outputs != nil || outcome.Result != nil {
		t.Errorf("no outputs expected for a document without PII, got %+v", outcome)
	}
}

func TestScannerSuppressions(t *testing.T) {
	sm, err := suppressions.NewSuppressionManager(filepath.Join(t.TempDir(), "suppressions.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sm.AddSuppression("email", "jobs@example.com", "employer inbox", "", nil); err != nil {
		t.Fatal(err)
	}
	s, err := NewScanner(ScanConfig{Config: config.Default(), Categories: []string{"email"}, Suppressions: sm})
	if err != nil {
		t.Fatal(err)
	}

	text := "Contact: jane.doe@example.com\nApply via jobs@example.com\n"
	matches, err := s.DetectText(context.Background(), text, "GB")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 || matches[0].Text != "jane.doe@example.com" {
		t.Fatalf("DetectText = %v, want only the personal address", matches)
	}

	result, err := s.ScanFile(context.Background(), writeCV(t, "cv.txt", text), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Matches) != 1 {
		t.Errorf("ScanFile kept %d matches, want 1", len(result.Matches))
	}
}
