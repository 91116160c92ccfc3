// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cv-sanitizer/internal/config"
	"cv-sanitizer/internal/detector"
	"cv-sanitizer/internal/formatters"
	"cv-sanitizer/internal/logger"
	"cv-sanitizer/internal/observability"
	"cv-sanitizer/internal/preprocessors"
	"cv-sanitizer/internal/redactors"
	"cv-sanitizer/internal/resilience"
	"cv-sanitizer/internal/sessions"
	"cv-sanitizer/internal/suppressions"
)

// ScanConfig holds configuration for scanning operations.
type ScanConfig struct {
	Config *config.Config // nil uses config.Default()

	// Categories overrides Config.Defaults.Categories when non-empty.
	Categories []string

	Observer *observability.StandardObserver

	// Suppressions drops ignored values after detection; nil keeps everything.
	Suppressions *suppressions.SuppressionManager
}

// Scanner is the extraction, detection and redaction pipeline shared by the
// CLI, the batch worker pool and the HTTP API.
type Scanner struct {
	cfg           *config.Config
	engine        *detector.Engine
	preprocessors *preprocessors.Manager
	observer      *observability.StandardObserver
	suppressions  *suppressions.SuppressionManager
}

// NewScanner builds the detector set and engine described by sc.
func NewScanner(sc ScanConfig) (*Scanner, error) {
	cfg := sc.Config
	if cfg == nil {
		cfg = config.Default()
	}

	lib, err := cfg.PatternLibrary()
	if err != nil {
		return nil, fmt.Errorf("failed to build pattern library: %w", err)
	}

	names := sc.Categories
	if len(names) == 0 {
		names = cfg.Defaults.Categories
	}
	enabled, err := ParseCategories(names)
	if err != nil {
		return nil, err
	}

	engine := detector.NewEngine(
		BuildDetectorSet(enabled, lib, sc.Observer),
		detector.WithDefaultLocale(cfg.Defaults.Locale),
		detector.WithMinConfidence(cfg.Defaults.MinConfidence),
		detector.WithMaxInputBytes(cfg.Defaults.MaxInputBytes),
		detector.WithParallel(cfg.Defaults.Parallel),
	)
	engine.SetObserver(sc.Observer)

	return &Scanner{
		cfg:           cfg,
		engine:        engine,
		preprocessors: preprocessors.NewManager(sc.Observer),
		observer:      sc.Observer,
		suppressions:  sc.Suppressions,
	}, nil
}

func (s *Scanner) Engine() *detector.Engine { return s.engine }

func (s *Scanner) Config() *config.Config { return s.cfg }

func (s *Scanner) Observer() *observability.StandardObserver { return s.observer }

// SupportedExtensions lists the file extensions the scanner can extract.
func (s *Scanner) SupportedExtensions() []string { return s.preprocessors.SupportedExtensions() }

// ScanResult is one scanned document.
type ScanResult struct {
	Document *preprocessors.Document
	Locale   string
	Matches  []detector.Match
}

// Report converts the result for the formatters.
func (r *ScanResult) Report() formatters.Report {
	return formatters.NewReport(r.Document.Filename(), r.Document.Extractor, r.Locale, r.Document.Text, r.Matches)
}

// DetectText runs the engine over raw text.
func (s *Scanner) DetectText(ctx context.Context, text, locale string) ([]detector.Match, error) {
	matches, err := s.engine.Detect(ctx, text, locale)
	if err != nil {
		return nil, err
	}
	return s.suppress(matches), nil
}

func (s *Scanner) suppress(matches []detector.Match) []detector.Match {
	kept, dropped := s.suppressions.Filter(matches)
	if dropped > 0 {
		logger.Debug("suppressed ignored values", zap.Int("count", dropped))
	}
	return kept
}

// ScanFile extracts path and detects PII in its text. An empty locale uses
// the configured default.
func (s *Scanner) ScanFile(ctx context.Context, path, locale string) (*ScanResult, error) {
	finishTiming := s.observer.StartTiming("scanner", "scan_file", path)

	doc, err := s.preprocessors.Process(path)
	if err != nil {
		s.observer.Metrics().CountDocument("extract_error")
		finishTiming(false, map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	if locale == "" {
		locale = s.engine.DefaultLocale()
	}
	locale = detector.NormalizeLocale(locale)

	matches, err := s.engine.Detect(ctx, doc.Text, locale)
	if err != nil {
		s.observer.Metrics().CountDocument("detect_error")
		finishTiming(false, map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	matches = s.suppress(matches)

	s.observer.Metrics().CountDocument("scanned")
	finishTiming(true, map[string]interface{}{"match_count": len(matches), "extractor": doc.Extractor})
	return &ScanResult{Document: doc, Locale: locale, Matches: matches}, nil
}

// Reviewer lets a person (or a policy) adjust a session before it is
// finalized. Returning false rejects the document.
type Reviewer interface {
	Review(ctx context.Context, doc *preprocessors.Document, session *redactors.Session) (confirmed bool, err error)
}

// AutoConfirm accepts every detection unchanged.
type AutoConfirm struct{}

func (AutoConfirm) Review(context.Context, *preprocessors.Document, *redactors.Session) (bool, error) {
	return true, nil
}

// RedactOptions controls RedactFile.
type RedactOptions struct {
	Locale    string
	OutputDir string // empty writes next to the input
	Username  string
	Reviewer  Reviewer       // nil auto-confirms
	Store     sessions.Store // nil skips the audit trail
}

// RedactOutcome is the result of RedactFile.
type RedactOutcome struct {
	SessionID string
	Scan      *ScanResult
	Result    *redactors.RedactionResult
	Outputs   *redactors.OutputPaths
	Edits     []redactors.EditRecord
	Confirmed bool
}

// ErrRejected is returned when the reviewer rejects a document.
var ErrRejected = errors.New("redaction rejected by reviewer")

// RedactFile runs extraction, detection, review and redaction for one file,
// writes the outputs and keeps the audit store in step. A document with no
// PII completes without writing outputs.
func (s *Scanner) RedactFile(ctx context.Context, path string, opts RedactOptions) (*RedactOutcome, error) {
	scan, err := s.ScanFile(ctx, path, opts.Locale)
	if err != nil {
		return nil, err
	}

	outcome := &RedactOutcome{Scan: scan}
	audit := newAuditTrail(opts.Store)
	if outcome.SessionID, err = audit.create(ctx, sessions.Record{
		Document:    path,
		Username:    opts.Username,
		CountryCode: scan.Locale,
	}); err != nil {
		return nil, err
	}
	if err := audit.detections(ctx, outcome.SessionID, scan.Matches); err != nil {
		return nil, err
	}

	session := redactors.NewSession(scan.Document.Text, scan.Locale, scan.Matches)
	session.SetObserver(s.observer)

	reviewer := opts.Reviewer
	if reviewer == nil {
		reviewer = AutoConfirm{}
	}
	confirmed, err := reviewer.Review(ctx, scan.Document, session)
	if err != nil {
		return nil, err
	}
	outcome.Edits = session.Edits()
	for _, e := range outcome.Edits {
		if err := audit.edit(ctx, outcome.SessionID, e); err != nil {
			return nil, err
		}
	}
	if err := audit.confirm(ctx, outcome.SessionID, opts.Username, confirmed); err != nil {
		return nil, err
	}
	if !confirmed {
		_ = audit.complete(ctx, outcome.SessionID, nil)
		return outcome, ErrRejected
	}
	outcome.Confirmed = true

	final := session.Matches()
	if len(final) == 0 {
		logger.Info("no PII to redact", zap.String("file", path))
		return outcome, audit.complete(ctx, outcome.SessionID, nil)
	}

	outcome.Result, err = session.Finalize()
	if err != nil {
		return nil, err
	}
	outcome.Outputs, err = redactors.SaveOutputs(redactors.OutputRequest{
		SourcePath:  path,
		OutputDir:   opts.OutputDir,
		CountryCode: scan.Locale,
		Extractor:   scan.Document.Extractor,
		Result:      outcome.Result,
		Matches:     final,
		Edits:       outcome.Edits,
	})
	if err != nil {
		return nil, err
	}
	scan.Matches = final

	return outcome, audit.complete(ctx, outcome.SessionID, map[string]string{
		"redacted_json":    outcome.Outputs.RedactedJSON,
		"pii_mapping_json": outcome.Outputs.MappingJSON,
	})
}

// auditTrail forwards to a store when one is configured. Store calls that
// fail with contention or connection errors are retried.
type auditTrail struct {
	store sessions.Store
	retry resilience.RetryConfig
}

func newAuditTrail(store sessions.Store) auditTrail {
	return auditTrail{store: store, retry: resilience.DefaultRetryConfig()}
}

func (a auditTrail) do(ctx context.Context, op func(context.Context) error) error {
	if a.store == nil {
		return nil
	}
	if err := resilience.RetryWithBackoff(ctx, a.retry, op); err != nil {
		return fmt.Errorf("audit: %w", err)
	}
	return nil
}

func (a auditTrail) create(ctx context.Context, rec sessions.Record) (string, error) {
	if a.store == nil {
		return "", nil
	}
	// A fixed id keeps a retried insert from creating a second record.
	rec.ID = uuid.NewString()
	err := a.do(ctx, func(ctx context.Context) error {
		_, err := a.store.Create(ctx, rec)
		return err
	})
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (a auditTrail) detections(ctx context.Context, id string, matches []detector.Match) error {
	return a.do(ctx, func(ctx context.Context) error { return a.store.RecordDetections(ctx, id, matches) })
}

func (a auditTrail) edit(ctx context.Context, id string, e redactors.EditRecord) error {
	return a.do(ctx, func(ctx context.Context) error { return a.store.RecordEdit(ctx, id, e) })
}

func (a auditTrail) confirm(ctx context.Context, id, username string, confirmed bool) error {
	return a.do(ctx, func(ctx context.Context) error {
		return a.store.RecordConfirmation(ctx, id, username, confirmed, "")
	})
}

func (a auditTrail) complete(ctx context.Context, id string, outputs map[string]string) error {
	return a.do(ctx, func(ctx context.Context) error { return a.store.Complete(ctx, id, outputs) })
}
