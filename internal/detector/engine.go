// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"cv-sanitizer/internal/observability"
)

var (
	// ErrEmptyText is returned when detection is asked to run on blank input.
	ErrEmptyText = errors.New("no text to analyze")
	// ErrInputTooLarge is returned when the input exceeds the configured cap.
	ErrInputTooLarge = errors.New("input exceeds maximum size")
)

// DefaultMaxInputBytes caps a single document at 4 MiB.
const DefaultMaxInputBytes = 4 << 20

// Engine runs every registered detector over a document and reduces the
// candidates to a finalized, non-overlapping match list.
type Engine struct {
	detectors     []Detector
	defaultLocale string
	maxInputBytes int
	minConfidence float64
	parallel      bool
	observer      *observability.StandardObserver
}

// Option configures an Engine.
type Option func(*Engine)

// WithDefaultLocale sets the locale used when Detect is called without one.
func WithDefaultLocale(locale string) Option {
	return func(e *Engine) { e.defaultLocale = NormalizeLocale(locale) }
}

// WithMaxInputBytes sets the input size cap; zero or less disables it.
func WithMaxInputBytes(n int) Option {
	return func(e *Engine) { e.maxInputBytes = n }
}

// WithMinConfidence drops candidates scoring below min before resolution.
func WithMinConfidence(min float64) Option {
	return func(e *Engine) { e.minConfidence = min }
}

// WithParallel toggles concurrent detector execution.
func WithParallel(parallel bool) Option {
	return func(e *Engine) { e.parallel = parallel }
}

// NewEngine creates an engine over the given detectors. Registration order only
// matters for logging; results are sorted before resolution.
func NewEngine(detectors []Detector, opts ...Option) *Engine {
	e := &Engine{
		detectors:     detectors,
		defaultLocale: "GB",
		maxInputBytes: DefaultMaxInputBytes,
		parallel:      true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetObserver sets the observability component
func (e *Engine) SetObserver(observer *observability.StandardObserver) {
	e.observer = observer
}

// DefaultLocale returns the locale applied when none is requested.
func (e *Engine) DefaultLocale() string {
	return e.defaultLocale
}

// Categories lists the categories covered by the registered detectors.
func (e *Engine) Categories() []Category {
	seen := make(map[Category]bool)
	var out []Category
	for _, d := range e.detectors {
		c := d.Category()
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// Detect returns the finalized matches for text: all detector candidates,
// sorted, overlap-resolved and with adjacent address parts merged.
func (e *Engine) Detect(ctx context.Context, text, locale string) ([]Match, error) {
	return e.detect(ctx, text, locale, e.parallel)
}

// DetectSequential is Detect with the detectors run one after another on the
// calling goroutine.
func (e *Engine) DetectSequential(ctx context.Context, text, locale string) ([]Match, error) {
	return e.detect(ctx, text, locale, false)
}

func (e *Engine) detect(ctx context.Context, text, locale string, parallel bool) ([]Match, error) {
	finishTiming := e.observer.StartTiming("engine", "detect", "")

	candidates, err := e.candidates(ctx, text, locale, parallel)
	if err != nil {
		finishTiming(false, map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	var finishStep func(bool, string)
	if e.observer != nil && e.observer.DebugObserver != nil {
		finishStep = e.observer.DebugObserver.StartStep("engine", "resolve", fmt.Sprintf("%d candidates", len(candidates)))
	}

	resolved := ResolveOverlaps(candidates)
	final := MergeAddresses(text, resolved)

	if finishStep != nil {
		finishStep(true, fmt.Sprintf("%d resolved, %d final", len(resolved), len(final)))
	}

	if m := e.observer.Metrics(); m != nil {
		for _, match := range final {
			m.CountMatch(match.Category.String())
		}
	}

	finishTiming(true, map[string]interface{}{
		"candidates": len(candidates),
		"matches":    len(final),
		"bytes":      len(text),
	})
	return final, nil
}

// Candidates runs every detector and returns the sorted, unresolved candidate
// list.
func (e *Engine) Candidates(ctx context.Context, text, locale string) ([]Match, error) {
	return e.candidates(ctx, text, locale, e.parallel)
}

func (e *Engine) candidates(ctx context.Context, text, locale string, parallel bool) ([]Match, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if e.maxInputBytes > 0 && len(text) > e.maxInputBytes {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrInputTooLarge, len(text), e.maxInputBytes)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	locale = NormalizeLocale(locale)
	if locale == "" {
		locale = e.defaultLocale
	}

	var perDetector [][]Match
	if parallel && len(e.detectors) > 1 {
		perDetector = e.runParallel(text, locale)
	} else {
		perDetector = e.runSequential(text, locale)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var all []Match
	for _, matches := range perDetector {
		for _, m := range matches {
			if m.Confidence < e.minConfidence {
				continue
			}
			all = append(all, m)
		}
	}
	SortMatches(all)
	return all, nil
}

func (e *Engine) runSequential(text, locale string) [][]Match {
	results := make([][]Match, len(e.detectors))
	for i, d := range e.detectors {
		results[i] = e.runOne(d, text, locale)
	}
	return results
}

// runParallel fans the detectors out and collects results by registration index
// so the concatenation order is stable.
func (e *Engine) runParallel(text, locale string) [][]Match {
	results := make([][]Match, len(e.detectors))
	var wg sync.WaitGroup
	for i, d := range e.detectors {
		wg.Add(1)
		go func(i int, d Detector) {
			defer wg.Done()
			results[i] = e.runOne(d, text, locale)
		}(i, d)
	}
	wg.Wait()
	return results
}

func (e *Engine) runOne(d Detector, text, locale string) []Match {
	start := time.Now()
	matches := d.Detect(text, locale)
	e.observer.Metrics().ObserveDetector(d.Name(), time.Since(start))
	if e.observer != nil && e.observer.DebugObserver != nil {
		e.observer.DebugObserver.LogMetric(d.Name(), "candidates", len(matches))
	}
	return matches
}
