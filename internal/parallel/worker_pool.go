// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"cv-sanitizer/internal/core"
	"cv-sanitizer/internal/logger"
	"cv-sanitizer/internal/observability"
)

// ErrPoolClosed is returned by Submit after Close.
var ErrPoolClosed = errors.New("worker pool is closed")

// WorkerPool redacts files concurrently. Every job is auto-confirmed; a
// failing file is reported in its JobResult and does not stop the others.
type WorkerPool struct {
	workers  int
	scanner  *core.Scanner
	opts     core.RedactOptions
	jobs     chan *Job
	results  chan *JobResult
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	observer *observability.StandardObserver

	mu     sync.Mutex
	closed bool
	stats  Stats
}

// Job represents a file processing task
type Job struct {
	ID     string
	Path   string
	Locale string // empty uses the options' locale
}

// JobResult is the outcome of one job.
type JobResult struct {
	JobID    string
	Path     string
	Outcome  *core.RedactOutcome
	Err      error
	Duration time.Duration
}

// Matches returns the number of redacted spans, zero on failure.
func (r *JobResult) Matches() int {
	if r.Outcome == nil || r.Outcome.Result == nil {
		return 0
	}
	return len(r.Outcome.Result.Mapping)
}

// Stats counts job outcomes.
type Stats struct {
	Submitted int `json:"submitted"`
	Succeeded int `json:"succeeded"`
	NoPII     int `json:"no_pii"`
	Failed    int `json:"failed"`
	Matches   int `json:"matches"`
}

// NewWorkerPool creates a pool of workers redacting with scanner. The
// reviewer in opts is replaced by auto-confirmation.
func NewWorkerPool(workers int, scanner *core.Scanner, opts core.RedactOptions) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	opts.Reviewer = core.AutoConfirm{}
	return &WorkerPool{
		workers:  workers,
		scanner:  scanner,
		opts:     opts,
		jobs:     make(chan *Job, workers*2),
		results:  make(chan *JobResult, workers*2),
		observer: scanner.Observer(),
	}
}

// Start launches the workers. They stop when ctx is cancelled or after Close
// once the queue is drained.
func (wp *WorkerPool) Start(ctx context.Context) {
	wp.ctx, wp.cancel = context.WithCancel(ctx)
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
	go func() {
		wp.wg.Wait()
		close(wp.results)
	}()
}

// Submit queues a job, blocking while the queue is full. It must be called
// after Start, from the same goroutine that later calls Close.
func (wp *WorkerPool) Submit(job *Job) error {
	wp.mu.Lock()
	if wp.closed {
		wp.mu.Unlock()
		return ErrPoolClosed
	}
	wp.stats.Submitted++
	wp.mu.Unlock()

	select {
	case wp.jobs <- job:
		return nil
	case <-wp.ctx.Done():
		return wp.ctx.Err()
	}
}

// Close stops accepting jobs. Results is closed once queued jobs finish.
func (wp *WorkerPool) Close() {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	if !wp.closed {
		wp.closed = true
		close(wp.jobs)
	}
}

// Stop cancels in-flight work and closes the pool.
func (wp *WorkerPool) Stop() {
	wp.Close()
	if wp.cancel != nil {
		wp.cancel()
	}
}

// Results returns the results channel
func (wp *WorkerPool) Results() <-chan *JobResult {
	return wp.results
}

// Stats returns a snapshot of the counters.
func (wp *WorkerPool) Stats() Stats {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	return wp.stats
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for {
		select {
		case job, ok := <-wp.jobs:
			if !ok {
				return
			}
			result := wp.processJob(job, id)
			select {
			case wp.results <- result:
			case <-wp.ctx.Done():
				return
			}
		case <-wp.ctx.Done():
			return
		}
	}
}

func (wp *WorkerPool) processJob(job *Job, workerID int) *JobResult {
	start := time.Now()
	finishTiming := wp.observer.StartTiming("worker_pool", "process_job", job.Path)

	opts := wp.opts
	if job.Locale != "" {
		opts.Locale = job.Locale
	}

	result := &JobResult{JobID: job.ID, Path: job.Path}
	if err := wp.ctx.Err(); err != nil {
		result.Err = err
	} else {
		result.Outcome, result.Err = wp.scanner.RedactFile(wp.ctx, job.Path, opts)
	}
	result.Duration = time.Since(start)

	wp.mu.Lock()
	switch {
	case result.Err != nil:
		wp.stats.Failed++
	case result.Outcome.Result == nil:
		wp.stats.NoPII++
	default:
		wp.stats.Succeeded++
		wp.stats.Matches += result.Matches()
	}
	wp.mu.Unlock()

	if result.Err != nil {
		logger.Warn("batch job failed",
			zap.String("file", job.Path), zap.Int("worker", workerID), zap.Error(result.Err))
	}
	finishTiming(result.Err == nil, map[string]interface{}{
		"worker_id":   workerID,
		"match_count": result.Matches(),
		"duration_ms": result.Duration.Milliseconds(),
	})
	return result
}
