// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"cv-sanitizer/internal/core"
)

// MaxWorkers caps the default worker count.
const MaxWorkers = 8

// ProcessingStats summarises a batch run.
type ProcessingStats struct {
	Stats
	TotalFiles    int           `json:"total_files"`
	WorkerCount   int           `json:"worker_count"`
	TotalDuration time.Duration `json:"total_duration_ms"`
	AvgFileTime   time.Duration `json:"avg_file_time_ms"`
}

// ProgressCallback is called when a file is completed
type ProgressCallback func(completed, total int, result *JobResult)

// DefaultWorkers picks a worker count for n files.
func DefaultWorkers(n int) int {
	return max(1, min(runtime.NumCPU(), MaxWorkers, n))
}

// ProcessFiles redacts paths with a fresh pool and returns the results in
// input order; files not reached before ctx was cancelled have a nil entry.
// workers <= 0 selects DefaultWorkers.
func ProcessFiles(ctx context.Context, scanner *core.Scanner, paths []string, opts core.RedactOptions, workers int, progress ProgressCallback) ([]*JobResult, *ProcessingStats, error) {
	start := time.Now()
	if workers <= 0 {
		workers = DefaultWorkers(len(paths))
	}
	finishTiming := scanner.Observer().StartTiming("parallel_processor", "process_files", "batch")

	pool := NewWorkerPool(workers, scanner, opts)
	pool.Start(ctx)
	defer pool.Stop()

	// Submit from a separate goroutine so results can drain concurrently.
	submitErr := make(chan error, 1)
	go func() {
		defer pool.Close()
		for i, path := range paths {
			if err := pool.Submit(&Job{ID: fmt.Sprintf("job_%d", i), Path: path}); err != nil {
				submitErr <- err
				return
			}
		}
		submitErr <- nil
	}()

	index := make(map[string]int, len(paths))
	for i := range paths {
		index[fmt.Sprintf("job_%d", i)] = i
	}
	results := make([]*JobResult, len(paths))
	completed := 0
	var totalJobTime time.Duration
	for r := range pool.Results() {
		results[index[r.JobID]] = r
		completed++
		totalJobTime += r.Duration
		if progress != nil {
			progress(completed, len(paths), r)
		}
	}

	stats := &ProcessingStats{
		Stats:         pool.Stats(),
		TotalFiles:    len(paths),
		WorkerCount:   workers,
		TotalDuration: time.Since(start),
		AvgFileTime:   totalJobTime / time.Duration(max(completed, 1)),
	}
	finishTiming(true, map[string]interface{}{
		"total_files":  stats.TotalFiles,
		"succeeded":    stats.Succeeded,
		"failed":       stats.Failed,
		"worker_count": workers,
	})

	if err := <-submitErr; err != nil {
		return results, stats, fmt.Errorf("batch interrupted after %d of %d files: %w", completed, len(paths), err)
	}
	if err := ctx.Err(); err != nil {
		return results, stats, err
	}
	return results, stats, nil
}
