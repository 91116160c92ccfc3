// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-sanitizer/internal/config"
	"cv-sanitizer/internal/core"
	"cv-sanitizer/internal/preprocessors"
	"cv-sanitizer/internal/redactors"
	"cv-sanitizer/internal/sessions"
)

func newScanner(t *testing.T) *core.Scanner {
	t.Helper()
	s, err := core.NewScanner(core.ScanConfig{Config: config.Default()})
	require.NoError(t, err)
	return s
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, text := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	}
}

func TestProcessFiles(t *testing.T) {
	in := t.TempDir()
	writeFiles(t, in, map[string]string{
		"alice.txt": "Alice Example\nEmail: alice@example.com\n",
		"bob.txt":   "Bob Example\nMobile: 07700 900123\n",
		"plain.txt": "Senior engineer with ten years of experience.\n",
		"cv.docx":   "not supported",
	})
	paths := []string{
		filepath.Join(in, "alice.txt"),
		filepath.Join(in, "bob.txt"),
		filepath.Join(in, "plain.txt"),
		filepath.Join(in, "cv.docx"),
	}

	store, err := sessions.NewFileStore(t.TempDir())
	require.NoError(t, err)
	out := t.TempDir()

	var mu sync.Mutex
	var progress []int
	results, stats, err := ProcessFiles(context.Background(), newScanner(t), paths,
		core.RedactOptions{Locale: "GB", OutputDir: out, Username: "batch", Store: store}, 2,
		func(completed, total int, r *JobResult) {
			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, 4, total)
			progress = append(progress, completed)
		})
	require.NoError(t, err)
	require.Len(t, results, 4)

	for i, r := range results {
		require.NotNil(t, r, "result %d", i)
		assert.Equal(t, paths[i], r.Path)
	}
	assert.NoError(t, results[0].Err)
	assert.Greater(t, results[0].Matches(), 0)
	assert.FileExists(t, filepath.Join(out, "alice_redacted.json"))
	assert.FileExists(t, filepath.Join(out, "alice.pii.json"))
	assert.FileExists(t, filepath.Join(out, "bob_redacted.json"))

	assert.NoError(t, results[2].Err)
	assert.Nil(t, results[2].Outcome.Result)
	assert.Zero(t, results[2].Matches())
	assert.NoFileExists(t, filepath.Join(out, "plain_redacted.json"))

	assert.ErrorIs(t, results[3].Err, preprocessors.ErrUnsupportedFormat)

	assert.Equal(t, []int{1, 2, 3, 4}, progress)
	assert.Equal(t, 4, stats.TotalFiles)
	assert.Equal(t, 4, stats.Submitted)
	assert.Equal(t, 2, stats.Succeeded)
	assert.Equal(t, 1, stats.NoPII)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, results[0].Matches()+results[1].Matches(), stats.Matches)
	assert.Equal(t, 2, stats.WorkerCount)

	records, err := store.List(context.Background(), "batch")
	require.NoError(t, err)
	assert.Len(t, records, 3)
	for _, rec := range records {
		assert.Equal(t, sessions.StatusCompleted, rec.Status)
	}
}

func TestProcessFilesCancelled(t *testing.T) {
	in := t.TempDir()
	writeFiles(t, in, map[string]string{"a.txt": "Email: a@example.com\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, stats, err := ProcessFiles(ctx, newScanner(t), []string{filepath.Join(in, "a.txt")},
		core.RedactOptions{OutputDir: t.TempDir()}, 1, nil)
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 1)
	assert.Zero(t, stats.Succeeded)
	if results[0] != nil {
		assert.Error(t, results[0].Err)
	}
}

func TestProcessFilesEmpty(t *testing.T) {
	results, stats, err := ProcessFiles(context.Background(), newScanner(t), nil, core.RedactOptions{}, 0, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 0, stats.TotalFiles)
	assert.Equal(t, 1, stats.WorkerCount)
}

func TestWorkerPoolSubmitAfterClose(t *testing.T) {
	pool := NewWorkerPool(1, newScanner(t), core.RedactOptions{})
	pool.Start(context.Background())
	pool.Close()
	pool.Close()

	assert.ErrorIs(t, pool.Submit(&Job{ID: "late", Path: "x.txt"}), ErrPoolClosed)
	for range pool.Results() {
		t.Fatal("no results expected")
	}
	pool.Stop()
}

func TestWorkerPoolForcesAutoConfirm(t *testing.T) {
	pool := NewWorkerPool(0, newScanner(t), core.RedactOptions{Reviewer: rejectAll{}})
	assert.Equal(t, 1, pool.workers)
	assert.IsType(t, core.AutoConfirm{}, pool.opts.Reviewer)
}

func TestDefaultWorkers(t *testing.T) {
	assert.Equal(t, 1, DefaultWorkers(0))
	assert.Equal(t, 1, DefaultWorkers(1))
	assert.LessOrEqual(t, DefaultWorkers(100), MaxWorkers)
}

type rejectAll struct{}

func (rejectAll) Review(context.Context, *preprocessors.Document, *redactors.Session) (bool, error) {
	return false, nil
}
