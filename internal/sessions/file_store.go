// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"cv-sanitizer/internal/detector"
	"cv-sanitizer/internal/redactors"
)

const (
	sessionsFile  = "sessions.json"
	storeDirMode  = 0o750
	storeFileMode = 0o600
)

// FileStore keeps all records in one JSON file inside a directory. A process
// level mutex serializes access; concurrent processes are not coordinated.
type FileStore struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewFileStore opens (creating if needed) the store under dir.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("file store directory is empty")
	}
	if err := os.MkdirAll(dir, storeDirMode); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	s := &FileStore{path: filepath.Join(dir, sessionsFile), now: time.Now}
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		if err := s.save(map[string]Record{}); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat store file: %w", err)
	}
	return s, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) load() (map[string]Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read store file: %w", err)
	}
	records := map[string]Record{}
	if len(data) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode store file: %w", err)
	}
	return records, nil
}

// save writes through a temp file and rename so a crash never leaves a
// truncated store.
func (s *FileStore) save(records map[string]Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store file: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".sessions-*.json")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write store file: %w", err)
	}
	if err := tmp.Chmod(storeFileMode); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close store file: %w", err)
	}
	return os.Rename(tmp.Name(), s.path)
}

// update loads, applies fn to the record with id and saves.
func (s *FileStore) update(ctx context.Context, id string, fn func(*Record) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	rec, ok := records[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := fn(&rec); err != nil {
		return err
	}
	rec.UpdatedAt = s.now().UTC()
	records[id] = rec
	return s.save(records)
}

func (s *FileStore) Create(ctx context.Context, rec Record) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return Record{}, err
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if _, exists := records[rec.ID]; exists {
		return Record{}, fmt.Errorf("session %s already exists", rec.ID)
	}
	now := s.now().UTC()
	rec.Status = StatusCreated
	rec.CountryCode = detector.NormalizeLocale(rec.CountryCode)
	rec.CreatedAt = now
	rec.UpdatedAt = now
	if rec.Detections == nil {
		rec.Detections = []detector.Match{}
	}
	if rec.Edits == nil {
		rec.Edits = []redactors.EditRecord{}
	}
	records[rec.ID] = rec
	if err := s.save(records); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *FileStore) RecordDetections(ctx context.Context, id string, matches []detector.Match) error {
	return s.update(ctx, id, func(rec *Record) error {
		if err := checkTransition(rec.Status, StatusPIIDetected); err != nil {
			return err
		}
		rec.Status = StatusPIIDetected
		rec.Detections = append([]detector.Match{}, matches...)
		return nil
	})
}

func (s *FileStore) RecordEdit(ctx context.Context, id string, edit redactors.EditRecord) error {
	return s.update(ctx, id, func(rec *Record) error {
		if err := checkEditable(rec.Status); err != nil {
			return err
		}
		rec.Edits = append(rec.Edits, edit)
		return nil
	})
}

func (s *FileStore) RecordConfirmation(ctx context.Context, id, username string, confirmed bool, notes string) error {
	to := StatusRejected
	if confirmed {
		to = StatusConfirmed
	}
	return s.update(ctx, id, func(rec *Record) error {
		if err := checkTransition(rec.Status, to); err != nil {
			return err
		}
		rec.Status = to
		rec.Confirmation = &Confirmation{
			Username:  username,
			Confirmed: confirmed,
			Notes:     notes,
			Timestamp: s.now().UTC(),
		}
		return nil
	})
}

func (s *FileStore) Complete(ctx context.Context, id string, outputs map[string]string) error {
	return s.update(ctx, id, func(rec *Record) error {
		if err := checkTransition(rec.Status, StatusCompleted); err != nil {
			return err
		}
		now := s.now().UTC()
		rec.Status = StatusCompleted
		rec.Outputs = outputs
		rec.CompletedAt = &now
		return nil
	})
}

func (s *FileStore) Get(ctx context.Context, id string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return Record{}, err
	}
	rec, ok := records[id]
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, nil
}

func (s *FileStore) List(ctx context.Context, username string) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if username == "" || rec.Username == username {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *FileStore) Close() error { return nil }
