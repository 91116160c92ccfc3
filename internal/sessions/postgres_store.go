// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"cv-sanitizer/internal/detector"
	"cv-sanitizer/internal/redactors"
)

// PostgresStore keeps records in the cv_sessions table. Detections, edits,
// confirmation and outputs are JSONB columns.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, strings.TrimSpace(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresStore{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS cv_sessions (
			id TEXT PRIMARY KEY,
			document TEXT NOT NULL,
			username TEXT NOT NULL DEFAULT '',
			country_code TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			pii_detected JSONB NOT NULL DEFAULT '[]'::jsonb,
			user_edits JSONB NOT NULL DEFAULT '[]'::jsonb,
			confirmation JSONB NULL,
			output_files JSONB NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			completed_at TIMESTAMPTZ NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_cv_sessions_username_created ON cv_sessions (username, created_at DESC);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init session schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := time.Now().UTC()
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

	detections, err := json.Marshal(rec.Detections)
	if err != nil {
		return Record{}, fmt.Errorf("encode detections: %w", err)
	}
	edits, err := json.Marshal(rec.Edits)
	if err != nil {
		return Record{}, fmt.Errorf("encode edits: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO cv_sessions (
			id, document, username, country_code, status, pii_detected, user_edits, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6::jsonb,$7::jsonb,$8,$9)`,
		rec.ID, rec.Document, rec.Username, rec.CountryCode, string(rec.Status),
		string(detections), string(edits), rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return Record{}, fmt.Errorf("insert session: %w", err)
	}
	return rec, nil
}

// transition locks the row, runs check against its status and then the
// update statement with the id bound to $1.
func (s *PostgresStore) transition(ctx context.Context, id string, check func(Status) error, stmt string, args ...any) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var status string
	err = tx.QueryRow(ctx, `SELECT status FROM cv_sessions WHERE id=$1 FOR UPDATE`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("load session status: %w", err)
	}
	if err := check(Status(status)); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, stmt, append([]any{id}, args...)...); err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *PostgresStore) RecordDetections(ctx context.Context, id string, matches []detector.Match) error {
	if matches == nil {
		matches = []detector.Match{}
	}
	data, err := json.Marshal(matches)
	if err != nil {
		return fmt.Errorf("encode detections: %w", err)
	}
	return s.transition(ctx, id,
		func(from Status) error { return checkTransition(from, StatusPIIDetected) },
		`UPDATE cv_sessions SET status=$2, pii_detected=$3::jsonb, updated_at=$4 WHERE id=$1`,
		string(StatusPIIDetected), string(data), time.Now().UTC(),
	)
}

func (s *PostgresStore) RecordEdit(ctx context.Context, id string, edit redactors.EditRecord) error {
	data, err := json.Marshal([]redactors.EditRecord{edit})
	if err != nil {
		return fmt.Errorf("encode edit: %w", err)
	}
	return s.transition(ctx, id, checkEditable,
		`UPDATE cv_sessions SET user_edits = user_edits || $2::jsonb, updated_at=$3 WHERE id=$1`,
		string(data), time.Now().UTC(),
	)
}

func (s *PostgresStore) RecordConfirmation(ctx context.Context, id, username string, confirmed bool, notes string) error {
	to := StatusRejected
	if confirmed {
		to = StatusConfirmed
	}
	now := time.Now().UTC()
	data, err := json.Marshal(Confirmation{Username: username, Confirmed: confirmed, Notes: notes, Timestamp: now})
	if err != nil {
		return fmt.Errorf("encode confirmation: %w", err)
	}
	return s.transition(ctx, id,
		func(from Status) error { return checkTransition(from, to) },
		`UPDATE cv_sessions SET status=$2, confirmation=$3::jsonb, updated_at=$4 WHERE id=$1`,
		string(to), string(data), now,
	)
}

func (s *PostgresStore) Complete(ctx context.Context, id string, outputs map[string]string) error {
	data, err := json.Marshal(outputs)
	if err != nil {
		return fmt.Errorf("encode outputs: %w", err)
	}
	now := time.Now().UTC()
	return s.transition(ctx, id,
		func(from Status) error { return checkTransition(from, StatusCompleted) },
		`UPDATE cv_sessions SET status=$2, output_files=$3::jsonb, updated_at=$4, completed_at=$4 WHERE id=$1`,
		string(StatusCompleted), string(data), now,
	)
}

const selectColumns = `SELECT id, document, username, country_code, status, pii_detected, user_edits,
	confirmation, output_files, created_at, updated_at, completed_at FROM cv_sessions`

func (s *PostgresStore) Get(ctx context.Context, id string) (Record, error) {
	rec, err := scanRecord(s.pool.QueryRow(ctx, selectColumns+` WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Record{}, fmt.Errorf("get session: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) List(ctx context.Context, username string) ([]Record, error) {
	rows, err := s.pool.Query(ctx,
		selectColumns+` WHERE ($1 = '' OR username = $1) ORDER BY created_at DESC, id`,
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanRecord(row pgx.Row) (Record, error) {
	var (
		rec                                   Record
		status                                string
		detections, edits, confirmation, outs []byte
	)
	err := row.Scan(&rec.ID, &rec.Document, &rec.Username, &rec.CountryCode, &status,
		&detections, &edits, &confirmation, &outs,
		&rec.CreatedAt, &rec.UpdatedAt, &rec.CompletedAt)
	if err != nil {
		return Record{}, err
	}
	rec.Status = Status(status)

	if err := json.Unmarshal(detections, &rec.Detections); err != nil {
		return Record{}, fmt.Errorf("decode detections: %w", err)
	}
	if err := json.Unmarshal(edits, &rec.Edits); err != nil {
		return Record{}, fmt.Errorf("decode edits: %w", err)
	}
	if len(confirmation) > 0 {
		rec.Confirmation = &Confirmation{}
		if err := json.Unmarshal(confirmation, rec.Confirmation); err != nil {
			return Record{}, fmt.Errorf("decode confirmation: %w", err)
		}
	}
	if len(outs) > 0 {
		if err := json.Unmarshal(outs, &rec.Outputs); err != nil {
			return Record{}, fmt.Errorf("decode outputs: %w", err)
		}
	}
	return rec, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
