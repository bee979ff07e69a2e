// Package store keeps a local SQLite journal of calls made to the translator
// service and a registry of the custom models created through this tool.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/valpere/langtranslator/internal"
)

type Store struct {
	db *sql.DB
}

// New opens (creating if needed) the database at dbPath. The parent
// directory must already exist.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows one writer; batch workers share this handle.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

// Open is New preceded by creating dbPath's directory.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	return New(dbPath)
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS calls (
		id TEXT PRIMARY KEY,
		operation TEXT NOT NULL,
		subject TEXT,
		status_code INTEGER,
		latency_ms INTEGER,
		error TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- models tracks custom models created or inspected through the CLI
	CREATE TABLE IF NOT EXISTS models (
		model_id TEXT PRIMARY KEY,
		name TEXT,
		base_model_id TEXT,
		source TEXT,
		target TEXT,
		status TEXT,
		deleted BOOLEAN DEFAULT FALSE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_calls_operation ON calls(operation);
	CREATE INDEX IF NOT EXISTS idx_calls_created ON calls(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveCall appends rec to the journal. An empty ID is replaced by a new UUID
// and a zero Timestamp by the current time.
func (s *Store) SaveCall(ctx context.Context, rec internal.CallRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO calls (id, operation, subject, status_code, latency_ms, error, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Operation, rec.Subject, rec.StatusCode, rec.LatencyMs, rec.Error, rec.Timestamp)
	return err
}

// ListCalls returns the most recent calls first. limit <= 0 returns all.
func (s *Store) ListCalls(ctx context.Context, limit int) ([]internal.CallRecord, error) {
	query := `SELECT id, operation, subject, status_code, latency_ms, error, created_at FROM calls ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []internal.CallRecord
	for rows.Next() {
		var r internal.CallRecord
		var subject, errMsg sql.NullString
		if err := rows.Scan(&r.ID, &r.Operation, &subject, &r.StatusCode, &r.LatencyMs, &errMsg, &r.Timestamp); err != nil {
			return nil, err
		}
		r.Subject = subject.String
		r.Error = errMsg.String
		results = append(results, r)
	}

	return results, rows.Err()
}

type CallStats struct {
	TotalCalls   int            `json:"total_calls" yaml:"total_calls"`
	FailedCalls  int            `json:"failed_calls" yaml:"failed_calls"`
	AvgLatencyMs float64        `json:"avg_latency_ms" yaml:"avg_latency_ms"`
	ByOperation  map[string]int `json:"by_operation" yaml:"by_operation"`
}

// CallStats summarises the journal.
func (s *Store) CallStats(ctx context.Context) (*CallStats, error) {
	stats := &CallStats{ByOperation: map[string]int{}}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN error IS NOT NULL AND error != '' THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(latency_ms), 0)
		FROM calls`).Scan(
		&stats.TotalCalls,
		&stats.FailedCalls,
		&stats.AvgLatencyMs,
	)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT operation, COUNT(*) FROM calls GROUP BY operation`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var op string
		var n int
		if err := rows.Scan(&op, &n); err != nil {
			return nil, err
		}
		stats.ByOperation[op] = n
	}
	return stats, rows.Err()
}

// ClearCalls removes every journal entry.
func (s *Store) ClearCalls(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM calls`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ModelEntry is the local view of a custom model.
type ModelEntry struct {
	ModelID     string    `json:"model_id" yaml:"model_id"`
	Name        string    `json:"name" yaml:"name"`
	BaseModelID string    `json:"base_model_id" yaml:"base_model_id"`
	Source      string    `json:"source" yaml:"source"`
	Target      string    `json:"target" yaml:"target"`
	Status      string    `json:"status" yaml:"status"`
	Deleted     bool      `json:"deleted" yaml:"deleted"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

// SaveModel inserts or updates a model entry, keeping its original
// creation time.
func (s *Store) SaveModel(ctx context.Context, m ModelEntry) error {
	now := time.Now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO models (model_id, name, base_model_id, source, target, status, deleted, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, FALSE, ?, ?)
		ON CONFLICT(model_id) DO UPDATE SET
			name = COALESCE(NULLIF(excluded.name, ''), models.name),
			base_model_id = COALESCE(NULLIF(excluded.base_model_id, ''), models.base_model_id),
			source = COALESCE(NULLIF(excluded.source, ''), models.source),
			target = COALESCE(NULLIF(excluded.target, ''), models.target),
			status = excluded.status,
			deleted = FALSE,
			updated_at = excluded.updated_at`,
		m.ModelID, m.Name, m.BaseModelID, m.Source, m.Target, m.Status, now, now)
	return err
}

// MarkModelDeleted flags a model as removed on the service side.
func (s *Store) MarkModelDeleted(ctx context.Context, modelID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE models SET deleted = TRUE, status = 'deleted', updated_at = ? WHERE model_id = ?`,
		time.Now(), modelID)
	return err
}

// ListModels returns known models, newest first. Deleted models are
// included only when includeDeleted is set.
func (s *Store) ListModels(ctx context.Context, includeDeleted bool) ([]ModelEntry, error) {
	query := `SELECT model_id, name, base_model_id, source, target, status, deleted, created_at, updated_at FROM models`
	if !includeDeleted {
		query += ` WHERE NOT deleted`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []ModelEntry
	for rows.Next() {
		var m ModelEntry
		var name, base, source, target, status sql.NullString
		if err := rows.Scan(&m.ModelID, &name, &base, &source, &target, &status, &m.Deleted, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		m.Name, m.BaseModelID, m.Source, m.Target, m.Status = name.String, base.String, source.String, target.String, status.String
		results = append(results, m)
	}
	return results, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
