// Package store persists named schemas and a log of generation runs in a
// SQLite file, scoped per owner so multiple users can share one database.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/synthrec/synthrec/internal/schema"
)

// ErrNotFound is returned when no schema matches the owner and name.
var ErrNotFound = errors.New("schema not found")

// Store wraps the SQLite handle.
type Store struct {
	db *sql.DB
}

// SavedSchema is one stored schema row.
type SavedSchema struct {
	Owner     string
	Name      string
	Format    string
	Schema    *schema.Schema
	CreatedAt time.Time
}

// GenerationRun is one logged generation request.
type GenerationRun struct {
	ID         int64
	Owner      string
	SchemaName string
	Count      int
	Seed       *int64
	CreatedAt  time.Time
}

// Open opens (creating if needed) the store at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS schemas (
			owner TEXT NOT NULL,
			name TEXT NOT NULL,
			format TEXT NOT NULL DEFAULT '',
			document TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (owner, name)
		)`,
		`CREATE TABLE IF NOT EXISTS generation_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			owner TEXT NOT NULL,
			schema_name TEXT NOT NULL,
			count INTEGER NOT NULL,
			seed INTEGER,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_owner ON generation_history (owner, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to migrate store: %w", err)
		}
	}
	return nil
}

// SaveSchema stores or replaces the named schema for an owner.
func (s *Store) SaveSchema(ctx context.Context, owner, name, format string, sc *schema.Schema) error {
	if err := sc.Validate(); err != nil {
		return err
	}

	document, err := json.Marshal(sc)
	if err != nil {
		return fmt.Errorf("failed to serialize schema: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO schemas (owner, name, format, document)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (owner, name) DO UPDATE SET
			format = excluded.format,
			document = excluded.document
	`, owner, name, format, string(document))
	if err != nil {
		return fmt.Errorf("failed to save schema: %w", err)
	}
	return nil
}

// GetSchema loads one schema by owner and name.
func (s *Store) GetSchema(ctx context.Context, owner, name string) (*SavedSchema, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT owner, name, format, document, created_at
		FROM schemas
		WHERE owner = ? AND name = ?
	`, owner, name)

	var saved SavedSchema
	var document string
	if err := row.Scan(&saved.Owner, &saved.Name, &saved.Format, &document, &saved.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}

	saved.Schema = &schema.Schema{}
	if err := json.Unmarshal([]byte(document), saved.Schema); err != nil {
		return nil, fmt.Errorf("failed to decode stored schema: %w", err)
	}
	return &saved, nil
}

// ListSchemas returns an owner's schemas, newest first.
func (s *Store) ListSchemas(ctx context.Context, owner string) ([]SavedSchema, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT owner, name, format, document, created_at
		FROM schemas
		WHERE owner = ?
		ORDER BY created_at DESC, name
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list schemas: %w", err)
	}
	defer rows.Close()

	var out []SavedSchema
	for rows.Next() {
		var saved SavedSchema
		var document string
		if err := rows.Scan(&saved.Owner, &saved.Name, &saved.Format, &document, &saved.CreatedAt); err != nil {
			return nil, err
		}
		saved.Schema = &schema.Schema{}
		if err := json.Unmarshal([]byte(document), saved.Schema); err != nil {
			return nil, fmt.Errorf("failed to decode stored schema %s: %w", saved.Name, err)
		}
		out = append(out, saved)
	}
	return out, rows.Err()
}

// DeleteSchema removes one schema. Deleting a missing schema is not an error.
func (s *Store) DeleteSchema(ctx context.Context, owner, name string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM schemas WHERE owner = ? AND name = ?`, owner, name)
	if err != nil {
		return fmt.Errorf("failed to delete schema: %w", err)
	}
	return nil
}

// RecordGeneration logs one generation run for later auditing.
func (s *Store) RecordGeneration(ctx context.Context, owner, schemaName string, count int, seed *int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO generation_history (owner, schema_name, count, seed)
		VALUES (?, ?, ?, ?)
	`, owner, schemaName, count, seed)
	if err != nil {
		return fmt.Errorf("failed to record generation: %w", err)
	}
	return nil
}

// History returns an owner's generation runs, newest first, up to limit.
func (s *Store) History(ctx context.Context, owner string, limit int) ([]GenerationRun, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner, schema_name, count, seed, created_at
		FROM generation_history
		WHERE owner = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, owner, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	var out []GenerationRun
	for rows.Next() {
		var run GenerationRun
		if err := rows.Scan(&run.ID, &run.Owner, &run.SchemaName, &run.Count, &run.Seed, &run.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}
