package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps both artifacts as rows of a single SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens or creates the database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &SQLiteStore{db: db, path: dbPath}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS artifacts (
		name TEXT PRIMARY KEY,
		run_id TEXT NOT NULL,
		payload BLOB NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.Exec(schema)
	return err
}

// Location returns the database path.
func (s *SQLiteStore) Location() string {
	return s.path
}

// Save replaces both artifact rows in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, a *Artifacts) error {
	vectorizer, err := json.Marshal(vectorizerFile{Meta: a.Meta, Pipeline: a.Pipeline})
	if err != nil {
		return fmt.Errorf("failed to encode vectorizer: %w", err)
	}
	model, err := json.Marshal(modelFile{Meta: a.Meta, Classifier: a.Classifier})
	if err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO artifacts (name, run_id, payload, created_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, row := range []struct {
		name    string
		payload []byte
	}{
		{VectorizerName, vectorizer},
		{ModelName, model},
	} {
		if _, err := stmt.ExecContext(ctx, row.name, a.Meta.RunID, row.payload, now); err != nil {
			return fmt.Errorf("failed to save %s: %w", row.name, err)
		}
	}
	return tx.Commit()
}

// Load reads both artifact rows.
func (s *SQLiteStore) Load(ctx context.Context) (*Artifacts, error) {
	var vf vectorizerFile
	if err := s.loadRow(ctx, VectorizerName, &vf); err != nil {
		return nil, err
	}
	var mf modelFile
	if err := s.loadRow(ctx, ModelName, &mf); err != nil {
		return nil, err
	}
	return assemble(vf, mf)
}

func (s *SQLiteStore) loadRow(ctx context.Context, name string, v any) error {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM artifacts WHERE name = ?`, name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", name, ErrArtifactNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", name, err)
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
