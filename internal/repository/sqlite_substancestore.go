package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"scent-enricher/backend/pkg/models"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS substances (
	name      TEXT PRIMARY KEY,
	note      TEXT,
	odour     TEXT,
	ph        TEXT,
	processed INTEGER NOT NULL DEFAULT 0
)`

// SQLiteSubstanceStore is a single-file SQLite implementation of the
// SubstanceStore interface, used for local runs and tests.
type SQLiteSubstanceStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database file at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteSubstanceStore, error) {
	if path == "" {
		return nil, &StoreError{Kind: KindConnect, Op: "open", Err: errors.New("empty database path")}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, &StoreError{Kind: KindConnect, Op: "create dirs", Err: err}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, &StoreError{Kind: KindConnect, Op: "open", Err: err}
	}
	// one writer at a time
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, &StoreError{Kind: KindConnect, Op: "ping", Err: err}
	}
	return &SQLiteSubstanceStore{db: db}, nil
}

// FetchOneUnprocessed returns one substance that has not been processed.
func (s *SQLiteSubstanceStore) FetchOneUnprocessed(ctx context.Context) (string, bool, error) {
	var name string
	err := s.db.QueryRowContext(ctx, "SELECT name FROM substances WHERE processed = 0 LIMIT 1").Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &StoreError{Kind: KindQuery, Op: "fetch unprocessed", Err: err}
	}
	return name, true, nil
}

// GetRecord retrieves a substance by its name.
func (s *SQLiteSubstanceStore) GetRecord(ctx context.Context, name string) (*models.Substance, error) {
	var sub models.Substance
	err := s.db.QueryRowContext(ctx, "SELECT name, note, odour, ph, processed FROM substances WHERE name = ?", name).
		Scan(&sub.Name, &sub.Note, &sub.Odour, &sub.PH, &sub.Processed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &StoreError{Kind: KindQuery, Op: "get record", Err: err}
	}
	return &sub, nil
}

// UpdateRecord writes the staged fields and the processed flag.
func (s *SQLiteSubstanceStore) UpdateRecord(ctx context.Context, name string, fields models.FieldSet, markProcessed bool) error {
	query, args := buildUpdate(name, fields, markProcessed, questionPlaceholder)
	if query == "" {
		return nil
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return &StoreError{Kind: KindQuery, Op: "update record", Err: err}
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// EnsureSchema creates the substances table.
func (s *SQLiteSubstanceStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return &StoreError{Kind: KindQuery, Op: "ensure schema", Err: err}
	}
	return nil
}

// InsertNames adds unprocessed substances, skipping existing names.
func (s *SQLiteSubstanceStore) InsertNames(ctx context.Context, names []string) (inserted int, retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &StoreError{Kind: KindQuery, Op: "begin", Err: err}
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	for _, name := range names {
		res, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO substances (name) VALUES (?)", name)
		if err != nil {
			return 0, &StoreError{Kind: KindQuery, Op: fmt.Sprintf("insert %q", name), Err: err}
		}
		n, _ := res.RowsAffected()
		inserted += int(n)
	}
	if err := tx.Commit(); err != nil {
		return 0, &StoreError{Kind: KindQuery, Op: "commit", Err: err}
	}
	return inserted, nil
}

// Close closes the database handle.
func (s *SQLiteSubstanceStore) Close() error {
	return s.db.Close()
}
