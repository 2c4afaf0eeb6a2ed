package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"scent-enricher/backend/pkg/models"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS substances (
	name      TEXT PRIMARY KEY,
	note      TEXT,
	odour     TEXT,
	ph        TEXT,
	processed BOOLEAN NOT NULL DEFAULT FALSE
)`

// PostgresSubstanceStore is a PostgreSQL implementation of the SubstanceStore interface.
type PostgresSubstanceStore struct {
	db *pgxpool.Pool
}

// NewPostgresSubstanceStore creates a new PostgresSubstanceStore.
func NewPostgresSubstanceStore(db *pgxpool.Pool) *PostgresSubstanceStore {
	return &PostgresSubstanceStore{db: db}
}

// OpenPostgres connects to dsn and verifies the connection.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresSubstanceStore, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, &StoreError{Kind: KindConnect, Op: "parse config", Err: err}
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, &StoreError{Kind: KindConnect, Op: "create pool", Err: err}
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, &StoreError{Kind: KindConnect, Op: "ping", Err: err}
	}

	return NewPostgresSubstanceStore(pool), nil
}

// FetchOneUnprocessed returns one substance that has not been processed.
func (s *PostgresSubstanceStore) FetchOneUnprocessed(ctx context.Context) (string, bool, error) {
	var name string
	err := s.db.QueryRow(ctx, "SELECT name FROM substances WHERE processed = FALSE LIMIT 1").Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, wrapErr("fetch unprocessed", err)
	}
	return name, true, nil
}

// GetRecord retrieves a substance by its name.
func (s *PostgresSubstanceStore) GetRecord(ctx context.Context, name string) (*models.Substance, error) {
	var sub models.Substance
	err := s.db.QueryRow(ctx, "SELECT name, note, odour, ph, processed FROM substances WHERE name = $1", name).
		Scan(&sub.Name, &sub.Note, &sub.Odour, &sub.PH, &sub.Processed)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrapErr("get record", err)
	}
	return &sub, nil
}

// UpdateRecord writes the staged fields and the processed flag.
func (s *PostgresSubstanceStore) UpdateRecord(ctx context.Context, name string, fields models.FieldSet, markProcessed bool) error {
	query, args := buildUpdate(name, fields, markProcessed, dollarPlaceholder)
	if query == "" {
		return nil
	}
	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return wrapErr("update record", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// EnsureSchema creates the substances table.
func (s *PostgresSubstanceStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, postgresSchema); err != nil {
		return wrapErr("ensure schema", err)
	}
	return nil
}

// InsertNames adds unprocessed substances, skipping existing names.
func (s *PostgresSubstanceStore) InsertNames(ctx context.Context, names []string) (int, error) {
	batch := &pgx.Batch{}
	for _, name := range names {
		batch.Queue("INSERT INTO substances (name) VALUES ($1) ON CONFLICT (name) DO NOTHING", name)
	}
	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for i := range names {
		tag, err := results.Exec()
		if err != nil {
			return inserted, wrapErr(fmt.Sprintf("insert %q", names[i]), err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

// Close releases the connection pool.
func (s *PostgresSubstanceStore) Close() error {
	s.db.Close()
	return nil
}
