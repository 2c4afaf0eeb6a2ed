package repository

import (
	"context"

	"scent-enricher/backend/pkg/models"
)

// SubstanceStore is the row-oriented access the enrichment workflow needs.
type SubstanceStore interface {
	// FetchOneUnprocessed returns the name of one record whose processed
	// flag is false. ok is false when none remain.
	FetchOneUnprocessed(ctx context.Context) (name string, ok bool, err error)
	// GetRecord retrieves a record by name, or ErrNotFound.
	GetRecord(ctx context.Context, name string) (*models.Substance, error)
	// UpdateRecord writes the staged fields and, when markProcessed is set,
	// the processed flag, in a single statement.
	UpdateRecord(ctx context.Context, name string, fields models.FieldSet, markProcessed bool) error
}

// Bootstrapper prepares a store for local use. It stands in for the
// external ingestion process that normally owns the table.
type Bootstrapper interface {
	// EnsureSchema creates the substances table when it is missing.
	EnsureSchema(ctx context.Context) error
	// InsertNames adds unprocessed records, ignoring names already present.
	// It returns the number of rows inserted.
	InsertNames(ctx context.Context, names []string) (int, error)
}

// Store is a full store implementation.
type Store interface {
	SubstanceStore
	Bootstrapper
	Close() error
}
