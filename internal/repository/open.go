package repository

import (
	"context"
	"fmt"

	"scent-enricher/backend/internal/config"
)

// Open connects to the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.DBConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return OpenPostgres(ctx, cfg.DSN())
	case config.DriverSQLite:
		return OpenSQLite(ctx, cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
}

var (
	_ Store = (*PostgresSubstanceStore)(nil)
	_ Store = (*SQLiteSubstanceStore)(nil)
)
