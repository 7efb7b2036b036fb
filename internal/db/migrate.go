package db

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed migrations/000001_init.up.sql
var initSchema string

// Migrate applies the schema. Statements use IF NOT EXISTS so the call
// is idempotent and safe to run on every startup.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, initSchema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	db.logger.Info("database schema is up to date")
	return nil
}
