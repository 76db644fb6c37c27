package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"time"
)

//go:embed scripts/initdb.sql
var bootstrapFS embed.FS

// schemaVersion is the row initdb.sql writes into vectorsync_meta.
const schemaVersion = 1

// EnsureBootstrapped installs the pgvector extension and the meta table
// unless the current schema version is already recorded.
func EnsureBootstrapped(ctx context.Context, db *sql.DB) error {
	ctxBoot, cancel := context.WithTimeout(ctx, 3*time.Minute)
	defer cancel()

	current, err := hasSchemaVersion(ctxBoot, db)
	if err != nil {
		return err
	}
	if current {
		slog.Debug("database already bootstrapped", "schema_version", schemaVersion)
		return nil
	}
	return runBootstrap(ctxBoot, db)
}

// hasSchemaVersion is false when the meta table or its version row is missing.
func hasSchemaVersion(ctx context.Context, db *sql.DB) (bool, error) {
	var table sql.NullString
	if err := db.QueryRowContext(ctx, `SELECT to_regclass('vectorsync_meta')::text`).Scan(&table); err != nil {
		return false, fmt.Errorf("meta table check failed: %w", err)
	}
	if !table.Valid {
		return false, nil
	}

	var ok bool
	err := db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM vectorsync_meta WHERE version = $1)`, schemaVersion).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("meta version check failed: %w", err)
	}
	return ok, nil
}

func runBootstrap(ctx context.Context, db *sql.DB) error {
	script, err := bootstrapFS.ReadFile("scripts/initdb.sql")
	if err != nil {
		return fmt.Errorf("read initdb.sql: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, string(script)); err != nil {
		return fmt.Errorf("exec bootstrap: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bootstrap: %w", err)
	}
	slog.Info("database bootstrapped", "schema_version", schemaVersion)
	return nil
}
