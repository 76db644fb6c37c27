package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pgvector/pgvector-go"

	"github.com/markdave123-py/vectorsync/internal/core"
	"github.com/markdave123-py/vectorsync/internal/models"
)

var _ DbClient = (*DatabaseClient)(nil)

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(ctx context.Context, databaseURL string) (*DatabaseClient, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Sensible pool settings for an API service; adjust as needed.
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	// Ensure bootstrap once
	if err := EnsureBootstrapped(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

func (c *DatabaseClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// tableName quotes an index name for use as a table identifier.
func tableName(indexName string) string {
	return pgx.Identifier{indexName}.Sanitize()
}

// upsertQuery overwrites embedding and chunk when (namespace, id) already exists.
func upsertQuery(indexName string) string {
	return fmt.Sprintf(`
		INSERT INTO %s (namespace, id, embedding, chunk, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (namespace, id) DO UPDATE
		SET embedding = EXCLUDED.embedding, chunk = EXCLUDED.chunk, updated_at = now()
	`, tableName(indexName))
}

// CheckIndex reports core.ErrIndexNotFound when the index table does not exist.
func (c *DatabaseClient) CheckIndex(ctx context.Context, indexName string) error {
	var exists bool
	if err := c.db.QueryRowContext(ctx, `SELECT to_regclass($1) IS NOT NULL`, tableName(indexName)).Scan(&exists); err != nil {
		return fmt.Errorf("check index %q: %w", indexName, err)
	}
	if !exists {
		return fmt.Errorf("%w: %q", core.ErrIndexNotFound, indexName)
	}
	return nil
}

// Upsert writes all records of a batch in a single transaction.
func (c *DatabaseClient) Upsert(ctx context.Context, indexName, namespace string, records []models.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, upsertQuery(indexName))
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for i := range records {
		rec := &records[i]
		vec := pgvector.NewVector(rec.Values)

		if _, err := stmt.ExecContext(ctx, namespace, rec.ID, vec, rec.Metadata.Chunk); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("upsert %s: %w", rec.ID, err)
		}
	}
	return tx.Commit()
}
