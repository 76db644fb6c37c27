package core

import (
	"context"

	"github.com/markdave123-py/vectorsync/internal/models"
)

// DocumentSource supplies the documents of one ingestion run.
// List order is stable for the lifetime of a run; Load is called lazily,
// right before a document is ingested, so a load failure aborts the run
// before that document is chunked.
type DocumentSource interface {
	List(ctx context.Context) ([]string, error)
	Load(ctx context.Context, sourceID string) (*models.Document, error)
}

// VectorStore abstracts the remote vector index so the pipeline never depends on a specific backend.
// Upsert writes all records in one call and is idempotent on record id.
type VectorStore interface {
	Upsert(ctx context.Context, indexName, namespace string, records []models.VectorRecord) error
}

// IndexVerifier is implemented by stores that can tell whether an index exists.
type IndexVerifier interface {
	CheckIndex(ctx context.Context, indexName string) error
}

// ObjectClient defines read access to S3 or any object storage.
// It’s abstract so you can replace AWS with MinIO, GCP, etc. easily.
type ObjectClient interface {
	ListKeys(ctx context.Context, bucket, prefix string) ([]string, error)
	GetFile(ctx context.Context, bucket, key string) ([]byte, error)
}
