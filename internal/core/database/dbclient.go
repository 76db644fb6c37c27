package db

import (
	"github.com/markdave123-py/vectorsync/internal/core"
)

// DbClient is the Postgres/pgvector vector store.
// Each index is a table; namespaces partition rows inside it.
type DbClient interface {
	core.VectorStore
	core.IndexVerifier

	Close() error
}
