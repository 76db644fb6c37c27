package mock

import (
	"context"
	"sync"

	"github.com/markdave123-py/vectorsync/internal/core"
	"github.com/markdave123-py/vectorsync/internal/models"
)

// UpsertCall is one recorded VectorStore.Upsert invocation.
type UpsertCall struct {
	IndexName string
	Namespace string
	Records   []models.VectorRecord
}

// Store is a test double for core.VectorStore and core.IndexVerifier.
type Store struct {
	// UpsertFunc is called by Upsert if set; the call is recorded only when it returns nil.
	UpsertFunc func(ctx context.Context, call int, indexName, namespace string, records []models.VectorRecord) error

	// Indexes lists the indexes CheckIndex accepts. Nil accepts any index.
	Indexes []string

	mu    sync.Mutex
	calls []UpsertCall
	tries int
}

func NewStore() *Store {
	return &Store{}
}

func (m *Store) Upsert(ctx context.Context, indexName, namespace string, records []models.VectorRecord) error {
	m.mu.Lock()
	call := m.tries
	m.tries++
	m.mu.Unlock()

	if m.UpsertFunc != nil {
		if err := m.UpsertFunc(ctx, call, indexName, namespace, records); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, UpsertCall{
		IndexName: indexName,
		Namespace: namespace,
		Records:   append([]models.VectorRecord(nil), records...),
	})
	return nil
}

func (m *Store) CheckIndex(_ context.Context, indexName string) error {
	if m.Indexes == nil {
		return nil
	}
	for _, name := range m.Indexes {
		if name == indexName {
			return nil
		}
	}
	return core.ErrIndexNotFound
}

// Calls returns the successful upserts, in order.
func (m *Store) Calls() []UpsertCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]UpsertCall(nil), m.calls...)
}

// Records flattens every successfully upserted record, in order.
func (m *Store) Records() []models.VectorRecord {
	var out []models.VectorRecord
	for _, c := range m.Calls() {
		out = append(out, c.Records...)
	}
	return out
}
