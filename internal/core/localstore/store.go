// Package localstore is an embedded vector store on BadgerDB for local runs
// and development, where no Postgres is available.
package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/markdave123-py/vectorsync/internal/core"
	"github.com/markdave123-py/vectorsync/internal/models"
)

var _ core.VectorStore = (*Store)(nil)

// ErrNotFound is returned by Get for an unknown record.
var ErrNotFound = errors.New("record not found")

// Store keeps one badger key per (index, namespace, id).
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// Open opens (or creates) a store at dir.
func Open(dir string) (*Store, error) {
	return open(badger.DefaultOptions(dir).WithLogger(nil))
}

// OpenInMemory opens a store that lives only as long as the process.
func OpenInMemory() (*Store, error) {
	return open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
}

func open(opts badger.Options) (*Store, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Store{db: db, logger: slog.Default().With("component", "badger-store")}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func prefix(indexName, namespace string) []byte {
	return []byte("vec\x00" + indexName + "\x00" + namespace + "\x00")
}

func recordKey(indexName, namespace, id string) []byte {
	return append(prefix(indexName, namespace), id...)
}

// Upsert writes the whole batch in one transaction; existing ids are overwritten.
func (s *Store) Upsert(ctx context.Context, indexName, namespace string, records []models.VectorRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		for i := range records {
			val, err := json.Marshal(&records[i])
			if err != nil {
				return fmt.Errorf("encode %s: %w", records[i].ID, err)
			}
			if err := txn.Set(recordKey(indexName, namespace, records[i].ID), val); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("badger upsert: %w", err)
	}
	s.logger.Debug("upserted", "index", indexName, "namespace", namespace, "count", len(records))
	return nil
}

// Get reads one record back.
func (s *Store) Get(_ context.Context, indexName, namespace, id string) (*models.VectorRecord, error) {
	var rec models.VectorRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(recordKey(indexName, namespace, id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// IDs lists the record ids of a namespace in key order.
func (s *Store) IDs(_ context.Context, indexName, namespace string) ([]string, error) {
	p := prefix(indexName, namespace)
	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = p
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			ids = append(ids, string(it.Item().Key()[len(p):]))
		}
		return nil
	})
	return ids, err
}
