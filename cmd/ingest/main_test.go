package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/vectorsync/internal/core/documents"
	"github.com/markdave123-py/vectorsync/internal/core/ingestion_engine"
	"github.com/markdave123-py/vectorsync/internal/core/mock"
	"github.com/markdave123-py/vectorsync/internal/models"
)

func startStream(t *testing.T, ctx context.Context, store *mock.Store, text string) *ingestion_engine.ProgressStream {
	t.Helper()
	cfg := &ingestion_engine.IngestConfig{ChunkSize: 10, BatchSize: 1}
	chunker, err := ingestion_engine.NewChunker(cfg)
	require.NoError(t, err)
	p, err := ingestion_engine.NewPipeline(chunker, mock.NewEmbedder(), store, cfg, nil)
	require.NoError(t, err)
	src := documents.NewStaticSource(models.Document{SourceID: "a.txt", Text: text})
	return p.Stream(ctx, src, models.Target{IndexName: "idx", Namespace: "ns"})
}

func TestPrintStream(t *testing.T) {
	var buf bytes.Buffer
	stream := startStream(t, context.Background(), mock.NewStore(), strings.Repeat("x", 20))

	require.NoError(t, printStream(&buf, stream, func() {}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.JSONEq(t, `{"filename":"a","totalChunks":2,"chunksUpserted":1,"isComplete":false}`, lines[0])
	assert.JSONEq(t, `{"filename":"a","totalChunks":2,"chunksUpserted":2,"isComplete":true}`, lines[2])
}

func TestPrintStream_Failure(t *testing.T) {
	store := mock.NewStore()
	store.UpsertFunc = func(context.Context, int, string, string, []models.VectorRecord) error {
		return errors.New("down")
	}
	stream := startStream(t, context.Background(), store, "hello")

	err := printStream(&bytes.Buffer{}, stream, func() {})
	assert.ErrorIs(t, err, ingestion_engine.ErrStoreWrite)
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestPrintStream_WriteErrorCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := mock.NewStore()
	stream := startStream(t, ctx, store, strings.Repeat("x", 500))

	err := printStream(brokenWriter{}, stream, cancel)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write progress")
	assert.Less(t, len(store.Calls()), 50)
}
