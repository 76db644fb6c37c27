package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/vectorsync/internal/core/documents"
	"github.com/markdave123-py/vectorsync/internal/core/ingestion_engine"
	"github.com/markdave123-py/vectorsync/internal/core/mock"
	"github.com/markdave123-py/vectorsync/internal/models"
	"github.com/markdave123-py/vectorsync/internal/services"
)

func newHandler(t *testing.T, store *mock.Store, docs ...models.Document) *IngestHandler {
	t.Helper()
	cfg := &ingestion_engine.IngestConfig{ChunkSize: 10, BatchSize: 2}
	chunker, err := ingestion_engine.NewChunker(cfg)
	require.NoError(t, err)
	p, err := ingestion_engine.NewPipeline(chunker, mock.NewEmbedder(), store, cfg, nil)
	require.NoError(t, err)
	return NewIngestHandler(services.NewIngestService(documents.NewStaticSource(docs...), p, store))
}

func post(h http.HandlerFunc, body string) *http.Response {
	req := httptest.NewRequest(http.MethodPost, "/api/updatedatabase", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec.Result()
}

func readEvents(t *testing.T, res *http.Response) []models.Progress {
	t.Helper()
	var out []models.Progress
	sc := bufio.NewScanner(res.Body)
	for sc.Scan() {
		var ev models.Progress
		require.NoError(t, json.Unmarshal(sc.Bytes(), &ev), sc.Text())
		out = append(out, ev)
	}
	require.NoError(t, sc.Err())
	return out
}

func TestUpdateDatabase_StreamsProgress(t *testing.T) {
	store := mock.NewStore()
	h := newHandler(t, store, models.Document{SourceID: "a.txt", Text: strings.Repeat("x", 25)})

	res := post(h.UpdateDatabase, `{"indexname":"idx","namespace":"ns"}`)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/x-ndjson", res.Header.Get("Content-Type"))
	assert.Equal(t, []models.Progress{
		{Filename: "a", TotalChunks: 3, ChunksUpserted: 2},
		{Filename: "a", TotalChunks: 3, ChunksUpserted: 3},
		{Filename: "a", TotalChunks: 3, ChunksUpserted: 3, IsComplete: true},
	}, readEvents(t, res))
	assert.Equal(t, "complete", res.Trailer.Get(StatusTrailer))
	assert.Len(t, store.Records(), 3)
}

func TestUpdateDatabase_WireFormat(t *testing.T) {
	h := newHandler(t, mock.NewStore(), models.Document{SourceID: "a.txt", Text: "short"})

	res := post(h.UpdateDatabase, `{"indexname":"idx","namespace":"ns"}`)
	defer res.Body.Close()

	sc := bufio.NewScanner(res.Body)
	require.True(t, sc.Scan())
	assert.JSONEq(t, `{"filename":"a","totalChunks":1,"chunksUpserted":1,"isComplete":false}`, sc.Text())
	require.True(t, sc.Scan())
	assert.JSONEq(t, `{"filename":"a","totalChunks":1,"chunksUpserted":1,"isComplete":true}`, sc.Text())
	assert.False(t, sc.Scan())
}

func TestUpdateDatabase_FailureTrailer(t *testing.T) {
	store := mock.NewStore()
	store.UpsertFunc = func(_ context.Context, call int, _, _ string, _ []models.VectorRecord) error {
		if call == 1 {
			return errors.New("quota exceeded")
		}
		return nil
	}
	h := newHandler(t, store, models.Document{SourceID: "a.txt", Text: strings.Repeat("x", 25)})

	res := post(h.UpdateDatabase, `{"indexname":"idx","namespace":"ns"}`)
	defer res.Body.Close()

	events := readEvents(t, res)
	require.Len(t, events, 1)
	assert.False(t, events[0].IsComplete)
	assert.True(t, strings.HasPrefix(res.Trailer.Get(StatusTrailer), "failed: "))
	assert.Contains(t, res.Trailer.Get(StatusTrailer), "quota exceeded")
}

func TestUpdateDatabase_RejectsBadRequests(t *testing.T) {
	h := newHandler(t, &mock.Store{Indexes: []string{"idx"}})

	tests := []struct {
		name string
		body string
		code int
	}{
		{"malformed", `{"indexname":`, http.StatusBadRequest},
		{"missing namespace", `{"indexname":"idx"}`, http.StatusBadRequest},
		{"blank index", `{"indexname":"  ","namespace":"ns"}`, http.StatusBadRequest},
		{"unknown index", `{"indexname":"nope","namespace":"ns"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := post(h.UpdateDatabase, tt.body)
			defer res.Body.Close()
			assert.Equal(t, tt.code, res.StatusCode)
		})
	}
}

func TestStreamStatus(t *testing.T) {
	assert.Equal(t, "complete", streamStatus(nil))
	assert.Equal(t, "canceled", streamStatus(ingestion_engine.ErrCanceled))
	assert.Equal(t, "failed: store error", streamStatus(ingestion_engine.ErrStoreWrite))
}

func TestGetFileList(t *testing.T) {
	h := newHandler(t, mock.NewStore(),
		models.Document{SourceID: "a.txt", Text: "x"},
		models.Document{SourceID: "docs/b.pdf", Text: "y"},
	)

	rec := httptest.NewRecorder()
	h.GetFileList(rec, httptest.NewRequest(http.MethodGet, "/api/getfilelist", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["a.txt","docs/b.pdf"]`, rec.Body.String())
}

func TestGetFileList_Empty(t *testing.T) {
	h := newHandler(t, mock.NewStore())

	rec := httptest.NewRecorder()
	h.GetFileList(rec, httptest.NewRequest(http.MethodGet, "/api/getfilelist", nil))

	assert.JSONEq(t, `[]`, rec.Body.String())
}
