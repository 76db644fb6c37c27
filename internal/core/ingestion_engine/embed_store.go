package ingestion_engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/markdave123-py/vectorsync/internal/models"
)

// newlines are replaced before embedding; models are sensitive to literal newline tokens.
var newlines = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// upsertDocument embeds a document's chunks in fixed-size batches and writes
// each batch to the store, emitting a progress event after every batch.
// Batches run strictly in order; the first failing batch aborts the document.
//
// name:    document name, prefix of every record id.
// chunks:  the document's chunks in position order.
func (r *ingestRun) upsertDocument(ctx context.Context, name string, chunks []models.Chunk) (int, error) {
	r.state.Reset(name, len(chunks))

	batchSize := r.cfg.BatchSize
	for batchIdx, start := 0, 0; start < len(chunks); batchIdx, start = batchIdx+1, start+batchSize {
		end := min(start+batchSize, len(chunks))
		batch := chunks[start:end]

		if err := r.flush(ctx, name, batchIdx, batch); err != nil {
			return r.state.ChunksUpserted, err
		}

		r.state.ChunksUpserted += len(batch)
		if err := r.emit(ctx, r.state.Snapshot(false)); err != nil {
			return r.state.ChunksUpserted, err
		}
	}
	return r.state.ChunksUpserted, nil
}

// flush embeds one batch and writes it to the store in a single upsert.
func (r *ingestRun) flush(ctx context.Context, name string, batchIdx int, batch []models.Chunk) error {
	if err := r.alive(ctx); err != nil {
		return err
	}

	texts := make([]string, len(batch))
	for k := range batch {
		texts[k] = newlines.Replace(batch[k].Text)
	}

	vecs, err := r.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("%w: %s batch %d: %w", ErrEmbedding, name, batchIdx, err)
	}
	if len(vecs) != len(batch) {
		return fmt.Errorf("%w: %s batch %d: got %d want %d", ErrEmbeddingCount, name, batchIdx, len(vecs), len(batch))
	}

	records := make([]models.VectorRecord, len(batch))
	for k := range batch {
		if err := r.checkDim(vecs[k]); err != nil {
			return fmt.Errorf("%s batch %d item %d: %w", name, batchIdx, k, err)
		}
		records[k] = models.VectorRecord{
			ID:       RecordID(name, batchIdx, k),
			Values:   vecs[k],
			Metadata: models.RecordMetadata{Chunk: batch[k].Text},
		}
	}

	// The caller may have gone away while we were embedding.
	if err := r.alive(ctx); err != nil {
		return err
	}

	if err := r.store.Upsert(ctx, r.target.IndexName, r.target.Namespace, records); err != nil {
		return fmt.Errorf("%w: %s batch %d: %w", ErrStoreWrite, name, batchIdx, err)
	}

	r.logger.Debug("batch upserted", "document", name, "batch", batchIdx, "size", len(records))
	return nil
}

// checkDim pins the run's dimension on the first vector unless it was configured.
func (r *ingestRun) checkDim(vec []float32) error {
	if r.dim == 0 {
		if len(vec) == 0 {
			return fmt.Errorf("%w: empty vector", ErrDimensionMismatch)
		}
		r.dim = len(vec)
		return nil
	}
	if len(vec) != r.dim {
		return fmt.Errorf("%w: got %d want %d", ErrDimensionMismatch, len(vec), r.dim)
	}
	return nil
}

// RecordID is the deterministic id of the vector for item k of batch b of a document.
func RecordID(name string, batchIdx, k int) string {
	return fmt.Sprintf("%s-%d-%d", name, batchIdx, k)
}
