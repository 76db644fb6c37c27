package ingestion_engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/markdave123-py/vectorsync/internal/core"
	"github.com/markdave123-py/vectorsync/internal/models"
)

// ReportFunc receives progress events in emission order.
// A non-nil error means the caller can no longer receive events.
type ReportFunc func(ctx context.Context, p models.Progress) error

// Pipeline sequences documents through chunking, embedding and upsert.
//
// chunker:   splits document text.
// embedder:  embedding provider (Gemini/OpenAI/etc), shared read-only across runs.
// store:     vector store, shared read-only across runs.
// cfg:       runtime tuning knobs, fixed per pipeline.
type Pipeline struct {
	chunker  Chunker
	embedder core.EmbeddingProvider
	store    core.VectorStore
	cfg      *IngestConfig
	logger   *slog.Logger
}

// NewPipeline validates cfg and builds a pipeline. A nil logger uses slog.Default.
func NewPipeline(chunker Chunker, emb core.EmbeddingProvider, store core.VectorStore, cfg *IngestConfig, logger *slog.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if chunker == nil || emb == nil || store == nil {
		return nil, errors.New("pipeline needs a chunker, an embedder and a store")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		chunker:  chunker,
		embedder: emb,
		store:    store,
		cfg:      cfg,
		logger:   logger.With("component", "ingestion-pipeline"),
	}, nil
}

// ingestRun is the state of one invocation. Nothing in it is shared between runs.
type ingestRun struct {
	id       string
	target   models.Target
	cfg      *IngestConfig
	embedder core.EmbeddingProvider
	store    core.VectorStore
	report   ReportFunc
	logger   *slog.Logger

	state models.ProgressState
	dim   int
}

func (p *Pipeline) newRun(target models.Target, report ReportFunc) *ingestRun {
	id := uuid.NewString()
	return &ingestRun{
		id:       id,
		target:   target,
		cfg:      p.cfg,
		embedder: p.embedder,
		store:    p.store,
		report:   report,
		logger:   p.logger.With("run_id", id, "index", target.IndexName, "namespace", target.Namespace),
		dim:      p.cfg.EmbedDim,
	}
}

// Run ingests every document of src in order and reports progress.
//
// After the last document is fully upserted one more event with
// IsComplete=true is emitted, carrying the last document's name and totals.
// Any failure stops the run without that event; documents already written
// stay in the store.
func (p *Pipeline) Run(ctx context.Context, src core.DocumentSource, target models.Target, report ReportFunc) error {
	run := p.newRun(target, report)

	ids, err := src.List(ctx)
	if err != nil {
		return fmt.Errorf("%w: list documents: %w", ErrSourceLoad, err)
	}
	run.logger.Info("ingestion started", "documents", len(ids), "batch_size", p.cfg.BatchSize)

	// Record ids are prefixed by the document name, so a name may appear only once per run.
	seen := make(map[string]string, len(ids))

	for i, id := range ids {
		if err := run.alive(ctx); err != nil {
			return err
		}

		docName := models.DocumentName(id)
		if prev, dup := seen[docName]; dup {
			run.logger.Error("duplicate document name", "source_id", id, "previous", prev)
			return fmt.Errorf("%w: %s and %s share the document name %q", ErrSourceLoad, prev, id, docName)
		}
		seen[docName] = id

		doc, err := src.Load(ctx, id)
		if err != nil {
			run.logger.Error("document load failed", "source_id", id, "err", err)
			return fmt.Errorf("%w: load %s: %w", ErrSourceLoad, id, err)
		}

		name := doc.Name()
		chunks := chunkDocument(p.chunker, doc)
		run.logger.Info("processing document", "position", i, "document", name, "chunks", len(chunks))

		if len(chunks) == 0 {
			// Nothing to write; the document is trivially complete.
			run.state.Reset(name, 0)
			if err := run.emit(ctx, run.state.Snapshot(false)); err != nil {
				return err
			}
			continue
		}

		if _, err := run.upsertDocument(ctx, name, chunks); err != nil {
			if IsFailure(err) {
				run.logger.Error("document ingestion failed", "document", name, "chunks_upserted", run.state.ChunksUpserted, "err", err)
			}
			return err
		}
	}

	if err := run.emit(ctx, run.state.Snapshot(true)); err != nil {
		return err
	}
	run.logger.Info("ingestion complete", "documents", len(ids))
	return nil
}

// emit forwards one event to the caller.
func (r *ingestRun) emit(ctx context.Context, ev models.Progress) error {
	r.logger.Info("progress", "event", fmt.Sprintf("%s-%d-%d-%t", ev.Filename, ev.TotalChunks, ev.ChunksUpserted, ev.IsComplete))
	if err := r.report(ctx, ev); err != nil {
		return fmt.Errorf("%w: report progress: %w", ErrCanceled, err)
	}
	return nil
}

// alive checks the caller is still there before more quota is spent.
func (r *ingestRun) alive(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		r.logger.Info("caller gone, stopping", "err", err)
		return fmt.Errorf("%w: %w", ErrCanceled, err)
	}
	return nil
}
