package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/markdave123-py/vectorsync/internal/core"
	"github.com/markdave123-py/vectorsync/internal/core/documents"
	"github.com/markdave123-py/vectorsync/internal/core/ingestion_engine"
	"github.com/markdave123-py/vectorsync/internal/models"
)

// ErrInvalidTarget is returned for a request without index name or namespace.
var ErrInvalidTarget = errors.New("indexname and namespace are required")

// IngestService runs ingestions of the configured document source.
// It is safe for concurrent use; every Start gets independent run state.
type IngestService struct {
	source   core.DocumentSource
	pipeline *ingestion_engine.Pipeline
	store    core.VectorStore
}

func NewIngestService(source core.DocumentSource, pipeline *ingestion_engine.Pipeline, store core.VectorStore) *IngestService {
	return &IngestService{source: source, pipeline: pipeline, store: store}
}

// ListFiles returns the source ids with a supported file type, in run order.
func (s *IngestService) ListFiles(ctx context.Context) ([]string, error) {
	ids, err := s.source.List(ctx)
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(ids))
	for _, id := range ids {
		if documents.Supported(id) {
			files = append(files, id)
		}
	}
	return files, nil
}

// Start validates the target and begins a run. Cancel ctx to abort it.
func (s *IngestService) Start(ctx context.Context, target models.Target) (*ingestion_engine.ProgressStream, error) {
	target.IndexName = strings.TrimSpace(target.IndexName)
	target.Namespace = strings.TrimSpace(target.Namespace)
	if target.IndexName == "" || target.Namespace == "" {
		return nil, ErrInvalidTarget
	}

	if v, ok := s.store.(core.IndexVerifier); ok {
		if err := v.CheckIndex(ctx, target.IndexName); err != nil {
			return nil, fmt.Errorf("verify index: %w", err)
		}
	}

	return s.pipeline.Stream(ctx, s.source, target), nil
}
