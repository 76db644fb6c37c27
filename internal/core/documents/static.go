package documents

import (
	"context"
	"fmt"

	"github.com/markdave123-py/vectorsync/internal/core"
	"github.com/markdave123-py/vectorsync/internal/models"
)

var _ core.DocumentSource = (*StaticSource)(nil)

// StaticSource serves documents that are already in memory, in the given order.
type StaticSource struct {
	docs []models.Document
}

func NewStaticSource(docs ...models.Document) *StaticSource {
	return &StaticSource{docs: docs}
}

func (s *StaticSource) List(_ context.Context) ([]string, error) {
	ids := make([]string, len(s.docs))
	for i, d := range s.docs {
		ids[i] = d.SourceID
	}
	return ids, nil
}

func (s *StaticSource) Load(_ context.Context, sourceID string) (*models.Document, error) {
	for i := range s.docs {
		if s.docs[i].SourceID == sourceID {
			doc := s.docs[i]
			return &doc, nil
		}
	}
	return nil, fmt.Errorf("document %q not found", sourceID)
}
