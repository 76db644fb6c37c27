package mock

import (
	"context"

	"github.com/markdave123-py/vectorsync/internal/models"
)

// Source is a test double for core.DocumentSource.
type Source struct {
	ListFunc func(ctx context.Context) ([]string, error)
	LoadFunc func(ctx context.Context, sourceID string) (*models.Document, error)
}

func (m *Source) List(ctx context.Context) ([]string, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *Source) Load(ctx context.Context, sourceID string) (*models.Document, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx, sourceID)
	}
	return &models.Document{SourceID: sourceID}, nil
}
