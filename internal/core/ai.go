package core

import "context"

// EmbeddingProvider maps texts to vectors of one fixed dimension.
// The returned slice has the same length and order as texts.
type EmbeddingProvider interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
