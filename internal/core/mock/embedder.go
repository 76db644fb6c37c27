package mock

import (
	"context"
	"hash/fnv"
	"sync"
)

// Embedder is a test double for core.EmbeddingProvider.
type Embedder struct {
	// EmbedTextsFunc is called by EmbedTexts if set.
	// If nil, returns a deterministic vector of Dim values per text.
	EmbedTextsFunc func(ctx context.Context, call int, texts []string) ([][]float32, error)

	// Dim is the dimension of default vectors; 0 means 8.
	Dim int

	mu    sync.Mutex
	calls [][]string
}

func NewEmbedder() *Embedder {
	return &Embedder{}
}

// EmbedTexts records the call and delegates.
func (m *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	call := len(m.calls)
	m.calls = append(m.calls, append([]string(nil), texts...))
	m.mu.Unlock()

	if m.EmbedTextsFunc != nil {
		return m.EmbedTextsFunc(ctx, call, texts)
	}

	dim := m.Dim
	if dim == 0 {
		dim = 8
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = deterministicVector(t, dim)
	}
	return out, nil
}

// Calls returns the texts of every EmbedTexts call, in order.
func (m *Embedder) Calls() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]string(nil), m.calls...)
}

// deterministicVector derives a vector from the FNV hash of text.
func deterministicVector(text string, dim int) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	vec := make([]float32, dim)
	for i := range vec {
		seed = seed*1664525 + 1013904223 // LCG constants
		vec[i] = float32(seed%1000) / 1000.0
	}
	return vec
}
