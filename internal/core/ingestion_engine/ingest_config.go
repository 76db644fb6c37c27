package ingestion_engine

import (
	"fmt"
)

// Chunking strategies understood by NewChunker.
const (
	StrategyCharacter = "character"
	StrategyRecursive = "recursive"
)

// IngestConfig tunes the ingestion pipeline. It is fixed for the whole run.
//
// ChunkSize:    max characters per chunk (e.g., 1000).
// ChunkOverlap: characters repeated between consecutive chunks (e.g., 200).
// BatchSize:    how many chunks to embed/write in one batch (e.g., 100).
// EmbedDim:     expected embedding dimension; 0 learns it from the first batch of the run.
// Strategy:     chunking strategy, "character" or "recursive".
type IngestConfig struct {
	ChunkSize    int
	ChunkOverlap int
	BatchSize    int
	EmbedDim     int
	Strategy     string
}

// DefaultIngestConfig mirrors the defaults used by the HTTP and CLI surfaces.
func DefaultIngestConfig() *IngestConfig {
	return &IngestConfig{
		ChunkSize:    1000,
		ChunkOverlap: 200,
		BatchSize:    100,
		Strategy:     StrategyCharacter,
	}
}

// Validate reports the first inconsistent setting.
func (c *IngestConfig) Validate() error {
	if c == nil {
		return fmt.Errorf("ingest config is nil")
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk overlap must be in [0, %d), got %d", c.ChunkSize, c.ChunkOverlap)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	}
	if c.EmbedDim < 0 {
		return fmt.Errorf("embedding dimension must not be negative, got %d", c.EmbedDim)
	}
	switch c.Strategy {
	case "", StrategyCharacter, StrategyRecursive:
	default:
		return fmt.Errorf("unknown chunk strategy %q", c.Strategy)
	}
	return nil
}
