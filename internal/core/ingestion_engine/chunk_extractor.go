package ingestion_engine

import (
	"fmt"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/markdave123-py/vectorsync/internal/models"
)

// Chunker splits one document's text into bounded-size chunks.
// Split is a pure function of its input: empty text yields no chunks,
// non-empty text yields at least one.
type Chunker interface {
	Split(text string) []string
}

// NewChunker builds the chunker selected by cfg.Strategy.
func NewChunker(cfg *IngestConfig) (Chunker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	character, err := NewCharacterChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, err
	}
	if cfg.Strategy == StrategyRecursive {
		return NewRecursiveChunker(character), nil
	}
	return character, nil
}

// CharacterChunker cuts fixed windows of runes.
//
// For a text of L runes, chunk size C and overlap O < C it produces
// ceil((L-O)/(C-O)) chunks (one chunk when L <= C). Dropping the first O
// runes of every chunk after the first and concatenating reproduces the input.
type CharacterChunker struct {
	size    int
	overlap int
}

// NewCharacterChunker validates size and overlap.
func NewCharacterChunker(size, overlap int) (*CharacterChunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap must be in [0, %d), got %d", size, overlap)
	}
	return &CharacterChunker{size: size, overlap: overlap}, nil
}

// Split returns the windows in document order.
func (c *CharacterChunker) Split(text string) []string {
	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return nil
	}

	step := c.size - c.overlap
	out := make([]string, 0, n/step+1)
	for start := 0; ; start += step {
		end := min(start+c.size, n)
		out = append(out, string(runes[start:end]))
		if end == n {
			break
		}
	}
	return out
}

// RecursiveChunker prefers paragraph, line and word boundaries, using
// langchaingo's recursive character splitter. Whitespace at the cut points
// is trimmed, so it trades exact coverage for readable chunks.
type RecursiveChunker struct {
	splitter textsplitter.RecursiveCharacter
	fallback *CharacterChunker
}

// NewRecursiveChunker uses the size and overlap of the given character chunker.
func NewRecursiveChunker(fallback *CharacterChunker) *RecursiveChunker {
	return &RecursiveChunker{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(fallback.size),
			textsplitter.WithChunkOverlap(fallback.overlap),
		),
		fallback: fallback,
	}
}

// Split falls back to fixed windows when the recursive splitter fails or
// drops everything (whitespace-only input).
func (c *RecursiveChunker) Split(text string) []string {
	if text == "" {
		return nil
	}
	parts, err := c.splitter.SplitText(text)
	if err != nil || len(parts) == 0 {
		return c.fallback.Split(text)
	}
	return parts
}

// chunkDocument turns a document into positioned chunks.
func chunkDocument(chunker Chunker, doc *models.Document) []models.Chunk {
	parts := chunker.Split(doc.Text)
	out := make([]models.Chunk, len(parts))
	for pos, text := range parts {
		out[pos] = models.Chunk{DocumentID: doc.SourceID, Position: pos, Text: text}
	}
	return out
}
