package models

import (
	"path"
	"path/filepath"
	"strings"
)

// Document is one loaded source file.
type Document struct {
	SourceID string `json:"source_id"` // path or object key the text was loaded from
	Text     string `json:"text"`
}

// Name is the source file's base name without its extension ("docs/a.txt" -> "a").
// It is used in progress events and as the prefix of every vector id.
func (d Document) Name() string {
	return DocumentName(d.SourceID)
}

// DocumentName derives the document name from a source identifier.
func DocumentName(sourceID string) string {
	base := path.Base(filepath.ToSlash(sourceID))
	return strings.TrimSuffix(base, path.Ext(base))
}

// Chunk is one bounded slice of a document's text.
//
// Position is zero-based and dense within a document.
type Chunk struct {
	DocumentID string `json:"document_id"`
	Position   int    `json:"position"`
	Text       string `json:"text"`
}

// RecordMetadata is stored alongside every vector.
type RecordMetadata struct {
	Chunk string `json:"chunk"`
}

// VectorRecord is the unit written to the vector store.
type VectorRecord struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata RecordMetadata `json:"metadata"`
}

// Target addresses the index and namespace an ingestion run writes to.
type Target struct {
	IndexName string `json:"indexname"`
	Namespace string `json:"namespace"`
}

// Progress is one event of the progress stream.
type Progress struct {
	Filename       string `json:"filename"`
	TotalChunks    int    `json:"totalChunks"`
	ChunksUpserted int    `json:"chunksUpserted"`
	IsComplete     bool   `json:"isComplete"`
}

// ProgressState holds the counters of the document currently being ingested.
// It belongs to exactly one run.
type ProgressState struct {
	Filename       string
	TotalChunks    int
	ChunksUpserted int
}

// Reset starts counting for a new document.
func (s *ProgressState) Reset(filename string, totalChunks int) {
	s.Filename = filename
	s.TotalChunks = totalChunks
	s.ChunksUpserted = 0
}

// Snapshot returns the state as a progress event.
func (s *ProgressState) Snapshot(isComplete bool) Progress {
	return Progress{
		Filename:       s.Filename,
		TotalChunks:    s.TotalChunks,
		ChunksUpserted: s.ChunksUpserted,
		IsComplete:     isComplete,
	}
}
