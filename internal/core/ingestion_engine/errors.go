package ingestion_engine

import "errors"

var (
	// ErrSourceLoad means a document could not be listed or loaded.
	ErrSourceLoad = errors.New("source error")

	// ErrEmbedding means the embedding call for a batch failed.
	ErrEmbedding = errors.New("embedding error")

	// ErrEmbeddingCount means the embedder returned a different number of vectors than texts.
	ErrEmbeddingCount = errors.New("embedding count mismatch")

	// ErrDimensionMismatch means a vector's length differs from the run's dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrStoreWrite means the vector store rejected a batch.
	ErrStoreWrite = errors.New("store error")

	// ErrCanceled means the caller went away. It stops the run but is not a pipeline failure.
	ErrCanceled = errors.New("ingestion canceled")
)

// IsFailure reports whether err is a pipeline failure rather than a caller cancellation.
func IsFailure(err error) bool {
	return err != nil && !errors.Is(err, ErrCanceled)
}
