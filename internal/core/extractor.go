package core

import "context"

// DocumentExtractor defines the interface for extracting plain text from binary document formats.
type DocumentExtractor interface {
	// ExtractText returns the full text of data. The contentType hint selects the parsing strategy.
	ExtractText(ctx context.Context, data []byte, contentType string) (string, error)
}
