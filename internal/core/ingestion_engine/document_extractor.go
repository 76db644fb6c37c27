package ingestion_engine

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"code.sajari.com/docconv"

	"github.com/markdave123-py/vectorsync/internal/core"
)

var _ core.DocumentExtractor = (*DocconvExtractor)(nil)

// DocconvExtractor implements core.DocumentExtractor using sajari/docconv.
// PDFs are converted as a single text, pages are not split.
type DocconvExtractor struct {
	useReadability bool
	logger         *slog.Logger
}

func NewDocconvExtractor(useReadability bool) *DocconvExtractor {
	return &DocconvExtractor{
		useReadability: useReadability,
		logger:         slog.Default().With("component", "docconv-extractor"),
	}
}

// ExtractText uses docconv to extract text from data based on content type.
func (e *DocconvExtractor) ExtractText(ctx context.Context, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	res, err := docconv.Convert(bytes.NewReader(data), contentType, e.useReadability)
	if err != nil {
		return "", fmt.Errorf("docconv: extraction failed for content type %q: %w", contentType, err)
	}

	text := strings.TrimSpace(res.Body)
	if text == "" {
		e.logger.Warn("extracted empty text", "content_type", contentType)
	}
	return text, nil
}
