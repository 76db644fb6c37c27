package documents

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/markdave123-py/vectorsync/internal/core"
	"github.com/markdave123-py/vectorsync/internal/models"
)

// ErrUnsupportedType is returned by Load for a file extension no loader handles.
var ErrUnsupportedType = errors.New("unsupported document type")

// plainText extensions are taken verbatim.
var plainText = map[string]bool{
	".txt": true,
	".md":  true,
}

// extracted maps extensions handed to the DocumentExtractor to their content type.
var extracted = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".odt":  "application/vnd.oasis.opendocument.text",
	".rtf":  "application/rtf",
	".html": "text/html",
	".htm":  "text/html",
}

// Supported reports whether a source id has an extension some loader handles.
func Supported(sourceID string) bool {
	ext := strings.ToLower(path.Ext(sourceID))
	_, ok := extracted[ext]
	return ok || plainText[ext]
}

// decode turns raw file bytes into a Document according to the file extension.
func decode(ctx context.Context, ex core.DocumentExtractor, sourceID string, data []byte) (*models.Document, error) {
	ext := strings.ToLower(path.Ext(sourceID))

	if plainText[ext] {
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("%s: text is not valid UTF-8", sourceID)
		}
		return &models.Document{SourceID: sourceID, Text: string(data)}, nil
	}

	contentType, ok := extracted[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q (%s)", ErrUnsupportedType, ext, sourceID)
	}
	if ex == nil {
		return nil, fmt.Errorf("%w: no extractor configured for %s", ErrUnsupportedType, contentType)
	}

	text, err := ex.ExtractText(ctx, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", sourceID, err)
	}
	return &models.Document{SourceID: sourceID, Text: text}, nil
}
