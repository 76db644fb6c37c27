package documents

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/markdave123-py/vectorsync/internal/core"
	"github.com/markdave123-py/vectorsync/internal/models"
)

var _ core.DocumentSource = (*ObjectSource)(nil)

// ObjectSource loads the objects stored under a bucket prefix.
type ObjectSource struct {
	client    core.ObjectClient
	bucket    string
	prefix    string
	extractor core.DocumentExtractor
}

func NewObjectSource(client core.ObjectClient, bucket, prefix string, extractor core.DocumentExtractor) *ObjectSource {
	return &ObjectSource{client: client, bucket: bucket, prefix: prefix, extractor: extractor}
}

// List returns object keys in lexical order, skipping folder markers.
func (s *ObjectSource) List(ctx context.Context) ([]string, error) {
	keys, err := s.client.ListKeys(ctx, s.bucket, s.prefix)
	if err != nil {
		return nil, fmt.Errorf("list s3://%s/%s: %w", s.bucket, s.prefix, err)
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if strings.HasSuffix(k, "/") {
			continue
		}
		out = append(out, k)
	}
	sort.Strings(out)
	return out, nil
}

// Load downloads and decodes one object.
func (s *ObjectSource) Load(ctx context.Context, key string) (*models.Document, error) {
	if !Supported(key) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, key)
	}
	data, err := s.client.GetFile(ctx, s.bucket, key)
	if err != nil {
		return nil, err
	}
	return decode(ctx, s.extractor, key, data)
}
