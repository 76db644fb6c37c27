package documents

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/markdave123-py/vectorsync/internal/core"
	"github.com/markdave123-py/vectorsync/internal/models"
)

var _ core.DocumentSource = (*DirectorySource)(nil)

// DirectorySource loads every non-hidden file below root, in lexical path order.
type DirectorySource struct {
	root      string
	extractor core.DocumentExtractor
}

func NewDirectorySource(root string, extractor core.DocumentExtractor) *DirectorySource {
	return &DirectorySource{root: root, extractor: extractor}
}

// List returns slash-separated paths relative to root.
func (s *DirectorySource) List(ctx context.Context) ([]string, error) {
	var out []string
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p != s.root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.root, err)
	}
	return out, nil
}

// Load reads and decodes one file.
func (s *DirectorySource) Load(ctx context.Context, sourceID string) (*models.Document, error) {
	if !Supported(sourceID) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, sourceID)
	}
	data, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(sourceID)))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", sourceID, err)
	}
	return decode(ctx, s.extractor, sourceID, data)
}
