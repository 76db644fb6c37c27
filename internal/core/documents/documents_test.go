package documents

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExtractor struct {
	contentType string
	text        string
	err         error
}

func (f *fakeExtractor) ExtractText(_ context.Context, _ []byte, contentType string) (string, error) {
	f.contentType = contentType
	return f.text, f.err
}

func writeFile(t *testing.T, root, rel, body string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
}

func TestDirectorySource_List(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b.txt", "bee")
	writeFile(t, root, "a.md", "# a")
	writeFile(t, root, "sub/c.pdf", "%PDF")
	writeFile(t, root, ".hidden.txt", "no")
	writeFile(t, root, ".git/config", "no")

	ids, err := NewDirectorySource(root, nil).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.md", "b.txt", "sub/c.pdf"}, ids)
}

func TestDirectorySource_ListMissingRoot(t *testing.T) {
	_, err := NewDirectorySource(filepath.Join(t.TempDir(), "nope"), nil).List(context.Background())
	assert.Error(t, err)
}

func TestDirectorySource_Load(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "notes/a.txt", "hello\nworld")
	writeFile(t, root, "bad.txt", string([]byte{0xff, 0xfe, 0x00}))
	writeFile(t, root, "tool.exe", "MZ")
	writeFile(t, root, "paper.PDF", "%PDF-1.4")

	ex := &fakeExtractor{text: "extracted text"}
	src := NewDirectorySource(root, ex)
	ctx := context.Background()

	doc, err := src.Load(ctx, "notes/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "notes/a.txt", doc.SourceID)
	assert.Equal(t, "hello\nworld", doc.Text)
	assert.Equal(t, "a", doc.Name())

	_, err = src.Load(ctx, "bad.txt")
	assert.Error(t, err)

	_, err = src.Load(ctx, "tool.exe")
	assert.ErrorIs(t, err, ErrUnsupportedType)

	doc, err = src.Load(ctx, "paper.PDF")
	require.NoError(t, err)
	assert.Equal(t, "extracted text", doc.Text)
	assert.Equal(t, "application/pdf", ex.contentType)

	_, err = src.Load(ctx, "missing.txt")
	assert.Error(t, err)
}

func TestDecode_ExtractorErrors(t *testing.T) {
	ctx := context.Background()

	_, err := decode(ctx, nil, "a.docx", []byte("x"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	boom := errors.New("corrupt file")
	_, err = decode(ctx, &fakeExtractor{err: boom}, "a.docx", []byte("x"))
	assert.ErrorIs(t, err, boom)
}

func TestSupported(t *testing.T) {
	for id, want := range map[string]bool{
		"a.txt":        true,
		"dir/b.MD":     true,
		"c.pdf":        true,
		"d.html":       true,
		"e.docx":       true,
		"f.png":        false,
		"no-extension": false,
	} {
		assert.Equal(t, want, Supported(id), id)
	}
}

type fakeObjects struct {
	keys  []string
	files map[string][]byte
}

func (f *fakeObjects) ListKeys(_ context.Context, bucket, prefix string) ([]string, error) {
	if bucket != "docs-bucket" {
		return nil, errors.New("no such bucket")
	}
	return f.keys, nil
}

func (f *fakeObjects) GetFile(_ context.Context, _, key string) ([]byte, error) {
	data, ok := f.files[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return data, nil
}

func TestObjectSource(t *testing.T) {
	client := &fakeObjects{
		keys: []string{"in/z.txt", "in/", "in/a.md", "in/sub/"},
		files: map[string][]byte{
			"in/z.txt": []byte("zed"),
			"in/a.md":  []byte("# title"),
		},
	}
	ctx := context.Background()
	src := NewObjectSource(client, "docs-bucket", "in/", nil)

	ids, err := src.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"in/a.md", "in/z.txt"}, ids)

	doc, err := src.Load(ctx, "in/z.txt")
	require.NoError(t, err)
	assert.Equal(t, "zed", doc.Text)
	assert.Equal(t, "z", doc.Name())

	_, err = src.Load(ctx, "in/missing.txt")
	assert.Error(t, err)

	_, err = NewObjectSource(client, "other", "", nil).List(ctx)
	assert.Error(t, err)
}

func TestStaticSource(t *testing.T) {
	ctx := context.Background()
	src := NewStaticSource()
	ids, err := src.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = src.Load(ctx, "x.txt")
	assert.Error(t, err)
}
