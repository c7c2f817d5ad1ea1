package mapfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.py")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestOpenAndReadWhole(t *testing.T) {
	path := writeTemp(t, "class Foo:\n    pass\n")
	s := NewStore(2)
	defer s.Close()

	got, err := s.ReadWhole(path)
	require.NoError(t, err)
	assert.Equal(t, "class Foo:\n    pass\n", string(got))
}

func TestLineIndexInvariants(t *testing.T) {
	content := "line0\nline1\nline2\n"
	path := writeTemp(t, content)
	s := NewStore(1)
	defer s.Close()

	h, err := s.Open(path)
	require.NoError(t, err)

	n := h.LineCount()
	require.Equal(t, 4, n, "three newlines give four line starts, the last at offset == size")
	assert.Equal(t, 0, h.offsets[0])
	for _, off := range h.offsets {
		assert.LessOrEqual(t, off, int(h.Size()))
	}

	assert.Equal(t, "line1\n", string(h.ReadLines(1, 1)))
	assert.Equal(t, "line0\nline1\n", string(h.ReadLines(0, 1)))
}

func TestReadLinesFinalLineWithoutTerminator(t *testing.T) {
	path := writeTemp(t, "a\nb")
	s := NewStore(1)
	defer s.Close()

	h, err := s.Open(path)
	require.NoError(t, err)
	assert.Equal(t, 2, h.LineCount())
	assert.Equal(t, "b", string(h.ReadLines(1, 1)))
}

func TestEmptyFileYieldsEmptyMapping(t *testing.T) {
	path := writeTemp(t, "")
	s := NewStore(1)
	defer s.Close()

	h, err := s.Open(path)
	require.NoError(t, err)
	assert.Equal(t, int64(0), h.Size())
	assert.Equal(t, []byte{}, h.ReadWhole())
	assert.Equal(t, 1, h.LineCount(), "an empty file still has one (empty) line start at offset 0")
}

func TestOpenMissingFileReturnsNotFound(t *testing.T) {
	s := NewStore(1)
	defer s.Close()

	_, err := s.Open(filepath.Join(t.TempDir(), "missing.py"))
	require.Error(t, err)
}

func TestReadWholeAsyncRespectsPoolBound(t *testing.T) {
	path := writeTemp(t, "class Foo:\n    pass\n")
	s := NewStore(1)
	defer s.Close()

	ctx := context.Background()
	got, err := s.ReadWholeAsync(ctx, path)
	require.NoError(t, err)
	assert.Contains(t, string(got), "class Foo")
}

func TestReleaseThenReopen(t *testing.T) {
	path := writeTemp(t, "x = 1\n")
	s := NewStore(1)
	defer s.Close()

	_, err := s.Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Release(path))

	got, err := s.ReadWhole(path)
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", string(got))
}
