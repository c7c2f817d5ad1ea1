package api

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul1-bot/flux-mcp/internal/apierr"
	"github.com/rahul1-bot/flux-mcp/internal/config"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	opts := config.Default()
	s := New(opts, nil)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.py")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadFileWholeFile(t *testing.T) {
	path := writeFile(t, "def foo():\n    return 1\n")
	s := newTestService(t)

	text, err := s.ReadFile(ReadFileRequest{Path: path})
	require.NoError(t, err)
	assert.Equal(t, "def foo():\n    return 1\n", text)
}

func TestReadFileLineRange(t *testing.T) {
	path := writeFile(t, "line0\nline1\nline2\nline3\n")
	s := newTestService(t)

	start, end := 1, 2
	text, err := s.ReadFile(ReadFileRequest{Path: path, StartLine: &start, EndLine: &end})
	require.NoError(t, err)
	assert.Equal(t, "line1\nline2\n", text)
}

func TestReadFileMissingReturnsNotFound(t *testing.T) {
	s := newTestService(t)
	_, err := s.ReadFile(ReadFileRequest{Path: filepath.Join(t.TempDir(), "missing.py")})
	require.Error(t, err)
	assert.True(t, apierr.Is(err, apierr.NotFound))
}

func TestReadFileRejectsUnknownEncoding(t *testing.T) {
	path := writeFile(t, "hello\n")
	s := newTestService(t)

	_, err := s.ReadFile(ReadFileRequest{Path: path, Encoding: "shift-jis"})
	require.Error(t, err)
	assert.True(t, apierr.Is(err, apierr.FormatError))
}

func TestReadFileLargeFileGoesThroughMmapStore(t *testing.T) {
	big := make([]byte, 0, 5*1024*1024)
	for len(big) < cap(big) {
		big = append(big, "the quick brown fox\n"...)
	}
	path := writeFile(t, string(big))
	s := newTestService(t)

	text, err := s.ReadFile(ReadFileRequest{Path: path})
	require.NoError(t, err)
	assert.Equal(t, string(big), text)
}
