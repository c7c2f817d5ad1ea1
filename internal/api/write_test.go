package api

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul1-bot/flux-mcp/internal/apierr"
)

func TestWriteFileSimpleModeWritesDirectly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	s := newTestService(t)

	status, err := s.WriteFile(WriteFileRequest{Path: path, Content: "hello\n"})
	require.NoError(t, err)
	assert.Contains(t, status, path)

	on, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(on))
}

func TestWriteFileCreatesParentDirectoriesByDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deeper", "out.txt")
	s := newTestService(t)

	_, err := s.WriteFile(WriteFileRequest{Path: path, Content: "hi\n"})
	require.NoError(t, err)

	on, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hi\n", string(on))
}

func TestWriteFileCreateDirsFalseFailsOnMissingParent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.txt")
	s := newTestService(t)

	createDirs := false
	_, err := s.WriteFile(WriteFileRequest{Path: path, Content: "hi\n", CreateDirs: &createDirs})
	require.Error(t, err)
	assert.True(t, apierr.Is(err, apierr.NotFound))
}

func TestWriteFileLargeContentGoesThroughTransaction(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.txt")
	s := newTestService(t)

	content := strings.Repeat("x", simpleWriteThreshold+1)
	status, err := s.WriteFile(WriteFileRequest{Path: path, Content: content})
	require.NoError(t, err)
	assert.Contains(t, status, path)

	on, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(on))
}

func TestWriteFileExplicitSimpleModeOverridesLargeContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.txt")
	s := newTestService(t)

	simple := true
	content := strings.Repeat("y", simpleWriteThreshold+1)
	_, err := s.WriteFile(WriteFileRequest{Path: path, Content: content, SimpleMode: &simple})
	require.NoError(t, err)

	on, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(on))
}

func TestWriteFileRejectsUnknownEncoding(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	s := newTestService(t)

	_, err := s.WriteFile(WriteFileRequest{Path: path, Content: "hi", Encoding: "bogus"})
	require.Error(t, err)
	assert.True(t, apierr.Is(err, apierr.FormatError))
}
