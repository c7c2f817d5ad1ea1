package txn

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul1-bot/flux-mcp/internal/apierr"
)

func TestCommitPersistsStagedContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.py")
	require.NoError(t, os.WriteFile(path, []byte("original\n"), 0o644))

	m := NewManager()
	id := m.Begin()
	require.NoError(t, m.Acquire(id, path))
	require.NoError(t, m.Stage(id, path, []byte("replaced\n")))
	require.NoError(t, m.Commit(id))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "replaced\n", string(got))

	// No leftover staging temp files.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRollbackRestoresPreImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.py")
	require.NoError(t, os.WriteFile(path, []byte("original\n"), 0o644))

	m := NewManager()
	id := m.Begin()
	require.NoError(t, m.Acquire(id, path))
	require.NoError(t, m.Stage(id, path, []byte("replaced\n")))
	require.NoError(t, m.Rollback(id))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original\n", string(got))
}

func TestRollbackRemovesFileThatDidNotExist(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "new.py")

	m := NewManager()
	id := m.Begin()
	require.NoError(t, m.Acquire(id, path))
	require.NoError(t, m.Stage(id, path, []byte("new content\n")))
	require.NoError(t, m.Rollback(id))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestRepeatedTerminalTransitionFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.py")
	require.NoError(t, os.WriteFile(path, []byte("x\n"), 0o644))

	m := NewManager()
	id := m.Begin()
	require.NoError(t, m.Acquire(id, path))
	require.NoError(t, m.Commit(id))

	err := m.Commit(id)
	require.Error(t, err)
	assert.True(t, apierr.Is(err, apierr.TransactionFinished))
}

func TestUnknownTransactionFails(t *testing.T) {
	m := NewManager()
	err := m.Acquire("does-not-exist", "/tmp/whatever.py")
	require.Error(t, err)
	assert.True(t, apierr.Is(err, apierr.UnknownTransaction))
}

func TestConcurrentAcquireOfSameFileConflicts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.py")
	require.NoError(t, os.WriteFile(path, []byte("x\n"), 0o644))

	m := NewManager()
	first := m.Begin()
	require.NoError(t, m.Acquire(first, path))

	second := m.Begin()
	err := m.Acquire(second, path)
	require.Error(t, err)
	assert.True(t, apierr.Is(err, apierr.TransactionConflict))
}

func TestAcquireCreatesMissingParentDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deep", "a.py")

	m := NewManager()
	id := m.Begin()
	require.NoError(t, m.Acquire(id, path))
	require.NoError(t, m.Stage(id, path, []byte("hi\n")))
	require.NoError(t, m.Commit(id))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hi\n", string(got))
}
