package api

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul1-bot/flux-mcp/internal/checkpoint"
	"github.com/rahul1-bot/flux-mcp/internal/config"
)

func rawJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestTextReplaceTopLevelFunction(t *testing.T) {
	path := writeFile(t, "def foo():\n    return 1\n")
	s := newTestService(t)

	result, err := s.TextReplace(context.Background(), TextReplaceRequest{
		Path:        path,
		Highlight:   rawJSON(t, "foo"),
		ReplaceWith: rawJSON(t, "def foo():\n    return 2\n"),
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Contains(t, result.SuccessfulTargets, "foo")

	on, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(on), "return 2")
}

func TestTextReplaceDryRunLeavesFileUntouched(t *testing.T) {
	original := "def foo():\n    return 1\n"
	path := writeFile(t, original)
	s := newTestService(t)

	result, err := s.TextReplace(context.Background(), TextReplaceRequest{
		Path:        path,
		Highlight:   rawJSON(t, "foo"),
		ReplaceWith: rawJSON(t, "def foo():\n    return 2\n"),
		DryRun:      true,
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Contains(t, result.NewContent, "return 2")

	on, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, string(on))
}

func TestTextReplaceBatchMode(t *testing.T) {
	path := writeFile(t, "def foo():\n    return 1\n\n\ndef bar():\n    return 2\n")
	s := newTestService(t)

	result, err := s.TextReplace(context.Background(), TextReplaceRequest{
		Path:        path,
		BatchMode:   true,
		Highlight:   rawJSON(t, []string{"foo", "bar"}),
		ReplaceWith: rawJSON(t, []string{"def foo():\n    return 10\n", "def bar():\n    return 20\n"}),
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.ElementsMatch(t, []string{"foo", "bar"}, result.SuccessfulTargets)
}

func TestTextReplaceRelatedFilesAppliesToEachSibling(t *testing.T) {
	dir := t.TempDir()
	primary := filepath.Join(dir, "a.py")
	sibling := filepath.Join(dir, "b.py")
	require.NoError(t, os.WriteFile(primary, []byte("def foo():\n    return 1\n"), 0o644))
	require.NoError(t, os.WriteFile(sibling, []byte("def foo():\n    return 1\n"), 0o644))

	s := newTestService(t)
	result, err := s.TextReplace(context.Background(), TextReplaceRequest{
		Path: primary,
		Highlight: rawJSON(t, map[string]any{
			"target":        "foo",
			"related_files": []string{sibling},
		}),
		ReplaceWith: rawJSON(t, "def foo():\n    return 99\n"),
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.ElementsMatch(t, []string{primary, sibling}, result.ModifiedFiles)

	for _, p := range []string{primary, sibling} {
		on, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.Contains(t, string(on), "return 99")
	}
}

func TestTextReplaceTargetListFirstResolvableWins(t *testing.T) {
	path := writeFile(t, "def bar():\n    return 1\n")
	s := newTestService(t)

	result, err := s.TextReplace(context.Background(), TextReplaceRequest{
		Path: path,
		Highlight: rawJSON(t, map[string]any{
			"target": []string{"missingName", "bar"},
		}),
		ReplaceWith: rawJSON(t, "def bar():\n    return 2\n"),
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Contains(t, result.SuccessfulTargets, "bar")

	on, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(on), "return 2")
}

func TestTextReplaceFormatErrorAutoRecoverySucceeds(t *testing.T) {
	path := writeFile(t, "def foo():\n    return 1\n")
	s := newTestService(t)

	result, err := s.TextReplace(context.Background(), TextReplaceRequest{
		Path:        path,
		Highlight:   rawJSON(t, "def foo()"),
		ReplaceWith: rawJSON(t, "def foo():\n    return 2\n"),
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, result.AutoFixed)
	assert.Equal(t, "foo", result.OriginalHighlight)
	assert.Contains(t, result.SuccessfulTargets, "foo")

	on, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(on), "return 2")
}

func TestTextReplaceCheckpointWithoutStoreFails(t *testing.T) {
	path := writeFile(t, "def foo():\n    return 1\n")
	s := newTestService(t)

	_, err := s.TextReplace(context.Background(), TextReplaceRequest{
		Path:           path,
		Highlight:      rawJSON(t, "foo"),
		ReplaceWith:    rawJSON(t, "def foo():\n    return 2\n"),
		AutoCheckpoint: true,
	})
	require.Error(t, err)
}

func TestTextReplaceCreatesCheckpointWhenStoreConfigured(t *testing.T) {
	path := writeFile(t, "def foo():\n    return 1\n")
	store, err := checkpoint.Connect(filepath.Join(t.TempDir(), "checkpoints.db"), false)
	require.NoError(t, err)
	s := New(config.Default(), store)
	t.Cleanup(func() { _ = s.Close() })

	result, err := s.TextReplace(context.Background(), TextReplaceRequest{
		Path:           path,
		Highlight:      rawJSON(t, "foo"),
		ReplaceWith:    rawJSON(t, "def foo():\n    return 2\n"),
		Checkpoint:     "before-foo-change",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)

	preImage, err := store.Lookup(path, "before-foo-change")
	require.NoError(t, err)
	assert.Equal(t, "def foo():\n    return 1\n", string(preImage))
}

func TestTextReplacePatternTarget(t *testing.T) {
	path := writeFile(t, "x = 1\nx = 1\n")
	s := newTestService(t)

	result, err := s.TextReplace(context.Background(), TextReplaceRequest{
		Path:        path,
		Highlight:   rawJSON(t, map[string]any{"pattern": `x = 1`}),
		ReplaceWith: rawJSON(t, "x = 2"),
	})
	require.NoError(t, err)
	assert.True(t, result.Success)

	on, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x = 2\nx = 2\n", string(on))
}
