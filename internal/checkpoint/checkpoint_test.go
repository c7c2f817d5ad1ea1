package checkpoint

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectCreatesTable(t *testing.T) {
	store, err := Connect(":memory:", false)
	require.NoError(t, err)
	require.NotNil(t, store)

	assert.True(t, store.db.Migrator().HasTable(&Checkpoint{}))
}

func TestConnectCreatesNestedDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "deep", "checkpoints.db")

	store, err := Connect(dbPath, false)
	require.NoError(t, err)
	require.NotNil(t, store)

	assert.DirExists(t, filepath.Dir(dbPath))
}

func TestCreateCheckpointAndLookupRoundTrip(t *testing.T) {
	store, err := Connect(":memory:", false)
	require.NoError(t, err)

	preImage := []byte("def foo():\n    return 1\n")
	require.NoError(t, store.CreateCheckpoint("/tmp/sample.py", "before-fix", preImage))

	got, err := store.Lookup("/tmp/sample.py", "before-fix")
	require.NoError(t, err)
	assert.Equal(t, preImage, got)
}

func TestCreateCheckpointTxRecordsTransactionID(t *testing.T) {
	store, err := Connect(":memory:", false)
	require.NoError(t, err)

	require.NoError(t, store.CreateCheckpointTx("txn-abc", "/tmp/sample.py", "cp1", []byte("content")))

	var row Checkpoint
	require.NoError(t, store.db.Where("name = ?", "cp1").First(&row).Error)
	assert.Equal(t, "txn-abc", row.TxnID)
	assert.NotEmpty(t, row.Digest)
}

func TestLookupMissingReturnsNotFound(t *testing.T) {
	store, err := Connect(":memory:", false)
	require.NoError(t, err)

	_, err = store.Lookup("/tmp/sample.py", "does-not-exist")
	assert.Error(t, err)
}

func TestLookupReturnsMostRecentForSameNameAndPath(t *testing.T) {
	store, err := Connect(":memory:", false)
	require.NoError(t, err)

	require.NoError(t, store.CreateCheckpoint("/tmp/sample.py", "cp", []byte("first")))
	require.NoError(t, store.CreateCheckpoint("/tmp/sample.py", "cp", []byte("second")))

	got, err := store.Lookup("/tmp/sample.py", "cp")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)
}

func TestVerifyDigestDetectsMismatch(t *testing.T) {
	store, err := Connect(":memory:", false)
	require.NoError(t, err)

	require.NoError(t, store.CreateCheckpoint("/tmp/sample.py", "cp", []byte("original content")))

	ok, err := store.VerifyDigest("/tmp/sample.py", "cp", []byte("original content"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.VerifyDigest("/tmp/sample.py", "cp", []byte("tampered content"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckpointScopedByPath(t *testing.T) {
	store, err := Connect(":memory:", false)
	require.NoError(t, err)

	require.NoError(t, store.CreateCheckpoint("/tmp/a.py", "cp", []byte("a-content")))
	require.NoError(t, store.CreateCheckpoint("/tmp/b.py", "cp", []byte("b-content")))

	gotA, err := store.Lookup("/tmp/a.py", "cp")
	require.NoError(t, err)
	assert.Equal(t, []byte("a-content"), gotA)

	gotB, err := store.Lookup("/tmp/b.py", "cp")
	require.NoError(t, err)
	assert.Equal(t, []byte("b-content"), gotB)
}
