package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesDocumentedDefaults(t *testing.T) {
	opts := Default()

	assert.Equal(t, int64(4), opts.WorkerPoolSize)
	assert.Equal(t, int64(4*1024*1024), opts.LargeFileThreshold)
	assert.Equal(t, 60*time.Second, opts.OperationTimeout)
	assert.Equal(t, 0.85, opts.FuzzyThreshold)
	assert.Equal(t, 4, opts.TabWidth)
	assert.False(t, opts.Debug)
}

func TestLoadWithoutEnvFileReturnsDefaults(t *testing.T) {
	opts := Load(filepath.Join(t.TempDir(), "does-not-exist.env"))
	assert.Equal(t, Default(), opts)
}

func TestLoadOverlaysFromEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "test.env")
	content := "FLUX_WORKER_POOL_SIZE=16\n" +
		"FLUX_OPERATION_TIMEOUT=90s\n" +
		"FLUX_FUZZY_THRESHOLD=0.9\n" +
		"FLUX_DATABASE_DSN=/tmp/custom.db\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o644))

	defer os.Unsetenv("FLUX_WORKER_POOL_SIZE")
	defer os.Unsetenv("FLUX_OPERATION_TIMEOUT")
	defer os.Unsetenv("FLUX_FUZZY_THRESHOLD")
	defer os.Unsetenv("FLUX_DATABASE_DSN")

	opts := Load(envPath)

	assert.Equal(t, int64(16), opts.WorkerPoolSize)
	assert.Equal(t, 90*time.Second, opts.OperationTimeout)
	assert.Equal(t, 0.9, opts.FuzzyThreshold)
	assert.Equal(t, "/tmp/custom.db", opts.DatabaseDSN)
	// Fields absent from the .env file keep their defaults.
	assert.Equal(t, Default().LargeFileThreshold, opts.LargeFileThreshold)
}

func TestOverlayIgnoresMalformedValues(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "bad.env")
	require.NoError(t, os.WriteFile(envPath, []byte("FLUX_WORKER_POOL_SIZE=not-a-number\n"), 0o644))
	defer os.Unsetenv("FLUX_WORKER_POOL_SIZE")

	opts := Load(envPath)
	assert.Equal(t, Default().WorkerPoolSize, opts.WorkerPoolSize)
}
