// Package config holds the constructor-level options spec.md §5/§6
// name: worker pool size, memory-map threshold, cache ceiling, lock
// timeout, and operation timeout. Grounded on termfx-morfx's
// mcp/config.go (Config struct + DefaultConfig() shape), widened from
// that file's MCP-server-specific fields (DatabaseURL, AutoApply*,
// session limits) to the engine-level knobs spec.md's "Environment"
// paragraph actually calls for.
//
// spec.md §6 is explicit that "none of the above operations read
// process-wide environment variables" — every internal/* constructor
// here takes Options by value, never os.Getenv directly. The optional
// .env overlay in Load is a cmd/fluxedit convenience only, mirroring
// how termfx-morfx's own db/sqlite_integration_test.go uses godotenv
// to populate local test environment, not how its library code is
// constructed.
package config

import (
	"time"

	"github.com/joho/godotenv"
)

// Options configures the engine's resource limits. The zero value is
// not usable directly; call Default() or Load() to get a populated
// Options.
type Options struct {
	// WorkerPoolSize is the slot count of mapfile.Store's
	// golang.org/x/sync/semaphore.Weighted: ReadWholeAsync and
	// ReadLinesAsync each hold one slot while they read.
	WorkerPoolSize int64

	// LargeFileThreshold is the byte size at or above which the mapped
	// file store's mmap-backed path is used instead of a plain
	// os.ReadFile, per spec.md §4.1 (NEW detail in SPEC_FULL.md).
	LargeFileThreshold int64

	// CacheCeiling is a byte ceiling for an internal/cache.LRU. It is
	// loaded and overlaid like the other fields, but no component reads
	// it: nothing in this module builds an LRU from Options.
	CacheCeiling int64

	// LockTimeout is loaded and overlaid like the other fields, but no
	// component reads it: txn.Manager.Acquire takes its advisory lock
	// non-blocking and fails with TransactionConflict at once when the
	// file is already locked.
	LockTimeout time.Duration

	// OperationTimeout bounds the total cooperative time of a single
	// replace request, default 60s, per spec.md §5. api.TextReplace
	// applies it as a context deadline; zero or less means no deadline.
	OperationTimeout time.Duration

	// FuzzyThreshold is the default auto-recovery similarity score,
	// per spec.md §4.8 (0.85).
	FuzzyThreshold float64

	// TabWidth is the default indentation unit width used when a
	// replacement's own indentation is ambiguous, per internal/reflow.
	TabWidth int

	// DatabaseDSN is loaded from FLUX_DATABASE_DSN but not read by
	// cmd/fluxedit, which opens a checkpoint store only from the path
	// given by its --checkpoint-db flag.
	DatabaseDSN string

	// Debug enables verbose gorm logging on the checkpoint store.
	Debug bool
}

// Default returns spec.md's documented defaults.
func Default() Options {
	return Options{
		WorkerPoolSize:     4,
		LargeFileThreshold: 4 * 1024 * 1024,
		CacheCeiling:       64 * 1024 * 1024,
		LockTimeout:        5 * time.Second,
		OperationTimeout:   60 * time.Second,
		FuzzyThreshold:     0.85,
		TabWidth:           4,
		DatabaseDSN:        "flux-mcp.db",
		Debug:              false,
	}
}

// Load returns Default() overlaid with any FLUX_* variables present in
// a local .env file. It is a cmd/fluxedit-only convenience: every
// internal/* package still receives its limits as explicit
// constructor arguments, never by reading the environment itself.
func Load(envFile string) Options {
	opts := Default()

	_ = godotenv.Load(envFile)

	overlayInt64(&opts.WorkerPoolSize, "FLUX_WORKER_POOL_SIZE")
	overlayInt64(&opts.LargeFileThreshold, "FLUX_LARGE_FILE_THRESHOLD")
	overlayInt64(&opts.CacheCeiling, "FLUX_CACHE_CEILING")
	overlayDuration(&opts.LockTimeout, "FLUX_LOCK_TIMEOUT")
	overlayDuration(&opts.OperationTimeout, "FLUX_OPERATION_TIMEOUT")
	overlayFloat(&opts.FuzzyThreshold, "FLUX_FUZZY_THRESHOLD")
	overlayString(&opts.DatabaseDSN, "FLUX_DATABASE_DSN")

	return opts
}
