// Package api wires the engine's internal packages into spec.md §6's
// four external operations: read_file, write_file, search, and
// text_replace. It is the one place a host surface (cmd/fluxedit today,
// an MCP transport tomorrow) calls into, grounded on the shape of
// termfx-morfx's mcp/tools/*.go handlers with the JSON-RPC envelope and
// session/progress plumbing stripped out — there is no MCP session at
// this layer, only plain Go values and errors.
package api

import (
	"github.com/rahul1-bot/flux-mcp/internal/checkpoint"
	"github.com/rahul1-bot/flux-mcp/internal/config"
	"github.com/rahul1-bot/flux-mcp/internal/langparse"
	"github.com/rahul1-bot/flux-mcp/internal/mapfile"
	"github.com/rahul1-bot/flux-mcp/internal/replace"
	"github.com/rahul1-bot/flux-mcp/internal/txn"
)

// Service is the engine's four-operation surface. It owns no mutable
// state of its own beyond what mapfile.Store and txn.Manager already
// guard internally, so one Service may be shared across concurrently
// dispatched requests, per spec.md §5's cooperative-task model.
type Service struct {
	opts       config.Options
	files      *mapfile.Store
	txns       *txn.Manager
	registry   *langparse.Registry
	coordinator *replace.Coordinator
	checkpoints *checkpoint.Store // nil when checkpointing was never configured
}

// New builds a Service from opts. checkpoints may be nil: text_replace
// requests that set checkpoint/auto_checkpoint against a nil store fail
// with apierr.IOFailure rather than silently skipping the capture.
func New(opts config.Options, checkpoints *checkpoint.Store) *Service {
	files := mapfile.NewStore(opts.WorkerPoolSize)
	txns := txn.NewManager()
	registry := langparse.NewRegistry()

	// replace.NewCoordinator takes a replace.CheckpointStore interface;
	// passing a nil *checkpoint.Store directly (rather than a nil
	// interface literal) would make the coordinator's own "checkpoint !=
	// nil" check pass on a non-nil interface wrapping a nil pointer, so
	// that substitution happens explicitly at the call site.
	var cp replace.CheckpointStore
	if checkpoints != nil {
		cp = checkpoints
	}

	return &Service{
		opts:        opts,
		files:       files,
		txns:        txns,
		registry:    registry,
		coordinator: replace.NewCoordinator(txns, registry, cp),
		checkpoints: checkpoints,
	}
}

// Close releases every mapping the service's file store holds open.
func (s *Service) Close() error {
	return s.files.Close()
}
