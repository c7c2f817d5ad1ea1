package api

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rahul1-bot/flux-mcp/internal/apierr"
	"github.com/rahul1-bot/flux-mcp/internal/encoding"
)

// simpleWriteThreshold is the byte length under which write_file always
// takes the direct-write fast path even when simple_mode is unset,
// matching the 10 KB auto-detect cutoff the original engine applies
// (flux_engine_optimized.py: "simple_mode or len(content) < 10000").
const simpleWriteThreshold = 10000

// WriteFileRequest is spec.md §6's write_file operation.
type WriteFileRequest struct {
	Path       string `json:"path"`
	Content    string `json:"content"`
	Encoding   string `json:"encoding,omitempty"`   // defaults to utf-8
	CreateDirs *bool  `json:"create_dirs,omitempty"` // defaults to true
	SimpleMode *bool  `json:"simple_mode,omitempty"`
}

func (r WriteFileRequest) createDirs() bool {
	return r.CreateDirs == nil || *r.CreateDirs
}

// WriteFile writes req.Content to req.Path and returns a status string.
// A small write (or an explicit simple_mode) skips the transaction
// manager and writes the file directly; everything else goes through
// txn.Manager's begin/acquire/stage/commit path so a crash mid-write
// leaves the pre-image intact, per spec.md §5's partial-failure rule.
func (s *Service) WriteFile(req WriteFileRequest) (string, error) {
	encName := req.Encoding
	if encName == "" {
		encName = "utf-8"
	}
	kind, err := requireEncodingKind(encName)
	if err != nil {
		return "", err
	}
	data := encoding.Encode(req.Content, kind)

	dir := filepath.Dir(req.Path)
	if !req.createDirs() {
		if _, err := os.Stat(dir); err != nil {
			return "", apierr.Wrap(apierr.NotFound, "parent directory does not exist: "+dir, err)
		}
	}

	simple := (req.SimpleMode != nil && *req.SimpleMode) || len(req.Content) < simpleWriteThreshold
	if simple {
		if req.createDirs() {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return "", apierr.Wrap(apierr.IOFailure, "failed to create parent directory: "+dir, err)
			}
		}
		if err := os.WriteFile(req.Path, data, 0o644); err != nil {
			return "", apierr.Wrap(apierr.IOFailure, "failed to write "+req.Path, err)
		}
		return fmt.Sprintf("successfully wrote to %s", req.Path), nil
	}

	id := s.txns.Begin()
	if err := s.txns.Acquire(id, req.Path); err != nil {
		s.txns.Rollback(id)
		return "", err
	}
	if err := s.txns.Stage(id, req.Path, data); err != nil {
		s.txns.Rollback(id)
		return "", err
	}
	if err := s.txns.Commit(id); err != nil {
		return "", err
	}
	return fmt.Sprintf("successfully wrote to %s", req.Path), nil
}
