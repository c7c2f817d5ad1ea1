package api

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rahul1-bot/flux-mcp/internal/apierr"
	"github.com/rahul1-bot/flux-mcp/internal/langparse"
	"github.com/rahul1-bot/flux-mcp/internal/replace"
)

// TextReplaceRequest is spec.md §6's text_replace operation. Highlight
// and ReplaceWith are kept as raw JSON (rather than already-typed
// fields) because their shape depends on BatchMode — a single
// string/object in normal mode, a parallel pair of JSON arrays in
// batch_mode — mirroring how termfx-morfx's mcp/tools/file_query.go
// defers a nested field's own json.Unmarshal until its shape is known.
type TextReplaceRequest struct {
	Path           string          `json:"path"`
	Highlight      json.RawMessage `json:"highlight"`
	ReplaceWith    json.RawMessage `json:"replace_with"`
	Checkpoint     string          `json:"checkpoint,omitempty"`
	AutoCheckpoint bool            `json:"auto_checkpoint,omitempty"`
	DryRun         bool            `json:"dry_run,omitempty"`
	BatchMode      bool            `json:"batch_mode,omitempty"`

	// ProcessImports is accepted for signature parity with spec.md §6
	// but is a deliberate no-op: the system does not resolve cross-file
	// symbols or rewrite import statements (spec.md's Non-goals).
	ProcessImports bool `json:"process_imports,omitempty"`
}

// TextReplaceResult is spec.md §6's text_replace Result document.
type TextReplaceResult struct {
	Success           bool                `json:"success"`
	Message           string              `json:"message"`
	DiffOutput        string              `json:"diff_output"`
	Warnings          []string            `json:"warnings,omitempty"`
	Errors            []string            `json:"errors,omitempty"`
	ModifiedFiles     []string            `json:"modified_files,omitempty"`
	SimilarTargets    []apierr.Candidate  `json:"similar_targets,omitempty"`
	SuccessfulTargets []string            `json:"successful_targets,omitempty"`
	FailedTargets     []string            `json:"failed_targets,omitempty"`
	FuzzyRecovery     bool                `json:"fuzzy_recovery,omitempty"`
	AutoFixed         bool                `json:"auto_fixed,omitempty"`
	OriginalHighlight string              `json:"original_highlight,omitempty"`
	NewContent        string              `json:"new_content,omitempty"`
	Encoding          string              `json:"encoding,omitempty"`
	LineEnding        string              `json:"line_ending,omitempty"`
}

// TextReplace runs spec.md §6's text_replace operation: one or more
// target replacements applied to Path within a single transaction, then
// — when any target carries related_files — the identical set of
// targets applied again, independently, to each sibling path, per
// spec.md's "a multi-file call commits each file's transaction
// independently but reports an aggregate result" invariant.
func (s *Service) TextReplace(ctx context.Context, req TextReplaceRequest) (*TextReplaceResult, error) {
	if s.opts.OperationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.OperationTimeout)
		defer cancel()
	}

	var highlights []langparse.Spec
	var replacements []string
	var err error

	if req.BatchMode {
		highlights, err = decodeHighlightBatch(req.Highlight)
		if err != nil {
			return nil, err
		}
		replacements, err = decodeReplacements(req.ReplaceWith, true)
		if err != nil {
			return nil, err
		}
		if len(highlights) != len(replacements) {
			return nil, apierr.New(apierr.FormatError, "batch_mode highlight and replace_with must have the same length")
		}
	} else {
		spec, err := decodeHighlight(req.Highlight)
		if err != nil {
			return nil, err
		}
		repl, err := decodeReplacements(req.ReplaceWith, false)
		if err != nil {
			return nil, err
		}
		highlights = []langparse.Spec{spec}
		replacements = repl
	}

	reqs := make([]replace.TargetReplacement, len(highlights))
	for i, h := range highlights {
		reqs[i] = replace.TargetReplacement{Target: h, Replacement: replacements[i]}
	}

	checkpointName := req.Checkpoint
	createCheckpoint := req.Checkpoint != "" || req.AutoCheckpoint
	if createCheckpoint && checkpointName == "" {
		checkpointName = "auto-" + time.Now().UTC().Format("20060102T150405.000000000")
	}

	opts := replace.Options{
		DryRun:           req.DryRun,
		CreateCheckpoint: createCheckpoint,
		CheckpointName:   checkpointName,
		FuzzyThreshold:   s.opts.FuzzyThreshold,
		TabWidth:         s.opts.TabWidth,
	}

	primary, err := s.coordinator.Replace(ctx, req.Path, reqs, opts)
	if err != nil {
		return nil, err
	}
	result := fromReplaceResult(primary)

	for _, sibling := range collectRelatedFiles(highlights) {
		siblingResult, err := s.coordinator.Replace(ctx, sibling, reqs, opts)
		if err != nil {
			result.Success = false
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		mergeReplaceResult(result, siblingResult)
	}

	return result, nil
}

func fromReplaceResult(r *replace.Result) *TextReplaceResult {
	return &TextReplaceResult{
		Success:           r.Success,
		Message:           r.Message,
		DiffOutput:        r.DiffOutput,
		Warnings:          r.Warnings,
		Errors:            r.Errors,
		ModifiedFiles:     r.ModifiedFiles,
		SimilarTargets:    r.SimilarTargets,
		SuccessfulTargets: r.SuccessfulTargets,
		FailedTargets:     r.FailedTargets,
		FuzzyRecovery:     r.FuzzyRecovery,
		AutoFixed:         r.AutoFixed,
		OriginalHighlight: r.OriginalHighlight,
		NewContent:        r.NewContent,
		Encoding:          string(r.Encoding),
		LineEnding:        string(r.LineEnding),
	}
}

// mergeReplaceResult folds a sibling file's replace outcome into the
// aggregate. NewContent/DiffOutput are not merged past the primary
// file's — an aggregate document describes every affected file's status
// but shows only the primary file's full before/after text.
func mergeReplaceResult(agg *TextReplaceResult, r *replace.Result) {
	agg.Success = agg.Success && r.Success
	agg.Warnings = append(agg.Warnings, r.Warnings...)
	agg.Errors = append(agg.Errors, r.Errors...)
	agg.ModifiedFiles = append(agg.ModifiedFiles, r.ModifiedFiles...)
	agg.SuccessfulTargets = append(agg.SuccessfulTargets, r.SuccessfulTargets...)
	agg.FailedTargets = append(agg.FailedTargets, r.FailedTargets...)
	if len(r.SimilarTargets) > 0 {
		agg.SimilarTargets = append(agg.SimilarTargets, r.SimilarTargets...)
	}
	agg.FuzzyRecovery = agg.FuzzyRecovery || r.FuzzyRecovery
	if r.AutoFixed {
		agg.AutoFixed = true
		if agg.OriginalHighlight == "" {
			agg.OriginalHighlight = r.OriginalHighlight
		}
	}
}

// collectRelatedFiles unions every highlight's related_files list,
// de-duplicating in first-seen order.
func collectRelatedFiles(highlights []langparse.Spec) []string {
	seen := make(map[string]bool)
	var out []string
	for _, h := range highlights {
		for _, p := range h.RelatedFiles {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out
}
