package replace

import (
	"context"

	"github.com/rahul1-bot/flux-mcp/internal/apierr"
	"github.com/rahul1-bot/flux-mcp/internal/diff"
	"github.com/rahul1-bot/flux-mcp/internal/encoding"
	"github.com/rahul1-bot/flux-mcp/internal/langparse"
	"github.com/rahul1-bot/flux-mcp/internal/reflow"
	"github.com/rahul1-bot/flux-mcp/internal/txn"
	"github.com/rahul1-bot/flux-mcp/internal/validate"
)

// Coordinator drives spec.md §4.8's replace state machine for one file
// at a time. Multi-file aggregation (the `related_files` target-spec
// shape and batch calls over several paths) is the caller's
// responsibility — each Replace call is exactly one independent
// per-file transaction, matching spec.md §3's "a multi-file call
// commits each file's transaction independently" invariant.
type Coordinator struct {
	txns       *txn.Manager
	registry   *langparse.Registry
	checkpoint CheckpointStore
}

// NewCoordinator builds a replace coordinator over a shared transaction
// manager and language registry. checkpoint may be nil if checkpointing
// is never requested.
func NewCoordinator(txns *txn.Manager, registry *langparse.Registry, checkpoint CheckpointStore) *Coordinator {
	return &Coordinator{txns: txns, registry: registry, checkpoint: checkpoint}
}

// Replace runs spec.md §4.8's full state machine against path for one
// or more targets in declaration order, within a single transaction.
func (c *Coordinator) Replace(ctx context.Context, path string, reqs []TargetReplacement, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, apierr.Wrap(apierr.Cancelled, "replace cancelled before start", err)
	}

	result := &Result{}

	ext := extensionOf(path)
	provider, ok := c.registry.For(ext)
	if !ok {
		return nil, apierr.New(apierr.NotFound, "no language provider registered for extension "+ext)
	}

	// received -> resolved
	id := c.txns.Begin()
	if err := c.txns.Acquire(id, path); err != nil {
		c.txns.Rollback(id)
		return nil, err
	}

	preImage, err := c.txns.PreImage(id, path)
	if err != nil {
		c.txns.Rollback(id)
		return nil, err
	}

	encKind := encoding.DetectEncoding(preImage)
	lineEnding := encoding.DetectLineEnding(preImage)
	original := encoding.Decode(preImage, encKind)

	result.Encoding = encKind
	result.LineEnding = lineEnding

	working := original
	for _, req := range reqs {
		if err := ctx.Err(); err != nil {
			c.txns.Rollback(id)
			return nil, apierr.Wrap(apierr.Cancelled, "replace cancelled mid-flight", err)
		}

		normalizedReplacement := encoding.NormalizeLineEndings(req.Replacement, lineEnding)
		newWorking, outcome := c.applyOne(provider, working, req.Target, normalizedReplacement, opts)

		result.Warnings = append(result.Warnings, outcome.Warnings...)
		if len(outcome.SimilarTargets) > 0 {
			result.SimilarTargets = outcome.SimilarTargets
		}
		if outcome.FuzzyRecovery {
			result.FuzzyRecovery = true
		}
		if outcome.AutoFixed {
			result.AutoFixed = true
			if result.OriginalHighlight == "" {
				result.OriginalHighlight = outcome.OriginalHighlight
			}
		}

		if outcome.Success {
			working = newWorking
			result.SuccessfulTargets = append(result.SuccessfulTargets, outcome.Label)
		} else {
			result.FailedTargets = append(result.FailedTargets, outcome.Label)
			result.Errors = append(result.Errors, outcome.Errors...)
		}
	}

	if len(result.SuccessfulTargets) == 0 {
		c.txns.Rollback(id)
		result.Success = false
		result.Message = "no targets resolved; transaction rolled back"
		return result, nil
	}

	diffText := diff.Unified(original, working, path, 3)

	// staged: splice is already reflected in `working`; whole-file check
	// gates the final combined content before it is ever written.
	if err := validate.WholeFile(provider, []byte(working)); err != nil {
		c.txns.Rollback(id)
		result.Success = false
		result.Message = "whole-file validation failed; transaction rolled back"
		result.Errors = append(result.Errors, err.Error())
		return result, nil
	}

	if opts.DryRun {
		c.txns.Rollback(id)
		result.Success = true
		result.Message = "dry run; no changes written"
		result.DiffOutput = diffText
		result.NewContent = working
		return result, nil
	}

	if opts.CreateCheckpoint {
		if c.checkpoint == nil {
			c.txns.Rollback(id)
			return nil, apierr.New(apierr.IOFailure, "checkpoint requested but no checkpoint store is configured")
		}
		if err := c.checkpoint.CreateCheckpoint(path, opts.CheckpointName, preImage); err != nil {
			c.txns.Rollback(id)
			return nil, err
		}
	}

	// staged -> committed
	if err := c.txns.Stage(id, path, encoding.Encode(working, encKind)); err != nil {
		c.txns.Rollback(id)
		return nil, err
	}
	if err := c.txns.Commit(id); err != nil {
		return nil, err
	}

	result.Success = true
	result.Message = "replaced"
	result.DiffOutput = diffText
	result.NewContent = working
	result.ModifiedFiles = []string{path}
	return result, nil
}

// applyOne resolves and applies one target against source, returning
// the new source (unchanged on failure) and what happened.
func (c *Coordinator) applyOne(provider langparse.Provider, source string, spec langparse.Spec, replacement string, opts Options) (string, TargetOutcome) {
	switch {
	case spec.Pattern != "":
		return applyPattern(provider, source, spec.Pattern, replacement)
	case spec.LineRange != nil:
		return applyLineRange(provider, source, *spec.LineRange, replacement, opts.tabWidth())
	default:
		return c.applyTarget(provider, source, spec, replacement, opts)
	}
}

func (c *Coordinator) applyTarget(provider langparse.Provider, source string, spec langparse.Spec, replacement string, opts Options) (string, TargetOutcome) {
	res := resolveTargetName(provider, source, spec, opts.threshold())
	label := spec.Target
	if label == "" && len(spec.List) > 0 {
		label = spec.List[0]
	}

	outcome := TargetOutcome{
		Label:             label,
		SimilarTargets:    res.candidates,
		FuzzyRecovery:     res.fuzzy,
		ResolvedName:      res.name,
		AutoFixed:         res.autoFixed,
		OriginalHighlight: res.originalHighlight,
	}
	if res.err != nil {
		outcome.Errors = append(outcome.Errors, res.err.Error())
		return source, outcome
	}
	if res.autoFixed {
		outcome.Warnings = append(outcome.Warnings, res.formatDiagnostic)
	}
	outcome.Label = res.name

	class, member, _ := langparse.SplitDotted(res.name)
	parsed, ok := provider.Resolve([]byte(source), class, member)
	if !ok {
		outcome.Errors = append(outcome.Errors, "target resolved by name but not by provider: "+res.name)
		return source, outcome
	}

	span := spanFromResult(source, parsed)
	if spec.BlockStart != nil && spec.BlockEnd != nil {
		span = narrowByBlockMarkers(source, span, *spec.BlockStart, *spec.BlockEnd, spec.MatchType)
	}

	original := source[span.start:span.end]
	reflowed, issues := reflow.Reflow(original, replacement, opts.tabWidth())
	if len(issues) > 0 {
		err := apierr.New(apierr.IndentationInvalid, "replacement has invalid indentation")
		err.IndentIssues = issues
		outcome.Errors = append(outcome.Errors, err.Error())
		return source, outcome
	}

	if member != "" {
		if err := checkMemberNameConsistency(reflowed, member); err != nil {
			outcome.Errors = append(outcome.Errors, err.Error())
			return source, outcome
		}
	}

	vr := validate.Replacement(provider, opts.Validate, span.kind, span.headerLine, original, firstLine(reflowed), reflowed)
	outcome.Warnings = vr.Warnings
	if vr.Critical != nil {
		outcome.Errors = append(outcome.Errors, vr.Critical.Error())
		return source, outcome
	}

	outcome.Success = true
	return source[:span.start] + reflowed + source[span.end:], outcome
}

func extensionOf(path string) string {
	for i := len(path) - 1; i >= 0 && path[i] != '/'; i-- {
		if path[i] == '.' {
			return path[i:]
		}
	}
	return ""
}
