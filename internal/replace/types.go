// Package replace implements spec.md §4.8's replace coordinator: the
// received→resolved→reflowed→validated→staged→committed state machine
// that drives a single text_replace call end to end, including
// multi-target single-transaction semantics and the full target-spec
// dialect (plain/dotted name, list, pattern, line range, block
// narrowing). Grounded on termfx-morfx's mcp/tools/replace.go handle()
// (validate params → load source → resolve provider → parse target →
// transform → finalize), stripped of the MCP-specific progress/
// cancellation notifications (notifyProgress, isCancelled) since there
// is no MCP session at this layer — context.Context cancellation
// checks stand in for them per spec.md §5.
package replace

import (
	"github.com/rahul1-bot/flux-mcp/internal/apierr"
	"github.com/rahul1-bot/flux-mcp/internal/encoding"
	"github.com/rahul1-bot/flux-mcp/internal/langparse"
	"github.com/rahul1-bot/flux-mcp/internal/validate"
)

// Options configures one Replace call. Zero value is usable: dry run
// off, no checkpoint, default fuzzy threshold and tab width.
type Options struct {
	DryRun            bool
	CreateCheckpoint  bool
	CheckpointName    string
	FuzzyThreshold    float64 // default 0.85 (spec.md §4.8) when <= 0
	TabWidth          int     // default 4 (internal/reflow) when <= 0
	Validate          validate.Options
}

// CheckpointStore is the subset of internal/checkpoint's store this
// package needs, defined here (the consumer) rather than imported from
// there, so replace never depends on the checkpoint package's storage
// stack (GORM/sqlite).
type CheckpointStore interface {
	CreateCheckpoint(path, name string, preImage []byte) error
}

// TargetReplacement pairs one target specifier with its replacement
// text. A Replace call takes a slice of these to implement spec.md
// §4.8's "multi-target replacements iterate the coordinator over the
// file in a single transaction" rule.
type TargetReplacement struct {
	Target      langparse.Spec
	Replacement string
}

// TargetOutcome reports what happened to one TargetReplacement.
type TargetOutcome struct {
	Label             string // the resolved name, pattern, or line range description
	Success           bool
	FuzzyRecovery     bool
	ResolvedName      string
	AutoFixed         bool   // target spec was cleaned from a FormatError and the cleaned name resolved
	OriginalHighlight string // the cleaned name resolution was retried against, when AutoFixed
	Warnings          []string
	Errors            []string
	SimilarTargets    []apierr.Candidate
}

// Result is spec.md §6's text_replace Result document.
type Result struct {
	Success           bool
	Message           string
	DiffOutput        string
	Warnings          []string
	Errors            []string
	ModifiedFiles     []string
	SuccessfulTargets []string
	FailedTargets     []string
	SimilarTargets    []apierr.Candidate
	FuzzyRecovery     bool
	AutoFixed         bool
	OriginalHighlight string
	NewContent        string
	Encoding          encoding.Kind
	LineEnding        encoding.LineEnding
}

func (o Options) threshold() float64 {
	if o.FuzzyThreshold <= 0 {
		return 0.85
	}
	return o.FuzzyThreshold
}

func (o Options) tabWidth() int {
	if o.TabWidth <= 0 {
		return 4
	}
	return o.TabWidth
}
