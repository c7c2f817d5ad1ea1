// Package langparse implements spec.md §4.5's language parser: target
// resolution for the code dialect (class/def declarations via a real
// tree-sitter parse, falling back to a line scanner) and the document
// dialect (\section{}/\begin{env}), decorator/comment attachment, and
// the Levenshtein-based fuzzy candidate search used when no target
// resolves. Grounded on termfx-morfx's internal/lang/python/provider.go
// (node-kind mapping, metadata extraction shape) and internal/core/fuzzy.go
// (heuristic scoring), adapted from tree-sitter query templates to direct
// node walking, which is what spec.md §4.5 step 1 literally describes.
package langparse

import "github.com/rahul1-bot/flux-mcp/internal/encoding"

// Metadata carries the "etc." bag from spec.md §3's ParserResult:
// parameter names, return annotation, base classes, super()-present flag.
type Metadata struct {
	Parameters      []string
	ReturnAnnotation string
	BaseClasses     []string
	HasSuper        bool
	IsAsync         bool
	Kind            string // "class" | "function" | "method"
}

// ParserResult is spec.md §3's ParserResult record.
type ParserResult struct {
	Start, End int // half-open byte range [Start, End) within the file
	Indent     string
	Decorators []string
	LeadingComments  []string
	TrailingComments []string
	LineEnding encoding.LineEnding
	Meta       Metadata

	// FuzzyRecovery and ResolvedName are not filled in by any Provider;
	// the replace coordinator reports fuzzy recovery and the resolved
	// name on its own TargetOutcome and Result.
	FuzzyRecovery bool
	ResolvedName  string
}
