// Package validate implements spec.md §4.7's syntax and type-compatibility
// checks for the replace coordinator: an isolated parse of the proposed
// replacement text, a whole-file parse after splicing, and signature/
// class-shape compatibility comparisons between the original and
// replacement blocks. Grounded on termfx-morfx's
// internal/lang/python/provider.go QuickCheck (checkForErrors walks for
// ERROR nodes; checkBasicSemantics flags bodies missing their block),
// reused here via internal/langparse's SyntaxChecker rather than
// reimplemented, since the two packages already share the same
// tree-sitter grammars.
package validate

import (
	"github.com/rahul1-bot/flux-mcp/internal/apierr"
	"github.com/rahul1-bot/flux-mcp/internal/langparse"
)

// Options configures the two optional, spec.md-sanctioned knobs: whether
// a breaking signature change aborts the replace outright, and the
// language baseline used for version-dependent construct warnings.
// Empty LanguageBaseline disables that check.
type Options struct {
	AbortOnBreakingChange bool
	LanguageBaseline      string
}

// Result is the accumulated outcome of validating one replacement.
// A non-nil Critical means the caller must abort and roll back;
// Warnings always accumulate regardless of Critical, matching spec.md
// §4.7's "warnings accumulate in the response" rule.
type Result struct {
	Warnings []string
	Critical *apierr.Error
}

// Syntax parses source with provider's grammar and returns a structured
// SyntaxInvalid error on the first ERROR node, or nil. DocumentProvider
// does not implement SyntaxChecker, so document-dialect files correctly
// skip this check per spec.md §4.7's "for code-dialect files only".
func Syntax(provider langparse.Provider, source []byte) *apierr.Error {
	checker, ok := provider.(langparse.SyntaxChecker)
	if !ok {
		return nil
	}
	return checker.CheckSyntax(source)
}

// IsolatedReplacement implements spec.md §4.7's isolated replacement
// check: the replacement text must parse on its own before it is ever
// spliced into the file.
func IsolatedReplacement(provider langparse.Provider, replacement []byte) *apierr.Error {
	return Syntax(provider, replacement)
}

// WholeFile implements spec.md §4.7's whole-file check: after splicing,
// the complete file must still parse. A failure here means the caller
// must abort the transaction and roll back, leaving bytes unchanged.
func WholeFile(provider langparse.Provider, splicedContent []byte) *apierr.Error {
	err := Syntax(provider, splicedContent)
	if err != nil {
		err.Msg = "whole-file parse failed after splice"
	}
	return err
}

// Replacement runs the full spec.md §4.7 check set for one resolved
// block: isolated syntax, optional language-baseline warnings, and
// signature or class compatibility depending on kind ("function",
// "method", or "class"). originalHeader/replacementHeader are the
// block's def/class header line; originalBody/replacementBody are the
// full block text (header plus body) used for super()/attribute scans.
func Replacement(provider langparse.Provider, opts Options, kind, originalHeader, originalBody, replacementHeader, replacementBody string) Result {
	var res Result

	if err := IsolatedReplacement(provider, []byte(replacementBody)); err != nil {
		res.Critical = err
		return res
	}

	if opts.LanguageBaseline != "" {
		res.Warnings = append(res.Warnings, CheckLanguageBaseline([]byte(replacementBody), opts.LanguageBaseline)...)
	}

	switch kind {
	case "method", "function":
		warnings, critical := Signatures(originalHeader, replacementHeader, opts.AbortOnBreakingChange)
		res.Warnings = append(res.Warnings, warnings...)
		if critical != nil {
			res.Critical = critical
			return res
		}
	case "class":
		res.Warnings = append(res.Warnings, Classes(originalHeader, originalBody, replacementHeader, replacementBody)...)
	}

	return res
}
