package langparse

import (
	"strings"

	"github.com/rahul1-bot/flux-mcp/internal/apierr"
)

// MatchType controls how block_start/block_end narrow a resolved target.
type MatchType string

const (
	MatchExact MatchType = "exact"
	MatchRegex MatchType = "regex"
	MatchFuzzy MatchType = "fuzzy"
)

// Spec is the discriminated target-specifier value from spec.md §3.
// Exactly one of the shape-selecting fields should be populated; callers
// build one directly rather than through a single JSON blob, since the
// four external operations (spec.md §6) decode their own request JSON
// before constructing a Spec.
type Spec struct {
	Target  string   // "Name" or "Name.member"; also used by list/narrow shapes
	List    []string // {target: [...]}, first resolvable wins
	Pattern string   // {pattern: regex}
	LineRange *[2]int // {line_range: [start, end]}, inclusive, 0-indexed

	BlockStart *string
	BlockEnd   *string
	MatchType  MatchType

	RelatedFiles []string
}

// IsPlainName reports whether this spec is a bare, undotted name string
// — the only shape eligible for fuzzy recovery per spec.md §4.8.
func (s Spec) IsPlainName() bool {
	return s.Pattern == "" && s.LineRange == nil && len(s.List) == 0 &&
		s.Target != "" && !strings.Contains(s.Target, ".")
}

// ValidateFormat rejects target strings that look like code instead of a
// name, per spec.md §4.5's format-error detection rule: a string
// beginning with "class " or "def ", or containing "(" or ":".
func ValidateFormat(target string) *apierr.Error {
	trimmed := strings.TrimSpace(target)
	if strings.HasPrefix(trimmed, "class ") || strings.HasPrefix(trimmed, "def ") ||
		strings.Contains(trimmed, "(") || strings.Contains(trimmed, ":") {
		cleaned := cleanCandidate(trimmed)
		err := apierr.New(apierr.FormatError, "target spec looks like code, not a name: "+target)
		err.CleanedCandidate = cleaned
		return err
	}
	return nil
}

// cleanCandidate strips the syntax scaffolding a caller mistakenly pasted
// ("def foo():" -> "foo") so the format-error response can offer a
// one-shot auto-retry.
func cleanCandidate(s string) string {
	s = strings.TrimPrefix(s, "async ")
	s = strings.TrimPrefix(s, "class ")
	s = strings.TrimPrefix(s, "def ")
	if i := strings.IndexAny(s, "(:"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// SplitDotted splits "A.b" into ("A", "b", true); a name without "." is
// ("name", "", false).
func SplitDotted(target string) (class, member string, isDotted bool) {
	idx := strings.Index(target, ".")
	if idx < 0 {
		return target, "", false
	}
	return target[:idx], target[idx+1:], true
}
