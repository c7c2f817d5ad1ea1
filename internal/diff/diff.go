// Package diff generates unified diffs for the replace coordinator's
// response document (spec.md §6 "diff_output") and for dry-run previews.
package diff

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Unified returns a unified diff between from and to, with the given
// number of context lines, using git-style a/ b/ path prefixes. Returns
// the empty string when from == to, matching spec.md invariant 9's
// expectation that an unchanged file produces no diff.
func Unified(from, to, path string, context int) string {
	if from == to {
		return ""
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(from),
		B:        difflib.SplitLines(to),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  context,
		Eol:      "\n",
	}

	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		// GetUnifiedDiffString only fails on malformed internal state that
		// SplitLines never produces; treat as "no representable diff".
		return ""
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return text
}
