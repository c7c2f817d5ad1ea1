package replace

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rahul1-bot/flux-mcp/internal/apierr"
	"github.com/rahul1-bot/flux-mcp/internal/langparse"
	"github.com/rahul1-bot/flux-mcp/internal/reflow"
	"github.com/rahul1-bot/flux-mcp/internal/validate"
)

// applyPattern implements spec.md §4.5's `{pattern: regex}` shape:
// every match is replaced, processed right-to-left so earlier byte
// offsets stay valid as later ones shift.
func applyPattern(provider langparse.Provider, source, pattern, replacement string) (string, TargetOutcome) {
	outcome := TargetOutcome{Label: "pattern " + pattern}

	re, err := regexp.Compile(pattern)
	if err != nil {
		outcome.Errors = append(outcome.Errors, "invalid pattern: "+err.Error())
		return source, outcome
	}

	matches := re.FindAllStringIndex(source, -1)
	if len(matches) == 0 {
		outcome.Errors = append(outcome.Errors, "pattern matched nothing: "+pattern)
		return source, outcome
	}

	if err := validate.IsolatedReplacement(provider, []byte(replacement)); err != nil {
		outcome.Errors = append(outcome.Errors, err.Error())
		return source, outcome
	}

	out := source
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		out = out[:m[0]] + replacement + out[m[1]:]
	}

	outcome.Success = true
	outcome.Label = fmt.Sprintf("pattern %q (%d matches)", pattern, len(matches))
	return out, outcome
}

// applyLineRange implements spec.md §4.5's `{line_range: [s, e]}` shape:
// an inclusive 0-indexed line range resolves to a half-open byte range,
// re-indented to the first nonblank selected line's indentation.
func applyLineRange(provider langparse.Provider, source string, lineRange [2]int, replacement string, tabWidth int) (string, TargetOutcome) {
	label := fmt.Sprintf("lines %d-%d", lineRange[0], lineRange[1])
	outcome := TargetOutcome{Label: label}

	starts := lineOffsets(source)
	s, e := lineRange[0], lineRange[1]
	if s < 0 {
		s = 0
	}
	if e >= len(starts) {
		e = len(starts) - 1
	}
	if s > e {
		outcome.Errors = append(outcome.Errors, "empty line range: "+label)
		return source, outcome
	}

	start := starts[s]
	end := len(source)
	if e+1 < len(starts) {
		end = starts[e+1]
	}

	original := source[start:end]
	reflowed, issues := reflow.Reflow(original, replacement, tabWidth)
	if len(issues) > 0 {
		err := apierr.New(apierr.IndentationInvalid, "line-range replacement has invalid indentation")
		err.IndentIssues = issues
		outcome.Errors = append(outcome.Errors, err.Error())
		return source, outcome
	}

	if err := validate.IsolatedReplacement(provider, []byte(reflowed)); err != nil {
		outcome.Errors = append(outcome.Errors, err.Error())
		return source, outcome
	}

	// Reflow's single-line shortcut never appends a trailing newline, but
	// a line-range's byte span always runs through its own line
	// terminator. Restore it so the following line doesn't get spliced
	// onto the same line as the replacement.
	if strings.HasSuffix(original, "\n") && !strings.HasSuffix(reflowed, "\n") {
		reflowed += "\n"
	}

	outcome.Success = true
	return source[:start] + reflowed + source[end:], outcome
}

// lineOffsets returns the starting byte offset of every line in source,
// mirroring the mapped-file store's line index (offsets[0] = 0,
// offsets[i+1] immediately follows the i-th newline).
func lineOffsets(source string) []int {
	offsets := []int{0}
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
