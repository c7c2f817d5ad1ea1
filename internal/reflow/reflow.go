// Package reflow implements spec.md §4.6's indentation reflow: detect
// the replacement's indentation unit and kind, validate it against
// spec.md's mixing/multiple-of-unit/block-header rules, convert it to
// the target block's indentation kind if they differ, and re-indent
// every line by logical depth. Grounded on termfx-morfx's
// internal/core/manipulator.go preserveIndentation (take the indent of
// the line at the splice point, reapply to inserted lines) and
// internal/util/util.go TakeIndent, generalized here from
// single-insertion indent matching to whole-block re-indentation by
// logical depth.
package reflow

import (
	"strconv"
	"strings"

	"github.com/rahul1-bot/flux-mcp/internal/apierr"
)

// Kind is the indentation character a block uses.
type Kind int

const (
	Spaces Kind = iota
	Tabs
)

const defaultTabWidth = 4

// Reflow re-indents replacement so it fits the block originally
// occupying original, per spec.md §4.6's seven rules. tabWidth <= 0
// defaults to 4.
func Reflow(original, replacement string, tabWidth int) (string, []apierr.IndentIssue) {
	if tabWidth <= 0 {
		tabWidth = defaultTabWidth
	}

	baseIndent := firstNonblankIndent(original)
	targetKind := kindOf(baseIndent, Spaces)

	lines := splitPreservingTrailingNewline(replacement)
	if len(lines) <= 1 {
		trimmed := strings.TrimLeft(replacement, " \t")
		return baseIndent + trimmed, nil
	}

	var issues []apierr.IndentIssue
	issues = append(issues, checkMixedIndent(lines, tabWidth)...)

	replacementBaseWidth, replacementKind := detectBaseAndKind(lines, tabWidth)
	unit := detectIndentUnit(lines, replacementBaseWidth, tabWidth, replacementKind)

	issues = append(issues, checkMultipleOfUnit(lines, replacementBaseWidth, unit, tabWidth, replacementKind)...)
	issues = append(issues, checkHeadersHaveBodies(lines, tabWidth)...)

	if len(issues) > 0 {
		return "", issues
	}

	unitString := unitStringFor(targetKind, tabWidth)

	var out strings.Builder
	for i, line := range lines {
		if i > 0 {
			out.WriteByte('\n')
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		width := leadingWidth(line, tabWidth)
		depth := (width - replacementBaseWidth) / unit
		if depth < 0 {
			depth = 0
		}
		content := strings.TrimLeft(line, " \t")
		out.WriteString(baseIndent)
		out.WriteString(strings.Repeat(unitString, depth))
		out.WriteString(content)
	}

	return out.String(), nil
}

func splitPreservingTrailingNewline(s string) []string {
	hadTrailingNewline := strings.HasSuffix(s, "\n")
	trimmed := s
	if hadTrailingNewline {
		trimmed = s[:len(s)-1]
	}
	lines := strings.Split(trimmed, "\n")
	if hadTrailingNewline {
		lines = append(lines, "")
	}
	return lines
}

func firstNonblankIndent(block string) string {
	for _, line := range strings.Split(block, "\n") {
		if strings.TrimSpace(line) != "" {
			return leadingWhitespace(line)
		}
	}
	return ""
}

func leadingWhitespace(line string) string {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return line[:i]
}

func leadingWidth(line string, tabWidth int) int {
	w := 0
	for _, r := range leadingWhitespace(line) {
		if r == '\t' {
			w += tabWidth
		} else {
			w++
		}
	}
	return w
}

func kindOf(indent string, fallback Kind) Kind {
	if strings.Contains(indent, "\t") {
		return Tabs
	}
	if indent != "" {
		return Spaces
	}
	return fallback
}

func unitStringFor(k Kind, tabWidth int) string {
	if k == Tabs {
		return "\t"
	}
	return strings.Repeat(" ", tabWidth)
}

// detectBaseAndKind returns the replacement's own base indentation width
// and indent kind, both taken from its first nonblank line (Spaces when
// that line is unindented).
func detectBaseAndKind(lines []string, tabWidth int) (int, Kind) {
	base := 0
	kind := Spaces
	found := false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		ws := leadingWhitespace(line)
		if !found {
			base = leadingWidth(line, tabWidth)
			kind = kindOf(ws, Spaces)
			found = true
		}
	}
	return base, kind
}

// detectIndentUnit finds the smallest positive indentation step beyond
// replacementBaseWidth across every nonblank line, the "indent unit"
// spec.md §4.6 rule 2/5 refers to. Tabs count as one unit each; spaces
// fall back to tabWidth when no smaller step is observed.
func detectIndentUnit(lines []string, baseWidth, tabWidth int, kind Kind) int {
	if kind == Tabs {
		return tabWidth
	}

	min := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		w := leadingWidth(line, tabWidth)
		diff := w - baseWidth
		if diff > 0 && (min == 0 || diff < min) {
			min = diff
		}
	}
	if min == 0 {
		return tabWidth
	}
	return min
}

func checkMixedIndent(lines []string, tabWidth int) []apierr.IndentIssue {
	var issues []apierr.IndentIssue
	for i, line := range lines {
		ws := leadingWhitespace(line)
		if strings.Contains(ws, " ") && strings.Contains(ws, "\t") {
			issues = append(issues, apierr.IndentIssue{
				Line:        i + 1,
				Offending:   line,
				Rendered:    renderWhitespace(ws),
				Remediation: "use only spaces or only tabs for one line's leading whitespace, not both",
			})
		}
	}
	return issues
}

func checkMultipleOfUnit(lines []string, baseWidth, unit, tabWidth int, kind Kind) []apierr.IndentIssue {
	if kind == Tabs || unit == 0 {
		return nil
	}
	var issues []apierr.IndentIssue
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		ws := leadingWhitespace(line)
		if strings.Contains(ws, "\t") {
			continue
		}
		diff := leadingWidth(line, tabWidth) - baseWidth
		if diff < 0 || diff%unit != 0 {
			issues = append(issues, apierr.IndentIssue{
				Line:        i + 1,
				Offending:   line,
				Rendered:    renderWhitespace(ws),
				Remediation: "indent by a multiple of " + strconv.Itoa(unit) + " spaces relative to the block's base indentation",
			})
		}
	}
	return issues
}

// checkHeadersHaveBodies implements spec.md §4.6 rule 3: a line ending
// in ':' must be followed by a more-deeply-indented nonblank line.
func checkHeadersHaveBodies(lines []string, tabWidth int) []apierr.IndentIssue {
	var issues []apierr.IndentIssue
	for i, line := range lines {
		trimmed := strings.TrimRight(line, " \t")
		if trimmed == "" || !strings.HasSuffix(trimmed, ":") {
			continue
		}
		headerWidth := leadingWidth(line, tabWidth)

		next := -1
		for j := i + 1; j < len(lines); j++ {
			if strings.TrimSpace(lines[j]) != "" {
				next = j
				break
			}
		}
		if next == -1 || leadingWidth(lines[next], tabWidth) <= headerWidth {
			issues = append(issues, apierr.IndentIssue{
				Line:        i + 1,
				Offending:   line,
				Rendered:    renderWhitespace(leadingWhitespace(line)),
				Remediation: "a block header ending in ':' must be followed by a more deeply indented line",
			})
		}
	}
	return issues
}

func renderWhitespace(ws string) string {
	var out strings.Builder
	for _, r := range ws {
		if r == '\t' {
			out.WriteRune('→')
		} else {
			out.WriteRune('·')
		}
	}
	return out.String()
}
