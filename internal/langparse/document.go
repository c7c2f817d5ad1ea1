package langparse

import (
	"regexp"
)

var (
	sectionRe = regexp.MustCompile(`^\s*\\section\{([^}]*)\}`)
	beginRe   = regexp.MustCompile(`^\s*\\begin\{([^}]*)\}`)
	endRe     = regexp.MustCompile(`^\s*\\end\{([^}]*)\}`)
)

// DocumentProvider is spec.md §4.5's "document language" dialect: named
// targets are \section{...} headings or \begin{env}/\end{env}
// environments, resolved the same way the code dialect resolves
// class/def blocks — a header line, a block that runs to a matching
// terminator, and the same decorator/comment attachment and fuzzy
// candidate machinery.
type DocumentProvider struct{}

func NewDocumentProvider() *DocumentProvider { return &DocumentProvider{} }

func (d *DocumentProvider) Lang() string         { return "latex-like" }
func (d *DocumentProvider) Extensions() []string { return []string{".tex", ".ltx"} }

// Resolve treats class as the section/environment name; member is
// always empty for this dialect, since \section{} and \begin{}/\end{}
// have no nested-member addressing analogous to A.b.
func (d *DocumentProvider) Resolve(source []byte, class, _ string) (*ParserResult, bool) {
	lines, offsets := splitLines(source)

	for i, line := range lines {
		if m := sectionRe.FindStringSubmatch(line); m != nil && m[1] == class {
			end := findSectionEnd(lines, i)
			return buildDocumentResult(lines, offsets, source, i, end, "section")
		}
		if m := beginRe.FindStringSubmatch(line); m != nil && m[1] == class {
			end, ok := findEnvironmentEnd(lines, i, class)
			if !ok {
				continue
			}
			return buildDocumentResult(lines, offsets, source, i, end, "environment")
		}
	}
	return nil, false
}

func (d *DocumentProvider) Candidates(source []byte) []string {
	lines, _ := splitLines(source)
	var names []string
	for _, line := range lines {
		if m := sectionRe.FindStringSubmatch(line); m != nil {
			names = append(names, m[1])
			continue
		}
		if m := beginRe.FindStringSubmatch(line); m != nil {
			names = append(names, m[1])
		}
	}
	return names
}

// findSectionEnd extends a \section{} block up to (exclusive) the next
// \section{} at the same or shallower level, analogous to the code
// dialect's indentation-based block rule.
func findSectionEnd(lines []string, header int) int {
	last := header
	for i := header + 1; i < len(lines); i++ {
		if sectionRe.MatchString(lines[i]) {
			break
		}
		last = i
	}
	return last
}

// findEnvironmentEnd finds the \end{name} matching the \begin{name} at
// header, honoring nesting of same-named environments.
func findEnvironmentEnd(lines []string, header int, name string) (int, bool) {
	depth := 1
	for i := header + 1; i < len(lines); i++ {
		if m := beginRe.FindStringSubmatch(lines[i]); m != nil && m[1] == name {
			depth++
			continue
		}
		if m := endRe.FindStringSubmatch(lines[i]); m != nil && m[1] == name {
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

func buildDocumentResult(lines []string, offsets []int, source []byte, header, last int, kind string) (*ParserResult, bool) {
	startByte := offsets[header]
	var endByte int
	if last+1 < len(offsets) {
		endByte = offsets[last+1]
	} else {
		endByte = offsets[len(offsets)-1]
	}

	_, leading, trailing := attachSurroundingsWithComment(lines, header, last, "%")

	return &ParserResult{
		Start:            startByte,
		End:              endByte,
		Indent:           indentOf(lines[header]),
		Decorators:       nil,
		LeadingComments:  leading,
		TrailingComments: trailing,
		LineEnding:       dominantLineEnding(source),
		Meta:             Metadata{Kind: kind},
	}, true
}
