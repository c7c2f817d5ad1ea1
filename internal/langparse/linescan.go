package langparse

import (
	"regexp"
	"strings"
)

var (
	classDeclRe = regexp.MustCompile(`^\s*class\s+([A-Za-z_]\w*)\s*[:(]`)
	defDeclRe   = regexp.MustCompile(`^\s*(?:async\s+)?def\s+([A-Za-z_]\w*)\s*\(`)
)

// lineScanBlock implements spec.md §4.5 step 2's fallback: recognize a
// class/def header by regex, then extend the block up to (exclusive)
// the first subsequent non-blank line whose indentation is less than
// or equal to the header's.
func lineScanBlock(lines []string, offsets []int, header int) (lastLine, startByte, endByte int) {
	headerIndent := indentWidth(indentOf(lines[header]), 4)
	last := header
	for i := header + 1; i < len(lines); i++ {
		if isBlank(lines[i]) {
			continue
		}
		if indentWidth(indentOf(lines[i]), 4) <= headerIndent {
			break
		}
		last = i
	}

	startByte := offsets[header]
	var eb int
	if last+1 < len(offsets) {
		eb = offsets[last+1]
	} else {
		eb = offsets[len(offsets)-1]
	}
	// End is the start of the line after the block, so the span keeps
	// the last line's terminator and nothing of the following line.
	return last, startByte, eb
}

// findTopLevel locates a class or def header at indentation 0 whose
// name matches exactly, restricted by wantClass.
func findTopLevel(lines []string, name string, wantClass bool) (headerLine int, ok bool) {
	for i, line := range lines {
		if indentOf(line) != "" {
			continue
		}
		if wantClass {
			if m := classDeclRe.FindStringSubmatch(line); m != nil && m[1] == name {
				return i, true
			}
		} else {
			if m := defDeclRe.FindStringSubmatch(line); m != nil && m[1] == name {
				return i, true
			}
		}
	}
	return 0, false
}

// findNestedDef locates a def header strictly more indented than
// classHeaderIndent, within [from, to), matching name.
func findNestedDef(lines []string, from, to int, classHeaderIndent int, name string) (headerLine int, ok bool) {
	for i := from; i < to && i < len(lines); i++ {
		if isBlank(lines[i]) {
			continue
		}
		indent := indentWidth(indentOf(lines[i]), 4)
		if indent <= classHeaderIndent {
			continue
		}
		if m := defDeclRe.FindStringSubmatch(lines[i]); m != nil && m[1] == name {
			return i, true
		}
	}
	return 0, false
}

// lineScanResolve is the fallback target resolver described by
// spec.md §4.5 step 2, used when a real syntactic parse fails.
func lineScanResolve(source []byte, class, member string) (*ParserResult, bool) {
	lines, offsets := splitLines(source)

	if member == "" {
		// Plain name: try class first, then function, matching the
		// "top-level class or function" rule in spec.md §3.
		if header, ok := findTopLevel(lines, class, true); ok {
			return buildLineScanResult(lines, offsets, source, header, "class")
		}
		if header, ok := findTopLevel(lines, class, false); ok {
			return buildLineScanResult(lines, offsets, source, header, "function")
		}
		return nil, false
	}

	classHeader, ok := findTopLevel(lines, class, true)
	if !ok {
		return nil, false
	}
	classIndent := indentWidth(indentOf(lines[classHeader]), 4)
	classEndLine, _, _ := lineScanBlock(lines, offsets, classHeader)
	memberHeader, ok := findNestedDef(lines, classHeader+1, classEndLine+1, classIndent, member)
	if !ok {
		return nil, false
	}
	return buildLineScanResult(lines, offsets, source, memberHeader, "method")
}

func buildLineScanResult(lines []string, offsets []int, source []byte, header int, kind string) (*ParserResult, bool) {
	lastLine, startByte, endByte := lineScanBlock(lines, offsets, header)

	bodyLines := strings.Join(lines[header:lastLine+1], "\n")
	meta := ExtractMetadata(lines[header], bodyLines, kind)

	decorators, leading, trailing := attachSurroundings(lines, header, lastLine)

	return &ParserResult{
		Start:            startByte,
		End:              endByte,
		Indent:           indentOf(lines[header]),
		Decorators:       decorators,
		LeadingComments:  leading,
		TrailingComments: trailing,
		LineEnding:       dominantLineEnding(source),
		Meta:             meta,
	}, true
}

// lineScanCandidates enumerates every class/def name in the file, used
// for fuzzy-recovery ranking per spec.md §4.5's failure-mode algorithm.
func lineScanCandidates(source []byte) []string {
	lines, _ := splitLines(source)
	var names []string
	for _, line := range lines {
		if m := classDeclRe.FindStringSubmatch(line); m != nil {
			names = append(names, m[1])
			continue
		}
		if m := defDeclRe.FindStringSubmatch(line); m != nil {
			names = append(names, m[1])
		}
	}
	return names
}
