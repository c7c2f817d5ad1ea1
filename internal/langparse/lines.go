package langparse

import "strings"

// splitLines splits source into lines without their terminators and
// returns each line's starting byte offset, mirroring the line-index
// technique used across the mapfile/scan packages.
func splitLines(source []byte) (lines []string, offsets []int) {
	offsets = append(offsets, 0)
	start := 0
	for i, b := range source {
		if b == '\n' {
			lines = append(lines, string(source[start:i]))
			offsets = append(offsets, i+1)
			start = i + 1
		}
	}
	lines = append(lines, string(source[start:]))
	return lines, offsets
}

func indentOf(line string) string {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return line[:i]
}

func indentWidth(indent string, tabWidth int) int {
	w := 0
	for _, r := range indent {
		if r == '\t' {
			w += tabWidth
		} else {
			w++
		}
	}
	return w
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
