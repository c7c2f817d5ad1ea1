package langparse

import (
	"strings"

	"github.com/rahul1-bot/flux-mcp/internal/encoding"
)

// attachSurroundings implements spec.md §4.5 steps 3-6: decorators walk
// backward from the header line collecting contiguous "@..." lines;
// leading comments continue backward across blank/"#" lines, stopping
// at the first other token; trailing comments do the symmetric walk
// forward from the block's last line; the dominant line ending is the
// first "\r\n" versus "\n" seen in the whole file.
func attachSurroundings(lines []string, headerLine, lastLine int) (decorators, leading, trailing []string) {
	return attachSurroundingsWithComment(lines, headerLine, lastLine, "#")
}

// attachSurroundingsWithComment parameterizes the leading/trailing
// comment marker so the document dialect (LaTeX-style "%" comments) can
// share the same walk as the code dialect ("#" comments).
func attachSurroundingsWithComment(lines []string, headerLine, lastLine int, commentMarker string) (decorators, leading, trailing []string) {
	i := headerLine - 1
	for i >= 0 && strings.HasPrefix(strings.TrimSpace(lines[i]), "@") {
		decorators = append([]string{lines[i]}, decorators...)
		i--
	}
	for i >= 0 {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" || strings.HasPrefix(trimmed, commentMarker) {
			leading = append([]string{lines[i]}, leading...)
			i--
			continue
		}
		break
	}

	j := lastLine + 1
	for j < len(lines) {
		trimmed := strings.TrimSpace(lines[j])
		if trimmed == "" || strings.HasPrefix(trimmed, commentMarker) {
			trailing = append(trailing, lines[j])
			j++
			continue
		}
		break
	}

	return decorators, leading, trailing
}

func dominantLineEnding(source []byte) encoding.LineEnding {
	return encoding.DetectLineEnding(source)
}
