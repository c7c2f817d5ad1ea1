// Package scan implements spec.md §4.4's scan engine: literal and regex
// search over file content, line-major traversal, and bounded context
// extraction. Grounded on the line-offset binary search technique in
// termfx-morfx's internal/core/manipulator.go (computeLineIndex /
// byteToLineRange), generalized here into a standalone line index
// shared by every match a scan produces.
package scan

import (
	"regexp"
	"sort"
)

// Result is one match, matching spec.md §3's "Search result" record.
type Result struct {
	Line         int
	Column       int
	Match        string
	LeftContext  string
	RightContext string
	Offset       int
}

const contextWindow = 50

// Options configures one search call.
type Options struct {
	Pattern       string
	IsRegex       bool
	CaseSensitive bool
	WholeWord     bool
}

// lineIndex is a sorted list of line-start byte offsets, built once per
// scan so every match can resolve its (line, column) in O(log n).
type lineIndex struct {
	offsets []int
}

func buildLineIndex(content []byte) *lineIndex {
	offsets := []int{0}
	for i, b := range content {
		if b == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return &lineIndex{offsets: offsets}
}

// lineFor returns the 0-indexed line and column for a byte offset.
func (idx *lineIndex) lineFor(offset int) (line, column int) {
	// Largest i such that offsets[i] <= offset.
	i := sort.Search(len(idx.offsets), func(i int) bool { return idx.offsets[i] > offset }) - 1
	if i < 0 {
		i = 0
	}
	return i, offset - idx.offsets[i]
}

func (idx *lineIndex) lineBounds(line int) (start, end int) {
	start = idx.offsets[line]
	if line+1 < len(idx.offsets) {
		end = idx.offsets[line+1] - 1 // exclude the newline itself
		if end < start {
			end = start
		}
	} else {
		end = -1 // sentinel: caller clamps to content length
	}
	return
}

func buildPattern(opts Options) (*regexp.Regexp, error) {
	pattern := opts.Pattern
	if !opts.IsRegex {
		pattern = regexp.QuoteMeta(pattern)
	}
	if opts.WholeWord {
		pattern = `\b` + pattern + `\b`
	}
	if !opts.CaseSensitive {
		pattern = "(?i)" + pattern
	}
	return regexp.Compile(pattern)
}

// Search runs one CPU-authoritative scan over content and returns every
// match in ascending (line, column) order, each clipped to up to 50
// bytes of left/right context at line boundaries.
func Search(content []byte, opts Options) ([]Result, error) {
	re, err := buildPattern(opts)
	if err != nil {
		return nil, err
	}

	idx := buildLineIndex(content)
	locs := re.FindAllIndex(content, -1)
	results := make([]Result, 0, len(locs))

	for _, loc := range locs {
		start, end := loc[0], loc[1]
		line, column := idx.lineFor(start)
		lineStart, lineEnd := idx.lineBounds(line)
		if lineEnd == -1 {
			lineEnd = len(content)
		}

		leftFrom := start - contextWindow
		if leftFrom < lineStart {
			leftFrom = lineStart
		}
		rightTo := end + contextWindow
		if rightTo > lineEnd {
			rightTo = lineEnd
		}

		results = append(results, Result{
			Line:         line,
			Column:       column,
			Match:        string(content[start:end]),
			LeftContext:  string(content[leftFrom:start]),
			RightContext: string(content[end:rightTo]),
			Offset:       start,
		})
	}
	return results, nil
}

// SearchMany runs Search independently over each file's content keyed by
// path, returning a per-path result map. A per-file error does not
// abort the other files' scans.
func SearchMany(contents map[string][]byte, opts Options) (map[string][]Result, map[string]error) {
	results := make(map[string][]Result, len(contents))
	errs := make(map[string]error)
	for path, content := range contents {
		r, err := Search(content, opts)
		if err != nil {
			errs[path] = err
			continue
		}
		results[path] = r
	}
	return results, errs
}
