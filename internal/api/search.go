package api

import (
	"os"

	"github.com/rahul1-bot/flux-mcp/internal/apierr"
	"github.com/rahul1-bot/flux-mcp/internal/scan"
)

// searchSimpleThreshold is the byte size under which a non-regex search
// always takes the direct-read fast path, matching the original
// engine's 100 KB auto-detect cutoff for "simple and small enough".
const searchSimpleThreshold = 100000

// SearchRequest is spec.md §6's search operation.
type SearchRequest struct {
	Path          string `json:"path"`
	Pattern       string `json:"pattern"`
	IsRegex       bool   `json:"is_regex,omitempty"`
	CaseSensitive *bool  `json:"case_sensitive,omitempty"` // defaults to true
	WholeWord     bool   `json:"whole_word,omitempty"`
	SimpleMode    *bool  `json:"simple_mode,omitempty"`
}

func (r SearchRequest) caseSensitive() bool {
	return r.CaseSensitive == nil || *r.CaseSensitive
}

// SearchResult is spec.md §3's "Search result" record, JSON-tagged to
// match the original engine's wire shape.
type SearchResult struct {
	LineNumber     int    `json:"line_number"`
	Column         int    `json:"column"`
	MatchText      string `json:"match_text"`
	ContextBefore  string `json:"context_before"`
	ContextAfter   string `json:"context_after"`
	ByteOffset     int    `json:"byte_offset"`
}

// Search runs spec.md §6's search operation against one file. A small,
// non-regex pattern (or an explicit simple_mode) reads the file
// directly; a large file or a regex pattern goes through the
// mmap-backed mapfile.Store, matching the mmap-threshold split
// read_file applies for the same reason.
func (s *Service) Search(req SearchRequest) ([]SearchResult, error) {
	info, err := os.Stat(req.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apierr.Wrap(apierr.NotFound, "file not found: "+req.Path, err)
		}
		return nil, apierr.Wrap(apierr.IOFailure, "stat failed: "+req.Path, err)
	}

	simple := (req.SimpleMode != nil && *req.SimpleMode) ||
		(info.Size() < searchSimpleThreshold && !req.IsRegex)

	var content []byte
	if simple {
		content, err = os.ReadFile(req.Path)
	} else {
		content, err = s.files.ReadWhole(req.Path)
	}
	if err != nil {
		return nil, wrapIOError(req.Path, err)
	}

	matches, err := scan.Search(content, scan.Options{
		Pattern:       req.Pattern,
		IsRegex:       req.IsRegex,
		CaseSensitive: req.caseSensitive(),
		WholeWord:     req.WholeWord,
	})
	if err != nil {
		return nil, apierr.Wrap(apierr.FormatError, "invalid search pattern", err)
	}

	results := make([]SearchResult, len(matches))
	for i, m := range matches {
		results[i] = SearchResult{
			LineNumber:    m.Line,
			Column:        m.Column,
			MatchText:     m.Match,
			ContextBefore: m.LeftContext,
			ContextAfter:  m.RightContext,
			ByteOffset:    m.Offset,
		}
	}
	return results, nil
}
