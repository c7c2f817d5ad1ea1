package api

import (
	"bytes"
	"encoding/json"

	"github.com/rahul1-bot/flux-mcp/internal/apierr"
	"github.com/rahul1-bot/flux-mcp/internal/langparse"
)

// highlightJSON is the wire shape of spec.md §3's "Target specifier"
// object form. A bare JSON string is the shorthand {target: "…"} case
// and is handled separately in decodeHighlight before this struct is
// ever consulted. Target is left as raw JSON because spec.md overloads
// the one "target" key with two shapes — a plain name string, or
// {target: ["…", …]} for "first resolvable name wins" — rather than
// using a separate key for the list form.
type highlightJSON struct {
	Target       json.RawMessage `json:"target,omitempty"`
	Pattern      string          `json:"pattern,omitempty"`
	LineRange    *[2]int         `json:"line_range,omitempty"`
	BlockStart   *string         `json:"block_start,omitempty"`
	BlockEnd     *string         `json:"block_end,omitempty"`
	MatchType    string          `json:"match_type,omitempty"`
	RelatedFiles []string        `json:"related_files,omitempty"`
}

// decodeHighlight parses one text_replace "highlight" value — either a
// bare target-name string or a target-spec object — into a
// langparse.Spec the replace coordinator understands.
func decodeHighlight(raw json.RawMessage) (langparse.Spec, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return langparse.Spec{}, apierr.New(apierr.FormatError, "highlight is required")
	}

	if trimmed[0] == '"' {
		var name string
		if err := json.Unmarshal(trimmed, &name); err != nil {
			return langparse.Spec{}, apierr.Wrap(apierr.FormatError, "invalid highlight string", err)
		}
		return langparse.Spec{Target: name}, nil
	}

	var h highlightJSON
	if err := json.Unmarshal(trimmed, &h); err != nil {
		return langparse.Spec{}, apierr.Wrap(apierr.FormatError, "invalid highlight object", err)
	}

	spec := langparse.Spec{
		Pattern:      h.Pattern,
		LineRange:    h.LineRange,
		BlockStart:   h.BlockStart,
		BlockEnd:     h.BlockEnd,
		RelatedFiles: h.RelatedFiles,
	}
	if len(h.Target) > 0 {
		targetTrimmed := bytes.TrimSpace(h.Target)
		if len(targetTrimmed) > 0 && targetTrimmed[0] == '[' {
			if err := json.Unmarshal(targetTrimmed, &spec.List); err != nil {
				return langparse.Spec{}, apierr.Wrap(apierr.FormatError, "invalid highlight target list", err)
			}
		} else if err := json.Unmarshal(targetTrimmed, &spec.Target); err != nil {
			return langparse.Spec{}, apierr.Wrap(apierr.FormatError, "invalid highlight target", err)
		}
	}
	if h.MatchType != "" {
		spec.MatchType = langparse.MatchType(h.MatchType)
	} else {
		spec.MatchType = langparse.MatchExact
	}
	return spec, nil
}

// decodeHighlightBatch parses a batch_mode "highlight" array, one entry
// per target, each in the same string-or-object shape decodeHighlight
// accepts.
func decodeHighlightBatch(raw json.RawMessage) ([]langparse.Spec, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, apierr.Wrap(apierr.FormatError, "batch_mode highlight must be a JSON array", err)
	}
	specs := make([]langparse.Spec, len(entries))
	for i, entry := range entries {
		spec, err := decodeHighlight(entry)
		if err != nil {
			return nil, err
		}
		specs[i] = spec
	}
	return specs, nil
}

// decodeReplacements parses text_replace's "replace_with" value: a bare
// string in single-target mode, or a JSON array of strings in
// batch_mode, one per highlight entry.
func decodeReplacements(raw json.RawMessage, batch bool) ([]string, error) {
	if !batch {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, apierr.Wrap(apierr.FormatError, "invalid replace_with string", err)
		}
		return []string{s}, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, apierr.Wrap(apierr.FormatError, "batch_mode replace_with must be a JSON array of strings", err)
	}
	return list, nil
}
