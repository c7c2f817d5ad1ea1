package langparse

import (
	"regexp"
	"strings"
)

var (
	defHeaderRe   = regexp.MustCompile(`^\s*(async\s+)?def\s+\w+\s*\(([^)]*)\)\s*(->\s*([^:]+))?\s*:`)
	classHeaderRe = regexp.MustCompile(`^\s*class\s+\w+\s*(\(([^)]*)\))?\s*:`)
)

// ExtractMetadata populates spec.md §4.5 step 7's metadata bag from the
// resolved block's header line and body text. Working from text rather
// than AST fields keeps the line-scanner fallback and the tree-sitter
// path on one code path, since both ultimately resolve to the same
// header/body text. Exported so internal/validate can extract metadata
// for a standalone replacement snippet without re-resolving it through
// a Provider.
func ExtractMetadata(headerLine, bodyText, kind string) Metadata {
	meta := Metadata{Kind: kind}

	if kind == "class" {
		if m := classHeaderRe.FindStringSubmatch(headerLine); m != nil {
			meta.BaseClasses = splitTopLevelCommas(m[2])
		}
		meta.HasSuper = strings.Contains(bodyText, "super(")
		return meta
	}

	if m := defHeaderRe.FindStringSubmatch(headerLine); m != nil {
		meta.IsAsync = strings.TrimSpace(m[1]) == "async"
		meta.Parameters = filterSelfCls(splitTopLevelCommas(m[2]))
		meta.ReturnAnnotation = strings.TrimSpace(m[4])
	}
	meta.HasSuper = strings.Contains(bodyText, "super(")
	return meta
}

// splitTopLevelCommas splits a parameter or base-class list on commas
// that are not nested inside brackets/parens, then reduces each
// parameter to its bare name (stripping default values, annotations,
// and */** prefixes).
func splitTopLevelCommas(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		name := paramName(p)
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

func paramName(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimLeft(s, "*")
	if s == "" {
		return ""
	}
	if idx := strings.IndexAny(s, ":="); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

func filterSelfCls(params []string) []string {
	out := make([]string, 0, len(params))
	for _, p := range params {
		if p == "self" || p == "cls" {
			continue
		}
		out = append(out, p)
	}
	return out
}
