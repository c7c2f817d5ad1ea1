package replace

import (
	"regexp"
	"strings"

	"github.com/rahul1-bot/flux-mcp/internal/apierr"
	"github.com/rahul1-bot/flux-mcp/internal/langparse"
)

// nameResolution is the outcome of resolving a Target/List target spec
// to a concrete, in-file name.
type nameResolution struct {
	name              string
	fuzzy             bool
	autoFixed         bool
	originalHighlight string
	formatDiagnostic  string
	candidates        []apierr.Candidate
	classCount        int
	funcCount         int
	err               *apierr.Error // TargetMissing or FormatError; nil on success
}

// resolveTargetName implements spec.md §4.5's plain/dotted/list target
// resolution plus spec.md §4.8's fuzzy-recovery rule: on a miss, rank
// every candidate name in the file, and if the original spec was a
// plain undotted string and the top score clears threshold, recover
// against that name and mark the result fuzzy.
//
// It also implements spec.md §4.5/§4.8's format-error auto-recovery
// (scenario S2): a target string that looks like code ("def f()")
// fails ValidateFormat but carries a CleanedCandidate ("f"); rather than
// failing outright, resolution is retried exactly once against the
// cleaned name (the Design Notes' "bounded retry counter (≤ 1
// auto-retry)"), through the same exact-match and fuzzy-ranking path a
// clean name would take. Only the first format error encountered
// triggers a retry — a second bad name in a list spec after one retry
// has already been spent surfaces its own FormatError immediately.
func resolveTargetName(provider langparse.Provider, source string, spec langparse.Spec, threshold float64) nameResolution {
	tryNames := spec.List
	allowFuzzy := false
	if spec.Target != "" {
		tryNames = []string{spec.Target}
		allowFuzzy = spec.IsPlainName()
	}

	var formatErr *apierr.Error
	cleaned := make([]string, len(tryNames))
	for i, n := range tryNames {
		cleaned[i] = n
		err := langparse.ValidateFormat(n)
		if err == nil {
			continue
		}
		if err.CleanedCandidate == "" || formatErr != nil {
			return nameResolution{err: err}
		}
		formatErr = err
		cleaned[i] = err.CleanedCandidate
	}
	tryNames = cleaned

	for _, n := range tryNames {
		class, member, _ := langparse.SplitDotted(n)
		if _, ok := provider.Resolve([]byte(source), class, member); ok {
			return nameResolution{name: n, autoFixed: formatErr != nil, originalHighlight: n, formatDiagnostic: diagnosticOf(formatErr)}
		}
	}

	requested := ""
	if len(tryNames) > 0 {
		requested = tryNames[0]
	}

	names := provider.Candidates([]byte(source))
	ranked := langparse.RankCandidates(requested, names)

	var classCount, funcCount int
	if counter, ok := provider.(langparse.KindCounter); ok {
		classCount, funcCount = counter.CountKinds([]byte(source))
	}

	top := ranked
	if len(top) > 5 {
		top = top[:5]
	}

	if allowFuzzy && len(ranked) > 0 && ranked[0].Score >= threshold {
		return nameResolution{
			name:              ranked[0].Name,
			fuzzy:             true,
			autoFixed:         formatErr != nil,
			originalHighlight: ranked[0].Name,
			formatDiagnostic:  diagnosticOf(formatErr),
			candidates:        top,
			classCount:        classCount,
			funcCount:         funcCount,
		}
	}

	if formatErr != nil {
		// the one auto-retry against the cleaned candidate still didn't
		// resolve; report the original format diagnostic rather than a
		// TargetMissing for a name the caller never actually typed.
		formatErr.Candidates = top
		formatErr.ClassCount = classCount
		formatErr.FunctionCount = funcCount
		return nameResolution{candidates: top, classCount: classCount, funcCount: funcCount, err: formatErr}
	}

	missing := apierr.New(apierr.TargetMissing, "target not found: "+requested)
	missing.Candidates = top
	missing.ClassCount = classCount
	missing.FunctionCount = funcCount

	return nameResolution{
		candidates: top,
		classCount: classCount,
		funcCount:  funcCount,
		err:        missing,
	}
}

func diagnosticOf(err *apierr.Error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// editSpan is the byte range of a resolved block together with the
// context validate/reflow need.
type editSpan struct {
	start, end int
	indent     string
	headerLine string
	kind       string // "class" | "function" | "method" | "" (pattern/line_range)
}

func spanFromResult(source string, r *langparse.ParserResult) editSpan {
	return editSpan{
		start:      r.Start,
		end:        r.End,
		indent:     r.Indent,
		headerLine: lineAt(source, r.Start),
		kind:       r.Meta.Kind,
	}
}

// lineAt returns the full line (without its terminator) containing byte
// offset pos within source.
func lineAt(source string, pos int) string {
	start := strings.LastIndexByte(source[:pos], '\n') + 1
	end := strings.IndexByte(source[pos:], '\n')
	if end < 0 {
		return source[start:]
	}
	return source[start : pos+end]
}

// narrowByBlockMarkers implements spec.md §3's
// `{target, block_start, block_end, match_type}` shape: having already
// resolved the outer target to span, find the first line within it
// matching blockStart and the first line after that matching blockEnd,
// and narrow span to cover exactly those lines (inclusive).
func narrowByBlockMarkers(source string, span editSpan, blockStart, blockEnd string, matchType langparse.MatchType) editSpan {
	lineStart := func(line string) bool { return lineMatches(line, blockStart, matchType) }
	lineEndFn := func(line string) bool { return lineMatches(line, blockEnd, matchType) }

	type lineSpan struct {
		start, end int // byte offsets of this line, end exclusive of its own newline
	}
	var lines []lineSpan
	pos := span.start
	for pos < span.end {
		nl := strings.IndexByte(source[pos:span.end], '\n')
		if nl < 0 {
			lines = append(lines, lineSpan{pos, span.end})
			break
		}
		lines = append(lines, lineSpan{pos, pos + nl})
		pos += nl + 1
	}

	startIdx := -1
	for i, ls := range lines {
		if lineStart(source[ls.start:ls.end]) {
			startIdx = i
			break
		}
	}
	if startIdx < 0 {
		return span
	}

	endIdx := -1
	for i := startIdx; i < len(lines); i++ {
		if lineEndFn(source[lines[i].start:lines[i].end]) {
			endIdx = i
			break
		}
	}
	if endIdx < 0 {
		return span
	}

	newEnd := lines[endIdx].end
	if newEnd < len(source) && source[newEnd] == '\n' {
		newEnd++
	}

	return editSpan{
		start:      lines[startIdx].start,
		end:        newEnd,
		indent:     leadingIndent(source[lines[startIdx].start:lines[startIdx].end]),
		headerLine: source[lines[startIdx].start : lines[startIdx].end],
		kind:       "",
	}
}

func lineMatches(line, matcher string, matchType langparse.MatchType) bool {
	trimmed := strings.TrimSpace(line)
	switch matchType {
	case langparse.MatchRegex:
		re, err := regexp.Compile(matcher)
		if err != nil {
			return false
		}
		return re.MatchString(line)
	case langparse.MatchFuzzy:
		// No line-level fuzzy-similarity metric is specified; a
		// substring test is the conservative stand-in.
		return strings.Contains(trimmed, strings.TrimSpace(matcher))
	default: // MatchExact
		return trimmed == strings.TrimSpace(matcher)
	}
}

func leadingIndent(line string) string {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return line[:i]
}
