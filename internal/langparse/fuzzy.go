package langparse

import (
	"sort"
	"strings"
	"unicode"

	"github.com/rahul1-bot/flux-mcp/internal/apierr"
)

// RankCandidates implements spec.md §4.5's "Failure modes" algorithm:
// enumerate every candidate name, score each against requested (see
// similarity), and return those scoring >= 0.5 ordered highest-first. Grounded on termfx-morfx's internal/core/fuzzy.go
// heuristic set (exact/case-insensitive/levenshtein/substring/prefix/
// suffix/camelCase/acronym), collapsed from tree-sitter query scoring
// down to plain string-vs-string scoring since spec.md has no query
// variation step — it scores the literal candidate names already
// present in the file.
func RankCandidates(requested string, candidates []string) []apierr.Candidate {
	type scored struct {
		name  string
		score float64
	}

	seen := make(map[string]bool, len(candidates))
	var results []scored
	for _, c := range candidates {
		if seen[c] {
			continue
		}
		seen[c] = true
		results = append(results, scored{name: c, score: similarity(requested, c)})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].name < results[j].name
	})

	out := make([]apierr.Candidate, 0, len(results))
	for _, r := range results {
		if r.score >= 0.5 {
			out = append(out, apierr.Candidate{Name: r.name, Score: r.score})
		}
	}
	return out
}

// weightedHeuristic pairs a scoring function with the weight it
// contributes to the blended similarity score.
type weightedHeuristic struct {
	weight float64
	score  func(a, b string) float64
}

var heuristics = []weightedHeuristic{
	{1.0, exactScore},
	{0.9, caseInsensitiveScore},
	{0.8, levenshteinScore},
	{0.7, substringScore},
	{0.6, prefixScore},
	{0.6, suffixScore},
	{0.5, camelCaseScore},
	{0.4, acronymScore},
}

// similarity returns the larger of the plain Levenshtein similarity and
// the weighted average of every heuristic's score, so an exact match
// scores 1.0 and a one-character typo in an n-character name scores
// 1 - 1/n however the other heuristics rate it.
func similarity(requested, candidate string) float64 {
	var total, weight float64
	for _, h := range heuristics {
		s := h.score(requested, candidate)
		total += s * h.weight
		weight += h.weight
	}
	if weight == 0 {
		return 0
	}
	return max(levenshteinScore(requested, candidate), total/weight)
}

func exactScore(a, b string) float64 {
	if a == b {
		return 1.0
	}
	return 0.0
}

func caseInsensitiveScore(a, b string) float64 {
	if strings.EqualFold(a, b) {
		return 1.0
	}
	return 0.0
}

func levenshteinScore(a, b string) float64 {
	dist := levenshteinDistance(a, b)
	maxLen := max(len(a), len(b))
	if maxLen == 0 {
		return 1.0
	}
	score := 1.0 - float64(dist)/float64(maxLen)
	if score < 0 {
		return 0
	}
	return score
}

func substringScore(a, b string) float64 {
	al, bl := strings.ToLower(a), strings.ToLower(b)
	switch {
	case strings.Contains(bl, al) && len(b) > 0:
		return float64(len(a)) / float64(len(b))
	case strings.Contains(al, bl) && len(a) > 0:
		return float64(len(b)) / float64(len(a))
	}
	return 0.0
}

func prefixScore(a, b string) float64 {
	al, bl := strings.ToLower(a), strings.ToLower(b)
	n := commonPrefixLen(al, bl)
	if n == 0 {
		return 0
	}
	return float64(n) / float64(max(len(a), len(b)))
}

func suffixScore(a, b string) float64 {
	al, bl := strings.ToLower(a), strings.ToLower(b)
	n := commonSuffixLen(al, bl)
	if n == 0 {
		return 0
	}
	return float64(n) / float64(max(len(a), len(b)))
}

func camelCaseScore(a, b string) float64 {
	abbrev := camelCaseAbbreviation(b)
	if len(b) > 0 && strings.EqualFold(a, abbrev) {
		return float64(len(a)) / float64(len(b))
	}
	return 0.0
}

func acronymScore(a, b string) float64 {
	acro := acronym(b)
	if len(b) > 0 && strings.EqualFold(a, acro) {
		return float64(len(a)) / float64(len(b))
	}
	return 0.0
}

func commonPrefixLen(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

func commonSuffixLen(a, b string) int {
	la, lb := len(a), len(b)
	n := min(la, lb)
	for i := 0; i < n; i++ {
		if a[la-1-i] != b[lb-1-i] {
			return i
		}
	}
	return n
}

func camelCaseAbbreviation(s string) string {
	if s == "" {
		return ""
	}
	var out strings.Builder
	out.WriteRune(unicode.ToUpper(rune(s[0])))
	for _, r := range s[1:] {
		if unicode.IsUpper(r) {
			out.WriteRune(r)
		}
	}
	return out.String()
}

func acronym(s string) string {
	if s == "" {
		return ""
	}
	if !strings.ContainsAny(s, " _-.") {
		return camelCaseAbbreviation(s)
	}
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var out strings.Builder
	for _, w := range words {
		if w != "" {
			out.WriteRune(unicode.ToUpper(rune(w[0])))
		}
	}
	return out.String()
}

// levenshteinDistance is the classic DP edit-distance matrix, identical
// in structure to termfx-morfx's internal/core/fuzzy.go implementation.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = minOf3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func minOf3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
