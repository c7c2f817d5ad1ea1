package langparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankCandidatesExactMatchScoresHighest(t *testing.T) {
	ranked := RankCandidates("process_data", []string{"process_data", "process_items", "render"})
	require.NotEmpty(t, ranked)
	assert.Equal(t, "process_data", ranked[0].Name)
	assert.InDelta(t, 1.0, ranked[0].Score, 0.001)
}

func TestRankCandidatesFiltersBelowThreshold(t *testing.T) {
	ranked := RankCandidates("zzzzzzzzzz", []string{"completely_unrelated_long_name"})
	for _, c := range ranked {
		assert.GreaterOrEqual(t, c.Score, 0.5)
	}
}

func TestRankCandidatesTypoRecoversAboveAutoThreshold(t *testing.T) {
	ranked := RankCandidates("proces_data", []string{"process_data"})
	require.NotEmpty(t, ranked)
	assert.GreaterOrEqual(t, ranked[0].Score, 0.85)
}

func TestRankCandidatesDeterministicOrdering(t *testing.T) {
	a := RankCandidates("fetch", []string{"fetch_one", "fetch_all"})
	b := RankCandidates("fetch", []string{"fetch_one", "fetch_all"})
	assert.Equal(t, a, b)
}

func TestLevenshteinDistanceBasic(t *testing.T) {
	assert.Equal(t, 0, levenshteinDistance("abc", "abc"))
	assert.Equal(t, 1, levenshteinDistance("abc", "abd"))
	assert.Equal(t, 3, levenshteinDistance("", "abc"))
}
