package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchLiteralAscendingOrder(t *testing.T) {
	content := []byte("foo bar\nbar foo\n")
	results, err := Search(content, Options{Pattern: "foo", CaseSensitive: true})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, 0, results[0].Line)
	assert.Equal(t, 0, results[0].Column)
	assert.Equal(t, 1, results[1].Line)
	assert.Equal(t, 4, results[1].Column)
	assert.Less(t, results[0].Offset, results[1].Offset)
}

func TestSearchWholeWord(t *testing.T) {
	content := []byte("catcall cat category\n")
	results, err := Search(content, Options{Pattern: "cat", WholeWord: true, CaseSensitive: true})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "cat", results[0].Match)
	assert.Equal(t, 8, results[0].Column)
}

func TestSearchCaseInsensitive(t *testing.T) {
	content := []byte("Class Foo:\n")
	results, err := Search(content, Options{Pattern: "class", CaseSensitive: false})
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestSearchRegex(t *testing.T) {
	content := []byte("def foo():\ndef bar():\n")
	results, err := Search(content, Options{Pattern: `def \w+`, IsRegex: true, CaseSensitive: true})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "def foo", results[0].Match)
	assert.Equal(t, "def bar", results[1].Match)
}

func TestSearchContextClippedAtLineBoundary(t *testing.T) {
	content := []byte("short\nmatch\nafter\n")
	results, err := Search(content, Options{Pattern: "match", CaseSensitive: true})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "", results[0].LeftContext)
	assert.Equal(t, "", results[0].RightContext)
}

func TestSearchContextWithinWindow(t *testing.T) {
	content := []byte("before needle after\n")
	results, err := Search(content, Options{Pattern: "needle", CaseSensitive: true})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "before ", results[0].LeftContext)
	assert.Equal(t, " after", results[0].RightContext)
}

func TestSearchManyIsolatesPerFileErrors(t *testing.T) {
	contents := map[string][]byte{
		"ok.py":  []byte("foo\n"),
		"bad.py": []byte("foo\n"),
	}
	results, errs := SearchMany(contents, Options{Pattern: "(", IsRegex: true})
	assert.Empty(t, results)
	assert.Len(t, errs, 2)
}
