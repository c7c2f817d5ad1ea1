package langparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPython = `class Foo:
    def bar(self):
        pass

def baz():
    return 1
`

func TestLineScanResolveTopLevelFunction(t *testing.T) {
	res, ok := lineScanResolve([]byte(validPython), "baz", "")
	require.True(t, ok)
	assert.Equal(t, "function", res.Meta.Kind)
}

func TestLineScanResolveMethod(t *testing.T) {
	res, ok := lineScanResolve([]byte(validPython), "Foo", "bar")
	require.True(t, ok)
	assert.Equal(t, "method", res.Meta.Kind)
}

func TestLineScanBlockEndsAtDedent(t *testing.T) {
	src := "def a():\n    x = 1\n    y = 2\ndef b():\n    pass\n"
	res, ok := lineScanResolve([]byte(src), "a", "")
	require.True(t, ok)
	assert.NotContains(t, string([]byte(src)[res.Start:res.End]), "def b")
}

func TestLineScanCandidates(t *testing.T) {
	names := lineScanCandidates([]byte(validPython))
	assert.ElementsMatch(t, []string{"Foo", "bar", "baz"}, names)
}
