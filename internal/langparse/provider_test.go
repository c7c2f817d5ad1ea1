package langparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryResolvesByExtension(t *testing.T) {
	r := NewRegistry()

	p, ok := r.For(".py")
	require.True(t, ok)
	assert.Equal(t, "python", p.Lang())

	p, ok = r.For(".go")
	require.True(t, ok)
	assert.Equal(t, "go", p.Lang())

	p, ok = r.For(".tex")
	require.True(t, ok)
	assert.Equal(t, "latex-like", p.Lang())

	_, ok = r.For(".unknown")
	assert.False(t, ok)
}
