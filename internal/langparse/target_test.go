package langparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul1-bot/flux-mcp/internal/apierr"
)

func TestValidateFormatRejectsCodeLookingTargets(t *testing.T) {
	cases := []string{"def foo():", "class Foo:", "bar(x)", "a:b"}
	for _, c := range cases {
		err := ValidateFormat(c)
		require.NotNil(t, err, c)
		assert.True(t, apierr.Is(err, apierr.FormatError))
		assert.NotEmpty(t, err.CleanedCandidate)
	}
}

func TestValidateFormatAcceptsPlainNames(t *testing.T) {
	for _, c := range []string{"foo", "Foo.bar", "process_data"} {
		assert.Nil(t, ValidateFormat(c))
	}
}

func TestSplitDotted(t *testing.T) {
	class, member, dotted := SplitDotted("Foo.bar")
	assert.True(t, dotted)
	assert.Equal(t, "Foo", class)
	assert.Equal(t, "bar", member)

	class2, member2, dotted2 := SplitDotted("standalone")
	assert.False(t, dotted2)
	assert.Equal(t, "standalone", class2)
	assert.Equal(t, "", member2)
}

func TestIsPlainName(t *testing.T) {
	assert.True(t, Spec{Target: "foo"}.IsPlainName())
	assert.False(t, Spec{Target: "Foo.bar"}.IsPlainName())
	assert.False(t, Spec{Pattern: "x+"}.IsPlainName())
}
