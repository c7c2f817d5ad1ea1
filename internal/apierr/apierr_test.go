package apierr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapAndIs(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(IOFailure, "write failed", cause)

	assert.True(t, Is(err, IOFailure))
	assert.False(t, Is(err, NotFound))
	assert.ErrorIs(t, err, cause)
}

func TestAsRecoversFields(t *testing.T) {
	err := New(TargetMissing, "no such target")
	err.Candidates = []Candidate{{Name: "Foo", Score: 0.9}}

	got, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, TargetMissing, got.Kind)
	assert.Len(t, got.Candidates, 1)
}

func TestErrorString(t *testing.T) {
	err := New(SyntaxInvalid, "bad token")
	assert.Contains(t, err.Error(), "syntax_invalid")
	assert.Contains(t, err.Error(), "bad token")
}
