package langparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPythonCountKinds(t *testing.T) {
	src := []byte("class A:\n    pass\n\nclass B:\n    pass\n\ndef f():\n    pass\n")
	p := NewPythonProvider()
	classes, functions := p.CountKinds(src)
	assert.Equal(t, 2, classes)
	assert.Equal(t, 1, functions)
}

func TestPythonCountKindsFallsBackOnParseError(t *testing.T) {
	src := []byte("class A:\n    pass\n\ndef f(:\n    pass\n")
	p := NewPythonProvider()
	classes, functions := p.CountKinds(src)
	assert.Equal(t, 1, classes)
	assert.Equal(t, 1, functions)
}

func TestGoCountKinds(t *testing.T) {
	src := []byte("package x\n\ntype Foo struct{}\n\nfunc Bar() {}\n")
	p := NewGoProvider()
	classes, functions := p.CountKinds(src)
	assert.Equal(t, 1, classes)
	assert.Equal(t, 1, functions)
}
