package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul1-bot/flux-mcp/internal/apierr"
	"github.com/rahul1-bot/flux-mcp/internal/langparse"
)

func TestIsolatedReplacementAcceptsValidSnippet(t *testing.T) {
	p := langparse.NewPythonProvider()
	err := IsolatedReplacement(p, []byte("def foo():\n    return 1\n"))
	assert.Nil(t, err)
}

func TestIsolatedReplacementReportsPositionOnFailure(t *testing.T) {
	p := langparse.NewPythonProvider()
	err := IsolatedReplacement(p, []byte("def foo(:\n    pass\n"))
	require.NotNil(t, err)
	assert.True(t, apierr.Is(err, apierr.SyntaxInvalid))
	assert.Greater(t, err.Line, 0)
	assert.NotEmpty(t, err.Caret)
}

func TestWholeFileMarksMessageOnFailure(t *testing.T) {
	p := langparse.NewPythonProvider()
	err := WholeFile(p, []byte("def foo(:\n    pass\n"))
	require.NotNil(t, err)
	assert.Contains(t, err.Msg, "whole-file")
}

func TestSyntaxSkipsDocumentDialect(t *testing.T) {
	p := langparse.NewDocumentProvider()
	err := Syntax(p, []byte(`\section{not python at all (`))
	assert.Nil(t, err)
}

func TestSignaturesWarnsOnRemovedParameter(t *testing.T) {
	warnings, critical := Signatures("def foo(self, a, b):", "def foo(self, a):", false)
	assert.Nil(t, critical)
	assert.Contains(t, warnings, `parameter "b" was removed`)
}

func TestSignaturesAbortsOnRemovedParameterWhenConfigured(t *testing.T) {
	_, critical := Signatures("def foo(self, a, b):", "def foo(self, a):", true)
	require.NotNil(t, critical)
	assert.True(t, apierr.Is(critical, apierr.TypeIncompatible))
}

func TestSignaturesWarnsOnAddedRequiredParameter(t *testing.T) {
	warnings, critical := Signatures("def foo(self, a):", "def foo(self, a, b):", false)
	assert.Nil(t, critical)
	assert.Contains(t, warnings, `required parameter "b" was added`)
}

func TestSignaturesDoesNotWarnOnAddedOptionalParameter(t *testing.T) {
	warnings, critical := Signatures("def foo(self, a):", "def foo(self, a, b=1):", false)
	assert.Nil(t, critical)
	assert.Empty(t, warnings)
}

func TestSignaturesWarnsOnReturnAnnotationChange(t *testing.T) {
	warnings, _ := Signatures("def foo(self) -> int:", "def foo(self) -> str:", false)
	assert.Contains(t, warnings, `return annotation changed from "int" to "str"`)
}

func TestSignaturesWarnsOnParameterTypeChange(t *testing.T) {
	warnings, _ := Signatures("def foo(self, a: int):", "def foo(self, a: str):", false)
	assert.Contains(t, warnings, `parameter "a" type annotation changed from "int" to "str"`)
}

func TestClassesWarnsOnRemovedBaseClass(t *testing.T) {
	warnings := Classes("class Foo(Base, Mixin):", "", "class Foo(Base):", "")
	assert.Contains(t, warnings, `base class "Mixin" was removed`)
}

func TestClassesWarnsOnRemovedTypedAttribute(t *testing.T) {
	origBody := "class Foo:\n    count: int\n    def __init__(self):\n        self.name: str = \"\"\n"
	newBody := "class Foo:\n    def __init__(self):\n        self.name: str = \"\"\n"
	warnings := Classes("class Foo:", origBody, "class Foo:", newBody)
	assert.Contains(t, warnings, `typed attribute "count" was removed`)
	for _, w := range warnings {
		assert.NotContains(t, w, `"name"`)
	}
}

func TestCheckLanguageBaselineFlagsFStringBelow36(t *testing.T) {
	warnings := CheckLanguageBaseline([]byte(`x = f"{y}"`), "3.5")
	require.NotEmpty(t, warnings)
	assert.Contains(t, warnings[0], "f-string")
}

func TestCheckLanguageBaselineSilentWhenAboveIntroduction(t *testing.T) {
	warnings := CheckLanguageBaseline([]byte(`x = f"{y}"`), "3.11")
	assert.Empty(t, warnings)
}

func TestCheckLanguageBaselineFlagsWalrus(t *testing.T) {
	warnings := CheckLanguageBaseline([]byte(`if (n := len(a)) > 0:\n    pass`), "3.7")
	found := false
	for _, w := range warnings {
		if strings.Contains(w, "walrus") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestReplacementReturnsCriticalOnSyntaxError(t *testing.T) {
	p := langparse.NewPythonProvider()
	res := Replacement(p, Options{}, "function", "def foo():", "", "def foo(:", "def foo(:\n    pass\n")
	require.NotNil(t, res.Critical)
	assert.True(t, apierr.Is(res.Critical, apierr.SyntaxInvalid))
}

func TestReplacementAccumulatesSignatureWarnings(t *testing.T) {
	p := langparse.NewPythonProvider()
	res := Replacement(p, Options{}, "method",
		"def foo(self, a, b):", "",
		"def foo(self, a):", "def foo(self, a):\n    return a\n")
	assert.Nil(t, res.Critical)
	assert.Contains(t, res.Warnings, `parameter "b" was removed`)
}
