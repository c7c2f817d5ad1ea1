package langparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = `\section{Intro}
Some text here.

\section{Methods}
\begin{itemize}
\item one
\item two
\end{itemize}

\section{Conclusion}
Done.
`

func TestDocumentResolveSection(t *testing.T) {
	p := NewDocumentProvider()
	res, ok := p.Resolve([]byte(doc), "Methods", "")
	require.True(t, ok)
	text := doc[res.Start:res.End]
	assert.Contains(t, text, "\\begin{itemize}")
	assert.NotContains(t, text, "Conclusion")
}

func TestDocumentResolveEnvironment(t *testing.T) {
	p := NewDocumentProvider()
	res, ok := p.Resolve([]byte(doc), "itemize", "")
	require.True(t, ok)
	text := doc[res.Start:res.End]
	assert.Contains(t, text, "\\item one")
	assert.Contains(t, text, "\\end{itemize}")
}

func TestDocumentCandidates(t *testing.T) {
	p := NewDocumentProvider()
	names := p.Candidates([]byte(doc))
	assert.Contains(t, names, "Intro")
	assert.Contains(t, names, "Methods")
	assert.Contains(t, names, "itemize")
}
