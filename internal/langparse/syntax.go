package langparse

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/rahul1-bot/flux-mcp/internal/apierr"
)

// SyntaxChecker is implemented by code-dialect providers only, per
// spec.md §4.7's "for code-dialect files only" scoping. DocumentProvider
// does not implement it, so validate's registry lookup naturally skips
// the document dialect.
type SyntaxChecker interface {
	CheckSyntax(source []byte) *apierr.Error
}

// CheckSyntax implements spec.md §4.7's isolated/whole-file parse check:
// parse source with this provider's grammar and, on the first ERROR
// node, report line, column, the offending source line, and a caret.
// Grounded on termfx-morfx's checkForErrors (recursive ERROR-node walk).
func (p *PythonProvider) CheckSyntax(source []byte) *apierr.Error {
	tree := p.parse(source)
	defer tree.Close()
	if node := firstErrorNode(tree.RootNode()); node != nil {
		return syntaxErrorAt(source, node)
	}
	return nil
}

func (g *GenericProvider) CheckSyntax(source []byte) *apierr.Error {
	tree := g.parse(source)
	defer tree.Close()
	if node := firstErrorNode(tree.RootNode()); node != nil {
		return syntaxErrorAt(source, node)
	}
	return nil
}

func firstErrorNode(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	if node.Type() == "ERROR" {
		return node
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if e := firstErrorNode(node.Child(i)); e != nil {
			return e
		}
	}
	return nil
}

func syntaxErrorAt(source []byte, node *sitter.Node) *apierr.Error {
	lines, offsets := splitLines(source)
	line, col := byteToLine(offsets, int(node.StartByte()))

	var src string
	if line >= 0 && line < len(lines) {
		src = lines[line]
	}

	err := apierr.New(apierr.SyntaxInvalid, "syntax error")
	err.Line = line + 1
	err.Column = col + 1
	err.Source = src
	err.Caret = strings.Repeat(" ", col) + "^"
	return err
}
