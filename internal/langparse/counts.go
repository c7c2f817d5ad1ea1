package langparse

import sitter "github.com/smacker/go-tree-sitter"

// KindCounter is implemented by every code-dialect provider to answer
// the apierr.Error.ClassCount/FunctionCount fields a TargetMissing
// error reports alongside its fuzzy candidates.
type KindCounter interface {
	CountKinds(source []byte) (classes, functions int)
}

func (p *PythonProvider) CountKinds(source []byte) (classes, functions int) {
	tree := p.parse(source)
	defer tree.Close()

	if treeHasError(tree.RootNode()) {
		return countKindsLineScan(source)
	}

	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		switch node.Type() {
		case "class_definition":
			classes++
		case "function_definition":
			functions++
		}
		for i := 0; i < int(node.NamedChildCount()); i++ {
			walk(node.NamedChild(i))
		}
	}
	walk(tree.RootNode())
	return classes, functions
}

func (g *GenericProvider) CountKinds(source []byte) (classes, functions int) {
	tree := g.parse(source)
	defer tree.Close()

	if treeHasError(tree.RootNode()) {
		return countKindsLineScan(source)
	}

	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		switch {
		case g.isType(node, g.spec.classTypes):
			classes++
		case g.isType(node, g.spec.functionTypes), g.isType(node, g.spec.methodTypes):
			functions++
		}
		for i := 0; i < int(node.NamedChildCount()); i++ {
			walk(node.NamedChild(i))
		}
	}
	walk(tree.RootNode())
	return classes, functions
}

func countKindsLineScan(source []byte) (classes, functions int) {
	lines, _ := splitLines(source)
	for _, line := range lines {
		switch {
		case classDeclRe.MatchString(line):
			classes++
		case defDeclRe.MatchString(line):
			functions++
		}
	}
	return classes, functions
}
