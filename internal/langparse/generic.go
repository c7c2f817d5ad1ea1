package langparse

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/php"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// grammarSpec names the node types a generalized provider walks for a
// given language. spec.md §4.5's grammar (class/def, top-level vs.
// dotted member) is Python-shaped; for the other tree-sitter grammars
// the pack ships, "class" maps to that language's closest structural
// analogue (struct/class declaration) and "def" to its function/method
// declaration, generalized rather than specified exactly.
type grammarSpec struct {
	lang          string
	extensions    []string
	sitterLang    *sitter.Language
	classTypes    []string
	functionTypes []string
	methodTypes   []string
	bodyField     string
	nameField     string
	// wrapperTypes names node types that wrap a class/function/method
	// definition one level deeper than its enclosing scope (Python's
	// decorated_definition is the motivating case; see python.go's
	// unwrapDecorated). None of the four grammars below need one today,
	// but findNamed still unwraps through wrapperTypes generically so a
	// grammar added later doesn't silently regain the same bug.
	wrapperTypes []string
}

// GenericProvider walks any tree-sitter grammar using a grammarSpec
// table instead of Python's exact node-type constants.
type GenericProvider struct {
	spec grammarSpec
}

func NewGoProvider() *GenericProvider {
	return &GenericProvider{spec: grammarSpec{
		lang:          "go",
		extensions:    []string{".go"},
		sitterLang:    golang.GetLanguage(),
		classTypes:    []string{"type_declaration"},
		functionTypes: []string{"function_declaration"},
		methodTypes:   []string{"method_declaration"},
		bodyField:     "body",
		nameField:     "name",
	}}
}

func NewJavaScriptProvider() *GenericProvider {
	return &GenericProvider{spec: grammarSpec{
		lang:          "javascript",
		extensions:    []string{".js", ".jsx", ".mjs"},
		sitterLang:    javascript.GetLanguage(),
		classTypes:    []string{"class_declaration"},
		functionTypes: []string{"function_declaration"},
		methodTypes:   []string{"method_definition"},
		bodyField:     "body",
		nameField:     "name",
	}}
}

func NewTypeScriptProvider() *GenericProvider {
	return &GenericProvider{spec: grammarSpec{
		lang:          "typescript",
		extensions:    []string{".ts", ".tsx"},
		sitterLang:    typescript.GetLanguage(),
		classTypes:    []string{"class_declaration"},
		functionTypes: []string{"function_declaration"},
		methodTypes:   []string{"method_definition"},
		bodyField:     "body",
		nameField:     "name",
	}}
}

func NewPHPProvider() *GenericProvider {
	return &GenericProvider{spec: grammarSpec{
		lang:          "php",
		extensions:    []string{".php"},
		sitterLang:    php.GetLanguage(),
		classTypes:    []string{"class_declaration"},
		functionTypes: []string{"function_definition"},
		methodTypes:   []string{"method_declaration"},
		bodyField:     "body",
		nameField:     "name",
	}}
}

func (g *GenericProvider) Lang() string         { return g.spec.lang }
func (g *GenericProvider) Extensions() []string { return g.spec.extensions }

func (g *GenericProvider) parse(source []byte) *sitter.Tree {
	parser := sitter.NewParser()
	parser.SetLanguage(g.spec.sitterLang)
	return parser.Parse(nil, source)
}

func (g *GenericProvider) isType(node *sitter.Node, types []string) bool {
	for _, t := range types {
		if node.Type() == t {
			return true
		}
	}
	return false
}

func (g *GenericProvider) unwrap(node *sitter.Node) *sitter.Node {
	for _, wt := range g.spec.wrapperTypes {
		if node.Type() == wt && node.NamedChildCount() > 0 {
			return node.NamedChild(int(node.NamedChildCount()) - 1)
		}
	}
	return node
}

func (g *GenericProvider) findNamed(scope *sitter.Node, source []byte, types []string, name string) (*sitter.Node, bool) {
	for i := 0; i < int(scope.NamedChildCount()); i++ {
		child := g.unwrap(scope.NamedChild(i))
		if !g.isType(child, types) {
			continue
		}
		if nameNode := child.ChildByFieldName(g.spec.nameField); nameNode != nil && nameNode.Content(source) == name {
			return child, true
		}
	}
	return nil, false
}

func (g *GenericProvider) Resolve(source []byte, class, member string) (*ParserResult, bool) {
	tree := g.parse(source)
	defer tree.Close()

	if treeHasError(tree.RootNode()) {
		return lineScanResolve(source, class, member)
	}

	root := tree.RootNode()

	if member == "" {
		if node, ok := g.findNamed(root, source, g.spec.classTypes, class); ok {
			return buildASTResult(source, node, "class")
		}
		if node, ok := g.findNamed(root, source, g.spec.functionTypes, class); ok {
			return buildASTResult(source, node, "function")
		}
		return nil, false
	}

	classNode, ok := g.findNamed(root, source, g.spec.classTypes, class)
	if !ok {
		return nil, false
	}
	body := classNode.ChildByFieldName(g.spec.bodyField)
	if body == nil {
		return nil, false
	}
	methodNode, ok := g.findNamed(body, source, g.spec.methodTypes, member)
	if !ok {
		return nil, false
	}
	return buildASTResult(source, methodNode, "method")
}

func (g *GenericProvider) Candidates(source []byte) []string {
	tree := g.parse(source)
	defer tree.Close()

	if treeHasError(tree.RootNode()) {
		return lineScanCandidates(source)
	}

	var names []string
	allTypes := append(append(append([]string{}, g.spec.classTypes...), g.spec.functionTypes...), g.spec.methodTypes...)
	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		if g.isType(node, allTypes) {
			if nameNode := node.ChildByFieldName(g.spec.nameField); nameNode != nil {
				names = append(names, nameNode.Content(source))
			}
		}
		for i := 0; i < int(node.NamedChildCount()); i++ {
			walk(node.NamedChild(i))
		}
	}
	walk(tree.RootNode())
	return names
}
