package langparse

// Provider resolves a single plain or dotted name against one file's
// source text and reports every top-level/class-member candidate name
// so callers can run fuzzy recovery on a miss.
type Provider interface {
	// Lang returns the canonical language name.
	Lang() string
	// Extensions lists the file extensions this provider claims.
	Extensions() []string
	// Resolve finds the named block. member=="" means a top-level class
	// or function named class; otherwise member is looked up inside the
	// class named class.
	Resolve(source []byte, class, member string) (*ParserResult, bool)
	// Candidates lists every resolvable name in the file, used for
	// fuzzy-recovery ranking when Resolve fails for a plain name.
	Candidates(source []byte) []string
}

// Registry maps file extensions to the Provider that handles them.
type Registry struct {
	byExtension map[string]Provider
}

// NewRegistry builds the default registry: the code dialect (Python
// primary, Go/JS/TS/PHP via the generalized tree-sitter walk) and the
// document dialect, matching spec.md §4.5's "two dialects recognized by
// file extension" rule.
func NewRegistry() *Registry {
	r := &Registry{byExtension: make(map[string]Provider)}
	for _, p := range []Provider{
		NewPythonProvider(),
		NewGoProvider(),
		NewJavaScriptProvider(),
		NewTypeScriptProvider(),
		NewPHPProvider(),
		NewDocumentProvider(),
	} {
		for _, ext := range p.Extensions() {
			r.byExtension[ext] = p
		}
	}
	return r
}

// For looks up the provider registered for a file extension (including
// the leading dot, e.g. ".py").
func (r *Registry) For(ext string) (Provider, bool) {
	p, ok := r.byExtension[ext]
	return p, ok
}
