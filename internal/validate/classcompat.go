package validate

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	classHeaderRe = regexp.MustCompile(`^\s*class\s+\w+\s*(\(([^)]*)\))?\s*:`)
	typedAttrRe   = regexp.MustCompile(`(?m)^[ \t]+(?:self\.)?(\w+)\s*:\s*([^\s=]+)`)
)

func parseBases(classHeader string) []string {
	m := classHeaderRe.FindStringSubmatch(classHeader)
	if m == nil {
		return nil
	}
	var bases []string
	for _, raw := range splitTopLevelCommas(m[2]) {
		name := strings.TrimSpace(raw)
		if name != "" && name != "object" {
			bases = append(bases, name)
		}
	}
	return bases
}

// typedAttributes collects name -> type-annotation for every annotated
// assignment in a class body, whether a class-level attribute
// (`x: int`) or an instance attribute set in a method (`self.x: int`).
func typedAttributes(classBody string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range typedAttrRe.FindAllStringSubmatch(classBody, -1) {
		attrs[m[1]] = strings.TrimSpace(m[2])
	}
	return attrs
}

// Classes implements spec.md §4.7's class compatibility check: warns on
// removed base classes and removed typed class attributes. Both are
// warnings only, never critical, per spec.md's wording.
func Classes(originalHeader, originalBody, replacementHeader, replacementBody string) []string {
	var warnings []string

	newBases := make(map[string]bool)
	for _, b := range parseBases(replacementHeader) {
		newBases[b] = true
	}
	for _, b := range parseBases(originalHeader) {
		if !newBases[b] {
			warnings = append(warnings, fmt.Sprintf("base class %q was removed", b))
		}
	}

	newAttrs := typedAttributes(replacementBody)
	for name := range typedAttributes(originalBody) {
		if _, ok := newAttrs[name]; !ok {
			warnings = append(warnings, fmt.Sprintf("typed attribute %q was removed", name))
		}
	}

	return warnings
}
