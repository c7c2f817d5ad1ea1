package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rahul1-bot/flux-mcp/internal/apierr"
)

// defHeaderRe mirrors internal/langparse/metadata.go's header pattern.
// Duplicated rather than imported because validate needs the raw
// parameter list (defaults, annotations) that langparse.Metadata
// deliberately discards once it reduces parameters to bare names.
var defHeaderRe = regexp.MustCompile(`^\s*(async\s+)?def\s+\w+\s*\(([^)]*)\)\s*(->\s*([^:]+))?\s*:`)

type parameter struct {
	name     string
	typeAnn  string
	required bool
}

func parseSignature(headerLine string) (params []parameter, returnAnnotation string) {
	m := defHeaderRe.FindStringSubmatch(headerLine)
	if m == nil {
		return nil, ""
	}
	returnAnnotation = strings.TrimSpace(m[4])

	for _, raw := range splitTopLevelCommas(m[2]) {
		p := strings.TrimSpace(raw)
		p = strings.TrimLeft(p, "*")
		if p == "" {
			continue
		}

		required := !strings.Contains(p, "=")
		if eq := strings.Index(p, "="); eq >= 0 {
			p = p[:eq]
		}

		name := strings.TrimSpace(p)
		typeAnn := ""
		if colon := strings.Index(name, ":"); colon >= 0 {
			typeAnn = strings.TrimSpace(name[colon+1:])
			name = strings.TrimSpace(name[:colon])
		}

		if name == "" || name == "self" || name == "cls" {
			continue
		}
		params = append(params, parameter{name: name, typeAnn: typeAnn, required: required})
	}
	return params, returnAnnotation
}

// splitTopLevelCommas splits on commas not nested inside brackets/parens.
func splitTopLevelCommas(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// Signatures implements spec.md §4.7's signature compatibility check:
// warns on removed non-self/cls parameters, added required parameters,
// return-type annotation changes, and parameter-type annotation
// changes. A removed parameter or an added required parameter is
// "critical and may be configured to abort" — surfaced as a
// TypeIncompatible error only when abortOnBreakingChange is set.
func Signatures(originalHeader, replacementHeader string, abortOnBreakingChange bool) (warnings []string, critical *apierr.Error) {
	origParams, origReturn := parseSignature(originalHeader)
	newParams, newReturn := parseSignature(replacementHeader)

	origByName := make(map[string]parameter, len(origParams))
	for _, p := range origParams {
		origByName[p.name] = p
	}
	newByName := make(map[string]parameter, len(newParams))
	for _, p := range newParams {
		newByName[p.name] = p
	}

	breaking := false

	for _, p := range origParams {
		if _, ok := newByName[p.name]; !ok {
			warnings = append(warnings, fmt.Sprintf("parameter %q was removed", p.name))
			breaking = true
		}
	}
	for _, p := range newParams {
		if _, ok := origByName[p.name]; !ok && p.required {
			warnings = append(warnings, fmt.Sprintf("required parameter %q was added", p.name))
			breaking = true
		}
	}

	if origReturn != "" && newReturn != "" && origReturn != newReturn {
		warnings = append(warnings, fmt.Sprintf("return annotation changed from %q to %q", origReturn, newReturn))
	}
	for name, op := range origByName {
		np, ok := newByName[name]
		if ok && op.typeAnn != "" && np.typeAnn != "" && op.typeAnn != np.typeAnn {
			warnings = append(warnings, fmt.Sprintf("parameter %q type annotation changed from %q to %q", name, op.typeAnn, np.typeAnn))
		}
	}

	if breaking && abortOnBreakingChange {
		critical = apierr.New(apierr.TypeIncompatible, "signature change removes a parameter or adds a required parameter")
	}
	return warnings, critical
}
