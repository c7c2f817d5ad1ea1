package replace

import (
	"regexp"
	"strings"

	"github.com/rahul1-bot/flux-mcp/internal/apierr"
)

var memberHeaderRe = regexp.MustCompile(`^\s*(async\s+)?def\s+(\w+)\s*\(`)

// checkMemberNameConsistency implements spec.md §4.8's
// "reflowed -> validated" method/class-name consistency check: a
// dotted-name replace must begin with `def <member>` or
// `async def <member>` where member matches the requested one.
func checkMemberNameConsistency(replacement, member string) *apierr.Error {
	header := firstLine(replacement)
	m := memberHeaderRe.FindStringSubmatch(header)
	if m == nil || m[2] != member {
		err := apierr.New(apierr.TypeIncompatible, "replacement does not define method "+strings.TrimSpace(member))
		return err
	}
	return nil
}
