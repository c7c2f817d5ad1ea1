package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnifiedNoChange(t *testing.T) {
	assert.Equal(t, "", Unified("same\n", "same\n", "f.py", 3))
}

func TestUnifiedBasic(t *testing.T) {
	from := "line1\nline2\nline3\n"
	to := "line1\nCHANGED\nline3\n"
	out := Unified(from, to, "f.py", 3)

	assert.Contains(t, out, "--- a/f.py")
	assert.Contains(t, out, "+++ b/f.py")
	assert.Contains(t, out, "-line2")
	assert.Contains(t, out, "+CHANGED")
}
