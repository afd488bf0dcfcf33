package repl

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestStartOptimizesEachChunk(t *testing.T) {
	color.NoColor = true
	input := `define i32 @f(i32 %a, i32 %b) {
entry:
  %x = add i32 %a, %b
  %y = add i32 %b, %a
  %z = mul i32 %x, %y
  ret i32 %z
}

define void @g() {
entry:
  ret void
}
`
	var out strings.Builder
	Start(strings.NewReader(input), &out)

	text := out.String()
	assert.Contains(t, text, "%z = mul i32 %x, %x")
	assert.NotContains(t, text, "%y = add")
	assert.Contains(t, text, "     1 redundant instructions replaced")
	assert.Contains(t, text, "nothing to optimize")
	assert.True(t, strings.HasPrefix(text, PROMPT))
}

func TestEvalReportsErrors(t *testing.T) {
	color.NoColor = true
	var out strings.Builder
	Eval(&out, "define i32 @f() {\nentry:\n  ret i32 %missing\n}\n")

	assert.Contains(t, out.String(), "E0001")
	assert.NotContains(t, out.String(), "define i32 @f")
}
