package errors

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func init() {
	color.NoColor = true
}

func TestErrorReporter(t *testing.T) {
	source := `define i32 @f(i32 %a) {
entry:
  %x = add i32 %a, %b
  ret i32 %x
}`

	reporter := NewErrorReporter("test.ll", source)

	err := UndefinedValue("%b", Position{Line: 3, Column: 20}, []string{"%a", "%x"})
	formatted := reporter.FormatError(err)

	assert.Contains(t, formatted, "error["+ErrorUndefinedValue+"]")
	assert.Contains(t, formatted, "use of undefined value '%b'")
	assert.Contains(t, formatted, "test.ll:3:20")
	assert.Contains(t, formatted, "did you mean one of")
	assert.Contains(t, formatted, "%x = add i32 %a, %b")
}

func TestUndefinedValueSuggestions(t *testing.T) {
	pos := Position{Line: 1, Column: 5}

	err := UndefinedValue("%sum", pos, []string{"%sun", "%other"})
	assert.Equal(t, ErrorUndefinedValue, err.Code)
	assert.Len(t, err.Suggestions, 1)
	assert.Contains(t, err.Suggestions[0].Message, "did you mean '%sun'")

	err = UndefinedValue("%zzz", pos, []string{"%abcdef"})
	assert.Empty(t, err.Suggestions)
	assert.NotEmpty(t, err.Notes)
}

func TestUnknownOpcodeSuggestion(t *testing.T) {
	err := UnknownOpcode("ad", Position{Line: 2, Column: 3}, []string{"add", "and", "xor"})
	assert.Equal(t, ErrorUnknownOpcode, err.Code)
	assert.NotEmpty(t, err.Suggestions)
}

func TestWarningFormatting(t *testing.T) {
	source := "  %y = add i32 %a, %b"
	reporter := NewErrorReporter("w.ll", source)

	err := RedundantInstruction("%y = add i32 %a, %b", "%x", Position{Line: 1, Column: 3})
	formatted := reporter.FormatError(err)

	assert.True(t, IsWarning(err.Code))
	assert.Contains(t, formatted, "warning["+WarningRedundantInstruction+"]")
	assert.Contains(t, formatted, "equivalent to %x")
	assert.True(t, strings.Contains(formatted, strings.Repeat("^", len("%y = add i32 %a, %b"))))
}

func TestCompilerErrorInterface(t *testing.T) {
	err := SyntaxError("unexpected token \"}\"", Position{Filename: "a.ll", Line: 4, Column: 1})
	assert.Equal(t, "a.ll:4:1: error[E0100]: unexpected token \"}\"", err.Error())

	var list List
	assert.NoError(t, list.Err())

	list = append(list, err, DuplicateDefinition("%x", Position{Line: 5, Column: 3}))
	assert.Error(t, list.Err())
	assert.Contains(t, list.Error(), "and 1 more errors")
}

func TestErrorCategories(t *testing.T) {
	assert.Equal(t, "Lowering", GetErrorCategory(ErrorUndefinedValue))
	assert.Equal(t, "Parser", GetErrorCategory(ErrorSyntax))
	assert.Equal(t, "Type System", GetErrorCategory(ErrorTypeMismatch))
	assert.Equal(t, "Verifier", GetErrorCategory(ErrorVerification))
	assert.Equal(t, "Optimizer", GetErrorCategory(ErrorIterationLimit))
	assert.Equal(t, "Optimization Hint", GetErrorCategory(WarningDeadInstruction))
	assert.Equal(t, "Unknown error code", GetErrorDescription("E9999"))
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, levenshteinDistance("add", "add"))
	assert.Equal(t, 1, levenshteinDistance("add", "and"))
	assert.Equal(t, 3, levenshteinDistance("", "abc"))
	assert.Equal(t, 3, levenshteinDistance("kitten", "sitting"))
}
