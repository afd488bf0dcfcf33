package opt

import (
	"testing"

	"github.com/stretchr/testify/require"
	"vnopt/internal/ir"
	"vnopt/internal/parser"
)

func parseModule(t *testing.T, source string) *ir.Module {
	t.Helper()
	result := parser.ParseSource("test.ll", source)
	require.Empty(t, result.Errors, "unexpected errors: %v", result.Errors)
	require.NoError(t, ir.VerifyModule(result.Module))
	return result.Module
}

// parseFunction parses source and returns its only function.
func parseFunction(t *testing.T, source string) *ir.Function {
	t.Helper()
	m := parseModule(t, source)
	require.Len(t, m.Functions, 1)
	return m.Functions[0]
}

func applyPass(t *testing.T, pass Pass, fn *ir.Function) bool {
	t.Helper()
	changed, err := pass.Apply(fn)
	require.NoError(t, err)
	require.NoError(t, ir.Verify(fn), "IR broken after %s:\n%s", pass.Name(), ir.PrintFunction(fn))
	return changed
}

func newDIE() (*DeadInstructionElimination, *Stats) {
	stats := &Stats{}
	return NewDeadInstructionElimination(&Options{}, stats), stats
}

func newCSE() (*CommonSubexpressionElimination, *Stats) {
	stats := &Stats{}
	return NewCommonSubexpressionElimination(&Options{}, stats), stats
}

func instructionTexts(fn *ir.Function) []string {
	var texts []string
	for _, inst := range fn.Instructions() {
		texts = append(texts, inst.String())
	}
	return texts
}
