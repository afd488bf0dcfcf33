package opt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"vnopt/internal/ir"
	"vnopt/internal/parser"
)

func TestNewPipeline(t *testing.T) {
	p, err := NewPipeline(Options{})
	require.NoError(t, err)

	var names []string
	for _, pass := range p.Passes() {
		names = append(names, pass.Name())
		assert.NotEmpty(t, pass.Description())
	}
	assert.Equal(t, DefaultPasses, names)

	p, err = NewPipeline(Options{}, "die", " cse ")
	require.NoError(t, err)
	require.Len(t, p.Passes(), 2)
	assert.Equal(t, "cse", p.Passes()[1].Name())

	_, err = NewPipeline(Options{}, "gvn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown pass "gvn"`)
	assert.Contains(t, err.Error(), "constfold, cse, die")
}

func TestPipelineOnExamples(t *testing.T) {
	tests := []struct {
		path     string
		function string
		want     []string
	}{
		{
			path:     "../../examples/cse.ll",
			function: "commuted",
			want: []string{
				"%1 = add i32 %a, %b",
				"%3 = mul i32 %1, %c",
				"call void @use(i32 %1)",
				"ret i32 %3",
			},
		},
		{
			path:     "../../examples/cse.ll",
			function: "swapped",
			want: []string{
				"%lt = icmp slt i32 %a, %b",
				"%both = and i1 %lt, %lt",
				"ret i1 %both",
			},
		},
		{
			path:     "../../examples/dce.ll",
			function: "f",
			want: []string{
				"%p = alloca i32",
				"call void @llvm.lifetime.start(ptr %p, i64 8)",
				"store i32 %a, ptr %p",
				"%kept = load volatile i32, ptr %p",
				"call void @llvm.lifetime.end(ptr %p, i64 8)",
				"ret i32 %kept",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.path+"/"+tt.function, func(t *testing.T) {
			result, err := parser.ParseFile(tt.path)
			require.NoError(t, err)
			require.Empty(t, result.Errors)

			p, err := NewPipeline(Options{VerifyEachPass: true})
			require.NoError(t, err)
			changed, err := p.Run(result.Module)
			require.NoError(t, err)
			assert.True(t, changed)

			fn := result.Module.Function(tt.function)
			require.NotNil(t, fn)
			assert.Equal(t, tt.want, instructionTexts(fn))
		})
	}
}

func TestPipelineLoopExample(t *testing.T) {
	result, err := parser.ParseFile("../../examples/loop.ll")
	require.NoError(t, err)

	p, err := NewPipeline(Options{VerifyEachPass: true})
	require.NoError(t, err)
	changed, err := p.Run(result.Module)
	require.NoError(t, err)
	assert.True(t, changed)

	stats := p.Stats()
	assert.Equal(t, 1, stats.Replaced)
	assert.Equal(t, 1, stats.Removed)
	assert.Contains(t, ir.Print(result.Module), "%t = add i64 %sq1, %sq1")

	changed, err = p.Run(result.Module)
	require.NoError(t, err)
	assert.False(t, changed, "a second run finds nothing left to do")
}

func TestPipelineCollectsEvents(t *testing.T) {
	m := parseModule(t, `define i32 @f(i32 %a) {
entry:
  %k = add i32 1, 1
  %x = add i32 %a, %k
  %y = add i32 %k, %a
  %dead = mul i32 %x, %y
  ret i32 %y
}`)
	var kinds []EventKind
	options := Options{
		OnRemove:  func(ev Event) { kinds = append(kinds, ev.Kind) },
		OnReplace: func(ev Event) { kinds = append(kinds, ev.Kind) },
	}
	p, err := NewPipeline(options)
	require.NoError(t, err)

	changed, err := p.RunFunction(m.Function("f"))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []EventKind{EventFolded, EventRemoved, EventReplaced, EventRemoved, EventRemoved}, kinds)
	assert.Equal(t, []string{"%x = add i32 %a, 2", "ret i32 %x"}, instructionTexts(m.Function("f")))

	stats := p.Stats()
	assert.Equal(t, Stats{Removed: 3, Replaced: 1, Folded: 1}, stats)
}

func TestPipelineVerificationFailure(t *testing.T) {
	m := ir.NewModule("broken")
	fn := m.NewFunction("f", ir.Void)
	b := ir.NewBuilder(fn)
	b.SetInsertPoint(fn.NewBlock("entry"))
	b.Add("x", m.ConstInt(ir.I32, 1), m.ConstInt(ir.I32, 2))
	// no terminator

	p, err := NewPipeline(Options{VerifyEachPass: true}, "cse")
	require.NoError(t, err)
	_, err = p.Run(m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verification failed after cse on @f")
}

func TestStats(t *testing.T) {
	var total Stats
	assert.True(t, total.IsZero())
	total.Add(Stats{Removed: 2, LoadsRemoved: 1})
	total.Add(Stats{Removed: 1, Replaced: 4, Folded: 2})

	assert.Equal(t, Stats{Removed: 3, LoadsRemoved: 1, Replaced: 4, Folded: 2}, total)
	assert.Contains(t, total.String(), "     3 instructions removed")
	assert.Contains(t, total.String(), "     4 redundant instructions replaced")
	assert.Equal(t, "removed", EventRemoved.String())
	assert.Equal(t, "folded", EventFolded.String())
}
