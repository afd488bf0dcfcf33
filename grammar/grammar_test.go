package grammar_test

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"vnopt/grammar"
)

func TestCSEExample(t *testing.T) {
	module, err := grammar.ParseFile(`../examples/cse.ll`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	assert.NotNil(t, module)
	assert.Equal(t, 3, len(module.Entries))

	decl := module.Entries[0].Declare
	require.NotNil(t, decl)
	assert.Equal(t, "@use", decl.Name)
	assert.Equal(t, "void", decl.ReturnType.Name)
	assert.Equal(t, 1, len(decl.Params))

	fn := module.Entries[1].Function
	require.NotNil(t, fn)
	assert.Equal(t, "@commuted", fn.Name)
	assert.Equal(t, 3, len(fn.Params))
	assert.Equal(t, "%c", fn.Params[2].Name)
	require.Equal(t, 1, len(fn.Blocks))

	block := fn.Blocks[0]
	assert.Equal(t, "entry:", block.Label)
	require.Equal(t, 5, len(block.Instrs))

	add := block.Instrs[1]
	assert.Equal(t, "%2", add.Result)
	assert.Equal(t, "add", add.Opcode)
	assert.Equal(t, "i32", add.Type.Name)
	require.Equal(t, 2, len(add.Operands))
	assert.Equal(t, "%b", *add.Operands[0].Value.Local)
	assert.Equal(t, "%a", *add.Operands[1].Value.Local)

	call := block.Instrs[3]
	assert.Equal(t, "", call.Result)
	require.NotNil(t, call.Call)
	assert.Equal(t, "@use", call.Call.Callee)
	assert.Equal(t, "i32", call.Call.Args[0].Type.Name)

	cmp := module.Entries[2].Function.Blocks[0].Instrs[1]
	assert.Equal(t, "icmp", cmp.Opcode)
	assert.Equal(t, []string{"sgt"}, cmp.Flags)
}

func TestDCEExample(t *testing.T) {
	module, err := grammar.ParseFile(`../examples/dce.ll`)
	require.NoError(t, err)

	fn := module.Entries[len(module.Entries)-1].Function
	require.NotNil(t, fn)
	instrs := fn.Blocks[0].Instrs

	alloca := instrs[0]
	assert.Equal(t, "alloca", alloca.Opcode)
	assert.Equal(t, "i32", alloca.Type.Name)
	assert.Empty(t, alloca.Operands)

	load := instrs[6]
	assert.Equal(t, "load", load.Opcode)
	assert.Equal(t, []string{"volatile"}, load.Flags)
	assert.Equal(t, "ptr", load.Operands[0].Type.Name)

	dbg := instrs[7]
	require.NotNil(t, dbg.Call)
	assert.Equal(t, "metadata", dbg.Call.Args[0].Type.Name)
	assert.Equal(t, "none", *dbg.Call.Args[0].Value.Keyword)

	lifetime := instrs[10]
	assert.Equal(t, "@llvm.lifetime.end", lifetime.Call.Callee)
	assert.Equal(t, "undef", *lifetime.Call.Args[1].Value.Keyword)
}

func TestLoopExample(t *testing.T) {
	module, err := grammar.ParseFile(`../examples/loop.ll`)
	require.NoError(t, err)

	global := module.Entries[0].Global
	require.NotNil(t, global)
	assert.Equal(t, "@counter", global.Name)
	assert.Equal(t, "i64", global.Type.Name)

	fn := module.Entries[1].Function
	require.Equal(t, 3, len(fn.Blocks))

	loop := fn.Blocks[1]
	assert.Equal(t, "loop:", loop.Label)
	phi := loop.Instrs[0]
	assert.Equal(t, "phi", phi.Opcode)
	require.Equal(t, 2, len(phi.Operands))
	assert.Equal(t, "0", *phi.Operands[0].Phi.Value.Integer)
	assert.Equal(t, "%entry", phi.Operands[0].Phi.Block)
	assert.Equal(t, "%loop", phi.Operands[1].Phi.Block)

	br := loop.Instrs[len(loop.Instrs)-1]
	assert.Equal(t, "br", br.Opcode)
	assert.Equal(t, "i1", br.Type.Name)
	assert.Equal(t, "label", br.Operands[1].Type.Name)
	assert.Equal(t, "%exit", *br.Operands[1].Value.Local)
}

func TestAggregateTypes(t *testing.T) {
	source := `define i32 @agg(<4 x i32> %v, [2 x i64] %arr) {
entry:
  %s = insertvalue {i32, [2 x i64]} undef, [2 x i64] %arr, 1
  %e = extractvalue {i32, [2 x i64]} %s, 1, 0
  %z = zext i32 %x to i64 ; trailing comment
  ret i32 0
}`
	module, err := grammar.ParseString("agg.ll", source)
	require.NoError(t, err)

	fn := module.Entries[0].Function
	vec := fn.Params[0].Type.Vector
	require.NotNil(t, vec)
	assert.Equal(t, 4, vec.Len)
	assert.Equal(t, "i32", vec.Elem.Name)

	arr := fn.Params[1].Type.Array
	require.NotNil(t, arr)
	assert.Equal(t, 2, arr.Len)

	instrs := fn.Blocks[0].Instrs
	insert := instrs[0]
	require.NotNil(t, insert.Type.Struct)
	assert.Equal(t, 2, len(insert.Type.Struct.Fields))
	assert.NotNil(t, insert.Operands[1].Type.Array)
	assert.Equal(t, "1", *insert.Operands[2].Value.Integer)

	extract := instrs[1]
	assert.Equal(t, 3, len(extract.Operands))

	zext := instrs[2]
	require.NotNil(t, zext.To)
	assert.Equal(t, "i64", zext.To.Name)
}

func TestSyntaxError(t *testing.T) {
	color.NoColor = true
	source := "define i32 @f() {\nentry:\n  %x = add i32 %a,\n}\n"

	_, err := grammar.ParseString("bad.ll", source)
	require.Error(t, err)

	var out bytes.Buffer
	grammar.ReportParseError(&out, source, err)
	assert.Contains(t, out.String(), "Syntax error in bad.ll at line 3")
	assert.Contains(t, out.String(), "%x = add i32 %a,")
	assert.Contains(t, out.String(), "^")
}
