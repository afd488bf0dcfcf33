package opt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"vnopt/internal/ir"
)

type tableFixture struct {
	m       *ir.Module
	b       *ir.Builder
	x, y, z *ir.Argument
}

func newTableFixture() *tableFixture {
	m := ir.NewModule("vt")
	x, y, z := ir.NewArgument("x", ir.I32), ir.NewArgument("y", ir.I32), ir.NewArgument("z", ir.I32)
	fn := m.NewFunction("f", ir.Void, x, y, z)
	b := ir.NewBuilder(fn)
	b.SetInsertPoint(fn.NewBlock("entry"))
	return &tableFixture{m: m, b: b, x: x, y: y, z: z}
}

func TestValueTableNumbersExternalValuesFreshly(t *testing.T) {
	f := newTableFixture()
	vt := NewValueTable()

	assert.Equal(t, uint32(1), vt.NextValueNumber())
	assert.Equal(t, uint32(1), vt.LookupOrAdd(f.x))
	assert.Equal(t, uint32(2), vt.LookupOrAdd(f.y))
	assert.Equal(t, uint32(1), vt.LookupOrAdd(f.x))

	seven := f.m.ConstInt(ir.I32, 7)
	n := vt.LookupOrAdd(seven)
	assert.Equal(t, uint32(3), n)
	assert.Equal(t, n, vt.LookupOrAdd(f.m.ConstInt(ir.I32, 7)), "constants are uniqued")
	assert.NotEqual(t, n, vt.LookupOrAdd(f.m.ConstInt(ir.I64, 7)))
	assert.Equal(t, uint32(5), vt.NextValueNumber())
}

func TestValueTableCommutativeOperands(t *testing.T) {
	f := newTableFixture()
	vt := NewValueTable()

	xy := f.b.Add("xy", f.x, f.y)
	yx := f.b.Add("yx", f.y, f.x)
	assert.Equal(t, vt.LookupOrAdd(xy), vt.LookupOrAdd(yx))

	mulXY := f.b.Mul("mxy", f.x, f.y)
	assert.NotEqual(t, vt.LookupOrAdd(xy), vt.LookupOrAdd(mulXY), "opcode is part of the key")

	subXY := f.b.Sub("sxy", f.x, f.y)
	subYX := f.b.Sub("syx", f.y, f.x)
	assert.NotEqual(t, vt.LookupOrAdd(subXY), vt.LookupOrAdd(subYX), "sub is not commutative")
}

func TestValueTableSwappedComparisons(t *testing.T) {
	f := newTableFixture()
	vt := NewValueTable()

	lt := f.b.ICmp(ir.ICmpSLT, "lt", f.x, f.y)
	gt := f.b.ICmp(ir.ICmpSGT, "gt", f.y, f.x)
	same := f.b.ICmp(ir.ICmpSGT, "same", f.x, f.y)
	ule := f.b.ICmp(ir.ICmpULE, "ule", f.x, f.y)
	uge := f.b.ICmp(ir.ICmpUGE, "uge", f.y, f.x)
	eq := f.b.ICmp(ir.ICmpEQ, "eq", f.y, f.x)
	eq2 := f.b.ICmp(ir.ICmpEQ, "eq2", f.x, f.y)

	assert.Equal(t, vt.LookupOrAdd(lt), vt.LookupOrAdd(gt))
	assert.NotEqual(t, vt.LookupOrAdd(lt), vt.LookupOrAdd(same))
	assert.Equal(t, vt.LookupOrAdd(ule), vt.LookupOrAdd(uge))
	assert.Equal(t, vt.LookupOrAdd(eq), vt.LookupOrAdd(eq2))
	assert.NotEqual(t, vt.LookupOrAdd(ule), vt.LookupOrAdd(lt), "predicate is part of the key")
}

func TestValueTableTypeAndIndicesMatter(t *testing.T) {
	m := ir.NewModule("vt")
	agg := ir.NewArgument("agg", &ir.StructType{Fields: []ir.Type{ir.I32, ir.I32}})
	p := ir.NewArgument("p", ir.Ptr)
	i := ir.NewArgument("i", ir.I64)
	fn := m.NewFunction("f", ir.Void, agg, p, i)
	b := ir.NewBuilder(fn)
	b.SetInsertPoint(fn.NewBlock("entry"))
	vt := NewValueTable()

	first := b.ExtractValue("f0", agg, 0)
	again := b.ExtractValue("f0again", agg, 0)
	second := b.ExtractValue("f1", agg, 1)
	assert.Equal(t, vt.LookupOrAdd(first), vt.LookupOrAdd(again))
	assert.NotEqual(t, vt.LookupOrAdd(first), vt.LookupOrAdd(second))

	gep32 := b.GEP("g32", ir.I32, p, i)
	gep32again := b.GEP("g32again", ir.I32, p, i)
	gep64 := b.GEP("g64", ir.I64, p, i)
	assert.Equal(t, vt.LookupOrAdd(gep32), vt.LookupOrAdd(gep32again))
	assert.NotEqual(t, vt.LookupOrAdd(gep32), vt.LookupOrAdd(gep64), "source element type is part of the key")
}

func TestValueTableUnrecognizedInstructionsAreFresh(t *testing.T) {
	f := newTableFixture()
	vt := NewValueTable()
	p := f.b.Alloca("p", ir.I32)

	load1 := f.b.Load("l1", ir.I32, p)
	load2 := f.b.Load("l2", ir.I32, p)
	call1 := f.b.Call("c1", ir.I32, "ext", f.x)
	call2 := f.b.Call("c2", ir.I32, "ext", f.x)
	zext1 := f.b.Cast(ir.OpZExt, "w1", f.x, ir.I64)
	zext2 := f.b.Cast(ir.OpZExt, "w2", f.x, ir.I64)

	assert.NotEqual(t, vt.LookupOrAdd(load1), vt.LookupOrAdd(load2))
	assert.NotEqual(t, vt.LookupOrAdd(call1), vt.LookupOrAdd(call2))
	assert.NotEqual(t, vt.LookupOrAdd(zext1), vt.LookupOrAdd(zext2))
}

func TestValueTableEraseAndClear(t *testing.T) {
	f := newTableFixture()
	vt := NewValueTable()
	xy := f.b.Add("xy", f.x, f.y)
	yx := f.b.Add("yx", f.y, f.x)

	n := vt.LookupOrAdd(xy)
	vt.Erase(xy)
	_, ok := vt.Lookup(xy)
	assert.False(t, ok)
	assert.Equal(t, n, vt.LookupOrAdd(yx), "erasing a value keeps its expression number")

	vt.Clear()
	assert.Zero(t, vt.Len())
	assert.Equal(t, uint32(1), vt.NextValueNumber())
	assert.Equal(t, uint32(1), vt.LookupOrAdd(f.z))
}

func TestExpressionSentinels(t *testing.T) {
	assert.True(t, Expression{Opcode: EmptyOpcode}.IsSentinel())
	assert.True(t, Expression{Opcode: TombstoneOpcode}.IsSentinel())
	assert.False(t, Expression{Opcode: uint32(ir.OpAdd)}.IsSentinel())
	assert.NotEqual(t, EmptyOpcode, TombstoneOpcode)

	// Encoded comparisons stay far below the reserved range.
	assert.Less(t, uint32(ir.OpFCmp)<<8|uint32(ir.FCmpTrue), TombstoneOpcode)
}

func TestValueTableDump(t *testing.T) {
	f := newTableFixture()
	vt := NewValueTable()
	vt.LookupOrAdd(f.b.Add("xy", f.x, f.y))

	dump := vt.Dump()
	assert.Contains(t, dump, `"%x"`)
	assert.Contains(t, dump, `"%xy"`)
}
