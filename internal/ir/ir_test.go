package ir

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFunction() (*Module, *Function, *Builder) {
	m := NewModule("test")
	fn := m.NewFunction("f", I32, NewArgument("a", I32), NewArgument("b", I32))
	b := NewBuilder(fn)
	b.SetInsertPoint(fn.NewBlock("entry"))
	return m, fn, b
}

func TestConstantsAreUniqued(t *testing.T) {
	m := NewModule("consts")

	assert.Same(t, m.ConstInt(I32, 7), m.ConstInt(I32, 7))
	assert.NotSame(t, m.ConstInt(I32, 7), m.ConstInt(I64, 7))
	assert.Same(t, m.Undef(I64), m.Undef(I64))
	assert.NotSame(t, m.Undef(I64), m.ConstInt(I64, 0))
	assert.Same(t, m.True(), m.ConstInt(I1, 3), "i1 constants are truncated")

	wide := new(uint256.Int).Lsh(uint256.NewInt(1), 40)
	wide.AddUint64(wide, 5)
	assert.Same(t, m.ConstInt(I32, 5), m.ConstFromUint256(I32, wide))
}

func TestConstantRefs(t *testing.T) {
	m := NewModule("consts")

	assert.Equal(t, "42", m.ConstInt(I32, 42).Ref())
	assert.Equal(t, "true", m.True().Ref())
	assert.Equal(t, "false", m.False().Ref())
	assert.Equal(t, "undef", m.Undef(I32).Ref())
	assert.Equal(t, "null", m.Null().Ref())

	assert.True(t, m.Null().IsZero())
	assert.True(t, m.ConstInt(I8, 256).IsZero())
	v, ok := m.ConstInt(I64, 99).Uint64()
	assert.True(t, ok)
	assert.Equal(t, uint64(99), v)
}

func TestUseTracking(t *testing.T) {
	_, fn, b := newTestFunction()
	a, bb := fn.Args[0], fn.Args[1]

	x := b.Add("x", a, bb)
	y := b.Mul("y", x, x)
	b.Ret(y)

	assert.Equal(t, 1, a.NumUses())
	assert.Equal(t, 2, x.NumUses())
	assert.Equal(t, []*Instruction{y}, Users(x))

	y.SetOperand(1, a)
	assert.Equal(t, 1, x.NumUses())
	assert.Equal(t, 2, a.NumUses())

	y.DropOperand(0)
	assert.Equal(t, 0, x.NumUses())
	assert.Nil(t, y.Operand(0))
	assert.True(t, y.OperandUses()[0].IsDetached())
	assert.Equal(t, 2, y.NumOperands(), "dropping keeps the slot")
}

func TestReplaceAllUsesWith(t *testing.T) {
	_, fn, b := newTestFunction()
	a, bb := fn.Args[0], fn.Args[1]

	x := b.Add("x", a, bb)
	y := b.Add("y", bb, a)
	z := b.Mul("z", y, y)
	b.Ret(z)

	ReplaceAllUsesWith(y, x)

	assert.False(t, y.HasUses())
	assert.Equal(t, 2, x.NumUses())
	assert.Same(t, x, z.Operand(0))
	assert.Same(t, x, z.Operand(1))
	require.NoError(t, Verify(fn))

	assert.Panics(t, func() { ReplaceAllUsesWith(x, x) })
	c := b.Cast(OpZExt, "c", a, I64)
	assert.Panics(t, func() { ReplaceAllUsesWith(c, a) }, "type-changing replacement")
}

func TestEraseFromParent(t *testing.T) {
	_, fn, b := newTestFunction()
	a, bb := fn.Args[0], fn.Args[1]

	x := b.Add("x", a, bb)
	y := b.Add("y", x, a)
	ret := b.Ret(a)

	assert.Panics(t, func() { x.EraseFromParent() }, "x is still used by y")

	id := y.ID()
	assert.Same(t, y, fn.Lookup(id))
	y.EraseFromParent()

	assert.True(t, y.IsErased())
	assert.Nil(t, fn.Lookup(id))
	assert.False(t, x.HasUses(), "erasing drops operands")
	assert.Equal(t, 2, a.NumUses(), "x and ret still use a")
	assert.Equal(t, []*Instruction{x, ret}, fn.Entry().Instructions())

	assert.Panics(t, func() { y.EraseFromParent() })
	require.NoError(t, Verify(fn))
}

func TestStaleHandlesAfterSlotReuse(t *testing.T) {
	_, fn, b := newTestFunction()
	a := fn.Args[0]

	x := b.Add("x", a, a)
	old := x.ID()
	x.EraseFromParent()

	y := b.Add("y", a, a)
	assert.Equal(t, old.index, y.ID().index, "slot is recycled")
	assert.NotEqual(t, old, y.ID())
	assert.Nil(t, fn.Lookup(old))
	assert.Same(t, y, fn.Lookup(y.ID()))
	assert.Nil(t, fn.Lookup(InstID{}))
}

func TestBlockSnapshotIsStable(t *testing.T) {
	_, fn, b := newTestFunction()
	a := fn.Args[0]

	for i := 0; i < 4; i++ {
		b.Add("", a, a)
	}
	b.Ret(a)

	visited := 0
	for _, inst := range fn.Entry().Instructions() {
		visited++
		if inst.Op == OpAdd {
			inst.EraseFromParent()
		}
	}
	assert.Equal(t, 5, visited)
	assert.Equal(t, 1, fn.Entry().Len())
	assert.Equal(t, OpRet, fn.Entry().Terminator().Op)
}

func TestInsertBefore(t *testing.T) {
	_, fn, b := newTestFunction()
	a := fn.Args[0]
	ret := b.Ret(a)

	x := NewInstruction(OpAdd, I32, "x")
	x.AddOperand(a)
	x.AddOperand(a)
	fn.Entry().InsertBefore(x, ret)

	assert.Equal(t, []*Instruction{x, ret}, fn.Entry().Instructions())
	assert.Same(t, fn.Entry(), x.Parent())
	assert.Same(t, fn, x.Function())
}

func TestModuleLookup(t *testing.T) {
	m := NewModule("lookup")
	g := m.NewGlobal("counter", I64)
	d := m.Declare("ext", I32, I32, Ptr)
	fn := m.NewFunction("main", Void)

	assert.Same(t, g, m.Global("counter"))
	assert.Same(t, d, m.Declaration("ext"))
	assert.Same(t, fn, m.Function("main"))
	assert.Nil(t, m.Function("missing"))
	assert.Equal(t, "@counter", g.Ref())
	assert.Equal(t, Ptr, g.Type())
}

func TestSuccessors(t *testing.T) {
	m, fn, b := newTestFunction()
	then := fn.NewBlock("then")
	els := fn.NewBlock("else")

	b.CondBr(m.True(), then, els)
	assert.Equal(t, []*BasicBlock{then, els}, fn.Entry().Successors())
	assert.Nil(t, then.Successors())
	assert.Same(t, then, fn.Block("then"))
}
