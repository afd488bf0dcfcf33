package opt

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"vnopt/internal/ir"
)

func TestFold(t *testing.T) {
	tests := []struct {
		name   string
		op     ir.Opcode
		typ    ir.Type
		x, y   uint64
		want   uint64
		folded bool
	}{
		{"add", ir.OpAdd, ir.I32, 2, 3, 5, true},
		{"add wraps", ir.OpAdd, ir.I8, 200, 100, 44, true},
		{"sub wraps", ir.OpSub, ir.I8, 1, 2, 255, true},
		{"mul", ir.OpMul, ir.I64, 1 << 40, 4, 1 << 42, true},
		{"udiv", ir.OpUDiv, ir.I32, 17, 5, 3, true},
		{"udiv by zero", ir.OpUDiv, ir.I32, 17, 0, 0, false},
		{"urem", ir.OpURem, ir.I32, 17, 5, 2, true},
		{"urem by zero", ir.OpURem, ir.I32, 17, 0, 0, false},
		{"and", ir.OpAnd, ir.I32, 0b1100, 0b1010, 0b1000, true},
		{"or", ir.OpOr, ir.I32, 0b1100, 0b1010, 0b1110, true},
		{"xor", ir.OpXor, ir.I32, 0b1100, 0b1010, 0b0110, true},
		{"shl truncates", ir.OpShl, ir.I8, 0x81, 1, 0x02, true},
		{"lshr", ir.OpLShr, ir.I32, 0x80, 4, 0x08, true},
		{"oversized shift", ir.OpShl, ir.I32, 1, 32, 0, false},
		{"signed division", ir.OpSDiv, ir.I32, 8, 2, 0, false},
		{"arithmetic shift", ir.OpAShr, ir.I32, 8, 2, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ir.NewModule("fold")
			fn := m.NewFunction("f", tt.typ)
			b := ir.NewBuilder(fn)
			b.SetInsertPoint(fn.NewBlock("entry"))
			inst := b.Binary(tt.op, "r", m.ConstInt(tt.typ, tt.x), m.ConstInt(tt.typ, tt.y))

			result := Fold(m, inst)
			if !tt.folded {
				assert.Nil(t, result)
				return
			}
			require.NotNil(t, result)
			assert.Same(t, m.ConstInt(tt.typ, tt.want), result)
		})
	}
}

func TestFoldComparisons(t *testing.T) {
	m := ir.NewModule("fold")
	fn := m.NewFunction("f", ir.Void)
	b := ir.NewBuilder(fn)
	b.SetInsertPoint(fn.NewBlock("entry"))
	three, five := m.ConstInt(ir.I32, 3), m.ConstInt(ir.I32, 5)

	assert.Same(t, m.True(), Fold(m, b.ICmp(ir.ICmpULT, "lt", three, five)))
	assert.Same(t, m.False(), Fold(m, b.ICmp(ir.ICmpUGE, "ge", three, five)))
	assert.Same(t, m.True(), Fold(m, b.ICmp(ir.ICmpNE, "ne", three, five)))
	assert.Same(t, m.True(), Fold(m, b.ICmp(ir.ICmpULE, "le", five, five)))
	assert.Nil(t, Fold(m, b.ICmp(ir.ICmpSLT, "slt", three, five)), "signed comparisons are not folded")
}

func TestFoldWideIntegers(t *testing.T) {
	m := ir.NewModule("fold")
	i128 := &ir.IntType{Bits: 128}
	fn := m.NewFunction("f", i128)
	b := ir.NewBuilder(fn)
	b.SetInsertPoint(fn.NewBlock("entry"))

	max64 := m.ConstInt(i128, ^uint64(0))
	sum := Fold(m, b.Add("sum", max64, m.ConstInt(i128, 1)))
	require.NotNil(t, sum)

	want := new(uint256.Int).Lsh(uint256.NewInt(1), 64)
	assert.Equal(t, want, sum.Int())
	assert.Equal(t, "18446744073709551616", sum.Ref())
}

func TestConstantFoldingPass(t *testing.T) {
	fn := parseFunction(t, `define i32 @f(i32 %a) {
entry:
  %x = add i32 2, 3
  %y = mul i32 %x, 4
  %c = icmp ugt i32 %y, 10
  %z = add i32 %a, %y
  %s = select i1 %c, i32 %z, i32 0
  ret i32 %s
}`)
	var folded []Event
	stats := &Stats{}
	cf := NewConstantFolding(&Options{OnReplace: func(ev Event) { folded = append(folded, ev) }}, stats)

	assert.True(t, applyPass(t, cf, fn))
	assert.Equal(t, []string{
		"%z = add i32 %a, 20",
		"%s = select i1 true, i32 %z, i32 0",
		"ret i32 %s",
	}, instructionTexts(fn))
	assert.Equal(t, 3, stats.Folded)
	assert.Equal(t, 3, stats.Removed)
	require.Len(t, folded, 3)
	assert.Equal(t, EventFolded, folded[0].Kind)
	assert.Equal(t, "5", folded[0].Replacement)

	assert.False(t, applyPass(t, cf, fn))
}
