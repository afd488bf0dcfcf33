package opt

import (
	"github.com/holiman/uint256"
	"github.com/tliron/commonlog"
	"vnopt/internal/ir"
)

// ConstantFolding evaluates integer instructions whose operands are all
// constants and replaces them with the result.
type ConstantFolding struct {
	options *Options
	stats   *Stats
	log     commonlog.Logger
}

func NewConstantFolding(options *Options, stats *Stats) *ConstantFolding {
	return &ConstantFolding{options: options, stats: stats, log: commonlog.GetLogger("vnopt.constfold")}
}

func (cf *ConstantFolding) Name() string { return "constfold" }

func (cf *ConstantFolding) Description() string {
	return "Evaluates constant integer arithmetic and comparisons at compile time"
}

func (cf *ConstantFolding) Apply(fn *ir.Function) (bool, error) {
	e := NewEliminator(fn, cf.Name(), cf.options, cf.stats)
	changed := false

	// Folding one instruction can make its users foldable; program order
	// visits them afterwards within a block, the outer loop catches the rest.
	for iteration := 0; ; iteration++ {
		if iteration >= cf.options.maxIterations() {
			return changed, ErrIterationLimit
		}
		roundChanged := false
		for _, inst := range fn.Instructions() {
			if inst.IsErased() {
				continue
			}
			result := Fold(fn.Module, inst)
			if result == nil {
				continue
			}

			ev := Event{Kind: EventFolded, Pass: cf.Name(), Function: fn.Name, Pos: inst.Pos, Replacement: result.Ref()}
			if cf.options.listening() || cf.log.AllowLevel(commonlog.Debug) {
				ev.Text = inst.String()
				cf.log.Debugf("folding %s to %s", ev.Text, ev.Replacement)
			}
			if inst.HasUses() {
				ir.ReplaceAllUsesWith(inst, result)
			}
			cf.stats.Folded++
			cf.options.notify(ev)

			e.Push(inst)
			e.Run()
			roundChanged = true
		}
		if !roundChanged {
			return changed, nil
		}
		changed = true
	}
}

// Fold returns the constant inst evaluates to, or nil when it cannot be
// folded. Division by zero, oversized shifts and signed operations are
// left alone.
func Fold(m *ir.Module, inst *ir.Instruction) *ir.Constant {
	bits := ir.IntBits(inst.Type())
	if inst.Op == ir.OpICmp {
		bits = ir.IntBits(operandType(inst))
	}
	if bits == 0 || inst.NumOperands() != 2 {
		return nil
	}

	x, ok := intOperand(inst, 0)
	if !ok {
		return nil
	}
	y, ok := intOperand(inst, 1)
	if !ok {
		return nil
	}

	if inst.Op == ir.OpICmp {
		result, ok := compare(inst.Pred, x, y)
		if !ok {
			return nil
		}
		if result {
			return m.True()
		}
		return m.False()
	}

	z := new(uint256.Int)
	switch inst.Op {
	case ir.OpAdd:
		z.Add(x, y)
	case ir.OpSub:
		z.Sub(x, y)
	case ir.OpMul:
		z.Mul(x, y)
	case ir.OpUDiv:
		if y.IsZero() {
			return nil
		}
		z.Div(x, y)
	case ir.OpURem:
		if y.IsZero() {
			return nil
		}
		z.Mod(x, y)
	case ir.OpAnd:
		z.And(x, y)
	case ir.OpOr:
		z.Or(x, y)
	case ir.OpXor:
		z.Xor(x, y)
	case ir.OpShl, ir.OpLShr:
		if !y.IsUint64() || y.Uint64() >= uint64(bits) {
			return nil
		}
		if inst.Op == ir.OpShl {
			z.Lsh(x, uint(y.Uint64()))
		} else {
			z.Rsh(x, uint(y.Uint64()))
		}
	default:
		return nil
	}
	return m.ConstFromUint256(inst.Type(), z)
}

func operandType(inst *ir.Instruction) ir.Type {
	if inst.NumOperands() == 0 || inst.Operand(0) == nil {
		return ir.Void
	}
	return inst.Operand(0).Type()
}

func intOperand(inst *ir.Instruction, n int) (*uint256.Int, bool) {
	c, ok := inst.Operand(n).(*ir.Constant)
	if !ok || !c.IsInt() {
		return nil, false
	}
	return c.Int(), true
}

func compare(pred ir.Predicate, x, y *uint256.Int) (bool, bool) {
	switch pred {
	case ir.ICmpEQ:
		return x.Eq(y), true
	case ir.ICmpNE:
		return !x.Eq(y), true
	case ir.ICmpUGT:
		return x.Gt(y), true
	case ir.ICmpUGE:
		return !x.Lt(y), true
	case ir.ICmpULT:
		return x.Lt(y), true
	case ir.ICmpULE:
		return !x.Gt(y), true
	}
	return false, false
}
