package opt

import (
	"github.com/oleiade/lane"
	"github.com/tliron/commonlog"
	"vnopt/internal/ir"
)

// IsInstructionDead reports whether inst may be erased right now without
// changing what the function computes.
func IsInstructionDead(inst *ir.Instruction) bool {
	if inst.HasUses() || inst.IsTerminator() || inst.IsLandingPad() {
		return false
	}

	// A debug marker whose described value was already cleared says nothing.
	if inst.Op == ir.OpCall && inst.Intrinsic.IsDebugMarker() {
		return inst.NumOperands() == 0 || inst.Operand(0) == nil
	}

	if !inst.MayHaveSideEffects() {
		return true
	}

	if inst.Op != ir.OpCall {
		return false
	}
	switch inst.Intrinsic {
	case ir.IntrinsicLifetimeStart, ir.IntrinsicLifetimeEnd:
		if inst.NumOperands() < 2 {
			return false
		}
		size, ok := inst.Operand(1).(*ir.Constant)
		return ok && size.IsUndef()
	case ir.IntrinsicStackSave:
		return !restoresStack(inst)
	case ir.IntrinsicAssume:
		if inst.NumOperands() < 1 {
			return false
		}
		cond, ok := inst.Operand(0).(*ir.Constant)
		return ok && cond.IsInt() && !cond.IsZero()
	}
	return false
}

// restoresStack reports whether a stackrestore consumes the pointer saved by inst.
func restoresStack(inst *ir.Instruction) bool {
	for _, user := range ir.Users(inst) {
		if user.Intrinsic == ir.IntrinsicStackRestore {
			return true
		}
	}
	return false
}

// Eliminator is the transitive deletion engine shared by the passes. It
// holds instruction IDs rather than pointers, so an entry whose
// instruction was erased in the meantime simply fails to resolve.
type Eliminator struct {
	fn       *ir.Function
	pass     string
	options  *Options
	stats    *Stats
	log      commonlog.Logger
	worklist *lane.Stack

	// OnErase runs just before an instruction is erased.
	OnErase func(*ir.Instruction)
}

func NewEliminator(fn *ir.Function, pass string, options *Options, stats *Stats) *Eliminator {
	return &Eliminator{
		fn:       fn,
		pass:     pass,
		options:  options,
		stats:    stats,
		log:      commonlog.GetLogger("vnopt." + pass),
		worklist: lane.NewStack(),
	}
}

// Push queues a deletion candidate.
func (e *Eliminator) Push(inst *ir.Instruction) {
	e.worklist.Push(inst.ID())
}

func (e *Eliminator) Pending() int { return e.worklist.Size() }

// Run drains the worklist and reports whether anything was erased.
func (e *Eliminator) Run() bool {
	removed := false
	for !e.worklist.Empty() {
		id := e.worklist.Pop().(ir.InstID)
		inst := e.fn.Lookup(id)
		if inst == nil {
			continue
		}
		if !IsInstructionDead(inst) {
			continue
		}
		e.erase(inst)
		removed = true
	}
	return removed
}

func (e *Eliminator) erase(inst *ir.Instruction) {
	var ev Event
	if e.options.listening() || e.log.AllowLevel(commonlog.Debug) {
		ev = Event{Kind: EventRemoved, Pass: e.pass, Function: e.fn.Name, Text: inst.String(), Pos: inst.Pos}
		e.log.Debugf("removing %s", ev.Text)
	}

	for n, op := range inst.Operands() {
		if op == nil {
			continue
		}
		inst.DropOperand(n)
		if opInst, ok := op.(*ir.Instruction); ok && !opInst.HasUses() {
			e.worklist.Push(opInst.ID())
		}
	}

	if e.OnErase != nil {
		e.OnErase(inst)
	}
	isLoad := inst.Op == ir.OpLoad
	inst.EraseFromParent()

	e.stats.Removed++
	if isLoad {
		e.stats.LoadsRemoved++
	}
	e.options.notify(ev)
}

// DeadInstructionElimination removes instructions whose results are unused
// and whose execution has no observable effect, following operand chains
// as they become unused.
type DeadInstructionElimination struct {
	options *Options
	stats   *Stats
}

func NewDeadInstructionElimination(options *Options, stats *Stats) *DeadInstructionElimination {
	return &DeadInstructionElimination{options: options, stats: stats}
}

func (d *DeadInstructionElimination) Name() string { return "die" }

func (d *DeadInstructionElimination) Description() string {
	return "Removes unused side-effect-free instructions and the operands they kept alive"
}

func (d *DeadInstructionElimination) Apply(fn *ir.Function) (bool, error) {
	e := NewEliminator(fn, d.Name(), d.options, d.stats)
	for _, inst := range fn.Instructions() {
		e.Push(inst)
	}
	return e.Run(), nil
}
