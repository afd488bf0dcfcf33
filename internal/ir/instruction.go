package ir

import (
	"fmt"
	"slices"
)

// Instruction is a single operation inside a basic block. Opcode-specific
// attributes live in plain fields; the operand list is kept private so that
// every change goes through the use-tracking mutators.
type Instruction struct {
	valueBase

	Op   Opcode
	Pred Predicate
	// Indices of extractvalue and insertvalue.
	Indices []uint32
	// Load and store qualifiers.
	Volatile bool
	Atomic   bool
	// Callee of a call; Intrinsic is derived from it.
	Callee    string
	Intrinsic Intrinsic
	// ElemType is the allocated type of an alloca and the source element
	// type of a getelementptr.
	ElemType Type
	// Incoming blocks of a phi, parallel to its operands.
	Incoming []*BasicBlock
	// Targets of a branch.
	Targets []*BasicBlock
	Pos     Position

	parent   *BasicBlock
	operands []*Use
	id       InstID
	erased   bool
}

// NewInstruction creates a detached instruction producing a value of type t.
// Operands are appended with AddOperand; the instruction becomes part of the
// IR once appended to a block.
func NewInstruction(op Opcode, t Type, name string) *Instruction {
	return &Instruction{valueBase: valueBase{name: name, typ: t}, Op: op}
}

func (i *Instruction) Ref() string {
	if i.name == "" {
		return fmt.Sprintf("%%.t%d", i.id.index)
	}
	return "%" + i.name
}

func (i *Instruction) SetName(name string) { i.name = name }

func (i *Instruction) ID() InstID          { return i.id }
func (i *Instruction) Parent() *BasicBlock { return i.parent }
func (i *Instruction) IsErased() bool      { return i.erased }

func (i *Instruction) Function() *Function {
	if i.parent == nil {
		return nil
	}
	return i.parent.Parent
}

func (i *Instruction) IsTerminator() bool { return i.Op.IsTerminator() }
func (i *Instruction) IsLandingPad() bool { return i.Op == OpLandingPad }
func (i *Instruction) IsPhi() bool        { return i.Op == OpPhi }

// IsSimpleLoad reports whether i is a load that is neither volatile nor atomic.
func (i *Instruction) IsSimpleLoad() bool {
	return i.Op == OpLoad && !i.Volatile && !i.Atomic
}

func (i *Instruction) NumOperands() int { return len(i.operands) }

// Operand returns the value in slot n, or nil if the slot has been detached.
func (i *Instruction) Operand(n int) Value { return i.operands[n].val }

// Operands returns the operand values; detached slots are nil.
func (i *Instruction) Operands() []Value {
	vals := make([]Value, len(i.operands))
	for n, u := range i.operands {
		vals[n] = u.val
	}
	return vals
}

// OperandUses returns a snapshot of the operand slots.
func (i *Instruction) OperandUses() []*Use {
	return slices.Clone(i.operands)
}

// AddOperand appends a new operand slot referencing v. v may be nil for a
// slot that starts out detached.
func (i *Instruction) AddOperand(v Value) {
	u := &Use{user: i, index: len(i.operands)}
	i.operands = append(i.operands, u)
	u.set(v)
}

// SetOperand points slot n at v, updating the use lists of the old and new value.
func (i *Instruction) SetOperand(n int, v Value) {
	i.operands[n].set(v)
}

// DropOperand detaches slot n. The slot itself remains so operand indices
// stay stable.
func (i *Instruction) DropOperand(n int) {
	i.operands[n].set(nil)
}

func (i *Instruction) DropAllOperands() {
	for _, u := range i.operands {
		u.set(nil)
	}
}

// AddIncoming appends a phi edge.
func (i *Instruction) AddIncoming(v Value, from *BasicBlock) {
	i.AddOperand(v)
	i.Incoming = append(i.Incoming, from)
}

// EraseFromParent removes the instruction from its block and invalidates its
// handle. Erasing a value that is still referenced is a broken invariant.
func (i *Instruction) EraseFromParent() {
	if i.erased {
		panic("ir: erasing " + i.Ref() + " twice")
	}
	if i.HasUses() {
		panic(fmt.Sprintf("ir: erasing %s while it still has %d uses", i.Ref(), i.NumUses()))
	}
	i.DropAllOperands()
	if b := i.parent; b != nil {
		b.remove(i)
		b.Parent.release(i)
	}
	i.erased = true
}
