package ir

// The IR is a conventional CFG of basic blocks holding SSA instructions.
// Instructions are owned by their block; every operand slot is a *Use that is
// registered with the referenced value, so use counts are always exact.

import (
	"fmt"
	"slices"

	"github.com/holiman/uint256"
)

// Position is a source location carried by values parsed from text.
type Position struct {
	Line   int
	Column int
}

func (p Position) IsValid() bool { return p.Line > 0 }

func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// Module is a translation unit: globals, external declarations and function bodies.
type Module struct {
	Name         string
	Globals      []*Global
	Declarations []*Declaration
	Functions    []*Function

	consts map[constKey]*Constant
}

// Declaration is an external function known only by its signature.
type Declaration struct {
	Name       string
	ReturnType Type
	Params     []Type
	Pos        Position
}

func NewModule(name string) *Module {
	return &Module{Name: name, consts: make(map[constKey]*Constant)}
}

func (m *Module) constant(t Type, kind constKind, v *uint256.Int) *Constant {
	key := constKey{typ: t.String(), kind: kind}
	if v != nil {
		key.val = *Truncate(new(uint256.Int).Set(v), IntBits(t))
	}
	if c, ok := m.consts[key]; ok {
		return c
	}
	c := &Constant{valueBase: valueBase{typ: t}, kind: kind, val: key.val}
	m.consts[key] = c
	return c
}

// ConstInt returns the uniqued integer constant of type t.
func (m *Module) ConstInt(t Type, v uint64) *Constant {
	return m.constant(t, constInt, uint256.NewInt(v))
}

// ConstFromUint256 returns the uniqued integer constant of type t, truncated to its width.
func (m *Module) ConstFromUint256(t Type, v *uint256.Int) *Constant {
	return m.constant(t, constInt, v)
}

func (m *Module) Undef(t Type) *Constant { return m.constant(t, constUndef, nil) }
func (m *Module) Null() *Constant        { return m.constant(Ptr, constNull, nil) }
func (m *Module) True() *Constant        { return m.ConstInt(I1, 1) }
func (m *Module) False() *Constant       { return m.ConstInt(I1, 0) }

// NewGlobal adds a global variable holding a value of type t.
func (m *Module) NewGlobal(name string, t Type) *Global {
	g := &Global{valueBase: valueBase{name: name, typ: Ptr}, ValueType: t}
	m.Globals = append(m.Globals, g)
	return g
}

func (m *Module) Global(name string) *Global {
	for _, g := range m.Globals {
		if g.name == name {
			return g
		}
	}
	return nil
}

// Declare records an external function signature.
func (m *Module) Declare(name string, ret Type, params ...Type) *Declaration {
	d := &Declaration{Name: name, ReturnType: ret, Params: params}
	m.Declarations = append(m.Declarations, d)
	return d
}

func (m *Module) Declaration(name string) *Declaration {
	for _, d := range m.Declarations {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// NewFunction adds a function definition with the given formal parameters.
func (m *Module) NewFunction(name string, ret Type, args ...*Argument) *Function {
	fn := &Function{Name: name, ReturnType: ret, Args: args, Module: m}
	for i, a := range args {
		a.Parent = fn
		a.Index = i
	}
	m.Functions = append(m.Functions, fn)
	return fn
}

func (m *Module) Function(name string) *Function {
	for _, fn := range m.Functions {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

// InstID is a generation-checked handle to an instruction. A handle taken
// before the instruction was erased never resolves again, even after the
// slot is reused.
type InstID struct {
	index int32
	gen   uint32
}

func (id InstID) IsValid() bool { return id.gen != 0 }

func (id InstID) String() string { return fmt.Sprintf("#%d.%d", id.index, id.gen) }

type instSlot struct {
	inst *Instruction
	gen  uint32
}

// Function is a function definition: arguments and blocks in layout order.
type Function struct {
	Name       string
	ReturnType Type
	Args       []*Argument
	Module     *Module
	Pos        Position

	blocks []*BasicBlock
	slots  []instSlot
	free   []int32
}

func (f *Function) register(inst *Instruction) {
	var idx int32
	if n := len(f.free); n > 0 {
		idx = f.free[n-1]
		f.free = f.free[:n-1]
	} else {
		idx = int32(len(f.slots))
		f.slots = append(f.slots, instSlot{gen: 1})
	}
	f.slots[idx].inst = inst
	inst.id = InstID{index: idx, gen: f.slots[idx].gen}
}

func (f *Function) release(inst *Instruction) {
	s := &f.slots[inst.id.index]
	s.inst = nil
	s.gen++
	f.free = append(f.free, inst.id.index)
}

// Lookup resolves an instruction handle; it returns nil once the
// instruction has been erased.
func (f *Function) Lookup(id InstID) *Instruction {
	if !id.IsValid() || id.index < 0 || int(id.index) >= len(f.slots) {
		return nil
	}
	s := f.slots[id.index]
	if s.gen != id.gen {
		return nil
	}
	return s.inst
}

// Blocks returns the blocks in layout order.
func (f *Function) Blocks() []*BasicBlock {
	return slices.Clone(f.blocks)
}

func (f *Function) Entry() *BasicBlock {
	if len(f.blocks) == 0 {
		return nil
	}
	return f.blocks[0]
}

// NewBlock appends an empty block.
func (f *Function) NewBlock(label string) *BasicBlock {
	b := &BasicBlock{Label: label, Parent: f}
	f.blocks = append(f.blocks, b)
	return b
}

func (f *Function) Block(label string) *BasicBlock {
	for _, b := range f.blocks {
		if b.Label == label {
			return b
		}
	}
	return nil
}

// Instructions returns every live instruction in layout order.
func (f *Function) Instructions() []*Instruction {
	var insts []*Instruction
	for _, b := range f.blocks {
		insts = append(insts, b.insts...)
	}
	return insts
}

func (f *Function) NumInstructions() int {
	n := 0
	for _, b := range f.blocks {
		n += len(b.insts)
	}
	return n
}

// BasicBlock is a straight-line instruction sequence ending in a terminator.
type BasicBlock struct {
	Label  string
	Parent *Function
	Pos    Position

	insts []*Instruction
}

// Instructions returns a snapshot of the block's instructions; erasing
// instructions while ranging over it is safe.
func (b *BasicBlock) Instructions() []*Instruction {
	return slices.Clone(b.insts)
}

func (b *BasicBlock) Len() int { return len(b.insts) }

// Terminator returns the final instruction if it transfers control, or nil.
func (b *BasicBlock) Terminator() *Instruction {
	if len(b.insts) == 0 {
		return nil
	}
	if last := b.insts[len(b.insts)-1]; last.Op.IsTerminator() {
		return last
	}
	return nil
}

func (b *BasicBlock) Successors() []*BasicBlock {
	if term := b.Terminator(); term != nil {
		return slices.Clone(term.Targets)
	}
	return nil
}

// Append adds inst at the end of the block.
func (b *BasicBlock) Append(inst *Instruction) {
	if inst.parent != nil {
		panic("ir: instruction " + inst.Ref() + " already belongs to a block")
	}
	inst.parent = b
	b.Parent.register(inst)
	b.insts = append(b.insts, inst)
}

// InsertBefore places inst immediately before pos.
func (b *BasicBlock) InsertBefore(inst, pos *Instruction) {
	i := slices.Index(b.insts, pos)
	if i < 0 {
		panic("ir: insertion point " + pos.Ref() + " is not in block " + b.Label)
	}
	if inst.parent != nil {
		panic("ir: instruction " + inst.Ref() + " already belongs to a block")
	}
	inst.parent = b
	b.Parent.register(inst)
	b.insts = slices.Insert(b.insts, i, inst)
}

func (b *BasicBlock) remove(inst *Instruction) {
	if i := slices.Index(b.insts, inst); i >= 0 {
		b.insts = slices.Delete(b.insts, i, i+1)
	}
}
