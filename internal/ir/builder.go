package ir

import "fmt"

// Builder appends instructions to a block. It does not type-check beyond
// deriving result types; Verify catches structural mistakes.
type Builder struct {
	fn    *Function
	block *BasicBlock
	pos   Position
}

func NewBuilder(fn *Function) *Builder {
	return &Builder{fn: fn}
}

func (b *Builder) Function() *Function { return b.fn }
func (b *Builder) Block() *BasicBlock  { return b.block }

// SetInsertPoint directs subsequent instructions to the end of block.
func (b *Builder) SetInsertPoint(block *BasicBlock) {
	if block.Parent != b.fn {
		panic(fmt.Sprintf("ir: block %s belongs to another function", block.Label))
	}
	b.block = block
}

// SetPosition stamps subsequent instructions with a source position.
func (b *Builder) SetPosition(pos Position) { b.pos = pos }

func (b *Builder) insert(inst *Instruction, operands ...Value) *Instruction {
	if b.block == nil {
		panic("ir: builder has no insertion block")
	}
	for _, op := range operands {
		inst.AddOperand(op)
	}
	inst.Pos = b.pos
	b.block.Append(inst)
	return inst
}

// Binary emits an arithmetic, logic or shift instruction.
func (b *Builder) Binary(op Opcode, name string, x, y Value) *Instruction {
	if !op.IsBinary() {
		panic("ir: " + op.String() + " is not a binary opcode")
	}
	return b.insert(NewInstruction(op, x.Type(), name), x, y)
}

func (b *Builder) Add(name string, x, y Value) *Instruction { return b.Binary(OpAdd, name, x, y) }
func (b *Builder) Sub(name string, x, y Value) *Instruction { return b.Binary(OpSub, name, x, y) }
func (b *Builder) Mul(name string, x, y Value) *Instruction { return b.Binary(OpMul, name, x, y) }

func (b *Builder) ICmp(pred Predicate, name string, x, y Value) *Instruction {
	inst := NewInstruction(OpICmp, CompareResultType(x.Type()), name)
	inst.Pred = pred
	return b.insert(inst, x, y)
}

func (b *Builder) FCmp(pred Predicate, name string, x, y Value) *Instruction {
	inst := NewInstruction(OpFCmp, CompareResultType(x.Type()), name)
	inst.Pred = pred
	return b.insert(inst, x, y)
}

// CompareResultType is i1, or a vector of i1 for vector operands.
func CompareResultType(operand Type) Type {
	if vt, ok := operand.(*VectorType); ok {
		return &VectorType{Len: vt.Len, Elem: I1}
	}
	return I1
}

func (b *Builder) Select(name string, cond, x, y Value) *Instruction {
	return b.insert(NewInstruction(OpSelect, x.Type(), name), cond, x, y)
}

func (b *Builder) Cast(op Opcode, name string, v Value, to Type) *Instruction {
	if !op.IsCast() {
		panic("ir: " + op.String() + " is not a cast opcode")
	}
	return b.insert(NewInstruction(op, to, name), v)
}

func (b *Builder) Alloca(name string, t Type) *Instruction {
	inst := NewInstruction(OpAlloca, Ptr, name)
	inst.ElemType = t
	return b.insert(inst)
}

func (b *Builder) Load(name string, t Type, ptr Value) *Instruction {
	return b.insert(NewInstruction(OpLoad, t, name), ptr)
}

// VolatileLoad emits a load the optimizer must not remove.
func (b *Builder) VolatileLoad(name string, t Type, ptr Value) *Instruction {
	inst := NewInstruction(OpLoad, t, name)
	inst.Volatile = true
	return b.insert(inst, ptr)
}

func (b *Builder) Store(v, ptr Value) *Instruction {
	return b.insert(NewInstruction(OpStore, Void, ""), v, ptr)
}

// GEP emits a getelementptr over elements of type elem.
func (b *Builder) GEP(name string, elem Type, base Value, indices ...Value) *Instruction {
	inst := NewInstruction(OpGetElementPtr, Ptr, name)
	inst.ElemType = elem
	return b.insert(inst, append([]Value{base}, indices...)...)
}

func (b *Builder) ExtractElement(name string, vec, idx Value) *Instruction {
	vt, ok := vec.Type().(*VectorType)
	if !ok {
		panic("ir: extractelement on non-vector " + vec.Type().String())
	}
	return b.insert(NewInstruction(OpExtractElement, vt.Elem, name), vec, idx)
}

func (b *Builder) InsertElement(name string, vec, elem, idx Value) *Instruction {
	return b.insert(NewInstruction(OpInsertElement, vec.Type(), name), vec, elem, idx)
}

func (b *Builder) ExtractValue(name string, agg Value, indices ...uint32) *Instruction {
	t, err := ElementType(agg.Type(), indices)
	if err != nil {
		panic("ir: extractvalue: " + err.Error())
	}
	inst := NewInstruction(OpExtractValue, t, name)
	inst.Indices = indices
	return b.insert(inst, agg)
}

func (b *Builder) InsertValue(name string, agg, v Value, indices ...uint32) *Instruction {
	inst := NewInstruction(OpInsertValue, agg.Type(), name)
	inst.Indices = indices
	return b.insert(inst, agg, v)
}

// Phi emits an empty phi; edges are added with AddIncoming.
func (b *Builder) Phi(name string, t Type) *Instruction {
	return b.insert(NewInstruction(OpPhi, t, name))
}

// Call emits a call; a callee named like a known intrinsic is tagged as one.
func (b *Builder) Call(name string, ret Type, callee string, args ...Value) *Instruction {
	inst := NewInstruction(OpCall, ret, name)
	inst.Callee = callee
	inst.Intrinsic = LookupIntrinsic(callee)
	return b.insert(inst, args...)
}

func (b *Builder) LandingPad(name string, t Type) *Instruction {
	return b.insert(NewInstruction(OpLandingPad, t, name))
}

// Ret emits a return; v is nil for void functions.
func (b *Builder) Ret(v Value) *Instruction {
	if v == nil {
		return b.insert(NewInstruction(OpRet, Void, ""))
	}
	return b.insert(NewInstruction(OpRet, Void, ""), v)
}

func (b *Builder) Br(target *BasicBlock) *Instruction {
	inst := NewInstruction(OpBr, Void, "")
	inst.Targets = []*BasicBlock{target}
	return b.insert(inst)
}

func (b *Builder) CondBr(cond Value, then, els *BasicBlock) *Instruction {
	inst := NewInstruction(OpBr, Void, "")
	inst.Targets = []*BasicBlock{then, els}
	return b.insert(inst, cond)
}

func (b *Builder) Unreachable() *Instruction {
	return b.insert(NewInstruction(OpUnreachable, Void, ""))
}
