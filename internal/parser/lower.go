package parser

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/holiman/uint256"
	"vnopt/grammar"
	"vnopt/internal/errors"
	"vnopt/internal/ir"
)

// Flags the text form accepts on binary operators. The IR does not model
// poison semantics, so they are dropped.
var wrapFlags = []string{"nsw", "nuw", "exact", "disjoint"}

type lowerer struct {
	path   string
	module *ir.Module
	errs   errors.List
}

type scope struct {
	fn     *ir.Function
	values map[string]ir.Value
	blocks map[string]*ir.BasicBlock
}

type pending struct {
	inst *ir.Instruction
	src  *grammar.Instr
	typ  ir.Type
}

// Lower converts a parsed module into IR. Lowering continues past errors so
// that a single run reports as many problems as possible; the module is only
// safe to transform when the returned list holds no errors.
func Lower(path string, ast *grammar.Module) (*ir.Module, errors.List) {
	l := &lowerer{path: path, module: ir.NewModule(path)}
	symbols := make(map[string]bool)

	var bodies []*grammar.Function
	var fns []*ir.Function
	for _, entry := range ast.Entries {
		switch {
		case entry.Global != nil:
			l.lowerGlobal(entry.Global, symbols)
		case entry.Declare != nil:
			l.lowerDeclare(entry.Declare, symbols)
		case entry.Function != nil:
			if fn := l.lowerSignature(entry.Function, symbols); fn != nil {
				bodies = append(bodies, entry.Function)
				fns = append(fns, fn)
			}
		}
	}

	// Bodies are lowered after all signatures so calls may refer forward.
	for i, body := range bodies {
		l.lowerBody(fns[i], body)
	}

	return l.module, l.errs
}

func (l *lowerer) pos(p lexer.Position) errors.Position {
	return errors.Position{Filename: l.path, Line: p.Line, Column: p.Column}
}

func irPos(p lexer.Position) ir.Position {
	return ir.Position{Line: p.Line, Column: p.Column}
}

func (l *lowerer) report(err errors.CompilerError) {
	l.errs = append(l.errs, err)
}

func (l *lowerer) lowerType(t *grammar.Type) (ir.Type, bool) {
	switch {
	case t.Vector != nil:
		elem, ok := l.lowerType(t.Vector.Elem)
		if !ok {
			return nil, false
		}
		if t.Vector.Len <= 0 {
			l.report(errors.InvalidType("vector types need at least one element", l.pos(t.Pos)))
			return nil, false
		}
		return &ir.VectorType{Len: t.Vector.Len, Elem: elem}, true
	case t.Array != nil:
		elem, ok := l.lowerType(t.Array.Elem)
		if !ok {
			return nil, false
		}
		return &ir.ArrayType{Len: t.Array.Len, Elem: elem}, true
	case t.Struct != nil:
		fields := make([]ir.Type, len(t.Struct.Fields))
		for i, f := range t.Struct.Fields {
			ft, ok := l.lowerType(f)
			if !ok {
				return nil, false
			}
			fields[i] = ft
		}
		return &ir.StructType{Fields: fields}, true
	}

	switch t.Name {
	case "void":
		return ir.Void, true
	case "ptr":
		return ir.Ptr, true
	case "half":
		return &ir.FloatType{Bits: 16}, true
	case "float":
		return &ir.FloatType{Bits: 32}, true
	case "double":
		return &ir.FloatType{Bits: 64}, true
	case "label":
		return ir.Label, true
	case "metadata":
		return ir.Metadata, true
	case "token":
		return ir.Token, true
	}

	if bits, err := strconv.Atoi(strings.TrimPrefix(t.Name, "i")); err == nil && bits >= 1 && bits <= 256 {
		return &ir.IntType{Bits: bits}, true
	}
	l.report(errors.InvalidType(fmt.Sprintf("unsupported type '%s': integers are limited to 256 bits", t.Name), l.pos(t.Pos)))
	return nil, false
}

func (l *lowerer) lowerGlobal(g *grammar.GlobalDecl, symbols map[string]bool) {
	if symbols[g.Name] {
		l.report(errors.DuplicateDefinition(g.Name, l.pos(g.Pos)))
		return
	}
	symbols[g.Name] = true

	t, ok := l.lowerType(g.Type)
	if !ok {
		return
	}
	l.module.NewGlobal(strings.TrimPrefix(g.Name, "@"), t)
}

func (l *lowerer) lowerDeclare(d *grammar.Declare, symbols map[string]bool) {
	if symbols[d.Name] {
		l.report(errors.DuplicateDefinition(d.Name, l.pos(d.Pos)))
		return
	}
	symbols[d.Name] = true

	ret, ok := l.lowerType(d.ReturnType)
	if !ok {
		return
	}
	params := make([]ir.Type, 0, len(d.Params))
	for _, p := range d.Params {
		pt, ok := l.lowerType(p)
		if !ok {
			return
		}
		params = append(params, pt)
	}
	decl := l.module.Declare(strings.TrimPrefix(d.Name, "@"), ret, params...)
	decl.Pos = irPos(d.Pos)
}

func (l *lowerer) lowerSignature(f *grammar.Function, symbols map[string]bool) *ir.Function {
	if symbols[f.Name] {
		l.report(errors.DuplicateDefinition(f.Name, l.pos(f.Pos)))
		return nil
	}
	symbols[f.Name] = true

	ret, ok := l.lowerType(f.ReturnType)
	if !ok {
		return nil
	}

	seen := make(map[string]bool)
	args := make([]*ir.Argument, 0, len(f.Params))
	for _, p := range f.Params {
		if seen[p.Name] {
			l.report(errors.DuplicateDefinition(p.Name, l.pos(p.Pos)))
			return nil
		}
		seen[p.Name] = true
		pt, ok := l.lowerType(p.Type)
		if !ok {
			return nil
		}
		args = append(args, ir.NewArgument(strings.TrimPrefix(p.Name, "%"), pt))
	}

	fn := l.module.NewFunction(strings.TrimPrefix(f.Name, "@"), ret, args...)
	fn.Pos = irPos(f.Pos)
	return fn
}

func (l *lowerer) lowerBody(fn *ir.Function, body *grammar.Function) {
	s := &scope{
		fn:     fn,
		values: make(map[string]ir.Value),
		blocks: make(map[string]*ir.BasicBlock),
	}
	for _, a := range fn.Args {
		s.values[a.Ref()] = a
	}

	if len(body.Blocks) == 0 {
		l.report(errors.NewError(errors.ErrorVerification,
			fmt.Sprintf("function '@%s' has no blocks", fn.Name), l.pos(body.Pos)).Build())
		return
	}

	blocks := make([]*ir.BasicBlock, len(body.Blocks))
	for i, b := range body.Blocks {
		label := strings.TrimSuffix(b.Label, ":")
		if _, dup := s.blocks["%"+label]; dup {
			l.report(errors.DuplicateDefinition(label, l.pos(b.Pos)))
			continue
		}
		block := fn.NewBlock(label)
		block.Pos = irPos(b.Pos)
		s.blocks["%"+label] = block
		blocks[i] = block
	}

	// Instructions are created first so operands may refer to values
	// defined later in the text (phis, uses in other blocks).
	var work []pending
	for i, b := range body.Blocks {
		if blocks[i] == nil {
			continue
		}
		for _, in := range b.Instrs {
			inst, typ := l.createInstruction(in)
			if inst == nil {
				continue
			}
			if in.Result != "" {
				if _, dup := s.values[in.Result]; dup {
					l.report(errors.DuplicateDefinition(in.Result, l.pos(in.Pos)))
				} else {
					s.values[in.Result] = inst
				}
			}
			blocks[i].Append(inst)
			work = append(work, pending{inst: inst, src: in, typ: typ})
		}
	}

	for _, w := range work {
		l.lowerOperands(s, w)
	}

	for _, block := range fn.Blocks() {
		insts := block.Instructions()
		for n, inst := range insts {
			if inst.IsTerminator() && n != len(insts)-1 {
				l.report(errors.NewError(errors.ErrorVerification,
					fmt.Sprintf("terminator '%s' must be the last instruction of block '%s'", inst.Op, block.Label),
					l.pos(lexer.Position{Line: inst.Pos.Line, Column: inst.Pos.Column})).
					WithLength(len(inst.Op.String())).
					Build())
			}
		}
		if block.Terminator() == nil {
			l.report(errors.MissingTerminator(block.Label, errors.Position{
				Filename: l.path, Line: block.Pos.Line, Column: block.Pos.Column,
			}))
		}
	}
}

// createInstruction validates the opcode and flags and derives the result
// type. It returns the type written after the flags, which most opcodes use
// as their operand type.
func (l *lowerer) createInstruction(in *grammar.Instr) (*ir.Instruction, ir.Type) {
	pos := l.pos(in.Pos)
	op, ok := ir.ParseOpcode(in.Opcode)
	if !ok {
		l.report(errors.UnknownOpcode(in.Opcode, pos, ir.OpcodeNames()))
		return nil, nil
	}

	var typ ir.Type
	if in.Type != nil {
		if typ, ok = l.lowerType(in.Type); !ok {
			return nil, nil
		}
	}

	result, ok := l.resultType(op, in, typ)
	if !ok {
		return nil, nil
	}
	if in.Result != "" && ir.IsVoid(result) {
		l.report(errors.InvalidOperand(fmt.Sprintf("'%s' does not produce a value and cannot be named", op), pos))
		return nil, nil
	}

	inst := ir.NewInstruction(op, result, strings.TrimPrefix(in.Result, "%"))
	inst.Pos = irPos(in.Pos)

	switch op {
	case ir.OpAlloca, ir.OpGetElementPtr:
		inst.ElemType = typ
	case ir.OpExtractValue, ir.OpInsertValue:
		inst.Indices, _ = l.indices(op, in)
	}

	for n, flag := range in.Flags {
		switch {
		case op.IsCompare() && n == 0:
			pred, ok := ir.ParsePredicate(op, flag)
			if !ok {
				l.report(errors.InvalidFlag(op.String(), flag, pos))
			}
			inst.Pred = pred
		case (op == ir.OpLoad || op == ir.OpStore) && flag == "volatile":
			inst.Volatile = true
		case (op == ir.OpLoad || op == ir.OpStore) && flag == "atomic":
			inst.Atomic = true
		case op.IsBinary() && slices.Contains(wrapFlags, flag):
		default:
			l.report(errors.InvalidFlag(op.String(), flag, pos))
		}
	}
	if op.IsCompare() && len(in.Flags) == 0 {
		l.report(errors.InvalidOperand(fmt.Sprintf("'%s' requires a predicate", op), pos))
	}
	if in.To != nil && !op.IsCast() {
		l.report(errors.InvalidOperand("'to' is only valid on cast instructions", pos))
	}

	return inst, typ
}

func (l *lowerer) resultType(op ir.Opcode, in *grammar.Instr, typ ir.Type) (ir.Type, bool) {
	pos := l.pos(in.Pos)
	switch op {
	case ir.OpRet, ir.OpBr, ir.OpUnreachable:
		return ir.Void, true
	case ir.OpStore:
		if typ == nil {
			break
		}
		return ir.Void, true
	case ir.OpSelect:
		if len(in.Operands) == 3 && in.Operands[1].Type != nil {
			return l.lowerType(in.Operands[1].Type)
		}
		l.report(errors.InvalidType("'select' needs the type of its values: select i1 %c, T %x, T %y", pos))
		return nil, false
	}

	if op.IsCast() {
		if in.To == nil {
			l.report(errors.InvalidType(fmt.Sprintf("'%s' needs a destination type: %s T %%v to T2", op, op), pos))
			return nil, false
		}
		return l.lowerType(in.To)
	}

	if typ == nil {
		l.report(errors.InvalidType(fmt.Sprintf("'%s' requires a type", op), pos))
		return nil, false
	}

	switch {
	case op.IsCompare():
		return ir.CompareResultType(typ), true
	case op == ir.OpAlloca || op == ir.OpGetElementPtr:
		return ir.Ptr, true
	case op == ir.OpExtractElement:
		vt, ok := typ.(*ir.VectorType)
		if !ok {
			l.report(errors.InvalidType(fmt.Sprintf("'extractelement' requires a vector, found %s", typ), pos))
			return nil, false
		}
		return vt.Elem, true
	case op == ir.OpExtractValue:
		indices, ok := l.indices(op, in)
		if !ok {
			return nil, false
		}
		elem, err := ir.ElementType(typ, indices)
		if err != nil {
			l.report(errors.InvalidType(err.Error(), pos))
			return nil, false
		}
		return elem, true
	}
	return typ, true
}

// indices reads the trailing literal indices of extractvalue/insertvalue.
func (l *lowerer) indices(op ir.Opcode, in *grammar.Instr) ([]uint32, bool) {
	skip := 1
	if op == ir.OpInsertValue {
		skip = 2
	}
	if len(in.Operands) <= skip {
		l.report(errors.OperandCount(op.String(), fmt.Sprintf("at least %d", skip+1), len(in.Operands), l.pos(in.Pos)))
		return nil, false
	}

	var indices []uint32
	for _, operand := range in.Operands[skip:] {
		if operand.Type != nil || operand.Value == nil || operand.Value.Integer == nil {
			l.report(errors.InvalidOperand("aggregate indices must be integer literals", l.pos(operand.Pos)))
			return nil, false
		}
		idx, err := strconv.ParseUint(*operand.Value.Integer, 10, 32)
		if err != nil {
			l.report(errors.InvalidOperand(fmt.Sprintf("invalid aggregate index %s", *operand.Value.Integer), l.pos(operand.Pos)))
			return nil, false
		}
		indices = append(indices, uint32(idx))
	}
	return indices, true
}

func (l *lowerer) lowerOperands(s *scope, w pending) {
	inst, in, typ := w.inst, w.src, w.typ
	pos := l.pos(in.Pos)
	ops := in.Operands
	op := inst.Op

	count := func(n int) bool {
		if len(ops) != n {
			l.report(errors.OperandCount(op.String(), strconv.Itoa(n), len(ops), pos))
			return false
		}
		return true
	}

	switch {
	case op.IsBinary():
		if count(2) {
			l.addOperands(s, inst, ops, typ, typ)
		}
		return
	case op.IsCompare():
		if count(2) {
			l.addOperands(s, inst, ops, typ, typ)
		}
		return
	case op.IsCast():
		if count(1) {
			l.addOperands(s, inst, ops, typ)
		}
		return
	}

	switch op {
	case ir.OpSelect:
		if count(3) {
			l.addOperands(s, inst, ops, typ, inst.Type(), inst.Type())
		}
	case ir.OpAlloca, ir.OpLandingPad, ir.OpUnreachable:
		count(0)
	case ir.OpLoad:
		if count(1) {
			l.addOperands(s, inst, ops, ir.Ptr)
		}
	case ir.OpStore:
		if count(2) {
			l.addOperands(s, inst, ops, typ, ir.Ptr)
		}
	case ir.OpGetElementPtr:
		if len(ops) == 0 {
			l.report(errors.OperandCount(op.String(), "at least 1", 0, pos))
			return
		}
		want := []ir.Type{ir.Ptr}
		for range ops[1:] {
			want = append(want, ir.I64)
		}
		l.addOperands(s, inst, ops, want...)
	case ir.OpExtractElement:
		if count(2) {
			l.addOperands(s, inst, ops, typ, ir.I32)
		}
	case ir.OpInsertElement:
		if count(3) {
			var elem ir.Type
			if vt, ok := typ.(*ir.VectorType); ok {
				elem = vt.Elem
			}
			l.addOperands(s, inst, ops, typ, elem, ir.I32)
		}
	case ir.OpExtractValue:
		if len(inst.Indices) > 0 {
			l.addOperands(s, inst, ops[:1], typ)
		}
	case ir.OpInsertValue:
		if len(inst.Indices) > 0 {
			elem, err := ir.ElementType(typ, inst.Indices)
			if err != nil {
				l.report(errors.InvalidType(err.Error(), pos))
				return
			}
			l.addOperands(s, inst, ops[:2], typ, elem)
		}
	case ir.OpPhi:
		l.lowerPhi(s, inst, ops)
	case ir.OpCall:
		l.lowerCall(s, inst, in)
	case ir.OpRet:
		l.lowerRet(s, inst, in, typ)
	case ir.OpBr:
		l.lowerBr(s, inst, in, typ)
	}
}

// addOperands resolves ops in order; want gives the type each untyped
// operand defaults to.
func (l *lowerer) addOperands(s *scope, inst *ir.Instruction, ops []*grammar.Operand, want ...ir.Type) {
	for n, operand := range ops {
		v, ok := l.operand(s, operand, want[n], false)
		if !ok {
			return
		}
		inst.AddOperand(v)
	}
}

func (l *lowerer) operand(s *scope, op *grammar.Operand, want ir.Type, allowNone bool) (ir.Value, bool) {
	if op.Phi != nil {
		l.report(errors.InvalidOperand("phi edges are only valid on 'phi'", l.pos(op.Pos)))
		return nil, false
	}
	t := want
	if op.Type != nil {
		var ok bool
		if t, ok = l.lowerType(op.Type); !ok {
			return nil, false
		}
	}
	return l.value(s, op.Value, t, allowNone)
}

func isMetadata(t ir.Type) bool {
	_, ok := t.(*ir.MetadataType)
	return ok
}

func (l *lowerer) value(s *scope, v *grammar.Value, t ir.Type, allowNone bool) (ir.Value, bool) {
	pos := l.pos(v.Pos)
	typeName := func() string {
		if t == nil {
			return "an untyped value"
		}
		return t.String()
	}

	switch {
	case v.Local != nil:
		val, ok := s.values[*v.Local]
		if !ok {
			l.report(errors.UndefinedValue(*v.Local, pos, s.names()))
			return nil, false
		}
		if t != nil && !isMetadata(t) && !ir.SameType(val.Type(), t) {
			l.report(errors.TypeMismatch(t.String(), val.Type().String(), pos))
			return nil, false
		}
		return val, true

	case v.Global != nil:
		g := l.module.Global(strings.TrimPrefix(*v.Global, "@"))
		if g == nil {
			l.report(errors.UndefinedValue(*v.Global, pos, l.globalNames()))
			return nil, false
		}
		if t != nil && !isMetadata(t) && !ir.SameType(t, ir.Ptr) {
			l.report(errors.TypeMismatch(t.String(), "ptr", pos))
			return nil, false
		}
		return g, true

	case v.Integer != nil:
		if isMetadata(t) {
			t = ir.I64
		}
		if ir.IntBits(t) == 0 {
			l.report(errors.TypeMismatch(typeName(), "integer literal "+*v.Integer, pos))
			return nil, false
		}
		n, err := parseInteger(*v.Integer)
		if err != nil {
			l.report(errors.InvalidOperand(fmt.Sprintf("invalid integer literal %s: %s", *v.Integer, err), pos))
			return nil, false
		}
		return l.module.ConstFromUint256(t, n), true
	}

	switch *v.Keyword {
	case "true", "false":
		if t != nil && !isMetadata(t) && !ir.SameType(t, ir.I1) {
			l.report(errors.TypeMismatch(t.String(), "i1", pos))
			return nil, false
		}
		if *v.Keyword == "true" {
			return l.module.True(), true
		}
		return l.module.False(), true
	case "undef":
		if t == nil || isMetadata(t) {
			l.report(errors.InvalidType("cannot infer the type of 'undef'", pos))
			return nil, false
		}
		return l.module.Undef(t), true
	case "null":
		if t != nil && !isMetadata(t) && !ir.SameType(t, ir.Ptr) {
			l.report(errors.TypeMismatch(t.String(), "ptr", pos))
			return nil, false
		}
		return l.module.Null(), true
	}

	if !allowNone {
		l.report(errors.InvalidOperand("'none' is only valid as a debug marker operand", pos))
		return nil, false
	}
	return nil, true
}

// parseInteger reads a decimal literal; negative values wrap to their two's
// complement and are truncated to the operand width by the constant pool.
func parseInteger(text string) (*uint256.Int, error) {
	n, err := uint256.FromDecimal(strings.TrimPrefix(text, "-"))
	if err != nil {
		return nil, err
	}
	if strings.HasPrefix(text, "-") {
		n.Neg(n)
	}
	return n, nil
}

func (l *lowerer) lowerPhi(s *scope, inst *ir.Instruction, ops []*grammar.Operand) {
	for _, op := range ops {
		if op.Phi == nil {
			l.report(errors.InvalidOperand("phi operands must be [ value, %block ] pairs", l.pos(op.Pos)))
			return
		}
		v, ok := l.value(s, op.Phi.Value, inst.Type(), false)
		if !ok {
			return
		}
		block, ok := s.blocks[op.Phi.Block]
		if !ok {
			l.report(errors.UndefinedBlock(op.Phi.Block, l.pos(op.Pos), s.labels()))
			return
		}
		inst.AddIncoming(v, block)
	}
}

func (l *lowerer) lowerCall(s *scope, inst *ir.Instruction, in *grammar.Instr) {
	pos := l.pos(in.Pos)
	if in.Call == nil {
		l.report(errors.InvalidOperand("'call' requires a callee: call T @f(args)", pos))
		return
	}
	callee := strings.TrimPrefix(in.Call.Callee, "@")
	inst.Callee = callee
	inst.Intrinsic = ir.LookupIntrinsic(callee)

	var params []ir.Type
	var ret ir.Type
	known := true
	if d := l.module.Declaration(callee); d != nil {
		params, ret = d.Params, d.ReturnType
	} else if fn := l.module.Function(callee); fn != nil {
		for _, a := range fn.Args {
			params = append(params, a.Type())
		}
		ret = fn.ReturnType
	} else {
		known = false
		if !strings.HasPrefix(callee, "llvm.") {
			l.report(errors.UndefinedFunction(in.Call.Callee, pos))
			return
		}
	}

	if known {
		if !ir.SameType(ret, inst.Type()) {
			l.report(errors.TypeMismatch(ret.String(), inst.Type().String(), pos))
			return
		}
		if len(params) != len(in.Call.Args) {
			l.report(errors.OperandCount(in.Call.Callee, strconv.Itoa(len(params)), len(in.Call.Args), pos))
			return
		}
	}

	for n, arg := range in.Call.Args {
		var want ir.Type
		if known {
			want = params[n]
		}
		v, ok := l.operand(s, arg, want, inst.Intrinsic.IsDebugMarker())
		if !ok {
			return
		}
		inst.AddOperand(v)
	}
}

func (l *lowerer) lowerRet(s *scope, inst *ir.Instruction, in *grammar.Instr, typ ir.Type) {
	pos := l.pos(in.Pos)
	ret := s.fn.ReturnType

	if len(in.Operands) == 0 {
		if typ != nil && !ir.IsVoid(typ) {
			l.report(errors.OperandCount("ret", "1", 0, pos))
			return
		}
		if !ir.IsVoid(ret) {
			l.report(errors.TypeMismatch(ret.String(), "void", pos))
		}
		return
	}

	if len(in.Operands) != 1 {
		l.report(errors.OperandCount("ret", "1", len(in.Operands), pos))
		return
	}
	if typ == nil {
		typ = ret
	}
	if !ir.SameType(typ, ret) {
		l.report(errors.TypeMismatch(ret.String(), typ.String(), pos))
		return
	}
	l.addOperands(s, inst, in.Operands, typ)
}

func (l *lowerer) lowerBr(s *scope, inst *ir.Instruction, in *grammar.Instr, typ ir.Type) {
	pos := l.pos(in.Pos)
	ops := in.Operands

	switch len(ops) {
	case 1:
		if typ == nil || !ir.SameType(typ, ir.Label) {
			l.report(errors.InvalidOperand("unconditional branches take a label: br label %dest", pos))
			return
		}
		if target := l.target(s, ops[0], true); target != nil {
			inst.Targets = []*ir.BasicBlock{target}
		}
	case 3:
		cond, ok := l.operand(s, ops[0], typ, false)
		if !ok {
			return
		}
		then, els := l.target(s, ops[1], false), l.target(s, ops[2], false)
		if then == nil || els == nil {
			return
		}
		inst.AddOperand(cond)
		inst.Targets = []*ir.BasicBlock{then, els}
	default:
		l.report(errors.OperandCount("br", "1 or 3", len(ops), pos))
	}
}

func (l *lowerer) target(s *scope, op *grammar.Operand, typed bool) *ir.BasicBlock {
	pos := l.pos(op.Pos)
	if !typed && (op.Type == nil || op.Type.Name != "label") {
		l.report(errors.InvalidOperand("branch targets are written as: label %dest", pos))
		return nil
	}
	if op.Value == nil || op.Value.Local == nil {
		l.report(errors.InvalidOperand("branch targets must name a block", pos))
		return nil
	}
	block, ok := s.blocks[*op.Value.Local]
	if !ok {
		l.report(errors.UndefinedBlock(*op.Value.Local, pos, s.labels()))
		return nil
	}
	return block
}

func (s *scope) names() []string {
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (s *scope) labels() []string {
	labels := make([]string, 0, len(s.blocks))
	for label := range s.blocks {
		labels = append(labels, label)
	}
	slices.Sort(labels)
	return labels
}

func (l *lowerer) globalNames() []string {
	names := make([]string, 0, len(l.module.Globals))
	for _, g := range l.module.Globals {
		names = append(names, g.Ref())
	}
	return names
}
