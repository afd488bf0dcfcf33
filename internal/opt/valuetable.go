package opt

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"vnopt/internal/ir"
)

// Reserved expression opcodes. Real opcodes are small, so the two largest
// values never collide with them.
const (
	EmptyOpcode     = ^uint32(0)
	TombstoneOpcode = ^uint32(0) - 1
)

// Expression is the structural identity of a pure computation: what it
// does, what it produces and the value numbers it consumes.
type Expression struct {
	Opcode uint32
	// Type is the result type; getelementptr appends its source element type.
	Type string
	Args []uint32
}

// IsSentinel reports whether e is one of the reserved non-expressions.
func (e Expression) IsSentinel() bool {
	return e.Opcode == EmptyOpcode || e.Opcode == TombstoneOpcode
}

type expressionKey struct {
	opcode uint32
	typ    string
	args   string
}

func (e Expression) key() expressionKey {
	var sb strings.Builder
	for i, a := range e.Args {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatUint(uint64(a), 10))
	}
	return expressionKey{opcode: e.Opcode, typ: e.Type, args: sb.String()}
}

func (e Expression) String() string {
	return fmt.Sprintf("{%d %s %v}", e.Opcode, e.Type, e.Args)
}

// ValueTable assigns value numbers. Values proven equivalent share a number;
// everything else gets a fresh one. Numbering starts at 1.
type ValueTable struct {
	values      map[ir.Value]uint32
	expressions map[expressionKey]uint32
	next        uint32
	// visiting guards against operand cycles, which only unreachable code can form.
	visiting map[*ir.Instruction]bool
}

func NewValueTable() *ValueTable {
	vt := &ValueTable{}
	vt.Clear()
	return vt
}

// Clear starts a new numbering epoch.
func (vt *ValueTable) Clear() {
	vt.values = make(map[ir.Value]uint32)
	vt.expressions = make(map[expressionKey]uint32)
	vt.visiting = make(map[*ir.Instruction]bool)
	vt.next = 1
}

// NextValueNumber is the number the next fresh value will receive.
func (vt *ValueTable) NextValueNumber() uint32 { return vt.next }

func (vt *ValueTable) Len() int { return len(vt.values) }

// Lookup returns the number already assigned to v.
func (vt *ValueTable) Lookup(v ir.Value) (uint32, bool) {
	n, ok := vt.values[v]
	return n, ok
}

// Erase forgets v. Expression numbers already handed out stay valid.
func (vt *ValueTable) Erase(v ir.Value) {
	delete(vt.values, v)
}

func (vt *ValueTable) fresh(v ir.Value) uint32 {
	n := vt.next
	vt.next++
	vt.values[v] = n
	return n
}

// LookupOrAdd returns the number of v, assigning one if needed. Operands
// of a recognized pure instruction are numbered first.
func (vt *ValueTable) LookupOrAdd(v ir.Value) uint32 {
	if n, ok := vt.values[v]; ok {
		return n
	}
	inst, ok := v.(*ir.Instruction)
	if !ok {
		return vt.fresh(v)
	}

	exp := vt.expression(inst)
	if exp.IsSentinel() {
		return vt.fresh(v)
	}

	key := exp.key()
	n, ok := vt.expressions[key]
	if !ok {
		n = vt.next
		vt.next++
		vt.expressions[key] = n
	}
	vt.values[v] = n
	return n
}

// expression builds the key of inst, or an EmptyOpcode expression when
// inst is not a recognized pure computation.
func (vt *ValueTable) expression(inst *ir.Instruction) Expression {
	switch {
	case inst.Op.IsBinary(), inst.Op.IsCompare():
	case inst.Op == ir.OpSelect,
		inst.Op == ir.OpExtractElement, inst.Op == ir.OpInsertElement,
		inst.Op == ir.OpExtractValue, inst.Op == ir.OpInsertValue,
		inst.Op == ir.OpGetElementPtr:
	default:
		return Expression{Opcode: EmptyOpcode}
	}

	if vt.visiting[inst] {
		return Expression{Opcode: EmptyOpcode}
	}
	vt.visiting[inst] = true
	defer delete(vt.visiting, inst)

	e := Expression{Opcode: uint32(inst.Op), Type: inst.Type().String()}
	for _, op := range inst.Operands() {
		if op == nil {
			return Expression{Opcode: EmptyOpcode}
		}
		e.Args = append(e.Args, vt.LookupOrAdd(op))
	}

	switch {
	case inst.Op.IsCommutative():
		if e.Args[0] > e.Args[1] {
			e.Args[0], e.Args[1] = e.Args[1], e.Args[0]
		}
	case inst.Op.IsCompare():
		pred := inst.Pred
		if e.Args[0] > e.Args[1] {
			e.Args[0], e.Args[1] = e.Args[1], e.Args[0]
			pred = pred.Swapped()
		}
		e.Opcode = uint32(inst.Op)<<8 | uint32(pred)
	case inst.Op == ir.OpExtractValue, inst.Op == ir.OpInsertValue:
		e.Args = append(e.Args, inst.Indices...)
	case inst.Op == ir.OpGetElementPtr:
		e.Type += " " + inst.ElemType.String()
	}
	return e
}

// Dump renders the table for debug logs.
func (vt *ValueTable) Dump() string {
	type entry struct {
		Number uint32
		Value  string
	}
	entries := make([]entry, 0, len(vt.values))
	for v, n := range vt.values {
		entries = append(entries, entry{Number: n, Value: v.Ref()})
	}
	slices.SortFunc(entries, func(a, b entry) int {
		if a.Number != b.Number {
			return int(a.Number) - int(b.Number)
		}
		return strings.Compare(a.Value, b.Value)
	})

	config := spew.ConfigState{Indent: "  ", SortKeys: true, DisablePointerAddresses: true}
	return config.Sdump(entries)
}
