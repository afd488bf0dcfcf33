package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Printer renders IR in the same textual form the parser reads.
type Printer struct {
	indent int
	output strings.Builder
	names  map[Value]string
}

// NewPrinter creates a new IR printer
func NewPrinter() *Printer {
	return &Printer{indent: 0}
}

// Print returns the textual form of a module
func Print(m *Module) string {
	p := NewPrinter()
	p.printModule(m)
	return p.output.String()
}

// PrintFunction returns the textual form of a single function
func PrintFunction(fn *Function) string {
	p := NewPrinter()
	p.printFunction(fn)
	return p.output.String()
}

// String renders the instruction with the names it carries; unnamed values
// print as arena slots.
func (i *Instruction) String() string {
	p := NewPrinter()
	return p.formatInstruction(i)
}

// Helper methods

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.output.WriteString("  ")
	}
}

func (p *Printer) writeLine(format string, args ...interface{}) {
	p.writeIndent()
	p.output.WriteString(fmt.Sprintf(format, args...))
	p.output.WriteString("\n")
}

func (p *Printer) printModule(m *Module) {
	sections := 0
	if len(m.Globals) > 0 {
		for _, g := range m.Globals {
			p.writeLine("%s = global %s", g.Ref(), g.ValueType)
		}
		sections++
	}

	if len(m.Declarations) > 0 {
		if sections > 0 {
			p.writeLine("")
		}
		for _, d := range m.Declarations {
			params := make([]string, len(d.Params))
			for i, t := range d.Params {
				params[i] = t.String()
			}
			p.writeLine("declare %s @%s(%s)", d.ReturnType, d.Name, strings.Join(params, ", "))
		}
		sections++
	}

	for _, fn := range m.Functions {
		if sections > 0 {
			p.writeLine("")
		}
		p.printFunction(fn)
		sections++
	}
}

// assignNames numbers unnamed arguments and instructions in layout order.
func (p *Printer) assignNames(fn *Function) {
	p.names = make(map[Value]string)
	slot := 0
	for _, a := range fn.Args {
		if a.Name() == "" {
			p.names[a] = "%" + strconv.Itoa(slot)
			slot++
		}
	}
	for _, inst := range fn.Instructions() {
		if inst.Name() == "" && !IsVoid(inst.Type()) {
			p.names[inst] = "%" + strconv.Itoa(slot)
			slot++
		}
	}
}

func (p *Printer) printFunction(fn *Function) {
	p.assignNames(fn)

	params := make([]string, len(fn.Args))
	for i, a := range fn.Args {
		params[i] = p.typedRef(a)
	}
	p.writeLine("define %s @%s(%s) {", fn.ReturnType, fn.Name, strings.Join(params, ", "))

	for _, b := range fn.blocks {
		p.writeLine("%s:", b.Label)
		p.indent++
		for _, inst := range b.insts {
			p.writeLine("%s", p.formatInstruction(inst))
		}
		p.indent--
	}
	p.writeLine("}")
	p.names = nil
}

func (p *Printer) ref(v Value) string {
	if v == nil {
		return "none"
	}
	if name, ok := p.names[v]; ok {
		return name
	}
	return v.Ref()
}

func (p *Printer) typedRef(v Value) string {
	if v == nil {
		return "metadata none"
	}
	return v.Type().String() + " " + p.ref(v)
}

func (p *Printer) refs(vals []Value) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = p.ref(v)
	}
	return strings.Join(parts, ", ")
}

func (p *Printer) typedRefs(vals []Value) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = p.typedRef(v)
	}
	return strings.Join(parts, ", ")
}

func indexList(indices []uint32) string {
	var sb strings.Builder
	for _, idx := range indices {
		sb.WriteString(", ")
		sb.WriteString(strconv.FormatUint(uint64(idx), 10))
	}
	return sb.String()
}

func (p *Printer) formatInstruction(i *Instruction) string {
	var lhs string
	if !IsVoid(i.Type()) {
		lhs = p.ref(i) + " = "
	}
	ops := i.Operands()

	var qual string
	if i.Volatile {
		qual += " volatile"
	}
	if i.Atomic {
		qual += " atomic"
	}

	switch {
	case i.Op.IsBinary():
		return fmt.Sprintf("%s%s %s %s", lhs, i.Op, i.Type(), p.refs(ops))
	case i.Op.IsCompare():
		return fmt.Sprintf("%s%s %s %s", lhs, i.Op, i.Pred, p.typedRefs(ops[:1])+", "+p.refs(ops[1:]))
	case i.Op.IsCast():
		return fmt.Sprintf("%s%s %s to %s", lhs, i.Op, p.typedRef(ops[0]), i.Type())
	}

	switch i.Op {
	case OpRet:
		if len(ops) == 0 {
			return "ret void"
		}
		return "ret " + p.typedRef(ops[0])
	case OpBr:
		if len(i.Targets) == 1 {
			return "br label %" + i.Targets[0].Label
		}
		return fmt.Sprintf("br %s, label %%%s, label %%%s", p.typedRef(ops[0]), i.Targets[0].Label, i.Targets[1].Label)
	case OpUnreachable:
		return "unreachable"
	case OpAlloca:
		return fmt.Sprintf("%salloca %s", lhs, i.ElemType)
	case OpLoad:
		return fmt.Sprintf("%sload%s %s, %s", lhs, qual, i.Type(), p.typedRefs(ops))
	case OpStore:
		return fmt.Sprintf("store%s %s", qual, p.typedRefs(ops))
	case OpGetElementPtr:
		return fmt.Sprintf("%sgetelementptr %s, %s", lhs, i.ElemType, p.typedRefs(ops))
	case OpPhi:
		pairs := make([]string, len(ops))
		for n, v := range ops {
			pairs[n] = fmt.Sprintf("[ %s, %%%s ]", p.ref(v), i.Incoming[n].Label)
		}
		return fmt.Sprintf("%sphi %s %s", lhs, i.Type(), strings.Join(pairs, ", "))
	case OpSelect, OpExtractElement, OpInsertElement:
		return fmt.Sprintf("%s%s %s", lhs, i.Op, p.typedRefs(ops))
	case OpExtractValue, OpInsertValue:
		return fmt.Sprintf("%s%s %s%s", lhs, i.Op, p.typedRefs(ops), indexList(i.Indices))
	case OpCall:
		args := make([]string, len(ops))
		for n, v := range ops {
			if i.Intrinsic.IsDebugMarker() {
				args[n] = "metadata " + p.ref(v)
			} else {
				args[n] = p.typedRef(v)
			}
		}
		return fmt.Sprintf("%scall %s @%s(%s)", lhs, i.Type(), i.Callee, strings.Join(args, ", "))
	case OpLandingPad:
		return fmt.Sprintf("%slandingpad %s", lhs, i.Type())
	}
	return fmt.Sprintf("%s%s %s", lhs, i.Op, p.typedRefs(ops))
}
