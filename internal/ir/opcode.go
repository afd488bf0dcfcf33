package ir

import (
	"slices"
	"strings"
)

// Opcode identifies the operation an instruction performs.
// Real opcodes are small non-negative integers.
type Opcode uint32

const (
	OpInvalid Opcode = iota

	// Terminators
	OpRet
	OpBr
	OpUnreachable

	// Binary operators
	OpAdd
	OpFAdd
	OpSub
	OpFSub
	OpMul
	OpFMul
	OpUDiv
	OpSDiv
	OpFDiv
	OpURem
	OpSRem
	OpFRem
	OpShl
	OpLShr
	OpAShr
	OpAnd
	OpOr
	OpXor

	// Memory
	OpAlloca
	OpLoad
	OpStore
	OpGetElementPtr

	// Casts
	OpTrunc
	OpZExt
	OpSExt
	OpBitcast
	OpPtrToInt
	OpIntToPtr

	// Other
	OpICmp
	OpFCmp
	OpPhi
	OpSelect
	OpCall
	OpExtractElement
	OpInsertElement
	OpExtractValue
	OpInsertValue
	OpLandingPad

	opcodeCount
)

var opcodeNames = [...]string{
	OpInvalid:        "<invalid>",
	OpRet:            "ret",
	OpBr:             "br",
	OpUnreachable:    "unreachable",
	OpAdd:            "add",
	OpFAdd:           "fadd",
	OpSub:            "sub",
	OpFSub:           "fsub",
	OpMul:            "mul",
	OpFMul:           "fmul",
	OpUDiv:           "udiv",
	OpSDiv:           "sdiv",
	OpFDiv:           "fdiv",
	OpURem:           "urem",
	OpSRem:           "srem",
	OpFRem:           "frem",
	OpShl:            "shl",
	OpLShr:           "lshr",
	OpAShr:           "ashr",
	OpAnd:            "and",
	OpOr:             "or",
	OpXor:            "xor",
	OpAlloca:         "alloca",
	OpLoad:           "load",
	OpStore:          "store",
	OpGetElementPtr:  "getelementptr",
	OpTrunc:          "trunc",
	OpZExt:           "zext",
	OpSExt:           "sext",
	OpBitcast:        "bitcast",
	OpPtrToInt:       "ptrtoint",
	OpIntToPtr:       "inttoptr",
	OpICmp:           "icmp",
	OpFCmp:           "fcmp",
	OpPhi:            "phi",
	OpSelect:         "select",
	OpCall:           "call",
	OpExtractElement: "extractelement",
	OpInsertElement:  "insertelement",
	OpExtractValue:   "extractvalue",
	OpInsertValue:    "insertvalue",
	OpLandingPad:     "landingpad",
}

func (o Opcode) String() string {
	if o < opcodeCount {
		return opcodeNames[o]
	}
	return "<invalid>"
}

// ParseOpcode maps a mnemonic to its opcode.
func ParseOpcode(name string) (Opcode, bool) {
	for op := OpRet; op < opcodeCount; op++ {
		if opcodeNames[op] == name {
			return op, true
		}
	}
	return OpInvalid, false
}

// OpcodeNames lists every mnemonic the parser accepts.
func OpcodeNames() []string {
	names := make([]string, 0, int(opcodeCount)-1)
	for op := OpRet; op < opcodeCount; op++ {
		names = append(names, opcodeNames[op])
	}
	return names
}

func (o Opcode) IsTerminator() bool {
	return o == OpRet || o == OpBr || o == OpUnreachable
}

func (o Opcode) IsBinary() bool {
	return o >= OpAdd && o <= OpXor
}

func (o Opcode) IsShift() bool {
	return o == OpShl || o == OpLShr || o == OpAShr
}

func (o Opcode) IsCast() bool {
	return o >= OpTrunc && o <= OpIntToPtr
}

func (o Opcode) IsCompare() bool {
	return o == OpICmp || o == OpFCmp
}

// IsCommutative reports whether swapping the two operands leaves the result unchanged.
func (o Opcode) IsCommutative() bool {
	switch o {
	case OpAdd, OpFAdd, OpMul, OpFMul, OpAnd, OpOr, OpXor:
		return true
	}
	return false
}

// Predicate is the condition of an icmp or fcmp instruction.
type Predicate uint8

const (
	PredNone Predicate = iota

	ICmpEQ
	ICmpNE
	ICmpUGT
	ICmpUGE
	ICmpULT
	ICmpULE
	ICmpSGT
	ICmpSGE
	ICmpSLT
	ICmpSLE

	FCmpFalse
	FCmpOEQ
	FCmpOGT
	FCmpOGE
	FCmpOLT
	FCmpOLE
	FCmpONE
	FCmpORD
	FCmpUNO
	FCmpUEQ
	FCmpUGT
	FCmpUGE
	FCmpULT
	FCmpULE
	FCmpUNE
	FCmpTrue
)

var predicateNames = [...]string{
	PredNone:  "",
	ICmpEQ:    "eq",
	ICmpNE:    "ne",
	ICmpUGT:   "ugt",
	ICmpUGE:   "uge",
	ICmpULT:   "ult",
	ICmpULE:   "ule",
	ICmpSGT:   "sgt",
	ICmpSGE:   "sge",
	ICmpSLT:   "slt",
	ICmpSLE:   "sle",
	FCmpFalse: "false",
	FCmpOEQ:   "oeq",
	FCmpOGT:   "ogt",
	FCmpOGE:   "oge",
	FCmpOLT:   "olt",
	FCmpOLE:   "ole",
	FCmpONE:   "one",
	FCmpORD:   "ord",
	FCmpUNO:   "uno",
	FCmpUEQ:   "ueq",
	FCmpUGT:   "ugt",
	FCmpUGE:   "uge",
	FCmpULT:   "ult",
	FCmpULE:   "ule",
	FCmpUNE:   "une",
	FCmpTrue:  "true",
}

func (p Predicate) String() string {
	if int(p) < len(predicateNames) {
		return predicateNames[p]
	}
	return "<invalid>"
}

func (p Predicate) IsInteger() bool { return p >= ICmpEQ && p <= ICmpSLE }
func (p Predicate) IsFloat() bool   { return p >= FCmpFalse && p <= FCmpTrue }

// ParsePredicate resolves a predicate mnemonic for icmp or fcmp.
func ParsePredicate(op Opcode, name string) (Predicate, bool) {
	lo, hi := ICmpEQ, ICmpSLE
	if op == OpFCmp {
		lo, hi = FCmpFalse, FCmpTrue
	}
	for p := lo; p <= hi; p++ {
		if predicateNames[p] == name {
			return p, true
		}
	}
	return PredNone, false
}

// Swapped returns the predicate that holds when the operands are exchanged:
// a < b is the same comparison as b > a.
func (p Predicate) Swapped() Predicate {
	switch p {
	case ICmpUGT:
		return ICmpULT
	case ICmpULT:
		return ICmpUGT
	case ICmpUGE:
		return ICmpULE
	case ICmpULE:
		return ICmpUGE
	case ICmpSGT:
		return ICmpSLT
	case ICmpSLT:
		return ICmpSGT
	case ICmpSGE:
		return ICmpSLE
	case ICmpSLE:
		return ICmpSGE
	case FCmpOGT:
		return FCmpOLT
	case FCmpOLT:
		return FCmpOGT
	case FCmpOGE:
		return FCmpOLE
	case FCmpOLE:
		return FCmpOGE
	case FCmpUGT:
		return FCmpULT
	case FCmpULT:
		return FCmpUGT
	case FCmpUGE:
		return FCmpULE
	case FCmpULE:
		return FCmpUGE
	}
	return p
}

// Intrinsic identifies calls the optimizer understands by name.
type Intrinsic uint8

const (
	NotIntrinsic Intrinsic = iota
	IntrinsicLifetimeStart
	IntrinsicLifetimeEnd
	IntrinsicStackSave
	IntrinsicStackRestore
	IntrinsicAssume
	IntrinsicDbgDeclare
	IntrinsicDbgValue
)

var intrinsicNames = map[string]Intrinsic{
	"llvm.lifetime.start": IntrinsicLifetimeStart,
	"llvm.lifetime.end":   IntrinsicLifetimeEnd,
	"llvm.stacksave":      IntrinsicStackSave,
	"llvm.stackrestore":   IntrinsicStackRestore,
	"llvm.assume":         IntrinsicAssume,
	"llvm.dbg.declare":    IntrinsicDbgDeclare,
	"llvm.dbg.value":      IntrinsicDbgValue,
}

// LookupIntrinsic resolves a callee name, ignoring overload suffixes
// such as llvm.lifetime.start.p0.
func LookupIntrinsic(callee string) Intrinsic {
	if !strings.HasPrefix(callee, "llvm.") {
		return NotIntrinsic
	}
	for name := callee; name != "llvm"; {
		if id, ok := intrinsicNames[name]; ok {
			return id
		}
		dot := strings.LastIndexByte(name, '.')
		if dot < 0 {
			break
		}
		name = name[:dot]
	}
	return NotIntrinsic
}

// IntrinsicNames lists the intrinsics the optimizer recognizes.
func IntrinsicNames() []string {
	names := make([]string, 0, len(intrinsicNames))
	for name := range intrinsicNames {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsDebugMarker reports whether the intrinsic only carries debug metadata.
func (id Intrinsic) IsDebugMarker() bool {
	return id == IntrinsicDbgDeclare || id == IntrinsicDbgValue
}
