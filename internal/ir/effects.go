package ir

// Effects describe what an instruction does besides producing its value.
// The optimizer only needs a coarse classification: pure computation,
// memory access, calls and control transfer.

type Effect interface {
	EffectKind() string
}

// PureEffect indicates no side effects
type PureEffect struct{}

func (p *PureEffect) EffectKind() string { return "pure" }

// MemoryEffectType categorizes memory access patterns
type MemoryEffectType string

const (
	MemoryEffectRead     MemoryEffectType = "read"
	MemoryEffectWrite    MemoryEffectType = "write"
	MemoryEffectAllocate MemoryEffectType = "allocate"
)

// MemoryEffect is an access to stack or heap memory. Volatile covers both
// volatile and atomic accesses, which must never be dropped.
type MemoryEffect struct {
	Type     MemoryEffectType
	Volatile bool
}

func (m *MemoryEffect) EffectKind() string { return "memory" }

// CallEffect is a call to a function whose body is opaque to the optimizer.
type CallEffect struct {
	Callee string
}

func (c *CallEffect) EffectKind() string { return "call" }

// IntrinsicEffect is a call to a recognized intrinsic that affects state
// outside the SSA graph: stack layout, object lifetimes or assumptions.
type IntrinsicEffect struct {
	ID Intrinsic
}

func (e *IntrinsicEffect) EffectKind() string { return "intrinsic" }

// ControlEffect marks terminators and exception landing pads.
type ControlEffect struct{}

func (c *ControlEffect) EffectKind() string { return "control" }

// Effects returns the effects of the instruction.
func (i *Instruction) Effects() []Effect {
	switch i.Op {
	case OpRet, OpBr, OpUnreachable, OpLandingPad:
		return []Effect{&ControlEffect{}}
	case OpAlloca:
		return []Effect{&MemoryEffect{Type: MemoryEffectAllocate}}
	case OpLoad:
		return []Effect{&MemoryEffect{Type: MemoryEffectRead, Volatile: i.Volatile || i.Atomic}}
	case OpStore:
		return []Effect{&MemoryEffect{Type: MemoryEffectWrite, Volatile: i.Volatile || i.Atomic}}
	case OpCall:
		switch {
		case i.Intrinsic.IsDebugMarker():
			return []Effect{&PureEffect{}}
		case i.Intrinsic != NotIntrinsic:
			return []Effect{&IntrinsicEffect{ID: i.Intrinsic}}
		}
		return []Effect{
			&CallEffect{Callee: i.Callee},
			&MemoryEffect{Type: MemoryEffectRead},
			&MemoryEffect{Type: MemoryEffectWrite},
		}
	}
	return []Effect{&PureEffect{}}
}

// MayHaveSideEffects reports whether removing an unused instance of the
// instruction could change observable behaviour. Allocation and plain
// reads are not side effects.
func (i *Instruction) MayHaveSideEffects() bool {
	for _, e := range i.Effects() {
		switch e := e.(type) {
		case *PureEffect:
		case *MemoryEffect:
			if e.Type == MemoryEffectWrite || e.Volatile {
				return true
			}
		default:
			return true
		}
	}
	return false
}

func (i *Instruction) MayReadMemory() bool {
	return i.hasMemoryEffect(MemoryEffectRead)
}

func (i *Instruction) MayWriteMemory() bool {
	return i.hasMemoryEffect(MemoryEffectWrite)
}

func (i *Instruction) hasMemoryEffect(t MemoryEffectType) bool {
	for _, e := range i.Effects() {
		switch e := e.(type) {
		case *MemoryEffect:
			if e.Type == t {
				return true
			}
		case *IntrinsicEffect:
			return true
		}
	}
	return false
}

// IsPure reports whether the instruction only computes its result.
func (i *Instruction) IsPure() bool {
	for _, e := range i.Effects() {
		if _, ok := e.(*PureEffect); !ok {
			return false
		}
	}
	return true
}
