package ir

import (
	"slices"

	"github.com/holiman/uint256"
)

// Value is anything an operand slot can reference: instructions, function
// arguments, globals and constants.
type Value interface {
	Type() Type
	Name() string
	// Ref is the operand form of the value: %x, @g, 42, undef.
	Ref() string
	Uses() []*Use
	NumUses() int
	HasUses() bool
	base() *valueBase
}

type valueBase struct {
	name string
	typ  Type
	uses []*Use
}

func (v *valueBase) Type() Type       { return v.typ }
func (v *valueBase) Name() string     { return v.name }
func (v *valueBase) NumUses() int     { return len(v.uses) }
func (v *valueBase) HasUses() bool    { return len(v.uses) > 0 }
func (v *valueBase) base() *valueBase { return v }

// Uses returns a snapshot of the operand slots referencing the value.
func (v *valueBase) Uses() []*Use {
	return slices.Clone(v.uses)
}

// Users returns the distinct instructions referencing the value.
func Users(v Value) []*Instruction {
	var users []*Instruction
	for _, u := range v.base().uses {
		if !slices.Contains(users, u.user) {
			users = append(users, u.user)
		}
	}
	return users
}

func (v *valueBase) addUse(u *Use) {
	v.uses = append(v.uses, u)
}

func (v *valueBase) removeUse(u *Use) {
	if i := slices.Index(v.uses, u); i >= 0 {
		v.uses = slices.Delete(v.uses, i, i+1)
	}
}

// Use is one operand slot of an instruction. It contributes to the use
// count of the value it references.
type Use struct {
	val   Value
	user  *Instruction
	index int
}

func (u *Use) Value() Value       { return u.val }
func (u *Use) User() *Instruction { return u.user }
func (u *Use) OperandIndex() int  { return u.index }
func (u *Use) IsDetached() bool   { return u.val == nil }

func (u *Use) set(v Value) {
	if u.val != nil {
		u.val.base().removeUse(u)
	}
	u.val = v
	if v != nil {
		v.base().addUse(u)
	}
}

// ReplaceAllUsesWith rewrites every operand slot referencing old to reference repl.
func ReplaceAllUsesWith(old, repl Value) {
	if old == repl {
		panic("ir: replacing a value with itself")
	}
	if !SameType(old.Type(), repl.Type()) {
		panic("ir: replacement of " + old.Ref() + " changes type " + old.Type().String() + " to " + repl.Type().String())
	}
	b := old.base()
	uses := b.uses
	b.uses = nil
	for _, u := range uses {
		u.val = repl
		repl.base().addUse(u)
	}
}

// Argument is a formal parameter of a function.
type Argument struct {
	valueBase
	Parent *Function
	Index  int
}

func NewArgument(name string, t Type) *Argument {
	return &Argument{valueBase: valueBase{name: name, typ: t}}
}

func (a *Argument) Ref() string { return "%" + a.name }

// Global is a module-level variable; its value is the address of the storage.
type Global struct {
	valueBase
	ValueType Type
}

func (g *Global) Ref() string { return "@" + g.name }

type constKind uint8

const (
	constInt constKind = iota
	constUndef
	constNull
)

// Constant is a uniqued immediate value. Integer payloads are stored truncated
// to the width of their type.
type Constant struct {
	valueBase
	kind constKind
	val  uint256.Int
}

type constKey struct {
	typ  string
	kind constKind
	val  uint256.Int
}

func (c *Constant) IsUndef() bool { return c.kind == constUndef }
func (c *Constant) IsNull() bool  { return c.kind == constNull }
func (c *Constant) IsInt() bool   { return c.kind == constInt }

// IsZero reports whether the constant is the integer zero or null.
func (c *Constant) IsZero() bool {
	return c.kind == constNull || (c.kind == constInt && c.val.IsZero())
}

// Int returns a copy of the integer payload.
func (c *Constant) Int() *uint256.Int {
	return new(uint256.Int).Set(&c.val)
}

// Uint64 returns the payload when it fits in 64 bits.
func (c *Constant) Uint64() (uint64, bool) {
	if c.kind != constInt || !c.val.IsUint64() {
		return 0, false
	}
	return c.val.Uint64(), true
}

func (c *Constant) Ref() string {
	switch c.kind {
	case constUndef:
		return "undef"
	case constNull:
		return "null"
	}
	if IntBits(c.typ) == 1 {
		if c.val.IsZero() {
			return "false"
		}
		return "true"
	}
	return c.val.Dec()
}

// Truncate masks v to the low bits of an integer type of the given width.
func Truncate(v *uint256.Int, bits int) *uint256.Int {
	if bits <= 0 || bits >= 256 {
		return v
	}
	mask := new(uint256.Int).Lsh(uint256.NewInt(1), uint(bits))
	mask.SubUint64(mask, 1)
	return v.And(v, mask)
}
