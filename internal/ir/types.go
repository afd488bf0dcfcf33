package ir

import (
	"fmt"
	"strings"
)

// Type is the result or operand type of a value.
// Types are structural: two types are identical when they print the same.
type Type interface {
	String() string
}

type VoidType struct{}

type IntType struct {
	Bits int
}

type FloatType struct {
	Bits int
}

type PtrType struct{}

type LabelType struct{}

type MetadataType struct{}

type TokenType struct{}

type VectorType struct {
	Len  int
	Elem Type
}

type ArrayType struct {
	Len  int
	Elem Type
}

type StructType struct {
	Fields []Type
}

var (
	Void     Type = &VoidType{}
	I1       Type = &IntType{Bits: 1}
	I8       Type = &IntType{Bits: 8}
	I32      Type = &IntType{Bits: 32}
	I64      Type = &IntType{Bits: 64}
	Ptr      Type = &PtrType{}
	Label    Type = &LabelType{}
	Metadata Type = &MetadataType{}
	Token    Type = &TokenType{}
)

func (v *VoidType) String() string     { return "void" }
func (i *IntType) String() string      { return fmt.Sprintf("i%d", i.Bits) }
func (p *PtrType) String() string      { return "ptr" }
func (l *LabelType) String() string    { return "label" }
func (m *MetadataType) String() string { return "metadata" }
func (t *TokenType) String() string    { return "token" }

func (f *FloatType) String() string {
	switch f.Bits {
	case 16:
		return "half"
	case 32:
		return "float"
	default:
		return "double"
	}
}

func (v *VectorType) String() string { return fmt.Sprintf("<%d x %s>", v.Len, v.Elem) }
func (a *ArrayType) String() string  { return fmt.Sprintf("[%d x %s]", a.Len, a.Elem) }

func (s *StructType) String() string {
	fields := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		fields[i] = f.String()
	}
	return "{" + strings.Join(fields, ", ") + "}"
}

// SameType reports whether a and b denote the same type.
func SameType(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a == b || a.String() == b.String()
}

// IsVoid reports whether t is the void type.
func IsVoid(t Type) bool {
	_, ok := t.(*VoidType)
	return ok
}

// IntBits returns the width of an integer type, or 0.
func IntBits(t Type) int {
	if it, ok := t.(*IntType); ok {
		return it.Bits
	}
	return 0
}

// ElementType walks an aggregate type along extractvalue/insertvalue indices.
func ElementType(t Type, indices []uint32) (Type, error) {
	for _, idx := range indices {
		switch agg := t.(type) {
		case *StructType:
			if int(idx) >= len(agg.Fields) {
				return nil, fmt.Errorf("index %d out of range for %s", idx, agg)
			}
			t = agg.Fields[idx]
		case *ArrayType:
			if int(idx) >= agg.Len {
				return nil, fmt.Errorf("index %d out of range for %s", idx, agg)
			}
			t = agg.Elem
		default:
			return nil, fmt.Errorf("type %s is not an aggregate", t)
		}
	}
	return t, nil
}
