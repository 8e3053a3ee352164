// Package ctypes models the C type information the front-end tracks:
// base types, qualifiers, pointer layers and the typedef scope table.
package ctypes

import (
	"strings"

	"cguide/pkg/span"
)

// BaseType is the fundamental type a declaration bottoms out at.
type BaseType int

const (
	BaseVoid BaseType = iota
	BaseChar
	BaseShort
	BaseInt
	BaseLong
	BaseLongLong
	BaseFloat
	BaseDouble
	BaseLongDouble
	BaseSigned
	BaseUnsigned
	BaseBool
	BaseStruct
	BaseUnion
	BaseEnum
)

var baseNames = map[BaseType]string{
	BaseVoid:       "void",
	BaseChar:       "char",
	BaseShort:      "short",
	BaseInt:        "int",
	BaseLong:       "long",
	BaseLongLong:   "long long",
	BaseFloat:      "float",
	BaseDouble:     "double",
	BaseLongDouble: "long double",
	BaseSigned:     "signed",
	BaseUnsigned:   "unsigned",
	BaseBool:       "_Bool",
	BaseStruct:     "struct",
	BaseUnion:      "union",
	BaseEnum:       "enum",
}

func (b BaseType) String() string {
	if name, ok := baseNames[b]; ok {
		return name
	}
	return "int"
}

// Qualifier is a C type qualifier.
type Qualifier int

const (
	QualConst Qualifier = iota
	QualVolatile
	QualRestrict
	QualAtomic
)

func (q Qualifier) String() string {
	switch q {
	case QualConst:
		return "const"
	case QualVolatile:
		return "volatile"
	case QualRestrict:
		return "restrict"
	case QualAtomic:
		return "_Atomic"
	}
	return ""
}

// PointerLayer is one level of indirection with its own qualifiers.
// Layers are ordered innermost first: for `const int *const *volatile`
// the first layer is the *const one. Span covers the asterisk and the
// qualifiers after it, relative to the source the type was parsed from.
type PointerLayer struct {
	Qualifiers []Qualifier
	Span       span.Span
}

// Type is a parsed C type: qualified base plus zero or more pointer
// layers. Tag carries the struct/union/enum tag when there is one.
type Type struct {
	Base       BaseType
	Tag        string
	Qualifiers []Qualifier
	Pointers   []PointerLayer
}

// Int returns the default type used when nothing better is known.
func Int() Type {
	return Type{Base: BaseInt}
}

// IsPointer reports whether the type has at least one pointer layer.
func (t Type) IsPointer() bool {
	return len(t.Pointers) > 0
}

// PointerDepth returns the number of pointer layers.
func (t Type) PointerDepth() int {
	return len(t.Pointers)
}

// HasQualifier reports whether q appears among the base qualifiers.
func (t Type) HasQualifier(q Qualifier) bool {
	for _, have := range t.Qualifiers {
		if have == q {
			return true
		}
	}
	return false
}

// IsVoid reports a plain, non-pointer void type.
func (t Type) IsVoid() bool {
	return t.Base == BaseVoid && !t.IsPointer()
}

// String renders the type in declaration order, e.g.
// `const int *const *volatile`.
func (t Type) String() string {
	var b strings.Builder
	for _, q := range t.Qualifiers {
		b.WriteString(q.String())
		b.WriteByte(' ')
	}
	b.WriteString(t.Base.String())
	if t.Tag != "" && (t.Base == BaseStruct || t.Base == BaseUnion || t.Base == BaseEnum) {
		b.WriteByte(' ')
		b.WriteString(t.Tag)
	}
	for _, layer := range t.Pointers {
		b.WriteString(" *")
		for i, q := range layer.Qualifiers {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(q.String())
		}
	}
	return b.String()
}
