package ctypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeString(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		want string
	}{
		{"plain int", Int(), "int"},
		{"const char", Type{Base: BaseChar, Qualifiers: []Qualifier{QualConst}}, "const char"},
		{"char pointer", Type{Base: BaseChar, Pointers: []PointerLayer{{}}}, "char *"},
		{
			"double pointer with layer qualifiers",
			Type{
				Base:       BaseInt,
				Qualifiers: []Qualifier{QualConst},
				Pointers: []PointerLayer{
					{Qualifiers: []Qualifier{QualConst}},
					{Qualifiers: []Qualifier{QualVolatile}},
				},
			},
			"const int *const *volatile",
		},
		{"struct with tag", Type{Base: BaseStruct, Tag: "Point"}, "struct Point"},
		{"enum with tag", Type{Base: BaseEnum, Tag: "Color"}, "enum Color"},
		{"atomic bool", Type{Base: BaseBool, Qualifiers: []Qualifier{QualAtomic}}, "_Atomic _Bool"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.String())
		})
	}
}

func TestPointerPredicates(t *testing.T) {
	scalar := Int()
	assert.False(t, scalar.IsPointer())
	assert.Equal(t, 0, scalar.PointerDepth())

	triple := Type{Base: BaseChar, Pointers: []PointerLayer{{}, {}, {}}}
	assert.True(t, triple.IsPointer())
	assert.Equal(t, 3, triple.PointerDepth())
}

func TestIsVoid(t *testing.T) {
	assert.True(t, Type{Base: BaseVoid}.IsVoid())
	assert.False(t, Type{Base: BaseVoid, Pointers: []PointerLayer{{}}}.IsVoid())
	assert.False(t, Int().IsVoid())
}

func TestHasQualifier(t *testing.T) {
	typ := Type{Base: BaseInt, Qualifiers: []Qualifier{QualConst, QualVolatile}}
	assert.True(t, typ.HasQualifier(QualConst))
	assert.True(t, typ.HasQualifier(QualVolatile))
	assert.False(t, typ.HasQualifier(QualRestrict))
}
