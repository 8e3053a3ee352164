package ctypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLookup(t *testing.T) {
	table := NewTypeTable()
	assert.True(t, table.IsEmpty())

	table.Register("u8", Type{Base: BaseUnsigned})
	require.True(t, table.IsTypeName("u8"))

	typ, ok := table.Lookup("u8")
	require.True(t, ok)
	assert.Equal(t, BaseUnsigned, typ.Base)

	_, ok = table.Lookup("unknown")
	assert.False(t, ok)
}

func TestScopeShadowing(t *testing.T) {
	table := NewTypeTable()
	table.Register("T", Type{Base: BaseInt})

	table.PushScope()
	table.Register("T", Type{Base: BaseChar})

	typ, ok := table.Lookup("T")
	require.True(t, ok)
	assert.Equal(t, BaseChar.String(), typ.Base.String(), "inner scope should shadow outer")
	assert.Equal(t, 2, table.Len(), "shadowed bindings still count")

	table.PopScope()
	typ, ok = table.Lookup("T")
	require.True(t, ok)
	assert.Equal(t, BaseInt, typ.Base, "outer binding should be visible again")
}

func TestInnerScopeDiscardedOnPop(t *testing.T) {
	table := NewTypeTable()
	table.PushScope()
	table.Register("Local", Int())
	require.True(t, table.IsTypeName("Local"))

	table.PopScope()
	assert.False(t, table.IsTypeName("Local"))
	assert.Equal(t, 1, table.ScopeDepth())
}

func TestPopGlobalScopePanics(t *testing.T) {
	table := NewTypeTable()
	assert.Panics(t, func() { table.PopScope() })
}

func TestRemove(t *testing.T) {
	table := NewTypeTable()
	table.Register("T", Int())

	table.PushScope()
	table.Register("T", Type{Base: BaseChar})

	// Remove only deletes the innermost binding.
	require.True(t, table.Remove("T"))
	typ, ok := table.Lookup("T")
	require.True(t, ok)
	assert.Equal(t, BaseInt, typ.Base)

	assert.False(t, table.Remove("missing"))
}

func TestClear(t *testing.T) {
	table := NewTypeTable()
	table.Register("A", Int())
	table.PushScope()
	table.Register("B", Int())

	table.Clear()
	assert.True(t, table.IsEmpty())
	assert.Equal(t, 1, table.ScopeDepth())
}

func TestAllNames(t *testing.T) {
	table := NewTypeTable()
	table.Register("Zeta", Int())
	table.Register("Alpha", Int())
	table.PushScope()
	table.Register("Alpha", Type{Base: BaseChar})
	table.Register("Mid", Int())

	assert.Equal(t, []string{"Alpha", "Mid", "Zeta"}, table.AllNames())
}
