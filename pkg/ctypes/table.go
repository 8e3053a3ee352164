package ctypes

import "sort"

// TypeTable tracks typedef names across lexical scopes. The table
// always holds at least the global scope; lookups walk from the
// innermost scope outward so inner typedefs shadow outer ones.
//
// The table is not safe for concurrent use; callers that parse in
// parallel use one table per parse.
type TypeTable struct {
	scopes []map[string]Type
}

// NewTypeTable creates a table holding only the global scope.
func NewTypeTable() *TypeTable {
	return &TypeTable{scopes: []map[string]Type{{}}}
}

// PushScope opens a new innermost scope.
func (t *TypeTable) PushScope() {
	t.scopes = append(t.scopes, map[string]Type{})
}

// PopScope discards the innermost scope. Popping the global scope is
// a programming error and panics.
func (t *TypeTable) PopScope() {
	if len(t.scopes) <= 1 {
		panic("ctypes: cannot pop the global scope")
	}
	t.scopes = t.scopes[:len(t.scopes)-1]
}

// ScopeDepth returns the number of open scopes, 1 meaning only the
// global scope.
func (t *TypeTable) ScopeDepth() int {
	return len(t.scopes)
}

// Register binds name to typ in the innermost scope.
func (t *TypeTable) Register(name string, typ Type) {
	t.scopes[len(t.scopes)-1][name] = typ
}

// IsTypeName reports whether name is visible from the innermost scope.
func (t *TypeTable) IsTypeName(name string) bool {
	_, ok := t.Lookup(name)
	return ok
}

// Lookup resolves name from the innermost scope outward.
func (t *TypeTable) Lookup(name string) (Type, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if typ, ok := t.scopes[i][name]; ok {
			return typ, true
		}
	}
	return Type{}, false
}

// Remove deletes the innermost binding for name and reports whether
// one existed.
func (t *TypeTable) Remove(name string) bool {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if _, ok := t.scopes[i][name]; ok {
			delete(t.scopes[i], name)
			return true
		}
	}
	return false
}

// Clear resets the table to a single empty global scope.
func (t *TypeTable) Clear() {
	t.scopes = []map[string]Type{{}}
}

// Len counts bindings across all scopes, shadowed names included.
func (t *TypeTable) Len() int {
	n := 0
	for _, scope := range t.scopes {
		n += len(scope)
	}
	return n
}

// IsEmpty reports whether no typedef is registered anywhere.
func (t *TypeTable) IsEmpty() bool {
	return t.Len() == 0
}

// AllNames returns every visible typedef name once, sorted.
func (t *TypeTable) AllNames() []string {
	seen := map[string]bool{}
	var out []string
	for _, scope := range t.scopes {
		for name := range scope {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	sort.Strings(out)
	return out
}
