package lifecycle

import "strings"

// Scope is the binding scope a renderable evaluates expressions against: a
// binding context plus an optional parent chain for outer scopes.
type Scope struct {
	// BindingContext is the value expressions resolve property paths on.
	BindingContext any
	// Override holds names that shadow the binding context.
	Override map[string]any
	// Parent is consulted when neither override nor context knows a name.
	Parent *Scope
}

// NewScope wraps a binding context in a scope.
func NewScope(bindingContext any) *Scope {
	return &Scope{BindingContext: bindingContext}
}

// NewChildScope creates a scope whose misses fall back to parent.
func NewChildScope(bindingContext any, parent *Scope) *Scope {
	return &Scope{BindingContext: bindingContext, Parent: parent}
}

// Lookup resolves a dotted property path against the scope chain. Map
// contexts are traversed per segment; anything else only matches the empty
// path ("$this").
func (s *Scope) Lookup(path string) (any, bool) {
	for scope := s; scope != nil; scope = scope.Parent {
		if v, ok := scope.lookupLocal(path); ok {
			return v, true
		}
	}
	return nil, false
}

func (s *Scope) lookupLocal(path string) (any, bool) {
	if path == "" || path == "$this" {
		// A map context may carry the component instance under "$this";
		// that entry is the self reference, not the property bag itself.
		if m, ok := s.BindingContext.(map[string]any); ok {
			if v, ok := m["$this"]; ok {
				return v, true
			}
		}
		return s.BindingContext, true
	}
	segments := strings.Split(path, ".")
	if s.Override != nil {
		if v, ok := s.Override[segments[0]]; ok {
			return descend(v, segments[1:])
		}
	}
	return descend(s.BindingContext, segments)
}

func descend(v any, segments []string) (any, bool) {
	for _, seg := range segments {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		if v, ok = m[seg]; !ok {
			return nil, false
		}
	}
	return v, true
}
