package runtime

import (
	"github.com/lumen-ui/lumen/internal/container"
	"github.com/lumen-ui/lumen/internal/types"
)

// TypeResolver resolves a registered component type to a fresh instance and
// exposes its metadata without instantiation, which is what the resource
// lookup adapter needs.
type TypeResolver struct {
	ComponentType *types.ComponentType
}

// Resolve constructs a new instance of the component type. Resolution is
// transient: every hydration gets its own instance.
func (r *TypeResolver) Resolve(_, _ *container.Container) (any, error) {
	if r.ComponentType.Constructor != nil {
		return r.ComponentType.Constructor(), nil
	}
	return r.ComponentType, nil
}

// ResourceLookup is the thin read-only adapter over a resolution context
// handed to compilers: it describes registered resources without eager
// instantiation.
type ResourceLookup struct {
	ctx *container.Container
}

// NewResourceLookup wraps a container in a resource lookup adapter.
func NewResourceLookup(ctx *container.Container) *ResourceLookup {
	return &ResourceLookup{ctx: ctx}
}

// Find looks up a registered resource's description without instantiating
// it. Returns nil if the key is absent or the resolver carries no metadata.
func (l *ResourceLookup) Find(kind types.ResourceKind, name string) *types.ResourceDescription {
	resolver := l.ctx.GetResolver(types.ResourceKey(kind, name), true)
	if resolver == nil {
		return nil
	}
	tr, ok := resolver.(*TypeResolver)
	if !ok {
		return nil
	}
	return tr.ComponentType.Description()
}

// Create returns an instantiated resource only if registered locally; it
// never falls back to ancestor scopes.
func (l *ResourceLookup) Create(kind types.ResourceKind, name string) (any, bool) {
	key := types.ResourceKey(kind, name)
	if !l.ctx.Has(key, false) {
		return nil, false
	}
	v, err := l.ctx.GetLocal(key)
	if err != nil {
		return nil, false
	}
	return v, true
}

// ComponentTypeFor returns the full component type registered for kind and
// name in the context's scope, used by the renderer during hydration.
func (l *ResourceLookup) ComponentTypeFor(kind types.ResourceKind, name string) (*types.ComponentType, bool) {
	resolver := l.ctx.GetResolver(types.ResourceKey(kind, name), true)
	if resolver == nil {
		return nil, false
	}
	tr, ok := resolver.(*TypeResolver)
	if !ok {
		return nil, false
	}
	return tr.ComponentType, true
}
