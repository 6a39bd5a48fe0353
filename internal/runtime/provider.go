package runtime

import (
	"github.com/lumen-ui/lumen/internal/container"
	"github.com/lumen-ui/lumen/internal/errors"
	"github.com/lumen-ui/lumen/internal/types"
)

// InstanceProvider is a scoped resolver holding a single "current" value so
// nested construction can resolve "the current X" without threading it
// through every call. The value is container-scoped, not ambient:
// independent render contexts never interfere.
//
// Unset is distinct from prepared-with-nil: preparing nil is valid, while
// resolving an unset provider is a programming-contract violation.
type InstanceProvider struct {
	key   ContextKey
	value any
	set   bool
}

// NewInstanceProvider creates an unset provider for the given key.
func NewInstanceProvider(key ContextKey) *InstanceProvider {
	return &InstanceProvider{key: key}
}

// Prepare sets the current value. Nil is a legitimate prepared value.
func (p *InstanceProvider) Prepare(value any) {
	p.value = value
	p.set = true
}

// Resolve returns the current value; resolving before any Prepare is fatal.
func (p *InstanceProvider) Resolve(_, _ *container.Container) (any, error) {
	if !p.set {
		return nil, errors.ErrProviderUnset(string(p.key))
	}
	return p.value, nil
}

// Dispose clears the provider back to unset.
func (p *InstanceProvider) Dispose() {
	p.value = nil
	p.set = false
}

// ViewFactoryProvider is the specialized provider for the current view
// factory. It holds the default factory plus the replaceable-parts mapping;
// resolution substitutes a replacement definition's factory when the parts
// map names the default factory, routed through the engine so replacements
// share the single-compile-per-definition cache.
type ViewFactoryProvider struct {
	engine       *RenderingEngine
	factory      *ViewFactory
	replacements types.PartsMap
	set          bool
}

// NewViewFactoryProvider creates an unset provider bound to the engine.
func NewViewFactoryProvider(engine *RenderingEngine) *ViewFactoryProvider {
	return &ViewFactoryProvider{engine: engine}
}

// Prepare sets the default factory and the replacement mapping.
func (p *ViewFactoryProvider) Prepare(factory *ViewFactory, parts types.PartsMap) {
	p.factory = factory
	p.replacements = parts
	p.set = true
}

// Resolve returns the replacement factory for the default factory's name
// when one is mapped, else the default factory unchanged.
func (p *ViewFactoryProvider) Resolve(_, requestor *container.Container) (any, error) {
	if !p.set {
		return nil, errors.ErrProviderUnset(string(KeyViewFactory))
	}
	if p.factory == nil || p.factory.Name() == "" {
		return nil, errors.ErrFactoryUnnamed()
	}
	if replacement, ok := p.replacements[p.factory.Name()]; ok {
		return p.engine.GetViewFactory(replacement, requestor)
	}
	return p.factory, nil
}

// Dispose clears the provider back to unset.
func (p *ViewFactoryProvider) Dispose() {
	p.factory = nil
	p.replacements = nil
	p.set = false
}
