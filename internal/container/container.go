// Package container provides the hierarchical dependency-resolution context
// underneath the Lumen rendering runtime. Containers form a tree mirroring
// the component hierarchy: child lookups fall back to ancestors unless a
// caller asks for local-only resolution, and any resolver can be swapped
// temporarily with restore-to-default semantics.
package container

import (
	"fmt"
	"sync"

	"github.com/lumen-ui/lumen/internal/errors"
)

// Resolver produces a value for a registered key. The handler is the
// container the resolver was found in; the requestor is the container the
// lookup originated from, which lets scoped resolvers answer relative to the
// asking subtree.
type Resolver interface {
	Resolve(handler, requestor *Container) (any, error)
}

// Registerable is implemented by values that know how to register
// themselves into a container. Definition dependency lists are made of
// these.
type Registerable interface {
	Register(c *Container) error
}

// Container manages keyed resolver registrations with ancestor fallback.
type Container struct {
	parent    *Container
	resolvers map[any]Resolver
	mu        sync.RWMutex
}

// New creates a root container.
func New() *Container {
	return &Container{
		resolvers: make(map[any]Resolver),
	}
}

// CreateChild derives a child container whose lookups fall back to this one.
func (c *Container) CreateChild() *Container {
	return &Container{
		parent:    c,
		resolvers: make(map[any]Resolver),
	}
}

// Parent returns the container this one falls back to, or nil at the root.
func (c *Container) Parent() *Container {
	return c.parent
}

// RegisterInstance registers an existing value under key.
func (c *Container) RegisterInstance(key, value any) {
	c.RegisterResolver(key, instanceResolver{value: value})
}

// RegisterFactory registers a factory under key. Singleton factories
// memoize their first result.
func (c *Container) RegisterFactory(key any, factory FactoryFunc, singleton bool) {
	c.RegisterResolver(key, &factoryResolver{factory: factory, singleton: singleton})
}

// FactoryFunc creates a value using the requesting container for
// dependency resolution.
type FactoryFunc func(requestor *Container) (any, error)

// RegisterResolver registers a resolver under key, replacing any prior
// registration at this container.
func (c *Container) RegisterResolver(key any, r Resolver) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resolvers[key] = r
}

// SwapResolver installs r under key and returns a restore function that
// reinstates the previous registration (or removes the key if there was
// none). This is the override-with-restore-to-default primitive used for
// per-operation scratch resolvers.
func (c *Container) SwapResolver(key any, r Resolver) (restore func()) {
	c.mu.Lock()
	prev, had := c.resolvers[key]
	c.resolvers[key] = r
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if had {
			c.resolvers[key] = prev
		} else {
			delete(c.resolvers, key)
		}
	}
}

// Register bulk-registers items. Items implementing Registerable register
// themselves; anything else is rejected.
func (c *Container) Register(items ...any) error {
	for _, item := range items {
		reg, ok := item.(Registerable)
		if !ok {
			return errors.NewValidationError(errors.ErrCodeKeyNotRegistered,
				fmt.Sprintf("dependency %T does not implement Registerable", item))
		}
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Get resolves key, falling back through ancestors.
func (c *Container) Get(key any) (any, error) {
	return c.get(key, c, true)
}

// GetLocal resolves key without consulting ancestors.
func (c *Container) GetLocal(key any) (any, error) {
	return c.get(key, c, false)
}

func (c *Container) get(key any, requestor *Container, searchAncestors bool) (any, error) {
	for node := c; node != nil; node = node.parent {
		node.mu.RLock()
		r, ok := node.resolvers[key]
		node.mu.RUnlock()
		if ok {
			return r.Resolve(node, requestor)
		}
		if !searchAncestors {
			break
		}
	}
	return nil, errors.ErrKeyNotRegistered(fmt.Sprint(key))
}

// GetResolver returns the resolver registered under key without invoking
// it, walking ancestors when searchAncestors is set. Returns nil on a miss.
func (c *Container) GetResolver(key any, searchAncestors bool) Resolver {
	for node := c; node != nil; node = node.parent {
		node.mu.RLock()
		r, ok := node.resolvers[key]
		node.mu.RUnlock()
		if ok {
			return r
		}
		if !searchAncestors {
			break
		}
	}
	return nil
}

// Has reports whether key is registered, optionally searching ancestors.
func (c *Container) Has(key any, searchAncestors bool) bool {
	return c.GetResolver(key, searchAncestors) != nil
}

// instanceResolver resolves to a fixed value.
type instanceResolver struct {
	value any
}

func (r instanceResolver) Resolve(_, _ *Container) (any, error) {
	return r.value, nil
}

// factoryResolver defers creation to a factory, optionally memoizing the
// first result. Re-entrant resolution of the same factory is a cycle.
type factoryResolver struct {
	factory   FactoryFunc
	singleton bool

	mu        sync.Mutex
	resolved  bool
	resolving bool
	instance  any
}

func (r *factoryResolver) Resolve(_, requestor *Container) (any, error) {
	r.mu.Lock()
	if r.resolved {
		defer r.mu.Unlock()
		return r.instance, nil
	}
	if r.resolving {
		r.mu.Unlock()
		return nil, errors.NewContractError(errors.ErrCodeCircularResolution,
			"circular resolution detected")
	}
	r.resolving = true
	r.mu.Unlock()

	instance, err := r.factory(requestor)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolving = false
	if err != nil {
		return nil, err
	}
	if r.singleton {
		r.resolved = true
		r.instance = instance
	}
	return instance, nil
}
