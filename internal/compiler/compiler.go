// Package compiler turns declarative template definitions into finalized,
// instruction-bearing definitions the rendering engine can instantiate.
// Compilers are pluggable and named; the rendering engine resolves them
// from a registry populated once at construction.
package compiler

import (
	"github.com/lumen-ui/lumen/internal/errors"
	"github.com/lumen-ui/lumen/internal/types"
)

// ResourceFinder is the read-only resource view handed to compilers so they
// can reason about available elements, attributes and converters without
// triggering eager instantiation.
type ResourceFinder interface {
	// Find returns a registered resource's description, or nil if absent.
	Find(kind types.ResourceKind, name string) *types.ResourceDescription
	// Create returns an instantiated resource only if registered locally.
	Create(kind types.ResourceKind, name string) (any, bool)
}

// Compiler compiles a definition's markup payload into targeted
// instructions, returning a finalized definition with the build flag
// cleared. Implementations never mutate the input definition.
type Compiler interface {
	Name() string
	Compile(def *types.TemplateDefinition, resources ResourceFinder, flags types.CompileFlags) (*types.TemplateDefinition, error)
}

// Registry maps compiler names to compilers. It is built once and read-only
// afterwards, so lookups need no locking.
type Registry struct {
	compilers map[string]Compiler
}

// NewRegistry indexes the given compilers by name. A later compiler with a
// duplicate name replaces an earlier one.
func NewRegistry(compilers ...Compiler) *Registry {
	index := make(map[string]Compiler, len(compilers))
	for _, c := range compilers {
		if c != nil {
			index[c.Name()] = c
		}
	}
	return &Registry{compilers: index}
}

// Get resolves a compiler by name. The empty name selects the default
// compiler. An unregistered name is a configuration error carrying the
// offending name.
func (r *Registry) Get(name string) (Compiler, error) {
	if name == "" {
		name = types.DefaultCompilerName
	}
	c, ok := r.compilers[name]
	if !ok {
		return nil, errors.ErrUnknownCompiler(name)
	}
	return c, nil
}

// Has reports whether a compiler is registered under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.compilers[name]
	return ok
}

// Names returns the registered compiler names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.compilers))
	for name := range r.compilers {
		names = append(names, name)
	}
	return names
}
