// Package types provides the shared data model for the Lumen runtime.
// This package contains shared types to avoid circular dependencies between packages.
package types

import "sync/atomic"

// DefaultCompilerName is the compiler resolved when a definition does not
// name one explicitly.
const DefaultCompilerName = "default"

// definitionSeq hands out stable opaque identifiers for definitions. Cache
// keys are derived from these identifiers rather than pointer identity.
var definitionSeq uint64

// TemplateDefinition is the immutable declarative description of a view:
// its markup payload, declared dependencies, the compiler that understands
// the payload, and instantiation metadata. A definition is authored once
// (by hand or as compiler output) and never mutated after first use; the
// runtime treats it as the cache granularity for compilation.
type TemplateDefinition struct {
	// ID is an opaque identifier assigned by Identify the first time the
	// runtime sees the definition. Zero means "not yet identified".
	ID uint64
	// Name is the logical view name; view factories must be nameable to
	// participate in replaceable-part lookup.
	Name string
	// Template is the markup payload. Empty means the definition describes
	// a logic-only component with no visual template.
	Template string
	// Instructions holds one row of targeted instructions per target node,
	// in the order targets are located within the node sequence.
	Instructions [][]TargetedInstruction
	// SurrogateInstructions apply to the host element rather than a target.
	SurrogateInstructions []TargetedInstruction
	// Dependencies are registered into the definition's render context.
	Dependencies []any
	// Compiler names the pluggable compiler used when BuildRequired is set.
	// Empty selects DefaultCompilerName.
	Compiler string
	// BuildRequired indicates the payload has not been compiled into
	// instructions yet.
	BuildRequired bool
	// CacheSize bounds the view factory's recycling pool. Zero disables
	// pooling; CacheSizeUnbounded removes the bound.
	CacheSize int
}

// CacheSizeUnbounded lifts the recycling-pool bound for a view factory.
const CacheSizeUnbounded = -1

// Identify assigns the definition its opaque identifier if it does not have
// one yet and returns it. Identification is not safe for concurrent use on
// the same definition; callers serialize through the engine's cache lock.
func (d *TemplateDefinition) Identify() uint64 {
	if d.ID == 0 {
		d.ID = atomic.AddUint64(&definitionSeq, 1)
	}
	return d.ID
}

// HasTemplate reports whether the definition declares a visual template.
func (d *TemplateDefinition) HasTemplate() bool {
	return d != nil && d.Template != ""
}

// BuildDefinition normalizes a shorthand definition against defaults,
// returning a new fully-specified definition. The input is never mutated.
// The component type, when given, contributes its name and dependencies.
func BuildDefinition(ct *ComponentType, partial *TemplateDefinition) *TemplateDefinition {
	def := &TemplateDefinition{}
	if partial != nil {
		*def = *partial
		def.ID = 0
	}
	if ct != nil {
		if def.Name == "" {
			def.Name = ct.Name
		}
		def.Dependencies = append(def.Dependencies[:len(def.Dependencies):len(def.Dependencies)], ct.Dependencies...)
	}
	if def.Name == "" {
		def.Name = "unnamed"
	}
	if def.Compiler == "" {
		def.Compiler = DefaultCompilerName
	}
	if len(def.Instructions) == 0 && def.Template != "" {
		def.BuildRequired = true
	}
	if def.CacheSize < CacheSizeUnbounded {
		def.CacheSize = 0
	}
	def.Identify()
	return def
}

// PartsMap maps replaceable-part names to the caller-supplied definitions
// that substitute the part's default view factory.
type PartsMap map[string]*TemplateDefinition

// CompileFlags adjust how a compiler interprets a definition.
type CompileFlags uint8

const (
	// FlagNone compiles the payload as a plain view template.
	FlagNone CompileFlags = 0
	// FlagSurrogate compiles root-element attributes into surrogate
	// instructions applied to the host element.
	FlagSurrogate CompileFlags = 1 << iota
)

// Surrogate reports whether surrogate compilation was requested.
func (f CompileFlags) Surrogate() bool { return f&FlagSurrogate != 0 }
