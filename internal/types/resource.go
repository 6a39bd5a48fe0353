package types

import "time"

// ResourceKind classifies the resources a render context can register:
// custom elements, custom attributes, and value converters.
type ResourceKind string

const (
	ResourceElement   ResourceKind = "element"
	ResourceAttribute ResourceKind = "attribute"
	ResourceConverter ResourceKind = "value-converter"
)

// ResourceKey builds the container key under which a resource of the given
// kind and canonical name is registered.
func ResourceKey(kind ResourceKind, name string) string {
	return string(kind) + ":" + name
}

// ComponentType is per-component-type derived metadata, cached once per type
// and applied to every instance of that type. It is the unit the rendering
// engine memoizes runtime behavior for.
type ComponentType struct {
	// Name is the canonical resource name (kebab-case for elements).
	Name string
	// Kind classifies how the type participates in templates.
	Kind ResourceKind
	// Definition is the type's own view definition, if it has one.
	Definition *TemplateDefinition
	// Bindables lists the type's bindable properties.
	Bindables []BindableInfo
	// Dependencies are registered alongside the type's render context.
	Dependencies []any
	// Constructor produces a fresh uninitialized instance of the type.
	Constructor func() any
}

// Description returns the read-only description handed to compilers via the
// resource lookup adapter.
func (ct *ComponentType) Description() *ResourceDescription {
	if ct == nil {
		return nil
	}
	return &ResourceDescription{
		Name:      ct.Name,
		Kind:      ct.Kind,
		Bindables: ct.Bindables,
	}
}

// BindableInfo describes one bindable property of a component type.
type BindableInfo struct {
	// Property is the Go-visible property name.
	Property string
	// Attribute is the markup attribute the property binds from.
	Attribute string
	// Primary marks the property targeted by a bare attribute value.
	Primary bool
}

// ResourceDescription is the instantiation-free view of a registered
// resource exposed to compilers.
type ResourceDescription struct {
	Name      string
	Kind      ResourceKind
	Bindables []BindableInfo
}

// EventType represents the type of resource change event.
type EventType string

const (
	EventTypeAdded   EventType = "added"
	EventTypeUpdated EventType = "updated"
	EventTypeRemoved EventType = "removed"
)

// ResourceEvent represents a change in the resource registry, used for
// real-time notifications to watchers like the preview server.
type ResourceEvent struct {
	// Type indicates the kind of change (added, updated, removed)
	Type EventType
	// Resource contains the component type (may be nil for removed events)
	Resource *ComponentType
	// Timestamp records when the event occurred for ordering and filtering
	Timestamp time.Time
}
