package runtime

import (
	"golang.org/x/net/html"

	"github.com/lumen-ui/lumen/internal/dom"
	"github.com/lumen-ui/lumen/internal/lifecycle"
	"github.com/lumen-ui/lumen/internal/types"
)

// Component hook interfaces. User components opt into lifecycle
// notifications by implementing any subset of these.
type (
	// CreatedCallback runs once after hydration, before binding.
	CreatedCallback interface{ Created() }
	// BoundCallback runs after the element's scope is established.
	BoundCallback interface{ Bound(scope *lifecycle.Scope) }
	// UnboundCallback runs after the element leaves its scope.
	UnboundCallback interface{ Unbound() }
	// AttachedCallback runs after the element's nodes join the host tree.
	AttachedCallback interface{ Attached() }
	// DetachedCallback runs after the element's nodes leave the host tree.
	DetachedCallback interface{ Detached() }
)

// Element is a hydrated custom element instance: a component object paired
// with its host node, render state, and property bag.
type Element struct {
	RenderableState

	Type       *types.ComponentType
	Host       *html.Node
	Properties map[string]any

	component any
	hooks     componentHooks
	bound     bool
	attached  bool
}

// componentHooks caches the component's lifecycle interface assertions so
// hook dispatch never re-asserts on bind and attach.
type componentHooks struct {
	created  CreatedCallback
	bound    BoundCallback
	unbound  UnboundCallback
	attached AttachedCallback
	detached DetachedCallback
}

func resolveHooks(component any) componentHooks {
	var h componentHooks
	h.created, _ = component.(CreatedCallback)
	h.bound, _ = component.(BoundCallback)
	h.unbound, _ = component.(UnboundCallback)
	h.attached, _ = component.(AttachedCallback)
	h.detached, _ = component.(DetachedCallback)
	return h
}

// NewElement pairs a freshly constructed component with its host node.
func NewElement(ct *types.ComponentType, component any, host *html.Node) *Element {
	return &Element{
		Type:       ct,
		Host:       host,
		Properties: make(map[string]any),
		component:  component,
		hooks:      resolveHooks(component),
	}
}

// Component returns the user component instance backing this element.
func (e *Element) Component() any {
	return e.component
}

// Created fires the component's creation hook if it has one.
func (e *Element) Created() {
	if e.hooks.created != nil {
		e.hooks.created.Created()
	}
}

// Bind establishes the element's scope over the component instance and its
// collected properties, then binds children in insertion order.
func (e *Element) Bind(parent *lifecycle.Scope) error {
	if e.bound {
		return nil
	}
	e.bound = true

	// Host attributes may have been written by outer bindings after
	// hydration seeded the property bag, so re-read bindables here.
	for _, b := range e.Type.Bindables {
		if v, ok := dom.GetAttr(e.Host, b.Attribute); ok {
			name := b.Property
			if name == "" {
				name = b.Attribute
			}
			e.Properties[name] = v
		}
	}

	ctx := map[string]any{"$this": e.component}
	for k, v := range e.Properties {
		ctx[k] = v
	}
	scope := lifecycle.NewChildScope(ctx, parent)
	e.SetScope(scope)

	if err := e.Lifecycle().BindAll(scope); err != nil {
		return err
	}

	if e.hooks.bound != nil {
		e.hooks.bound.Bound(scope)
	}
	return nil
}

// Unbind reverses Bind, unbinding children in reverse insertion order.
func (e *Element) Unbind() error {
	if !e.bound {
		return nil
	}
	e.bound = false

	if err := e.Lifecycle().UnbindAll(); err != nil {
		return err
	}
	e.SetScope(nil)

	if e.hooks.unbound != nil {
		e.hooks.unbound.Unbound()
	}
	return nil
}

// Attach appends the element's rendered nodes to its host and attaches
// children in insertion order.
func (e *Element) Attach() error {
	if e.attached {
		return nil
	}
	e.attached = true

	if err := e.Lifecycle().AttachAll(); err != nil {
		return err
	}
	if nodes := e.Nodes(); nodes != nil && e.Host != nil {
		nodes.AppendTo(e.Host)
	}

	if e.hooks.attached != nil {
		e.hooks.attached.Attached()
	}
	return nil
}

// Detach removes the element's nodes from the host and detaches children in
// reverse insertion order.
func (e *Element) Detach() error {
	if !e.attached {
		return nil
	}
	e.attached = false

	if nodes := e.Nodes(); nodes != nil {
		nodes.Remove()
	}
	if err := e.Lifecycle().DetachAll(); err != nil {
		return err
	}

	if e.hooks.detached != nil {
		e.hooks.detached.Detached()
	}
	return nil
}
