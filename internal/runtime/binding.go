package runtime

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/lumen-ui/lumen/internal/dom"
	"github.com/lumen-ui/lumen/internal/lifecycle"
)

// TextBinding writes the value at a scope path into a node's text content
// when bound.
type TextBinding struct {
	Target *html.Node
	From   string
}

// Bind evaluates the source expression against the scope and writes it into
// the target's text.
func (b *TextBinding) Bind(scope *lifecycle.Scope) error {
	if v, ok := scope.Lookup(b.From); ok {
		dom.SetText(b.Target, fmt.Sprint(v))
	}
	return nil
}

// Unbind clears the bound text.
func (b *TextBinding) Unbind() error {
	dom.SetText(b.Target, "")
	return nil
}

// AttributeBinding writes the value at a scope path into a target attribute
// when bound.
type AttributeBinding struct {
	Target    *html.Node
	Attribute string
	From      string
}

func (b *AttributeBinding) Bind(scope *lifecycle.Scope) error {
	if v, ok := scope.Lookup(b.From); ok {
		dom.SetAttr(b.Target, b.Attribute, fmt.Sprint(v))
	}
	return nil
}

func (b *AttributeBinding) Unbind() error {
	dom.RemoveAttr(b.Target, b.Attribute)
	return nil
}

// ListenerBinding marks a target as having a handler wired for an event.
// Server-side rendering has no live event loop, so attachment records the
// subscription as a data attribute the client runtime picks up.
type ListenerBinding struct {
	Target *html.Node
	Event  string
	To     string
}

func (b *ListenerBinding) listenerAttr() string {
	return "data-lumen-on-" + b.Event
}

func (b *ListenerBinding) Attach() error {
	dom.SetAttr(b.Target, b.listenerAttr(), b.To)
	return nil
}

func (b *ListenerBinding) Detach() error {
	dom.RemoveAttr(b.Target, b.listenerAttr())
	return nil
}
