package runtime

import (
	"github.com/lumen-ui/lumen/internal/dom"
	"github.com/lumen-ui/lumen/internal/errors"
	"github.com/lumen-ui/lumen/internal/lifecycle"
)

// Renderable is any instance (view, custom element, custom attribute) that
// carries a node projection, a render context, a binding scope, and
// membership in the two lifecycle lists.
type Renderable interface {
	Context() *RenderContext
	SetContext(*RenderContext) error
	Nodes() dom.NodeSequence
	SetNodes(dom.NodeSequence) error
	Scope() *lifecycle.Scope
	SetScope(*lifecycle.Scope)
	Lifecycle() *lifecycle.Lists
}

// RenderableState is the embeddable base implementing Renderable. Context
// and nodes are exclusive, set-once fields assigned during template render.
type RenderableState struct {
	ctx      *RenderContext
	ctxSet   bool
	nodes    dom.NodeSequence
	nodesSet bool
	scope    *lifecycle.Scope
	lists    lifecycle.Lists
}

// Context returns the render context, nil for logic-only instances.
func (r *RenderableState) Context() *RenderContext {
	return r.ctx
}

// SetContext assigns the render context exactly once. A nil context is a
// valid assignment for no-view instances.
func (r *RenderableState) SetContext(ctx *RenderContext) error {
	if r.ctxSet {
		return errors.NewContractError(errors.ErrCodeStateSetTwice, "render context already assigned")
	}
	r.ctx = ctx
	r.ctxSet = true
	return nil
}

// Nodes returns the node projection.
func (r *RenderableState) Nodes() dom.NodeSequence {
	return r.nodes
}

// SetNodes assigns the node projection exactly once.
func (r *RenderableState) SetNodes(nodes dom.NodeSequence) error {
	if r.nodesSet {
		return errors.NewContractError(errors.ErrCodeStateSetTwice, "node projection already assigned")
	}
	r.nodes = nodes
	r.nodesSet = true
	return nil
}

// Scope returns the current binding scope.
func (r *RenderableState) Scope() *lifecycle.Scope {
	return r.scope
}

// SetScope assigns the binding scope; unlike context and nodes it changes
// across bind cycles.
func (r *RenderableState) SetScope(scope *lifecycle.Scope) {
	r.scope = scope
}

// Lifecycle returns the renderable's lifecycle lists.
func (r *RenderableState) Lifecycle() *lifecycle.Lists {
	return &r.lists
}
