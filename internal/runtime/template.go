package runtime

import (
	"golang.org/x/net/html"

	"github.com/lumen-ui/lumen/internal/dom"
	"github.com/lumen-ui/lumen/internal/types"
)

// Template produces node sequences for renderables. Rendering populates the
// renderable's nodes and context exactly once.
type Template interface {
	Render(renderable Renderable, host *html.Node, replacements types.PartsMap) error
}

// CompiledTemplate stamps out clones of a parsed markup fragment and runs the
// owning context's renderer over the clone's marked targets.
type CompiledTemplate struct {
	factory *dom.NodeSequenceFactory
	ctx     *RenderContext
	def     *types.TemplateDefinition
}

// NewCompiledTemplate builds a template around a node sequence factory and
// the render context that owns its resources.
func NewCompiledTemplate(factory *dom.NodeSequenceFactory, ctx *RenderContext, def *types.TemplateDefinition) *CompiledTemplate {
	return &CompiledTemplate{factory: factory, ctx: ctx, def: def}
}

// Definition returns the definition this template was compiled from.
func (t *CompiledTemplate) Definition() *types.TemplateDefinition {
	return t.def
}

// Context returns the render context that owns the template's resources.
func (t *CompiledTemplate) Context() *RenderContext {
	return t.ctx
}

// Render clones the stencil, binds nodes and context onto the renderable,
// then renders instructions against the clone's targets.
func (t *CompiledTemplate) Render(renderable Renderable, host *html.Node, replacements types.PartsMap) error {
	seq := t.factory.CreateNodeSequence()
	if err := renderable.SetNodes(seq); err != nil {
		return err
	}
	if err := renderable.SetContext(t.ctx); err != nil {
		return err
	}
	return t.ctx.Render(renderable, seq.FindTargets(), t.def, host, replacements)
}

// noViewTemplate renders nothing: the renderable gets an empty sequence and
// a nil context, and its lifecycle degenerates to no-ops.
type noViewTemplate struct{}

// NoViewTemplate is the shared template for definitions without markup.
var NoViewTemplate Template = noViewTemplate{}

func (noViewTemplate) Render(renderable Renderable, _ *html.Node, _ types.PartsMap) error {
	if err := renderable.SetNodes(dom.EmptySequence()); err != nil {
		return err
	}
	return renderable.SetContext(nil)
}
