package runtime

import (
	"golang.org/x/net/html"

	"github.com/lumen-ui/lumen/internal/container"
	"github.com/lumen-ui/lumen/internal/dom"
	"github.com/lumen-ui/lumen/internal/errors"
	"github.com/lumen-ui/lumen/internal/types"
)

// RenderContext is a node in the resolution-scope tree, one per compiled
// template, holding the per-operation scratch providers plus the renderer
// bound at creation time. Contexts mirror the component hierarchy, rooted
// at the application-level container.
type RenderContext struct {
	*container.Container

	engine   *RenderingEngine
	renderer Renderer

	renderableProvider  *InstanceProvider
	targetProvider      *InstanceProvider
	instructionProvider *InstanceProvider
	locationProvider    *InstanceProvider
	factoryProvider     *ViewFactoryProvider

	operation *ComponentOperation
}

// NewRenderContext derives a child container from parent, installs the five
// scoped providers under their well-known keys, and registers the declared
// extra dependencies. The renderer is bound once here, not re-resolved per
// render call.
func NewRenderContext(engine *RenderingEngine, parent *container.Container, dependencies []any) (*RenderContext, error) {
	if parent == nil {
		parent = engine.Root()
	}

	ctx := &RenderContext{
		Container:           parent.CreateChild(),
		engine:              engine,
		renderableProvider:  NewInstanceProvider(KeyRenderable),
		targetProvider:      NewInstanceProvider(KeyTargetNode),
		instructionProvider: NewInstanceProvider(KeyInstruction),
		locationProvider:    NewInstanceProvider(KeyRenderLocation),
		factoryProvider:     NewViewFactoryProvider(engine),
	}

	ctx.RegisterResolver(KeyRenderable, ctx.renderableProvider)
	ctx.RegisterResolver(KeyTargetNode, ctx.targetProvider)
	ctx.RegisterResolver(KeyInstruction, ctx.instructionProvider)
	ctx.RegisterResolver(KeyRenderLocation, ctx.locationProvider)
	ctx.RegisterResolver(KeyViewFactory, ctx.factoryProvider)

	if err := ctx.registerDependencies(dependencies); err != nil {
		return nil, err
	}

	ctx.renderer = engine.CreateRenderer(ctx)
	return ctx, nil
}

// registerDependencies installs a definition's declared dependencies.
// Component types get a transient type resolver; anything else must know
// how to register itself.
func (ctx *RenderContext) registerDependencies(dependencies []any) error {
	for _, dep := range dependencies {
		switch v := dep.(type) {
		case *types.ComponentType:
			ctx.RegisterComponentType(v)
		case container.Registerable:
			if err := v.Register(ctx.Container); err != nil {
				return err
			}
		default:
			return errors.NewValidationError(errors.ErrCodeKeyNotRegistered,
				"dependency is neither a component type nor registerable")
		}
	}
	return nil
}

// RegisterComponentType makes ct resolvable in this context's scope.
func (ctx *RenderContext) RegisterComponentType(ct *types.ComponentType) {
	ctx.RegisterResolver(types.ResourceKey(ct.Kind, ct.Name), &TypeResolver{ComponentType: ct})
}

// Engine returns the owning rendering engine.
func (ctx *RenderContext) Engine() *RenderingEngine {
	return ctx.engine
}

// Render applies the definition's targeted instructions against the located
// targets, with renderable as the implicit current instance and host/parts
// for surrogate and replaceable-part resolution.
func (ctx *RenderContext) Render(renderable Renderable, targets []*html.Node, def *types.TemplateDefinition, host *html.Node, parts types.PartsMap) error {
	return ctx.renderer.Render(renderable, targets, def, host, parts)
}

// BeginComponentOperation atomically prepares the scoped providers for one
// component's construction and returns the disposal handle. Exactly one
// operation may be in flight per context; the handle must be disposed
// before the next begin, otherwise later providers would leak the wrong
// "current" value across unrelated instructions.
func (ctx *RenderContext) BeginComponentOperation(
	renderable Renderable,
	target *html.Node,
	instruction types.TargetedInstruction,
	factory *ViewFactory,
	parts types.PartsMap,
	location *dom.RenderLocation,
) (*ComponentOperation, error) {
	if ctx.operation != nil {
		return nil, errors.NewContractError(errors.ErrCodeOperationInFlight,
			"component operation already in flight on this context")
	}

	ctx.renderableProvider.Prepare(renderable)
	ctx.targetProvider.Prepare(target)
	ctx.instructionProvider.Prepare(instruction)
	if factory != nil {
		ctx.factoryProvider.Prepare(factory, parts)
	}
	if location != nil {
		ctx.locationProvider.Prepare(location)
	}

	ctx.operation = &ComponentOperation{ctx: ctx}
	return ctx.operation, nil
}

// Dispose resets every scoped provider to its unset state, releasing held
// instance references. It does not tear down the context's registrations.
func (ctx *RenderContext) Dispose() {
	ctx.renderableProvider.Dispose()
	ctx.targetProvider.Dispose()
	ctx.instructionProvider.Dispose()
	ctx.locationProvider.Dispose()
	ctx.factoryProvider.Dispose()
	ctx.operation = nil
}

// ComponentOperation is the disposal handle for one in-flight component
// construction.
type ComponentOperation struct {
	ctx      *RenderContext
	disposed bool
}

// Dispose ends the operation, clearing the per-operation providers. Safe to
// call more than once.
func (op *ComponentOperation) Dispose() {
	if op.disposed {
		return
	}
	op.disposed = true
	op.ctx.Dispose()
}
