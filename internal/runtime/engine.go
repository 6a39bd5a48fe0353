package runtime

import (
	"context"
	"fmt"
	"sync"

	"github.com/lumen-ui/lumen/internal/compiler"
	"github.com/lumen-ui/lumen/internal/container"
	"github.com/lumen-ui/lumen/internal/dom"
	"github.com/lumen-ui/lumen/internal/logging"
	"github.com/lumen-ui/lumen/internal/types"
)

// RenderingEngine is the central memoizing service of the runtime. It owns
// the root resolution scope, the compiler registry, and the three caches
// that make instantiation cheap after first use: element templates and view
// factories keyed by definition identity, runtime behaviors keyed by
// component type.
type RenderingEngine struct {
	root      *container.Container
	compilers *compiler.Registry
	logger    logging.Logger

	mu             sync.Mutex
	templateLookup map[uint64]Template
	factoryLookup  map[uint64]*ViewFactory
	factoryNames   map[string]int
	behaviorLookup map[*types.ComponentType]*RuntimeBehavior
}

// NewRenderingEngine builds an engine over the given root scope, compiler
// registry, and logger. Nil arguments fall back to a fresh container, a
// registry holding the default markup compiler, and a discard logger.
func NewRenderingEngine(root *container.Container, compilers *compiler.Registry, logger logging.Logger) *RenderingEngine {
	if root == nil {
		root = container.New()
	}
	if compilers == nil {
		compilers = compiler.NewRegistry(compiler.NewMarkupCompiler())
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &RenderingEngine{
		root:           root,
		compilers:      compilers,
		logger:         logger.WithComponent("engine"),
		templateLookup: make(map[uint64]Template),
		factoryLookup:  make(map[uint64]*ViewFactory),
		factoryNames:   make(map[string]int),
		behaviorLookup: make(map[*types.ComponentType]*RuntimeBehavior),
	}
}

// Root returns the engine's root resolution scope.
func (e *RenderingEngine) Root() *container.Container {
	return e.root
}

// Compilers returns the engine's compiler registry.
func (e *RenderingEngine) Compilers() *compiler.Registry {
	return e.compilers
}

// CreateRenderer builds the renderer bound to a render context. Every
// context gets its own renderer so nested hydration resolves against the
// right scope.
func (e *RenderingEngine) CreateRenderer(ctx *RenderContext) Renderer {
	return newInstructionRenderer(ctx)
}

// GetElementTemplate returns the compiled template for a custom element
// type, compiling at most once per definition. A nil definition yields a
// nil template so logic-only components flow through rendering untouched.
func (e *RenderingEngine) GetElementTemplate(def *types.TemplateDefinition, ct *types.ComponentType) (Template, error) {
	if def == nil {
		return nil, nil
	}

	e.mu.Lock()
	id := def.Identify()
	if cached, ok := e.templateLookup[id]; ok {
		e.mu.Unlock()
		return cached, nil
	}
	e.mu.Unlock()

	template, err := e.templateFromSource(types.BuildDefinition(ct, def), e.root, ct)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if cached, ok := e.templateLookup[id]; ok {
		return cached, nil
	}
	e.templateLookup[id] = template
	return template, nil
}

// GetViewFactory returns the view factory for a definition, compiling and
// constructing at most once per definition. Later calls with different
// parent scopes reuse the first-built factory. A nil definition yields a
// nil factory.
func (e *RenderingEngine) GetViewFactory(def *types.TemplateDefinition, parent *container.Container) (*ViewFactory, error) {
	if def == nil {
		return nil, nil
	}
	if parent == nil {
		parent = e.root
	}

	e.mu.Lock()
	id := def.Identify()
	if cached, ok := e.factoryLookup[id]; ok {
		e.mu.Unlock()
		return cached, nil
	}
	e.mu.Unlock()

	built := types.BuildDefinition(nil, def)
	template, err := e.templateFromSource(built, parent, nil)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if cached, ok := e.factoryLookup[id]; ok {
		return cached, nil
	}
	// Distinct definitions may share a logical name; later ones get a
	// monotonic suffix so factories stay distinguishable in logs and part
	// lookups.
	name := built.Name
	if n := e.factoryNames[name]; n > 0 {
		name = fmt.Sprintf("%s~%d", name, n)
	}
	e.factoryNames[built.Name]++
	factory := NewViewFactory(name, template)
	factory.SetCacheSize(built.CacheSize)
	e.factoryLookup[id] = factory
	return factory, nil
}

// ApplyRuntimeBehavior returns the runtime behavior for a component type,
// computing it on first request and reusing it for every later instance of
// the type.
func (e *RenderingEngine) ApplyRuntimeBehavior(ct *types.ComponentType) *RuntimeBehavior {
	e.mu.Lock()
	defer e.mu.Unlock()
	if behavior, ok := e.behaviorLookup[ct]; ok {
		return behavior
	}
	behavior := newRuntimeBehavior(ct)
	e.behaviorLookup[ct] = behavior
	return behavior
}

// templateFromSource turns a normalized definition into a template. A
// definition without markup gets the shared no-view template. A definition
// still carrying raw markup goes through its named compiler first; the
// compiler sees the resources registered in the definition's own context.
func (e *RenderingEngine) templateFromSource(def *types.TemplateDefinition, parent *container.Container, ct *types.ComponentType) (Template, error) {
	if !def.HasTemplate() {
		return NoViewTemplate, nil
	}

	ctx, err := NewRenderContext(e, parent, def.Dependencies)
	if err != nil {
		return nil, err
	}
	if ct != nil {
		// The element can reference itself in its own template.
		ctx.RegisterComponentType(ct)
	}

	if def.BuildRequired {
		c, err := e.compilers.Get(def.Compiler)
		if err != nil {
			return nil, err
		}
		e.logger.Debug(context.Background(), "compiling template", "name", def.Name, "compiler", def.Compiler)
		def, err = c.Compile(def, NewResourceLookup(ctx.Container), types.FlagSurrogate)
		if err != nil {
			return nil, err
		}
	}

	factory, err := dom.NewNodeSequenceFactory(def.Template)
	if err != nil {
		return nil, err
	}
	return NewCompiledTemplate(factory, ctx, def), nil
}
