package runtime

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-ui/lumen/internal/compiler"
	"github.com/lumen-ui/lumen/internal/container"
	"github.com/lumen-ui/lumen/internal/errors"
	"github.com/lumen-ui/lumen/internal/lifecycle"
	"github.com/lumen-ui/lumen/internal/types"
)

// countingCompiler records how many times Compile ran so memoization can be
// asserted directly.
type countingCompiler struct {
	calls int64
}

func (c *countingCompiler) Name() string { return "counting" }

func (c *countingCompiler) Compile(def *types.TemplateDefinition, _ compiler.ResourceFinder, _ types.CompileFlags) (*types.TemplateDefinition, error) {
	atomic.AddInt64(&c.calls, 1)
	out := *def
	out.BuildRequired = false
	return &out, nil
}

func newCountingEngine() (*RenderingEngine, *countingCompiler) {
	cc := &countingCompiler{}
	registry := compiler.NewRegistry(compiler.NewMarkupCompiler(), cc)
	return NewRenderingEngine(nil, registry, nil), cc
}

func TestGetViewFactoryCompilesOnce(t *testing.T) {
	engine, cc := newCountingEngine()
	def := &types.TemplateDefinition{
		Name:     "item",
		Template: "<li></li>",
		Compiler: "counting",
	}

	first, err := engine.GetViewFactory(def, nil)
	require.NoError(t, err)
	require.NotNil(t, first)

	other := container.New()
	second, err := engine.GetViewFactory(def, other)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int64(1), atomic.LoadInt64(&cc.calls))
}

func TestGetViewFactoryNilDefinition(t *testing.T) {
	engine, _ := newCountingEngine()

	factory, err := engine.GetViewFactory(nil, nil)
	require.NoError(t, err)
	assert.Nil(t, factory)
}

func TestGetElementTemplateNilDefinition(t *testing.T) {
	engine, _ := newCountingEngine()

	template, err := engine.GetElementTemplate(nil, &types.ComponentType{Name: "x"})
	require.NoError(t, err)
	assert.Nil(t, template)
}

func TestGetElementTemplateMemoized(t *testing.T) {
	engine, cc := newCountingEngine()
	ct := &types.ComponentType{Name: "card", Kind: types.ResourceElement}
	def := &types.TemplateDefinition{
		Name:     "card",
		Template: "<div></div>",
		Compiler: "counting",
	}

	first, err := engine.GetElementTemplate(def, ct)
	require.NoError(t, err)
	second, err := engine.GetElementTemplate(def, ct)
	require.NoError(t, err)

	assert.Same(t, first.(*CompiledTemplate), second.(*CompiledTemplate))
	assert.Equal(t, int64(1), atomic.LoadInt64(&cc.calls))
}

func TestUnknownCompilerFailsResolution(t *testing.T) {
	engine, _ := newCountingEngine()
	def := &types.TemplateDefinition{
		Name:     "broken",
		Template: "<div></div>",
		Compiler: "does-not-exist",
	}

	_, err := engine.GetViewFactory(def, nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeUnknownCompiler))
}

func TestEmptyCompilerNameSelectsDefault(t *testing.T) {
	engine := NewRenderingEngine(nil, nil, nil)
	def := &types.TemplateDefinition{
		Name:     "plain",
		Template: "<div></div>",
	}

	factory, err := engine.GetViewFactory(def, nil)
	require.NoError(t, err)
	require.NotNil(t, factory)
	assert.Equal(t, "plain", factory.Name())
}

func TestLogicOnlyDefinitionGetsNoView(t *testing.T) {
	engine := NewRenderingEngine(nil, nil, nil)
	def := &types.TemplateDefinition{Name: "logic-only"}

	factory, err := engine.GetViewFactory(def, nil)
	require.NoError(t, err)

	view, err := factory.Create(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, view.Nodes().Nodes())
	assert.Nil(t, view.Context())

	scope := lifecycle.NewScope(map[string]any{})
	require.NoError(t, view.Bind(scope))
	require.NoError(t, view.Attach())
	require.NoError(t, view.Detach())
	require.NoError(t, view.Unbind())
}

func TestApplyRuntimeBehaviorMemoizedPerType(t *testing.T) {
	engine := NewRenderingEngine(nil, nil, nil)
	first := &types.ComponentType{Name: "a", Kind: types.ResourceElement}
	second := &types.ComponentType{Name: "b", Kind: types.ResourceElement}

	assert.Same(t, engine.ApplyRuntimeBehavior(first), engine.ApplyRuntimeBehavior(first))
	assert.NotSame(t, engine.ApplyRuntimeBehavior(first), engine.ApplyRuntimeBehavior(second))
}

func TestGetViewFactoryNameCollisionGetsSuffix(t *testing.T) {
	engine := NewRenderingEngine(nil, nil, nil)
	first := &types.TemplateDefinition{Name: "row", Template: "<li>one</li>"}
	second := &types.TemplateDefinition{Name: "row", Template: "<li>two</li>"}

	a, err := engine.GetViewFactory(first, nil)
	require.NoError(t, err)
	b, err := engine.GetViewFactory(second, nil)
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.Equal(t, "row", a.Name())
	assert.Equal(t, "row~1", b.Name())
}

func TestGetViewFactoryAppliesCacheSize(t *testing.T) {
	engine := NewRenderingEngine(nil, nil, nil)
	def := &types.TemplateDefinition{
		Name:      "pooled",
		Template:  "<li></li>",
		CacheSize: 3,
	}

	factory, err := engine.GetViewFactory(def, nil)
	require.NoError(t, err)
	assert.True(t, factory.IsCaching())
}
