package runtime

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-ui/lumen/internal/dom"
	"github.com/lumen-ui/lumen/internal/lifecycle"
	"github.com/lumen-ui/lumen/internal/types"
)

func TestRenderTextBinding(t *testing.T) {
	engine := NewRenderingEngine(nil, nil, nil)
	factory, err := engine.GetViewFactory(&types.TemplateDefinition{
		Name:     "app",
		Template: `<div><span text.bind="message"></span></div>`,
	}, nil)
	require.NoError(t, err)

	view, err := factory.Create(nil, nil)
	require.NoError(t, err)

	scope := lifecycle.NewScope(map[string]any{"message": "Hello, Lumen!"})
	require.NoError(t, view.Bind(scope))

	out, err := dom.SerializeString(view.Nodes().Nodes())
	require.NoError(t, err)
	assert.Equal(t, `<div><span data-lumen-target="0">Hello, Lumen!</span></div>`, out)

	require.NoError(t, view.Unbind())
	out, err = dom.SerializeString(view.Nodes().Nodes())
	require.NoError(t, err)
	assert.Equal(t, `<div><span data-lumen-target="0"></span></div>`, out)
}

func TestRenderAttributeAndListenerBindings(t *testing.T) {
	engine := NewRenderingEngine(nil, nil, nil)
	factory, err := engine.GetViewFactory(&types.TemplateDefinition{
		Name:     "form",
		Template: `<div><a href.bind="link" click.trigger="open"></a></div>`,
	}, nil)
	require.NoError(t, err)

	view, err := factory.Create(nil, nil)
	require.NoError(t, err)
	require.NoError(t, view.Bind(lifecycle.NewScope(map[string]any{"link": "/docs"})))
	require.NoError(t, view.Attach())

	out, err := dom.SerializeString(view.Nodes().Nodes())
	require.NoError(t, err)
	assert.Contains(t, out, `href="/docs"`)
	assert.Contains(t, out, `data-lumen-on-click="open"`)

	require.NoError(t, view.Detach())
	out, err = dom.SerializeString(view.Nodes().Nodes())
	require.NoError(t, err)
	assert.NotContains(t, out, "data-lumen-on-click")
}

// recordingComponent captures lifecycle hook invocations in order.
type recordingComponent struct {
	events []string
}

func (c *recordingComponent) Created()               { c.events = append(c.events, "created") }
func (c *recordingComponent) Bound(*lifecycle.Scope) { c.events = append(c.events, "bound") }
func (c *recordingComponent) Unbound()               { c.events = append(c.events, "unbound") }
func (c *recordingComponent) Attached()              { c.events = append(c.events, "attached") }
func (c *recordingComponent) Detached()              { c.events = append(c.events, "detached") }

func greetingCardType(capture **recordingComponent) *types.ComponentType {
	return &types.ComponentType{
		Name: "greeting-card",
		Kind: types.ResourceElement,
		Definition: &types.TemplateDefinition{
			Template: `<div class="card"><p text.bind="message"></p></div>`,
		},
		Bindables: []types.BindableInfo{{Property: "message", Attribute: "message"}},
		Constructor: func() any {
			c := &recordingComponent{}
			if capture != nil {
				*capture = c
			}
			return c
		},
	}
}

func TestRenderCustomElement(t *testing.T) {
	engine := NewRenderingEngine(nil, nil, nil)
	ct := greetingCardType(nil)

	factory, err := engine.GetViewFactory(&types.TemplateDefinition{
		Name:         "app",
		Template:     `<section><greeting-card message="Welcome"></greeting-card></section>`,
		Dependencies: []any{ct},
	}, nil)
	require.NoError(t, err)

	main := elementNode("main")
	view, err := factory.Create(main, nil)
	require.NoError(t, err)

	require.NoError(t, view.Bind(lifecycle.NewScope(map[string]any{})))
	view.AppendTo(main)
	require.NoError(t, view.Attach())

	out, err := dom.SerializeString(view.Nodes().Nodes())
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "custom_element", []byte(out))
}

func TestCustomElementLifecycleHookOrder(t *testing.T) {
	engine := NewRenderingEngine(nil, nil, nil)
	var comp *recordingComponent
	ct := greetingCardType(&comp)

	factory, err := engine.GetViewFactory(&types.TemplateDefinition{
		Name:         "app",
		Template:     `<section><greeting-card message="hi"></greeting-card></section>`,
		Dependencies: []any{ct},
	}, nil)
	require.NoError(t, err)

	main := elementNode("main")
	view, err := factory.Create(main, nil)
	require.NoError(t, err)
	require.NotNil(t, comp)
	assert.Equal(t, []string{"created"}, comp.events)

	require.NoError(t, view.Bind(lifecycle.NewScope(map[string]any{})))
	view.AppendTo(main)
	require.NoError(t, view.Attach())
	assert.Equal(t, []string{"created", "bound", "attached"}, comp.events)

	require.NoError(t, view.Detach())
	require.NoError(t, view.Unbind())
	assert.Equal(t, []string{"created", "bound", "attached", "detached", "unbound"}, comp.events)
}

func TestOuterBindingFlowsIntoElementProperty(t *testing.T) {
	engine := NewRenderingEngine(nil, nil, nil)
	ct := greetingCardType(nil)

	factory, err := engine.GetViewFactory(&types.TemplateDefinition{
		Name:         "app",
		Template:     `<section><greeting-card message.bind="greeting"></greeting-card></section>`,
		Dependencies: []any{ct},
	}, nil)
	require.NoError(t, err)

	view, err := factory.Create(nil, nil)
	require.NoError(t, err)
	require.NoError(t, view.Bind(lifecycle.NewScope(map[string]any{"greeting": "Servus"})))
	// The element's rendered nodes join the host during attach.
	require.NoError(t, view.Attach())

	out, err := dom.SerializeString(view.Nodes().Nodes())
	require.NoError(t, err)
	assert.Contains(t, out, ">Servus</p>")
}

func TestUnregisteredElementFailsRender(t *testing.T) {
	engine := NewRenderingEngine(nil, nil, nil)
	ct := greetingCardType(nil)

	// Compile against a scope that knows the element, then render through a
	// context that does not: compilation and hydration are separate lookups.
	def := types.BuildDefinition(nil, &types.TemplateDefinition{
		Name:     "app",
		Template: `<section><greeting-card></greeting-card></section>`,
	})
	lookupCtx, err := NewRenderContext(engine, nil, []any{ct})
	require.NoError(t, err)
	mc, err := engine.Compilers().Get("")
	require.NoError(t, err)
	compiled, err := mc.Compile(def, NewResourceLookup(lookupCtx.Container), types.FlagSurrogate)
	require.NoError(t, err)
	compiled.Identify()

	factory, err := engine.GetViewFactory(compiled, nil)
	require.NoError(t, err)

	_, err = factory.Create(nil, nil)
	require.Error(t, err)
}

func TestSelfReferencingElementCompiles(t *testing.T) {
	engine := NewRenderingEngine(nil, nil, nil)
	ct := &types.ComponentType{
		Name: "tree-node",
		Kind: types.ResourceElement,
		Definition: &types.TemplateDefinition{
			Template: `<div><tree-node></tree-node></div>`,
		},
		Constructor: func() any { return &recordingComponent{} },
	}

	template, err := engine.GetElementTemplate(ct.Definition, ct)
	require.NoError(t, err)

	compiled, ok := template.(*CompiledTemplate)
	require.True(t, ok)
	require.Len(t, compiled.Definition().Instructions, 1)

	instr, ok := compiled.Definition().Instructions[0][0].(types.HydrateElementInstruction)
	require.True(t, ok)
	assert.Equal(t, "tree-node", instr.Resource)
}

// itemListType declares an element whose template carries a replaceable
// "item-row" slot with default content.
func itemListType() *types.ComponentType {
	return &types.ComponentType{
		Name: "item-list",
		Kind: types.ResourceElement,
		Definition: &types.TemplateDefinition{
			Template: `<ul class="items"><template replaceable part="item-row"><li>default row</li></template></ul>`,
		},
		Constructor: func() any { return map[string]any{} },
	}
}

func TestReplaceablePartRendersDefaultContent(t *testing.T) {
	engine := NewRenderingEngine(nil, nil, nil)
	factory, err := engine.GetViewFactory(&types.TemplateDefinition{
		Name:         "app",
		Template:     `<section><item-list></item-list></section>`,
		Dependencies: []any{itemListType()},
	}, nil)
	require.NoError(t, err)

	view, err := factory.Create(nil, nil)
	require.NoError(t, err)
	require.NoError(t, view.Bind(lifecycle.NewScope(map[string]any{})))
	require.NoError(t, view.Attach())

	out, err := dom.SerializeString(view.Nodes().Nodes())
	require.NoError(t, err)
	assert.Contains(t, out, "<li>default row</li>")
	assert.NotContains(t, out, "<template")
}

func TestReplacePartSubstitutesAuthoredContent(t *testing.T) {
	engine := NewRenderingEngine(nil, nil, nil)
	factory, err := engine.GetViewFactory(&types.TemplateDefinition{
		Name:         "app",
		Template:     `<section><item-list><template replace-part="item-row"><li><em text.bind="label"></em></li></template></item-list></section>`,
		Dependencies: []any{itemListType()},
	}, nil)
	require.NoError(t, err)

	view, err := factory.Create(nil, nil)
	require.NoError(t, err)
	require.NoError(t, view.Bind(lifecycle.NewScope(map[string]any{"label": "custom row"})))
	require.NoError(t, view.Attach())

	out, err := dom.SerializeString(view.Nodes().Nodes())
	require.NoError(t, err)
	assert.Contains(t, out, ">custom row</em>")
	assert.NotContains(t, out, "default row")

	// Detach pulls the stamped part back out with the rest of the element.
	require.NoError(t, view.Detach())
	require.NoError(t, view.Unbind())
}
