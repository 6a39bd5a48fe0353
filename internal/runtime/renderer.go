package runtime

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/lumen-ui/lumen/internal/dom"
	"github.com/lumen-ui/lumen/internal/errors"
	"github.com/lumen-ui/lumen/internal/types"
)

// Renderer applies a definition's targeted instructions over the located
// target nodes of a freshly stamped sequence, populating the renderable's
// lifecycle lists as it goes.
type Renderer interface {
	Render(renderable Renderable, targets []*html.Node, def *types.TemplateDefinition, host *html.Node, parts types.PartsMap) error
}

// instructionRenderer dispatches instructions by type against positional
// targets. One renderer is created per render context and reuses that
// context for nested hydration.
type instructionRenderer struct {
	ctx *RenderContext
}

func newInstructionRenderer(ctx *RenderContext) *instructionRenderer {
	return &instructionRenderer{ctx: ctx}
}

func (r *instructionRenderer) Render(renderable Renderable, targets []*html.Node, def *types.TemplateDefinition, host *html.Node, parts types.PartsMap) error {
	if len(def.Instructions) != len(targets) {
		return errors.NewContractError(errors.ErrCodeTargetMismatch,
			fmt.Sprintf("definition %q has %d instruction rows for %d targets",
				def.Name, len(def.Instructions), len(targets)))
	}

	for i, row := range def.Instructions {
		target := targets[i]
		for _, instr := range row {
			if err := r.apply(renderable, target, instr, parts); err != nil {
				return err
			}
		}
	}

	if host != nil {
		for _, instr := range def.SurrogateInstructions {
			if err := r.apply(renderable, host, instr, parts); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *instructionRenderer) apply(renderable Renderable, target *html.Node, instr types.TargetedInstruction, parts types.PartsMap) error {
	switch in := instr.(type) {
	case types.SetTextInstruction:
		renderable.Lifecycle().AddBindable(&TextBinding{Target: target, From: in.From})
	case types.SetAttributeInstruction:
		renderable.Lifecycle().AddBindable(&AttributeBinding{Target: target, Attribute: in.Attribute, From: in.From})
	case types.ListenerInstruction:
		renderable.Lifecycle().AddAttachable(&ListenerBinding{Target: target, Event: in.Event, To: in.To})
	case types.HydrateElementInstruction:
		return r.hydrateElement(renderable, target, in, parts)
	case types.StampPartInstruction:
		return r.stampPart(renderable, target, in, parts)
	default:
		return errors.NewValidationError(errors.ErrCodeBadMarkup,
			fmt.Sprintf("unhandled instruction type %q", instr.Type()))
	}
	return nil
}

// hydrateElement instantiates a registered custom element at the target:
// resolve the type, render its own template into a fresh element, apply the
// nested instructions against the host, then enlist the element in the
// outer renderable's lifecycle.
func (r *instructionRenderer) hydrateElement(renderable Renderable, target *html.Node, in types.HydrateElementInstruction, outer types.PartsMap) error {
	lookup := NewResourceLookup(r.ctx.Container)
	ct, ok := lookup.ComponentTypeFor(types.ResourceElement, in.Resource)
	if !ok {
		return errors.ErrResourceNotFound(types.ResourceKey(types.ResourceElement, in.Resource))
	}

	engine := r.ctx.Engine()
	template, err := engine.GetElementTemplate(ct.Definition, ct)
	if err != nil {
		return err
	}

	// Parts declared on the usage site win over parts the instruction
	// carried in from compilation.
	merged := make(types.PartsMap, len(in.Parts)+len(outer))
	for name, part := range in.Parts {
		merged[name] = part
	}
	for name, part := range outer {
		merged[name] = part
	}

	op, err := r.ctx.BeginComponentOperation(renderable, target, in, nil, merged, nil)
	if err != nil {
		return err
	}
	defer op.Dispose()

	instance, err := r.ctx.Get(types.ResourceKey(types.ResourceElement, in.Resource))
	if err != nil {
		return err
	}

	element := NewElement(ct, instance, target)
	engine.ApplyRuntimeBehavior(ct).ApplyTo(element, target)
	element.Created()

	if template != nil {
		if err := template.Render(element, target, merged); err != nil {
			return err
		}
	}

	// Bindings authored on the host evaluate in the outer scope; they run
	// before the element binds so the element sees their attribute writes.
	for _, nested := range in.Instructions {
		if err := r.apply(renderable, target, nested, merged); err != nil {
			return err
		}
	}

	renderable.Lifecycle().AddBindable(element)
	renderable.Lifecycle().AddAttachable(element)
	return nil
}

// stampPart materializes a replaceable-part slot: the slot node becomes a
// render location, the current-view-factory provider picks the replacement
// factory when the parts map names the slot's default, and the stamped view
// joins the owner's lifecycle so it binds and attaches with the template
// that declared the slot.
func (r *instructionRenderer) stampPart(renderable Renderable, target *html.Node, in types.StampPartInstruction, parts types.PartsMap) error {
	fallback, err := r.ctx.Engine().GetViewFactory(in.Default, r.ctx.Container)
	if err != nil {
		return err
	}

	location := dom.ConvertToRenderLocation(target)

	op, err := r.ctx.BeginComponentOperation(renderable, location.Anchor, in, fallback, parts, location)
	if err != nil {
		return err
	}
	defer op.Dispose()

	resolved, err := r.ctx.Get(KeyViewFactory)
	if err != nil {
		return err
	}
	factory := resolved.(*ViewFactory)

	view, err := factory.Create(nil, parts)
	if err != nil {
		return err
	}
	view.HoldAt(location)

	renderable.Lifecycle().AddBindable(view)
	renderable.Lifecycle().AddAttachable(view)
	return nil
}
