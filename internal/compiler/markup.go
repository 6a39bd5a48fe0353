package compiler

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/lumen-ui/lumen/internal/dom"
	"github.com/lumen-ui/lumen/internal/types"
)

const (
	bindSuffix    = ".bind"
	triggerSuffix = ".trigger"
	replacePart   = "replace-part"
	replaceable   = "replaceable"
	partName      = "part"
)

// MarkupCompiler is the shipped default compiler. It parses the markup
// payload, recognizes binding attributes (*.bind, *.trigger) and registered
// custom elements, marks the located target nodes, and emits one
// instruction row per target in document order.
type MarkupCompiler struct{}

// NewMarkupCompiler creates the default markup compiler.
func NewMarkupCompiler() *MarkupCompiler {
	return &MarkupCompiler{}
}

// Name returns the conventional default compiler name.
func (c *MarkupCompiler) Name() string {
	return types.DefaultCompilerName
}

// Compile finalizes the definition. The input is copied, never mutated.
func (c *MarkupCompiler) Compile(def *types.TemplateDefinition, resources ResourceFinder, flags types.CompileFlags) (*types.TemplateDefinition, error) {
	roots, err := dom.ParseFragment(def.Template)
	if err != nil {
		return nil, err
	}

	state := &compileState{resources: resources, flags: flags}
	for _, root := range roots {
		state.compileNode(root, true)
	}

	markup, err := dom.SerializeString(roots)
	if err != nil {
		return nil, err
	}

	out := *def
	out.Template = markup
	out.Instructions = state.rows
	out.SurrogateInstructions = state.surrogate
	out.BuildRequired = false
	return &out, nil
}

type compileState struct {
	resources ResourceFinder
	flags     types.CompileFlags
	rows      [][]types.TargetedInstruction
	surrogate []types.TargetedInstruction
}

func (s *compileState) compileNode(n *html.Node, isRoot bool) {
	if n.Type != html.ElementNode {
		return
	}

	if n.Data == "template" {
		if _, ok := dom.GetAttr(n, replaceable); ok {
			s.compileReplaceableSlot(n)
			return
		}
	}

	if s.resources != nil {
		if desc := s.resources.Find(types.ResourceElement, n.Data); desc != nil {
			s.compileCustomElement(n)
			return
		}
	}

	row := s.extractBindings(n)
	switch {
	case len(row) == 0:
		// plain element
	case isRoot && s.flags.Surrogate():
		s.surrogate = append(s.surrogate, row...)
	default:
		s.markTarget(n, row)
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		s.compileNode(child, false)
	}
}

// compileCustomElement emits a hydrate instruction for a registered element.
// The element node itself becomes the target; its subtree belongs to the
// element's own template, so compilation does not descend past part
// replacements.
func (s *compileState) compileCustomElement(n *html.Node) {
	instr := types.HydrateElementInstruction{
		Resource:     n.Data,
		Instructions: s.extractBindings(n),
		Parts:        s.extractParts(n),
	}
	s.markTarget(n, []types.TargetedInstruction{instr})
}

// compileReplaceableSlot turns <template replaceable part="..."> into a
// stamp-part instruction. The slot's children become the default content
// definition; the renderer swaps the marked node for an anchor, so the
// stripped template element never reaches rendered output.
func (s *compileState) compileReplaceableSlot(n *html.Node) {
	name, _ := dom.GetAttr(n, partName)
	if name == "" {
		return
	}

	var inner []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		inner = append(inner, c)
	}
	markup, err := dom.SerializeString(inner)
	if err != nil {
		return
	}
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}

	instr := types.StampPartInstruction{
		Part: name,
		Default: &types.TemplateDefinition{
			Name:          name,
			Template:      markup,
			BuildRequired: markup != "",
		},
	}
	s.markTarget(n, []types.TargetedInstruction{instr})
}

// extractBindings strips binding attributes off n and compiles them.
func (s *compileState) extractBindings(n *html.Node) []types.TargetedInstruction {
	var row []types.TargetedInstruction
	var remove []string

	for _, attr := range n.Attr {
		switch {
		case strings.HasSuffix(attr.Key, bindSuffix):
			property := strings.TrimSuffix(attr.Key, bindSuffix)
			if property == "text" {
				row = append(row, types.SetTextInstruction{From: attr.Val})
			} else {
				row = append(row, types.SetAttributeInstruction{Attribute: property, From: attr.Val})
			}
			remove = append(remove, attr.Key)
		case strings.HasSuffix(attr.Key, triggerSuffix):
			event := strings.TrimSuffix(attr.Key, triggerSuffix)
			row = append(row, types.ListenerInstruction{Event: event, To: attr.Val})
			remove = append(remove, attr.Key)
		}
	}

	for _, key := range remove {
		dom.RemoveAttr(n, key)
	}
	return row
}

// extractParts lifts <template replace-part="..."> children out of a custom
// element into replacement definitions compiled on demand.
func (s *compileState) extractParts(n *html.Node) types.PartsMap {
	var parts types.PartsMap

	for child := n.FirstChild; child != nil; {
		next := child.NextSibling
		if child.Type == html.ElementNode && child.Data == "template" {
			if name, ok := dom.GetAttr(child, replacePart); ok {
				var inner []*html.Node
				for c := child.FirstChild; c != nil; c = c.NextSibling {
					inner = append(inner, c)
				}
				markup, err := dom.SerializeString(inner)
				if err == nil {
					if parts == nil {
						parts = make(types.PartsMap)
					}
					parts[name] = &types.TemplateDefinition{
						Name:          name,
						Template:      markup,
						BuildRequired: markup != "",
					}
				}
				n.RemoveChild(child)
			}
		}
		child = next
	}
	return parts
}

func (s *compileState) markTarget(n *html.Node, row []types.TargetedInstruction) {
	dom.SetAttr(n, dom.TargetAttribute, strconv.Itoa(len(s.rows)))
	s.rows = append(s.rows, row)
}
