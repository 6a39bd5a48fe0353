package types

// InstructionType discriminates targeted instructions for renderer dispatch.
type InstructionType string

const (
	InstructionSetText        InstructionType = "setText"
	InstructionSetAttribute   InstructionType = "setAttribute"
	InstructionListener       InstructionType = "listener"
	InstructionHydrateElement InstructionType = "hydrateElement"
	InstructionStampPart      InstructionType = "stampPart"
)

// TargetedInstruction is a compiled directive describing what to bind or
// attach at a specific located node. The runtime treats instructions as
// opaque values routed to the renderer's handlers by type.
type TargetedInstruction interface {
	Type() InstructionType
}

// SetTextInstruction binds an expression's value to a node's text content.
type SetTextInstruction struct {
	// From is the source expression in the host scope.
	From string
}

func (SetTextInstruction) Type() InstructionType { return InstructionSetText }

// SetAttributeInstruction binds an expression's value to a named attribute.
type SetAttributeInstruction struct {
	Attribute string
	From      string
}

func (SetAttributeInstruction) Type() InstructionType { return InstructionSetAttribute }

// ListenerInstruction wires a named event on the target node to a handler
// expression. Event delivery itself is the event manager's concern.
type ListenerInstruction struct {
	Event string
	To    string
}

func (ListenerInstruction) Type() InstructionType { return InstructionListener }

// HydrateElementInstruction instantiates a registered custom element at the
// target node, applies its nested instructions, and records caller-supplied
// replaceable parts for the element's subtree.
type HydrateElementInstruction struct {
	// Resource is the canonical element name to instantiate.
	Resource string
	// Instructions configure the hydrated instance's bindables.
	Instructions []TargetedInstruction
	// Parts substitute the element's replaceable-part factories.
	Parts PartsMap
}

func (HydrateElementInstruction) Type() InstructionType { return InstructionHydrateElement }

// StampPartInstruction stamps a replaceable-part slot at the target: the
// slot's default content renders unless the enclosing usage supplied a
// replacement definition under the part name.
type StampPartInstruction struct {
	// Part is the slot name replacements are keyed by.
	Part string
	// Default is the slot's fallback content definition.
	Default *TemplateDefinition
}

func (StampPartInstruction) Type() InstructionType { return InstructionStampPart }
