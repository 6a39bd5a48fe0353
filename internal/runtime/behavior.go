package runtime

import (
	"golang.org/x/net/html"

	"github.com/lumen-ui/lumen/internal/dom"
	"github.com/lumen-ui/lumen/internal/types"
)

// RuntimeBehavior is the per-type runtime metadata computed once the first
// time a component type is hydrated: the bindable property table and the
// host marker attribute. One behavior instance serves every instance of its
// type.
type RuntimeBehavior struct {
	Type      *types.ComponentType
	Bindables map[string]types.BindableInfo
}

func newRuntimeBehavior(ct *types.ComponentType) *RuntimeBehavior {
	bindables := make(map[string]types.BindableInfo, len(ct.Bindables))
	for _, b := range ct.Bindables {
		bindables[b.Attribute] = b
	}
	return &RuntimeBehavior{Type: ct, Bindables: bindables}
}

// hostMarker is the attribute stamped on hydrated hosts so the client
// runtime and tooling can find component roots.
func (rb *RuntimeBehavior) hostMarker() string {
	switch rb.Type.Kind {
	case types.ResourceAttribute:
		return "data-lumen-attribute"
	default:
		return "data-lumen-element"
	}
}

// ApplyTo marks the host node as governed by this behavior's type and seeds
// the element's property bag with bindable defaults taken from matching
// host attributes.
func (rb *RuntimeBehavior) ApplyTo(e *Element, host *html.Node) {
	if host != nil {
		dom.SetAttr(host, rb.hostMarker(), rb.Type.Name)
	}
	for attr, info := range rb.Bindables {
		if v, ok := dom.GetAttr(host, attr); ok {
			name := info.Property
			if name == "" {
				name = attr
			}
			e.Properties[name] = v
		}
	}
}
