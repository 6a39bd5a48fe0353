// Package adapters bridges external component sources into template
// definitions, handling type conversions where necessary. The shipped
// bridge renders templ components to markup so they can participate in
// compilation and hydration like any declared element.
package adapters

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/lumen-ui/lumen/internal/errors"
	"github.com/lumen-ui/lumen/internal/registry"
	"github.com/lumen-ui/lumen/internal/types"
)

// TemplDefinition renders a templ component to markup and wraps the result
// in a template definition named after the component.
func TemplDefinition(ctx context.Context, name string, component templ.Component) (*types.TemplateDefinition, error) {
	var sb strings.Builder
	if err := component.Render(ctx, &sb); err != nil {
		return nil, errors.NewIOError(errors.ErrCodeBadMarkup, "rendering templ component "+name, err)
	}
	return &types.TemplateDefinition{
		Name:     registry.CanonicalName(name),
		Template: sb.String(),
	}, nil
}

// TemplComponentType wraps a templ component in a full element type so it
// can be registered with a render context. Instances are property bags; the
// markup itself carries the component's static output.
func TemplComponentType(ctx context.Context, name string, component templ.Component, bindables ...types.BindableInfo) (*types.ComponentType, error) {
	def, err := TemplDefinition(ctx, name, component)
	if err != nil {
		return nil, err
	}
	return &types.ComponentType{
		Name:        def.Name,
		Kind:        types.ResourceElement,
		Definition:  def,
		Bindables:   bindables,
		Constructor: func() any { return map[string]any{} },
	}, nil
}

// Raw adapts a literal markup string into a templ component, useful for
// tests and for manifest templates that want to flow through the same
// bridge as generated components.
func Raw(markup string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, markup)
		return err
	})
}
