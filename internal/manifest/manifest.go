// Package manifest loads declarative component manifests. A manifest is a
// YAML file declaring custom elements by name, markup template, and
// bindable properties; loading one yields component types ready to register
// with a render context or the resource registry.
package manifest

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lumen-ui/lumen/internal/errors"
	"github.com/lumen-ui/lumen/internal/registry"
	"github.com/lumen-ui/lumen/internal/types"
)

// Manifest is the parsed form of one manifest file.
type Manifest struct {
	// Name identifies the manifest for logging and CLI output.
	Name string `yaml:"name"`
	// Components declares the manifest's component types.
	Components []Component `yaml:"components"`
}

// Component is one declared component type.
type Component struct {
	Name      string     `yaml:"name"`
	Kind      string     `yaml:"kind"`
	Template  string     `yaml:"template"`
	Compiler  string     `yaml:"compiler"`
	CacheSize int        `yaml:"cacheSize"`
	Bindables []Bindable `yaml:"bindables"`
}

// Bindable is one declared bindable property.
type Bindable struct {
	Property  string `yaml:"property"`
	Attribute string `yaml:"attribute"`
	Primary   bool   `yaml:"primary"`
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeManifestInvalid, "reading manifest "+path, err)
	}
	return Parse(data)
}

// Parse decodes and validates manifest YAML.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.NewIOError(errors.ErrCodeManifestInvalid, "decoding manifest", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks structural invariants: unique kebab-case names, known
// kinds, and bindable attributes present.
func (m *Manifest) Validate() error {
	if len(m.Components) == 0 {
		return errors.NewValidationError(errors.ErrCodeManifestInvalid, "manifest declares no components")
	}

	seen := make(map[string]bool, len(m.Components))
	for i, c := range m.Components {
		if c.Name == "" {
			return errors.NewValidationError(errors.ErrCodeManifestInvalid,
				fmt.Sprintf("component %d has no name", i))
		}
		canonical := registry.CanonicalName(c.Name)
		if seen[canonical] {
			return errors.NewValidationError(errors.ErrCodeManifestInvalid,
				"duplicate component name: "+canonical)
		}
		seen[canonical] = true

		switch kind := resourceKind(c.Kind); kind {
		case types.ResourceElement, types.ResourceAttribute, types.ResourceConverter:
		default:
			return errors.NewValidationError(errors.ErrCodeManifestInvalid,
				fmt.Sprintf("component %q has unknown kind %q", c.Name, c.Kind)).WithResource(c.Name)
		}

		if c.CacheSize < types.CacheSizeUnbounded {
			return errors.NewValidationError(errors.ErrCodeManifestInvalid,
				fmt.Sprintf("component %q has invalid cacheSize %d", c.Name, c.CacheSize)).WithResource(c.Name)
		}

		for _, b := range c.Bindables {
			if b.Attribute == "" && b.Property == "" {
				return errors.NewValidationError(errors.ErrCodeManifestInvalid,
					fmt.Sprintf("component %q declares an empty bindable", c.Name)).WithResource(c.Name)
			}
		}
	}
	return nil
}

// ComponentTypes converts the manifest's declarations into runtime
// component types. Declared components carry no Go code, so instances are
// property bags the binding scope can descend into.
func (m *Manifest) ComponentTypes() []*types.ComponentType {
	out := make([]*types.ComponentType, 0, len(m.Components))
	for _, c := range m.Components {
		out = append(out, c.ComponentType())
	}
	return out
}

// ComponentType converts one declaration.
func (c Component) ComponentType() *types.ComponentType {
	bindables := make([]types.BindableInfo, 0, len(c.Bindables))
	for _, b := range c.Bindables {
		attribute := b.Attribute
		if attribute == "" {
			attribute = registry.CanonicalName(b.Property)
		}
		bindables = append(bindables, types.BindableInfo{
			Property:  b.Property,
			Attribute: attribute,
			Primary:   b.Primary,
		})
	}

	name := registry.CanonicalName(c.Name)
	return &types.ComponentType{
		Name: name,
		Kind: resourceKind(c.Kind),
		Definition: &types.TemplateDefinition{
			Name:      name,
			Template:  strings.TrimSpace(c.Template),
			Compiler:  c.Compiler,
			CacheSize: c.CacheSize,
		},
		Bindables:   bindables,
		Constructor: func() any { return map[string]any{} },
	}
}

func resourceKind(kind string) types.ResourceKind {
	switch kind {
	case "", string(types.ResourceElement):
		return types.ResourceElement
	case string(types.ResourceAttribute):
		return types.ResourceAttribute
	case string(types.ResourceConverter):
		return types.ResourceConverter
	default:
		return types.ResourceKind(kind)
	}
}
