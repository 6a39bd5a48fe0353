package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lumen-ui/lumen/internal/config"
	"github.com/lumen-ui/lumen/internal/manifest"
	"github.com/lumen-ui/lumen/internal/registry"
	"github.com/lumen-ui/lumen/internal/types"
)

// loadRegistry reads every configured manifest into a fresh resource
// registry.
func loadRegistry(cfg *config.Config) (*registry.ResourceRegistry, error) {
	reg := registry.NewResourceRegistry()
	if err := reloadManifests(cfg, reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// reloadManifests re-reads the configured manifests into reg, updating
// existing registrations in place.
func reloadManifests(cfg *config.Config, reg *registry.ResourceRegistry) error {
	for _, path := range cfg.Manifests.Paths {
		m, err := manifest.Load(path)
		if err != nil {
			return fmt.Errorf("loading manifest %s: %w", path, err)
		}
		for _, ct := range m.ComponentTypes() {
			reg.Register(ct)
		}
	}
	return nil
}

// previewDefinition synthesizes a definition that stamps one element with
// the given attributes, with every registered type in scope.
func previewDefinition(reg *registry.ResourceRegistry, name string, attrs map[string]string) *types.TemplateDefinition {
	deps := make([]any, 0)
	for _, ct := range reg.GetAll() {
		deps = append(deps, ct)
	}

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("<" + name)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%q", k, attrs[k])
	}
	sb.WriteString("></" + name + ">")

	return &types.TemplateDefinition{
		Name:         "render:" + name,
		Template:     sb.String(),
		Dependencies: deps,
	}
}
