package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-ui/lumen/internal/types"
)

func TestTemplDefinitionRendersMarkup(t *testing.T) {
	def, err := TemplDefinition(context.Background(), "HeroBanner", Raw(`<div class="hero"></div>`))
	require.NoError(t, err)

	assert.Equal(t, "hero-banner", def.Name)
	assert.Equal(t, `<div class="hero"></div>`, def.Template)
}

func TestTemplComponentType(t *testing.T) {
	ct, err := TemplComponentType(context.Background(), "StatusBadge", Raw(`<span></span>`),
		types.BindableInfo{Property: "status", Attribute: "status"})
	require.NoError(t, err)

	assert.Equal(t, "status-badge", ct.Name)
	assert.Equal(t, types.ResourceElement, ct.Kind)
	require.Len(t, ct.Bindables, 1)

	instance := ct.Constructor()
	_, ok := instance.(map[string]any)
	assert.True(t, ok)
}
