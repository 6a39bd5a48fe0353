//go:build property

package runtime

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/lumen-ui/lumen/internal/types"
)

// TestViewPoolProperties validates the recycling pool bound for arbitrary
// create/release interleavings.
func TestViewPoolProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1234) // For reproducible results
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("pool never exceeds its bound", prop.ForAll(
		func(cacheSize, releases int) bool {
			if cacheSize < 0 || cacheSize > 20 || releases < 0 || releases > 50 {
				return true
			}

			engine := NewRenderingEngine(nil, nil, nil)
			factory, err := engine.GetViewFactory(&types.TemplateDefinition{
				Name:      "pooled",
				Template:  "<li></li>",
				CacheSize: cacheSize,
			}, nil)
			if err != nil {
				return false
			}

			for i := 0; i < releases; i++ {
				view, err := factory.Create(nil, nil)
				if err != nil {
					return false
				}
				// A fresh view was just drained from the pool, so every
				// release below the bound must be accepted.
				accepted := view.Release()
				if accepted != (cacheSize != 0) {
					return false
				}
				if factory.CachedCount() > cacheSize {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 20),
		gen.IntRange(0, 50),
	))

	properties.Property("unbounded pool accepts every release", prop.ForAll(
		func(releases int) bool {
			if releases < 0 || releases > 50 {
				return true
			}

			engine := NewRenderingEngine(nil, nil, nil)
			factory, err := engine.GetViewFactory(&types.TemplateDefinition{
				Name:      "unbounded",
				Template:  "<li></li>",
				CacheSize: types.CacheSizeUnbounded,
			}, nil)
			if err != nil {
				return false
			}

			views := make([]*View, 0, releases)
			for i := 0; i < releases; i++ {
				view, err := factory.Create(nil, nil)
				if err != nil {
					return false
				}
				views = append(views, view)
			}
			for _, view := range views {
				if !view.Release() {
					return false
				}
			}
			return factory.CachedCount() == releases
		},
		gen.IntRange(0, 50),
	))

	properties.TestingRun(t)
}
