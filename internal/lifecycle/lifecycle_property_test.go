//go:build property

package lifecycle

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

type indexed struct {
	index int
	seen  *[]int
}

func (n *indexed) Bind(*Scope) error { *n.seen = append(*n.seen, n.index); return nil }
func (n *indexed) Unbind() error     { return nil }

// TestListOrderingProperties validates that insertion order survives for
// arbitrary registration sequences.
func TestListOrderingProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1234) // For reproducible results
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("bind traversal preserves insertion order", prop.ForAll(
		func(count int) bool {
			if count < 0 || count > 200 {
				return true
			}

			var seen []int
			lists := &Lists{}
			for i := 0; i < count; i++ {
				lists.AddBindable(&indexed{index: i, seen: &seen})
			}
			if err := lists.BindAll(NewScope(nil)); err != nil {
				return false
			}
			if len(seen) != count {
				return false
			}
			for i, v := range seen {
				if v != i {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 200),
	))

	properties.TestingRun(t)
}
