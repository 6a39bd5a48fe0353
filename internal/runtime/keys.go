// Package runtime is the template-instantiation core: it memoizes compiled
// templates, produces live component instances with correctly scoped
// dependency resolution, and links every instance into the two-phase
// lifecycle ordering of its owner.
package runtime

// ContextKey names the well-known per-operation registrations installed
// into every render context.
type ContextKey string

const (
	// KeyTargetNode resolves the node currently being processed.
	KeyTargetNode ContextKey = "lumen:target-node"
	// KeyRenderable resolves the instance currently being constructed for.
	KeyRenderable ContextKey = "lumen:renderable"
	// KeyInstruction resolves the instruction currently being applied.
	KeyInstruction ContextKey = "lumen:instruction"
	// KeyRenderLocation resolves the current render location, when one was
	// supplied to the operation.
	KeyRenderLocation ContextKey = "lumen:render-location"
	// KeyViewFactory resolves the current view factory, subject to
	// replaceable-part substitution.
	KeyViewFactory ContextKey = "lumen:view-factory"
)

// providerKeys lists every scoped provider key for reset passes.
var providerKeys = []ContextKey{
	KeyTargetNode,
	KeyRenderable,
	KeyInstruction,
	KeyRenderLocation,
	KeyViewFactory,
}
