package runtime

import (
	"sync"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/lumen-ui/lumen/internal/dom"
	"github.com/lumen-ui/lumen/internal/lifecycle"
	"github.com/lumen-ui/lumen/internal/types"
)

// View is one stamped instance of a template: a node sequence plus the
// lifecycle participants collected while rendering it.
type View struct {
	RenderableState

	id       uuid.UUID
	factory  *ViewFactory
	location *dom.RenderLocation
	host     *html.Node

	bound    bool
	attached bool
}

// ID returns the view's instance identity, stable across cache reuse.
func (v *View) ID() uuid.UUID {
	return v.id
}

// Factory returns the factory that created this view.
func (v *View) Factory() *ViewFactory {
	return v.factory
}

// Bind runs the bind pass over the view's lifecycle lists under scope.
func (v *View) Bind(scope *lifecycle.Scope) error {
	if v.bound {
		return nil
	}
	v.bound = true
	v.SetScope(scope)
	return v.Lifecycle().BindAll(scope)
}

// Unbind reverses the bind pass in reverse registration order.
func (v *View) Unbind() error {
	if !v.bound {
		return nil
	}
	v.bound = false
	if err := v.Lifecycle().UnbindAll(); err != nil {
		return err
	}
	v.SetScope(nil)
	return nil
}

// HoldAt parks the view at a render location so Attach inserts its nodes
// before the location's anchor.
func (v *View) HoldAt(location *dom.RenderLocation) {
	v.location = location
	v.host = nil
}

// AppendTo parks the view under a host node so Attach appends its nodes as
// the host's trailing children.
func (v *View) AppendTo(host *html.Node) {
	v.host = host
	v.location = nil
}

// Attach inserts the view's nodes at its parked position and runs the attach
// pass.
func (v *View) Attach() error {
	if v.attached {
		return nil
	}
	v.attached = true

	if err := v.Lifecycle().AttachAll(); err != nil {
		return err
	}
	nodes := v.Nodes()
	if nodes == nil {
		return nil
	}
	switch {
	case v.location != nil:
		nodes.InsertBefore(v.location)
	case v.host != nil:
		nodes.AppendTo(v.host)
	}
	return nil
}

// Detach removes the view's nodes from the tree and runs the detach pass in
// reverse registration order.
func (v *View) Detach() error {
	if !v.attached {
		return nil
	}
	v.attached = false

	if nodes := v.Nodes(); nodes != nil {
		nodes.Remove()
	}
	return v.Lifecycle().DetachAll()
}

// Release returns the view to its factory's cache if the factory is caching
// and has room. It reports whether the view was cached.
func (v *View) Release() bool {
	if v.factory == nil {
		return false
	}
	return v.factory.tryReturnToCache(v)
}

// ViewFactory stamps out views from a compiled template and recycles
// released ones through a bounded pool.
type ViewFactory struct {
	name     string
	template Template

	mu        sync.Mutex
	cacheSize int
	cache     []*View
}

// NewViewFactory builds a factory over a template. Caching starts disabled.
func NewViewFactory(name string, template Template) *ViewFactory {
	return &ViewFactory{name: name, template: template}
}

// Name returns the factory's definition name.
func (f *ViewFactory) Name() string {
	return f.name
}

// SetCacheSize sets the recycling pool bound. types.CacheSizeUnbounded lifts
// the bound entirely; zero disables caching. Shrinking drops any views the
// pool holds beyond the new bound.
func (f *ViewFactory) SetCacheSize(size int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cacheSize = size
	if size >= 0 && len(f.cache) > size {
		f.cache = f.cache[:size]
	}
}

// IsCaching reports whether released views can currently be pooled.
func (f *ViewFactory) IsCaching() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cacheSize != 0
}

// CachedCount returns the number of views currently pooled.
func (f *ViewFactory) CachedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cache)
}

// Create returns a pooled view if one is available, otherwise renders a new
// one through the template.
func (f *ViewFactory) Create(host *html.Node, replacements types.PartsMap) (*View, error) {
	f.mu.Lock()
	if n := len(f.cache); n > 0 {
		view := f.cache[n-1]
		f.cache = f.cache[:n-1]
		f.mu.Unlock()
		return view, nil
	}
	f.mu.Unlock()

	view := &View{id: uuid.New(), factory: f}
	if err := f.template.Render(view, host, replacements); err != nil {
		return nil, err
	}
	return view, nil
}

func (f *ViewFactory) tryReturnToCache(v *View) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cacheSize == 0 {
		return false
	}
	if f.cacheSize > 0 && len(f.cache) >= f.cacheSize {
		return false
	}
	f.cache = append(f.cache, v)
	return true
}
