// Package registry tracks the component types (custom elements, custom
// attributes, value converters) known to a Lumen application and notifies
// watchers when the set changes.
package registry

import (
	"sync"
	"time"

	"github.com/lumen-ui/lumen/internal/types"
)

// ResourceRegistry manages all registered component types.
type ResourceRegistry struct {
	resources map[string]*types.ComponentType
	mutex     sync.RWMutex
	watchers  []chan types.ResourceEvent
}

// NewResourceRegistry creates a new resource registry.
func NewResourceRegistry() *ResourceRegistry {
	return &ResourceRegistry{
		resources: make(map[string]*types.ComponentType),
		watchers:  make([]chan types.ResourceEvent, 0),
	}
}

// Register adds or updates a component type in the registry.
func (r *ResourceRegistry) Register(ct *types.ComponentType) {
	key := types.ResourceKey(ct.Kind, ct.Name)

	r.mutex.Lock()
	defer r.mutex.Unlock()

	eventType := types.EventTypeAdded
	if _, exists := r.resources[key]; exists {
		eventType = types.EventTypeUpdated
	}
	r.resources[key] = ct

	r.notify(types.ResourceEvent{
		Type:      eventType,
		Resource:  ct,
		Timestamp: time.Now(),
	})
}

// Get retrieves a component type by kind and canonical name.
func (r *ResourceRegistry) Get(kind types.ResourceKind, name string) (*types.ComponentType, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	ct, exists := r.resources[types.ResourceKey(kind, name)]
	return ct, exists
}

// GetAll returns a copy of the registered component types.
func (r *ResourceRegistry) GetAll() []*types.ComponentType {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]*types.ComponentType, 0, len(r.resources))
	for _, ct := range r.resources {
		result = append(result, ct)
	}
	return result
}

// Remove removes a component type from the registry.
func (r *ResourceRegistry) Remove(kind types.ResourceKind, name string) {
	key := types.ResourceKey(kind, name)

	r.mutex.Lock()
	defer r.mutex.Unlock()

	ct, exists := r.resources[key]
	if !exists {
		return
	}
	delete(r.resources, key)

	r.notify(types.ResourceEvent{
		Type:      types.EventTypeRemoved,
		Resource:  ct,
		Timestamp: time.Now(),
	})
}

// Watch returns a channel that receives resource events.
func (r *ResourceRegistry) Watch() <-chan types.ResourceEvent {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	ch := make(chan types.ResourceEvent, 100)
	r.watchers = append(r.watchers, ch)
	return ch
}

// UnWatch removes a watcher channel and closes it.
func (r *ResourceRegistry) UnWatch(ch <-chan types.ResourceEvent) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i, watcher := range r.watchers {
		if watcher == ch {
			close(watcher)
			r.watchers = append(r.watchers[:i], r.watchers[i+1:]...)
			break
		}
	}
}

// Count returns the number of registered component types.
func (r *ResourceRegistry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.resources)
}

// notify fans out an event to watchers without blocking. Callers hold the
// write lock.
func (r *ResourceRegistry) notify(event types.ResourceEvent) {
	for _, watcher := range r.watchers {
		select {
		case watcher <- event:
		default:
			// Skip if channel is full
		}
	}
}
