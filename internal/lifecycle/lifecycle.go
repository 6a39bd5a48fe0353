// Package lifecycle defines the two-phase activation protocol for rendered
// component trees. Every renderable owns two ordered lists, bindables and
// attachables, built single-threaded during render-time tree construction
// and traversed head to tail in two full passes: bind completes for a whole
// subtree before attach begins anywhere in it.
package lifecycle

// Bindable participates in the bind phase of the lifecycle.
type Bindable interface {
	Bind(scope *Scope) error
	Unbind() error
}

// Attachable participates in the attach phase of the lifecycle.
type Attachable interface {
	Attach() error
	Detach() error
}

// Lists holds a renderable's lifecycle membership in first-registered,
// first-activated order. Insertion is append-only and O(1); a participant
// belongs to at most one list of each kind.
type Lists struct {
	bindables   []Bindable
	attachables []Attachable
}

// AddBindable appends b to the tail of the bind list.
func (l *Lists) AddBindable(b Bindable) {
	l.bindables = append(l.bindables, b)
}

// AddAttachable appends a to the tail of the attach list.
func (l *Lists) AddAttachable(a Attachable) {
	l.attachables = append(l.attachables, a)
}

// Bindables returns the bind list in traversal order.
func (l *Lists) Bindables() []Bindable {
	return l.bindables
}

// Attachables returns the attach list in traversal order.
func (l *Lists) Attachables() []Attachable {
	return l.attachables
}

// BindAll runs the bind pass head to tail.
func (l *Lists) BindAll(scope *Scope) error {
	for _, b := range l.bindables {
		if err := b.Bind(scope); err != nil {
			return err
		}
	}
	return nil
}

// UnbindAll runs the unbind pass tail to head.
func (l *Lists) UnbindAll() error {
	for i := len(l.bindables) - 1; i >= 0; i-- {
		if err := l.bindables[i].Unbind(); err != nil {
			return err
		}
	}
	return nil
}

// AttachAll runs the attach pass head to tail.
func (l *Lists) AttachAll() error {
	for _, a := range l.attachables {
		if err := a.Attach(); err != nil {
			return err
		}
	}
	return nil
}

// DetachAll runs the detach pass tail to head.
func (l *Lists) DetachAll() error {
	for i := len(l.attachables) - 1; i >= 0; i-- {
		if err := l.attachables[i].Detach(); err != nil {
			return err
		}
	}
	return nil
}
