package event

import "context"

// Event carries the state of a single trigger round: the event name, the
// object the event concerns, a parameter collection, and a propagation
// stop flag. One Event is constructed per trigger round and is never
// shared across rounds.
type Event struct {
	name    string
	target  any
	params  *Params
	stopped bool
}

// New creates an event for the given name, target, and parameters.
// A nil params creates an empty parameter collection.
func New(name string, target any, params *Params) *Event {
	if params == nil {
		params = NewParams()
	}
	return &Event{
		name:   name,
		target: target,
		params: params,
	}
}

// Name returns the event name.
func (e *Event) Name() string {
	return e.name
}

// Target returns the object the event concerns.
// For lifecycle events this is typically the owning component.
func (e *Event) Target() any {
	return e.target
}

// SetTarget replaces the event target.
func (e *Event) SetTarget(target any) {
	e.target = target
}

// Params returns the event's parameter collection.
// The collection is mutable; listeners may read and write parameters.
func (e *Event) Params() *Params {
	return e.params
}

// Param returns the value for key, or nil if the key is absent.
func (e *Event) Param(key string) any {
	v, _ := e.params.Get(key)
	return v
}

// StopPropagation marks the event so that no further listeners in the
// current trigger round are invoked.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// Stopped returns true if a listener has requested early termination.
func (e *Event) Stopped() bool {
	return e.stopped
}

// Params is an insertion-ordered string-keyed parameter collection.
// Keys iterate in the order they were first set; re-setting an existing
// key updates the value without changing its position.
type Params struct {
	keys   []string
	values map[string]any
}

// NewParams creates an empty parameter collection.
func NewParams() *Params {
	return &Params{values: make(map[string]any)}
}

// Set stores a value under key and returns the collection for chaining.
func (p *Params) Set(key string, value any) *Params {
	if _, exists := p.values[key]; !exists {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
	return p
}

// Get returns the value for key and whether it exists.
func (p *Params) Get(key string) (any, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Keys returns the parameter keys in insertion order.
func (p *Params) Keys() []string {
	keys := make([]string, len(p.keys))
	copy(keys, p.keys)
	return keys
}

// Len returns the number of parameters.
func (p *Params) Len() int {
	return len(p.keys)
}

// Listener handles an event during a trigger round and returns a result
// value that is appended to the round's response collection. Returning a
// non-nil error aborts the remaining listeners in the round; the error is
// propagated to the trigger caller.
type Listener interface {
	Handle(ctx context.Context, e *Event) (any, error)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(ctx context.Context, e *Event) (any, error)

// Handle implements Listener.
func (f ListenerFunc) Handle(ctx context.Context, e *Event) (any, error) {
	return f(ctx, e)
}

// Aggregate registers several listeners on a manager in one bulk call.
// Components implement this to hook a lifecycle without the owner knowing
// which events they care about; Manager.AttachAggregate records what was
// attached so the whole set can be removed symmetrically.
type Aggregate interface {
	RegisterWith(m *Manager)
}
