package event

import (
	"context"
	"sort"
	"time"
)

// Binding is one stored listener registration: the callback, its priority,
// and the sequence number assigned at attach time. The sequence breaks
// priority ties so equal-priority listeners run in attachment order; it is
// assigned once and never recomputed.
//
// Because Go functions are not comparable, the Binding returned by Attach
// is the identity token for later removal.
type Binding struct {
	name     string
	listener Listener
	priority int
	sequence uint64
}

// EventName returns the event name the binding is attached under.
func (b *Binding) EventName() string {
	return b.name
}

// Priority returns the binding's priority. Higher runs earlier.
func (b *Binding) Priority() int {
	return b.priority
}

// DefaultPriority is used when a registration does not specify one.
const DefaultPriority = 1

// attachConfig holds per-registration settings.
type attachConfig struct {
	priority int
	explicit bool
}

// AttachOption configures a single listener registration.
type AttachOption func(*attachConfig)

// WithPriority sets the registration's priority. Higher priorities run
// earlier; listeners with equal priority run in attachment order.
// Default: DefaultPriority (1).
func WithPriority(p int) AttachOption {
	return func(cfg *attachConfig) {
		cfg.priority = p
		cfg.explicit = true
	}
}

// Manager is a listener bus: per-event ordered listener storage plus a
// trigger engine that merges the bus's own listeners with shared-registry
// listeners registered under the bus's identifiers.
//
// A Manager is owned by the component that created it and is not
// goroutine-safe; the shared registry it consults is. Dispatch is
// synchronous and runs on the caller's goroutine.
type Manager struct {
	identifiers []string
	shared      *SharedManager
	bindings    map[string][]*Binding
	seq         uint64

	// Set while an aggregate's RegisterWith call is in flight so every
	// Attach it performs is recorded on the handle.
	recording *AggregateHandle

	// onListener, when set, observes each listener invocation.
	onListener func(eventName string, priority int, duration time.Duration, err error)
}

// ManagerOption configures a Manager at construction.
type ManagerOption func(*Manager)

// WithIdentifiers declares the context identifiers under which the shared
// registry is consulted for this bus's triggers. Identifiers should be
// supplied most-specific-first; shared listeners are dispatched in the
// declared identifier order.
func WithIdentifiers(ids ...string) ManagerOption {
	return func(m *Manager) {
		m.identifiers = append(m.identifiers, ids...)
	}
}

// WithShared sets the shared registry this bus consults. Pass nil to
// detach the bus from any shared registry. Default: the process-wide
// registry returned by Shared.
func WithShared(s *SharedManager) ManagerOption {
	return func(m *Manager) {
		m.shared = s
	}
}

// WithoutShared detaches the bus from any shared registry, so triggers
// dispatch only locally attached listeners.
func WithoutShared() ManagerOption {
	return func(m *Manager) {
		m.shared = nil
	}
}

// WithListenerObserver sets a callback invoked after each listener runs,
// with the event name, the listener's priority, its duration, and its
// error if any. Used to wire logging and metrics without coupling the
// dispatch engine to an observability stack.
func WithListenerObserver(fn func(eventName string, priority int, duration time.Duration, err error)) ManagerOption {
	return func(m *Manager) {
		m.onListener = fn
	}
}

// NewManager creates a listener bus. Unless WithShared or WithoutShared
// is given, the bus consults the process-wide shared registry.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		bindings: make(map[string][]*Binding),
		shared:   Shared(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Identifiers returns the context identifiers declared at construction.
func (m *Manager) Identifiers() []string {
	ids := make([]string, len(m.identifiers))
	copy(ids, m.identifiers)
	return ids
}

// SharedRegistry returns the shared registry this bus consults, or nil.
func (m *Manager) SharedRegistry() *SharedManager {
	return m.shared
}

// Attach registers a listener for the named event and returns its binding.
// The binding is the token for Detach.
func (m *Manager) Attach(name string, l Listener, opts ...AttachOption) (*Binding, error) {
	if name == "" {
		return nil, ErrEmptyEventName
	}
	if l == nil {
		return nil, ErrNilListener
	}

	cfg := attachConfig{priority: DefaultPriority}
	for _, opt := range opts {
		opt(&cfg)
	}
	// An in-flight aggregate attach supplies the suggested default; an
	// explicit WithPriority from the aggregate overrides it.
	if m.recording != nil && !cfg.explicit {
		cfg.priority = m.recording.defaultPriority
	}

	m.seq++
	b := &Binding{
		name:     name,
		listener: l,
		priority: cfg.priority,
		sequence: m.seq,
	}

	m.bindings[name] = insertOrdered(m.bindings[name], b)

	if m.recording != nil {
		m.recording.bindings = append(m.recording.bindings, b)
	}

	return b, nil
}

// AttachFunc registers a plain function as a listener.
func (m *Manager) AttachFunc(name string, fn ListenerFunc, opts ...AttachOption) (*Binding, error) {
	return m.Attach(name, fn, opts...)
}

// Detach removes a previously attached binding from the named event.
// It reports whether a removal occurred. Remaining bindings keep their
// sequence numbers.
func (m *Manager) Detach(name string, b *Binding) bool {
	if b == nil {
		return false
	}
	bindings := m.bindings[name]
	for i, existing := range bindings {
		if existing == b {
			m.bindings[name] = append(bindings[:i], bindings[i+1:]...)
			if len(m.bindings[name]) == 0 {
				delete(m.bindings, name)
			}
			return true
		}
	}
	return false
}

// Listeners returns an ordered snapshot of the bus-local bindings for the
// named event, highest priority first, attachment order within a priority.
func (m *Manager) Listeners(name string) []*Binding {
	bindings := m.bindings[name]
	if len(bindings) == 0 {
		return nil
	}
	out := make([]*Binding, len(bindings))
	copy(out, bindings)
	return out
}

// Trigger dispatches one synchronous round of the named event: bus-local
// listeners first, then shared-registry listeners for this bus's
// identifiers, each group ordered by (priority desc, attachment order).
// The round runs every listener to completion unless one sets the event's
// stop flag or returns an error; errors abort the round and are returned
// wrapped in a ListenerError.
func (m *Manager) Trigger(ctx context.Context, name string, target any, params *Params) (*Responses, error) {
	return m.TriggerUntil(ctx, name, target, params, nil)
}

// TriggerUntil dispatches like Trigger but also stops the round as soon
// as halt returns true for the responses collected so far. The halt
// predicate is evaluated after each listener, after the stop flag.
func (m *Manager) TriggerUntil(ctx context.Context, name string, target any, params *Params, halt func(*Responses) bool) (*Responses, error) {
	if name == "" {
		return nil, ErrEmptyEventName
	}
	return m.dispatch(ctx, New(name, target, params), halt)
}

// TriggerEvent dispatches a round for a caller-constructed event, such as
// an application lifecycle event built up before firing.
func (m *Manager) TriggerEvent(ctx context.Context, e *Event) (*Responses, error) {
	return m.TriggerEventUntil(ctx, e, nil)
}

// TriggerEventUntil dispatches a caller-constructed event with a halt
// predicate.
func (m *Manager) TriggerEventUntil(ctx context.Context, e *Event, halt func(*Responses) bool) (*Responses, error) {
	if e == nil || e.Name() == "" {
		return nil, ErrEmptyEventName
	}
	return m.dispatch(ctx, e, halt)
}

// dispatch runs the merged listener sequence for one round.
func (m *Manager) dispatch(ctx context.Context, e *Event, halt func(*Responses) bool) (*Responses, error) {
	queue := m.Listeners(e.Name())
	if m.shared != nil {
		queue = append(queue, m.shared.ListenersFor(m.identifiers, e.Name())...)
	}

	res := &Responses{}
	for _, b := range queue {
		start := time.Now()
		v, err := b.listener.Handle(ctx, e)
		if m.onListener != nil {
			m.onListener(e.Name(), b.priority, time.Since(start), err)
		}
		if err != nil {
			return res, &ListenerError{EventName: e.Name(), Priority: b.priority, Err: err}
		}

		res.add(v)
		if e.Stopped() {
			res.reason = StopPropagation
			break
		}
		if halt != nil && halt(res) {
			res.reason = StopHalted
			break
		}
	}
	return res, nil
}

// insertOrdered inserts b keeping the slice ordered by priority
// descending, sequence ascending.
func insertOrdered(bindings []*Binding, b *Binding) []*Binding {
	i := sort.Search(len(bindings), func(i int) bool {
		if bindings[i].priority != b.priority {
			return bindings[i].priority < b.priority
		}
		return bindings[i].sequence > b.sequence
	})
	bindings = append(bindings, nil)
	copy(bindings[i+1:], bindings[i:])
	bindings[i] = b
	return bindings
}
