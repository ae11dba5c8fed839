package event

import "github.com/google/uuid"

// AggregateHandle records every binding an aggregate added during one
// AttachAggregate call, so DetachAggregate can remove exactly that set
// without cooperation from the aggregate. Detaching a handle twice is a
// no-op.
type AggregateHandle struct {
	id              string
	manager         *Manager
	defaultPriority int
	bindings        []*Binding
	detached        bool
}

// ID returns the handle's unique identifier.
func (h *AggregateHandle) ID() string {
	return h.id
}

// Bindings returns the bindings recorded by the aggregate attach.
func (h *AggregateHandle) Bindings() []*Binding {
	out := make([]*Binding, len(h.bindings))
	copy(out, h.bindings)
	return out
}

// AttachAggregate invokes the aggregate's RegisterWith against this bus,
// recording every Attach it performs. The priority given here is a
// suggested default applied to registrations that do not set their own;
// the aggregate may override it per listener with WithPriority.
func (m *Manager) AttachAggregate(agg Aggregate, opts ...AttachOption) (*AggregateHandle, error) {
	if agg == nil {
		return nil, ErrNilAggregate
	}

	cfg := attachConfig{priority: DefaultPriority}
	for _, opt := range opts {
		opt(&cfg)
	}

	h := &AggregateHandle{
		id:              uuid.New().String(),
		manager:         m,
		defaultPriority: cfg.priority,
	}

	prev := m.recording
	m.recording = h
	agg.RegisterWith(m)
	m.recording = prev

	return h, nil
}

// DetachAggregate removes every binding the handle recorded. It is
// idempotent: detaching an already-detached or nil handle does nothing.
func (m *Manager) DetachAggregate(h *AggregateHandle) {
	if h == nil || h.detached || h.manager != m {
		return
	}
	for _, b := range h.bindings {
		m.Detach(b.name, b)
	}
	h.detached = true
}
