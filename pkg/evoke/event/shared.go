package event

import "sync"

// SharedManager is the process-wide listener registry. Listeners are
// indexed by an arbitrary context identifier first and event name second;
// any bus declaring a matching identifier consults the registry when it
// triggers. This is the mechanism by which unrelated components hook a
// lifecycle owned by another component without a compile-time dependency.
//
// The registry is a pure lookup table: it never triggers anything itself.
// It is the only shared mutable resource of the dispatch core, so attach,
// detach, and lookup are serialized with a read/write mutex.
type SharedManager struct {
	mu       sync.RWMutex
	bindings map[string]map[string][]*Binding // identifier -> event name -> ordered bindings
	seq      uint64
}

// NewSharedManager creates an empty shared registry. Most callers use the
// process-wide instance from Shared; tests construct private instances.
func NewSharedManager() *SharedManager {
	return &SharedManager{
		bindings: make(map[string]map[string][]*Binding),
	}
}

var (
	sharedInstance *SharedManager
	sharedOnce     sync.Once
)

// Shared returns the process-wide shared registry, creating it on first
// use. It lives for the process lifetime and is never torn down; it holds
// only registrations, never per-trigger state.
func Shared() *SharedManager {
	sharedOnce.Do(func() {
		sharedInstance = NewSharedManager()
	})
	return sharedInstance
}

// Attach registers a listener for the named event under a context
// identifier and returns its binding, the token for Detach.
func (s *SharedManager) Attach(identifier, name string, l Listener, opts ...AttachOption) (*Binding, error) {
	if identifier == "" || name == "" {
		return nil, ErrEmptyEventName
	}
	if l == nil {
		return nil, ErrNilListener
	}

	cfg := attachConfig{priority: DefaultPriority}
	for _, opt := range opts {
		opt(&cfg)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	b := &Binding{
		name:     name,
		listener: l,
		priority: cfg.priority,
		sequence: s.seq,
	}

	byEvent := s.bindings[identifier]
	if byEvent == nil {
		byEvent = make(map[string][]*Binding)
		s.bindings[identifier] = byEvent
	}
	byEvent[name] = insertOrdered(byEvent[name], b)

	return b, nil
}

// Detach removes a binding registered under the identifier and event
// name. It reports whether a removal occurred.
func (s *SharedManager) Detach(identifier, name string, b *Binding) bool {
	if b == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	byEvent := s.bindings[identifier]
	bindings := byEvent[name]
	for i, existing := range bindings {
		if existing == b {
			byEvent[name] = append(bindings[:i], bindings[i+1:]...)
			if len(byEvent[name]) == 0 {
				delete(byEvent, name)
			}
			if len(byEvent) == 0 {
				delete(s.bindings, identifier)
			}
			return true
		}
	}
	return false
}

// ListenersFor returns the bindings for the named event across the given
// identifiers. Each identifier's list is ordered by (priority desc,
// attachment order) and the lists are concatenated in the order the
// identifiers are supplied, so callers should pass identifiers
// most-specific-first.
func (s *SharedManager) ListenersFor(identifiers []string, name string) []*Binding {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Binding
	for _, id := range identifiers {
		byEvent := s.bindings[id]
		if byEvent == nil {
			continue
		}
		out = append(out, byEvent[name]...)
	}
	return out
}

// Clear removes every registration. Intended for tests that use the
// process-wide instance.
func (s *SharedManager) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bindings = make(map[string]map[string][]*Binding)
}
