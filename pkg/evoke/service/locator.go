// Package service provides the named service locator consumed by the
// bootstrap orchestrator. It stores instances and lazy factories under
// string names and resolves them on demand.
//
// The locator is a read-heavy registry guarded by sync.RWMutex. Factory
// results are memoized: a factory runs at most once per name, even under
// concurrent resolution.
package service

import (
	"fmt"
	"sync"
)

// Factory constructs a service on first resolution. The locator passes
// itself so factories can resolve their own dependencies.
type Factory func(l *Locator) (any, error)

// UnresolvedError indicates the locator cannot produce a requested
// service: the name is unknown, its factory failed, or the resolved
// instance has the wrong type.
type UnresolvedError struct {
	Name   string // Requested service name
	Reason string // Why resolution failed
	Err    error  // Underlying factory error, if any
}

// Error implements the error interface.
func (e *UnresolvedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("service %q: %s: %v", e.Name, e.Reason, e.Err)
	}
	return fmt.Sprintf("service %q: %s", e.Name, e.Reason)
}

// Unwrap returns the underlying factory error.
func (e *UnresolvedError) Unwrap() error {
	return e.Err
}

// Locator resolves named services from registered instances and
// factories. Safe for concurrent use.
type Locator struct {
	mu        sync.RWMutex
	instances map[string]any
	factories map[string]Factory
	resolving map[string]bool
}

// NewLocator creates an empty locator.
func NewLocator() *Locator {
	return &Locator{
		instances: make(map[string]any),
		factories: make(map[string]Factory),
		resolving: make(map[string]bool),
	}
}

// Set registers a ready instance under name, replacing any previous
// registration for that name.
func (l *Locator) Set(name string, instance any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.instances[name] = instance
	delete(l.factories, name)
}

// SetFactory registers a lazy factory under name, replacing any previous
// registration for that name. The factory runs on first Get and its
// result is memoized.
func (l *Locator) SetFactory(name string, f Factory) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.factories[name] = f
	delete(l.instances, name)
}

// Has returns true if name has a registered instance or factory.
func (l *Locator) Has(name string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if _, ok := l.instances[name]; ok {
		return true
	}
	_, ok := l.factories[name]
	return ok
}

// Names returns all registered service names, in no particular order.
func (l *Locator) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.instances)+len(l.factories))
	for name := range l.instances {
		names = append(names, name)
	}
	for name := range l.factories {
		names = append(names, name)
	}
	return names
}

// Get resolves the named service, running and memoizing its factory if
// needed. Returns an *UnresolvedError when the name is unknown, the
// factory fails, or the factory re-enters itself.
func (l *Locator) Get(name string) (any, error) {
	// Fast path: already materialized.
	l.mu.RLock()
	if instance, ok := l.instances[name]; ok {
		l.mu.RUnlock()
		return instance, nil
	}
	factory, ok := l.factories[name]
	l.mu.RUnlock()

	if !ok {
		return nil, &UnresolvedError{Name: name, Reason: "not registered"}
	}

	l.mu.Lock()
	// Double-check after acquiring the write lock.
	if instance, ok := l.instances[name]; ok {
		l.mu.Unlock()
		return instance, nil
	}
	if l.resolving[name] {
		l.mu.Unlock()
		return nil, &UnresolvedError{Name: name, Reason: "circular dependency"}
	}
	l.resolving[name] = true
	l.mu.Unlock()

	instance, err := factory(l)

	l.mu.Lock()
	delete(l.resolving, name)
	if err == nil {
		l.instances[name] = instance
		delete(l.factories, name)
	}
	l.mu.Unlock()

	if err != nil {
		return nil, &UnresolvedError{Name: name, Reason: "factory failed", Err: err}
	}
	return instance, nil
}

// Resolve resolves the named service and asserts its type.
func Resolve[T any](l *Locator, name string) (T, error) {
	var zero T
	instance, err := l.Get(name)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, &UnresolvedError{
			Name:   name,
			Reason: fmt.Sprintf("resolved %T, want %T", instance, zero),
		}
	}
	return typed, nil
}
