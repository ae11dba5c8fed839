// Package event is the dispatch core of evoke: a priority-ordered,
// multi-source publish/subscribe mechanism for in-process lifecycle
// coordination.
//
// # Overview
//
// Independently developed components observe and intercept a shared
// lifecycle through two listener sources:
//
//   - Manager: a bus-local registry owned by one component, holding
//     listeners keyed by event name.
//   - SharedManager: a process-wide registry keyed first by a context
//     identifier, consulted by any bus that declared that identifier.
//
// A trigger round merges both sources deterministically and invokes
// listeners one at a time on the caller's goroutine.
//
// # Ordering
//
// Listeners run highest priority first; equal priorities run in
// attachment order (a sequence counter assigned at attach time breaks
// ties, never recomputed). Within one round, every bus-local listener
// precedes every shared listener regardless of numeric priority: local
// registrations are the component's own, more specific hooks, while
// shared registrations are cross-cutting concerns. Call sites that need
// late-stage shared hooks use negative priorities, e.g. a listener at
// -90 runs before one at -100, and both run after default-priority (1)
// listeners registered on the same source.
//
// # Triggering
//
//	m := event.NewManager(event.WithIdentifiers("application"))
//	m.AttachFunc("bootstrap", func(ctx context.Context, e *event.Event) (any, error) {
//	    return "ready", nil
//	})
//
//	res, err := m.Trigger(ctx, "bootstrap", app, event.NewParams().Set("config", cfg))
//
// Each invoked listener's return value is appended to the Responses in
// invocation order. A round ends early when a listener calls
// Event.StopPropagation, when the caller's halt predicate (TriggerUntil)
// matches the responses collected so far, or when a listener returns an
// error. Errors abort the round and reach the caller wrapped in a
// ListenerError; the engine never swallows or retries them.
//
// # Aggregates
//
// A component exposing RegisterWith(*Manager) can be attached in bulk:
//
//	handle, _ := m.AttachAggregate(routes, event.WithPriority(-50))
//	...
//	m.DetachAggregate(handle) // removes exactly what the aggregate added
//
// The manager records every Attach the aggregate performs, so removal
// needs no cooperation from the aggregate and detaching twice is a no-op.
//
// # Concurrency
//
// Dispatch is synchronous and cooperative: Trigger blocks until the
// round completes. A Manager belongs to the component that created it
// and is not goroutine-safe. The SharedManager is the only shared
// mutable resource and serializes attach/detach/lookup internally.
// No timeout or cancellation applies within a round; a listener that
// never returns blocks the whole dispatch.
package event
