package event

// StopReason records why a trigger round stopped invoking listeners.
type StopReason int

const (
	// StopNone means every matched listener ran to completion.
	StopNone StopReason = iota

	// StopPropagation means a listener set the event's stop flag.
	StopPropagation

	// StopHalted means the caller's halt predicate matched.
	StopHalted
)

// String returns a human-readable name for the stop reason.
func (r StopReason) String() string {
	switch r {
	case StopNone:
		return "none"
	case StopPropagation:
		return "propagation-stopped"
	case StopHalted:
		return "halted"
	default:
		return "unknown"
	}
}

// Responses collects listener return values for one trigger round, in
// invocation order, together with the reason the round stopped.
type Responses struct {
	values []any
	reason StopReason
}

// Values returns the collected listener results in invocation order.
func (r *Responses) Values() []any {
	return r.values
}

// Len returns the number of collected results.
func (r *Responses) Len() int {
	return len(r.values)
}

// First returns the first collected result, or nil if none.
func (r *Responses) First() any {
	if len(r.values) == 0 {
		return nil
	}
	return r.values[0]
}

// Last returns the most recent collected result, or nil if none.
func (r *Responses) Last() any {
	if len(r.values) == 0 {
		return nil
	}
	return r.values[len(r.values)-1]
}

// Stopped returns true if the round terminated early, either by the
// event's stop flag or by the caller's halt predicate.
func (r *Responses) Stopped() bool {
	return r.reason != StopNone
}

// Reason returns why the round stopped.
func (r *Responses) Reason() StopReason {
	return r.reason
}

func (r *Responses) add(v any) {
	r.values = append(r.values, v)
}
