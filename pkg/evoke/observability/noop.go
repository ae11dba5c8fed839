package observability

import (
	"context"
	"time"
)

// NoopMetrics is a MetricsRecorder that does nothing.
// Use when metrics are disabled to avoid overhead.
type NoopMetrics struct{}

// Compile-time interface check.
var _ MetricsRecorder = NoopMetrics{}

// RecordTrigger does nothing.
func (NoopMetrics) RecordTrigger(_ context.Context, _, _ string, _ time.Duration) {}

// RecordListener does nothing.
func (NoopMetrics) RecordListener(_ context.Context, _ string, _ time.Duration, _ error) {}

// RecordPhase does nothing.
func (NoopMetrics) RecordPhase(_ context.Context, _ string, _ bool, _ time.Duration) {}
