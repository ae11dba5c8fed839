package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records dispatch metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordTrigger records a completed trigger round with its stop reason
	// and duration.
	RecordTrigger(ctx context.Context, eventName, stopReason string, duration time.Duration)

	// RecordListener records a single listener invocation.
	RecordListener(ctx context.Context, eventName string, duration time.Duration, err error)

	// RecordPhase records a bootstrap phase completion.
	RecordPhase(ctx context.Context, phase string, success bool, duration time.Duration)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	triggerRounds   metric.Int64Counter
	triggerLatency  metric.Float64Histogram
	listenerCalls   metric.Int64Counter
	listenerLatency metric.Float64Histogram
	listenerErrors  metric.Int64Counter
	phaseRuns       metric.Int64Counter
	phaseLatency    metric.Float64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("evoke")

	triggerRounds, err := meter.Int64Counter("evoke.trigger.rounds",
		metric.WithDescription("Number of trigger rounds"),
	)
	if err != nil {
		return nil, err
	}

	triggerLatency, err := meter.Float64Histogram("evoke.trigger.duration_ms",
		metric.WithDescription("Trigger round duration in milliseconds"),
	)
	if err != nil {
		return nil, err
	}

	listenerCalls, err := meter.Int64Counter("evoke.listener.invocations",
		metric.WithDescription("Number of listener invocations"),
	)
	if err != nil {
		return nil, err
	}

	listenerLatency, err := meter.Float64Histogram("evoke.listener.duration_ms",
		metric.WithDescription("Listener invocation duration in milliseconds"),
	)
	if err != nil {
		return nil, err
	}

	listenerErrors, err := meter.Int64Counter("evoke.listener.errors",
		metric.WithDescription("Number of failed listener invocations"),
	)
	if err != nil {
		return nil, err
	}

	phaseRuns, err := meter.Int64Counter("evoke.bootstrap.phases",
		metric.WithDescription("Number of bootstrap phase executions"),
	)
	if err != nil {
		return nil, err
	}

	phaseLatency, err := meter.Float64Histogram("evoke.bootstrap.phase_duration_ms",
		metric.WithDescription("Bootstrap phase duration in milliseconds"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		triggerRounds:   triggerRounds,
		triggerLatency:  triggerLatency,
		listenerCalls:   listenerCalls,
		listenerLatency: listenerLatency,
		listenerErrors:  listenerErrors,
		phaseRuns:       phaseRuns,
		phaseLatency:    phaseLatency,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder backed by the global OTel
// meter provider. Configure the provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
//
// If instrument creation fails, a NoopMetrics is returned and the failure
// is logged to the given logger (which may be nil).
func NewMetricsRecorder(logger *slog.Logger) MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		if logger != nil {
			logger.Warn("metrics initialization failed, using noop recorder",
				slog.String("error", err.Error()),
			)
		}
		return NoopMetrics{}
	}
	return m
}

// RecordTrigger implements MetricsRecorder.
func (m *otelMetrics) RecordTrigger(ctx context.Context, eventName, stopReason string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("event", eventName),
		attribute.String("stop_reason", stopReason),
	)
	m.triggerRounds.Add(ctx, 1, attrs)
	m.triggerLatency.Record(ctx, float64(duration.Milliseconds()), attrs)
}

// RecordListener implements MetricsRecorder.
func (m *otelMetrics) RecordListener(ctx context.Context, eventName string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("event", eventName))
	m.listenerCalls.Add(ctx, 1, attrs)
	m.listenerLatency.Record(ctx, float64(duration.Milliseconds()), attrs)
	if err != nil {
		m.listenerErrors.Add(ctx, 1, attrs)
	}
}

// RecordPhase implements MetricsRecorder.
func (m *otelMetrics) RecordPhase(ctx context.Context, phase string, success bool, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("phase", phase),
		attribute.Bool("success", success),
	)
	m.phaseRuns.Add(ctx, 1, attrs)
	m.phaseLatency.Record(ctx, float64(duration.Milliseconds()), attrs)
}
