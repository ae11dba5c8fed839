// Package observability provides production-grade observability features
// for evoke: structured logging, metrics, and distributed tracing.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"context"
	"log/slog"
	"time"
)

// EnrichLogger adds bootstrap context to a logger.
// Returns a new logger with run_id and phase fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "run-123", "router")
//	enriched.Info("resolving services") // includes run_id, phase
func EnrichLogger(logger *slog.Logger, runID, phase string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("run_id", runID),
		slog.String("phase", phase),
	)
}

// LogTriggerStart logs the start of a trigger round.
func LogTriggerStart(logger *slog.Logger, eventName string, listeners int) {
	if logger == nil {
		return
	}
	logger.Debug("trigger round starting",
		slog.String("event", eventName),
		slog.Int("listeners", listeners),
	)
}

// LogTriggerComplete logs a completed trigger round.
func LogTriggerComplete(logger *slog.Logger, eventName, stopReason string, results int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("trigger round completed",
		slog.String("event", eventName),
		slog.String("stop_reason", stopReason),
		slog.Int("results", results),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogTriggerError logs a trigger round aborted by a listener failure.
func LogTriggerError(logger *slog.Logger, eventName string, err error, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Error("trigger round failed",
		slog.String("event", eventName),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogPhaseStart logs the start of a bootstrap phase.
func LogPhaseStart(logger *slog.Logger, phase string) {
	if logger == nil {
		return
	}
	logger.Debug("bootstrap phase starting",
		slog.String("phase", phase),
	)
}

// LogPhaseComplete logs successful bootstrap phase completion.
func LogPhaseComplete(logger *slog.Logger, phase string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("bootstrap phase completed",
		slog.String("phase", phase),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogPhaseError logs bootstrap phase failure.
func LogPhaseError(logger *slog.Logger, phase string, err error) {
	if logger == nil {
		return
	}
	logger.Error("bootstrap phase failed",
		slog.String("phase", phase),
		slog.String("error", err.Error()),
	)
}

// LogBootstrapComplete logs successful completion of all phases.
func LogBootstrapComplete(logger *slog.Logger, runID string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Info("bootstrap completed",
		slog.String("run_id", runID),
		slog.Float64("duration_ms", durationMs),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}

// ListenerObserver builds a per-listener observer suitable for
// event.WithListenerObserver, logging each invocation and recording it on
// the given metrics recorder. Either argument may be nil.
func ListenerObserver(logger *slog.Logger, metrics MetricsRecorder) func(eventName string, priority int, duration time.Duration, err error) {
	return func(eventName string, priority int, duration time.Duration, err error) {
		if metrics != nil {
			metrics.RecordListener(context.Background(), eventName, duration, err)
		}
		if logger == nil {
			return
		}
		if err != nil {
			logger.Warn("listener failed",
				slog.String("event", eventName),
				slog.Int("priority", priority),
				slog.String("error", err.Error()),
			)
			return
		}
		logger.Debug("listener invoked",
			slog.String("event", eventName),
			slog.Int("priority", priority),
			slog.Float64("duration_ms", float64(duration.Milliseconds())),
		)
	}
}
