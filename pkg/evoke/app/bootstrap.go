package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmichaels/evoke/pkg/evoke/config"
	"github.com/dmichaels/evoke/pkg/evoke/event"
	"github.com/dmichaels/evoke/pkg/evoke/observability"
	"github.com/dmichaels/evoke/pkg/evoke/service"
)

// Service names registered by the locator phase.
const (
	ServiceRouter            = "router"
	ServiceRenderStrategy    = "view.render-strategy"
	ServiceErrorStrategy     = "view.error-strategy"
	ServiceNotFoundStrategy  = "view.not-found-strategy"
	ServiceTemplateInjector  = "view.template-injector"
	ServiceViewModelInjector = "view.model-injector"
)

// State is the bootstrap's position in its phase sequence.
type State int

const (
	// StateCreated is the initial state; no phase has run.
	StateCreated State = iota

	// StateLocatorReady means the service locator is installed.
	StateLocatorReady

	// StateRouterReady means the router is resolved and installed.
	StateRouterReady

	// StateViewReady means the view strategies and injection listeners
	// are wired.
	StateViewReady

	// StateEventsFired means the lifecycle event has been triggered; the
	// bootstrap is complete.
	StateEventsFired

	// StateFailed is terminal: a phase failed and the bootstrap cannot
	// be resumed or retried.
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateLocatorReady:
		return "locator-ready"
	case StateRouterReady:
		return "router-ready"
	case StateViewReady:
		return "view-ready"
	case StateEventsFired:
		return "events-fired"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Bootstrap drives the application through its four wiring phases:
// resolve the service locator, install the router, wire the view
// listeners, and fire the lifecycle event. Each phase runs exactly once,
// in order, from a single Run call; a failing phase leaves the bootstrap
// in a terminal failed state.
type Bootstrap struct {
	app       *Application
	cfg       config.Config
	opts      Options
	overrides map[string]service.Factory

	state   State
	failure error
	runID   string

	logger  *slog.Logger
	metrics observability.MetricsRecorder
}

// BootstrapOption configures a Bootstrap at construction.
type BootstrapOption func(*Bootstrap)

// WithLogger sets the structured logger used across phases.
func WithLogger(logger *slog.Logger) BootstrapOption {
	return func(b *Bootstrap) {
		b.logger = logger
	}
}

// WithMetrics sets the metrics recorder for phase and trigger metrics.
// Default: observability.NoopMetrics.
func WithMetrics(m observability.MetricsRecorder) BootstrapOption {
	return func(b *Bootstrap) {
		b.metrics = m
	}
}

// WithService overrides or adds a service definition on top of the
// baseline ones registered in the locator phase.
func WithService(name string, factory service.Factory) BootstrapOption {
	return func(b *Bootstrap) {
		b.overrides[name] = factory
	}
}

// NewBootstrap creates a bootstrap for the application with the given
// caller configuration.
func NewBootstrap(app *Application, cfg config.Config, opts ...BootstrapOption) (*Bootstrap, error) {
	if app == nil {
		return nil, ErrNilApplication
	}
	b := &Bootstrap{
		app:       app,
		cfg:       cfg,
		overrides: make(map[string]service.Factory),
		runID:     uuid.New().String(),
		metrics:   observability.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// State returns the bootstrap's current state.
func (b *Bootstrap) State() State {
	return b.state
}

// RunID returns the identifier stamped on this bootstrap's logs and
// spans.
func (b *Bootstrap) RunID() string {
	return b.runID
}

// Run executes the four phases in order. It returns the first phase
// failure, leaving the bootstrap failed and non-resumable; calling Run
// again after completion or failure is an error.
func (b *Bootstrap) Run(ctx context.Context) error {
	switch b.state {
	case StateCreated:
	case StateFailed:
		return fmt.Errorf("%w: %v", ErrBootstrapFailed, b.failure)
	default:
		return ErrAlreadyBootstrapped
	}

	ctx, span := observability.StartBootstrapSpan(ctx, b.runID)
	done := observability.TimedOperation()

	phases := []struct {
		name string
		next State
		run  func(context.Context) error
	}{
		{"locator", StateLocatorReady, b.locatorPhase},
		{"router", StateRouterReady, b.routerPhase},
		{"view", StateViewReady, b.viewPhase},
		{"events", StateEventsFired, b.eventsPhase},
	}

	for _, phase := range phases {
		if err := b.runPhase(ctx, phase.name, phase.run); err != nil {
			b.state = StateFailed
			b.failure = err
			observability.EndSpanWithError(span, err)
			return fmt.Errorf("bootstrap phase %s: %w", phase.name, err)
		}
		b.state = phase.next
	}

	observability.EndSpanWithError(span, nil)
	observability.LogBootstrapComplete(b.logger, b.runID, done())
	return nil
}

// runPhase executes one phase with logging, tracing, and metrics.
func (b *Bootstrap) runPhase(ctx context.Context, name string, run func(context.Context) error) error {
	ctx, span := observability.StartPhaseSpan(ctx, name)
	logger := observability.EnrichLogger(b.logger, b.runID, name)
	observability.LogPhaseStart(logger, name)

	start := time.Now()
	err := run(ctx)
	duration := time.Since(start)

	b.metrics.RecordPhase(ctx, name, err == nil, duration)
	observability.EndSpanWithError(span, err)
	if err != nil {
		observability.LogPhaseError(logger, name, err)
		return err
	}
	observability.LogPhaseComplete(logger, name, float64(duration.Milliseconds()))
	return nil
}

// locatorPhase merges caller configuration over baseline defaults,
// validates it, registers the baseline service definitions plus caller
// overrides, and installs the locator on the application.
func (b *Bootstrap) locatorPhase(context.Context) error {
	defaults := config.New(map[string]any{
		KeyBaseTemplate:      DefaultBaseTemplate,
		KeyErrorTemplate:     DefaultErrorTemplate,
		KeyNotFoundTemplate:  DefaultNotFoundTemplate,
		KeyDisplayExceptions: false,
	})
	merged := defaults.Merge(b.cfg)

	opts, err := OptionsFrom(merged)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	b.opts = opts

	locator := service.NewLocator()
	locator.SetFactory(ServiceRouter, func(*service.Locator) (any, error) {
		return NewRouteStack(opts.Routes), nil
	})
	locator.SetFactory(ServiceRenderStrategy, func(*service.Locator) (any, error) {
		return NewRenderStrategy(), nil
	})
	locator.SetFactory(ServiceErrorStrategy, func(*service.Locator) (any, error) {
		return NewErrorStrategy(opts.ErrorTemplate, opts.DisplayExceptions), nil
	})
	locator.SetFactory(ServiceNotFoundStrategy, func(*service.Locator) (any, error) {
		return NewNotFoundStrategy(opts.NotFoundTemplate), nil
	})
	locator.SetFactory(ServiceTemplateInjector, func(*service.Locator) (any, error) {
		return NewTemplateInjector(opts.BaseTemplate), nil
	})
	locator.SetFactory(ServiceViewModelInjector, func(*service.Locator) (any, error) {
		return NewViewModelInjector(), nil
	})
	for name, factory := range b.overrides {
		locator.SetFactory(name, factory)
	}

	b.app.SetLocator(locator)
	return nil
}

// routerPhase resolves the router and installs it on the application. A
// router that is also an aggregate gets its listeners attached to the
// application bus.
func (b *Bootstrap) routerPhase(context.Context) error {
	router, err := service.Resolve[Router](b.app.Locator(), ServiceRouter)
	if err != nil {
		return err
	}
	b.app.SetRouter(router)

	if agg, ok := router.(event.Aggregate); ok {
		if _, err := b.app.Events().AttachAggregate(agg); err != nil {
			return err
		}
	}
	return nil
}

// viewPhase resolves the view services, attaches the strategies to the
// application bus as aggregates, and registers the injection listeners
// on the shared registry under the dispatchable identifier at their
// explicit late-stage priorities.
func (b *Bootstrap) viewPhase(context.Context) error {
	locator := b.app.Locator()

	render, err := service.Resolve[*RenderStrategy](locator, ServiceRenderStrategy)
	if err != nil {
		return err
	}
	errStrategy, err := service.Resolve[*ErrorStrategy](locator, ServiceErrorStrategy)
	if err != nil {
		return err
	}
	notFound, err := service.Resolve[*NotFoundStrategy](locator, ServiceNotFoundStrategy)
	if err != nil {
		return err
	}
	for _, agg := range []event.Aggregate{render, errStrategy, notFound} {
		if _, err := b.app.Events().AttachAggregate(agg); err != nil {
			return err
		}
	}

	templateInjector, err := service.Resolve[*TemplateInjector](locator, ServiceTemplateInjector)
	if err != nil {
		return err
	}
	viewModelInjector, err := service.Resolve[*ViewModelInjector](locator, ServiceViewModelInjector)
	if err != nil {
		return err
	}

	shared := b.app.Events().SharedRegistry()
	if shared == nil {
		return nil
	}
	if _, err := shared.Attach(IdentifierDispatchable, EventBootstrap, templateInjector,
		event.WithPriority(PriorityTemplateInjector)); err != nil {
		return err
	}
	if _, err := shared.Attach(IdentifierDispatchable, EventBootstrap, viewModelInjector,
		event.WithPriority(PriorityViewModelInjector)); err != nil {
		return err
	}
	return nil
}

// eventsPhase completes the lifecycle event's parameters and fires it on
// the application bus. No halt predicate is supplied: every listener runs
// unless one stops propagation or fails, and a listener failure is fatal
// to the bootstrap.
func (b *Bootstrap) eventsPhase(ctx context.Context) error {
	e := b.app.LifecycleEvent()
	e.Params().Set(ParamApplication, b.app)
	e.Params().Set(ParamConfig, b.cfg)

	start := time.Now()
	res, err := b.app.Events().TriggerEvent(ctx, e)
	duration := time.Since(start)
	if err != nil {
		observability.LogTriggerError(b.logger, EventBootstrap, err, float64(duration.Milliseconds()))
		return err
	}
	b.metrics.RecordTrigger(ctx, EventBootstrap, res.Reason().String(), duration)
	observability.LogTriggerComplete(b.logger, EventBootstrap, res.Reason().String(), res.Len(), float64(duration.Milliseconds()))
	return nil
}
