package app

import (
	"github.com/dmichaels/evoke/pkg/evoke/event"
	"github.com/dmichaels/evoke/pkg/evoke/service"
)

// Lifecycle and dispatch event names.
const (
	// EventBootstrap is the lifecycle event fired once, in the final
	// bootstrap phase, on the application's local bus.
	EventBootstrap = "bootstrap"

	// EventRoute is fired to resolve a request path to a route match.
	EventRoute = "route"

	// EventRender is fired to render a view model.
	EventRender = "render"

	// EventDispatchError is fired when dispatching a matched route fails.
	EventDispatchError = "dispatch.error"
)

// Context identifiers declared by the application's bus.
const (
	// IdentifierApplication is the application's own context identifier.
	IdentifierApplication = "application"

	// IdentifierDispatchable is the well-known shared-registry identifier
	// for dispatch-capable components. Cross-cutting listeners (template
	// and view-model injection) register here so any dispatchable bus
	// picks them up without a compile-time dependency.
	IdentifierDispatchable = "app.dispatchable"
)

// Well-known event parameter keys.
const (
	ParamApplication = "application"
	ParamConfig      = "config"
	ParamViewModel   = "viewModel"
	ParamPath        = "path"
	ParamRouteMatch  = "routeMatch"
	ParamError       = "error"
	ParamRendered    = "rendered"
)

// Application is the context the bootstrap orchestrator assembles: a
// service locator, a router, a local event bus declaring the application
// identifiers, and the lifecycle event built up across phases and fired
// in the final one.
type Application struct {
	locator   *service.Locator
	router    Router
	events    *event.Manager
	lifecycle *event.Event
	viewModel *ViewModel
}

// ApplicationOption configures an Application at construction.
type ApplicationOption func(*Application)

// WithEventManager replaces the application's event bus. The bus should
// declare IdentifierApplication and IdentifierDispatchable so shared
// listeners wired during bootstrap are picked up; tests use this to point
// the application at a private shared registry.
func WithEventManager(m *event.Manager) ApplicationOption {
	return func(a *Application) {
		a.events = m
	}
}

// NewApplication creates an application context with an empty view model
// and a lifecycle event pre-populated with it. The default event bus
// declares the application identifiers and consults the process-wide
// shared registry.
func NewApplication(opts ...ApplicationOption) *Application {
	a := &Application{
		viewModel: NewViewModel(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.events == nil {
		a.events = event.NewManager(
			event.WithIdentifiers(IdentifierApplication, IdentifierDispatchable),
		)
	}

	a.lifecycle = event.New(EventBootstrap, a,
		event.NewParams().Set(ParamViewModel, a.viewModel))
	return a
}

// SetLocator installs the service locator resolved in the first
// bootstrap phase.
func (a *Application) SetLocator(l *service.Locator) {
	a.locator = l
}

// Locator returns the installed service locator, or nil before the
// locator phase has run.
func (a *Application) Locator() *service.Locator {
	return a.locator
}

// SetRouter installs the router resolved in the second bootstrap phase.
func (a *Application) SetRouter(r Router) {
	a.router = r
}

// Router returns the installed router, or nil before the router phase
// has run.
func (a *Application) Router() Router {
	return a.router
}

// Events returns the application's local event bus.
func (a *Application) Events() *event.Manager {
	return a.events
}

// LifecycleEvent returns the mutable event being built for the bootstrap
// trigger. It is pre-populated with the application's view model, which
// the view phase may mutate before the event fires.
func (a *Application) LifecycleEvent() *event.Event {
	return a.lifecycle
}

// ViewModel returns the application's root view model container.
func (a *Application) ViewModel() *ViewModel {
	return a.viewModel
}
