package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmichaels/evoke/pkg/evoke/app"
	"github.com/dmichaels/evoke/pkg/evoke/config"
	"github.com/dmichaels/evoke/pkg/evoke/event"
	"github.com/dmichaels/evoke/pkg/evoke/service"
)

// newTestApp builds an application wired to a private shared registry so
// tests never touch the process-wide one.
func newTestApp() (*app.Application, *event.SharedManager) {
	shared := event.NewSharedManager()
	a := app.NewApplication(app.WithEventManager(event.NewManager(
		event.WithIdentifiers(app.IdentifierApplication, app.IdentifierDispatchable),
		event.WithShared(shared),
	)))
	return a, shared
}

func TestNewBootstrapNilApplication(t *testing.T) {
	_, err := app.NewBootstrap(nil, config.New(nil))
	assert.ErrorIs(t, err, app.ErrNilApplication)
}

func TestBootstrapRun(t *testing.T) {
	a, _ := newTestApp()
	b, err := app.NewBootstrap(a, config.New(nil))
	require.NoError(t, err)
	assert.Equal(t, app.StateCreated, b.State())
	assert.NotEmpty(t, b.RunID())

	require.NoError(t, b.Run(context.Background()))
	assert.Equal(t, app.StateEventsFired, b.State())

	// Locator and router are installed.
	require.NotNil(t, a.Locator())
	require.NotNil(t, a.Router())

	// The shared injection listeners ran against the lifecycle event: the
	// application's view model carries the default base template.
	assert.Equal(t, app.DefaultBaseTemplate, a.ViewModel().Template())

	// The lifecycle event was completed before firing.
	e := a.LifecycleEvent()
	assert.Same(t, a, e.Param(app.ParamApplication))
	assert.True(t, e.Params().Len() >= 3)
}

func TestBootstrapRunTwice(t *testing.T) {
	a, _ := newTestApp()
	b, _ := app.NewBootstrap(a, config.New(nil))

	require.NoError(t, b.Run(context.Background()))
	assert.ErrorIs(t, b.Run(context.Background()), app.ErrAlreadyBootstrapped)
}

func TestBootstrapRoutesFromConfig(t *testing.T) {
	a, _ := newTestApp()
	cfg := config.New(map[string]any{
		app.KeyRoutes: map[string]string{"/users": "users/index"},
	})
	b, _ := app.NewBootstrap(a, cfg)
	require.NoError(t, b.Run(context.Background()))

	match, ok := a.Router().Match("/users")
	require.True(t, ok)
	assert.Equal(t, "users/index", match.Target)

	// The default router also answers route events on the application bus.
	e := event.New(app.EventRoute, a, event.NewParams().Set(app.ParamPath, "/users"))
	_, err := a.Events().TriggerEvent(context.Background(), e)
	require.NoError(t, err)
	assert.NotNil(t, e.Param(app.ParamRouteMatch))
}

func TestBootstrapInvalidConfig(t *testing.T) {
	a, _ := newTestApp()
	cfg := config.New(map[string]any{
		app.KeyBaseTemplate: "",
	})
	b, _ := app.NewBootstrap(a, cfg)

	err := b.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bootstrap phase locator")
	assert.Equal(t, app.StateFailed, b.State())

	// The failure happened before anything was installed.
	assert.Nil(t, a.Locator())
	assert.Nil(t, a.Router())
}

func TestBootstrapRouterPhaseFailure(t *testing.T) {
	a, shared := newTestApp()
	cause := errors.New("router backend unavailable")
	b, _ := app.NewBootstrap(a, config.New(nil),
		app.WithService(app.ServiceRouter, func(*service.Locator) (any, error) {
			return nil, cause
		}),
	)

	var fired bool
	a.Events().AttachFunc(app.EventBootstrap, func(ctx context.Context, e *event.Event) (any, error) {
		fired = true
		return nil, nil
	})

	err := b.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)

	var ue *service.UnresolvedError
	assert.ErrorAs(t, err, &ue)
	assert.Equal(t, app.StateFailed, b.State())

	// Later phases never ran: no router, no shared injectors, no lifecycle.
	assert.Nil(t, a.Router())
	assert.Empty(t, shared.ListenersFor([]string{app.IdentifierDispatchable}, app.EventBootstrap))
	assert.False(t, fired, "lifecycle event must not fire after a phase failure")

	// A failed bootstrap stays failed.
	err = b.Run(context.Background())
	assert.ErrorIs(t, err, app.ErrBootstrapFailed)
}

func TestBootstrapServiceOverride(t *testing.T) {
	a, _ := newTestApp()
	custom := app.NewRouteStack(map[string]string{"/admin": "admin/index"})
	b, _ := app.NewBootstrap(a, config.New(nil),
		app.WithService(app.ServiceRouter, func(*service.Locator) (any, error) {
			return custom, nil
		}),
	)

	require.NoError(t, b.Run(context.Background()))
	assert.Same(t, custom, a.Router())
}

func TestBootstrapListenerFailureIsFatal(t *testing.T) {
	a, _ := newTestApp()
	b, _ := app.NewBootstrap(a, config.New(nil))

	cause := errors.New("module init failed")
	a.Events().AttachFunc(app.EventBootstrap, func(ctx context.Context, e *event.Event) (any, error) {
		return nil, cause
	})

	err := b.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bootstrap phase events")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, app.StateFailed, b.State())
}

func TestBootstrapListenerOrdering(t *testing.T) {
	a, _ := newTestApp()
	b, _ := app.NewBootstrap(a, config.New(nil))

	// A local listener runs before the shared injection listeners, so it
	// observes the view model before the base template is filled in.
	var templateWhenLocal string
	a.Events().AttachFunc(app.EventBootstrap, func(ctx context.Context, e *event.Event) (any, error) {
		vm := e.Param(app.ParamViewModel).(*app.ViewModel)
		templateWhenLocal = vm.Template()
		return nil, nil
	})

	require.NoError(t, b.Run(context.Background()))
	assert.Empty(t, templateWhenLocal)
	assert.Equal(t, app.DefaultBaseTemplate, a.ViewModel().Template())
}

func TestBootstrapWithoutSharedRegistry(t *testing.T) {
	a := app.NewApplication(app.WithEventManager(event.NewManager(
		event.WithIdentifiers(app.IdentifierApplication, app.IdentifierDispatchable),
		event.WithoutShared(),
	)))
	b, _ := app.NewBootstrap(a, config.New(nil))

	// A bus with no shared registry still bootstraps; the injection
	// listeners simply have nowhere to register.
	require.NoError(t, b.Run(context.Background()))
	assert.Equal(t, app.StateEventsFired, b.State())
	assert.Empty(t, a.ViewModel().Template())
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state app.State
		want  string
	}{
		{app.StateCreated, "created"},
		{app.StateLocatorReady, "locator-ready"},
		{app.StateRouterReady, "router-ready"},
		{app.StateViewReady, "view-ready"},
		{app.StateEventsFired, "events-fired"},
		{app.StateFailed, "failed"},
		{app.State(99), "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.String())
	}
}
