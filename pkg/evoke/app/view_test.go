package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmichaels/evoke/pkg/evoke/app"
	"github.com/dmichaels/evoke/pkg/evoke/event"
)

func TestViewModel(t *testing.T) {
	vm := app.NewViewModel()
	assert.Empty(t, vm.Template())

	vm.SetTemplate("users/index")
	vm.Set("title", "Users")

	assert.Equal(t, "users/index", vm.Template())
	v, ok := vm.Get("title")
	require.True(t, ok)
	assert.Equal(t, "Users", v)

	// Variables returns a copy.
	vars := vm.Variables()
	vars["title"] = "mutated"
	v, _ = vm.Get("title")
	assert.Equal(t, "Users", v)
}

func TestRenderStrategy(t *testing.T) {
	m := event.NewManager(event.WithoutShared())
	m.AttachAggregate(app.NewRenderStrategy())

	vm := app.NewViewModel()
	vm.SetTemplate("users/index")
	vm.Set("b", 2)
	vm.Set("a", 1)

	e := event.New(app.EventRender, nil, event.NewParams().Set(app.ParamViewModel, vm))
	res, err := m.TriggerEvent(context.Background(), e)
	require.NoError(t, err)

	assert.Equal(t, "users/index{a=1 b=2}", res.First())
	assert.Equal(t, res.First(), e.Param(app.ParamRendered))
}

func TestRenderStrategyMissingViewModel(t *testing.T) {
	m := event.NewManager(event.WithoutShared())
	m.AttachAggregate(app.NewRenderStrategy())

	_, err := m.Trigger(context.Background(), app.EventRender, nil, nil)
	assert.Error(t, err)
}

func TestErrorStrategyHidesDetails(t *testing.T) {
	m := event.NewManager(event.WithoutShared())
	m.AttachAggregate(app.NewErrorStrategy("error/index", false))

	params := event.NewParams().Set(app.ParamError, errors.New("secret detail"))
	e := event.New(app.EventDispatchError, nil, params)
	_, err := m.TriggerEvent(context.Background(), e)
	require.NoError(t, err)

	vm, ok := e.Param(app.ParamViewModel).(*app.ViewModel)
	require.True(t, ok)
	assert.Equal(t, "error/index", vm.Template())
	_, ok = vm.Get("message")
	assert.False(t, ok, "details must stay hidden unless display_exceptions is set")
}

func TestErrorStrategyDisplaysDetails(t *testing.T) {
	m := event.NewManager(event.WithoutShared())
	m.AttachAggregate(app.NewErrorStrategy("error/index", true))

	params := event.NewParams().Set(app.ParamError, errors.New("secret detail"))
	e := event.New(app.EventDispatchError, nil, params)
	_, err := m.TriggerEvent(context.Background(), e)
	require.NoError(t, err)

	vm := e.Param(app.ParamViewModel).(*app.ViewModel)
	msg, ok := vm.Get("message")
	require.True(t, ok)
	assert.Equal(t, "secret detail", msg)
}

func TestNotFoundStrategy(t *testing.T) {
	m := event.NewManager(event.WithoutShared())
	m.AttachAggregate(app.NewNotFoundStrategy("error/404"))

	// No route match on the event: the strategy prepares a 404 view.
	e := event.New(app.EventRoute, nil, nil)
	_, err := m.TriggerEvent(context.Background(), e)
	require.NoError(t, err)

	vm, ok := e.Param(app.ParamViewModel).(*app.ViewModel)
	require.True(t, ok)
	assert.Equal(t, "error/404", vm.Template())
}

func TestNotFoundStrategyStepsAside(t *testing.T) {
	m := event.NewManager(event.WithoutShared())
	m.AttachAggregate(app.NewRouteStack(map[string]string{"/users": "users/index"}).(event.Aggregate))
	m.AttachAggregate(app.NewNotFoundStrategy("error/404"))

	e := event.New(app.EventRoute, nil, event.NewParams().Set(app.ParamPath, "/users"))
	_, err := m.TriggerEvent(context.Background(), e)
	require.NoError(t, err)

	// The router matched, so the not-found strategy leaves the event alone.
	assert.Nil(t, e.Param(app.ParamViewModel))
}

func TestTemplateInjector(t *testing.T) {
	injector := app.NewTemplateInjector("layout/layout")

	vm := app.NewViewModel()
	e := event.New(app.EventBootstrap, nil, event.NewParams().Set(app.ParamViewModel, vm))
	_, err := injector.Handle(context.Background(), e)
	require.NoError(t, err)
	assert.Equal(t, "layout/layout", vm.Template())

	// A view model that chose its own template keeps it.
	vm2 := app.NewViewModel()
	vm2.SetTemplate("custom/page")
	e2 := event.New(app.EventBootstrap, nil, event.NewParams().Set(app.ParamViewModel, vm2))
	_, err = injector.Handle(context.Background(), e2)
	require.NoError(t, err)
	assert.Equal(t, "custom/page", vm2.Template())

	// No view model on the event is tolerated.
	_, err = injector.Handle(context.Background(), event.New(app.EventBootstrap, nil, nil))
	assert.NoError(t, err)
}

func TestViewModelInjector(t *testing.T) {
	a := app.NewApplication(app.WithEventManager(event.NewManager(event.WithoutShared())))
	injector := app.NewViewModelInjector()

	vm := app.NewViewModel()
	vm.SetTemplate("replacement")
	e := event.New(app.EventBootstrap, a, event.NewParams().Set(app.ParamViewModel, vm))
	_, err := injector.Handle(context.Background(), e)
	require.NoError(t, err)
	assert.Same(t, vm, a.ViewModel())

	// A non-application target is left alone.
	e2 := event.New(app.EventBootstrap, "not-an-app", event.NewParams().Set(app.ParamViewModel, vm))
	_, err = injector.Handle(context.Background(), e2)
	assert.NoError(t, err)
}
