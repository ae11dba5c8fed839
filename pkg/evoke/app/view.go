package app

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dmichaels/evoke/pkg/evoke/event"
)

// ViewModel is the container carried through the lifecycle event: a
// template name plus named variables. The view phase and the shared
// injection listeners mutate it before and during the bootstrap trigger.
type ViewModel struct {
	template  string
	variables map[string]any
}

// NewViewModel creates an empty view model.
func NewViewModel() *ViewModel {
	return &ViewModel{variables: make(map[string]any)}
}

// Template returns the view model's template name, empty if unset.
func (vm *ViewModel) Template() string {
	return vm.template
}

// SetTemplate sets the view model's template name.
func (vm *ViewModel) SetTemplate(name string) {
	vm.template = name
}

// Set stores a named variable.
func (vm *ViewModel) Set(key string, value any) {
	vm.variables[key] = value
}

// Get returns a named variable and whether it exists.
func (vm *ViewModel) Get(key string) (any, bool) {
	v, ok := vm.variables[key]
	return v, ok
}

// Variables returns a copy of the variable map.
func (vm *ViewModel) Variables() map[string]any {
	out := make(map[string]any, len(vm.variables))
	for k, v := range vm.variables {
		out[k] = v
	}
	return out
}

// RenderStrategy renders the event's view model on EventRender, storing
// the output on the event and returning it.
type RenderStrategy struct{}

// NewRenderStrategy creates the default render strategy.
func NewRenderStrategy() *RenderStrategy {
	return &RenderStrategy{}
}

// RegisterWith implements event.Aggregate.
func (s *RenderStrategy) RegisterWith(m *event.Manager) {
	m.AttachFunc(EventRender, s.onRender)
}

func (s *RenderStrategy) onRender(_ context.Context, e *event.Event) (any, error) {
	vm, ok := e.Param(ParamViewModel).(*ViewModel)
	if !ok {
		return nil, fmt.Errorf("render: event carries no view model")
	}
	rendered := render(vm)
	e.Params().Set(ParamRendered, rendered)
	return rendered, nil
}

// render produces the default textual rendering: the template name
// followed by the variables in sorted-key order.
func render(vm *ViewModel) string {
	keys := make([]string, 0, len(vm.variables))
	for k := range vm.variables {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(vm.Template())
	sb.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%s=%v", k, vm.variables[k])
	}
	sb.WriteByte('}')
	return sb.String()
}

// ErrorStrategy answers EventDispatchError by preparing an error view
// model. Failure details are exposed only when display_exceptions is set.
type ErrorStrategy struct {
	template          string
	displayExceptions bool
}

// NewErrorStrategy creates an error strategy for the given template.
func NewErrorStrategy(template string, displayExceptions bool) *ErrorStrategy {
	return &ErrorStrategy{template: template, displayExceptions: displayExceptions}
}

// RegisterWith implements event.Aggregate.
func (s *ErrorStrategy) RegisterWith(m *event.Manager) {
	m.AttachFunc(EventDispatchError, s.onError)
}

func (s *ErrorStrategy) onError(_ context.Context, e *event.Event) (any, error) {
	vm := NewViewModel()
	vm.SetTemplate(s.template)
	if s.displayExceptions {
		if err, ok := e.Param(ParamError).(error); ok {
			vm.Set("message", err.Error())
		}
	}
	e.Params().Set(ParamViewModel, vm)
	return vm, nil
}

// NotFoundStrategy answers EventRoute triggers that no router listener
// matched, preparing a not-found view model. It runs at a low priority so
// every routing listener gets a chance first.
type NotFoundStrategy struct {
	template string
}

// notFoundPriority places the strategy after default-priority routing
// listeners but before the shared injection listeners.
const notFoundPriority = -80

// NewNotFoundStrategy creates a not-found strategy for the given template.
func NewNotFoundStrategy(template string) *NotFoundStrategy {
	return &NotFoundStrategy{template: template}
}

// RegisterWith implements event.Aggregate.
func (s *NotFoundStrategy) RegisterWith(m *event.Manager) {
	m.AttachFunc(EventRoute, s.onRoute, event.WithPriority(notFoundPriority))
}

func (s *NotFoundStrategy) onRoute(_ context.Context, e *event.Event) (any, error) {
	if e.Param(ParamRouteMatch) != nil {
		return nil, nil
	}
	vm := NewViewModel()
	vm.SetTemplate(s.template)
	e.Params().Set(ParamViewModel, vm)
	return vm, nil
}

// Priorities of the shared injection listeners, relative to
// default-priority (1) listeners on the same event: both run last, with
// template injection preceding view-model injection.
const (
	PriorityTemplateInjector  = -90
	PriorityViewModelInjector = -100
)

// TemplateInjector is a shared-registry listener that fills in the base
// template on view models that did not choose their own. Registered under
// IdentifierDispatchable at PriorityTemplateInjector during the view
// phase.
type TemplateInjector struct {
	base string
}

// NewTemplateInjector creates a template injector for the given base
// template.
func NewTemplateInjector(base string) *TemplateInjector {
	return &TemplateInjector{base: base}
}

// Handle implements event.Listener.
func (t *TemplateInjector) Handle(_ context.Context, e *event.Event) (any, error) {
	vm, ok := e.Param(ParamViewModel).(*ViewModel)
	if !ok {
		return nil, nil
	}
	if vm.Template() == "" {
		vm.SetTemplate(t.base)
	}
	return vm.Template(), nil
}

// ViewModelInjector is a shared-registry listener that installs the
// event's view model on the application target. Registered under
// IdentifierDispatchable at PriorityViewModelInjector, after template
// injection.
type ViewModelInjector struct{}

// NewViewModelInjector creates a view-model injector.
func NewViewModelInjector() *ViewModelInjector {
	return &ViewModelInjector{}
}

// Handle implements event.Listener.
func (ViewModelInjector) Handle(_ context.Context, e *event.Event) (any, error) {
	vm, ok := e.Param(ParamViewModel).(*ViewModel)
	if !ok {
		return nil, nil
	}
	if a, ok := e.Target().(*Application); ok {
		a.viewModel = vm
	}
	return vm, nil
}
