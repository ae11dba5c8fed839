package app

import (
	"context"
	"sort"

	"github.com/dmichaels/evoke/pkg/evoke/event"
)

// RouteMatch is the result of routing a request path.
type RouteMatch struct {
	// Path is the matched request path.
	Path string

	// Target is the dispatch target the path maps to.
	Target string
}

// Router resolves request paths to dispatch targets. The orchestrator
// consumes nothing beyond this lookup and, when the router is also an
// event.Aggregate, its bulk listener registration.
type Router interface {
	Match(path string) (*RouteMatch, bool)
}

// routeStack is the default Router: a literal route table resolved from
// bootstrap configuration. It answers EventRoute triggers on the bus it
// is registered with.
type routeStack struct {
	paths   []string
	targets map[string]string
}

// NewRouteStack builds a router from a path-to-target table.
func NewRouteStack(routes map[string]string) Router {
	paths := make([]string, 0, len(routes))
	targets := make(map[string]string, len(routes))
	for path, target := range routes {
		paths = append(paths, path)
		targets[path] = target
	}
	sort.Strings(paths)
	return &routeStack{paths: paths, targets: targets}
}

// Match implements Router with exact path lookup.
func (r *routeStack) Match(path string) (*RouteMatch, bool) {
	target, ok := r.targets[path]
	if !ok {
		return nil, false
	}
	return &RouteMatch{Path: path, Target: target}, true
}

// Routes returns the registered paths in sorted order.
func (r *routeStack) Routes() []string {
	paths := make([]string, len(r.paths))
	copy(paths, r.paths)
	return paths
}

// RegisterWith implements event.Aggregate: the router answers EventRoute
// triggers by storing a RouteMatch on the event, or nil when no route
// matches so later listeners (the not-found strategy) can react.
func (r *routeStack) RegisterWith(m *event.Manager) {
	m.AttachFunc(EventRoute, r.onRoute)
}

func (r *routeStack) onRoute(_ context.Context, e *event.Event) (any, error) {
	path, _ := e.Params().Get(ParamPath)
	p, ok := path.(string)
	if !ok {
		return nil, nil
	}
	match, ok := r.Match(p)
	if !ok {
		return nil, nil
	}
	e.Params().Set(ParamRouteMatch, match)
	return match, nil
}
