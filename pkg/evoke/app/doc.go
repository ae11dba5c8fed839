// Package app assembles an application around the dispatch core.
//
// The Bootstrap orchestrator is the primary consumer of the event
// package and demonstrates its ordering contract end to end. It drives
// four phases, each exactly once and in order:
//
//  1. locator: merge caller configuration over baseline defaults,
//     validate it, register the baseline service definitions, and
//     install the service locator on the application context.
//  2. router: resolve the router from the locator and install it.
//  3. view: resolve the view services; attach the render, error, and
//     not-found strategies to the application's local bus as aggregates;
//     register the template injector (priority -90) and view-model
//     injector (priority -100) on the shared registry under
//     IdentifierDispatchable, so relative to default-priority listeners
//     on the bootstrap event they run last, template injection first.
//  4. events: fire the "bootstrap" lifecycle event on the application's
//     local bus with the application and configuration as parameters,
//     with no halt predicate.
//
// A phase failure leaves the bootstrap in a terminal failed state: later
// phases never run, and the failure is surfaced to the Run caller. A
// listener failure during the lifecycle event is likewise fatal.
//
//	a := app.NewApplication()
//	cfg, _ := config.FromFile("app.yaml")
//	b, _ := app.NewBootstrap(a, cfg)
//	if err := b.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// The router, view strategies, and injection listeners are collaborators
// specified only at their boundary: anything resolvable from the locator
// that implements the Router interface or event.Aggregate can replace
// the defaults through configuration-driven service overrides.
package app
