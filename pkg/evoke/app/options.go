package app

import (
	"fmt"

	"github.com/dmichaels/evoke/pkg/evoke/config"
)

// Configuration keys recognized by the bootstrap orchestrator.
const (
	KeyBaseTemplate      = "view.base_template"
	KeyErrorTemplate     = "view.error_template"
	KeyNotFoundTemplate  = "view.not_found_template"
	KeyDisplayExceptions = "view.display_exceptions"
	KeyRoutes            = "routes"
)

// Baseline defaults applied before caller configuration is merged.
const (
	DefaultBaseTemplate     = "layout/layout"
	DefaultErrorTemplate    = "error/index"
	DefaultNotFoundTemplate = "error/404"
)

// Options is the validated bootstrap configuration. It is built once, in
// the locator phase, from baseline defaults merged with caller
// configuration; invalid configuration fails that phase.
type Options struct {
	// BaseTemplate is the layout template injected into view models that
	// do not set their own.
	BaseTemplate string

	// ErrorTemplate is rendered when dispatching a route fails.
	ErrorTemplate string

	// NotFoundTemplate is rendered when no route matches.
	NotFoundTemplate string

	// DisplayExceptions exposes failure details in the error view.
	DisplayExceptions bool

	// Routes maps request paths to dispatch targets.
	Routes map[string]string
}

// OptionsFrom extracts and validates bootstrap options from merged
// configuration.
func OptionsFrom(cfg config.Config) (Options, error) {
	opts := Options{
		BaseTemplate:      cfg.String(KeyBaseTemplate, DefaultBaseTemplate),
		ErrorTemplate:     cfg.String(KeyErrorTemplate, DefaultErrorTemplate),
		NotFoundTemplate:  cfg.String(KeyNotFoundTemplate, DefaultNotFoundTemplate),
		DisplayExceptions: cfg.Bool(KeyDisplayExceptions, false),
		Routes:            cfg.StringMap(KeyRoutes, nil),
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Validate checks the options for consistency. Runs at load time so
// misconfiguration fails the locator phase instead of surfacing mid-
// dispatch.
func (o Options) Validate() error {
	if o.BaseTemplate == "" {
		return fmt.Errorf("%s must not be empty", KeyBaseTemplate)
	}
	if o.ErrorTemplate == "" {
		return fmt.Errorf("%s must not be empty", KeyErrorTemplate)
	}
	if o.NotFoundTemplate == "" {
		return fmt.Errorf("%s must not be empty", KeyNotFoundTemplate)
	}
	for path, target := range o.Routes {
		if path == "" {
			return fmt.Errorf("routes: empty path")
		}
		if target == "" {
			return fmt.Errorf("routes: empty target for path %q", path)
		}
	}
	return nil
}
