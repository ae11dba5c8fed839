package app_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmichaels/evoke/pkg/evoke/app"
	"github.com/dmichaels/evoke/pkg/evoke/config"
)

func TestOptionsFromDefaults(t *testing.T) {
	opts, err := app.OptionsFrom(config.New(nil))
	require.NoError(t, err)

	assert.Equal(t, app.DefaultBaseTemplate, opts.BaseTemplate)
	assert.Equal(t, app.DefaultErrorTemplate, opts.ErrorTemplate)
	assert.Equal(t, app.DefaultNotFoundTemplate, opts.NotFoundTemplate)
	assert.False(t, opts.DisplayExceptions)
	assert.Nil(t, opts.Routes)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.New(map[string]any{
		app.KeyBaseTemplate:      "custom/layout",
		app.KeyDisplayExceptions: true,
		app.KeyRoutes: map[string]string{
			"/":      "home/index",
			"/users": "users/index",
		},
	})

	opts, err := app.OptionsFrom(cfg)
	require.NoError(t, err)

	assert.Equal(t, "custom/layout", opts.BaseTemplate)
	assert.Equal(t, app.DefaultErrorTemplate, opts.ErrorTemplate)
	assert.True(t, opts.DisplayExceptions)
	assert.Equal(t, "users/index", opts.Routes["/users"])
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*app.Options)
		wantErr string
	}{
		{
			"valid",
			func(o *app.Options) {},
			"",
		},
		{
			"empty base template",
			func(o *app.Options) { o.BaseTemplate = "" },
			app.KeyBaseTemplate,
		},
		{
			"empty error template",
			func(o *app.Options) { o.ErrorTemplate = "" },
			app.KeyErrorTemplate,
		},
		{
			"empty not-found template",
			func(o *app.Options) { o.NotFoundTemplate = "" },
			app.KeyNotFoundTemplate,
		},
		{
			"empty route path",
			func(o *app.Options) { o.Routes = map[string]string{"": "home/index"} },
			"empty path",
		},
		{
			"empty route target",
			func(o *app.Options) { o.Routes = map[string]string{"/": ""} },
			"empty target",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := app.Options{
				BaseTemplate:     app.DefaultBaseTemplate,
				ErrorTemplate:    app.DefaultErrorTemplate,
				NotFoundTemplate: app.DefaultNotFoundTemplate,
			}
			tt.mutate(&opts)

			err := opts.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
