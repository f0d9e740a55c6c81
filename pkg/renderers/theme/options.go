package theme

import (
	"maps"

	gotheme "github.com/goliatone/go-theme"
	"go.uber.org/zap"
)

// Option configures the Renderer.
type Option func(*config)

type config struct {
	selector         gotheme.ThemeSelector
	manifests        []*gotheme.Manifest
	templateDir      string
	defaultFramework string
	fallbacks        map[string]string
	stylesheets      bool
	logger           *zap.Logger
}

// WithSelector replaces the built-in manifest selector.
func WithSelector(selector gotheme.ThemeSelector) Option {
	return func(cfg *config) {
		cfg.selector = selector
	}
}

// WithManifests registers extra manifests next to the built-in frameworks.
// A manifest named like a built-in framework replaces it.
func WithManifests(manifests ...*gotheme.Manifest) Option {
	return func(cfg *config) {
		cfg.manifests = append(cfg.manifests, manifests...)
	}
}

// WithTemplateDir loads templates from dir before the embedded set, so files
// named like the built-in partials override them.
func WithTemplateDir(dir string) Option {
	return func(cfg *config) {
		cfg.templateDir = dir
	}
}

// WithDefaultFramework sets the framework used when neither the render
// options nor the schema name one. Defaults to bootstrap5.
func WithDefaultFramework(name string) Option {
	return func(cfg *config) {
		if name != "" {
			cfg.defaultFramework = name
		}
	}
}

// WithPartialFallbacks sets the partials used when a manifest omits them.
func WithPartialFallbacks(fallbacks map[string]string) Option {
	return func(cfg *config) {
		maps.Copy(cfg.fallbacks, fallbacks)
	}
}

// WithStylesheets emits the manifest stylesheet link before forms and
// containers.
func WithStylesheets() Option {
	return func(cfg *config) {
		cfg.stylesheets = true
	}
}

// WithLogger sets the logger. Defaults to zap.NewNop().
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}
