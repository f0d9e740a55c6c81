package container

import (
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/pkg/cache"
	"github.com/goliatone/go-formkit/pkg/render"
)

// Display modes.
const (
	DisplayTabbed    = "tabbed"
	DisplayAccordion = "accordion"
	DisplayStacked   = "stacked"
)

// Validation modes.
const (
	ValidateIndividual = "individual"
	ValidateCombined   = "combined"
	ValidateSequential = "sequential"
)

// DefaultCachePrefix namespaces container cache keys.
const DefaultCachePrefix = "formkit"

// Option configures a Container.
type Option func(*config)

type config struct {
	id             string
	displayMode    string
	framework      string
	validationMode string
	renderer       render.Renderer
	renderOptions  render.RenderOptions
	logger         *zap.Logger

	cacheEnabled bool
	cacheTTL     time.Duration
	cachePrefix  string
	cacheTags    []string
	autoClear    bool
	store        cache.Store
}

func defaultConfig() config {
	return config{
		displayMode:    DisplayTabbed,
		framework:      "bootstrap5",
		validationMode: ValidateIndividual,
		cachePrefix:    DefaultCachePrefix,
		autoClear:      true,
	}
}

// WithID sets the container id. A random UUID is used otherwise.
func WithID(id string) Option {
	return func(cfg *config) {
		cfg.id = id
	}
}

// WithDisplayMode sets tabbed, accordion or stacked presentation.
func WithDisplayMode(mode string) Option {
	return func(cfg *config) {
		if mode != "" {
			cfg.displayMode = mode
		}
	}
}

// WithFramework sets the framework propagated to every slot form.
func WithFramework(name string) Option {
	return func(cfg *config) {
		if name != "" {
			cfg.framework = name
		}
	}
}

// WithValidationMode sets individual, combined or sequential validation.
func WithValidationMode(mode string) Option {
	return func(cfg *config) {
		if mode != "" {
			cfg.validationMode = mode
		}
	}
}

// WithRenderer sets the renderer used by Render and RenderSingleForm.
func WithRenderer(renderer render.Renderer) Option {
	return func(cfg *config) {
		cfg.renderer = renderer
	}
}

// WithRenderOptions sets the base render options.
func WithRenderOptions(opts render.RenderOptions) Option {
	return func(cfg *config) {
		cfg.renderOptions = opts
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

// WithCache enables caching of ToArray and render results for ttl.
func WithCache(ttl time.Duration) Option {
	return func(cfg *config) {
		cfg.cacheEnabled = ttl > 0
		cfg.cacheTTL = ttl
	}
}

// WithStore sets the cache store. Defaults to an in-memory store with lazy
// expiry.
func WithStore(store cache.Store) Option {
	return func(cfg *config) {
		cfg.store = store
	}
}

// WithCachePrefix sets the key prefix.
func WithCachePrefix(prefix string) Option {
	return func(cfg *config) {
		cfg.cachePrefix = prefix
	}
}

// WithCacheTags writes entries under tags so ClearCache can flush them in
// bulk.
func WithCacheTags(tags ...string) Option {
	return func(cfg *config) {
		cfg.cacheTags = append([]string(nil), tags...)
	}
}

// WithAutoClear controls whether structural changes clear the cache.
// Defaults to true.
func WithAutoClear(enabled bool) Option {
	return func(cfg *config) {
		cfg.autoClear = enabled
	}
}
