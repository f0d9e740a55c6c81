package form

import (
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/validation"
)

// DefaultTheme is the framework used when none is configured.
const DefaultTheme = "bootstrap5"

// Option configures a Builder.
type Option func(*config)

type config struct {
	registry      *field.Registry
	validator     validation.Validator
	renderer      render.Renderer
	renderOptions render.RenderOptions
	logger        *zap.Logger
	labeler       field.Labeler
	defaultWidth  int
	totalColumns  int
	theme         string
	markdownHelp  bool
	cacheEnabled  bool
	cacheTTL      time.Duration
	now           func() time.Time
}

func defaultConfig() config {
	return config{
		defaultWidth: field.DefaultWidth,
		totalColumns: field.TotalColumns,
		theme:        DefaultTheme,
		now:          time.Now,
	}
}

// WithRegistry sets the field registry used by Add and the typed helpers.
func WithRegistry(registry *field.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithValidator sets the validator used by Validate.
func WithValidator(validator validation.Validator) Option {
	return func(cfg *config) {
		if validator != nil {
			cfg.validator = validator
		}
	}
}

// WithRenderer sets the renderer used by Render.
func WithRenderer(renderer render.Renderer) Option {
	return func(cfg *config) {
		cfg.renderer = renderer
	}
}

// WithRenderOptions sets the base options passed to the renderer. Errors and
// hidden fields recorded on the builder are merged on top.
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

// WithLabeler overrides how labels are derived from field names.
func WithLabeler(labeler field.Labeler) Option {
	return func(cfg *config) {
		cfg.labeler = labeler
	}
}

// WithDefaultWidth sets the grid width applied to fields that leave theirs
// unset.
func WithDefaultWidth(width int) Option {
	return func(cfg *config) {
		if width > 0 {
			cfg.defaultWidth = width
		}
	}
}

// WithTotalColumns sets the grid size. Defaults to 12.
func WithTotalColumns(columns int) Option {
	return func(cfg *config) {
		if columns > 0 {
			cfg.totalColumns = columns
		}
	}
}

// WithTheme sets the framework the form is rendered for.
func WithTheme(theme string) Option {
	return func(cfg *config) {
		if theme != "" {
			cfg.theme = theme
		}
	}
}

// WithMarkdownHelp renders help text as Markdown into meta.helpHtml.
func WithMarkdownHelp() Option {
	return func(cfg *config) {
		cfg.markdownHelp = true
	}
}

// WithCache enables the viewer-scoped result cache for ToArray and Render.
// Entries live for ttl and are keyed by operation and viewer fingerprint
// only, so Fill does not invalidate them.
func WithCache(ttl time.Duration) Option {
	return func(cfg *config) {
		cfg.cacheEnabled = ttl > 0
		cfg.cacheTTL = ttl
	}
}

// WithClock overrides the clock used for cache expiry.
func WithClock(now func() time.Time) Option {
	return func(cfg *config) {
		if now != nil {
			cfg.now = now
		}
	}
}
