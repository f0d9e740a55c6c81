package form

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/visibility"
)

// CSRFField is the hidden input name carrying the CSRF token.
const CSRFField = "_token"

// VisibleFields returns the fields principal may see, in insertion order. A
// nil principal skips permission and role checks.
func (b *Builder) VisibleFields(principal visibility.Principal) []*field.Field {
	out := make([]*field.Field, 0, len(b.order))
	for _, name := range b.order {
		if f := b.fields[name]; f.IsVisible(principal) {
			out = append(out, f)
		}
	}
	return out
}

// ToArray projects the form as seen by principal. With caching enabled the
// result is reused for the same viewer until it expires.
func (b *Builder) ToArray(principal visibility.Principal) model.FormSchema {
	value, _ := b.cached("to_array", principal, func() (any, error) {
		return b.schema(principal), nil
	})
	return value.(model.FormSchema)
}

// Render renders the form through the configured renderer. Builder errors and
// the CSRF token are merged into the configured render options.
func (b *Builder) Render(ctx context.Context, principal visibility.Principal) ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	renderer := b.cfg.renderer
	if renderer == nil {
		return nil, ErrNoRenderer
	}

	value, err := b.cached("render", principal, func() (any, error) {
		schema := b.schema(principal)
		out, err := renderer.RenderForm(ctx, schema, b.renderOptions())
		if err != nil {
			return nil, fmt.Errorf("form: render with %s: %w", renderer.Name(), err)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]byte), nil
}

func (b *Builder) renderOptions() render.RenderOptions {
	opts := b.cfg.renderOptions
	if opts.Framework == "" {
		opts.Framework = b.cfg.theme
	}
	if len(b.errors) > 0 {
		merged := make(map[string][]string, len(opts.Errors)+len(b.errors))
		for key, messages := range opts.Errors {
			merged[key] = append([]string(nil), messages...)
		}
		for key, messages := range b.errors {
			merged[key] = append(merged[key], messages...)
		}
		opts.Errors = merged
	}
	if b.csrf && b.csrfToken != "" {
		opts.HiddenFields = render.MergeHiddenFields(opts.HiddenFields, render.CSRFToken(CSRFField, b.csrfToken))
	}
	return opts
}

func (b *Builder) schema(principal visibility.Principal) model.FormSchema {
	visible := b.VisibleFields(principal)

	schema := model.FormSchema{
		Config: model.FormConfig{
			Action:        b.action,
			Method:        b.Method(),
			SpoofedMethod: b.SpoofedMethod(),
			Enctype:       b.enctype(visible),
			CSRF:          b.csrf,
			AJAX:          b.ajax,
			Theme:         b.cfg.theme,
			MultiStep:     b.multiStep,
			Attributes:    maps.Clone(b.attributes),
		},
		Fields: make([]model.FieldView, 0, len(visible)),
		Validation: model.ValidationSpec{
			Rules:    b.Rules(),
			Messages: b.Messages(),
		},
		Data: b.Data(),
		Meta: model.FormMeta{
			RequiredFields: []string{},
		},
	}

	for _, f := range visible {
		schema.Fields = append(schema.Fields, b.view(f))
		if f.IsRequiredFor(b.data) {
			schema.Meta.RequiredFields = append(schema.Meta.RequiredFields, f.Name())
		}
		if f.AcceptsUploads() {
			schema.Meta.HasFileUploads = true
		}
	}
	schema.Meta.FieldCount = len(schema.Fields)
	schema.Meta.Steps = b.steps(visible)
	return schema
}

func (b *Builder) view(f *field.Field) model.FieldView {
	view := f.View(b.cfg.defaultWidth, b.cfg.totalColumns)
	if b.cfg.markdownHelp && f.Help() != "" {
		html, err := render.MarkdownHelp(f.Help())
		if err != nil {
			b.logger.Warn("help markdown failed", zap.String("field", f.Name()), zap.Error(err))
		} else {
			view.Meta.HelpHTML = html
		}
	}
	if f.Kind() == field.KindRichText && f.Editor.Sanitize {
		if raw, ok := view.Value.(string); ok {
			view.Value = render.SanitizeRichText(raw)
		}
	}
	return view
}

// steps buckets fields by resolved step. Nothing is returned for single-step
// forms whose fields declare no step.
func (b *Builder) steps(fields []*field.Field) []model.Step {
	declared := b.multiStep
	buckets := make(map[int]*model.Step)
	for _, f := range fields {
		if f.Layout.Step > 0 {
			declared = true
		}
		number := f.Layout.ResolvedStep()
		step, ok := buckets[number]
		if !ok {
			step = &model.Step{Number: number, Title: f.Layout.StepTitle}
			buckets[number] = step
		}
		if step.Title == "" {
			step.Title = f.Layout.StepTitle
		}
		step.Fields = append(step.Fields, f.Name())
	}
	if !declared || len(buckets) == 0 {
		return nil
	}

	numbers := make([]int, 0, len(buckets))
	for number := range buckets {
		numbers = append(numbers, number)
	}
	sort.Ints(numbers)

	steps := make([]model.Step, 0, len(numbers))
	for _, number := range numbers {
		step := *buckets[number]
		if title, ok := b.stepTitles[number]; ok && title != "" {
			step.Title = title
		}
		if step.Title == "" {
			step.Title = "Step " + strconv.Itoa(number)
		}
		steps = append(steps, step)
	}
	return steps
}
