package theme

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	gotheme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/render/template"
	"github.com/goliatone/go-formkit/pkg/render/template/pongo"
	"github.com/goliatone/go-formkit/pkg/visibility"
)

// Name is the renderer name used in render.Registry.
const Name = "theme"

// Renderer renders schemas to HTML through pongo2 templates styled by a
// go-theme manifest per framework.
type Renderer struct {
	templates        template.TemplateRenderer
	selector         gotheme.ThemeSelector
	defaultFramework string
	fallbacks        map[string]string
	stylesheets      bool
	logger           *zap.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a Renderer with the built-in frameworks registered.
func New(opts ...Option) (*Renderer, error) {
	cfg := &config{
		defaultFramework: Bootstrap5,
		fallbacks:        defaultPartials(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	selector := cfg.selector
	if selector == nil {
		builtin := NewManifestSelector(BuiltinManifests()...)
		for _, manifest := range cfg.manifests {
			if err := builtin.Register(manifest); err != nil {
				return nil, err
			}
		}
		selector = builtin
	}

	engineOpts := []pongo.Option{pongo.WithFS(Templates())}
	if cfg.templateDir != "" {
		engineOpts = append(engineOpts, pongo.WithBaseDir(cfg.templateDir))
	}
	engine, err := pongo.New(engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("theme: template engine: %w", err)
	}

	return &Renderer{
		templates:        engine,
		selector:         selector,
		defaultFramework: cfg.defaultFramework,
		fallbacks:        cfg.fallbacks,
		stylesheets:      cfg.stylesheets,
		logger:           cfg.logger.Named("theme"),
	}, nil
}

// Name implements render.Renderer.
func (r *Renderer) Name() string { return Name }

// ContentType implements render.Renderer.
func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }

func (r *Renderer) resolve(framework, variant string) (*gotheme.RendererConfig, error) {
	if framework == "" {
		framework = r.defaultFramework
	}
	selection, err := r.selector.Select(framework, variant)
	if err != nil {
		return nil, err
	}
	if selection == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFramework, framework)
	}
	return rendererConfig(selection, r.fallbacks), nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			return value
		}
	}
	return ""
}

// RenderForm implements render.Renderer. Translation, subset filtering,
// value overrides and error mapping are applied to a copy of form.
func (r *Renderer) RenderForm(ctx context.Context, form model.FormSchema, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	theme, err := r.resolve(firstNonEmpty(opts.Framework, form.Config.Theme), opts.Variant)
	if err != nil {
		return nil, err
	}

	html, err := r.renderForm(form, opts, theme)
	if err != nil {
		return nil, err
	}
	return []byte(r.stylesheet(theme) + html), nil
}

func (r *Renderer) renderForm(form model.FormSchema, opts render.RenderOptions, theme *gotheme.RendererConfig) (string, error) {
	render.LocalizeForm(&form, opts)
	render.ApplySubset(&form, opts.Subset)
	applyValues(&form, opts.Values)

	mapping := render.MapErrors(form, opts.Errors)
	render.ApplyErrors(&form, mapping.Fields)
	formErrors := render.MergeFormErrors(opts.FormErrors, mapping.Form...)

	method := strings.ToUpper(firstNonEmpty(opts.Method, form.Config.SpoofedMethod, form.Config.Method, http.MethodPost))
	hidden := render.MergeHiddenFields(opts.HiddenFields, render.MethodOverride(method))

	i18n := render.TemplateI18nFuncs(opts.Translator, render.TemplateI18nConfig{OnMissing: opts.OnMissing})
	translate := i18n["translate"].(func(any, string, ...any) string)

	fb := fieldBuilder{tokens: theme.Tokens}
	var hiddenHTML []string
	sections := make([]sectionContext, 0, 1)
	index := make(map[int]int)

	for _, view := range form.Fields {
		fc := fb.build(view, "")
		html, err := r.renderField(theme, fc)
		if err != nil {
			return "", err
		}
		if fc.Control == controlHidden {
			hiddenHTML = append(hiddenHTML, html)
			continue
		}

		number := 0
		if form.Config.MultiStep || len(form.Meta.Steps) > 0 {
			number = view.Step
		}
		pos, ok := index[number]
		if !ok {
			pos = len(sections)
			index[number] = pos
			sections = append(sections, sectionContext{Number: number, Title: stepTitle(form.Meta.Steps, number)})
		}
		sections[pos].add(view.Row, html)
	}

	sort.SliceStable(sections, func(i, j int) bool { return sections[i].Number < sections[j].Number })

	data := map[string]any{
		"form_attrs":    formAttributes(form, method, theme),
		"classes":       theme.Tokens,
		"hidden_fields": render.SortedHiddenFields(hidden),
		"hidden_html":   hiddenHTML,
		"form_errors":   formErrors,
		"sections":      sections,
		"multi_step":    len(sections) > 1 || form.Config.MultiStep,
		"submit_label":  translate(opts.Locale, "formkit.submit", map[string]any{"default": "Submit"}),
		"locale":        opts.Locale,
	}
	for name, fn := range i18n {
		data[name] = fn
	}

	out, err := r.templates.RenderTemplate(theme.Partials[PartialForm], data)
	if err != nil {
		return "", fmt.Errorf("theme: render form: %w", err)
	}
	r.logger.Debug("form rendered",
		zap.String("framework", theme.Theme),
		zap.Int("fields", len(form.Fields)),
	)
	return out, nil
}

func (r *Renderer) renderField(theme *gotheme.RendererConfig, fc fieldContext) (string, error) {
	if len(fc.childViews) > 0 {
		fb := fieldBuilder{tokens: theme.Tokens}
		for _, child := range fc.childViews {
			html, err := r.renderField(theme, fb.build(child, fc.childPrefix))
			if err != nil {
				return "", err
			}
			fc.Children = append(fc.Children, html)
		}
	}
	out, err := r.templates.RenderTemplate(theme.Partials[PartialField], map[string]any{
		"field":   fc,
		"classes": theme.Tokens,
	})
	if err != nil {
		return "", fmt.Errorf("theme: render field %q: %w", fc.Name, err)
	}
	return out, nil
}

// RenderContainer implements render.Renderer. Each slot form is rendered with
// the errors addressed to it: keys prefixed with the slot key, or keys naming
// one of its fields.
func (r *Renderer) RenderContainer(ctx context.Context, container model.ContainerSchema, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	theme, err := r.resolve(firstNonEmpty(opts.Framework, container.Config.Framework), opts.Variant)
	if err != nil {
		return nil, err
	}

	slots := make([]slotContext, 0, len(container.Slots))
	for _, slot := range container.Slots {
		slotOpts := opts
		slotOpts.FormErrors = nil
		slotOpts.Errors = slotErrors(slot, opts.Errors)
		html, err := r.renderForm(slot.Form, slotOpts, theme)
		if err != nil {
			return nil, fmt.Errorf("theme: render slot %q: %w", slot.Key, err)
		}
		slots = append(slots, slotContext{
			Key:         slot.Key,
			Title:       slot.Title,
			Description: slot.Description,
			Icon:        render.SanitizeIcon(slot.Icon),
			Badge:       slot.Badge,
			Active:      slot.Active,
			Collapsible: slot.Collapsible,
			Collapsed:   slot.Collapsible && slot.Collapsed,
			Class:       slot.Class,
			PaneID:      domID(container.Config.ID + "-" + slot.Key),
			HTML:        html,
		})
	}

	out, err := r.templates.RenderTemplate(theme.Partials[PartialContainer], map[string]any{
		"container": map[string]any{
			"id":           domID(container.Config.ID),
			"display_mode": container.Config.DisplayMode,
		},
		"classes":     theme.Tokens,
		"slots":       slots,
		"form_errors": render.MergeFormErrors(opts.FormErrors),
	})
	if err != nil {
		return nil, fmt.Errorf("theme: render container: %w", err)
	}
	return []byte(r.stylesheet(theme) + out), nil
}

func (r *Renderer) stylesheet(theme *gotheme.RendererConfig) string {
	if !r.stylesheets || theme.AssetURL == nil {
		return ""
	}
	href := theme.AssetURL(AssetStylesheet)
	if href == "" {
		return ""
	}
	return `<link rel="stylesheet" href="` + escape(href) + `">` + "\n"
}

func slotErrors(slot model.SlotView, errors map[string][]string) map[string][]string {
	if len(errors) == 0 {
		return nil
	}
	out := make(map[string][]string)
	for key, messages := range errors {
		if rest, ok := strings.CutPrefix(key, slot.Key+"."); ok {
			out[rest] = append(out[rest], messages...)
			continue
		}
		if _, ok := slot.Form.Field(key); ok {
			out[key] = append(out[key], messages...)
		}
	}
	return out
}

func applyValues(form *model.FormSchema, values map[string]any) {
	if len(values) == 0 {
		return
	}
	fields := make([]model.FieldView, len(form.Fields))
	copy(fields, form.Fields)
	for i := range fields {
		if value, ok := visibility.Lookup(values, fields[i].Name); ok {
			fields[i].Value = value
		}
	}
	form.Fields = fields
}

func stepTitle(steps []model.Step, number int) string {
	for _, step := range steps {
		if step.Number == number {
			return step.Title
		}
	}
	if number > 0 {
		return fmt.Sprintf("Step %d", number)
	}
	return ""
}

type rowContext struct {
	Row    string   `json:"row"`
	Fields []string `json:"fields"`
}

type sectionContext struct {
	Number int          `json:"number"`
	Title  string       `json:"title"`
	Rows   []rowContext `json:"rows"`
}

// add appends html to the current row run, starting a new run when the row
// tag changes.
func (s *sectionContext) add(row, html string) {
	if n := len(s.Rows); n > 0 && s.Rows[n-1].Row == row {
		s.Rows[n-1].Fields = append(s.Rows[n-1].Fields, html)
		return
	}
	s.Rows = append(s.Rows, rowContext{Row: row, Fields: []string{html}})
}

type slotContext struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Badge       string `json:"badge"`
	Active      bool   `json:"active"`
	Collapsible bool   `json:"collapsible"`
	Collapsed   bool   `json:"collapsed"`
	Class       string `json:"class"`
	PaneID      string `json:"pane_id"`
	HTML        string `json:"html"`
}
