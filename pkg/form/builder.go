package form

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/validation"
)

// Enctypes reported by Builder.Enctype.
const (
	EnctypeURLEncoded = "application/x-www-form-urlencoded"
	EnctypeMultipart  = "multipart/form-data"
)

// Builder is an ordered, name-keyed set of fields plus form-level settings.
// Adding a field whose name already exists replaces it in place.
type Builder struct {
	cfg    config
	logger *zap.Logger

	fields map[string]*field.Field
	order  []string

	action     string
	method     string
	attributes map[string]any
	csrf       bool
	csrfToken  string
	ajax       bool
	multiStep  bool
	stepTitles map[int]string

	currentGroup   string
	currentSection string
	rowCounter     int
	dividerCounter int

	data   map[string]any
	errors map[string][]string
	cache  map[string]cacheEntry
	err    error
}

// New returns an empty builder that posts to "" with method POST.
func New(opts ...Option) *Builder {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.registry == nil {
		cfg.registry = field.DefaultRegistry()
	}
	if cfg.validator == nil {
		cfg.validator = validation.New()
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	return &Builder{
		cfg:    cfg,
		logger: cfg.logger.Named("form"),
		fields: make(map[string]*field.Field),
		method: http.MethodPost,
	}
}

// Err returns the errors recorded by the typed helpers and layout helpers,
// which return fields rather than errors to keep chaining.
func (b *Builder) Err() error { return b.err }

func (b *Builder) record(err error) {
	if err != nil {
		b.err = errors.Join(b.err, err)
	}
}

// Add constructs a field of kind through the registry, applies opts and
// stores it. Unknown kinds fall back to text.
func (b *Builder) Add(name, kind string, opts field.Options) (*field.Field, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	f := b.make(kind, name)
	if err := f.Apply(opts); err != nil {
		return nil, fmt.Errorf("form: field %q: %w", name, err)
	}
	if err := b.AddField(f); err != nil {
		return nil, err
	}
	return f, nil
}

// AddField stores a field built elsewhere. The current group and section are
// stamped on fields that do not declare their own.
func (b *Builder) AddField(f *field.Field) error {
	if f == nil || f.Name() == "" {
		return ErrEmptyName
	}
	if parent := f.Parent(); parent != nil {
		parent.RemoveChild(f.Name())
	}
	if f.Layout.Group == "" {
		f.Layout.Group = b.currentGroup
	}
	if f.Layout.Section == "" {
		f.Layout.Section = b.currentSection
	}

	name := f.Name()
	if _, exists := b.fields[name]; !exists {
		b.order = append(b.order, name)
	} else {
		b.logger.Debug("field replaced", zap.String("field", name))
	}
	b.fields[name] = f
	return nil
}

func (b *Builder) make(kind, name string) *field.Field {
	f := b.cfg.registry.Make(kind, name)
	if b.cfg.labeler != nil {
		f.SetLabeler(b.cfg.labeler)
	}
	return f
}

// helper adds a field of kind and records failures on the builder.
func (b *Builder) helper(kind, name string) *field.Field {
	f := b.make(kind, strings.TrimSpace(name))
	if err := b.AddField(f); err != nil {
		b.record(fmt.Errorf("%w (kind %s)", err, kind))
	}
	return f
}

// Text adds a text input.
func (b *Builder) Text(name string) *field.Field { return b.helper(field.KindText, name) }

// Email adds an email input.
func (b *Builder) Email(name string) *field.Field { return b.helper(field.KindEmail, name) }

// Password adds a password input.
func (b *Builder) Password(name string) *field.Field { return b.helper(field.KindPassword, name) }

// Number adds a number input.
func (b *Builder) Number(name string) *field.Field { return b.helper(field.KindNumber, name) }

// Textarea adds a textarea.
func (b *Builder) Textarea(name string) *field.Field { return b.helper(field.KindTextarea, name) }

// Checkbox adds a checkbox.
func (b *Builder) Checkbox(name string) *field.Field { return b.helper(field.KindCheckbox, name) }

// File adds a file upload.
func (b *Builder) File(name string) *field.Field { return b.helper(field.KindFile, name) }

// Image adds an image upload.
func (b *Builder) Image(name string) *field.Field { return b.helper(field.KindImage, name) }

// RichText adds a rich text editor.
func (b *Builder) RichText(name string) *field.Field { return b.helper(field.KindRichText, name) }

// Map adds a map location picker.
func (b *Builder) Map(name string) *field.Field { return b.helper(field.KindMap, name) }

// Select adds a select with the given options.
func (b *Builder) Select(name string, options ...model.Option) *field.Field {
	return b.helper(field.KindSelect, name).SetChoices(options...)
}

// Hidden adds a hidden input holding value.
func (b *Builder) Hidden(name string, value any) *field.Field {
	return b.helper(field.KindHidden, name).SetValue(value)
}

// Repeater adds a repeater owning children. Children already owned by another
// composite field or by the builder itself are moved.
func (b *Builder) Repeater(name string, children ...*field.Field) *field.Field {
	f := b.helper(field.KindRepeater, name)
	for _, child := range children {
		b.record(b.AddChild(f, child))
	}
	return f
}

// AddChild moves child under the composite field parent. A child stored at
// the top level of the builder is removed from it.
func (b *Builder) AddChild(parent, child *field.Field) error {
	if parent == nil || child == nil {
		return ErrEmptyName
	}
	if err := parent.AddChild(child); err != nil {
		return fmt.Errorf("form: field %q: %w", parent.Name(), err)
	}
	if owned, ok := b.fields[child.Name()]; ok && owned == child {
		b.Remove(child.Name())
	}
	return nil
}

// Field returns the named field.
func (b *Builder) Field(name string) (*field.Field, bool) {
	f, ok := b.fields[name]
	return f, ok
}

// Has reports whether the named field exists.
func (b *Builder) Has(name string) bool {
	_, ok := b.fields[name]
	return ok
}

// Remove deletes the named field and reports whether it existed.
func (b *Builder) Remove(name string) bool {
	if _, ok := b.fields[name]; !ok {
		return false
	}
	delete(b.fields, name)
	for i, existing := range b.order {
		if existing == name {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return true
}

// Fields returns the fields in insertion order.
func (b *Builder) Fields() []*field.Field {
	out := make([]*field.Field, 0, len(b.order))
	for _, name := range b.order {
		out = append(out, b.fields[name])
	}
	return out
}

// Names returns the field names in insertion order.
func (b *Builder) Names() []string {
	return append([]string(nil), b.order...)
}

// Len returns the number of fields.
func (b *Builder) Len() int { return len(b.order) }

// SetAction sets the form action URL.
func (b *Builder) SetAction(action string) *Builder {
	b.action = action
	return b
}

// Action returns the form action URL.
func (b *Builder) Action() string { return b.action }

// SetMethod sets the HTTP verb. Verbs other than GET and POST are spoofed.
func (b *Builder) SetMethod(method string) *Builder {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = http.MethodPost
	}
	b.method = method
	return b
}

// Method returns the verb the browser submits with: GET, or POST for every
// other configured verb.
func (b *Builder) Method() string {
	if b.method == http.MethodGet {
		return http.MethodGet
	}
	return http.MethodPost
}

// SpoofedMethod returns the configured verb when it cannot be submitted
// natively (PUT, PATCH, DELETE), or "".
func (b *Builder) SpoofedMethod() string {
	if b.method == http.MethodGet || b.method == http.MethodPost {
		return ""
	}
	return b.method
}

// Enctype returns multipart/form-data when the method is spoofed or any field
// visible without a viewer accepts uploads.
func (b *Builder) Enctype() string {
	return b.enctype(b.VisibleFields(nil))
}

func (b *Builder) enctype(fields []*field.Field) string {
	if b.SpoofedMethod() != "" {
		return EnctypeMultipart
	}
	for _, f := range fields {
		if f.AcceptsUploads() {
			return EnctypeMultipart
		}
	}
	return EnctypeURLEncoded
}

// SetAttribute stores a form-level attribute.
func (b *Builder) SetAttribute(key string, value any) *Builder {
	if b.attributes == nil {
		b.attributes = make(map[string]any)
	}
	b.attributes[key] = value
	return b
}

// SetCSRF toggles the CSRF token input.
func (b *Builder) SetCSRF(enabled bool) *Builder {
	b.csrf = enabled
	return b
}

// SetCSRFToken enables CSRF protection and records the token rendered in the
// hidden _token input.
func (b *Builder) SetCSRFToken(token string) *Builder {
	b.csrf = true
	b.csrfToken = token
	return b
}

// SetAJAX toggles asynchronous submission.
func (b *Builder) SetAJAX(enabled bool) *Builder {
	b.ajax = enabled
	return b
}

// SetMultiStep toggles the multi-step layout.
func (b *Builder) SetMultiStep(enabled bool) *Builder {
	b.multiStep = enabled
	return b
}

// SetStepTitle names a step bucket. Untitled steps are called "Step N".
func (b *Builder) SetStepTitle(step int, title string) *Builder {
	if b.stepTitles == nil {
		b.stepTitles = make(map[int]string)
	}
	b.stepTitles[step] = title
	return b
}

// SetTheme sets the framework the form is rendered for.
func (b *Builder) SetTheme(theme string) *Builder {
	if theme != "" {
		b.cfg.theme = theme
	}
	return b
}

// Theme returns the framework the form is rendered for.
func (b *Builder) Theme() string { return b.cfg.theme }
