package field

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/visibility"
)

var (
	// ErrInvalidOption is returned when an option value cannot be converted to
	// the type its key expects.
	ErrInvalidOption = errors.New("field: invalid option")
	// ErrNotComposite is returned when children are added to a field kind that
	// cannot own them.
	ErrNotComposite = errors.New("field: kind does not accept children")
	// ErrCycle is returned when a field would become its own descendant.
	ErrCycle = errors.New("field: child is the field or one of its ancestors")
)

// Field is one form control: identity, value, presentation and the composed
// concerns (attributes, validation, layout, visibility, dependencies) plus
// the variant configuration matching its kind.
//
// Fields are single-writer values. Setters mutate in place and return the
// receiver for chaining.
type Field struct {
	name        string
	kind        string
	value       any
	label       string
	placeholder string
	help        string
	tooltip     string
	example     string
	labeler     Labeler
	i18n        map[string]string

	disabled bool
	readonly bool
	errors   []string
	parent   *Field

	Attrs        Attributes
	Validation   Validation
	Layout       Layout
	Visibility   VisibilityRules
	Dependencies Dependencies

	Choices  Choices
	Upload   Upload
	Numeric  Numeric
	Temporal Temporal
	Editor   Editor
	Geo      Geo
	Children *Children
}

// New returns a bare field of the given kind. Prefer Registry.Make, which
// applies the kind defaults.
func New(name, kind string) *Field {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		kind = KindText
	}
	f := &Field{name: strings.TrimSpace(name), kind: kind}
	if IsComposite(kind) {
		f.Children = &Children{}
	}
	return f
}

// Name returns the field name, used both as data key and serialization key.
func (f *Field) Name() string { return f.name }

// Kind returns the field discriminator.
func (f *Field) Kind() string { return f.kind }

// Value returns the current value.
func (f *Field) Value() any { return f.value }

// SetValue assigns the value.
func (f *Field) SetValue(value any) *Field {
	f.value = value
	return f
}

// Fill populates the field with a submitted or stored value. Presentational
// fields ignore it.
func (f *Field) Fill(value any) *Field {
	if IsPresentational(f.kind) {
		return f
	}
	f.value = value
	return f
}

// Compute runs the computed transform against data and stores the result.
// The boolean reports whether a transform is configured.
func (f *Field) Compute(data map[string]any) (any, bool) {
	if f.Dependencies.Computed == nil {
		return nil, false
	}
	f.value = f.Dependencies.Computed(data)
	return f.value, true
}

// Label returns the explicit label or the labeler output for the name.
func (f *Field) Label() string {
	if f.label != "" {
		return f.label
	}
	if f.labeler != nil {
		return f.labeler(f.name)
	}
	return DefaultLabeler(f.name)
}

// SetLabel assigns an explicit label.
func (f *Field) SetLabel(label string) *Field {
	f.label = label
	return f
}

// SetLabeler overrides how labels are derived from the name.
func (f *Field) SetLabeler(labeler Labeler) *Field {
	f.labeler = labeler
	return f
}

// SetTranslationKey records the translation key used by renderers to localise
// the label, placeholder or help text.
func (f *Field) SetTranslationKey(part, key string) *Field {
	if f.i18n == nil {
		f.i18n = make(map[string]string)
	}
	f.i18n[part] = key
	return f
}

// TranslationKeys returns a copy of the recorded translation keys.
func (f *Field) TranslationKeys() map[string]string {
	if len(f.i18n) == 0 {
		return nil
	}
	out := make(map[string]string, len(f.i18n))
	for part, key := range f.i18n {
		out[part] = key
	}
	return out
}

func (f *Field) Placeholder() string { return f.placeholder }

func (f *Field) SetPlaceholder(placeholder string) *Field {
	f.placeholder = placeholder
	return f
}

func (f *Field) Help() string { return f.help }

func (f *Field) SetHelp(help string) *Field {
	f.help = help
	return f
}

func (f *Field) Tooltip() string { return f.tooltip }

func (f *Field) SetTooltip(tooltip string) *Field {
	f.tooltip = tooltip
	return f
}

func (f *Field) Example() string { return f.example }

func (f *Field) SetExample(example string) *Field {
	f.example = example
	return f
}

// ID returns a DOM-safe identifier. An explicit `id` attribute wins;
// otherwise `[` becomes `_` and `]` is dropped (`items[0][sku]` ->
// `items_0_sku`).
func (f *Field) ID() string {
	if id := f.Attrs.String("id"); id != "" {
		return id
	}
	return strings.ReplaceAll(strings.ReplaceAll(f.name, "[", "_"), "]", "")
}

// SetAttribute stores a free attribute.
func (f *Field) SetAttribute(key string, value any) *Field {
	f.Attrs.Set(key, value)
	return f
}

// AddClass merges class tokens.
func (f *Field) AddClass(tokens ...string) *Field {
	f.Attrs.MergeClass(tokens...)
	return f
}

// Required reports the static required flag.
func (f *Field) Required() bool { return f.Validation.Required }

func (f *Field) SetRequired(required bool) *Field {
	f.Validation.Required = required
	return f
}

// SetRules assigns the rule-expression string.
func (f *Field) SetRules(rules string) *Field {
	f.Validation.Rules = strings.TrimSpace(rules)
	return f
}

// RequireWhen makes the field required when all conditions hold.
func (f *Field) RequireWhen(conditions ...visibility.Condition) *Field {
	f.Validation.RequiredConditions = append(f.Validation.RequiredConditions, conditions...)
	return f
}

// SetMessage registers a custom message for a rule identifier.
func (f *Field) SetMessage(rule, message string) *Field {
	if f.Validation.Messages == nil {
		f.Validation.Messages = make(map[string]string)
	}
	f.Validation.Messages[rule] = message
	return f
}

// IsRequiredFor reports whether the field is required against data.
func (f *Field) IsRequiredFor(data map[string]any) bool {
	return f.Validation.IsRequiredFor(data)
}

func (f *Field) SetWidth(width int) *Field {
	f.Layout.Width = width
	return f
}

func (f *Field) SetRow(row string) *Field {
	f.Layout.Row = row
	return f
}

func (f *Field) SetGroup(group string) *Field {
	f.Layout.Group = group
	return f
}

func (f *Field) SetSection(section string) *Field {
	f.Layout.Section = section
	return f
}

func (f *Field) SetColumns(columns int) *Field {
	f.Layout.Columns = columns
	return f
}

// SetStep assigns the multi-step bucket.
func (f *Field) SetStep(step int) *Field {
	f.Layout.Step = step
	return f
}

// Hide forces the field invisible regardless of any other rule.
func (f *Field) Hide() *Field {
	f.Visibility.Hidden = true
	return f
}

// Show clears the static hidden flag.
func (f *Field) Show() *Field {
	f.Visibility.Hidden = false
	return f
}

// VisibleWhen installs a viewer predicate.
func (f *Field) VisibleWhen(predicate Predicate) *Field {
	f.Visibility.Predicate = predicate
	return f
}

// ShowIf appends declarative show conditions (ANDed).
func (f *Field) ShowIf(conditions ...visibility.Condition) *Field {
	f.Visibility.ShowIf = append(f.Visibility.ShowIf, conditions...)
	return f
}

// HideIf appends declarative hide conditions (ANDed).
func (f *Field) HideIf(conditions ...visibility.Condition) *Field {
	f.Visibility.HideIf = append(f.Visibility.HideIf, conditions...)
	return f
}

// SetExpression assigns a string visibility expression.
func (f *Field) SetExpression(expression string) *Field {
	f.Visibility.Expression = strings.TrimSpace(expression)
	return f
}

// RequirePermission restricts the field to principals holding permission.
func (f *Field) RequirePermission(permission string) *Field {
	f.Visibility.Permission = strings.TrimSpace(permission)
	return f
}

// RequireRoles restricts the field to principals holding any of roles.
func (f *Field) RequireRoles(roles ...string) *Field {
	f.Visibility.Roles = append(f.Visibility.Roles, roles...)
	return f
}

// IsVisible judges the viewer. A nil principal skips permission and role
// checks.
func (f *Field) IsVisible(principal visibility.Principal) bool {
	return f.Visibility.Allows(principal)
}

// MeetsVisibilityConditions judges submitted data against the declarative
// show/hide conditions and the expression.
func (f *Field) MeetsVisibilityConditions(data map[string]any) bool {
	return f.Visibility.Matches(f.name, data)
}

func (f *Field) Disabled() bool { return f.disabled }

func (f *Field) SetDisabled(disabled bool) *Field {
	f.disabled = disabled
	return f
}

func (f *Field) Readonly() bool { return f.readonly }

func (f *Field) SetReadonly(readonly bool) *Field {
	f.readonly = readonly
	return f
}

// Errors returns the field error messages.
func (f *Field) Errors() []string { return append([]string(nil), f.errors...) }

// HasErrors reports whether error messages are attached.
func (f *Field) HasErrors() bool { return len(f.errors) > 0 }

// SetErrors replaces the error messages.
func (f *Field) SetErrors(messages []string) *Field {
	f.errors = append([]string(nil), messages...)
	return f
}

// AddError appends an error message.
func (f *Field) AddError(message string) *Field {
	f.errors = append(f.errors, message)
	return f
}

// SetChoices replaces the selectable options.
func (f *Field) SetChoices(options ...model.Option) *Field {
	f.Choices.Options = append([]model.Option(nil), options...)
	return f
}

// Min returns the lower bound from the variant config or the attribute bag.
func (f *Field) Min() (any, bool) {
	switch {
	case IsNumeric(f.kind) && f.Numeric.Min != nil:
		return *f.Numeric.Min, true
	case IsTemporal(f.kind) && f.Temporal.Min != "":
		return f.Temporal.Min, true
	}
	return f.Attrs.Min()
}

// Max returns the upper bound from the variant config or the attribute bag.
func (f *Field) Max() (any, bool) {
	switch {
	case IsNumeric(f.kind) && f.Numeric.Max != nil:
		return *f.Numeric.Max, true
	case IsTemporal(f.kind) && f.Temporal.Max != "":
		return f.Temporal.Max, true
	}
	return f.Attrs.Max()
}

// Accept returns accepted upload types.
func (f *Field) Accept() string {
	if IsUpload(f.kind) && f.Upload.Accept != "" {
		return f.Upload.Accept
	}
	return f.Attrs.Accept()
}

// Multiple reports whether several values may be submitted.
func (f *Field) Multiple() bool {
	switch {
	case IsChoice(f.kind) && f.Choices.Multiple:
		return true
	case IsUpload(f.kind) && f.Upload.Multiple:
		return true
	}
	return f.Attrs.Multiple()
}

// AcceptsUploads reports whether the field submits files.
func (f *Field) AcceptsUploads() bool { return IsUpload(f.kind) }

// Parent returns the composite field owning f, if any.
func (f *Field) Parent() *Field { return f.parent }

// AddChild attaches child to a repeater/group field. Ownership is exclusive:
// a child owned by another field is detached from it first.
func (f *Field) AddChild(child *Field) error {
	if f.Children == nil {
		return ErrNotComposite
	}
	if child == nil || child.parent == f {
		return nil
	}
	for ancestor := f; ancestor != nil; ancestor = ancestor.parent {
		if ancestor == child {
			return fmt.Errorf("%w: %q", ErrCycle, child.name)
		}
	}
	if child.parent != nil && child.parent.Children != nil {
		child.parent.Children.detach(child)
	}
	child.parent = f
	f.Children.fields = append(f.Children.fields, child)
	return nil
}

// RemoveChild detaches the named child.
func (f *Field) RemoveChild(name string) bool {
	if f.Children == nil {
		return false
	}
	for _, child := range f.Children.fields {
		if child.name == name {
			f.Children.detach(child)
			child.parent = nil
			return true
		}
	}
	return false
}

// Clone returns a deep copy detached from any parent. Function values are
// shared.
func (f *Field) Clone() *Field {
	out := *f
	out.parent = nil
	out.errors = append([]string(nil), f.errors...)
	out.i18n = f.TranslationKeys()
	out.Attrs = f.Attrs.clone()
	out.Validation = f.Validation.clone()
	out.Visibility = f.Visibility.clone()
	out.Choices.Options = append([]model.Option(nil), f.Choices.Options...)
	out.Editor.Toolbar = append([]string(nil), f.Editor.Toolbar...)
	out.Numeric = Numeric{Min: cloneFloat(f.Numeric.Min), Max: cloneFloat(f.Numeric.Max), Step: cloneFloat(f.Numeric.Step)}
	if f.Children != nil {
		out.Children = &Children{MinItems: f.Children.MinItems, MaxItems: f.Children.MaxItems}
		for _, child := range f.Children.fields {
			copied := child.Clone()
			copied.parent = &out
			out.Children.fields = append(out.Children.fields, copied)
		}
	}
	return &out
}

func cloneFloat(value *float64) *float64 {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}
