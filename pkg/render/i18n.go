package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-formkit/pkg/model"
)

// ErrMissingTranslator is reported to MissingTranslationHandler when a
// translation key is present but no Translator was configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translation key slots recognised in FieldView.I18n.
const (
	I18nLabel       = "label"
	I18nPlaceholder = "placeholder"
	I18nHelp        = "help"
)

// Translator resolves translation keys for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function into a Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

// Translate implements Translator.
func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// MissingTranslationHandler returns the text used when key cannot be
// translated. args carries a {"default": fallback} map as its first entry
// when the field declared fallback text.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

func missingTranslationDefault(_ string, key string, args []any, _ error) string {
	if len(args) > 0 {
		if values, ok := args[0].(map[string]any); ok {
			if fallback, ok := values["default"].(string); ok && strings.TrimSpace(fallback) != "" {
				return fallback
			}
		}
	}
	return key
}

// LocalizeForm translates the label, placeholder and help text of every field
// that declares translation keys. Fields without keys keep their text. The
// field slices are copied before they are edited.
func LocalizeForm(form *model.FormSchema, opts RenderOptions) {
	if form == nil {
		return
	}
	onMissing := opts.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	form.Fields = localizeFields(form.Fields, opts.Locale, opts.Translator, onMissing)
}

// LocalizeContainer applies LocalizeForm to every slot form.
func LocalizeContainer(container *model.ContainerSchema, opts RenderOptions) {
	if container == nil {
		return
	}
	slots := make([]model.SlotView, len(container.Slots))
	copy(slots, container.Slots)
	for i := range slots {
		LocalizeForm(&slots[i].Form, opts)
	}
	container.Slots = slots
}

func localizeFields(fields []model.FieldView, locale string, t Translator, onMissing MissingTranslationHandler) []model.FieldView {
	out := make([]model.FieldView, len(fields))
	copy(out, fields)
	for i := range out {
		field := &out[i]
		if key := field.I18n[I18nLabel]; key != "" {
			field.Label = translate(locale, key, field.Label, t, onMissing)
		}
		if key := field.I18n[I18nPlaceholder]; key != "" {
			field.Placeholder = translate(locale, key, field.Placeholder, t, onMissing)
		}
		if key := field.I18n[I18nHelp]; key != "" {
			field.Help = translate(locale, key, field.Help, t, onMissing)
		}
		if children := field.Meta.Children; children != nil {
			nested := *children
			nested.Fields = localizeFields(children.Fields, locale, t, onMissing)
			field.Meta.Children = &nested
		}
	}
	return out
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}
	args := []any{map[string]any{"default": fallback}}

	if t == nil {
		return onMissing(locale, key, args, ErrMissingTranslator)
	}
	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return onMissing(locale, key, args, err)
}
