package theme

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"sort"
	"strconv"
	"strings"

	gotheme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formkit/pkg/model"
)

// Controls select the markup branch in the field template.
const (
	controlInput    = "input"
	controlTextarea = "textarea"
	controlSelect   = "select"
	controlChoices  = "choices"
	controlCheck    = "check"
	controlHidden   = "hidden"
	controlDivider  = "divider"
	controlFieldset = "fieldset"
)

type optionContext struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	ID       string `json:"id"`
	Selected bool   `json:"selected"`
	Disabled bool   `json:"disabled"`
	Attrs    string `json:"attrs"`
}

type fieldContext struct {
	Name         string          `json:"name"`
	ID           string          `json:"id"`
	Type         string          `json:"type"`
	Control      string          `json:"control"`
	Label        string          `json:"label"`
	Value        string          `json:"value"`
	Placeholder  string          `json:"placeholder"`
	Help         string          `json:"help"`
	HelpHTML     string          `json:"help_html"`
	Required     bool            `json:"required"`
	Attrs        string          `json:"attrs"`
	DataAttrs    string          `json:"data_attrs"`
	WrapperClass string          `json:"wrapper_class"`
	Options      []optionContext `json:"options"`
	Errors       []string        `json:"errors"`
	Children     []string        `json:"children"`

	childViews  []model.FieldView
	childPrefix string
}

type fieldBuilder struct {
	tokens map[string]string
}

func (b fieldBuilder) class(tokens ...string) string {
	var parts []string
	for _, token := range tokens {
		if value := strings.TrimSpace(b.tokens[token]); value != "" {
			parts = append(parts, value)
		}
	}
	return strings.Join(parts, " ")
}

// build prepares the template context of one field. prefix is the submitted
// name of the owning composite field, if any.
func (b fieldBuilder) build(view model.FieldView, prefix string) fieldContext {
	name := view.Name
	if prefix != "" {
		name = prefix + "[" + view.Name + "]"
	}
	fc := fieldContext{
		Name:        name,
		ID:          view.ID,
		Type:        view.Type,
		Control:     controlFor(view),
		Label:       view.Label,
		Value:       stringValue(view.Value),
		Placeholder: view.Placeholder,
		Help:        view.Help,
		HelpHTML:    view.Meta.HelpHTML,
		Required:    view.Required,
		Errors:      view.Meta.Errors,
	}
	if prefix != "" {
		fc.ID = domID(name)
	}
	fc.WrapperClass = joinClasses(b.class("group"), columnClass(b.tokens["col"], view.Width), view.Class)
	if view.Type == "hidden" || view.Type == "divider" {
		fc.WrapperClass = joinClasses(columnClass(b.tokens["col"], view.TotalColumns))
	}
	fc.DataAttrs = dataAttributes(view)

	switch fc.Control {
	case controlFieldset:
		fc.WrapperClass = joinClasses(columnClass(b.tokens["col"], view.TotalColumns), view.Class)
		if view.Meta.Children != nil {
			fc.childViews = view.Meta.Children.Fields
		}
		fc.childPrefix = name
		if view.Type == "repeater" {
			fc.childPrefix = name + "[0]"
		}
	case controlChoices:
		fc.Options = b.choiceOptions(view, fc)
	case controlSelect:
		fc.Options = selectOptions(view)
		fc.Attrs = b.controlAttributes(view, fc, "select")
	case controlCheck:
		fc.Attrs = b.controlAttributes(view, fc, "check_input")
	case controlTextarea:
		fc.Attrs = b.controlAttributes(view, fc, "textarea")
	case controlInput:
		classToken := "input"
		switch view.Type {
		case "file", "image":
			classToken = "file"
		case "range":
			classToken = "range"
		}
		fc.Attrs = b.controlAttributes(view, fc, classToken)
	case controlHidden:
		fc.Attrs = b.controlAttributes(view, fc, "")
	}
	return fc
}

func controlFor(view model.FieldView) string {
	switch view.Type {
	case "hidden":
		return controlHidden
	case "divider":
		return controlDivider
	case "repeater", "group":
		return controlFieldset
	case "textarea", "richtext":
		return controlTextarea
	case "select", "multiselect":
		return controlSelect
	case "radio":
		return controlChoices
	case "checkbox", "toggle":
		if len(view.Options) > 0 {
			return controlChoices
		}
		return controlCheck
	}
	return controlInput
}

func inputType(kind string) string {
	switch kind {
	case "datetime":
		return "datetime-local"
	case "image":
		return "file"
	case "map", "":
		return "text"
	case "toggle":
		return "checkbox"
	}
	return kind
}

func (b fieldBuilder) controlAttributes(view model.FieldView, fc fieldContext, classToken string) string {
	var attrs attrList
	multiple := isTrue(view.Attributes["multiple"])

	switch fc.Control {
	case controlInput, controlHidden, controlCheck:
		attrs.add("type", inputType(view.Type))
	}
	name := fc.Name
	if multiple && (fc.Control == controlSelect || fc.Control == controlInput) {
		name += "[]"
	}
	attrs.add("name", name)
	attrs.add("id", fc.ID)

	class := b.class(classToken)
	if len(view.Meta.Errors) > 0 && fc.Control != controlHidden {
		class = joinClasses(class, b.class("invalid"))
	}
	attrs.add("class", class)

	switch {
	case fc.Control == controlCheck:
		attrs.add("value", "1")
		attrs.add("checked", isTrue(view.Value))
		if view.Type == "toggle" {
			attrs.add("role", "switch")
		}
	case fc.Control == controlInput || fc.Control == controlHidden:
		if view.Type != "password" && view.Type != "file" && view.Type != "image" {
			attrs.add("value", fc.Value)
		}
	}
	if fc.Control == controlTextarea && view.Type == "richtext" {
		attrs.add("data-editor", "richtext")
		if editor := view.Meta.Editor; editor != nil {
			if len(editor.Toolbar) > 0 {
				attrs.add("data-toolbar", strings.Join(editor.Toolbar, ","))
			}
			if editor.Height > 0 {
				attrs.add("data-height", editor.Height)
			}
		}
	}
	if geo := view.Meta.Geo; geo != nil {
		attrs.add("data-lat", geo.Lat)
		attrs.add("data-lng", geo.Lng)
		attrs.add("data-zoom", geo.Zoom)
		attrs.add("data-provider", geo.Provider)
	}
	if fc.Control != controlSelect && fc.Control != controlCheck {
		attrs.add("placeholder", view.Placeholder)
	}
	attrs.add("required", view.Required)
	attrs.add("disabled", view.Disabled)
	attrs.add("readonly", view.Readonly)
	if len(view.Meta.Errors) > 0 {
		attrs.add("aria-invalid", "true")
	}
	attrs.extra(view.Attributes)
	return attrs.String()
}

func selectOptions(view model.FieldView) []optionContext {
	selected := selectedValues(view.Value)
	out := make([]optionContext, 0, len(view.Options))
	for _, option := range view.Options {
		_, isSelected := selected[option.Value]
		out = append(out, optionContext{
			Value:    option.Value,
			Label:    option.Label,
			Selected: isSelected,
			Disabled: option.Disabled,
		})
	}
	return out
}

func (b fieldBuilder) choiceOptions(view model.FieldView, fc fieldContext) []optionContext {
	selected := selectedValues(view.Value)
	kind, name := "radio", fc.Name
	if view.Type != "radio" {
		kind, name = "checkbox", fc.Name+"[]"
	}
	class := b.class("check_input")
	if len(view.Meta.Errors) > 0 {
		class = joinClasses(class, b.class("invalid"))
	}

	out := make([]optionContext, 0, len(view.Options))
	for i, option := range view.Options {
		_, isSelected := selected[option.Value]
		id := fc.ID + "_" + strconv.Itoa(i)
		var attrs attrList
		attrs.add("type", kind)
		attrs.add("name", name)
		attrs.add("id", id)
		attrs.add("class", class)
		attrs.add("value", option.Value)
		attrs.add("checked", isSelected)
		attrs.add("disabled", option.Disabled || view.Disabled)
		attrs.add("required", view.Required && kind == "radio")
		out = append(out, optionContext{
			Value:    option.Value,
			Label:    option.Label,
			ID:       id,
			Selected: isSelected,
			Disabled: option.Disabled,
			Attrs:    attrs.String(),
		})
	}
	return out
}

func selectedValues(value any) map[string]struct{} {
	out := make(map[string]struct{})
	switch v := value.(type) {
	case nil:
	case []string:
		for _, item := range v {
			out[item] = struct{}{}
		}
	case []any:
		for _, item := range v {
			out[stringValue(item)] = struct{}{}
		}
	default:
		out[stringValue(v)] = struct{}{}
	}
	return out
}

// dataAttributes carries the declarative conditions and dependency hints for
// client-side behaviour.
func dataAttributes(view model.FieldView) string {
	var attrs attrList
	if !view.Conditional.Empty() {
		if payload, err := json.Marshal(view.Conditional); err == nil {
			attrs.add("data-conditional", string(payload))
		}
	}
	if deps := view.Meta.Dependencies; deps != nil {
		attrs.add("data-depends-on", deps.DependsOn)
		attrs.add("data-loading-text", deps.LoadingText)
		attrs.add("data-confirm", deps.ConfirmMessage)
		attrs.add("data-track-changes", deps.TrackChanges)
	}
	if children := view.Meta.Children; children != nil && view.Type == "repeater" {
		if children.MinItems > 0 {
			attrs.add("data-min-items", children.MinItems)
		}
		if children.MaxItems > 0 {
			attrs.add("data-max-items", children.MaxItems)
		}
	}
	return attrs.String()
}

func formAttributes(form model.FormSchema, method string, theme *gotheme.RendererConfig) string {
	var attrs attrList
	attrs.add("action", form.Config.Action)
	if method == http.MethodGet {
		attrs.add("method", "get")
	} else {
		attrs.add("method", "post")
	}
	enctype := form.Config.Enctype
	if method != http.MethodGet && method != http.MethodPost {
		enctype = "multipart/form-data"
	}
	attrs.add("enctype", enctype)
	attrs.add("class", joinClasses("formkit-form", theme.Tokens["form"]))
	attrs.add("data-framework", theme.Theme)
	attrs.add("data-variant", theme.Variant)
	attrs.add("data-ajax", form.Config.AJAX)
	attrs.add("data-multi-step", form.Config.MultiStep)
	attrs.add("style", cssVars(theme.CSSVars))
	attrs.extra(form.Config.Attributes)
	return attrs.String()
}

func cssVars(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";")
	}
	return b.String()
}

type attr struct {
	name  string
	value string
	bare  bool
}

// attrList assembles pre-escaped HTML attributes. Empty strings and false
// booleans are dropped; true booleans render bare.
type attrList struct {
	items []attr
	seen  map[string]struct{}
}

func (l *attrList) add(name string, value any) {
	if l.seen == nil {
		l.seen = make(map[string]struct{})
	}
	if _, dup := l.seen[name]; dup {
		return
	}
	switch v := value.(type) {
	case nil:
		return
	case bool:
		if !v {
			return
		}
		l.items = append(l.items, attr{name: name, bare: true})
	default:
		s := stringValue(v)
		if s == "" {
			return
		}
		l.items = append(l.items, attr{name: name, value: s})
	}
	l.seen[name] = struct{}{}
}

// extra appends free attributes in key order. Names already set win.
func (l *attrList) extra(values map[string]any) {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if key == "" || strings.ContainsAny(key, " \"'<>=/") {
			continue
		}
		l.add(key, values[key])
	}
}

func (l attrList) String() string {
	var b strings.Builder
	for _, item := range l.items {
		b.WriteByte(' ')
		b.WriteString(item.name)
		if item.bare {
			continue
		}
		b.WriteString(`="`)
		b.WriteString(escape(item.value))
		b.WriteByte('"')
	}
	return b.String()
}

func escape(value string) string { return html.EscapeString(value) }

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case []string:
		return strings.Join(v, ",")
	}
	return fmt.Sprint(value)
}

func isTrue(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "on", "yes":
			return true
		}
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	}
	return false
}

func columnClass(pattern string, width int) string {
	if pattern == "" || width <= 0 {
		return ""
	}
	return strings.ReplaceAll(pattern, "{width}", strconv.Itoa(width))
}

func joinClasses(classes ...string) string {
	var parts []string
	for _, class := range classes {
		if class = strings.TrimSpace(class); class != "" {
			parts = append(parts, class)
		}
	}
	return strings.Join(parts, " ")
}

var domReplacer = strings.NewReplacer("[", "_", "]", "", ".", "_", " ", "_")

func domID(value string) string { return domReplacer.Replace(value) }
