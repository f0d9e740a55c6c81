package field

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/visibility"
)

// Options configures a field from a loosely typed map, as produced by YAML or
// JSON definitions. Recognised keys get typed treatment; every other key is
// stored in the attribute bag.
type Options map[string]any

// Keys that Apply handles explicitly.
const (
	OptLabel        = "label"
	OptPlaceholder  = "placeholder"
	OptHelp         = "help"
	OptTooltip      = "tooltip"
	OptExample      = "example"
	OptValue        = "value"
	OptDefault      = "default"
	OptRequired     = "required"
	OptValidation   = "validation"
	OptRules        = "rules"
	OptRequiredWhen = "required_when"
	OptMessages     = "messages"
	OptWidth        = "width"
	OptRow          = "row"
	OptGroup        = "group"
	OptSection      = "section"
	OptColumns      = "columns"
	OptStep         = "step"
	OptStepTitle    = "step_title"
	OptClass        = "class"
	OptID           = "id"
	OptDisabled     = "disabled"
	OptReadonly     = "readonly"
	OptOptions      = "options"
	OptMultiple     = "multiple"
	OptAccept       = "accept"
	OptMaxSize      = "max_size"
	OptMin          = "min"
	OptMax          = "max"
	OptStepSize     = "step_size"
	OptFormat       = "format"
	OptToolbar      = "toolbar"
	OptHeight       = "height"
	OptSanitize     = "sanitize"
	OptLat          = "lat"
	OptLng          = "lng"
	OptZoom         = "zoom"
	OptProvider     = "provider"
	OptMinItems     = "min_items"
	OptMaxItems     = "max_items"
	OptDependsOn    = "depends_on"
	OptLoadingText  = "loading_text"
	OptConfirm      = "confirm"
	OptTrackChanges = "track_changes"
	OptPermission   = "permission"
	OptRoles        = "roles"
	OptVisible      = "visible"
	OptShowIf       = "show_if"
	OptHideIf       = "hide_if"
	OptExpression   = "visibility_expr"

	OptLabelKey       = "label_key"
	OptPlaceholderKey = "placeholder_key"
	OptHelpKey        = "help_key"
)

// Apply configures f from opts. Keys are applied in sorted order so results
// are deterministic. Unrecognised keys land in the attribute bag.
func (f *Field) Apply(opts Options) error {
	keys := make([]string, 0, len(opts))
	for key := range opts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := f.applyOption(key, opts[key]); err != nil {
			return err
		}
	}
	return nil
}

func (f *Field) applyOption(key string, raw any) error {
	switch key {
	case OptLabel:
		f.label = stringify(raw)
	case OptPlaceholder:
		f.placeholder = stringify(raw)
	case OptHelp:
		f.help = stringify(raw)
	case OptLabelKey:
		f.SetTranslationKey("label", stringify(raw))
	case OptPlaceholderKey:
		f.SetTranslationKey("placeholder", stringify(raw))
	case OptHelpKey:
		f.SetTranslationKey("help", stringify(raw))
	case OptTooltip:
		f.tooltip = stringify(raw)
	case OptExample:
		f.example = stringify(raw)
	case OptValue, OptDefault:
		f.value = raw
	case OptRequired:
		return assignBool(key, raw, &f.Validation.Required)
	case OptValidation, OptRules:
		f.SetRules(stringify(raw))
	case OptRequiredWhen:
		conditions, err := toConditions(key, raw)
		if err != nil {
			return err
		}
		f.Validation.RequiredConditions = conditions
	case OptMessages:
		messages, err := toStringMap(key, raw)
		if err != nil {
			return err
		}
		for rule, message := range messages {
			f.SetMessage(rule, message)
		}
	case OptWidth:
		return assignInt(key, raw, &f.Layout.Width)
	case OptRow:
		f.Layout.Row = stringify(raw)
	case OptGroup:
		f.Layout.Group = stringify(raw)
	case OptSection:
		f.Layout.Section = stringify(raw)
	case OptColumns:
		return assignInt(key, raw, &f.Layout.Columns)
	case OptStep:
		return assignInt(key, raw, &f.Layout.Step)
	case OptStepTitle:
		f.Layout.StepTitle = stringify(raw)
	case OptClass:
		f.Attrs.MergeClass(stringify(raw))
	case OptID:
		f.Attrs.Set("id", stringify(raw))
	case OptDisabled:
		return assignBool(key, raw, &f.disabled)
	case OptReadonly:
		return assignBool(key, raw, &f.readonly)
	case OptOptions:
		options, err := toChoiceOptions(key, raw)
		if err != nil {
			return err
		}
		f.Choices.Options = options
	case OptMultiple:
		var multiple bool
		if err := assignBool(key, raw, &multiple); err != nil {
			return err
		}
		switch {
		case IsChoice(f.kind):
			f.Choices.Multiple = multiple
		case IsUpload(f.kind):
			f.Upload.Multiple = multiple
		default:
			f.Attrs.Set(key, multiple)
		}
	case OptAccept:
		if IsUpload(f.kind) {
			f.Upload.Accept = stringify(raw)
		} else {
			f.Attrs.Set(key, stringify(raw))
		}
	case OptMaxSize:
		return assignInt(key, raw, &f.Upload.MaxSize)
	case OptMin, OptMax, OptStepSize:
		return f.applyBound(key, raw)
	case OptFormat:
		if IsTemporal(f.kind) {
			f.Temporal.Format = stringify(raw)
		} else {
			f.Attrs.Set(key, raw)
		}
	case OptToolbar:
		toolbar, err := toStrings(key, raw)
		if err != nil {
			return err
		}
		f.Editor.Toolbar = toolbar
	case OptHeight:
		return assignInt(key, raw, &f.Editor.Height)
	case OptSanitize:
		return assignBool(key, raw, &f.Editor.Sanitize)
	case OptLat:
		return assignFloat(key, raw, &f.Geo.Lat)
	case OptLng:
		return assignFloat(key, raw, &f.Geo.Lng)
	case OptZoom:
		return assignInt(key, raw, &f.Geo.Zoom)
	case OptProvider:
		f.Geo.Provider = stringify(raw)
	case OptMinItems, OptMaxItems:
		if f.Children == nil {
			f.Attrs.Set(key, raw)
			return nil
		}
		if key == OptMinItems {
			return assignInt(key, raw, &f.Children.MinItems)
		}
		return assignInt(key, raw, &f.Children.MaxItems)
	case OptDependsOn:
		f.Dependencies.DependsOn = stringify(raw)
	case OptLoadingText:
		f.Dependencies.LoadingText = stringify(raw)
	case OptConfirm:
		f.Dependencies.ConfirmMessage = stringify(raw)
	case OptTrackChanges:
		return assignBool(key, raw, &f.Dependencies.TrackChanges)
	case OptPermission:
		f.Visibility.Permission = stringify(raw)
	case OptRoles:
		roles, err := toStrings(key, raw)
		if err != nil {
			return err
		}
		f.Visibility.Roles = roles
	case OptVisible:
		var visible bool
		if err := assignBool(key, raw, &visible); err != nil {
			return err
		}
		f.Visibility.Hidden = !visible
	case OptShowIf, OptHideIf:
		conditions, err := toConditions(key, raw)
		if err != nil {
			return err
		}
		if key == OptShowIf {
			f.Visibility.ShowIf = conditions
		} else {
			f.Visibility.HideIf = conditions
		}
	case OptExpression:
		f.SetExpression(stringify(raw))
	default:
		f.Attrs.Set(key, raw)
	}
	return nil
}

func (f *Field) applyBound(key string, raw any) error {
	switch {
	case IsNumeric(f.kind):
		value, err := toFloat(key, raw)
		if err != nil {
			return err
		}
		switch key {
		case OptMin:
			f.Numeric.Min = &value
		case OptMax:
			f.Numeric.Max = &value
		default:
			f.Numeric.Step = &value
		}
	case IsTemporal(f.kind) && key != OptStepSize:
		if key == OptMin {
			f.Temporal.Min = stringify(raw)
		} else {
			f.Temporal.Max = stringify(raw)
		}
	case key == OptStepSize:
		f.Attrs.Set("step", raw)
	default:
		f.Attrs.Set(key, raw)
	}
	return nil
}

func invalid(key string, want string, raw any) error {
	return fmt.Errorf("%w %q: expected %s, got %T", ErrInvalidOption, key, want, raw)
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func assignBool(key string, raw any, dst *bool) error {
	switch v := raw.(type) {
	case bool:
		*dst = v
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return invalid(key, "boolean", raw)
		}
		*dst = parsed
	case int:
		*dst = v != 0
	case float64:
		*dst = v != 0
	case nil:
		*dst = false
	default:
		return invalid(key, "boolean", raw)
	}
	return nil
}

func assignInt(key string, raw any, dst *int) error {
	value, err := toFloat(key, raw)
	if err != nil || value != float64(int(value)) {
		return invalid(key, "integer", raw)
	}
	*dst = int(value)
	return nil
}

func assignFloat(key string, raw any, dst *float64) error {
	value, err := toFloat(key, raw)
	if err != nil {
		return err
	}
	*dst = value
	return nil
}

func toFloat(key string, raw any) (float64, error) {
	switch v := raw.(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, invalid(key, "number", raw)
		}
		return parsed, nil
	default:
		return 0, invalid(key, "number", raw)
	}
}

func toStrings(key string, raw any) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		var out []string
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, nil
	case []string:
		return append([]string(nil), v...), nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, stringify(item))
		}
		return out, nil
	default:
		return nil, invalid(key, "list of strings", raw)
	}
}

func toStringMap(key string, raw any) (map[string]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case map[string]string:
		return v, nil
	case map[string]any:
		out := make(map[string]string, len(v))
		for k, item := range v {
			out[k] = stringify(item)
		}
		return out, nil
	default:
		return nil, invalid(key, "map of strings", raw)
	}
}

// toChoiceOptions accepts []model.Option, []string (value doubles as label),
// map[string]string / map[string]any (value -> label, sorted by value) and
// []any of strings or {value, label, disabled, group} maps.
func toChoiceOptions(key string, raw any) ([]model.Option, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []model.Option:
		return append([]model.Option(nil), v...), nil
	case []string:
		out := make([]model.Option, 0, len(v))
		for _, item := range v {
			out = append(out, model.Option{Value: item, Label: item})
		}
		return out, nil
	case map[string]string:
		out := make([]model.Option, 0, len(v))
		for value, label := range v {
			out = append(out, model.Option{Value: value, Label: label})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
		return out, nil
	case map[string]any:
		out := make([]model.Option, 0, len(v))
		for value, label := range v {
			out = append(out, model.Option{Value: value, Label: stringify(label)})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
		return out, nil
	case []any:
		out := make([]model.Option, 0, len(v))
		for _, item := range v {
			switch entry := item.(type) {
			case map[string]any:
				option := model.Option{
					Value: stringify(entry["value"]),
					Label: stringify(entry["label"]),
					Group: stringify(entry["group"]),
				}
				if option.Label == "" {
					option.Label = option.Value
				}
				if disabled, ok := entry["disabled"].(bool); ok {
					option.Disabled = disabled
				}
				out = append(out, option)
			default:
				value := stringify(entry)
				out = append(out, model.Option{Value: value, Label: value})
			}
		}
		return out, nil
	default:
		return nil, invalid(key, "list of options", raw)
	}
}

// toConditions accepts []visibility.Condition, a single Condition, []any of
// {field, operator, value} maps or [field, operator, value] triples, and the
// map shorthand {field: value} meaning equality.
func toConditions(key string, raw any) ([]visibility.Condition, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case visibility.Condition:
		return []visibility.Condition{v}, nil
	case []visibility.Condition:
		return append([]visibility.Condition(nil), v...), nil
	case map[string]any:
		if _, ok := v["field"]; ok {
			condition, err := conditionFromMap(key, v)
			if err != nil {
				return nil, err
			}
			return []visibility.Condition{condition}, nil
		}
		names := make([]string, 0, len(v))
		for name := range v {
			names = append(names, name)
		}
		sort.Strings(names)
		out := make([]visibility.Condition, 0, len(names))
		for _, name := range names {
			out = append(out, visibility.When(name, visibility.OpEquals, v[name]))
		}
		return out, nil
	case []any:
		out := make([]visibility.Condition, 0, len(v))
		for _, item := range v {
			switch entry := item.(type) {
			case map[string]any:
				condition, err := conditionFromMap(key, entry)
				if err != nil {
					return nil, err
				}
				out = append(out, condition)
			case []any:
				if len(entry) != 3 {
					return nil, invalid(key, "[field, operator, value] triple", item)
				}
				out = append(out, visibility.When(stringify(entry[0]), visibility.Operator(stringify(entry[1])), entry[2]))
			default:
				return nil, invalid(key, "condition", item)
			}
		}
		return out, nil
	default:
		return nil, invalid(key, "list of conditions", raw)
	}
}

func conditionFromMap(key string, entry map[string]any) (visibility.Condition, error) {
	name := stringify(entry["field"])
	if name == "" {
		return visibility.Condition{}, invalid(key, "condition with a field", entry)
	}
	op := stringify(entry["operator"])
	if op == "" {
		op = string(visibility.OpEquals)
	}
	return visibility.When(name, visibility.Operator(op), entry["value"]), nil
}
