package render

import (
	"strings"

	"github.com/goliatone/go-formkit/pkg/model"
)

// FieldSubset selects fields by their layout tags. A field matches when any
// of its group, section or row is listed. Names matches field names exactly.
type FieldSubset struct {
	Groups   []string
	Sections []string
	Rows     []string
	Names    []string
}

// Empty reports whether the subset selects nothing, meaning "all fields".
func (s FieldSubset) Empty() bool {
	return len(s.Groups) == 0 && len(s.Sections) == 0 && len(s.Rows) == 0 && len(s.Names) == 0
}

// ApplySubset removes fields that do not match subset and prunes the
// validation rules, required list and steps that referenced them. Slices and
// maps are replaced rather than edited in place. An empty subset leaves the
// form untouched.
func ApplySubset(form *model.FormSchema, subset FieldSubset) {
	if form == nil || subset.Empty() {
		return
	}

	matcher := subsetMatcher{
		groups:   tokenSet(subset.Groups),
		sections: tokenSet(subset.Sections),
		rows:     tokenSet(subset.Rows),
		names:    make(map[string]struct{}, len(subset.Names)),
	}
	for _, name := range subset.Names {
		if name = strings.TrimSpace(name); name != "" {
			matcher.names[name] = struct{}{}
		}
	}

	kept := make(map[string]struct{}, len(form.Fields))
	filtered := make([]model.FieldView, 0, len(form.Fields))
	for _, field := range form.Fields {
		if matcher.matches(field) {
			filtered = append(filtered, field)
			kept[field.Name] = struct{}{}
		}
	}
	form.Fields = filtered
	form.Meta.FieldCount = len(filtered)

	rules := make(map[string]string, len(form.Validation.Rules))
	for name, rule := range form.Validation.Rules {
		if _, ok := kept[name]; ok {
			rules[name] = rule
		}
	}
	form.Validation.Rules = rules
	form.Meta.RequiredFields = keepNames(form.Meta.RequiredFields, kept)

	var steps []model.Step
	for _, step := range form.Meta.Steps {
		step.Fields = keepNames(step.Fields, kept)
		if len(step.Fields) > 0 {
			steps = append(steps, step)
		}
	}
	form.Meta.Steps = steps
}

type subsetMatcher struct {
	groups   map[string]struct{}
	sections map[string]struct{}
	rows     map[string]struct{}
	names    map[string]struct{}
}

func (m subsetMatcher) matches(field model.FieldView) bool {
	if _, ok := m.names[field.Name]; ok {
		return true
	}
	if hasToken(m.groups, field.Group) || hasToken(m.sections, field.Section) {
		return true
	}
	return hasToken(m.rows, field.Row)
}

func hasToken(set map[string]struct{}, value string) bool {
	token := normaliseToken(value)
	if token == "" || len(set) == 0 {
		return false
	}
	_, ok := set[token]
	return ok
}

func keepNames(names []string, kept map[string]struct{}) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := kept[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

func tokenSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	result := make(map[string]struct{}, len(values))
	for _, value := range values {
		if token := normaliseToken(value); token != "" {
			result[token] = struct{}{}
		}
	}
	return result
}

func normaliseToken(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
