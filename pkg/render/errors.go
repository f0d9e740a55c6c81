package render

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formkit/pkg/model"
)

// ErrorMapping splits a server error payload into field-level and form-level
// messages keyed by the dotted field paths of the form schema.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MergeFormErrors concatenates form-level messages, trimming whitespace and
// dropping duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrors normalises server error payloads (JSON pointer paths, bracket
// notation, request wrappers such as "body" or "data") into the field paths
// known to form. Paths that match no field become form-level errors so
// messages are not lost.
func MapErrors(form model.FormSchema, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{}
	if len(payload) == 0 {
		return mapping
	}

	known := make(map[string]struct{})
	collectFieldPaths(form.Fields, "", known)

	for raw, messages := range payload {
		messages = normalizeMessages(messages)
		if len(messages) == 0 {
			continue
		}
		path, ok := resolveErrorPath(raw, known)
		if !ok {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		if mapping.Fields == nil {
			mapping.Fields = make(map[string][]string)
		}
		mapping.Fields[path] = append(mapping.Fields[path], messages...)
	}

	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

// ApplyErrors copies field messages into the error metadata of the matching
// field views, descending into repeater and group children. Field slices are
// copied so schemas shared with a cache are left untouched.
func ApplyErrors(form *model.FormSchema, errors map[string][]string) {
	if form == nil || len(errors) == 0 {
		return
	}
	form.Fields = withFieldErrors(form.Fields, "", errors)
}

func withFieldErrors(fields []model.FieldView, prefix string, errors map[string][]string) []model.FieldView {
	out := make([]model.FieldView, len(fields))
	copy(out, fields)
	for i := range out {
		path := joinPath(prefix, out[i].Name)
		if messages := normalizeMessages(errors[path]); len(messages) > 0 {
			out[i].Meta.Errors = MergeFormErrors(out[i].Meta.Errors, messages...)
			out[i].Meta.HasErrors = true
		}
		if children := out[i].Meta.Children; children != nil {
			nested := *children
			nested.Fields = withFieldErrors(children.Fields, path, errors)
			out[i].Meta.Children = &nested
		}
	}
	return out
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func resolveErrorPath(raw string, known map[string]struct{}) (string, bool) {
	if isFormLevelKey(raw) {
		return "", false
	}
	segments := splitErrorPath(raw)
	if len(segments) == 0 {
		return "", false
	}

	best := ""
	for _, candidate := range pathCandidates(segments) {
		match := longestKnownPrefix(candidate, known)
		if match != "" && (best == "" || strings.Count(match, ".") > strings.Count(best, ".")) {
			best = match
		}
	}
	return best, best != ""
}

func splitErrorPath(path string) []string {
	clean := strings.TrimLeft(strings.TrimSpace(path), "#$/.")
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		out = append(out, part)
	}
	return out
}

// pathCandidates returns the raw segments plus variants without request
// wrappers and without numeric indexes.
func pathCandidates(segments []string) [][]string {
	unwrapped := segments
	for len(unwrapped) > 0 && isWrapperSegment(unwrapped[0]) {
		unwrapped = unwrapped[1:]
	}
	return [][]string{
		segments,
		unwrapped,
		withoutIndexes(segments),
		withoutIndexes(unwrapped),
	}
}

func isWrapperSegment(segment string) bool {
	switch strings.ToLower(segment) {
	case "body", "request", "payload", "data", "attributes":
		return true
	}
	return false
}

func withoutIndexes(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		out = append(out, segment)
	}
	return out
}

func longestKnownPrefix(segments []string, known map[string]struct{}) string {
	for end := len(segments); end > 0; end-- {
		candidate := strings.Join(segments[:end], ".")
		if _, ok := known[candidate]; ok {
			return candidate
		}
	}
	return ""
}

func collectFieldPaths(fields []model.FieldView, prefix string, dest map[string]struct{}) {
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		path := joinPath(prefix, name)
		dest[path] = struct{}{}
		if field.Meta.Children != nil {
			collectFieldPaths(field.Meta.Children.Fields, path, dest)
		}
	}
}

func joinPath(parent, child string) string {
	switch {
	case parent == "":
		return child
	case child == "":
		return parent
	}
	return parent + "." + child
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	}
	return false
}
