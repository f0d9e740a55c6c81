package validation

import (
	"fmt"
	"sort"
	"strings"
)

// TranslateFunc resolves a translation key such as "validation.required" with
// the given values. Returning "" or the key itself falls back to the built-in
// English templates.
type TranslateFunc func(key string, values map[string]any) string

var defaultMessages = map[string]string{
	"required":    "The {{field}} field is required.",
	"email":       "The {{field}} must be a valid email address.",
	"url":         "The {{field}} must be a valid URL.",
	"uuid":        "The {{field}} must be a valid UUID.",
	"ip":          "The {{field}} must be a valid IP address.",
	"json":        "The {{field}} must be a valid JSON string.",
	"numeric":     "The {{field}} must be a number.",
	"integer":     "The {{field}} must be an integer.",
	"boolean":     "The {{field}} field must be true or false.",
	"string":      "The {{field}} must be a string.",
	"array":       "The {{field}} must be an array.",
	"alpha":       "The {{field}} may only contain letters.",
	"alpha_num":   "The {{field}} may only contain letters and numbers.",
	"alpha_dash":  "The {{field}} may only contain letters, numbers, dashes and underscores.",
	"lowercase":   "The {{field}} must be lowercase.",
	"uppercase":   "The {{field}} must be uppercase.",
	"min.string":  "The {{field}} must be at least {{min}} characters.",
	"min.numeric": "The {{field}} must be at least {{min}}.",
	"min.array":   "The {{field}} must have at least {{min}} items.",
	"max.string":  "The {{field}} may not be greater than {{max}} characters.",
	"max.numeric": "The {{field}} may not be greater than {{max}}.",
	"max.array":   "The {{field}} may not have more than {{max}} items.",
	"between":     "The {{field}} must be between {{min}} and {{max}}.",
	"size":        "The {{field}} must be {{size}}.",
	"digits":      "The {{field}} must be {{digits}} digits.",
	"in":          "The selected {{field}} is invalid.",
	"not_in":      "The selected {{field}} is invalid.",
	"accepted":    "The {{field}} must be accepted.",
	"confirmed":   "The {{field}} confirmation does not match.",
	"same":        "The {{field}} and {{other}} must match.",
	"different":   "The {{field}} and {{other}} must be different.",
	"regex":       "The {{field}} format is invalid.",
	"not_regex":   "The {{field}} format is invalid.",
	"date":        "The {{field}} is not a valid date.",
	"date_format": "The {{field}} does not match the format {{format}}.",
	"starts_with": "The {{field}} must start with one of the following: {{values}}.",
	"ends_with":   "The {{field}} must end with one of the following: {{values}}.",
}

const fallbackMessage = "The {{field}} is invalid."

// interpolate replaces {{key}} tokens with values.
func interpolate(template string, values map[string]any) string {
	if !strings.Contains(template, "{{") {
		return template
	}
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := template
	for _, key := range keys {
		out = strings.ReplaceAll(out, "{{"+key+"}}", fmt.Sprint(values[key]))
	}
	return out
}

// humanize turns a field path into the lower-case attribute name used in
// default messages when no label is supplied.
func humanize(name string) string {
	replacer := strings.NewReplacer("_", " ", ".", " ", "-", " ", "[", " ", "]", "")
	return strings.Join(strings.Fields(replacer.Replace(name)), " ")
}
