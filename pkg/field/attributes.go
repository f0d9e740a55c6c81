package field

import (
	"sort"
	"strings"
)

// Attributes is the open HTML-attribute bag of a field plus its class token
// list. The zero value is ready to use.
type Attributes struct {
	values  map[string]any
	classes []string
}

// Set stores an attribute. The "class" key merges tokens instead.
func (a *Attributes) Set(key string, value any) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}
	if key == "class" {
		if s, ok := value.(string); ok {
			a.MergeClass(s)
			return
		}
	}
	if a.values == nil {
		a.values = make(map[string]any)
	}
	a.values[key] = value
}

// Get returns an attribute value.
func (a *Attributes) Get(key string) (any, bool) {
	value, ok := a.values[key]
	return value, ok
}

// String returns an attribute rendered as a string, or "" when absent.
func (a *Attributes) String(key string) string {
	value, ok := a.values[key]
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return stringify(value)
}

// Bool reports whether an attribute is set to a truthy value. Boolean HTML
// attributes such as `multiple` are commonly stored as true or as their own
// name.
func (a *Attributes) Bool(key string) bool {
	value, ok := a.values[key]
	if !ok {
		return false
	}
	switch v := value.(type) {
	case bool:
		return v
	case string:
		v = strings.TrimSpace(strings.ToLower(v))
		return v != "" && v != "false" && v != "0"
	default:
		return value != nil
	}
}

// Delete removes an attribute.
func (a *Attributes) Delete(key string) {
	delete(a.values, key)
}

// Len reports the number of stored attributes, excluding classes.
func (a *Attributes) Len() int { return len(a.values) }

// Keys returns attribute keys in sorted order.
func (a *Attributes) Keys() []string {
	keys := make([]string, 0, len(a.values))
	for key := range a.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// All returns a copy of the attribute bag.
func (a *Attributes) All() map[string]any {
	if len(a.values) == 0 {
		return nil
	}
	out := make(map[string]any, len(a.values))
	for key, value := range a.values {
		out[key] = value
	}
	return out
}

// MergeClass appends whitespace separated class tokens, skipping duplicates.
func (a *Attributes) MergeClass(tokens ...string) {
	for _, group := range tokens {
		for _, token := range strings.Fields(group) {
			if !a.HasClass(token) {
				a.classes = append(a.classes, token)
			}
		}
	}
}

// HasClass reports whether token is part of the class list.
func (a *Attributes) HasClass(token string) bool {
	for _, existing := range a.classes {
		if existing == token {
			return true
		}
	}
	return false
}

// Class joins the class tokens.
func (a *Attributes) Class() string {
	return strings.Join(a.classes, " ")
}

// Min returns the `min` attribute.
func (a *Attributes) Min() (any, bool) { return a.Get("min") }

// Max returns the `max` attribute.
func (a *Attributes) Max() (any, bool) { return a.Get("max") }

// Accept returns the `accept` attribute.
func (a *Attributes) Accept() string { return a.String("accept") }

// Multiple reports whether the `multiple` attribute is set.
func (a *Attributes) Multiple() bool { return a.Bool("multiple") }

func (a Attributes) clone() Attributes {
	out := Attributes{values: a.All()}
	if len(a.classes) > 0 {
		out.classes = append([]string(nil), a.classes...)
	}
	return out
}
