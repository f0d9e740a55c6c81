package visibility

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// NormalizePath converts bracket notation (`address[city]`, `items[0][sku]`)
// into dotted paths (`address.city`, `items.0.sku`).
func NormalizePath(path string) string {
	path = strings.TrimSpace(path)
	if !strings.ContainsAny(path, "[]") {
		return path
	}
	replacer := strings.NewReplacer("][", ".", "[", ".", "]", "")
	return strings.Trim(replacer.Replace(path), ".")
}

// Lookup resolves a dotted (or bracketed) path inside values. Exact keys win
// over traversal so flattened payloads such as {"cta.headline": "Hi"} keep
// working. The boolean reports whether the path resolved.
func Lookup(values map[string]any, path string) (any, bool) {
	path = strings.TrimSpace(path)
	if len(values) == 0 || path == "" {
		return nil, false
	}
	if v, ok := values[path]; ok {
		return v, true
	}

	normalized := NormalizePath(path)
	if v, ok := values[normalized]; ok {
		return v, true
	}

	var current any = values
	for _, part := range strings.Split(normalized, ".") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, false
		}
		switch typed := current.(type) {
		case map[string]any:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		case map[string]string:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		default:
			items, ok := toSlice(current)
			if !ok {
				return nil, false
			}
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(items) {
				return nil, false
			}
			current = items[idx]
		}
	}
	return current, true
}

// Truthy applies loose boolean semantics: empty strings, zero numbers, empty
// collections and the strings "0"/"false" are false.
func Truthy(value any) bool {
	if value == nil {
		return false
	}
	switch v := value.(type) {
	case bool:
		return v
	case string:
		trimmed := strings.TrimSpace(v)
		return trimmed != "" && trimmed != "0" && !strings.EqualFold(trimmed, "false")
	}
	if num, ok := toNumber(value); ok {
		return num != 0
	}
	if items, ok := toSlice(value); ok {
		return len(items) > 0
	}
	if m, ok := value.(map[string]any); ok {
		return len(m) > 0
	}
	return true
}

func toNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

// numeric coerces numbers and numeric strings.
func numeric(value any) (float64, bool) {
	if num, ok := toNumber(value); ok {
		return num, true
	}
	if s, ok := value.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return f, err == nil
	}
	return 0, false
}

func toString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case bool:
		if v {
			return "1"
		}
		return ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(value)
	}
}

func toSlice(value any) ([]any, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = item
		}
		return out, true
	case []byte, string:
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
