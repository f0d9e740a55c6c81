package visibility

import (
	"strings"
)

// Operator identifies a declarative comparison.
type Operator string

const (
	OpEquals       Operator = "="
	OpLooseEquals  Operator = "=="
	OpStrictEquals Operator = "==="
	OpNotEquals    Operator = "!="
	OpStrictNot    Operator = "!=="
	OpGreater      Operator = ">"
	OpGreaterEq    Operator = ">="
	OpLess         Operator = "<"
	OpLessEq       Operator = "<="
	OpIn           Operator = "in"
	OpNotIn        Operator = "not_in"
	OpContains     Operator = "contains"
	OpStartsWith   Operator = "starts_with"
	OpEndsWith     Operator = "ends_with"
)

var knownOperators = map[Operator]struct{}{
	OpEquals: {}, OpLooseEquals: {}, OpStrictEquals: {}, OpNotEquals: {},
	OpStrictNot: {}, OpGreater: {}, OpGreaterEq: {}, OpLess: {}, OpLessEq: {},
	OpIn: {}, OpNotIn: {}, OpContains: {}, OpStartsWith: {}, OpEndsWith: {},
}

// Condition is a declarative {field, operator, value} triple evaluated against
// a data context.
type Condition struct {
	Field    string   `json:"field" yaml:"field"`
	Operator Operator `json:"operator" yaml:"operator"`
	Value    any      `json:"value" yaml:"value"`
}

// When builds a Condition.
func When(field string, op Operator, value any) Condition {
	return Condition{Field: field, Operator: op, Value: value}
}

// IsKnownOperator reports whether op participates in the operator set.
func IsKnownOperator(op Operator) bool {
	_, ok := knownOperators[Operator(strings.ToLower(strings.TrimSpace(string(op))))]
	return ok
}

// Evaluate resolves the condition field inside data and compares it. Missing
// paths resolve to nil; unknown operators evaluate to false.
func (c Condition) Evaluate(data map[string]any) bool {
	actual, _ := Lookup(data, c.Field)
	return Compare(actual, c.Operator, c.Value)
}

// All reports whether every condition holds. An empty list holds.
func All(conditions []Condition, data map[string]any) bool {
	for _, condition := range conditions {
		if !condition.Evaluate(data) {
			return false
		}
	}
	return true
}

// Compare applies op to actual and expected.
func Compare(actual any, op Operator, expected any) bool {
	switch Operator(strings.ToLower(strings.TrimSpace(string(op)))) {
	case OpEquals, OpLooseEquals:
		return looseEqual(actual, expected)
	case OpStrictEquals:
		return strictEqual(actual, expected)
	case OpNotEquals:
		return !looseEqual(actual, expected)
	case OpStrictNot:
		return !strictEqual(actual, expected)
	case OpGreater:
		return ordered(actual, expected, func(cmp int) bool { return cmp > 0 })
	case OpGreaterEq:
		return ordered(actual, expected, func(cmp int) bool { return cmp >= 0 })
	case OpLess:
		return ordered(actual, expected, func(cmp int) bool { return cmp < 0 })
	case OpLessEq:
		return ordered(actual, expected, func(cmp int) bool { return cmp <= 0 })
	case OpIn:
		return in(actual, expected)
	case OpNotIn:
		return !in(actual, expected)
	case OpContains:
		return contains(actual, expected)
	case OpStartsWith:
		if actual == nil {
			return false
		}
		return strings.HasPrefix(toString(actual), toString(expected))
	case OpEndsWith:
		if actual == nil {
			return false
		}
		return strings.HasSuffix(toString(actual), toString(expected))
	default:
		return false
	}
}

func looseEqual(actual, expected any) bool {
	if actual == nil || expected == nil {
		return actual == nil && expected == nil
	}
	if a, ok := actual.(bool); ok {
		return a == Truthy(expected)
	}
	if e, ok := expected.(bool); ok {
		return e == Truthy(actual)
	}
	if a, ok := numeric(actual); ok {
		if e, ok := numeric(expected); ok {
			return a == e
		}
	}
	return toString(actual) == toString(expected)
}

func strictEqual(actual, expected any) bool {
	if actual == nil || expected == nil {
		return actual == nil && expected == nil
	}
	switch a := actual.(type) {
	case string:
		e, ok := expected.(string)
		return ok && a == e
	case bool:
		e, ok := expected.(bool)
		return ok && a == e
	}
	a, aok := toNumber(actual)
	e, eok := toNumber(expected)
	if aok || eok {
		return aok && eok && isInteger(actual) == isInteger(expected) && a == e
	}
	return toString(actual) == toString(expected)
}

func isInteger(value any) bool {
	switch value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	default:
		return false
	}
}

func ordered(actual, expected any, accept func(int) bool) bool {
	if actual == nil || expected == nil {
		return false
	}
	if a, ok := numeric(actual); ok {
		if e, ok := numeric(expected); ok {
			switch {
			case a < e:
				return accept(-1)
			case a > e:
				return accept(1)
			default:
				return accept(0)
			}
		}
	}
	return accept(strings.Compare(toString(actual), toString(expected)))
}

func in(actual, expected any) bool {
	if actual == nil {
		return false
	}
	haystack, ok := toSlice(expected)
	if !ok {
		if s, isString := expected.(string); isString {
			for _, part := range strings.Split(s, ",") {
				haystack = append(haystack, strings.TrimSpace(part))
			}
		} else {
			haystack = []any{expected}
		}
	}
	if items, ok := toSlice(actual); ok {
		for _, item := range items {
			if member(item, haystack) {
				return true
			}
		}
		return false
	}
	return member(actual, haystack)
}

func member(needle any, haystack []any) bool {
	for _, candidate := range haystack {
		if looseEqual(needle, candidate) {
			return true
		}
	}
	return false
}

func contains(actual, expected any) bool {
	if actual == nil {
		return false
	}
	if items, ok := toSlice(actual); ok {
		return member(expected, items)
	}
	return strings.Contains(toString(actual), toString(expected))
}
