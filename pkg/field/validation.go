package field

import (
	"strings"

	"github.com/goliatone/go-formkit/pkg/visibility"
)

// Validation holds the constraint metadata of a field. Rules is an opaque
// rule-expression string (`required|email|max:255`) interpreted by the
// validator, never by the field.
type Validation struct {
	Required           bool
	Rules              string
	RequiredConditions []visibility.Condition
	Messages           map[string]string
}

// RuleNames returns the rule identifiers of Rules, without parameters.
func (v Validation) RuleNames() []string {
	var names []string
	for _, segment := range strings.Split(v.Rules, "|") {
		name, _, _ := strings.Cut(strings.TrimSpace(segment), ":")
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// HasRule reports whether Rules contains the rule identifier.
func (v Validation) HasRule(rule string) bool {
	for _, name := range v.RuleNames() {
		if strings.EqualFold(name, rule) {
			return true
		}
	}
	return false
}

// EffectiveRules returns Rules with `required` prefixed when the required flag
// is set and the rule string does not already carry it.
func (v Validation) EffectiveRules() string {
	rules := strings.Trim(strings.TrimSpace(v.Rules), "|")
	if !v.Required || v.HasRule("required") {
		return rules
	}
	if rules == "" {
		return "required"
	}
	return "required|" + rules
}

// IsRequiredFor reports whether the field is required against data: either
// statically, or because every required condition holds.
func (v Validation) IsRequiredFor(data map[string]any) bool {
	if v.Required {
		return true
	}
	if len(v.RequiredConditions) == 0 {
		return false
	}
	return visibility.All(v.RequiredConditions, data)
}

func (v Validation) clone() Validation {
	out := v
	if len(v.RequiredConditions) > 0 {
		out.RequiredConditions = append([]visibility.Condition(nil), v.RequiredConditions...)
	}
	if len(v.Messages) > 0 {
		out.Messages = make(map[string]string, len(v.Messages))
		for key, value := range v.Messages {
			out.Messages[key] = value
		}
	}
	return out
}
