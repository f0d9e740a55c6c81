package validation

import (
	"fmt"
	"strings"
)

// Rule is one parsed segment of a rule string.
type Rule struct {
	Name   string
	Params []string
}

// String renders the rule back into its string form.
func (r Rule) String() string {
	if len(r.Params) == 0 {
		return r.Name
	}
	return r.Name + ":" + strings.Join(r.Params, ",")
}

// Parse splits a pipe separated rule string. Parameters follow a colon and are
// comma separated, except for `regex` whose single parameter is kept verbatim.
// Patterns containing pipes must be registered as custom rules.
func Parse(expression string) ([]Rule, error) {
	var rules []Rule
	for _, segment := range strings.Split(expression, "|") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		name, raw, hasParams := strings.Cut(segment, ":")
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			return nil, fmt.Errorf("%w: empty rule name in %q", ErrInvalidRule, expression)
		}
		rule := Rule{Name: name}
		if hasParams {
			if name == "regex" || name == "not_regex" {
				rule.Params = []string{raw}
			} else {
				for _, param := range strings.Split(raw, ",") {
					rule.Params = append(rule.Params, strings.TrimSpace(param))
				}
			}
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// Has reports whether rules contains name.
func Has(rules []Rule, name string) bool {
	for _, rule := range rules {
		if rule.Name == name {
			return true
		}
	}
	return false
}
