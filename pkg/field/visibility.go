package field

import (
	"github.com/goliatone/go-formkit/pkg/visibility"
	"github.com/goliatone/go-formkit/pkg/visibility/expr"
)

// Predicate decides visibility for a viewer. When set it is the final answer
// after the static, permission and role checks.
type Predicate func(principal visibility.Principal) bool

// VisibilityRules configures when a field is shown. The zero value is visible.
type VisibilityRules struct {
	Hidden     bool
	Predicate  Predicate
	ShowIf     []visibility.Condition
	HideIf     []visibility.Condition
	Expression string
	Permission string
	Roles      []string
	// Evaluator overrides the expression evaluator; nil uses expr.New().
	Evaluator visibility.Evaluator
}

var defaultEvaluator visibility.Evaluator = expr.New()

// Allows judges the viewer. Checks run in order and short-circuit on the
// first failure: static flag, permission, roles, predicate. Declarative
// conditions are not consulted; they apply to submitted data through
// Matches.
func (r VisibilityRules) Allows(principal visibility.Principal) bool {
	if r.Hidden {
		return false
	}
	if r.Permission != "" && principal != nil && !principal.Can(r.Permission) {
		return false
	}
	if len(r.Roles) > 0 && principal != nil {
		matched := false
		for _, role := range r.Roles {
			if principal.HasRole(role) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	if r.Predicate != nil {
		return r.Predicate(principal)
	}
	return true
}

// Matches judges submitted data. Every show condition must hold, the hide
// conditions (when present) must not all hold and the expression, when set,
// must evaluate true. Expression errors hide the field.
func (r VisibilityRules) Matches(fieldPath string, data map[string]any) bool {
	if !visibility.All(r.ShowIf, data) {
		return false
	}
	if len(r.HideIf) > 0 && visibility.All(r.HideIf, data) {
		return false
	}
	if r.Expression == "" {
		return true
	}
	evaluator := r.Evaluator
	if evaluator == nil {
		evaluator = defaultEvaluator
	}
	ok, err := evaluator.Eval(fieldPath, r.Expression, visibility.Context{Values: data})
	return err == nil && ok
}

// HasConditions reports whether any data-driven rule is configured.
func (r VisibilityRules) HasConditions() bool {
	return len(r.ShowIf) > 0 || len(r.HideIf) > 0 || r.Expression != ""
}

func (r VisibilityRules) clone() VisibilityRules {
	out := r
	out.ShowIf = append([]visibility.Condition(nil), r.ShowIf...)
	out.HideIf = append([]visibility.Condition(nil), r.HideIf...)
	out.Roles = append([]string(nil), r.Roles...)
	return out
}
