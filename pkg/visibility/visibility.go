package visibility

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// NoPrincipal is the fingerprint used when no viewer is supplied.
const NoPrincipal = "no_user"

// Principal describes the viewer a form is rendered for. Hosts adapt their
// user/session types to this contract so permission and role checks stay
// outside the form model.
type Principal interface {
	// Identifier returns a stable identity for the viewer. It feeds cache
	// fingerprints, so two principals sharing an identifier share cache
	// entries.
	Identifier() string
	Can(permission string) bool
	HasRole(role string) bool
}

// Evaluator determines whether a field should be visible based on a rule
// string and a data context.
type Evaluator interface {
	Eval(fieldPath, rule string, ctx Context) (bool, error)
}

// Context provides inputs to an Evaluator. Values typically holds submitted or
// prefilled data while Extras allows callers to inject arbitrary context such
// as feature flags.
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(fieldPath, rule string, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(fieldPath, rule string, ctx Context) (bool, error) {
	return fn(fieldPath, rule, ctx)
}

// User is a static Principal implementation, handy for tests and for hosts
// that resolve permissions up front.
type User struct {
	ID          string
	Permissions []string
	Roles       []string
}

// Identifier implements Principal.
func (u User) Identifier() string { return u.ID }

// Can implements Principal.
func (u User) Can(permission string) bool {
	return containsFold(u.Permissions, permission)
}

// HasRole implements Principal.
func (u User) HasRole(role string) bool {
	return containsFold(u.Roles, role)
}

// Fingerprint returns a short hash identifying the viewer, or NoPrincipal when
// principal is nil.
func Fingerprint(principal Principal) string {
	if principal == nil {
		return NoPrincipal
	}
	return Hash(principal.Identifier())
}

// Hash returns the hex xxhash of the joined parts.
func Hash(parts ...string) string {
	sum := xxhash.Sum64String(strings.Join(parts, "\x1f"))
	return strconv.FormatUint(sum, 16)
}

func containsFold(values []string, needle string) bool {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return false
	}
	for _, value := range values {
		if strings.EqualFold(strings.TrimSpace(value), needle) {
			return true
		}
	}
	return false
}
