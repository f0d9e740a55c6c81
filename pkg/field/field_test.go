package field_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/visibility"
)

func TestFieldIDIsDOMSafe(t *testing.T) {
	t.Parallel()

	f := field.New("items[0][sku]", field.KindText)
	if got := f.ID(); got != "items_0_sku" {
		t.Fatalf("expected items_0_sku, got %q", got)
	}
	if f.ID() != f.ID() {
		t.Fatalf("expected ID to be stable across calls")
	}

	f.SetAttribute("id", "custom-sku")
	if got := f.ID(); got != "custom-sku" {
		t.Fatalf("expected explicit id attribute to win, got %q", got)
	}
}

func TestFieldDefaultLabel(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"first_name":      "First Name",
		"emailAddress":    "Email Address",
		"billing-address": "Billing Address",
		"address[city]":   "Address City",
		"line2":           "Line 2",
		"":                "",
	}
	for name, want := range cases {
		if got := field.New(name, field.KindText).Label(); got != want {
			t.Fatalf("label for %q: expected %q, got %q", name, want, got)
		}
	}

	f := field.New("first_name", field.KindText).SetLabel("Given name")
	if got := f.Label(); got != "Given name" {
		t.Fatalf("expected explicit label, got %q", got)
	}
}

func TestHideOverridesEveryOtherRule(t *testing.T) {
	t.Parallel()

	admin := visibility.User{ID: "1", Permissions: []string{"posts.edit"}, Roles: []string{"admin"}}
	f := field.New("title", field.KindText).
		RequirePermission("posts.edit").
		RequireRoles("admin").
		VisibleWhen(func(visibility.Principal) bool { return true }).
		ShowIf(visibility.When("status", visibility.OpEquals, "draft"))

	if !f.IsVisible(admin) {
		t.Fatalf("expected field to be visible before Hide")
	}

	f.Hide()
	if f.IsVisible(admin) {
		t.Fatalf("expected hidden field to stay invisible")
	}
	if f.IsVisible(nil) {
		t.Fatalf("expected hidden field to stay invisible without a principal")
	}
}

func TestIsVisiblePermissionAndRoles(t *testing.T) {
	t.Parallel()

	editor := visibility.User{ID: "2", Permissions: []string{"posts.view"}, Roles: []string{"editor"}}

	guarded := field.New("secret", field.KindText).RequirePermission("posts.edit")
	if guarded.IsVisible(editor) {
		t.Fatalf("expected missing permission to hide the field")
	}
	if !guarded.IsVisible(nil) {
		t.Fatalf("expected nil principal to skip permission checks")
	}

	roles := field.New("notes", field.KindText).RequireRoles("admin", "editor")
	if !roles.IsVisible(editor) {
		t.Fatalf("expected any matching role to pass")
	}

	predicate := field.New("beta", field.KindText).
		RequireRoles("editor").
		VisibleWhen(func(p visibility.Principal) bool { return p != nil && p.Identifier() == "99" })
	if predicate.IsVisible(editor) {
		t.Fatalf("expected predicate to be the final answer")
	}
}

func TestMeetsVisibilityConditions(t *testing.T) {
	t.Parallel()

	f := field.New("company", field.KindText).
		ShowIf(visibility.When("account.type", visibility.OpIn, []string{"business", "enterprise"})).
		HideIf(visibility.When("account.closed", visibility.OpEquals, true))

	data := map[string]any{"account": map[string]any{"type": "business"}}
	if !f.MeetsVisibilityConditions(data) {
		t.Fatalf("expected show condition to hold")
	}

	data["account"].(map[string]any)["closed"] = true
	if f.MeetsVisibilityConditions(data) {
		t.Fatalf("expected hide condition to win")
	}

	if f.MeetsVisibilityConditions(map[string]any{}) {
		t.Fatalf("expected missing path to fail the in condition")
	}

	negated := field.New("reason", field.KindText).
		ShowIf(visibility.When("account.type", visibility.OpNotIn, []string{"personal"}))
	if !negated.MeetsVisibilityConditions(map[string]any{}) {
		t.Fatalf("expected not_in against a missing path to hold")
	}
}

func TestMeetsVisibilityConditionsExpression(t *testing.T) {
	t.Parallel()

	f := field.New("vat", field.KindText).SetExpression(`country == "NZ" && business`)
	if !f.MeetsVisibilityConditions(map[string]any{"country": "NZ", "business": true}) {
		t.Fatalf("expected expression to hold")
	}
	if f.MeetsVisibilityConditions(map[string]any{"country": "AU", "business": true}) {
		t.Fatalf("expected expression mismatch to hide")
	}

	broken := field.New("vat", field.KindText).SetExpression("country = ")
	if broken.MeetsVisibilityConditions(map[string]any{"country": "NZ"}) {
		t.Fatalf("expected invalid expression to fail closed")
	}
}

func TestIsRequiredFor(t *testing.T) {
	t.Parallel()

	f := field.New("company", field.KindText).
		RequireWhen(visibility.When("account_type", visibility.OpEquals, "business"))

	if f.IsRequiredFor(map[string]any{"account_type": "personal"}) {
		t.Fatalf("expected optional for personal accounts")
	}
	if !f.IsRequiredFor(map[string]any{"account_type": "business"}) {
		t.Fatalf("expected required for business accounts")
	}
	if !field.New("email", field.KindEmail).SetRequired(true).IsRequiredFor(nil) {
		t.Fatalf("expected static required flag to win")
	}
}

func TestEffectiveRules(t *testing.T) {
	t.Parallel()

	cases := []struct {
		required bool
		rules    string
		want     string
	}{
		{false, "email|max:255", "email|max:255"},
		{true, "email|max:255", "required|email|max:255"},
		{true, "required|email", "required|email"},
		{true, "", "required"},
		{false, "", ""},
	}
	for _, tc := range cases {
		v := field.Validation{Required: tc.required, Rules: tc.rules}
		if got := v.EffectiveRules(); got != tc.want {
			t.Fatalf("EffectiveRules(%v, %q) = %q, want %q", tc.required, tc.rules, got, tc.want)
		}
	}
}

func TestAddChildOwnershipIsExclusive(t *testing.T) {
	t.Parallel()

	first := field.New("contacts", field.KindRepeater)
	second := field.New("emergency", field.KindGroup)
	child := field.New("phone", field.KindTel)

	if err := first.AddChild(child); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	if err := second.AddChild(child); err != nil {
		t.Fatalf("AddChild: %v", err)
	}

	if first.Children.Len() != 0 {
		t.Fatalf("expected child to be detached from the previous parent")
	}
	if second.Children.Len() != 1 || child.Parent() != second {
		t.Fatalf("expected child to belong to the new parent")
	}

	if err := field.New("name", field.KindText).AddChild(child); !errors.Is(err, field.ErrNotComposite) {
		t.Fatalf("expected ErrNotComposite, got %v", err)
	}
}

func TestAddChildRejectsCycles(t *testing.T) {
	t.Parallel()

	outer := field.New("outer", field.KindGroup)
	inner := field.New("inner", field.KindGroup)
	leaf := field.New("leaf", field.KindGroup)

	if err := outer.AddChild(inner); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	if err := inner.AddChild(leaf); err != nil {
		t.Fatalf("AddChild: %v", err)
	}

	if err := outer.AddChild(outer); !errors.Is(err, field.ErrCycle) {
		t.Fatalf("expected ErrCycle adding a field to itself, got %v", err)
	}
	if err := inner.AddChild(outer); !errors.Is(err, field.ErrCycle) {
		t.Fatalf("expected ErrCycle adding the parent, got %v", err)
	}
	if err := leaf.AddChild(outer); !errors.Is(err, field.ErrCycle) {
		t.Fatalf("expected ErrCycle adding the grandparent, got %v", err)
	}

	if outer.Parent() != nil || inner.Parent() != outer || leaf.Parent() != inner {
		t.Fatalf("expected ownership unchanged after rejected cycles")
	}
	view := outer.View(6, 12)
	if view.Meta.Children == nil || len(view.Meta.Children.Fields) != 1 {
		t.Fatalf("expected outer to serialize one child, got %+v", view.Meta.Children)
	}
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()

	parent := field.New("contacts", field.KindRepeater)
	if err := parent.AddChild(field.New("phone", field.KindTel)); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	parent.AddClass("wide").SetAttribute("data-x", "1")

	copied := parent.Clone()
	copied.AddClass("narrow").SetAttribute("data-x", "2")
	copied.Children.Fields()[0].SetLabel("Mobile")

	if parent.Attrs.Class() != "wide" || parent.Attrs.String("data-x") != "1" {
		t.Fatalf("expected original attributes untouched, got %q %q", parent.Attrs.Class(), parent.Attrs.String("data-x"))
	}
	if parent.Children.Fields()[0].Label() != "Phone" {
		t.Fatalf("expected original child untouched")
	}
	if copied.Children.Fields()[0].Parent() != copied {
		t.Fatalf("expected cloned child to point at the clone")
	}
}

func TestComputeStoresDerivedValue(t *testing.T) {
	t.Parallel()

	f := field.New("total", field.KindNumber)
	if _, ok := f.Compute(nil); ok {
		t.Fatalf("expected no transform")
	}
	f.Dependencies.Computed = func(data map[string]any) any {
		return data["qty"].(int) * 3
	}
	value, ok := f.Compute(map[string]any{"qty": 2})
	if !ok || value != 6 || f.Value() != 6 {
		t.Fatalf("expected computed value 6, got %v", value)
	}
}

func TestViewCarriesKindMetadata(t *testing.T) {
	t.Parallel()

	registry := field.DefaultRegistry()
	avatar := registry.Make(field.KindImage, "avatar")
	if err := avatar.Apply(field.Options{"max_size": 2048, "multiple": true, "class": "avatar wide"}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	view := avatar.View(6, 12)
	want := &model.UploadMeta{Accept: "image/*", MaxSize: 2048, Multiple: true, IsImage: true}
	if diff := cmp.Diff(want, view.Meta.Upload); diff != "" {
		t.Fatalf("upload meta mismatch (-want +got):\n%s", diff)
	}
	if view.Width != 6 || view.Class != "avatar wide" {
		t.Fatalf("unexpected layout: width=%d class=%q", view.Width, view.Class)
	}
	if view.Attributes["accept"] != "image/*" || view.Attributes["multiple"] != true {
		t.Fatalf("expected derived html attributes, got %#v", view.Attributes)
	}

	age := registry.Make(field.KindNumber, "age")
	if err := age.Apply(field.Options{"min": 18, "max": "120", "required": true}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	ageView := age.View(4, 12)
	if ageView.Width != 4 || !ageView.Required || ageView.Validation != "required" {
		t.Fatalf("unexpected number view: %+v", ageView)
	}
	if ageView.Meta.Numeric == nil || *ageView.Meta.Numeric.Min != 18 || *ageView.Meta.Numeric.Max != 120 {
		t.Fatalf("expected numeric bounds, got %+v", ageView.Meta.Numeric)
	}
}
