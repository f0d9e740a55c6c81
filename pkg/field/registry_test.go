package field_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/visibility"
)

func TestRegistryFallsBackToText(t *testing.T) {
	t.Parallel()

	registry := field.DefaultRegistry()
	f := registry.Make("hologram", "projection")
	if f.Kind() != field.KindText {
		t.Fatalf("expected unknown kind to fall back to text, got %q", f.Kind())
	}
	if f.Name() != "projection" {
		t.Fatalf("expected name to be preserved, got %q", f.Name())
	}

	empty := field.NewRegistry()
	if got := empty.Make(field.KindEmail, "email").Kind(); got != field.KindText {
		t.Fatalf("expected empty registry to produce text fields, got %q", got)
	}
}

func TestRegistryExtendAndRegister(t *testing.T) {
	t.Parallel()

	registry := field.DefaultRegistry()
	if err := registry.Register(field.KindText, func(name string) *field.Field { return field.New(name, "text") }); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}

	registry.Extend("Slug", func(name string) *field.Field {
		return field.New(name, "slug").SetAttribute("pattern", "[a-z0-9-]+")
	})
	if !registry.Has("slug") {
		t.Fatalf("expected slug to be registered")
	}
	slug := registry.Make("slug", "path")
	if slug.Kind() != "slug" || slug.Attrs.String("pattern") != "[a-z0-9-]+" {
		t.Fatalf("expected extended constructor to run, got kind %q", slug.Kind())
	}

	kinds := registry.Kinds()
	for i := 1; i < len(kinds); i++ {
		if kinds[i-1] > kinds[i] {
			t.Fatalf("expected sorted kinds, got %v", kinds)
		}
	}
	if len(kinds) != 26 {
		t.Fatalf("expected 25 built-in kinds plus slug, got %d", len(kinds))
	}
}

func TestApplyRoutesKnownOptions(t *testing.T) {
	t.Parallel()

	f := field.DefaultRegistry().Make(field.KindSelect, "country")
	err := f.Apply(field.Options{
		"label":       "Country",
		"placeholder": "Pick one",
		"required":    true,
		"validation":  "in:NZ,AU",
		"options":     map[string]any{"NZ": "New Zealand", "AU": "Australia"},
		"multiple":    "true",
		"width":       4.0,
		"step":        2,
		"class":       "form-select  form-select",
		"messages":    map[string]any{"in": "Unsupported country."},
		"show_if":     []any{map[string]any{"field": "shipping", "operator": "=", "value": true}},
		"data-track":  "country",
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if f.Label() != "Country" || f.Placeholder() != "Pick one" {
		t.Fatalf("unexpected presentation: %q %q", f.Label(), f.Placeholder())
	}
	if !f.Required() || f.Validation.Rules != "in:NZ,AU" {
		t.Fatalf("unexpected validation: %+v", f.Validation)
	}
	wantOptions := []model.Option{
		{Value: "AU", Label: "Australia"},
		{Value: "NZ", Label: "New Zealand"},
	}
	if diff := cmp.Diff(wantOptions, f.Choices.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if !f.Choices.Multiple || f.Layout.Width != 4 || f.Layout.Step != 2 {
		t.Fatalf("unexpected routing: multiple=%v width=%d step=%d", f.Choices.Multiple, f.Layout.Width, f.Layout.Step)
	}
	if f.Attrs.Class() != "form-select" {
		t.Fatalf("expected de-duplicated class, got %q", f.Attrs.Class())
	}
	if f.Validation.Messages["in"] != "Unsupported country." {
		t.Fatalf("expected custom message, got %v", f.Validation.Messages)
	}
	wantShow := []visibility.Condition{visibility.When("shipping", visibility.OpEquals, true)}
	if diff := cmp.Diff(wantShow, f.Visibility.ShowIf); diff != "" {
		t.Fatalf("show_if mismatch (-want +got):\n%s", diff)
	}
	if f.Attrs.String("data-track") != "country" {
		t.Fatalf("expected unknown option to land in the attribute bag")
	}
	if _, ok := f.Attrs.Get("multiple"); ok {
		t.Fatalf("expected multiple to be routed to the choice config")
	}
}

func TestApplyStepSizeAndConditionsShorthand(t *testing.T) {
	t.Parallel()

	f := field.DefaultRegistry().Make(field.KindNumber, "price")
	if err := f.Apply(field.Options{
		"step_size": 0.5,
		"visible":   false,
		"hide_if":   map[string]any{"free": true},
	}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if f.Numeric.Step == nil || *f.Numeric.Step != 0.5 {
		t.Fatalf("expected numeric step 0.5, got %v", f.Numeric.Step)
	}
	if f.Layout.Step != 0 {
		t.Fatalf("expected step_size to leave the multi-step number alone")
	}
	if f.IsVisible(nil) {
		t.Fatalf("expected visible=false to hide the field")
	}
	want := []visibility.Condition{visibility.When("free", visibility.OpEquals, true)}
	if diff := cmp.Diff(want, f.Visibility.HideIf); diff != "" {
		t.Fatalf("hide_if mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyRejectsInvalidTypes(t *testing.T) {
	t.Parallel()

	f := field.New("age", field.KindNumber)
	err := f.Apply(field.Options{"width": "wide"})
	if !errors.Is(err, field.ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption, got %v", err)
	}
	if err := f.Apply(field.Options{"required": []string{"yes"}}); !errors.Is(err, field.ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption for required, got %v", err)
	}
}
