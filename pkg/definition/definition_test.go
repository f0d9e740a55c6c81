package definition_test

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/container"
	"github.com/goliatone/go-formkit/pkg/definition"
	"github.com/goliatone/go-formkit/pkg/field"
)

const profileYAML = `
forms:
  profile:
    action: /profile
    method: put
    csrf: true
    multi_step: true
    steps:
      1: Account
      2: Contacts
    attributes:
      data-testid: profile-form
    fields:
      - name: first_name
        type: text
        required: true
        rules: max:50
        step: 1
      - name: plan
        type: select
        step: 1
        options:
          - {value: free, label: Free}
          - {value: pro, label: Pro}
      - name: phones
        type: repeater
        step: 2
        max_items: 3
        children:
          - name: number
            type: tel
            required: true
      - name: address
        type: group
        step: 2
        children:
          - name: city
            required: true
  security:
    fields:
      - name: password
        type: password
        rules: required|min:8
containers:
  settings:
    id: settings
    display_mode: accordion
    validation_mode: combined
    active: security
    slots:
      - key: profile
        title: Your profile
        badge: "2"
      - key: security
        collapsible: true
        collapsed: true
      - key: billing
        form: security
        show_when:
          - {field: plan, operator: "==", value: pro}
`

func TestParseYAMLBuildsForm(t *testing.T) {
	t.Parallel()

	doc, err := definition.Parse([]byte(profileYAML), "profile.yaml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if diff := cmp.Diff([]string{"profile", "security"}, doc.FormNames()); diff != "" {
		t.Fatalf("form names mismatch (-want +got):\n%s", diff)
	}
	if got := doc.Source("settings"); got != "profile.yaml" {
		t.Fatalf("source = %q", got)
	}

	b, err := doc.Form("profile")
	if err != nil {
		t.Fatalf("Form: %v", err)
	}
	if diff := cmp.Diff([]string{"first_name", "plan", "phones", "address"}, b.Names()); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
	if b.Method() != "POST" || b.SpoofedMethod() != "PUT" {
		t.Fatalf("method = %s spoofed %s", b.Method(), b.SpoofedMethod())
	}

	wantRules := map[string]string{
		"first_name":   "required|max:50",
		"address.city": "required",
	}
	if diff := cmp.Diff(wantRules, b.Rules()); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}

	schema := b.ToArray(nil)
	if !schema.Config.CSRF || !schema.Config.MultiStep {
		t.Fatalf("config not applied: %+v", schema.Config)
	}
	if schema.Config.Attributes["data-testid"] != "profile-form" {
		t.Fatalf("attributes not applied: %+v", schema.Config.Attributes)
	}
	if len(schema.Meta.Steps) != 2 || schema.Meta.Steps[1].Title != "Contacts" {
		t.Fatalf("steps = %+v", schema.Meta.Steps)
	}

	plan, ok := schema.Field("plan")
	if !ok || len(plan.Options) != 2 || plan.Options[1].Label != "Pro" {
		t.Fatalf("plan options = %+v", plan.Options)
	}
	phones, _ := schema.Field("phones")
	if phones.Meta.Children == nil || phones.Meta.Children.MaxItems != 3 {
		t.Fatalf("phones children = %+v", phones.Meta.Children)
	}
	if got := phones.Meta.Children.Fields[0].Type; got != field.KindTel {
		t.Fatalf("child type = %q", got)
	}
}

func TestParseJSON(t *testing.T) {
	t.Parallel()

	doc, err := definition.Parse([]byte(`{
		"forms": {
			"contact": {
				"action": "/contact",
				"fields": [
					{"name": "email", "type": "email", "required": true, "width": 6},
					{"name": "message", "type": "textarea", "placeholder": "Say hi"}
				]
			}
		}
	}`), "contact.json")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	b, err := doc.Form("contact")
	if err != nil {
		t.Fatalf("Form: %v", err)
	}
	email, _ := b.Field("email")
	if email.Layout.Width != 6 || !email.Validation.Required {
		t.Fatalf("email options not applied: width=%d required=%v", email.Layout.Width, email.Validation.Required)
	}
	message, _ := b.Field("message")
	if got := message.View(0, 0).Placeholder; got != "Say hi" {
		t.Fatalf("placeholder = %q", got)
	}
}

func TestBuildContainer(t *testing.T) {
	t.Parallel()

	doc, err := definition.Parse([]byte(profileYAML), "profile.yaml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	c, err := doc.Container("settings")
	if err != nil {
		t.Fatalf("Container: %v", err)
	}
	if c.ID() != "settings" || c.DisplayMode() != container.DisplayAccordion || c.ValidationMode() != container.ValidateCombined {
		t.Fatalf("config = %s %s %s", c.ID(), c.DisplayMode(), c.ValidationMode())
	}
	if c.Active() != "security" {
		t.Fatalf("active = %q", c.Active())
	}
	if diff := cmp.Diff([]string{"profile", "security", "billing"}, c.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}

	profile, _ := c.Slot("profile")
	if profile.Title != "Your profile" || profile.Badge != "2" {
		t.Fatalf("profile slot = %+v", profile)
	}
	security, _ := c.Slot("security")
	if security.Title != "Security" || !security.Collapsible || !security.Collapsed {
		t.Fatalf("security slot = %+v", security)
	}

	billing, _ := c.Slot("billing")
	if billing.IsVisibleFor(map[string]any{"plan": "free"}) {
		t.Fatal("billing should be hidden for free plans")
	}
	if !billing.IsVisibleFor(map[string]any{"plan": "pro"}) {
		t.Fatal("billing should show for pro plans")
	}

	report, err := c.Validate(context.Background(), map[string]any{
		"security": map[string]any{"password": "short"},
	})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if report.Valid() {
		t.Fatal("expected validation failures")
	}
}

func TestLoadFSMergesAndRejectsDuplicates(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"forms/a.yaml":   {Data: []byte("forms:\n  a:\n    fields:\n      - {name: title}\n")},
		"forms/b.json":   {Data: []byte(`{"forms": {"b": {"fields": [{"name": "body", "type": "textarea"}]}}}`)},
		"forms/notes.md": {Data: []byte("# ignored")},
	}
	doc, err := definition.LoadFS(fsys)
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, doc.FormNames()); diff != "" {
		t.Fatalf("form names mismatch (-want +got):\n%s", diff)
	}
	if got := doc.Source("b"); got != "forms/b.json" {
		t.Fatalf("source = %q", got)
	}

	fsys["forms/c.yaml"] = &fstest.MapFile{Data: []byte("forms:\n  a:\n    fields: []\n")}
	if _, err := definition.LoadFS(fsys); !errors.Is(err, definition.ErrInvalid) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"empty":            "   ",
		"unnamed field":    "forms:\n  a:\n    fields:\n      - {type: text}\n",
		"duplicate":        "forms:\n  a:\n    fields:\n      - {name: x}\n      - {name: x}\n",
		"slot without key": "containers:\n  c:\n    slots:\n      - {title: T}\n",
		"malformed":        "forms: [\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if _, err := definition.Parse([]byte(input), name); !errors.Is(err, definition.ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}

	doc, err := definition.Parse([]byte("containers:\n  c:\n    slots:\n      - {key: missing}\n"), "c.yaml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := doc.Container("c"); !errors.Is(err, definition.ErrUnknownForm) {
		t.Fatalf("expected ErrUnknownForm, got %v", err)
	}
	if _, err := doc.Container("nope"); !errors.Is(err, definition.ErrUnknownContainer) {
		t.Fatalf("expected ErrUnknownContainer, got %v", err)
	}
	if _, err := doc.Form("nope"); !errors.Is(err, definition.ErrUnknownForm) {
		t.Fatalf("expected ErrUnknownForm, got %v", err)
	}
}
