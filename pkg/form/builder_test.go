package form_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/visibility"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// valueRenderer renders the value of one field and counts invocations.
type valueRenderer struct {
	field string
	calls int
	last  render.RenderOptions
}

func (r *valueRenderer) Name() string        { return "value" }
func (r *valueRenderer) ContentType() string { return "text/plain" }

func (r *valueRenderer) RenderForm(_ context.Context, schema model.FormSchema, opts render.RenderOptions) ([]byte, error) {
	r.calls++
	r.last = opts
	view, _ := schema.Field(r.field)
	return []byte(fmt.Sprint(view.Value)), nil
}

func (r *valueRenderer) RenderContainer(context.Context, model.ContainerSchema, render.RenderOptions) ([]byte, error) {
	return nil, errors.New("not supported")
}

func TestAddTwiceKeepsLastDefinition(t *testing.T) {
	t.Parallel()

	b := form.New()
	if _, err := b.Add("contact", field.KindText, field.Options{"validation": "max:5"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	b.Text("name")
	if _, err := b.Add("contact", field.KindEmail, field.Options{"validation": "required|email"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if diff := cmp.Diff([]string{"contact", "name"}, b.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	f, ok := b.Field("contact")
	if !ok || f.Kind() != field.KindEmail {
		t.Fatalf("expected the second definition to win, got %+v", f)
	}
	if diff := cmp.Diff(map[string]string{"contact": "required|email"}, b.Rules()); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}

	if _, err := b.Add("  ", field.KindText, nil); !errors.Is(err, form.ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestRulesProjectFieldState(t *testing.T) {
	t.Parallel()

	b := form.New()
	b.Email("email").SetRequired(true).SetRules("email|max:255").SetMessage("email", "Bad address.")
	b.Text("nickname")
	b.Divider("More")
	address, err := b.Add("address", field.KindGroup, nil)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	city := field.New("city", field.KindText).SetRules("required")
	if err := address.AddChild(city); err != nil {
		t.Fatalf("AddChild: %v", err)
	}

	want := map[string]string{
		"email":        "required|email|max:255",
		"address.city": "required",
	}
	if diff := cmp.Diff(want, b.Rules()); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"email.email": "Bad address."}, b.Messages()); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}

	f, _ := b.Field("nickname")
	f.SetRules("alpha_dash")
	if got := b.Rules()["nickname"]; got != "alpha_dash" {
		t.Fatalf("expected rules to follow field state, got %q", got)
	}
	b.Remove("email")
	if _, ok := b.Rules()["email"]; ok {
		t.Fatalf("expected removed field to leave the projection")
	}
}

func TestChildrenBelongToOneCollection(t *testing.T) {
	t.Parallel()

	b := form.New()
	sku := b.Text("sku").SetRules("required")
	items := b.Repeater("items", sku)
	if err := b.Err(); err != nil {
		t.Fatalf("Repeater: %v", err)
	}

	if diff := cmp.Diff([]string{"items"}, b.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if b.Has("sku") || sku.Parent() != items || items.Children.Len() != 1 {
		t.Fatalf("expected sku to live only under items")
	}
	if _, ok := b.Rules()["sku"]; ok {
		t.Fatalf("expected no top-level rule for a repeater child")
	}
	schema := b.ToArray(nil)
	if schema.Meta.FieldCount != 1 || len(schema.Fields[0].Meta.Children.Fields) != 1 {
		t.Fatalf("expected one top-level field with one child, got %+v", schema.Fields)
	}

	address, err := b.Add("address", field.KindGroup, nil)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := b.AddChild(address, b.Text("city").SetRules("required")); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	want := map[string]string{"address.city": "required"}
	if diff := cmp.Diff(want, b.Rules()); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}

	if err := b.AddField(sku); err != nil {
		t.Fatalf("AddField: %v", err)
	}
	if sku.Parent() != nil || items.Children.Len() != 0 {
		t.Fatalf("expected sku to be detached from items when added at the top level")
	}
	if diff := cmp.Diff([]string{"items", "address", "sku"}, b.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	if err := b.AddChild(items, items); !errors.Is(err, field.ErrCycle) {
		t.Fatalf("expected ErrCycle, got %v", err)
	}
}

func TestMultiStepBuckets(t *testing.T) {
	t.Parallel()

	b := form.New()
	b.Text("first").SetStep(1)
	b.Text("second").SetStep(1)
	third := b.Text("third").SetStep(2)
	b.SetStepTitle(2, "Details")

	want := []model.Step{
		{Number: 1, Title: "Step 1", Fields: []string{"first", "second"}},
		{Number: 2, Title: "Details", Fields: []string{"third"}},
	}
	if diff := cmp.Diff(want, b.ToArray(nil).Meta.Steps); diff != "" {
		t.Fatalf("steps mismatch (-want +got):\n%s", diff)
	}

	third.SetStep(1)
	steps := b.ToArray(nil).Meta.Steps
	if len(steps) != 1 || len(steps[0].Fields) != 3 {
		t.Fatalf("expected a single bucket after moving the field, got %+v", steps)
	}

	single := form.New()
	single.Text("plain")
	if steps := single.ToArray(nil).Meta.Steps; steps != nil {
		t.Fatalf("expected no steps for a single-step form, got %+v", steps)
	}
}

func TestMethodSpoofingAndEnctype(t *testing.T) {
	t.Parallel()

	b := form.New().SetMethod("put")
	if b.Method() != http.MethodPost || b.SpoofedMethod() != http.MethodPut {
		t.Fatalf("expected POST spoofing PUT, got %s/%s", b.Method(), b.SpoofedMethod())
	}
	if b.Enctype() != form.EnctypeMultipart {
		t.Fatalf("expected multipart for spoofed verbs, got %s", b.Enctype())
	}

	b.SetMethod("get")
	if b.Method() != http.MethodGet || b.SpoofedMethod() != "" || b.Enctype() != form.EnctypeURLEncoded {
		t.Fatalf("unexpected GET config: %s %q %s", b.Method(), b.SpoofedMethod(), b.Enctype())
	}

	b.SetMethod(http.MethodPost).Image("avatar")
	cfg := b.ToArray(nil)
	if cfg.Config.Enctype != form.EnctypeMultipart || !cfg.Meta.HasFileUploads {
		t.Fatalf("expected uploads to force multipart, got %+v", cfg.Config)
	}
}

func TestEnctypeFollowsVisibleUploads(t *testing.T) {
	t.Parallel()

	b := form.New()
	b.Text("title")
	b.File("legacy").Hide()

	if b.Enctype() != form.EnctypeURLEncoded {
		t.Fatalf("expected hidden upload to be ignored, got %s", b.Enctype())
	}
	schema := b.ToArray(nil)
	if schema.Config.Enctype != form.EnctypeURLEncoded || schema.Meta.HasFileUploads {
		t.Fatalf("expected url encoded form without uploads, got %s %v", schema.Config.Enctype, schema.Meta.HasFileUploads)
	}

	b.File("attachment").RequirePermission("files.upload")
	reader := visibility.User{ID: "1"}
	uploader := visibility.User{ID: "2", Permissions: []string{"files.upload"}}

	schema = b.ToArray(reader)
	if schema.Config.Enctype != form.EnctypeURLEncoded || schema.Meta.HasFileUploads {
		t.Fatalf("expected reader to get url encoded form, got %s %v", schema.Config.Enctype, schema.Meta.HasFileUploads)
	}
	schema = b.ToArray(uploader)
	if schema.Config.Enctype != form.EnctypeMultipart || !schema.Meta.HasFileUploads {
		t.Fatalf("expected uploader to get multipart form, got %s %v", schema.Config.Enctype, schema.Meta.HasFileUploads)
	}
}

func TestRenderCacheIgnoresFilledValues(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	renderer := &valueRenderer{field: "name"}
	b := form.New(
		form.WithRenderer(renderer),
		form.WithCache(time.Minute),
		form.WithClock(clock.Now),
	)
	b.Text("name")
	ctx := context.Background()
	viewer := visibility.User{ID: "42"}

	b.Fill(map[string]any{"name": "Ada"})
	first, err := b.Render(ctx, viewer)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	b.Fill(map[string]any{"name": "Grace"})
	second, err := b.Render(ctx, viewer)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if string(first) != "Ada" || string(second) != "Ada" || renderer.calls != 1 {
		t.Fatalf("expected cached output within TTL, got %q %q after %d calls", first, second, renderer.calls)
	}

	other, _ := b.Render(ctx, visibility.User{ID: "7"})
	if string(other) != "Grace" {
		t.Fatalf("expected a different viewer to miss the cache, got %q", other)
	}

	clock.Advance(2 * time.Minute)
	expired, _ := b.Render(ctx, viewer)
	if string(expired) != "Grace" || renderer.calls != 3 {
		t.Fatalf("expected expired entry to be recomputed, got %q after %d calls", expired, renderer.calls)
	}

	b.Fill(map[string]any{"name": "Linus"}).ClearCache()
	cleared, _ := b.Render(ctx, viewer)
	if string(cleared) != "Linus" {
		t.Fatalf("expected ClearCache to drop entries, got %q", cleared)
	}
}

func TestToArrayWithoutCacheReflectsFill(t *testing.T) {
	t.Parallel()

	b := form.New()
	b.Text("name")
	b.Fill(map[string]any{"name": "Ada"})
	b.Fill(map[string]any{"name": "Grace"})

	view, ok := b.ToArray(nil).Field("name")
	if !ok || view.Value != "Grace" {
		t.Fatalf("expected fresh value, got %+v", view.Value)
	}
}

func TestVisibleFieldsFiltersByViewer(t *testing.T) {
	t.Parallel()

	b := form.New()
	b.Text("title")
	b.Text("notes").RequirePermission("notes.read")
	b.Text("audit").RequireRoles("admin")
	b.Text("internal").Hide()

	names := func(principal visibility.Principal) []string {
		var out []string
		for _, f := range b.VisibleFields(principal) {
			out = append(out, f.Name())
		}
		return out
	}

	if diff := cmp.Diff([]string{"title", "notes", "audit"}, names(nil)); diff != "" {
		t.Fatalf("anonymous mismatch (-want +got):\n%s", diff)
	}
	editor := visibility.User{ID: "1", Permissions: []string{"notes.read"}}
	if diff := cmp.Diff([]string{"title", "notes"}, names(editor)); diff != "" {
		t.Fatalf("editor mismatch (-want +got):\n%s", diff)
	}

	schema := b.ToArray(editor)
	if schema.Meta.FieldCount != 2 {
		t.Fatalf("expected field count 2, got %d", schema.Meta.FieldCount)
	}
	if _, ok := schema.Validation.Rules["internal"]; ok {
		t.Fatalf("hidden field without rules should not appear in rules")
	}
}

func TestValidateConditionalRequired(t *testing.T) {
	t.Parallel()

	b := form.New()
	b.Select("contact", model.Option{Value: "email", Label: "Email"}, model.Option{Value: "phone", Label: "Phone"})
	b.Email("email").SetRules("email").RequireWhen(visibility.When("contact", visibility.OpEquals, "email"))
	ctx := context.Background()

	result, err := b.Validate(ctx, map[string]any{"contact": "email"})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	want := map[string][]string{"email": {"The Email field is required."}}
	if result.Passed || cmp.Diff(want, result.Errors) != "" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if f, _ := b.Field("email"); !f.HasErrors() {
		t.Fatalf("expected errors to be recorded on the field")
	}
	if view, _ := b.ToArray(nil).Field("email"); !view.Meta.HasErrors {
		t.Fatalf("expected serialized field to carry errors")
	}

	result, err = b.Validate(ctx, map[string]any{"contact": "phone"})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !result.Passed || len(b.Errors()) != 0 {
		t.Fatalf("expected pass with cleared errors, got %+v", result)
	}
}

func TestRowGroupAndSectionStamping(t *testing.T) {
	t.Parallel()

	b := form.New()
	b.Section("profile").Group("names")
	first := b.Text("first_name")
	last := field.New("last_name", field.KindText)
	rowID := b.Row("", first, last)
	b.EndGroup()
	email := b.Email("email")
	second := b.Row("", email)
	b.EndSection()
	loose := b.Text("loose")

	if rowID != "row1" || second != "row2" {
		t.Fatalf("expected auto row ids, got %q %q", rowID, second)
	}
	if !b.Has("last_name") {
		t.Fatalf("expected Row to add missing fields")
	}
	if last.Layout.Group != "names" || last.Layout.Section != "profile" || last.Layout.Row != "row1" {
		t.Fatalf("unexpected layout: %+v", last.Layout)
	}
	if email.Layout.Group != "" || email.Layout.Section != "profile" {
		t.Fatalf("expected group closed and section open, got %+v", email.Layout)
	}
	if loose.Layout.Section != "" || loose.Layout.Row != "" {
		t.Fatalf("expected no stamping after EndSection, got %+v", loose.Layout)
	}
}

func TestRenderMergesErrorsAndCSRF(t *testing.T) {
	t.Parallel()

	renderer := &valueRenderer{field: "name"}
	b := form.New(
		form.WithRenderer(renderer),
		form.WithRenderOptions(render.RenderOptions{Errors: map[string][]string{"name": {"Taken."}}}),
		form.WithTheme("tailwind"),
	)
	b.Text("name")
	b.SetCSRFToken("abc123")
	b.SetErrors(map[string][]string{"name": {"Too short."}})

	if _, err := b.Render(context.Background(), nil); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if diff := cmp.Diff([]string{"Taken.", "Too short."}, renderer.last.Errors["name"]); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if renderer.last.HiddenFields[form.CSRFField] != "abc123" {
		t.Fatalf("expected csrf token hidden field, got %v", renderer.last.HiddenFields)
	}
	if renderer.last.Framework != "tailwind" {
		t.Fatalf("expected framework from theme, got %q", renderer.last.Framework)
	}

	if _, err := form.New().Render(context.Background(), nil); !errors.Is(err, form.ErrNoRenderer) {
		t.Fatalf("expected ErrNoRenderer, got %v", err)
	}
}

func TestHelperErrorsSurfaceOnRender(t *testing.T) {
	t.Parallel()

	b := form.New(form.WithRenderer(&valueRenderer{}))
	b.Text("")
	if !errors.Is(b.Err(), form.ErrEmptyName) {
		t.Fatalf("expected recorded ErrEmptyName, got %v", b.Err())
	}
	if _, err := b.Render(context.Background(), nil); !errors.Is(err, form.ErrEmptyName) {
		t.Fatalf("expected Render to surface the recorded error, got %v", err)
	}
}

func TestFillComputesAndSanitizes(t *testing.T) {
	t.Parallel()

	b := form.New(form.WithMarkdownHelp())
	b.Number("price")
	b.Number("total").Dependencies.Computed = func(data map[string]any) any {
		price, _ := data["price"].(int)
		return price * 2
	}
	body := b.RichText("body").SetHelp("Supports **bold**")
	body.Editor.Sanitize = true

	b.Fill(map[string]any{"price": 21, "body": `<p>Hi</p><script>alert(1)</script>`})
	schema := b.ToArray(nil)

	if view, _ := schema.Field("total"); view.Value != 42 {
		t.Fatalf("expected computed total 42, got %v", view.Value)
	}
	view, _ := schema.Field("body")
	if view.Value != "<p>Hi</p>" {
		t.Fatalf("expected sanitized rich text, got %q", view.Value)
	}
	if view.Meta.HelpHTML == "" {
		t.Fatalf("expected markdown help html")
	}
	if diff := cmp.Diff(map[string]any{"price": 21, "body": `<p>Hi</p><script>alert(1)</script>`}, schema.Data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}
