package container_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/cache"
	"github.com/goliatone/go-formkit/pkg/container"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/visibility"
)

type countingRenderer struct{ calls int }

func (r *countingRenderer) Name() string        { return "counting" }
func (r *countingRenderer) ContentType() string { return "text/plain" }

func (r *countingRenderer) RenderForm(_ context.Context, schema model.FormSchema, opts render.RenderOptions) ([]byte, error) {
	r.calls++
	return []byte(fmt.Sprintf("%s:%d", opts.Framework, schema.Meta.FieldCount)), nil
}

func (r *countingRenderer) RenderContainer(_ context.Context, schema model.ContainerSchema, _ render.RenderOptions) ([]byte, error) {
	r.calls++
	var parts []string
	for _, slot := range schema.Slots {
		view, _ := slot.Form.Field("name")
		parts = append(parts, fmt.Sprintf("%s=%v", slot.Key, view.Value))
	}
	return []byte(strings.Join(parts, ",")), nil
}

func requiredForm(name string) *form.Builder {
	b := form.New()
	b.Text(name).SetRequired(true)
	return b
}

func TestSlotsOrderingAndActive(t *testing.T) {
	t.Parallel()

	c := container.New(container.WithID("profile"))
	mustAdd(t, c, "account", form.New(), container.WithOrder(3))
	mustAdd(t, c, "billing", form.New(), container.WithOrder(1), container.WithTitle("Payment"))
	mustAdd(t, c, "shipping", form.New(), container.WithOrder(2))

	if c.ID() != "profile" || c.Len() != 3 {
		t.Fatalf("unexpected container: id=%s len=%d", c.ID(), c.Len())
	}
	if c.Active() != "account" {
		t.Fatalf("expected first slot to be active by default, got %q", c.Active())
	}

	c.SortByOrder()
	if diff := cmp.Diff([]string{"billing", "shipping", "account"}, c.Keys()); diff != "" {
		t.Fatalf("sorted keys mismatch (-want +got):\n%s", diff)
	}
	c.Reorder("account", "missing")
	if diff := cmp.Diff([]string{"account", "billing", "shipping"}, c.Keys()); diff != "" {
		t.Fatalf("reordered keys mismatch (-want +got):\n%s", diff)
	}

	if err := c.SetActive("shipping"); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	c.Filter(func(key string, _ *container.Slot) bool { return key != "shipping" })
	if c.Active() != "account" || c.Len() != 2 {
		t.Fatalf("expected filter to reset the active slot, got %q (%d slots)", c.Active(), c.Len())
	}

	err := c.SetActive("shipping")
	if !errors.Is(err, container.ErrFormNotFound) || !strings.Contains(err.Error(), `"shipping"`) {
		t.Fatalf("expected ErrFormNotFound naming the key, got %v", err)
	}
	if _, ok := c.Form("shipping"); ok {
		t.Fatalf("expected missing slot read to report false")
	}
	slot, ok := c.Slot("billing")
	if !ok || slot.Title != "Payment" {
		t.Fatalf("unexpected slot: %+v", slot)
	}
	if err := c.AddForm(" ", form.New()); !errors.Is(err, container.ErrEmptyKey) {
		t.Fatalf("expected ErrEmptyKey, got %v", err)
	}
}

func mustAdd(t *testing.T, c *container.Container, key string, f *form.Builder, opts ...container.SlotOption) {
	t.Helper()
	if err := c.AddForm(key, f, opts...); err != nil {
		t.Fatalf("AddForm(%s): %v", key, err)
	}
}

func validationFixture(t *testing.T, mode string) *container.Container {
	t.Helper()
	c := container.New(container.WithValidationMode(mode))
	mustAdd(t, c, "a", requiredForm("name"))
	mustAdd(t, c, "b", requiredForm("name"))
	mustAdd(t, c, "c", requiredForm("title"))
	return c
}

var validationPayload = map[string]any{
	"a": map[string]any{"name": "Ada"},
	"b": map[string]any{},
}

func TestValidateIndividual(t *testing.T) {
	t.Parallel()

	report, err := validationFixture(t, container.ValidateIndividual).Validate(context.Background(), validationPayload)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	want := map[string]any{"a": true, "b": false, "c": false}
	if diff := cmp.Diff(want, report.Map()); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateCombined(t *testing.T) {
	t.Parallel()

	report, err := validationFixture(t, container.ValidateCombined).Validate(context.Background(), validationPayload)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	want := map[string]any{
		"a": true,
		"b": false,
		"c": false,
		container.CombinedKey: map[string]any{
			"valid": false,
			"errors": map[string]any{
				"b": map[string][]string{"name": {"The Name field is required."}},
				"c": map[string][]string{"title": {"The Title field is required."}},
			},
		},
	}
	if diff := cmp.Diff(want, report.Map()); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateSequentialStopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	report, err := validationFixture(t, container.ValidateSequential).Validate(context.Background(), validationPayload)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"a": true, "b": false}, report.Map()); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}
	if report.Valid() {
		t.Fatalf("expected report to be invalid")
	}
}

func TestValidateSequentialFirstSlotFailure(t *testing.T) {
	t.Parallel()

	report, err := validationFixture(t, container.ValidateSequential).Validate(context.Background(), map[string]any{})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"a": false}, report.Map()); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a"}, report.Order); diff != "" {
		t.Fatalf("evaluated slots mismatch (-want +got):\n%s", diff)
	}
	if _, ok := report.Errors["b"]; ok {
		t.Fatalf("expected later slots to be skipped")
	}
}

func TestRemoveActiveSlotFallsBack(t *testing.T) {
	t.Parallel()

	c := container.New()
	mustAdd(t, c, "a", form.New())
	mustAdd(t, c, "b", form.New())

	if err := c.SetActive("b"); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if err := c.RemoveForm("b"); err != nil {
		t.Fatalf("RemoveForm: %v", err)
	}
	if c.Active() != "a" {
		t.Fatalf("expected active to fall back to the first remaining slot, got %q", c.Active())
	}

	if err := c.RemoveForm("a"); err != nil {
		t.Fatalf("RemoveForm: %v", err)
	}
	if c.Active() != "" || c.Len() != 0 {
		t.Fatalf("expected no active slot once empty, got %q (%d slots)", c.Active(), c.Len())
	}
	if err := c.RemoveForm("a"); err != nil {
		t.Fatalf("expected removing a missing slot to be a no-op, got %v", err)
	}
}

func TestRenderCacheAndAutoClear(t *testing.T) {
	t.Parallel()

	renderer := &countingRenderer{}
	store := cache.NewMemory(cache.WithCleanupInterval(0))
	t.Cleanup(func() { _ = store.Close() })

	c := container.New(
		container.WithRenderer(renderer),
		container.WithStore(store),
		container.WithCache(time.Minute),
	)
	mustAdd(t, c, "a", requiredForm("name"))
	ctx := context.Background()

	c.FillShared(map[string]any{"name": "Ada"})
	first, err := c.Render(ctx, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	c.FillShared(map[string]any{"name": "Grace"})
	second, err := c.Render(ctx, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if string(first) != "a=Ada" || string(second) != "a=Ada" || renderer.calls != 1 {
		t.Fatalf("expected stale cached output, got %q %q after %d calls", first, second, renderer.calls)
	}

	mustAdd(t, c, "b", requiredForm("name"))
	c.FillShared(map[string]any{"name": "Grace"})
	third, err := c.Render(ctx, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if string(third) != "a=Grace,b=Grace" || renderer.calls != 2 {
		t.Fatalf("expected AddForm to clear the cache, got %q after %d calls", third, renderer.calls)
	}

	if err := c.ClearCache(ctx); err != nil {
		t.Fatalf("ClearCache: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected written keys to be forgotten, %d left", store.Len())
	}
}

func TestClearCacheFlushesTags(t *testing.T) {
	t.Parallel()

	renderer := &countingRenderer{}
	store := cache.NewMemory(cache.WithCleanupInterval(0))
	t.Cleanup(func() { _ = store.Close() })

	c := container.New(
		container.WithRenderer(renderer),
		container.WithStore(store),
		container.WithCache(time.Minute),
		container.WithCacheTags("forms"),
		container.WithAutoClear(false),
	)
	mustAdd(t, c, "a", requiredForm("name"))
	ctx := context.Background()

	if _, err := c.RenderSingleForm(ctx, "a", nil); err != nil {
		t.Fatalf("RenderSingleForm: %v", err)
	}
	if _, err := c.Render(ctx, visibility.User{ID: "1"}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if store.Len() != 2 {
		t.Fatalf("expected two cached entries, got %d", store.Len())
	}
	if err := c.ClearCache(ctx); err != nil {
		t.Fatalf("ClearCache: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected tag flush to empty the store, %d left", store.Len())
	}

	_, err := c.RenderSingleForm(ctx, "missing", nil)
	if !errors.Is(err, container.ErrFormNotFound) || !strings.Contains(err.Error(), `"missing"`) {
		t.Fatalf("expected ErrFormNotFound naming the key, got %v", err)
	}
}

func TestToArrayProjectsVisibleSlots(t *testing.T) {
	t.Parallel()

	c := container.New(container.WithDisplayMode(container.DisplayAccordion))
	mustAdd(t, c, "general", requiredForm("name"), container.WithIcon(`<svg onload="x()"><path d="M0 0"/></svg>`))
	mustAdd(t, c, "company", requiredForm("vat"), container.ShowWhen(visibility.When("type", visibility.OpEquals, "business")))
	mustAdd(t, c, "internal", form.New(), container.Hidden(), container.Collapsible(true))
	c.SetFramework("tailwind")
	c.Fill(map[string]any{"type": "person"})

	schema, err := c.ToArray(context.Background(), nil)
	if err != nil {
		t.Fatalf("ToArray: %v", err)
	}
	if len(schema.Slots) != 1 || schema.Slots[0].Key != "general" || !schema.Slots[0].Active {
		t.Fatalf("unexpected slots: %+v", schema.Slots)
	}
	if strings.Contains(schema.Slots[0].Icon, "onload") {
		t.Fatalf("expected icon to be sanitized, got %q", schema.Slots[0].Icon)
	}
	if schema.Config.DisplayMode != container.DisplayAccordion || schema.Config.Framework != "tailwind" {
		t.Fatalf("unexpected config: %+v", schema.Config)
	}
	if schema.Slots[0].Form.Config.Theme != "tailwind" {
		t.Fatalf("expected framework to propagate to forms, got %q", schema.Slots[0].Form.Config.Theme)
	}

	c.Fill(map[string]any{"type": "business"})
	if got := len(c.VisibleSlots(map[string]any{"type": "business"})); got != 2 {
		t.Fatalf("expected conditional slot to show, got %d slots", got)
	}

	single, err := c.SingleFormArray("company", nil)
	if err != nil || single.Meta.FieldCount != 1 {
		t.Fatalf("unexpected single form: %+v %v", single.Meta, err)
	}
}

func TestFillSplitsPayloadBySlot(t *testing.T) {
	t.Parallel()

	c := container.New()
	mustAdd(t, c, "person", requiredForm("name"))
	mustAdd(t, c, "pet", requiredForm("name"))
	c.Fill(map[string]any{
		"person": map[string]any{"name": "Ada"},
		"name":   "Rex",
	})

	person, _ := c.Form("person")
	pet, _ := c.Form("pet")
	if got := person.Data()["name"]; got != "Ada" {
		t.Fatalf("expected sub-map for person, got %v", got)
	}
	if got := pet.Data()["name"]; got != "Rex" {
		t.Fatalf("expected whole payload for pet, got %v", got)
	}
}
