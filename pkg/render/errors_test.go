package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/render"
)

func errorFixture() model.FormSchema {
	return model.FormSchema{
		Fields: []model.FieldView{
			{Name: "name", Type: "text"},
			{
				Name: "owner",
				Type: "group",
				Meta: model.FieldMeta{Children: &model.ChildrenMeta{Fields: []model.FieldView{
					{Name: "email", Type: "email"},
					{Name: "phone", Type: "tel"},
				}}},
			},
			{Name: "tags", Type: "multiselect"},
		},
	}
}

func TestMapErrors_NormalisesPaths(t *testing.T) {
	payload := map[string][]string{
		"/body/name":                 {"Name is required"},
		"body.owner.email":           {"Email invalid"},
		"$.body.tags[0]":             {"Tags must be unique"},
		"request.payload.owner":      {"Owner missing"},
		"non_field_errors":           {"Form level error"},
		"body/owner/phone/~1number":  {"Phone malformed"},
		"request/body/unknown-field": {"Should fall back to form errors"},
		"":                           {"Unscoped form error", " "},
	}

	mapped := render.MapErrors(errorFixture(), payload)

	wantFields := map[string][]string{
		"name":        {"Name is required"},
		"owner.email": {"Email invalid"},
		"tags":        {"Tags must be unique"},
		"owner":       {"Owner missing"},
		"owner.phone": {"Phone malformed"},
	}
	if diff := cmp.Diff(wantFields, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	wantForm := []string{"Form level error", "Should fall back to form errors", "Unscoped form error"}
	if diff := cmp.Diff(wantForm, mapped.Form, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyErrors_CopiesFieldSlices(t *testing.T) {
	original := errorFixture()
	form := original

	render.ApplyErrors(&form, map[string][]string{
		"name":        {"Name is required", "Name is required"},
		"owner.email": {"Email invalid"},
	})

	name, _ := form.Field("name")
	if !name.Meta.HasErrors || len(name.Meta.Errors) != 1 {
		t.Fatalf("expected one de-duplicated error on name, got %+v", name.Meta)
	}
	owner, _ := form.Field("owner")
	if got := owner.Meta.Children.Fields[0].Meta.Errors; len(got) != 1 || got[0] != "Email invalid" {
		t.Fatalf("expected nested error on owner.email, got %v", got)
	}

	if original.Fields[0].Meta.HasErrors || original.Fields[1].Meta.Children.Fields[0].Meta.HasErrors {
		t.Fatalf("expected the source schema to stay untouched")
	}
}

func TestMergeFormErrors(t *testing.T) {
	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	want := []string{"First", "Second", "third"}

	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged form errors mismatch (-want +got):\n%s", diff)
	}
}
