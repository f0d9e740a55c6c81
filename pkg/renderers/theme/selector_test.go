package theme

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	gotheme "github.com/goliatone/go-theme"
)

func TestManifestSelectorSelect(t *testing.T) {
	t.Parallel()

	s := NewManifestSelector(BuiltinManifests()...)
	if diff := cmp.Diff([]string{Bootstrap4, Bootstrap5, Bulma, Tailwind}, s.Frameworks()); diff != "" {
		t.Fatalf("frameworks mismatch (-want +got):\n%s", diff)
	}

	selection, err := s.Select("Bootstrap5", "compact")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if selection.Theme != Bootstrap5 || selection.Variant != "compact" {
		t.Fatalf("unexpected selection %s/%s", selection.Theme, selection.Variant)
	}

	if _, err := s.Select("foundation", ""); !errors.Is(err, ErrUnknownFramework) {
		t.Fatalf("expected ErrUnknownFramework, got %v", err)
	}
	if err := s.Register(&gotheme.Manifest{}); err == nil {
		t.Fatal("expected error registering unnamed manifest")
	}
}

func TestRendererConfigMergesVariant(t *testing.T) {
	t.Parallel()

	manifest := &gotheme.Manifest{
		Name: "brand",
		Tokens: map[string]string{
			"input":     "brand-input",
			"css.brand": "#000",
		},
		Templates: map[string]string{PartialField: "brand/field"},
		Assets: gotheme.Assets{
			Prefix: "https://cdn.example.com/brand/",
			Files: map[string]string{
				AssetStylesheet: "brand.css",
				"forms.logo":    "/static/logo.svg",
			},
		},
		Variants: map[string]gotheme.Variant{
			"dark": {
				Tokens:    map[string]string{"css.brand": "#fff"},
				Templates: map[string]string{PartialForm: "brand/dark-form"},
				Assets: gotheme.Assets{
					Files: map[string]string{AssetStylesheet: "brand-dark.css"},
				},
			},
		},
	}

	cfg := rendererConfig(&gotheme.Selection{Theme: "brand", Variant: "dark", Manifest: manifest}, defaultPartials())

	wantPartials := map[string]string{
		PartialForm:      "brand/dark-form",
		PartialField:     "brand/field",
		PartialContainer: "container",
	}
	if diff := cmp.Diff(wantPartials, cfg.Partials); diff != "" {
		t.Fatalf("partials mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"--formkit-brand": "#fff"}, cfg.CSSVars); diff != "" {
		t.Fatalf("css vars mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.Tokens["input"]; got != "brand-input" {
		t.Fatalf("input token = %q", got)
	}
	if got := cfg.AssetURL(AssetStylesheet); got != "https://cdn.example.com/brand/brand-dark.css" {
		t.Fatalf("stylesheet url = %q", got)
	}
	if got := cfg.AssetURL("forms.logo"); got != "/static/logo.svg" {
		t.Fatalf("logo url = %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("missing asset url = %q", got)
	}

	if manifest.Tokens["css.brand"] != "#000" {
		t.Fatal("rendererConfig mutated the manifest")
	}
}

func TestFieldBuilderNames(t *testing.T) {
	t.Parallel()

	if got := domID("contacts[0][phone]"); got != "contacts_0_phone" {
		t.Fatalf("domID = %q", got)
	}

	var attrs attrList
	attrs.add("type", "text")
	attrs.add("required", true)
	attrs.add("disabled", false)
	attrs.add("placeholder", "")
	attrs.extra(map[string]any{"data-b": 2, "data-a": `"x"`, "type": "email", "bad name": "x"})

	want := ` type="text" required data-a="&#34;x&#34;" data-b="2"`
	if got := attrs.String(); got != want {
		t.Fatalf("attrs = %q, want %q", got, want)
	}
}
