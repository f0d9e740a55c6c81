package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/render"
)

type namedRenderer string

func (r namedRenderer) Name() string        { return string(r) }
func (r namedRenderer) ContentType() string { return "text/plain" }

func (r namedRenderer) RenderForm(context.Context, model.FormSchema, render.RenderOptions) ([]byte, error) {
	return []byte(r), nil
}

func (r namedRenderer) RenderContainer(context.Context, model.ContainerSchema, render.RenderOptions) ([]byte, error) {
	return []byte(r), nil
}

func TestRegistry(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(namedRenderer("tailwind"))
	registry.MustRegister(namedRenderer("bootstrap5"))

	if err := registry.Register(namedRenderer("tailwind")); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if diff := cmp.Diff([]string{"bootstrap5", "tailwind"}, registry.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}

	fallback, err := registry.Get("")
	if err != nil || fallback.Name() != "tailwind" {
		t.Fatalf("expected first registered renderer as default, got %v %v", fallback, err)
	}
	if err := registry.SetDefault("bootstrap5"); err != nil {
		t.Fatalf("SetDefault: %v", err)
	}
	if fallback, _ := registry.Get(""); fallback.Name() != "bootstrap5" {
		t.Fatalf("expected bootstrap5 default, got %s", fallback.Name())
	}

	if _, err := registry.Get("bulma"); !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("expected ErrRendererNotFound, got %v", err)
	}
}
