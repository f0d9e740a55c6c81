// Package formkit builds server-side forms and multi-form containers and
// renders them to HTML for Bootstrap, Tailwind and Bulma.
package formkit

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formkit/pkg/container"
	"github.com/goliatone/go-formkit/pkg/definition"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/renderers/theme"
)

// RenderOptions describes per-request overrides that renderers use to
// prefill values or surface server-side validation errors.
type RenderOptions = render.RenderOptions

// FieldSubset aliases render.FieldSubset for partial rendering by group,
// section or row.
type FieldSubset = render.FieldSubset

// FormSchema is the render-agnostic projection of a form.
type FormSchema = model.FormSchema

// ContainerSchema is the render-agnostic projection of a container.
type ContainerSchema = model.ContainerSchema

// NewForm returns an empty form builder.
func NewForm(options ...form.Option) *form.Builder {
	return form.New(options...)
}

// NewContainer returns an empty form container.
func NewContainer(options ...container.Option) *container.Container {
	return container.New(options...)
}

// NewRenderer returns the theme HTML renderer.
func NewRenderer(options ...theme.Option) (*theme.Renderer, error) {
	return theme.New(options...)
}

// NewRegistry returns a renderer registry holding the theme renderer as the
// default.
func NewRegistry(options ...theme.Option) (*render.Registry, error) {
	renderer, err := theme.New(options...)
	if err != nil {
		return nil, err
	}
	registry := render.NewRegistry()
	if err := registry.Register(renderer); err != nil {
		return nil, err
	}
	if err := registry.SetDefault(renderer.Name()); err != nil {
		return nil, err
	}
	return registry, nil
}

// LoadDefinition parses a JSON or YAML definition file.
func LoadDefinition(path string) (*definition.Document, error) {
	return definition.LoadFile(path)
}

// RenderDefinition loads path, builds the named form and renders it with the
// theme renderer for opts.Framework.
func RenderDefinition(ctx context.Context, path, formName string, opts RenderOptions, options ...theme.Option) ([]byte, error) {
	doc, err := definition.LoadFile(path)
	if err != nil {
		return nil, err
	}
	renderer, err := theme.New(options...)
	if err != nil {
		return nil, err
	}
	b, err := doc.Form(formName, form.WithRenderer(renderer), form.WithRenderOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("formkit: %w", err)
	}
	return b.Render(ctx, nil)
}
