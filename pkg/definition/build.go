package definition

import (
	"fmt"

	"github.com/goliatone/go-formkit/pkg/container"
	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/form"
)

// Form builds the named form. opts configure the builder (renderer,
// validator, logger).
func (d *Document) Form(name string, opts ...form.Option) (*form.Builder, error) {
	def, ok := d.Forms[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownForm, name)
	}
	return BuildForm(def, opts...)
}

// BuildForm builds a form from def. Top-level fields go through the builder
// registry; children are made by field.DefaultRegistry.
func BuildForm(def FormDefinition, opts ...form.Option) (*form.Builder, error) {
	b := form.New(opts...)
	b.SetAction(def.Action).
		SetMethod(def.Method).
		SetTheme(def.Theme).
		SetCSRF(def.CSRF).
		SetAJAX(def.AJAX).
		SetMultiStep(def.MultiStep)
	for step, title := range def.Steps {
		b.SetStepTitle(step, title)
	}
	for key, value := range def.Attributes {
		b.SetAttribute(key, value)
	}

	registry := field.DefaultRegistry()
	for _, fieldDef := range def.Fields {
		f, err := b.Add(fieldDef.Name, fieldDef.Type, fieldDef.Options)
		if err != nil {
			return nil, fmt.Errorf("definition: %w", err)
		}
		for _, childDef := range fieldDef.Children {
			child, err := childDef.build(registry)
			if err != nil {
				return nil, fmt.Errorf("definition: field %q: %w", fieldDef.Name, err)
			}
			if err := f.AddChild(child); err != nil {
				return nil, fmt.Errorf("definition: field %q: %w", fieldDef.Name, err)
			}
		}
	}
	return b, nil
}

// Container builds the named container and the forms its slots reference.
func (d *Document) Container(name string, opts ...container.Option) (*container.Container, error) {
	def, ok := d.Containers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownContainer, name)
	}

	base := make([]container.Option, 0, 4+len(opts))
	if def.ID != "" {
		base = append(base, container.WithID(def.ID))
	}
	if def.DisplayMode != "" {
		base = append(base, container.WithDisplayMode(def.DisplayMode))
	}
	if def.Framework != "" {
		base = append(base, container.WithFramework(def.Framework))
	}
	if def.ValidationMode != "" {
		base = append(base, container.WithValidationMode(def.ValidationMode))
	}
	c := container.New(append(base, opts...)...)

	for _, slot := range def.Slots {
		b, err := d.Form(slot.FormRef())
		if err != nil {
			return nil, fmt.Errorf("definition: container %q slot %q: %w", name, slot.Key, err)
		}
		if err := c.AddForm(slot.Key, b, slotOptions(slot)...); err != nil {
			return nil, fmt.Errorf("definition: container %q: %w", name, err)
		}
	}
	if def.Active != "" {
		if err := c.SetActive(def.Active); err != nil {
			return nil, fmt.Errorf("definition: container %q: %w", name, err)
		}
	}
	return c, nil
}

func slotOptions(slot SlotDefinition) []container.SlotOption {
	var opts []container.SlotOption
	if slot.Title != "" {
		opts = append(opts, container.WithTitle(slot.Title))
	}
	if slot.Description != "" {
		opts = append(opts, container.WithDescription(slot.Description))
	}
	if slot.Icon != "" {
		opts = append(opts, container.WithIcon(slot.Icon))
	}
	if slot.Badge != "" {
		opts = append(opts, container.WithBadge(slot.Badge))
	}
	if slot.Class != "" {
		opts = append(opts, container.WithClass(slot.Class))
	}
	if slot.Order != 0 {
		opts = append(opts, container.WithOrder(slot.Order))
	}
	if slot.Hidden {
		opts = append(opts, container.Hidden())
	}
	if slot.Collapsible {
		opts = append(opts, container.Collapsible(slot.Collapsed))
	}
	if len(slot.ShowWhen) > 0 {
		opts = append(opts, container.ShowWhen(slot.ShowWhen...))
	}
	return opts
}
