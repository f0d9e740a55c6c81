package container

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/visibility"
)

// ToArray projects the visible slots for principal. Cached projections are
// stored as JSON, so values read back from the cache carry JSON types.
func (c *Container) ToArray(ctx context.Context, principal visibility.Principal) (model.ContainerSchema, error) {
	if !c.cfg.cacheEnabled {
		return c.schema(principal), nil
	}

	payload, err := c.cached(ctx, "to_array", principal, func(context.Context) ([]byte, error) {
		return json.Marshal(c.schema(principal))
	})
	if err != nil {
		return model.ContainerSchema{}, err
	}
	var schema model.ContainerSchema
	if err := json.Unmarshal(payload, &schema); err != nil {
		return model.ContainerSchema{}, fmt.Errorf("container: decode cached schema: %w", err)
	}
	return schema, nil
}

func (c *Container) schema(principal visibility.Principal) model.ContainerSchema {
	active := c.Active()
	visible := c.VisibleSlots(c.data)

	schema := model.ContainerSchema{
		Config: model.ContainerConfig{
			ID:             c.cfg.id,
			DisplayMode:    c.cfg.displayMode,
			ActiveForm:     active,
			Framework:      c.cfg.framework,
			ValidationMode: c.cfg.validationMode,
		},
		Slots: make([]model.SlotView, 0, len(visible)),
	}
	for _, slot := range visible {
		schema.Slots = append(schema.Slots, model.SlotView{
			Key:         slot.Key,
			Title:       slot.Title,
			Description: slot.Description,
			Icon:        render.SanitizeIcon(slot.Icon),
			Badge:       slot.Badge,
			Collapsible: slot.Collapsible,
			Collapsed:   slot.Collapsed,
			Order:       slot.Order,
			Class:       slot.Class,
			Active:      slot.Key == active,
			Form:        slot.Form.ToArray(principal),
		})
	}
	return schema
}

func (c *Container) renderOptions() render.RenderOptions {
	opts := c.cfg.renderOptions
	if opts.Framework == "" {
		opts.Framework = c.cfg.framework
	}
	return opts
}

// Render renders the whole container through the configured renderer.
func (c *Container) Render(ctx context.Context, principal visibility.Principal) ([]byte, error) {
	renderer := c.cfg.renderer
	if renderer == nil {
		return nil, ErrNoRenderer
	}
	return c.cached(ctx, "render", principal, func(ctx context.Context) ([]byte, error) {
		out, err := renderer.RenderContainer(ctx, c.schema(principal), c.renderOptions())
		if err != nil {
			return nil, fmt.Errorf("container: render with %s: %w", renderer.Name(), err)
		}
		return out, nil
	})
}

// SingleFormArray projects the form under key alone.
func (c *Container) SingleFormArray(key string, principal visibility.Principal) (model.FormSchema, error) {
	slot, ok := c.slots[key]
	if !ok {
		return model.FormSchema{}, fmt.Errorf("%w: %q", ErrFormNotFound, key)
	}
	return slot.Form.ToArray(principal), nil
}

// RenderSingleForm renders the form under key alone.
func (c *Container) RenderSingleForm(ctx context.Context, key string, principal visibility.Principal) ([]byte, error) {
	schema, err := c.SingleFormArray(key, principal)
	if err != nil {
		return nil, err
	}
	renderer := c.cfg.renderer
	if renderer == nil {
		return nil, ErrNoRenderer
	}
	return c.cached(ctx, "render_form:"+key, principal, func(ctx context.Context) ([]byte, error) {
		out, err := renderer.RenderForm(ctx, schema, c.renderOptions())
		if err != nil {
			return nil, fmt.Errorf("container: render %q with %s: %w", key, renderer.Name(), err)
		}
		return out, nil
	})
}
