package container

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/pkg/cache"
	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/form"
)

// Container is an ordered, keyed set of form slots. Like form.Builder it is
// single-writer; the cache store it writes to may be shared.
type Container struct {
	cfg    config
	logger *zap.Logger

	slots  map[string]*Slot
	order  []string
	active string
	data   map[string]any

	written map[string]struct{}
}

// New returns an empty container.
func New(opts ...Option) *Container {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.id == "" {
		cfg.id = uuid.NewString()
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	if cfg.store == nil {
		cfg.store = cache.NewMemory(cache.WithCleanupInterval(0))
	}

	return &Container{
		cfg:    cfg,
		logger: cfg.logger.Named("container").With(zap.String("container", cfg.id)),
		slots:  make(map[string]*Slot),
	}
}

// ID returns the container id.
func (c *Container) ID() string { return c.cfg.id }

// AddForm stores f under key, replacing an existing slot with the same key in
// place. The container framework is applied to the form.
func (c *Container) AddForm(key string, f *form.Builder, opts ...SlotOption) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyKey
	}
	if f == nil {
		return fmt.Errorf("%w: %q", ErrNilForm, key)
	}

	slot := &Slot{
		Key:     key,
		Form:    f,
		Title:   field.DefaultLabeler(key),
		Visible: true,
		Order:   len(c.order),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(slot)
		}
	}
	f.SetTheme(c.cfg.framework)

	if _, exists := c.slots[key]; !exists {
		c.order = append(c.order, key)
	}
	c.slots[key] = slot
	c.logger.Debug("form added", zap.String("slot", key))
	return c.structureChanged()
}

// RemoveForm deletes the slot under key. Unknown keys are ignored.
func (c *Container) RemoveForm(key string) error {
	if _, ok := c.slots[key]; !ok {
		return nil
	}
	delete(c.slots, key)
	for i, existing := range c.order {
		if existing == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	if c.active == key {
		c.active = ""
	}
	c.logger.Debug("form removed", zap.String("slot", key))
	return c.structureChanged()
}

func (c *Container) structureChanged() error {
	if !c.cfg.autoClear {
		return nil
	}
	return c.ClearCache(context.Background())
}

// Form returns the builder under key.
func (c *Container) Form(key string) (*form.Builder, bool) {
	slot, ok := c.slots[key]
	if !ok {
		return nil, false
	}
	return slot.Form, true
}

// Slot returns the slot under key.
func (c *Container) Slot(key string) (*Slot, bool) {
	slot, ok := c.slots[key]
	return slot, ok
}

// Keys returns the slot keys in container order.
func (c *Container) Keys() []string {
	return append([]string(nil), c.order...)
}

// Len returns the number of slots.
func (c *Container) Len() int { return len(c.order) }

// Slots returns the slots in container order.
func (c *Container) Slots() []*Slot {
	out := make([]*Slot, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.slots[key])
	}
	return out
}

// Reorder moves the listed keys to the front in the given order. Unknown keys
// are ignored and unlisted slots keep their relative order.
func (c *Container) Reorder(keys ...string) *Container {
	seen := make(map[string]struct{}, len(keys))
	order := make([]string, 0, len(c.order))
	for _, key := range keys {
		if _, ok := c.slots[key]; !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		order = append(order, key)
	}
	for _, key := range c.order {
		if _, ok := seen[key]; !ok {
			order = append(order, key)
		}
	}
	c.order = order
	return c
}

// SortByOrder sorts slots by their Order weight, keeping insertion order for
// ties.
func (c *Container) SortByOrder() *Container {
	sort.SliceStable(c.order, func(i, j int) bool {
		return c.slots[c.order[i]].Order < c.slots[c.order[j]].Order
	})
	return c
}

// Filter keeps the slots for which keep returns true. The active slot is
// reset when it is dropped.
func (c *Container) Filter(keep func(key string, slot *Slot) bool) *Container {
	order := c.order[:0]
	for _, key := range c.order {
		if keep(key, c.slots[key]) {
			order = append(order, key)
			continue
		}
		delete(c.slots, key)
	}
	c.order = order
	if _, ok := c.slots[c.active]; !ok {
		c.active = ""
	}
	if err := c.structureChanged(); err != nil {
		c.logger.Warn("cache clear failed", zap.Error(err))
	}
	return c
}

// VisibleSlots returns the slots shown for data, in container order.
func (c *Container) VisibleSlots(data map[string]any) []*Slot {
	out := make([]*Slot, 0, len(c.order))
	for _, key := range c.order {
		if slot := c.slots[key]; slot.IsVisibleFor(data) {
			out = append(out, slot)
		}
	}
	return out
}

// SetActive marks the slot opened first in tabbed and accordion modes.
func (c *Container) SetActive(key string) error {
	if _, ok := c.slots[key]; !ok {
		return fmt.Errorf("%w: %q", ErrFormNotFound, key)
	}
	c.active = key
	return nil
}

// Active returns the active slot key, defaulting to the first slot.
func (c *Container) Active() string {
	if c.active != "" {
		return c.active
	}
	if len(c.order) > 0 {
		return c.order[0]
	}
	return ""
}

// SetFramework sets the framework and applies it to every slot form.
func (c *Container) SetFramework(name string) *Container {
	if name == "" {
		return c
	}
	c.cfg.framework = name
	for _, key := range c.order {
		c.slots[key].Form.SetTheme(name)
	}
	return c
}

// Framework returns the configured framework.
func (c *Container) Framework() string { return c.cfg.framework }

// SetDisplayMode sets tabbed, accordion or stacked presentation.
func (c *Container) SetDisplayMode(mode string) *Container {
	if mode != "" {
		c.cfg.displayMode = mode
	}
	return c
}

// DisplayMode returns the presentation mode.
func (c *Container) DisplayMode() string { return c.cfg.displayMode }

// SetValidationMode sets individual, combined or sequential validation.
func (c *Container) SetValidationMode(mode string) *Container {
	if mode != "" {
		c.cfg.validationMode = mode
	}
	return c
}

// ValidationMode returns the validation mode.
func (c *Container) ValidationMode() string { return c.cfg.validationMode }

// Fill hands every slot form its sub-map under the slot key, or the whole
// payload when no such sub-map exists.
func (c *Container) Fill(data map[string]any) *Container {
	c.data = data
	for _, key := range c.order {
		c.slots[key].Form.Fill(slotData(data, key))
	}
	return c
}

// FillShared hands the whole payload to every slot form.
func (c *Container) FillShared(data map[string]any) *Container {
	c.data = data
	for _, key := range c.order {
		c.slots[key].Form.Fill(data)
	}
	return c
}

func slotData(data map[string]any, key string) map[string]any {
	if sub, ok := data[key].(map[string]any); ok {
		return sub
	}
	return data
}
