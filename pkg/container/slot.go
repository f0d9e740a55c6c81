package container

import (
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/visibility"
)

// Slot wraps a form with its presentation inside the container.
type Slot struct {
	Key         string
	Form        *form.Builder
	Title       string
	Description string
	Icon        string
	Badge       string
	Visible     bool
	Collapsible bool
	Collapsed   bool
	Order       int
	Class       string
	Conditions  []visibility.Condition
}

// IsVisibleFor reports whether the slot is shown for data: the static flag
// must be set and every condition must hold.
func (s *Slot) IsVisibleFor(data map[string]any) bool {
	if !s.Visible {
		return false
	}
	return len(s.Conditions) == 0 || visibility.All(s.Conditions, data)
}

// SlotOption configures a slot added with AddForm.
type SlotOption func(*Slot)

// WithTitle sets the tab or panel title. Defaults to the labelled key.
func WithTitle(title string) SlotOption {
	return func(s *Slot) { s.Title = title }
}

// WithDescription sets the slot description.
func WithDescription(description string) SlotOption {
	return func(s *Slot) { s.Description = description }
}

// WithIcon sets the slot icon (class names or inline svg).
func WithIcon(icon string) SlotOption {
	return func(s *Slot) { s.Icon = icon }
}

// WithBadge sets the slot badge.
func WithBadge(badge string) SlotOption {
	return func(s *Slot) { s.Badge = badge }
}

// Hidden hides the slot.
func Hidden() SlotOption {
	return func(s *Slot) { s.Visible = false }
}

// Collapsible makes an accordion slot collapsible, optionally starting
// collapsed.
func Collapsible(collapsed bool) SlotOption {
	return func(s *Slot) {
		s.Collapsible = true
		s.Collapsed = collapsed
	}
}

// WithOrder sets the sort weight used by SortByOrder.
func WithOrder(order int) SlotOption {
	return func(s *Slot) { s.Order = order }
}

// WithClass sets the slot CSS class.
func WithClass(class string) SlotOption {
	return func(s *Slot) { s.Class = class }
}

// ShowWhen shows the slot only when all conditions hold against the filled
// data.
func ShowWhen(conditions ...visibility.Condition) SlotOption {
	return func(s *Slot) { s.Conditions = append(s.Conditions, conditions...) }
}
