package definition

import (
	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/visibility"
)

// Document groups the forms and containers declared by one or more files.
type Document struct {
	Forms      map[string]FormDefinition      `json:"forms" yaml:"forms"`
	Containers map[string]ContainerDefinition `json:"containers" yaml:"containers"`

	sources map[string]string
}

// FormDefinition declares a form. Steps maps step numbers to titles.
type FormDefinition struct {
	Action     string            `json:"action" yaml:"action"`
	Method     string            `json:"method" yaml:"method"`
	Theme      string            `json:"theme" yaml:"theme"`
	CSRF       bool              `json:"csrf" yaml:"csrf"`
	AJAX       bool              `json:"ajax" yaml:"ajax"`
	MultiStep  bool              `json:"multi_step" yaml:"multi_step"`
	Steps      map[int]string    `json:"steps" yaml:"steps"`
	Attributes map[string]any    `json:"attributes" yaml:"attributes"`
	Fields     []FieldDefinition `json:"fields" yaml:"fields"`
}

// FieldDefinition declares a field. Every key other than name, type and
// children is handed to field.Field.Apply.
type FieldDefinition struct {
	Name     string
	Type     string
	Children []FieldDefinition
	Options  field.Options
}

// ContainerDefinition declares a container of form slots.
type ContainerDefinition struct {
	ID             string           `json:"id" yaml:"id"`
	DisplayMode    string           `json:"display_mode" yaml:"display_mode"`
	Framework      string           `json:"framework" yaml:"framework"`
	ValidationMode string           `json:"validation_mode" yaml:"validation_mode"`
	Active         string           `json:"active" yaml:"active"`
	Slots          []SlotDefinition `json:"slots" yaml:"slots"`
}

// SlotDefinition places a form in a container. Form defaults to Key.
type SlotDefinition struct {
	Key         string                 `json:"key" yaml:"key"`
	Form        string                 `json:"form" yaml:"form"`
	Title       string                 `json:"title" yaml:"title"`
	Description string                 `json:"description" yaml:"description"`
	Icon        string                 `json:"icon" yaml:"icon"`
	Badge       string                 `json:"badge" yaml:"badge"`
	Class       string                 `json:"class" yaml:"class"`
	Order       int                    `json:"order" yaml:"order"`
	Hidden      bool                   `json:"hidden" yaml:"hidden"`
	Collapsible bool                   `json:"collapsible" yaml:"collapsible"`
	Collapsed   bool                   `json:"collapsed" yaml:"collapsed"`
	ShowWhen    []visibility.Condition `json:"show_when" yaml:"show_when"`
}

// FormRef returns the form the slot renders.
func (s SlotDefinition) FormRef() string {
	if s.Form != "" {
		return s.Form
	}
	return s.Key
}
