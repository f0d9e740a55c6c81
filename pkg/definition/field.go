package definition

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formkit/pkg/field"
)

// UnmarshalJSON implements json.Unmarshaler.
func (d *FieldDefinition) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return d.fromMap(raw)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *FieldDefinition) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	return d.fromMap(raw)
}

func (d *FieldDefinition) fromMap(raw map[string]any) error {
	*d = FieldDefinition{Options: field.Options{}}
	for key, value := range raw {
		switch key {
		case "name":
			d.Name = strings.TrimSpace(fmt.Sprint(value))
		case "type", "kind":
			d.Type = strings.TrimSpace(fmt.Sprint(value))
		case "children", "fields":
			items, ok := value.([]any)
			if !ok {
				return fmt.Errorf("%s must be a list, got %T", key, value)
			}
			for _, item := range items {
				entry, ok := item.(map[string]any)
				if !ok {
					return fmt.Errorf("%s entries must be objects, got %T", key, item)
				}
				var child FieldDefinition
				if err := child.fromMap(entry); err != nil {
					return err
				}
				d.Children = append(d.Children, child)
			}
		default:
			d.Options[key] = value
		}
	}
	return nil
}

// build constructs the field and its children through registry.
func (d FieldDefinition) build(registry *field.Registry) (*field.Field, error) {
	f := registry.Make(d.Type, d.Name)
	if err := f.Apply(d.Options); err != nil {
		return nil, fmt.Errorf("field %q: %w", d.Name, err)
	}
	for _, childDef := range d.Children {
		child, err := childDef.build(registry)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", d.Name, err)
		}
		if err := f.AddChild(child); err != nil {
			return nil, fmt.Errorf("field %q: %w", d.Name, err)
		}
	}
	return f, nil
}
