package definition

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalid reports a malformed definition document.
	ErrInvalid = errors.New("definition: invalid document")
	// ErrUnknownForm is returned when a form name is not defined.
	ErrUnknownForm = errors.New("definition: unknown form")
	// ErrUnknownContainer is returned when a container name is not defined.
	ErrUnknownContainer = errors.New("definition: unknown container")
)

// Parse decodes a JSON or YAML document. source names the document in errors.
func Parse(data []byte, source string) (*Document, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrInvalid, source)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		doc = Document{}
		if yamlErr := yaml.Unmarshal(data, &doc); yamlErr != nil {
			return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalid, source, yamlErr)
		}
	}
	if err := doc.normalise(source); err != nil {
		return nil, err
	}
	return &doc, nil
}

// LoadFile parses the document at path.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("definition: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS walks fsys and merges every JSON or YAML document into one. Names
// must be unique across files.
func LoadFS(fsys fs.FS) (*Document, error) {
	merged := &Document{}
	if err := merged.normalise(""); err != nil {
		return nil, err
	}
	if fsys == nil {
		return merged, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("definition: read %s: %w", path, err)
		}
		doc, err := Parse(data, path)
		if err != nil {
			return err
		}
		return merged.merge(doc)
	})
	if err != nil {
		return nil, err
	}
	return merged, nil
}

// FormNames returns the defined form names, sorted.
func (d *Document) FormNames() []string { return sortedKeys(d.Forms) }

// ContainerNames returns the defined container names, sorted.
func (d *Document) ContainerNames() []string { return sortedKeys(d.Containers) }

// Source returns the file that declared a form or container.
func (d *Document) Source(name string) string { return d.sources[name] }

func (d *Document) normalise(source string) error {
	if d.Forms == nil {
		d.Forms = make(map[string]FormDefinition)
	}
	if d.Containers == nil {
		d.Containers = make(map[string]ContainerDefinition)
	}
	d.sources = make(map[string]string, len(d.Forms)+len(d.Containers))

	for name, form := range d.Forms {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: %s defines a form with an empty name", ErrInvalid, source)
		}
		if err := checkFields(form.Fields, name, source); err != nil {
			return err
		}
		d.sources[name] = source
	}
	for name, container := range d.Containers {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: %s defines a container with an empty name", ErrInvalid, source)
		}
		seen := make(map[string]struct{}, len(container.Slots))
		for idx, slot := range container.Slots {
			key := strings.TrimSpace(slot.Key)
			if key == "" {
				return fmt.Errorf("%w: container %q (%s) slot %d has no key", ErrInvalid, name, source, idx)
			}
			if _, dup := seen[key]; dup {
				return fmt.Errorf("%w: container %q (%s) repeats slot %q", ErrInvalid, name, source, key)
			}
			seen[key] = struct{}{}
		}
		d.sources[name] = source
	}
	return nil
}

func checkFields(fields []FieldDefinition, form, source string) error {
	seen := make(map[string]struct{}, len(fields))
	for idx, def := range fields {
		if def.Name == "" {
			return fmt.Errorf("%w: form %q (%s) field %d has no name", ErrInvalid, form, source, idx)
		}
		if _, dup := seen[def.Name]; dup {
			return fmt.Errorf("%w: form %q (%s) repeats field %q", ErrInvalid, form, source, def.Name)
		}
		seen[def.Name] = struct{}{}
		if err := checkFields(def.Children, form+"."+def.Name, source); err != nil {
			return err
		}
	}
	return nil
}

func (d *Document) merge(other *Document) error {
	for name, form := range other.Forms {
		if _, exists := d.Forms[name]; exists {
			return fmt.Errorf("%w: duplicate form %q (%s and %s)", ErrInvalid, name, d.sources[name], other.sources[name])
		}
		d.Forms[name] = form
		d.sources[name] = other.sources[name]
	}
	for name, container := range other.Containers {
		if _, exists := d.Containers[name]; exists {
			return fmt.Errorf("%w: duplicate container %q (%s and %s)", ErrInvalid, name, d.sources[name], other.sources[name])
		}
		d.Containers[name] = container
		d.sources[name] = other.sources[name]
	}
	return nil
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
