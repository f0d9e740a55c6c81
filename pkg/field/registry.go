package field

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Constructor builds a field of a registered kind.
type Constructor func(name string) *Field

// Registry maps kind names to constructors. Unknown kinds fall back to text so
// definitions written against newer kinds still render.
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
}

// NewRegistry creates an empty registry. Make still falls back to a bare text
// field when nothing is registered.
func NewRegistry() *Registry {
	return &Registry{constructors: make(map[string]Constructor)}
}

// DefaultRegistry returns a registry preloaded with the built-in kinds.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for kind, ctor := range builtins() {
		r.constructors[kind] = ctor
	}
	return r
}

// Register adds a constructor. Duplicate kinds return an error.
func (r *Registry) Register(kind string, ctor Constructor) error {
	kind = normalizeKind(kind)
	if kind == "" {
		return fmt.Errorf("field: kind is required")
	}
	if ctor == nil {
		return fmt.Errorf("field: constructor for %q is required", kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.constructors[kind]; exists {
		return fmt.Errorf("field: kind %q already registered", kind)
	}
	r.constructors[kind] = ctor
	return nil
}

// Extend registers or replaces a constructor.
func (r *Registry) Extend(kind string, ctor Constructor) {
	kind = normalizeKind(kind)
	if kind == "" || ctor == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.constructors[kind] = ctor
}

// Make constructs a field of kind, falling back to text for unknown kinds.
func (r *Registry) Make(kind, name string) *Field {
	kind = normalizeKind(kind)

	r.mu.RLock()
	ctor, ok := r.constructors[kind]
	if !ok {
		ctor = r.constructors[KindText]
	}
	r.mu.RUnlock()

	if ctor == nil {
		return New(name, KindText)
	}
	return ctor(name)
}

// Has reports whether kind is registered.
func (r *Registry) Has(kind string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.constructors[normalizeKind(kind)]
	return ok
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]string, 0, len(r.constructors))
	for kind := range r.constructors {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

func normalizeKind(kind string) string {
	return strings.ToLower(strings.TrimSpace(kind))
}

func plain(kind string) Constructor {
	return func(name string) *Field { return New(name, kind) }
}

func builtins() map[string]Constructor {
	return map[string]Constructor{
		KindText:     plain(KindText),
		KindEmail:    plain(KindEmail),
		KindPassword: plain(KindPassword),
		KindTel:      plain(KindTel),
		KindURL:      plain(KindURL),
		KindColor:    plain(KindColor),
		KindNumber:   plain(KindNumber),
		KindRange: func(name string) *Field {
			low, high := 0.0, 100.0
			f := New(name, KindRange)
			f.Numeric.Min, f.Numeric.Max = &low, &high
			return f
		},
		KindHidden: func(name string) *Field {
			return New(name, KindHidden).SetWidth(TotalColumns)
		},
		KindTextarea: func(name string) *Field {
			return New(name, KindTextarea).SetAttribute("rows", 4)
		},
		KindSelect: plain(KindSelect),
		KindMultiselect: func(name string) *Field {
			f := New(name, KindMultiselect)
			f.Choices.Multiple = true
			return f
		},
		KindRadio:    plain(KindRadio),
		KindCheckbox: plain(KindCheckbox),
		KindToggle:   plain(KindToggle),
		KindDate: func(name string) *Field {
			f := New(name, KindDate)
			f.Temporal.Format = "2006-01-02"
			return f
		},
		KindTime: func(name string) *Field {
			f := New(name, KindTime)
			f.Temporal.Format = "15:04"
			return f
		},
		KindDatetime: func(name string) *Field {
			f := New(name, KindDatetime)
			f.Temporal.Format = "2006-01-02T15:04"
			return f
		},
		KindFile: plain(KindFile),
		KindImage: func(name string) *Field {
			f := New(name, KindImage)
			f.Upload.Accept = "image/*"
			return f
		},
		KindRichText: func(name string) *Field {
			f := New(name, KindRichText).SetWidth(TotalColumns)
			f.Editor = Editor{
				Toolbar:  []string{"bold", "italic", "link", "bulletList", "orderedList"},
				Height:   300,
				Sanitize: true,
			}
			return f
		},
		KindMap: func(name string) *Field {
			f := New(name, KindMap).SetWidth(TotalColumns)
			f.Geo = Geo{Zoom: 13, Provider: "openstreetmap"}
			return f
		},
		KindRepeater: func(name string) *Field {
			return New(name, KindRepeater).SetWidth(TotalColumns)
		},
		KindGroup: func(name string) *Field {
			return New(name, KindGroup).SetWidth(TotalColumns)
		},
		KindDivider: func(name string) *Field {
			return New(name, KindDivider).SetWidth(TotalColumns)
		},
	}
}
