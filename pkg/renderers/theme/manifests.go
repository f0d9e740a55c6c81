package theme

import gotheme "github.com/goliatone/go-theme"

// Built-in frameworks.
const (
	Bootstrap5 = "bootstrap5"
	Bootstrap4 = "bootstrap4"
	Tailwind   = "tailwind"
	Bulma      = "bulma"
)

// Partial names resolved through manifest templates.
const (
	PartialForm      = "forms.form"
	PartialField     = "forms.field"
	PartialContainer = "forms.container"
)

// Asset keys resolved through manifest assets.
const (
	AssetStylesheet = "forms.stylesheet"
)

func defaultPartials() map[string]string {
	return map[string]string{
		PartialForm:      "form",
		PartialField:     "field",
		PartialContainer: "container",
	}
}

// BuiltinManifests returns fresh copies of the built-in framework manifests.
func BuiltinManifests() []*gotheme.Manifest {
	return []*gotheme.Manifest{
		bootstrap5Manifest(),
		bootstrap4Manifest(),
		tailwindManifest(),
		bulmaManifest(),
	}
}

func bootstrap5Manifest() *gotheme.Manifest {
	return &gotheme.Manifest{
		Name:    Bootstrap5,
		Version: "5.3.3",
		Tokens: map[string]string{
			"row":              "row g-3",
			"col":              "col-md-{width}",
			"group":            "mb-3",
			"label":            "form-label",
			"input":            "form-control",
			"select":           "form-select",
			"textarea":         "form-control",
			"file":             "form-control",
			"range":            "form-range",
			"check":            "form-check",
			"check_input":      "form-check-input",
			"check_label":      "form-check-label",
			"invalid":          "is-invalid",
			"feedback":         "invalid-feedback d-block",
			"help":             "form-text",
			"required":         "text-danger",
			"submit":           "btn btn-primary",
			"divider":          "my-4",
			"fieldset":         "mb-4",
			"legend":           "h5",
			"alert":            "alert alert-danger",
			"badge":            "badge text-bg-secondary",
			"tabs":             "nav nav-tabs",
			"tab_item":         "nav-item",
			"tab":              "nav-link",
			"tab_active":       "active",
			"panes":            "tab-content pt-3",
			"pane":             "tab-pane",
			"pane_active":      "show active",
			"accordion":        "accordion",
			"accordion_item":   "accordion-item",
			"accordion_header": "accordion-button",
			"accordion_body":   "accordion-body",
			"stack":            "vstack gap-4",
		},
		Templates: defaultPartials(),
		Assets: gotheme.Assets{
			Prefix: "https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css",
			Files:  map[string]string{AssetStylesheet: "bootstrap.min.css"},
		},
		Variants: map[string]gotheme.Variant{
			"compact": {
				Tokens: map[string]string{
					"group":  "mb-2",
					"input":  "form-control form-control-sm",
					"select": "form-select form-select-sm",
					"submit": "btn btn-primary btn-sm",
				},
			},
		},
	}
}

func bootstrap4Manifest() *gotheme.Manifest {
	return &gotheme.Manifest{
		Name:    Bootstrap4,
		Version: "4.6.2",
		Tokens: map[string]string{
			"row":              "form-row",
			"col":              "col-md-{width}",
			"group":            "form-group",
			"input":            "form-control",
			"select":           "form-control",
			"textarea":         "form-control",
			"file":             "form-control-file",
			"range":            "form-control-range",
			"check":            "form-check",
			"check_input":      "form-check-input",
			"check_label":      "form-check-label",
			"invalid":          "is-invalid",
			"feedback":         "invalid-feedback d-block",
			"help":             "form-text text-muted",
			"required":         "text-danger",
			"submit":           "btn btn-primary",
			"divider":          "my-4",
			"legend":           "h5",
			"alert":            "alert alert-danger",
			"badge":            "badge badge-secondary",
			"tabs":             "nav nav-tabs",
			"tab_item":         "nav-item",
			"tab":              "nav-link",
			"tab_active":       "active",
			"panes":            "tab-content pt-3",
			"pane":             "tab-pane fade",
			"pane_active":      "show active",
			"accordion":        "accordion",
			"accordion_item":   "card",
			"accordion_header": "btn btn-link btn-block text-left",
			"accordion_body":   "card-body",
		},
		Templates: defaultPartials(),
		Assets: gotheme.Assets{
			Prefix: "https://cdn.jsdelivr.net/npm/bootstrap@4.6.2/dist/css",
			Files:  map[string]string{AssetStylesheet: "bootstrap.min.css"},
		},
	}
}

func tailwindManifest() *gotheme.Manifest {
	return &gotheme.Manifest{
		Name:    Tailwind,
		Version: "3",
		Tokens: map[string]string{
			"row":              "grid grid-cols-12 gap-4",
			"col":              "col-span-12 md:col-span-{width}",
			"group":            "mb-4",
			"label":            "block text-sm font-medium text-gray-700",
			"input":            "mt-1 block w-full rounded-md border-gray-300 shadow-sm",
			"select":           "mt-1 block w-full rounded-md border-gray-300 shadow-sm",
			"textarea":         "mt-1 block w-full rounded-md border-gray-300 shadow-sm",
			"file":             "mt-1 block w-full text-sm",
			"range":            "mt-1 w-full",
			"check":            "flex items-center gap-2",
			"check_input":      "h-4 w-4 rounded border-gray-300",
			"check_label":      "text-sm text-gray-700",
			"invalid":          "border-red-500",
			"feedback":         "mt-1 text-sm text-red-600",
			"help":             "mt-1 text-sm text-gray-500",
			"required":         "text-red-600",
			"submit":           "rounded-md bg-indigo-600 px-4 py-2 text-white",
			"divider":          "my-6 border-gray-200",
			"fieldset":         "mb-6",
			"legend":           "text-lg font-semibold",
			"alert":            "mb-4 rounded-md bg-red-50 p-4 text-red-700",
			"badge":            "ml-1 rounded bg-gray-100 px-2 text-xs",
			"tabs":             "flex border-b border-gray-200",
			"tab":              "px-4 py-2 text-sm",
			"tab_active":       "border-b-2 border-indigo-600 font-medium",
			"panes":            "pt-4",
			"pane_inactive":    "hidden",
			"accordion":        "divide-y divide-gray-200",
			"accordion_header": "w-full py-3 text-left font-medium",
			"accordion_body":   "pb-4",
			"stack":            "space-y-8",
		},
		Templates: defaultPartials(),
	}
}

func bulmaManifest() *gotheme.Manifest {
	return &gotheme.Manifest{
		Name:    Bulma,
		Version: "1.0.2",
		Tokens: map[string]string{
			"row":              "columns is-multiline",
			"col":              "column is-{width}",
			"group":            "field",
			"label":            "label",
			"input":            "input",
			"select_wrapper":   "select is-fullwidth",
			"textarea":         "textarea",
			"file":             "file-input",
			"range":            "slider",
			"check":            "field",
			"check_label":      "checkbox",
			"invalid":          "is-danger",
			"feedback":         "help is-danger",
			"help":             "help",
			"required":         "has-text-danger",
			"submit":           "button is-primary",
			"divider":          "my-5",
			"legend":           "title is-5",
			"alert":            "notification is-danger",
			"badge":            "tag",
			"tabs_wrapper":     "tabs",
			"tab_item_active":  "is-active",
			"panes":            "pt-4",
			"pane_inactive":    "is-hidden",
			"accordion":        "panel",
			"accordion_item":   "panel-block",
			"accordion_header": "button is-white is-fullwidth",
			"accordion_body":   "content",
		},
		Templates: defaultPartials(),
		Assets: gotheme.Assets{
			Prefix: "https://cdn.jsdelivr.net/npm/bulma@1.0.2/css",
			Files:  map[string]string{AssetStylesheet: "bulma.min.css"},
		},
	}
}
