package render

// RenderOptions describe per-request data that renderers can use to customise
// their output without mutating the builder that produced the schema.
type RenderOptions struct {
	// Method overrides the HTTP method declared by the form config. Verbs other
	// than GET/POST are spoofed through a hidden _method input.
	Method string
	// Framework overrides the theme declared by the form or container config
	// (bootstrap5, bootstrap4, tailwind, bulma).
	Framework string
	// Variant selects a variant of the framework theme manifest.
	Variant string
	// Values pre-populates rendered controls using dotted field paths (e.g.
	// "address.city"). Values win over the data filled into the builder.
	Values map[string]any
	// Errors surfaces server-side validation feedback keyed by field path.
	// Use MapErrors to normalise payloads that use JSON pointer style paths.
	Errors map[string][]string
	// FormErrors are rendered above the fields.
	FormErrors []string
	// HiddenFields are emitted as hidden inputs (CSRF tokens, versions).
	HiddenFields map[string]string
	// Subset limits the rendered fields to the given groups, sections or rows.
	Subset FieldSubset
	// Locale and Translator resolve translation keys declared on fields.
	Locale     string
	Translator Translator
	// OnMissing controls the text used when a translation is missing.
	OnMissing MissingTranslationHandler
}
