// Package theme renders form and container schemas to HTML for the
// bootstrap5, bootstrap4, tailwind and bulma frameworks.
//
// Each framework is a go-theme manifest: its tokens are the CSS classes the
// templates emit, its templates map names the partials ("forms.form",
// "forms.field", "forms.container") and its assets resolve stylesheet URLs.
// Hosts register extra manifests or variants, or override the embedded pongo2
// templates with a directory of their own.
package theme
