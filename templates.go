package formkit

import (
	"io/fs"

	"github.com/goliatone/go-formkit/pkg/renderers/theme"
)

// EmbeddedTemplates exposes the built-in theme renderer templates so callers
// can copy or override them (see theme.WithTemplateDir).
func EmbeddedTemplates() fs.FS {
	return theme.Templates()
}
