package render

import (
	"context"

	"github.com/goliatone/go-formkit/pkg/model"
)

// Renderer turns serialized forms and containers into markup (HTML, JSON,
// etc.). Implementations must not mutate the schemas they receive.
type Renderer interface {
	Name() string
	ContentType() string
	RenderForm(ctx context.Context, form model.FormSchema, options RenderOptions) ([]byte, error)
	RenderContainer(ctx context.Context, container model.ContainerSchema, options RenderOptions) ([]byte, error)
}
