package form

import "errors"

var (
	// ErrEmptyName is returned when a field is added without a name.
	ErrEmptyName = errors.New("form: field name is required")
	// ErrNoRenderer is returned by Render when no renderer is configured.
	ErrNoRenderer = errors.New("form: renderer not configured")
)
