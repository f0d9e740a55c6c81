package container

import "errors"

var (
	// ErrFormNotFound is returned when a slot key is unknown.
	ErrFormNotFound = errors.New("container: form not found")
	// ErrEmptyKey is returned when a form is added without a key.
	ErrEmptyKey = errors.New("container: slot key is required")
	// ErrNilForm is returned when a nil builder is added.
	ErrNilForm = errors.New("container: form is nil")
	// ErrNoRenderer is returned by the render operations when no renderer is
	// configured.
	ErrNoRenderer = errors.New("container: renderer not configured")
)
