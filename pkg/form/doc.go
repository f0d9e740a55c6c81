// Package form composes fields into an ordered form (Builder), projects it
// into a render-agnostic model.FormSchema, renders it through a
// render.Renderer and validates submitted data through a
// validation.Validator.
//
// Builders are request-scoped and single-writer; they take no locks.
package form
