// Package model defines the render-agnostic structures produced by form
// builders and containers and consumed by renderers. Field records mirror the
// flat map renderers expect (name, type, label, value, layout, conditional
// metadata and type-specific meta) so templates never reach back into the
// field model. JSON tags keep snapshots deterministic and let renderers that
// work on plain maps (pongo2 contexts, HTTP payloads) consume the same shape.
package model
