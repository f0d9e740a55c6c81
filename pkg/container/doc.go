// Package container groups several form builders into one renderable unit
// (tabs, accordion or stacked sections), validates them together under a
// validation mode, and caches projections in a cache.Store.
package container
