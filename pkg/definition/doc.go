// Package definition loads form and container definitions from JSON or YAML
// documents and turns them into form.Builder and container.Container values.
package definition
