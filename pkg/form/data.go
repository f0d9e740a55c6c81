package form

import (
	"context"
	"fmt"
	"maps"

	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/validation"
	"github.com/goliatone/go-formkit/pkg/visibility"
)

// Fill populates fields from data (dotted and bracketed names resolve into
// nested maps) and then runs computed transforms against the same data. The
// result cache is not invalidated.
func (b *Builder) Fill(data map[string]any) *Builder {
	b.data = maps.Clone(data)
	for _, name := range b.order {
		f := b.fields[name]
		if value, ok := visibility.Lookup(data, name); ok {
			f.Fill(value)
		}
	}
	for _, name := range b.order {
		if _, ok := b.fields[name].Compute(data); ok {
			b.logger.Debug("field computed", zap.String("field", name))
		}
	}
	return b
}

// Data returns a copy of the data passed to the last Fill.
func (b *Builder) Data() map[string]any {
	if b.data == nil {
		return map[string]any{}
	}
	return maps.Clone(b.data)
}

// Rules projects the effective rule string of every field. Children of group
// fields are keyed by dotted path.
func (b *Builder) Rules() map[string]string {
	rules := make(map[string]string)
	for _, name := range b.order {
		collectRules(rules, "", b.fields[name])
	}
	return rules
}

func collectRules(dst map[string]string, prefix string, f *field.Field) {
	path := f.Name()
	if prefix != "" {
		path = prefix + "." + path
	}
	if expr := f.Validation.EffectiveRules(); expr != "" && !field.IsPresentational(f.Kind()) {
		dst[path] = expr
	}
	if f.Kind() == field.KindGroup && f.Children != nil {
		for _, child := range f.Children.Fields() {
			collectRules(dst, path, child)
		}
	}
}

// Messages projects the per-rule messages as "field.rule" keys.
func (b *Builder) Messages() map[string]string {
	messages := make(map[string]string)
	for _, name := range b.order {
		for rule, message := range b.fields[name].Validation.Messages {
			messages[name+"."+rule] = message
		}
	}
	return messages
}

func (b *Builder) labels() map[string]string {
	labels := make(map[string]string, len(b.order))
	for _, name := range b.order {
		labels[name] = b.fields[name].Label()
	}
	return labels
}

// SetErrors replaces the error state. Fields listed in errors carry the
// messages; every other field is cleared. Keys without a matching field stay
// reachable through Errors.
func (b *Builder) SetErrors(errors map[string][]string) *Builder {
	b.errors = make(map[string][]string, len(errors))
	for key, messages := range errors {
		b.errors[key] = append([]string(nil), messages...)
	}
	for _, name := range b.order {
		b.fields[name].SetErrors(b.errors[name])
	}
	return b
}

// Errors returns a copy of the error state.
func (b *Builder) Errors() map[string][]string {
	out := make(map[string][]string, len(b.errors))
	for key, messages := range b.errors {
		out[key] = append([]string(nil), messages...)
	}
	return out
}

// Validate checks data against the projected rules. Fields whose required
// conditions hold against data are validated as required. The failures are
// recorded as the builder error state.
func (b *Builder) Validate(ctx context.Context, data map[string]any) (validation.Result, error) {
	if b.err != nil {
		return validation.Result{}, b.err
	}

	rules := b.Rules()
	for _, name := range b.order {
		f := b.fields[name]
		if f.Required() || !f.IsRequiredFor(data) {
			continue
		}
		if expr := rules[name]; expr == "" {
			rules[name] = "required"
		} else if !f.Validation.HasRule("required") {
			rules[name] = "required|" + expr
		}
	}

	result, err := b.cfg.validator.Validate(ctx, validation.Request{
		Rules:    rules,
		Data:     data,
		Messages: b.Messages(),
		Labels:   b.labels(),
	})
	if err != nil {
		return validation.Result{}, fmt.Errorf("form: validate: %w", err)
	}

	b.SetErrors(result.Errors)
	b.logger.Debug("form validated",
		zap.Bool("passed", result.Passed),
		zap.Int("rules", len(rules)),
		zap.Int("failed", len(result.Errors)),
	)
	return result, nil
}
