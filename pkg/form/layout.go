package form

import (
	"strconv"

	"github.com/goliatone/go-formkit/pkg/field"
)

// Row stamps fields with rowID (row1, row2, ... when empty) and the currently
// open group and section. Fields not yet on the form are added. The row id is
// returned.
func (b *Builder) Row(rowID string, fields ...*field.Field) string {
	if rowID == "" {
		b.rowCounter++
		rowID = "row" + strconv.Itoa(b.rowCounter)
	}
	for _, f := range fields {
		if f == nil {
			continue
		}
		f.Layout.Row = rowID
		if b.currentGroup != "" {
			f.Layout.Group = b.currentGroup
		}
		if b.currentSection != "" {
			f.Layout.Section = b.currentSection
		}
		if existing, ok := b.fields[f.Name()]; !ok || existing != f {
			b.record(b.AddField(f))
		}
	}
	return rowID
}

// Group opens a group tag stamped on fields added until EndGroup. Only one
// group is open at a time.
func (b *Builder) Group(name string) *Builder {
	b.currentGroup = name
	return b
}

// EndGroup closes the open group.
func (b *Builder) EndGroup() *Builder {
	b.currentGroup = ""
	return b
}

// Section opens a section tag stamped on fields added until EndSection.
func (b *Builder) Section(name string) *Builder {
	b.currentSection = name
	return b
}

// EndSection closes the open section.
func (b *Builder) EndSection() *Builder {
	b.currentSection = ""
	return b
}

// Divider adds a presentational divider named divider1, divider2, ...
func (b *Builder) Divider(label string) *field.Field {
	b.dividerCounter++
	f := b.helper(field.KindDivider, "divider"+strconv.Itoa(b.dividerCounter))
	if label != "" {
		f.SetLabel(label)
	}
	return f
}
