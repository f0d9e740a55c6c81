package field

import (
	"github.com/goliatone/go-formkit/pkg/model"
)

// View serializes the field into the flat record renderers consume. Width is
// resolved against defaultWidth when the field leaves it unset.
func (f *Field) View(defaultWidth, totalColumns int) model.FieldView {
	if totalColumns <= 0 {
		totalColumns = TotalColumns
	}
	view := model.FieldView{
		Name:         f.name,
		Type:         f.kind,
		Label:        f.Label(),
		Value:        f.value,
		Placeholder:  f.placeholder,
		Help:         f.help,
		Required:     f.Validation.Required,
		Disabled:     f.disabled,
		Readonly:     f.readonly,
		Attributes:   f.htmlAttributes(),
		Validation:   f.Validation.EffectiveRules(),
		Class:        f.Attrs.Class(),
		ID:           f.ID(),
		Step:         f.Layout.ResolvedStep(),
		Width:        f.Layout.ResolvedWidth(defaultWidth, totalColumns),
		TotalColumns: totalColumns,
		Row:          f.Layout.Row,
		Group:        f.Layout.Group,
		Section:      f.Layout.Section,
		I18n:         f.TranslationKeys(),
		Conditional: model.Conditional{
			ShowIf:     f.Visibility.ShowIf,
			HideIf:     f.Visibility.HideIf,
			Expression: f.Visibility.Expression,
		},
		Meta: model.FieldMeta{
			HasErrors: f.HasErrors(),
			Errors:    f.Errors(),
			Tooltip:   f.tooltip,
			Example:   f.example,
		},
	}
	if len(f.Choices.Options) > 0 {
		view.Options = append([]model.Option(nil), f.Choices.Options...)
	}
	f.describeKind(&view.Meta, defaultWidth, totalColumns)
	if !f.Dependencies.empty() {
		view.Meta.Dependencies = &model.DependencyMeta{
			DependsOn:      f.Dependencies.DependsOn,
			LoadingText:    f.Dependencies.LoadingText,
			ConfirmMessage: f.Dependencies.ConfirmMessage,
			TrackChanges:   f.Dependencies.TrackChanges,
			Computed:       f.Dependencies.Computed != nil,
		}
	}
	return view
}

func (f *Field) describeKind(meta *model.FieldMeta, defaultWidth, totalColumns int) {
	switch {
	case IsUpload(f.kind):
		meta.Upload = &model.UploadMeta{
			Accept:   f.Accept(),
			MaxSize:  f.Upload.MaxSize,
			Multiple: f.Multiple(),
			IsImage:  f.kind == KindImage,
		}
	case IsChoice(f.kind):
		meta.Selection = &model.SelectionMeta{
			Multiple:    f.Multiple(),
			OptionCount: len(f.Choices.Options),
		}
	case IsNumeric(f.kind):
		meta.Numeric = &model.NumericMeta{
			Min:  cloneFloat(f.Numeric.Min),
			Max:  cloneFloat(f.Numeric.Max),
			Step: cloneFloat(f.Numeric.Step),
		}
	case IsTemporal(f.kind):
		meta.Temporal = &model.TemporalMeta{
			Min:    f.Temporal.Min,
			Max:    f.Temporal.Max,
			Format: f.Temporal.Format,
		}
	case f.kind == KindRichText:
		meta.Editor = &model.EditorMeta{
			Toolbar:  append([]string(nil), f.Editor.Toolbar...),
			Height:   f.Editor.Height,
			Sanitize: f.Editor.Sanitize,
		}
	case f.kind == KindMap:
		meta.Geo = &model.GeoMeta{
			Lat:      f.Geo.Lat,
			Lng:      f.Geo.Lng,
			Zoom:     f.Geo.Zoom,
			Provider: f.Geo.Provider,
		}
	case f.Children != nil:
		children := &model.ChildrenMeta{
			Fields:   make([]model.FieldView, 0, f.Children.Len()),
			MinItems: f.Children.MinItems,
			MaxItems: f.Children.MaxItems,
		}
		for _, child := range f.Children.fields {
			children.Fields = append(children.Fields, child.View(defaultWidth, totalColumns))
		}
		meta.Children = children
	}
}

// htmlAttributes merges the attribute bag with attributes derived from the
// variant config so renderers can emit them verbatim.
func (f *Field) htmlAttributes() map[string]any {
	attrs := f.Attrs.All()
	set := func(key string, value any) {
		if attrs == nil {
			attrs = make(map[string]any)
		}
		attrs[key] = value
	}

	switch {
	case IsNumeric(f.kind):
		if f.Numeric.Min != nil {
			set("min", *f.Numeric.Min)
		}
		if f.Numeric.Max != nil {
			set("max", *f.Numeric.Max)
		}
		if f.Numeric.Step != nil {
			set("step", *f.Numeric.Step)
		}
	case IsTemporal(f.kind):
		if f.Temporal.Min != "" {
			set("min", f.Temporal.Min)
		}
		if f.Temporal.Max != "" {
			set("max", f.Temporal.Max)
		}
	case IsUpload(f.kind):
		if accept := f.Accept(); accept != "" {
			set("accept", accept)
		}
		if f.Multiple() {
			set("multiple", true)
		}
	case IsChoice(f.kind):
		if f.Multiple() {
			set("multiple", true)
		}
	}
	if attrs != nil {
		delete(attrs, "id")
	}
	return attrs
}
