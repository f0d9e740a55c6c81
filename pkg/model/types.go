package model

import "github.com/goliatone/go-formkit/pkg/visibility"

// Option is a selectable choice for select/radio/checkbox style fields.
type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Disabled bool   `json:"disabled,omitempty"`
	Group    string `json:"group,omitempty"`
}

// Conditional carries the declarative show/hide conditions of a field.
type Conditional struct {
	ShowIf     []visibility.Condition `json:"show_if,omitempty"`
	HideIf     []visibility.Condition `json:"hide_if,omitempty"`
	Expression string                 `json:"expression,omitempty"`
}

// Empty reports whether no condition or expression is configured.
func (c Conditional) Empty() bool {
	return len(c.ShowIf) == 0 && len(c.HideIf) == 0 && c.Expression == ""
}

// UploadMeta describes file/image constraints.
type UploadMeta struct {
	Accept   string `json:"accept,omitempty"`
	MaxSize  int    `json:"maxSize,omitempty"`
	Multiple bool   `json:"multiple,omitempty"`
	IsImage  bool   `json:"isImage,omitempty"`
}

// SelectionMeta describes select/radio/checkbox fields.
type SelectionMeta struct {
	Multiple    bool `json:"multiple,omitempty"`
	OptionCount int  `json:"optionCount"`
}

// NumericMeta describes number/range bounds.
type NumericMeta struct {
	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`
	Step *float64 `json:"step,omitempty"`
}

// TemporalMeta describes date/time bounds.
type TemporalMeta struct {
	Min    string `json:"min,omitempty"`
	Max    string `json:"max,omitempty"`
	Format string `json:"format,omitempty"`
}

// EditorMeta describes rich text editor configuration.
type EditorMeta struct {
	Toolbar  []string `json:"toolbar,omitempty"`
	Height   int      `json:"height,omitempty"`
	Sanitize bool     `json:"sanitize"`
}

// GeoMeta describes map pickers.
type GeoMeta struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Zoom     int     `json:"zoom"`
	Provider string  `json:"provider,omitempty"`
}

// ChildrenMeta describes repeater/group composite fields.
type ChildrenMeta struct {
	Fields   []FieldView `json:"fields"`
	MinItems int         `json:"minItems,omitempty"`
	MaxItems int         `json:"maxItems,omitempty"`
}

// DependencyMeta mirrors field dependency hints.
type DependencyMeta struct {
	DependsOn      string `json:"dependsOn,omitempty"`
	LoadingText    string `json:"loadingText,omitempty"`
	ConfirmMessage string `json:"confirmMessage,omitempty"`
	TrackChanges   bool   `json:"trackChanges,omitempty"`
	Computed       bool   `json:"computed,omitempty"`
}

// FieldMeta groups error state with type-specific metadata. Only the block
// matching the field kind is populated.
type FieldMeta struct {
	HasErrors    bool            `json:"hasErrors"`
	Errors       []string        `json:"errors,omitempty"`
	Tooltip      string          `json:"tooltip,omitempty"`
	Example      string          `json:"example,omitempty"`
	HelpHTML     string          `json:"helpHtml,omitempty"`
	Upload       *UploadMeta     `json:"upload,omitempty"`
	Selection    *SelectionMeta  `json:"selection,omitempty"`
	Numeric      *NumericMeta    `json:"numeric,omitempty"`
	Temporal     *TemporalMeta   `json:"temporal,omitempty"`
	Editor       *EditorMeta     `json:"editor,omitempty"`
	Geo          *GeoMeta        `json:"geo,omitempty"`
	Children     *ChildrenMeta   `json:"children,omitempty"`
	Dependencies *DependencyMeta `json:"dependencies,omitempty"`
}

// FieldView is the serialized form of a single field.
type FieldView struct {
	Name         string            `json:"name"`
	Type         string            `json:"type"`
	Label        string            `json:"label"`
	Value        any               `json:"value"`
	Placeholder  string            `json:"placeholder,omitempty"`
	Help         string            `json:"help,omitempty"`
	Required     bool              `json:"required"`
	Disabled     bool              `json:"disabled"`
	Readonly     bool              `json:"readonly"`
	Attributes   map[string]any    `json:"attributes,omitempty"`
	Validation   string            `json:"validation,omitempty"`
	Options      []Option          `json:"options,omitempty"`
	Class        string            `json:"class,omitempty"`
	ID           string            `json:"id"`
	Step         int               `json:"step"`
	Width        int               `json:"width"`
	TotalColumns int               `json:"totalColumns"`
	Row          string            `json:"row,omitempty"`
	Group        string            `json:"group,omitempty"`
	Section      string            `json:"section,omitempty"`
	I18n         map[string]string `json:"i18n,omitempty"`
	Conditional  Conditional       `json:"conditional"`
	Meta         FieldMeta         `json:"meta"`
}

// FormConfig holds form-level attributes.
type FormConfig struct {
	Action        string         `json:"action"`
	Method        string         `json:"method"`
	SpoofedMethod string         `json:"spoofedMethod,omitempty"`
	Enctype       string         `json:"enctype,omitempty"`
	CSRF          bool           `json:"csrf"`
	AJAX          bool           `json:"ajax"`
	Theme         string         `json:"theme"`
	MultiStep     bool           `json:"multiStep"`
	Attributes    map[string]any `json:"attributes,omitempty"`
}

// ValidationSpec is the rule map handed to validators.
type ValidationSpec struct {
	Rules    map[string]string `json:"rules"`
	Messages map[string]string `json:"messages,omitempty"`
}

// Step is one multi-step bucket.
type Step struct {
	Number int      `json:"number"`
	Title  string   `json:"title"`
	Fields []string `json:"fields"`
}

// FormMeta summarises the serialized form.
type FormMeta struct {
	FieldCount     int      `json:"fieldCount"`
	RequiredFields []string `json:"requiredFields"`
	HasFileUploads bool     `json:"hasFileUploads"`
	Steps          []Step   `json:"steps,omitempty"`
}

// FormSchema is the render-agnostic output of a form builder.
type FormSchema struct {
	Config     FormConfig     `json:"config"`
	Fields     []FieldView    `json:"fields"`
	Validation ValidationSpec `json:"validation"`
	Data       map[string]any `json:"data"`
	Meta       FormMeta       `json:"meta"`
}

// Field returns the serialized field with the given name.
func (s FormSchema) Field(name string) (FieldView, bool) {
	for _, field := range s.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldView{}, false
}

// SlotView is the serialized form of a container slot.
type SlotView struct {
	Key         string     `json:"key"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Icon        string     `json:"icon,omitempty"`
	Badge       string     `json:"badge,omitempty"`
	Collapsible bool       `json:"collapsible"`
	Collapsed   bool       `json:"collapsed"`
	Order       int        `json:"order"`
	Class       string     `json:"class,omitempty"`
	Active      bool       `json:"active"`
	Form        FormSchema `json:"form"`
}

// ContainerConfig holds container-level attributes.
type ContainerConfig struct {
	ID             string `json:"id"`
	DisplayMode    string `json:"displayMode"`
	ActiveForm     string `json:"activeForm,omitempty"`
	Framework      string `json:"framework"`
	ValidationMode string `json:"validationMode"`
}

// ContainerSchema is the render-agnostic output of a form container.
type ContainerSchema struct {
	Config ContainerConfig `json:"config"`
	Slots  []SlotView      `json:"slots"`
}
