package field

import "github.com/goliatone/go-formkit/pkg/model"

// Built-in field kinds.
const (
	KindText        = "text"
	KindEmail       = "email"
	KindPassword    = "password"
	KindNumber      = "number"
	KindRange       = "range"
	KindTel         = "tel"
	KindURL         = "url"
	KindColor       = "color"
	KindHidden      = "hidden"
	KindTextarea    = "textarea"
	KindSelect      = "select"
	KindMultiselect = "multiselect"
	KindRadio       = "radio"
	KindCheckbox    = "checkbox"
	KindToggle      = "toggle"
	KindDate        = "date"
	KindTime        = "time"
	KindDatetime    = "datetime"
	KindFile        = "file"
	KindImage       = "image"
	KindRichText    = "richtext"
	KindMap         = "map"
	KindRepeater    = "repeater"
	KindGroup       = "group"
	KindDivider     = "divider"
)

// Choices configures select/radio/checkbox style fields.
type Choices struct {
	Options  []model.Option
	Multiple bool
}

// Upload configures file/image fields. MaxSize is expressed in kilobytes.
type Upload struct {
	Accept   string
	MaxSize  int
	Multiple bool
}

// Numeric configures number/range bounds.
type Numeric struct {
	Min  *float64
	Max  *float64
	Step *float64
}

// Temporal configures date/time bounds. Format is a Go time layout.
type Temporal struct {
	Min    string
	Max    string
	Format string
}

// Editor configures rich text fields.
type Editor struct {
	Toolbar  []string
	Height   int
	Sanitize bool
}

// Geo configures map pickers.
type Geo struct {
	Lat      float64
	Lng      float64
	Zoom     int
	Provider string
}

// Children holds the nested fields of repeater/group kinds.
type Children struct {
	MinItems int
	MaxItems int
	fields   []*Field
}

// Fields returns the owned child fields in order.
func (c *Children) Fields() []*Field {
	if c == nil {
		return nil
	}
	return append([]*Field(nil), c.fields...)
}

// Len reports the number of child fields.
func (c *Children) Len() int {
	if c == nil {
		return 0
	}
	return len(c.fields)
}

func (c *Children) detach(child *Field) {
	for i, existing := range c.fields {
		if existing == child {
			c.fields = append(c.fields[:i], c.fields[i+1:]...)
			return
		}
	}
}

// IsChoice reports whether kind renders a list of options.
func IsChoice(kind string) bool {
	switch kind {
	case KindSelect, KindMultiselect, KindRadio, KindCheckbox:
		return true
	}
	return false
}

// IsUpload reports whether kind accepts file uploads.
func IsUpload(kind string) bool {
	return kind == KindFile || kind == KindImage
}

// IsNumeric reports whether kind carries numeric bounds.
func IsNumeric(kind string) bool {
	return kind == KindNumber || kind == KindRange
}

// IsTemporal reports whether kind carries date/time bounds.
func IsTemporal(kind string) bool {
	return kind == KindDate || kind == KindTime || kind == KindDatetime
}

// IsComposite reports whether kind owns child fields.
func IsComposite(kind string) bool {
	return kind == KindRepeater || kind == KindGroup
}

// IsPresentational reports whether kind carries no submitted value.
func IsPresentational(kind string) bool {
	return kind == KindDivider
}
