package field

// DefaultWidth is the grid width used when neither the field nor the owning
// builder sets one.
const DefaultWidth = 6

// TotalColumns is the grid size widths are expressed against.
const TotalColumns = 12

// Layout carries presentation bucketing hints. Row, Group and Section are
// free-text tags with no effect on validation or visibility.
type Layout struct {
	Width     int
	Row       string
	Group     string
	Section   string
	Columns   int
	Step      int
	StepTitle string
}

// ResolvedWidth returns Width, falling back to defaultWidth and then
// DefaultWidth, clamped to [1, totalColumns].
func (l Layout) ResolvedWidth(defaultWidth, totalColumns int) int {
	if totalColumns <= 0 {
		totalColumns = TotalColumns
	}
	width := l.Width
	if width <= 0 {
		width = defaultWidth
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if width > totalColumns {
		width = totalColumns
	}
	return width
}

// ResolvedStep returns Step, defaulting to 1.
func (l Layout) ResolvedStep() int {
	if l.Step <= 0 {
		return 1
	}
	return l.Step
}
