package field

// ComputeFunc derives a field value from submitted data. It must be pure.
type ComputeFunc func(data map[string]any) any

// Dependencies holds inter-field hints consumed by renderers and by Compute.
type Dependencies struct {
	DependsOn      string
	Computed       ComputeFunc
	LoadingText    string
	ConfirmMessage string
	TrackChanges   bool
}

func (d Dependencies) empty() bool {
	return d.DependsOn == "" && d.Computed == nil && d.LoadingText == "" &&
		d.ConfirmMessage == "" && !d.TrackChanges
}
