package container

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// CombinedKey is the Report.Map entry aggregating combined validation.
const CombinedKey = "_combined"

// Combined aggregates every slot in combined mode.
type Combined struct {
	Valid bool
	// Errors holds the error map of each failing slot.
	Errors map[string]map[string][]string
}

// Report is the outcome of Container.Validate.
type Report struct {
	Mode string
	// Order lists the evaluated slots. In sequential mode it stops at the
	// first failure.
	Order   []string
	Results map[string]bool
	// Errors holds the error map of each failing slot in every mode.
	Errors   map[string]map[string][]string
	Combined *Combined
}

// Valid reports whether every evaluated slot passed.
func (r Report) Valid() bool {
	for _, ok := range r.Results {
		if !ok {
			return false
		}
	}
	return true
}

// Map returns slot -> bool, plus CombinedKey -> {valid, errors} in combined
// mode.
func (r Report) Map() map[string]any {
	out := make(map[string]any, len(r.Results)+1)
	for key, ok := range r.Results {
		out[key] = ok
	}
	if r.Combined != nil {
		errs := make(map[string]any, len(r.Combined.Errors))
		for key, fieldErrors := range r.Combined.Errors {
			errs[key] = fieldErrors
		}
		out[CombinedKey] = map[string]any{
			"valid":  r.Combined.Valid,
			"errors": errs,
		}
	}
	return out
}

// Validate validates every slot form against its portion of data (the
// sub-map under the slot key, or the whole payload) under the container's
// validation mode. Sequential mode stops at the first failing slot; later
// slots are absent from the report.
func (c *Container) Validate(ctx context.Context, data map[string]any) (Report, error) {
	mode := c.cfg.validationMode
	switch mode {
	case ValidateIndividual, ValidateCombined, ValidateSequential:
	default:
		return Report{}, fmt.Errorf("container: unknown validation mode %q", mode)
	}

	report := Report{
		Mode:    mode,
		Results: make(map[string]bool, len(c.order)),
		Errors:  make(map[string]map[string][]string),
	}

	for _, key := range c.order {
		result, err := c.slots[key].Form.Validate(ctx, slotData(data, key))
		if err != nil {
			return Report{}, fmt.Errorf("container: validate %q: %w", key, err)
		}
		report.Order = append(report.Order, key)
		report.Results[key] = result.Passed
		if !result.Passed {
			report.Errors[key] = result.Errors
			if mode == ValidateSequential {
				break
			}
		}
	}

	if mode == ValidateCombined {
		report.Combined = &Combined{Valid: report.Valid(), Errors: report.Errors}
	}

	c.logger.Debug("container validated",
		zap.String("mode", mode),
		zap.Int("evaluated", len(report.Order)),
		zap.Int("failed", len(report.Errors)),
	)
	return report, nil
}
