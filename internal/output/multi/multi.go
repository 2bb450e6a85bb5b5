// Package multi sends each rotation outcome to the terminal output and the
// report file together.
package multi

import (
	"context"
	"errors"
	"fmt"

	"github.com/crimson-sun/logrotate/internal/model"
	"github.com/crimson-sun/logrotate/internal/output"
)

// Multi delivers every outcome to each of its outputs in order. A failing
// output does not stop the others from seeing the outcome.
type Multi struct {
	outputs []output.Output
}

// New returns a Multi over the non-nil outputs, so an unset report file can be
// passed straight through.
func New(outputs ...output.Output) *Multi {
	m := &Multi{}
	for _, o := range outputs {
		if o != nil {
			m.outputs = append(m.outputs, o)
		}
	}
	return m
}

// Len reports how many outputs receive outcomes.
func (m *Multi) Len() int { return len(m.outputs) }

// Write delivers the outcome for one log entry. Errors name the entry path
// and the output's position.
func (m *Multi) Write(ctx context.Context, outcome model.Outcome) error {
	var errs []error
	for i, o := range m.outputs {
		if err := o.Write(ctx, outcome); err != nil {
			errs = append(errs, fmt.Errorf("output %d: writing outcome for %s: %w", i, outcome.Path, err))
		}
	}
	return errors.Join(errs...)
}

// Close closes every output.
func (m *Multi) Close() error {
	var errs []error
	for i, o := range m.outputs {
		if err := o.Close(); err != nil {
			errs = append(errs, fmt.Errorf("output %d: close: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
