package output

import (
	"context"

	"github.com/crimson-sun/logrotate/internal/model"
)

// Output defines the interface for rotation outcome destinations.
type Output interface {
	Write(ctx context.Context, outcome model.Outcome) error
	Close() error
}
