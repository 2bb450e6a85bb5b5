package logrotate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/crimson-sun/logrotate/internal/engine"
	"github.com/crimson-sun/logrotate/internal/engine/chain"
	"github.com/crimson-sun/logrotate/internal/engine/gate"
	"github.com/crimson-sun/logrotate/internal/model"
	"github.com/crimson-sun/logrotate/internal/pipeline"
	"github.com/crimson-sun/logrotate/internal/source"
	"github.com/crimson-sun/logrotate/internal/source/args"
)

// Rotator rotates log families with a fixed configuration.
type Rotator struct {
	engine *engine.Engine
	opts   options
}

// New creates a Rotator. It fails on a max entries value outside 1..100 or
// a negative threshold.
func New(opts ...Option) (*Rotator, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxEntries < 1 || o.maxEntries > chain.MaxDepth {
		return nil, fmt.Errorf("logrotate: max entries must be within 1..%d, got %d", chain.MaxDepth, o.maxEntries)
	}
	if o.thresholdKB < 0 {
		return nil, fmt.Errorf("logrotate: threshold must not be negative, got %d", o.thresholdKB)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	eng := engine.New(
		gate.New(o.thresholdKB),
		chain.New(o.maxEntries),
		engine.WithLogger(o.logger),
		engine.WithDryRun(o.dryRun),
	)
	return &Rotator{engine: eng, opts: o}, nil
}

// Rotate processes paths in order and returns one outcome per distinct
// path. The returned error is non-nil when a rotation failed; the report
// still lists everything done up to that point.
func (r *Rotator) Rotate(ctx context.Context, paths ...string) (Report, error) {
	col := &collector{}
	p := pipeline.New(args.Source{}, source.Config{Provider: args.Name, Args: paths}, r.engine, col,
		pipeline.WithLogger(r.opts.logger),
		pipeline.WithContinueOnError(r.opts.continueOnError),
	)
	rr, err := p.Run(ctx)

	report := Report{
		DryRun:   rr.DryRun,
		Rotated:  rr.Rotated,
		Planned:  rr.Planned,
		Skipped:  rr.Skipped,
		Missing:  rr.Missing,
		Failed:   rr.Failed,
		Outcomes: make([]Outcome, len(col.outcomes)),
	}
	for i, o := range col.outcomes {
		report.Outcomes[i] = outcomeFromModel(o)
	}
	return report, err
}

// RotateNow rotates the family of path regardless of its size.
func (r *Rotator) RotateNow(ctx context.Context, path string) (Outcome, error) {
	o, err := r.engine.RotateFamily(ctx, path)
	return outcomeFromModel(o), err
}

// IsFatal reports whether err stopped a rotation, as opposed to a file that
// was skipped because its metadata could not be read.
func IsFatal(err error) bool {
	return model.IsFatal(err)
}

// ErrorKind returns the failure class of err ("copy", "deletion", and so on), or
// "" when err carries none.
func ErrorKind(err error) string {
	var e *model.Error
	if errors.As(err, &e) {
		return e.Kind.String()
	}
	return ""
}

type collector struct {
	outcomes []model.Outcome
}

func (c *collector) Write(_ context.Context, o model.Outcome) error {
	c.outcomes = append(c.outcomes, o)
	return nil
}

func (c *collector) Close() error { return nil }
