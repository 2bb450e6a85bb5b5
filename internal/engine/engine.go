package engine

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/crimson-sun/logrotate/internal/engine/chain"
	"github.com/crimson-sun/logrotate/internal/engine/family"
	"github.com/crimson-sun/logrotate/internal/engine/gate"
	"github.com/crimson-sun/logrotate/internal/engine/resolver"
	"github.com/crimson-sun/logrotate/internal/model"
)

// Engine rotates one log family at a time: size gate → resolve → discover → chain.
type Engine struct {
	gate   *gate.Gate
	chain  *chain.Chain
	logger *slog.Logger
	dryRun bool
	now    func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the diagnostics logger. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithDryRun plans every action without touching the filesystem.
func WithDryRun(dryRun bool) Option {
	return func(e *Engine) { e.dryRun = dryRun }
}

// WithClock overrides time.Now for outcome timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an Engine from a size gate and a rotation chain.
func New(g *gate.Gate, c *chain.Chain, opts ...Option) *Engine {
	e := &Engine{
		gate:   g,
		chain:  c,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DryRun reports whether the engine only plans actions.
func (e *Engine) DryRun() bool { return e.dryRun }

// Rotate processes one configured entry. A missing or too-small file, or one
// whose metadata cannot be read, yields a skip outcome and a nil error. Any
// other failure is returned as a *model.Error alongside a failed outcome
// listing the actions completed before it.
func (e *Engine) Rotate(ctx context.Context, entry model.LogPathEntry) (model.Outcome, error) {
	start := e.now()
	out := model.Outcome{Path: entry.Path, StartedAt: start}
	log := e.logger.With("path", entry.Path)

	if !e.gate.Exists(entry.Path) {
		log.Warn("log file does not exist")
		out.Status = model.StatusMissing
		out.Reason = "file does not exist"
		return e.finish(out, start), nil
	}

	d, err := e.gate.Check(entry.Path)
	if err != nil {
		log.Error("could not read metadata", "error", err)
		out.Status = model.StatusSkipped
		out.Reason = model.KindOf(err).String()
		out.Error = err.Error()
		return e.finish(out, start), nil
	}
	out.SizeKB = d.SizeKB
	if !d.Eligible {
		log.Debug("file not big enough to rotate", "kb", d.SizeKB, "threshold_kb", e.gate.ThresholdKB)
		out.Status = model.StatusSkipped
		out.Reason = "below threshold"
		return e.finish(out, start), nil
	}

	log.Info("rotating", "kb", d.SizeKB)
	err = e.rotateFamily(ctx, entry.Path, &out)
	return e.finish(out, start), err
}

// RotateFamily rotates the family of path unconditionally, bypassing the
// size gate.
func (e *Engine) RotateFamily(ctx context.Context, path string) (model.Outcome, error) {
	start := e.now()
	out := model.Outcome{Path: path, StartedAt: start}
	err := e.rotateFamily(ctx, path, &out)
	return e.finish(out, start), err
}

func (e *Engine) rotateFamily(_ context.Context, path string, out *model.Outcome) error {
	fail := func(err error) error {
		out.Status = model.StatusFailed
		out.Reason = model.KindOf(err).String()
		out.Error = err.Error()
		e.logger.Error("rotation failed", "path", path, "error", err)
		return err
	}

	r, err := resolver.Resolve(path)
	if err != nil {
		return fail(err)
	}
	dir, err := filepath.Abs(r.Dir)
	if err != nil {
		return fail(model.NewError(model.KindMalformedPath, path, err))
	}

	files, err := family.Discover(dir, r.Base, e.logger)
	if err != nil {
		return fail(err)
	}
	e.logger.Debug("rotation chain", "path", path, "files", family.String(files))

	// A started chain always runs to the end: stopping between members would
	// leave two stages holding the same content. Cancellation is honoured
	// between entries by the caller.
	for _, f := range files {
		// Destinations keep the on-disk spelling of the stem; r.Base is
		// normalized for matching only.
		a, err := e.chain.Plan(f, dir, resolver.Stem(filepath.Base(f)))
		if err != nil {
			return fail(err)
		}
		if e.dryRun {
			e.logger.Info("planned", "action", a.Kind, "source", a.Source, "dest", a.Destination)
			out.Actions = append(out.Actions, a)
			continue
		}

		a, err = chain.Apply(a)
		if err != nil {
			return fail(err)
		}
		out.Actions = append(out.Actions, a)

		switch a.Kind {
		case model.ActionDelete:
			e.logger.Info("deleted oldest backup", "source", a.Source)
		case model.ActionCopy:
			e.logger.Info("copied", "source", a.Source, "dest", a.Destination, "kb", a.Bytes/1024)
			if a.Recreate {
				e.logger.Info("recreated empty log file", "source", a.Source)
			}
		}
	}

	if e.dryRun {
		out.Status = model.StatusPlanned
	} else {
		out.Status = model.StatusRotated
	}
	return nil
}

func (e *Engine) finish(out model.Outcome, start time.Time) model.Outcome {
	out.Duration = e.now().Sub(start)
	return out
}
