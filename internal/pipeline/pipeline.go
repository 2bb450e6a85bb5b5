package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/crimson-sun/logrotate/internal/engine"
	"github.com/crimson-sun/logrotate/internal/model"
	"github.com/crimson-sun/logrotate/internal/output"
	"github.com/crimson-sun/logrotate/internal/source"
)

const defaultDebounce = 500 * time.Millisecond

// Pipeline connects a source, the rotation engine and an output.
// All filesystem mutations happen on the calling goroutine, one entry at
// a time, in source order.
type Pipeline struct {
	source          source.Source
	sourceCfg       source.Config
	engine          *engine.Engine
	output          output.Output
	logger          *slog.Logger
	continueOnError bool
	debounce        time.Duration
	onReport        func(model.RunReport)
	now             func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the diagnostics logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithContinueOnError keeps processing later entries after a fatal error.
// The run still returns every error it met.
func WithContinueOnError(on bool) Option {
	return func(p *Pipeline) { p.continueOnError = on }
}

// WithDebounce sets how long Watch waits after the last change to a log
// before rotating it. Default: 500ms.
func WithDebounce(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.debounce = d
		}
	}
}

// WithReportHook registers fn to receive the report of every completed run.
func WithReportHook(fn func(model.RunReport)) Option {
	return func(p *Pipeline) { p.onReport = fn }
}

// New creates a Pipeline from the given components.
func New(src source.Source, cfg source.Config, eng *engine.Engine, out output.Output, opts ...Option) *Pipeline {
	p := &Pipeline{
		source:    src,
		sourceCfg: cfg,
		engine:    eng,
		output:    out,
		logger:    slog.New(slog.DiscardHandler),
		debounce:  defaultDebounce,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run loads the entries and rotates each one in order, writing every outcome
// to the output. Missing, small and unreadable files are reported and
// skipped. A fatal error stops the run unless continue-on-error is set.
func (p *Pipeline) Run(ctx context.Context) (model.RunReport, error) {
	report := model.RunReport{StartedAt: p.now(), DryRun: p.engine.DryRun()}
	finish := func(err error) (model.RunReport, error) {
		report.FinishedAt = p.now()
		p.logger.Info("run finished",
			"rotated", report.Rotated, "planned", report.Planned, "skipped", report.Skipped,
			"missing", report.Missing, "failed", report.Failed,
			"elapsed", report.FinishedAt.Sub(report.StartedAt))
		if p.onReport != nil {
			p.onReport(report)
		}
		return report, err
	}

	entries, err := p.load(ctx)
	if err != nil {
		return finish(err)
	}

	var errs []error
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			return finish(errors.Join(errs...))
		}

		outcome, err := p.engine.Rotate(ctx, entry)
		report.Add(outcome)
		if werr := p.output.Write(ctx, outcome); werr != nil {
			errs = append(errs, fmt.Errorf("pipeline output: %w", werr))
			return finish(errors.Join(errs...))
		}
		if err == nil {
			continue
		}

		errs = append(errs, err)
		if ctx.Err() != nil {
			return finish(errors.Join(errs...))
		}
		if !model.IsFatal(err) {
			continue
		}
		if !p.continueOnError {
			p.logger.Error("aborting run", "path", entry.Path, "error", err)
			return finish(errors.Join(errs...))
		}
		p.logger.Warn("continuing after failure", "path", entry.Path, "error", err)
	}
	return finish(errors.Join(errs...))
}

// Tick calls Run immediately and then once per interval until ctx is
// cancelled. A run that fails stops the loop with its error.
func (p *Pipeline) Tick(ctx context.Context, every time.Duration) error {
	if every <= 0 {
		return fmt.Errorf("pipeline tick: interval must be positive, got %s", every)
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		if _, err := p.Run(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("pipeline tick: %w", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Close shuts down the output.
func (p *Pipeline) Close() error {
	return p.output.Close()
}

// load reads the entries from the source and drops duplicates.
func (p *Pipeline) load(ctx context.Context) ([]model.LogPathEntry, error) {
	entries, err := p.source.Load(ctx, p.sourceCfg)
	if err != nil {
		p.logger.Error("could not load log paths", "error", err)
		return nil, err
	}
	entries = dedupe(entries, p.logger)
	p.logger.Debug("loaded log paths", "count", len(entries))
	return entries, nil
}
