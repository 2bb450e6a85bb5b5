package logrotate

import (
	"log/slog"

	"github.com/crimson-sun/logrotate/internal/engine/chain"
	"github.com/crimson-sun/logrotate/internal/engine/gate"
)

type options struct {
	thresholdKB     int64
	maxEntries      int
	dryRun          bool
	continueOnError bool
	logger          *slog.Logger
}

// Option configures a Rotator.
type Option func(*options)

// WithThresholdKB sets the size a log must exceed before it rotates.
// Default: 250.
func WithThresholdKB(kb int64) Option {
	return func(o *options) {
		o.thresholdKB = kb
	}
}

// WithMaxEntries sets how many numbered backups are kept, 1..100.
// Default: 10 (.0 through .9).
func WithMaxEntries(n int) Option {
	return func(o *options) {
		o.maxEntries = n
	}
}

// WithDryRun reports the actions a rotation would take without touching
// any file.
func WithDryRun(on bool) Option {
	return func(o *options) {
		o.dryRun = on
	}
}

// WithContinueOnError keeps rotating later paths after one fails.
func WithContinueOnError(on bool) Option {
	return func(o *options) {
		o.continueOnError = on
	}
}

// WithLogger sets the diagnostics logger. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func defaultOptions() options {
	return options{
		thresholdKB: gate.DefaultThresholdKB,
		maxEntries:  chain.DefaultDepth,
	}
}
