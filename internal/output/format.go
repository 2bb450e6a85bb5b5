package output

import (
	"strings"

	"github.com/crimson-sun/logrotate/internal/model"
)

// Verbosity controls how much of an outcome is emitted.
type Verbosity int

const (
	Minimal  Verbosity = iota // status, path, size and error
	Standard                  // plus reason and actions, without byte counts
	Full                      // everything
)

// ParseVerbosity maps "minimal", "standard", "full" to a Verbosity.
// Unknown strings default to Standard.
func ParseVerbosity(s string) Verbosity {
	switch strings.ToLower(s) {
	case "minimal":
		return Minimal
	case "full":
		return Full
	default:
		return Standard
	}
}

// FormatOutcome returns a copy of the outcome with fields stripped according
// to verbosity. The error text is always kept.
func FormatOutcome(o model.Outcome, verbosity Verbosity) model.Outcome {
	switch verbosity {
	case Minimal:
		o.Actions = nil
		o.Reason = ""
	case Standard:
		if len(o.Actions) > 0 {
			actions := make([]model.Action, len(o.Actions))
			for i, a := range o.Actions {
				a.Bytes = 0
				actions[i] = a
			}
			o.Actions = actions
		}
	}
	return o
}
