package logrotate

import (
	"time"

	"github.com/crimson-sun/logrotate/internal/model"
)

// Status values reported in Outcome.Status.
const (
	StatusRotated = string(model.StatusRotated)
	StatusPlanned = string(model.StatusPlanned)
	StatusSkipped = string(model.StatusSkipped)
	StatusMissing = string(model.StatusMissing)
	StatusFailed  = string(model.StatusFailed)
)

// Action is one file transition: "delete" of the oldest backup or "copy"
// one stage down.
type Action struct {
	Kind        string `json:"kind"`
	Source      string `json:"source"`
	Destination string `json:"destination,omitempty"`
	Truncated   bool   `json:"truncated,omitempty"` // source emptied after the copy
	Bytes       int64  `json:"bytes,omitempty"`
}

// Outcome is the result for one path.
type Outcome struct {
	Path     string        `json:"path"`
	Status   string        `json:"status"`
	Reason   string        `json:"reason,omitempty"`
	SizeKB   int64         `json:"size_kb"`
	Actions  []Action      `json:"actions,omitempty"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// Report summarizes a Rotate call.
type Report struct {
	DryRun   bool      `json:"dry_run"`
	Rotated  int       `json:"rotated"`
	Planned  int       `json:"planned"`
	Skipped  int       `json:"skipped"`
	Missing  int       `json:"missing"`
	Failed   int       `json:"failed"`
	Outcomes []Outcome `json:"outcomes"`
}

func outcomeFromModel(o model.Outcome) Outcome {
	out := Outcome{
		Path:     o.Path,
		Status:   string(o.Status),
		Reason:   o.Reason,
		SizeKB:   o.SizeKB,
		Duration: o.Duration,
		Error:    o.Error,
	}
	for _, a := range o.Actions {
		out.Actions = append(out.Actions, Action{
			Kind:        string(a.Kind),
			Source:      a.Source,
			Destination: a.Destination,
			Truncated:   a.Recreate,
			Bytes:       a.Bytes,
		})
	}
	return out
}
