package model

import "time"

// ActionKind is the filesystem operation taken on a rotation candidate.
type ActionKind string

const (
	ActionCopy   ActionKind = "copy"
	ActionDelete ActionKind = "delete"
)

// Action is one transition of one file in a rotation chain.
type Action struct {
	Kind        ActionKind `json:"kind"`
	Source      string     `json:"source"`
	Destination string     `json:"destination,omitempty"`
	Stage       string     `json:"stage"`
	Recreate    bool       `json:"recreate,omitempty"` // truncate the source after copying (head stage only)
	Bytes       int64      `json:"bytes,omitempty"`
}

// Status describes what happened to one entry in a run.
type Status string

const (
	StatusRotated Status = "rotated"
	StatusPlanned Status = "planned" // dry run: actions computed, nothing applied
	StatusSkipped Status = "skipped"
	StatusMissing Status = "missing"
	StatusFailed  Status = "failed"
)

// Outcome is the result of processing one LogPathEntry.
type Outcome struct {
	Path      string        `json:"path"`
	Status    Status        `json:"status"`
	Reason    string        `json:"reason,omitempty"`
	SizeKB    int64         `json:"size_kb"`
	Actions   []Action      `json:"actions,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Error     string        `json:"error,omitempty"`
}

// RunReport summarizes one pass over all configured entries.
type RunReport struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	DryRun     bool      `json:"dry_run"`
	Rotated    int       `json:"rotated"`
	Planned    int       `json:"planned"`
	Skipped    int       `json:"skipped"`
	Missing    int       `json:"missing"`
	Failed     int       `json:"failed"`
}

// Add counts an outcome into the report.
func (r *RunReport) Add(o Outcome) {
	switch o.Status {
	case StatusRotated:
		r.Rotated++
	case StatusPlanned:
		r.Planned++
	case StatusSkipped:
		r.Skipped++
	case StatusMissing:
		r.Missing++
	case StatusFailed:
		r.Failed++
	}
}
