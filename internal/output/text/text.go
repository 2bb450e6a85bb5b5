// Package text renders rotation outcomes as colored, human-readable lines.
package text

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/crimson-sun/logrotate/internal/model"
	"github.com/crimson-sun/logrotate/internal/output"
)

var (
	styleRotated = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true) // green
	stylePlanned = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))            // cyan
	styleSkipped = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))           // gray
	styleMissing = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))           // yellow
	styleFailed  = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("196")).
			Bold(true) // white on red
	styleDetail = lipgloss.NewStyle().Faint(true)
)

// Output prints one line per outcome, plus one indented line per action
// when verbosity allows.
type Output struct {
	mu        sync.Mutex
	w         io.Writer
	verbosity output.Verbosity
}

// New creates a text Output writing to w.
func New(w io.Writer, verbosity output.Verbosity) *Output {
	return &Output{w: w, verbosity: verbosity}
}

func (o *Output) Write(_ context.Context, outcome model.Outcome) error {
	outcome = output.FormatOutcome(outcome, o.verbosity)

	o.mu.Lock()
	defer o.mu.Unlock()

	line := fmt.Sprintf("%s %s", statusTag(outcome.Status), outcome.Path)
	switch {
	case outcome.Error != "":
		line += " " + styleDetail.Render(outcome.Error)
	case outcome.Reason != "":
		line += " " + styleDetail.Render("("+outcome.Reason+")")
	}
	if _, err := fmt.Fprintln(o.w, line); err != nil {
		return fmt.Errorf("text output: %w", err)
	}

	for _, a := range outcome.Actions {
		if _, err := fmt.Fprintln(o.w, "    "+styleDetail.Render(describe(a))); err != nil {
			return fmt.Errorf("text output: %w", err)
		}
	}
	return nil
}

func (o *Output) Close() error {
	return nil
}

func statusTag(s model.Status) string {
	padded := fmt.Sprintf("%-7s", s)
	switch s {
	case model.StatusRotated:
		return styleRotated.Render(padded)
	case model.StatusPlanned:
		return stylePlanned.Render(padded)
	case model.StatusMissing:
		return styleMissing.Render(padded)
	case model.StatusFailed:
		return styleFailed.Render(padded)
	default:
		return styleSkipped.Render(padded)
	}
}

func describe(a model.Action) string {
	switch a.Kind {
	case model.ActionDelete:
		return "delete " + filepath.Base(a.Source)
	case model.ActionCopy:
		s := fmt.Sprintf("copy   %s -> %s", filepath.Base(a.Source), filepath.Base(a.Destination))
		if a.Bytes > 0 {
			s += fmt.Sprintf(" (%dK)", a.Bytes/1024)
		}
		if a.Recreate {
			s += ", truncate"
		}
		return s
	default:
		return string(a.Kind) + " " + filepath.Base(a.Source)
	}
}

// Summary renders a one-line run summary.
func Summary(r model.RunReport) string {
	return fmt.Sprintf("%s rotated=%d planned=%d skipped=%d missing=%d failed=%d (%s)",
		styleDetail.Render("done:"),
		r.Rotated, r.Planned, r.Skipped, r.Missing, r.Failed,
		r.FinishedAt.Sub(r.StartedAt).Round(1e6))
}
