package text

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/crimson-sun/logrotate/internal/model"
	"github.com/crimson-sun/logrotate/internal/output"
)

func TestWriteRotated(t *testing.T) {
	var buf bytes.Buffer
	out := New(&buf, output.Full)

	err := out.Write(context.Background(), model.Outcome{
		Path:   "/var/log/app/app.log",
		Status: model.StatusRotated,
		Actions: []model.Action{
			{Kind: model.ActionDelete, Source: "/var/log/app/app.9"},
			{Kind: model.ActionCopy, Source: "/var/log/app/app.log", Destination: "/var/log/app/app.0", Recreate: true, Bytes: 307_200},
		},
	})
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}

	got := buf.String()
	lines := strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), got)
	}
	for _, want := range []string{"rotated", "/var/log/app/app.log", "delete app.9", "app.log -> app.0", "(300K)", "truncate"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestWriteSkippedShowsReason(t *testing.T) {
	var buf bytes.Buffer
	out := New(&buf, output.Standard)
	out.Write(context.Background(), model.Outcome{Path: "/l/a.log", Status: model.StatusSkipped, Reason: "below threshold"})

	if !strings.Contains(buf.String(), "(below threshold)") {
		t.Fatalf("reason missing: %q", buf.String())
	}
}

func TestWriteFailedShowsError(t *testing.T) {
	var buf bytes.Buffer
	out := New(&buf, output.Minimal)
	out.Write(context.Background(), model.Outcome{Path: "/l/a.log", Status: model.StatusFailed, Error: `copy: "/l/a.3": permission denied`})

	if !strings.Contains(buf.String(), "permission denied") {
		t.Fatalf("error missing: %q", buf.String())
	}
}

func TestSummary(t *testing.T) {
	start := time.Date(2026, 10, 19, 3, 0, 0, 0, time.UTC)
	s := Summary(model.RunReport{StartedAt: start, FinishedAt: start.Add(1500 * time.Millisecond), Rotated: 2, Skipped: 1})
	for _, want := range []string{"rotated=2", "skipped=1", "failed=0", "1.5s"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary %q missing %q", s, want)
		}
	}
}
