package stdout

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/crimson-sun/logrotate/internal/model"
	"github.com/crimson-sun/logrotate/internal/output"
)

func testOutcome() model.Outcome {
	return model.Outcome{
		Path:      "/var/log/app/app.log",
		Status:    model.StatusRotated,
		SizeKB:    300,
		StartedAt: time.Date(2026, 10, 19, 3, 0, 0, 0, time.UTC),
		Actions: []model.Action{
			{Kind: model.ActionCopy, Source: "/var/log/app/app.log", Destination: "/var/log/app/app.0", Stage: "log", Recreate: true, Bytes: 300_000},
		},
	}
}

// captureStdout redirects os.Stdout to capture output.
func captureStdout(fn func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func TestOutputCompactJSON(t *testing.T) {
	result := captureStdout(func() {
		out := New(output.Standard, false)
		out.Write(context.Background(), testOutcome())
	})

	// Should be single line (NDJSON).
	lines := strings.Split(strings.TrimSpace(result), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &m); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if m["status"] != "rotated" {
		t.Fatalf("expected status=rotated, got %v", m["status"])
	}
	if m["path"] != "/var/log/app/app.log" {
		t.Fatalf("unexpected path %v", m["path"])
	}
}

func TestOutputPrettyJSON(t *testing.T) {
	result := captureStdout(func() {
		out := New(output.Standard, true)
		out.Write(context.Background(), testOutcome())
	})

	if !strings.Contains(result, "  ") {
		t.Fatal("expected indented output for pretty mode")
	}
	lines := strings.Split(strings.TrimSpace(result), "\n")
	if len(lines) < 3 {
		t.Fatalf("expected multi-line pretty output, got %d lines", len(lines))
	}
}

func TestOutputMinimalOmitsActions(t *testing.T) {
	result := captureStdout(func() {
		out := New(output.Minimal, false)
		out.Write(context.Background(), testOutcome())
	})

	var m map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(result)), &m); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, ok := m["actions"]; ok {
		t.Fatal("actions should be omitted at Minimal")
	}
	if m["status"] != "rotated" {
		t.Fatalf("status should be preserved, got %v", m["status"])
	}
}
