package chain

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/crimson-sun/logrotate/internal/model"
)

func TestPlanTransitions(t *testing.T) {
	c := New(DefaultDepth)
	dir := "/var/log/app"

	tests := []struct {
		name     string
		kind     model.ActionKind
		dest     string
		recreate bool
	}{
		{"app.log", model.ActionCopy, "app.0", true},
		{"app.0", model.ActionCopy, "app.1", false},
		{"app.4", model.ActionCopy, "app.5", false},
		{"app.8", model.ActionCopy, "app.9", false},
		{"app.9", model.ActionDelete, "", false},
		{"app.12", model.ActionDelete, "", false},
	}

	for _, tt := range tests {
		a, err := c.Plan(filepath.Join(dir, tt.name), dir, "app")
		if err != nil {
			t.Fatalf("Plan(%s) error: %v", tt.name, err)
		}
		if a.Kind != tt.kind {
			t.Errorf("Plan(%s).Kind = %s, want %s", tt.name, a.Kind, tt.kind)
		}
		wantDest := ""
		if tt.dest != "" {
			wantDest = filepath.Join(dir, tt.dest)
		}
		if a.Destination != wantDest {
			t.Errorf("Plan(%s).Destination = %q, want %q", tt.name, a.Destination, wantDest)
		}
		if a.Recreate != tt.recreate {
			t.Errorf("Plan(%s).Recreate = %v, want %v", tt.name, a.Recreate, tt.recreate)
		}
	}
}

func TestPlanDepth(t *testing.T) {
	c := New(3)
	a, err := c.Plan("/l/app.1", "/l", "app")
	if err != nil {
		t.Fatal(err)
	}
	if a.Kind != model.ActionCopy || a.Destination != filepath.Join("/l", "app.2") {
		t.Fatalf("app.1 at depth 3: %+v", a)
	}
	a, err = c.Plan("/l/app.2", "/l", "app")
	if err != nil {
		t.Fatal(err)
	}
	if a.Kind != model.ActionDelete {
		t.Fatalf("app.2 at depth 3 should be deleted: %+v", a)
	}
}

func TestPlanDepthOne(t *testing.T) {
	c := New(1)
	a, _ := c.Plan("/l/app.0", "/l", "app")
	if a.Kind != model.ActionDelete {
		t.Fatalf("depth 1 keeps only .0 and deletes it on the next rotation: %+v", a)
	}
	a, _ = c.Plan("/l/app.log", "/l", "app")
	if a.Kind != model.ActionCopy || a.Destination != filepath.Join("/l", "app.0") {
		t.Fatalf("head at depth 1: %+v", a)
	}
}

func TestPlanErrors(t *testing.T) {
	c := New(DefaultDepth)
	tests := []struct {
		path string
		kind model.ErrorKind
	}{
		{"/l/app", model.KindMissingExtension},
		{"/l/app.bak", model.KindUnknownExtension},
		{"/l/app.07", model.KindUnknownExtension},
		{"/l/app.", model.KindUnknownExtension},
	}
	for _, tt := range tests {
		_, err := c.Plan(tt.path, "/l", "app")
		if model.KindOf(err) != tt.kind {
			t.Errorf("Plan(%s) kind = %v, want %v", tt.path, model.KindOf(err), tt.kind)
		}
		if !model.IsFatal(err) {
			t.Errorf("Plan(%s) error must be fatal", tt.path)
		}
	}
}

func TestNewClampsDepth(t *testing.T) {
	for _, d := range []int{0, -3, MaxDepth + 1} {
		if got := New(d).Depth; got != DefaultDepth {
			t.Errorf("New(%d).Depth = %d, want %d", d, got, DefaultDepth)
		}
	}
	if New(5).Terminal().Ext() != "4" {
		t.Errorf("terminal of depth 5 = %s", New(5).Terminal())
	}
}

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o640); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func read(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}

func TestApplyCopyHeadRecreates(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "app.log")
	write(t, src, "current contents")

	a, err := New(DefaultDepth).Plan(src, dir, "app")
	if err != nil {
		t.Fatal(err)
	}
	done, err := Apply(a)
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}

	if got := read(t, filepath.Join(dir, "app.0")); got != "current contents" {
		t.Errorf("app.0 = %q", got)
	}
	if got := read(t, src); got != "" {
		t.Errorf("app.log should be empty, got %q", got)
	}
	if done.Bytes != int64(len("current contents")) {
		t.Errorf("Bytes = %d", done.Bytes)
	}
}

func TestApplyCopyKeepsSourceAndOverwrites(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "app.3")
	dst := filepath.Join(dir, "app.4")
	write(t, src, "three")
	write(t, dst, "an older and much longer four")

	a, _ := New(DefaultDepth).Plan(src, dir, "app")
	if _, err := Apply(a); err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if read(t, src) != "three" {
		t.Error("source of a numbered copy must be left intact")
	}
	if read(t, dst) != "three" {
		t.Errorf("destination = %q, want truncated copy", read(t, dst))
	}
}

func TestApplyDelete(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "app.9")
	write(t, p, "oldest")

	a, _ := New(DefaultDepth).Plan(p, dir, "app")
	if _, err := Apply(a); err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if _, err := os.Stat(p); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("app.9 should be gone, stat err = %v", err)
	}
}

func TestApplyDeleteError(t *testing.T) {
	old := removeFunc
	removeFunc = func(string) error { return os.ErrPermission }
	defer func() { removeFunc = old }()

	_, err := Apply(model.Action{Kind: model.ActionDelete, Source: "/l/app.9"})
	if model.KindOf(err) != model.KindDeletion {
		t.Fatalf("kind = %v, want deletion", model.KindOf(err))
	}
}

func TestApplyCopyDestinationIsDirectory(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "app.0")
	write(t, src, "zero")
	if err := os.Mkdir(filepath.Join(dir, "app.1"), 0o755); err != nil {
		t.Fatal(err)
	}

	a, _ := New(DefaultDepth).Plan(src, dir, "app")
	_, err := Apply(a)
	if model.KindOf(err) != model.KindCopy {
		t.Fatalf("kind = %v, want copy", model.KindOf(err))
	}
}

func TestApplyCopyMissingSource(t *testing.T) {
	dir := t.TempDir()
	_, err := Apply(model.Action{
		Kind:        model.ActionCopy,
		Source:      filepath.Join(dir, "app.2"),
		Destination: filepath.Join(dir, "app.3"),
	})
	if model.KindOf(err) != model.KindCopy {
		t.Fatalf("kind = %v, want copy", model.KindOf(err))
	}
}

func TestApplyRecreateError(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "app.log")
	write(t, src, "data")

	old := createFunc
	createFunc = func(string) (*os.File, error) { return nil, os.ErrPermission }
	defer func() { createFunc = old }()

	a, _ := New(DefaultDepth).Plan(src, dir, "app")
	_, err := Apply(a)
	if model.KindOf(err) != model.KindRecreate {
		t.Fatalf("kind = %v, want recreate", model.KindOf(err))
	}
	if read(t, filepath.Join(dir, "app.0")) != "data" {
		t.Fatal("copy should have completed before recreate failed")
	}
}
