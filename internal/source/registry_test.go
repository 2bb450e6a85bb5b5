package source

import (
	"context"
	"strings"
	"testing"

	"github.com/crimson-sun/logrotate/internal/model"
)

type stubSource struct{}

func (stubSource) Load(_ context.Context, cfg Config) ([]model.LogPathEntry, error) {
	return []model.LogPathEntry{{Path: cfg.Path}}, nil
}

func TestRegisterAndOpen(t *testing.T) {
	Register("stub", func() Source { return stubSource{} })
	defer delete(providers, "stub")

	src, err := Open(Config{Provider: "stub", Path: "/var/log/app.log"})
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	entries, err := src.Load(context.Background(), Config{Path: "/var/log/app.log"})
	if err != nil || len(entries) != 1 || entries[0].Path != "/var/log/app.log" {
		t.Fatalf("Load = %v, %v", entries, err)
	}

	found := false
	for _, p := range Providers() {
		if p == "stub" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Providers() = %v, missing stub", Providers())
	}
}

func TestOpenUnknownProvider(t *testing.T) {
	Register("stub", func() Source { return stubSource{} })
	defer delete(providers, "stub")

	_, err := Open(Config{Provider: "yaml"})
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
	if model.KindOf(err) != model.KindConfig {
		t.Errorf("kind = %v, want config", model.KindOf(err))
	}
	for _, want := range []string{`"yaml"`, "stub"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %s", err, want)
		}
	}
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	Register("stub", func() Source { return stubSource{} })
	defer delete(providers, "stub")

	defer func() {
		if recover() == nil {
			t.Fatal("second Register did not panic")
		}
	}()
	Register("stub", func() Source { return stubSource{} })
}

func TestRegisterRejectsEmptyName(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Register with empty name did not panic")
		}
	}()
	Register("", func() Source { return stubSource{} })
}
