// Package testdata holds directory-layout scenarios shared by the engine and
// pipeline tests, plus helpers to build and verify them on disk.
package testdata

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed scenarios.json
var scenariosJSON []byte

// File describes a file's content: Tag repeated Size times.
type File struct {
	Tag  string `json:"tag"`
	Size int    `json:"size"`
}

// Content returns the bytes the file should hold.
func (f File) Content() []byte {
	if f.Tag == "" || f.Size == 0 {
		return nil
	}
	return []byte(strings.Repeat(f.Tag, f.Size/len(f.Tag)))
}

// Scenario is a directory layout, the entries to rotate, and the expected
// layout after one run.
type Scenario struct {
	Name       string          `json:"name"`
	MaxEntries int             `json:"max_entries"`
	Files      map[string]File `json:"files"`
	Entries    []string        `json:"entries"`
	Want       map[string]File `json:"want"`
	Absent     []string        `json:"absent"`
}

// LoadScenarios parses the embedded scenarios.json.
func LoadScenarios() ([]Scenario, error) {
	var s []Scenario
	if err := json.Unmarshal(scenariosJSON, &s); err != nil {
		return nil, fmt.Errorf("parse scenarios.json: %w", err)
	}
	return s, nil
}

// Build writes the scenario's files into dir.
func (s Scenario) Build(dir string) error {
	for name, f := range s.Files {
		if err := os.WriteFile(filepath.Join(dir, name), f.Content(), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// EntryPaths returns the scenario's entries joined with dir.
func (s Scenario) EntryPaths(dir string) []string {
	out := make([]string, len(s.Entries))
	for i, e := range s.Entries {
		out[i] = filepath.Join(dir, e)
	}
	return out
}

// Verify compares dir against the expected layout and returns one message
// per mismatch, sorted by file name.
func (s Scenario) Verify(dir string) []string {
	var problems []string
	for name, want := range s.Want {
		got, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		if string(got) != string(want.Content()) {
			problems = append(problems, fmt.Sprintf("%s: got %d bytes starting %q, want %d x %q",
				name, len(got), head(got), want.Size, want.Tag))
		}
	}
	for _, name := range s.Absent {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			problems = append(problems, fmt.Sprintf("%s: should not exist", name))
		}
	}
	sort.Strings(problems)
	return problems
}

func head(b []byte) string {
	if len(b) > 8 {
		b = b[:8]
	}
	return string(b)
}
