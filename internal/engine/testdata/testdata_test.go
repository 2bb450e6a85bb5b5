package testdata

import "testing"

func TestLoadScenarios(t *testing.T) {
	scenarios, err := LoadScenarios()
	if err != nil {
		t.Fatalf("LoadScenarios() error: %v", err)
	}
	if len(scenarios) == 0 {
		t.Fatal("no scenarios")
	}

	for i, s := range scenarios {
		if s.Name == "" {
			t.Errorf("scenario[%d] has no name", i)
		}
		if len(s.Entries) == 0 {
			t.Errorf("scenario %q has no entries", s.Name)
		}
		if len(s.Want) == 0 {
			t.Errorf("scenario %q has no expectations", s.Name)
		}
	}
}

func TestBuildThenVerifyUnchanged(t *testing.T) {
	s := Scenario{
		Files: map[string]File{"x.log": {Tag: "x", Size: 5}},
		Want:  map[string]File{"x.log": {Tag: "x", Size: 5}},
	}
	dir := t.TempDir()
	if err := s.Build(dir); err != nil {
		t.Fatal(err)
	}
	if p := s.Verify(dir); len(p) != 0 {
		t.Fatalf("unexpected problems: %v", p)
	}
}

func TestVerifyReportsMismatch(t *testing.T) {
	s := Scenario{
		Files:  map[string]File{"x.log": {Tag: "x", Size: 5}},
		Want:   map[string]File{"x.log": {Tag: "", Size: 0}},
		Absent: []string{"x.log"},
	}
	dir := t.TempDir()
	if err := s.Build(dir); err != nil {
		t.Fatal(err)
	}
	if p := s.Verify(dir); len(p) != 2 {
		t.Fatalf("expected 2 problems, got %v", p)
	}
}
