package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadRunRequestFromYAML(t *testing.T) {
	path := writeConfig(t, `
problem: quadratic
population: 40
iterations: 25
migrations: 10
islands: 3
tournament_size: 4
mutation_probability: 0.2
max_depth: 6
seed: 99
polish: true
`)
	req, err := loadRunRequest(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if req.Problem != "quadratic" || req.Population != 40 || req.Islands != 3 {
		t.Fatalf("unexpected request: %+v", req)
	}
	if req.MutationProb != 0.2 || req.Seed != 99 || !req.Polish {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestLoadRunRequestPartialFile(t *testing.T) {
	path := writeConfig(t, "problem: cubic\n")
	req, err := loadRunRequest(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if req.Problem != "cubic" {
		t.Fatalf("unexpected problem: %s", req.Problem)
	}
	if req.Population != 0 {
		t.Fatalf("unset fields must stay zero, got %d", req.Population)
	}
}

func TestLoadRunRequestRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, "population: -5\nmutation_probability: 1.5\n")
	_, err := loadRunRequest(path)
	if err == nil {
		t.Fatal("expected a validation error")
	}
	var fieldErrors ValidationErrors
	if !errors.As(err, &fieldErrors) {
		t.Fatalf("expected ValidationErrors, got %T: %v", err, err)
	}
	if len(fieldErrors) != 2 {
		t.Fatalf("expected 2 field errors, got %d: %v", len(fieldErrors), fieldErrors)
	}
}

func TestLoadRunRequestRejectsBadYAML(t *testing.T) {
	path := writeConfig(t, "population: [not a number\n")
	if _, err := loadRunRequest(path); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestLoadRunRequestMissingFile(t *testing.T) {
	if _, err := loadRunRequest(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestFlagOverridesWinOverFile(t *testing.T) {
	path := writeConfig(t, "problem: quadratic\npopulation: 40\nseed: 99\n")
	cmd := runCmd
	cmd.Flags().Set("population", "60")
	defer func() {
		runPopulation = 0
		cmd.Flags().Lookup("population").Changed = false
	}()

	runConfigPath = path
	defer func() { runConfigPath = "" }()
	req, err := buildRunRequest(cmd)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if req.Population != 60 {
		t.Fatalf("the explicit flag must win, got %d", req.Population)
	}
	if req.Seed != 99 {
		t.Fatalf("file values must survive where no flag is set, got %d", req.Seed)
	}
}
