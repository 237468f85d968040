package stats

import (
	"os"
	"path/filepath"
	"testing"

	"dendros/internal/model"
	"dendros/pkg/gene"
)

func sampleArtifacts(id string) RunArtifacts {
	return RunArtifacts{
		Record: model.RunRecord{
			ID:           id,
			Problem:      "quadratic",
			Seed:         42,
			Population:   30,
			Islands:      4,
			Best:         gene.Individual{Main: gene.Call("+", gene.SymbolLeaf("x"), gene.NumberLeaf(1))},
			BestRendered: "(+ x 1)",
			BestScore:    0.5,
			Rounds:       3,
			CreatedAtUTC: "2026-08-29T10:00:00Z",
		},
		Rounds: []model.RoundStat{{Round: 1, Score: 9}, {Round: 2, Score: 2}, {Round: 3, Score: 0.5}},
	}
}

func TestWriteRunArtifactsFiles(t *testing.T) {
	baseDir := t.TempDir()
	runDir, err := WriteRunArtifacts(baseDir, sampleArtifacts("run-1"))
	if err != nil {
		t.Fatalf("write artifacts: %v", err)
	}
	for _, file := range []string{"config.json", "rounds.json", "best.json"} {
		if _, err := os.Stat(filepath.Join(runDir, file)); err != nil {
			t.Fatalf("missing artifact %s: %v", file, err)
		}
	}
}

func TestWriteRunArtifactsRequiresID(t *testing.T) {
	artifacts := sampleArtifacts("")
	if _, err := WriteRunArtifacts(t.TempDir(), artifacts); err == nil {
		t.Fatal("expected an error without a run id")
	}
}

func TestRunIndexAppendAndList(t *testing.T) {
	baseDir := t.TempDir()
	first := RunIndexEntry{RunID: "run-a", Problem: "quadratic", CreatedAtUTC: "2026-08-28T10:00:00Z"}
	second := RunIndexEntry{RunID: "run-b", Problem: "cubic", CreatedAtUTC: "2026-08-29T10:00:00Z"}
	if err := AppendRunIndex(baseDir, first); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := AppendRunIndex(baseDir, second); err != nil {
		t.Fatalf("append: %v", err)
	}

	entries, err := ListRunIndex(baseDir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].RunID != "run-b" {
		t.Fatalf("expected newest first, got %s", entries[0].RunID)
	}
}

func TestRunIndexReplacesExistingEntry(t *testing.T) {
	baseDir := t.TempDir()
	entry := RunIndexEntry{RunID: "run-a", BestScore: 5, CreatedAtUTC: "2026-08-29T10:00:00Z"}
	if err := AppendRunIndex(baseDir, entry); err != nil {
		t.Fatalf("append: %v", err)
	}
	entry.BestScore = 1
	if err := AppendRunIndex(baseDir, entry); err != nil {
		t.Fatalf("reappend: %v", err)
	}

	entries, err := ListRunIndex(baseDir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 || entries[0].BestScore != 1 {
		t.Fatalf("expected the replaced entry, got %+v", entries)
	}
}

func TestListRunIndexMissingFile(t *testing.T) {
	entries, err := ListRunIndex(t.TempDir())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected an empty index, got %d entries", len(entries))
	}
}

func TestExportRunArtifacts(t *testing.T) {
	baseDir := t.TempDir()
	runDir, err := WriteRunArtifacts(baseDir, sampleArtifacts("run-1"))
	if err != nil {
		t.Fatalf("write artifacts: %v", err)
	}
	if err := WriteRoundSeries(runDir, sampleArtifacts("run-1").Rounds); err != nil {
		t.Fatalf("write series: %v", err)
	}

	outDir := t.TempDir()
	dst, err := ExportRunArtifacts(baseDir, "run-1", outDir)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	for _, file := range []string{"config.json", "rounds.json", "best.json", "round_series.csv"} {
		if _, err := os.Stat(filepath.Join(dst, file)); err != nil {
			t.Fatalf("missing exported %s: %v", file, err)
		}
	}

	if _, err := ExportRunArtifacts(baseDir, "no-such-run", outDir); err == nil {
		t.Fatal("expected an error for a missing run")
	}
}

func TestRoundSeriesRoundTrip(t *testing.T) {
	baseDir := t.TempDir()
	artifacts := sampleArtifacts("run-1")
	runDir, err := WriteRunArtifacts(baseDir, artifacts)
	if err != nil {
		t.Fatalf("write artifacts: %v", err)
	}
	if err := WriteRoundSeries(runDir, artifacts.Rounds); err != nil {
		t.Fatalf("write series: %v", err)
	}

	rounds, ok, err := ReadRoundSeries(baseDir, "run-1")
	if err != nil {
		t.Fatalf("read series: %v", err)
	}
	if !ok {
		t.Fatal("expected the series to exist")
	}
	if len(rounds) != 3 || rounds[2].Score != 0.5 {
		t.Fatalf("unexpected series: %+v", rounds)
	}

	if _, ok, err := ReadRoundSeries(baseDir, "missing"); err != nil || ok {
		t.Fatalf("expected a clean miss, got ok=%v err=%v", ok, err)
	}
}
