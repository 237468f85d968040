// Package stats writes per-run artifact directories and the shared run
// index consumed by the CLI listing commands.
package stats

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"dendros/internal/model"
)

const runIndexFile = "run_index.json"

// RunArtifacts is everything written into one run's artifact directory.
type RunArtifacts struct {
	Record model.RunRecord   `json:"record"`
	Rounds []model.RoundStat `json:"rounds"`
}

// RunIndexEntry is one line of the artifact base directory's index.
type RunIndexEntry struct {
	RunID        string  `json:"run_id"`
	Problem      string  `json:"problem"`
	Population   int     `json:"population"`
	Islands      int     `json:"islands"`
	Seed         int64   `json:"seed"`
	BestScore    float64 `json:"best_score"`
	Rounds       int     `json:"rounds"`
	CreatedAtUTC string  `json:"created_at_utc"`
}

// WriteRunArtifacts writes config.json, rounds.json, and best.json under
// baseDir/<run id> and returns the run directory.
func WriteRunArtifacts(baseDir string, artifacts RunArtifacts) (string, error) {
	if artifacts.Record.ID == "" {
		return "", fmt.Errorf("run id is required")
	}

	runDir := filepath.Join(baseDir, artifacts.Record.ID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}

	config := artifacts.Record
	config.Best = artifacts.Record.Best.Clone()
	if err := writeJSON(filepath.Join(runDir, "config.json"), config); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "rounds.json"), artifacts.Rounds); err != nil {
		return "", err
	}
	best := map[string]any{
		"rendered": artifacts.Record.BestRendered,
		"score":    artifacts.Record.BestScore,
		"tree":     artifacts.Record.Best,
	}
	if err := writeJSON(filepath.Join(runDir, "best.json"), best); err != nil {
		return "", err
	}
	return runDir, nil
}

// AppendRunIndex inserts or replaces the entry for its run id.
func AppendRunIndex(baseDir string, entry RunIndexEntry) error {
	if entry.RunID == "" {
		return fmt.Errorf("run id is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return err
	}

	index, err := ListRunIndex(baseDir)
	if err != nil {
		return err
	}
	for i := range index {
		if index[i].RunID == entry.RunID {
			index[i] = entry
			return writeJSON(filepath.Join(baseDir, runIndexFile), index)
		}
	}
	index = append(index, entry)
	return writeJSON(filepath.Join(baseDir, runIndexFile), index)
}

// ListRunIndex returns the index entries newest first. A missing index
// file is an empty index.
func ListRunIndex(baseDir string) ([]RunIndexEntry, error) {
	path := filepath.Join(baseDir, runIndexFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunIndexEntry{}, nil
		}
		return nil, err
	}

	var entries []RunIndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	type indexedEntry struct {
		entry RunIndexEntry
		idx   int
	}
	indexed := make([]indexedEntry, len(entries))
	for i := range entries {
		indexed[i] = indexedEntry{entry: entries[i], idx: i}
	}
	sort.Slice(indexed, func(i, j int) bool {
		if indexed[i].entry.CreatedAtUTC == indexed[j].entry.CreatedAtUTC {
			// Prefer later appended entries for equal timestamps.
			return indexed[i].idx > indexed[j].idx
		}
		return indexed[i].entry.CreatedAtUTC > indexed[j].entry.CreatedAtUTC
	})

	sorted := make([]RunIndexEntry, 0, len(indexed))
	for _, item := range indexed {
		sorted = append(sorted, item.entry)
	}
	return sorted, nil
}

// ExportRunArtifacts copies a run's artifact files into outDir/<run id>.
func ExportRunArtifacts(baseDir, runID, outDir string) (string, error) {
	if runID == "" {
		return "", fmt.Errorf("run id is required")
	}

	src := filepath.Join(baseDir, runID)
	if _, err := os.Stat(src); err != nil {
		return "", err
	}

	dst := filepath.Join(outDir, runID)
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return "", err
	}

	for _, file := range []string{"config.json", "rounds.json", "best.json"} {
		if err := copyFile(filepath.Join(src, file), filepath.Join(dst, file)); err != nil {
			return "", err
		}
	}
	seriesPath := filepath.Join(src, "round_series.csv")
	if _, err := os.Stat(seriesPath); err == nil {
		if err := copyFile(seriesPath, filepath.Join(dst, "round_series.csv")); err != nil {
			return "", err
		}
	} else if !os.IsNotExist(err) {
		return "", err
	}
	return dst, nil
}

// WriteRoundSeries writes a run's per-round best scores as CSV.
func WriteRoundSeries(runDir string, rounds []model.RoundStat) error {
	path := filepath.Join(runDir, "round_series.csv")
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"round", "best_score"}); err != nil {
		return err
	}
	for _, stat := range rounds {
		if err := writer.Write([]string{
			strconv.Itoa(stat.Round),
			strconv.FormatFloat(stat.Score, 'f', -1, 64),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReadRoundSeries loads the per-round score series written by
// WriteRoundSeries.
func ReadRoundSeries(baseDir, runID string) ([]model.RoundStat, bool, error) {
	path := filepath.Join(baseDir, runID, "round_series.csv")
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return []model.RoundStat{}, true, nil
		}
		return nil, false, err
	}

	var rounds []model.RoundStat
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, false, err
		}
		if len(record) < 2 {
			return nil, false, fmt.Errorf("round series row must have 2 columns")
		}
		round, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, false, err
		}
		score, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, false, err
		}
		rounds = append(rounds, model.RoundStat{Round: round, Score: score})
	}
	return rounds, true, nil
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
