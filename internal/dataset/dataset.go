// Package dataset loads and generates two-column (x, y) CSV sample
// files for regression problems.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Sample is one regression observation.
type Sample struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Load reads samples from a CSV file with at least two columns. A first
// row whose cells do not parse as numbers is treated as a header and
// skipped.
func Load(path string) ([]Sample, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()

	samples, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	return samples, nil
}

// Read parses samples from CSV content.
func Read(in io.Reader) ([]Sample, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1

	var samples []Sample
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row+1, err)
		}
		row++
		if len(record) < 2 {
			return nil, fmt.Errorf("row %d: need two columns, got %d", row, len(record))
		}
		x, errX := parseCell(record[0])
		y, errY := parseCell(record[1])
		if errX != nil || errY != nil {
			if row == 1 {
				continue // header row
			}
			if errX != nil {
				return nil, fmt.Errorf("row %d: parse x: %w", row, errX)
			}
			return nil, fmt.Errorf("row %d: parse y: %w", row, errY)
		}
		samples = append(samples, Sample{X: x, Y: y})
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("dataset holds no samples")
	}
	return samples, nil
}

// Generate writes a synthetic polynomial dataset: count evenly spaced
// points over [from, to], y computed from the coefficients in ascending
// degree order.
func Generate(path string, coefficients []float64, from, to float64, count int) error {
	if len(coefficients) == 0 {
		return fmt.Errorf("at least one coefficient is required")
	}
	if count <= 0 {
		return fmt.Errorf("sample count must be > 0, got %d", count)
	}
	if to < from {
		return fmt.Errorf("range is inverted: [%v, %v]", from, to)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dataset: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()
	if err := writer.Write([]string{"x", "y"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	step := 0.0
	if count > 1 {
		step = (to - from) / float64(count-1)
	}
	for i := 0; i < count; i++ {
		x := from + step*float64(i)
		record := []string{
			strconv.FormatFloat(x, 'g', -1, 64),
			strconv.FormatFloat(Polynomial(coefficients, x), 'g', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write sample %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// Polynomial evaluates coefficients (ascending degree) at x.
func Polynomial(coefficients []float64, x float64) float64 {
	total := 0.0
	for degree, coefficient := range coefficients {
		total += coefficient * math.Pow(x, float64(degree))
	}
	return total
}

func parseCell(cell string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(cell), 64)
}
