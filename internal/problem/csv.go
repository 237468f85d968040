package problem

import (
	"context"
	"fmt"

	"dendros/internal/dataset"
	"dendros/internal/genotype"
	"dendros/pkg/gene"
)

// CSV regresses against samples loaded from a two-column (x, y) file.
type CSV struct {
	source  string
	samples []dataset.Sample
}

// NewCSV loads the dataset at path into a regression problem.
func NewCSV(path string) (CSV, error) {
	samples, err := dataset.Load(path)
	if err != nil {
		return CSV{}, err
	}
	return CSV{source: path, samples: samples}, nil
}

func (CSV) Name() string {
	return "csv"
}

func (c CSV) Description() string {
	return fmt.Sprintf("symbolic regression over %d samples from %s", len(c.samples), c.source)
}

func (CSV) Sets() genotype.Sets {
	return arithmeticSets([]string{"x"}, []float64{1, 2, 3, 5})
}

func (CSV) Defaults() Settings {
	return Settings{
		Population:    50,
		Iterations:    50,
		Migrations:    30,
		Islands:       4,
		MaxDepth:      8,
		MutationDepth: 6,
		Tournament:    3,
		MutationProb:  0.15,
	}
}

func (c CSV) Evaluate(ctx context.Context, individual gene.Individual) (float64, error) {
	sse := 0.0
	for _, sample := range c.samples {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		predicted, err := EvalIndividual(individual, map[string]float64{"x": sample.X})
		if err != nil {
			return 0, fmt.Errorf("evaluate at x=%v: %w", sample.X, err)
		}
		delta := predicted - sample.Y
		sse += delta * delta
	}
	return sse, nil
}
