package problem

import (
	"context"
	"fmt"

	"dendros/internal/dataset"
	"dendros/internal/genotype"
	"dendros/pkg/gene"
)

// Polynomial regresses against a target polynomial given by its
// coefficients in ascending degree order, sampled over a fixed grid.
type Polynomial struct {
	name         string
	description  string
	coefficients []float64
	inputs       []float64
}

// NewPolynomial builds a polynomial regression problem sampled at the
// integer grid 0..7.
func NewPolynomial(name, description string, coefficients []float64) Polynomial {
	inputs := make([]float64, 8)
	for i := range inputs {
		inputs[i] = float64(i)
	}
	return Polynomial{
		name:         Normalize(name),
		description:  description,
		coefficients: coefficients,
		inputs:       inputs,
	}
}

func (p Polynomial) Name() string {
	return p.name
}

func (p Polynomial) Description() string {
	return p.description
}

func (Polynomial) Sets() genotype.Sets {
	return arithmeticSets([]string{"x"}, []float64{1, 2, 3})
}

func (Polynomial) Defaults() Settings {
	return Settings{
		Population:    50,
		Iterations:    50,
		Migrations:    30,
		Islands:       4,
		MaxDepth:      7,
		MutationDepth: 6,
		Tournament:    3,
		MutationProb:  0.15,
	}
}

func (p Polynomial) Evaluate(ctx context.Context, individual gene.Individual) (float64, error) {
	sse := 0.0
	for _, x := range p.inputs {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		predicted, err := EvalIndividual(individual, map[string]float64{"x": x})
		if err != nil {
			return 0, fmt.Errorf("evaluate at x=%v: %w", x, err)
		}
		delta := predicted - dataset.Polynomial(p.coefficients, x)
		sse += delta * delta
	}
	return sse, nil
}
