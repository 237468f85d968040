package problem

import (
	"context"
	"fmt"

	"dendros/internal/genotype"
	"dendros/pkg/gene"
)

// Quadratic is the canonical smoke problem: recover x^2 + 2x + 1 from
// four sample points by sum of squared errors.
type Quadratic struct{}

var quadraticInputs = []float64{0, 1, 2, 3}

func (Quadratic) Name() string {
	return "quadratic"
}

func (Quadratic) Description() string {
	return "symbolic regression of x^2 + 2x + 1 over x in {0, 1, 2, 3}"
}

func (Quadratic) Sets() genotype.Sets {
	return genotype.Sets{
		Terminals: []string{"x"},
		Numbers:   []float64{1, 2},
		Functions: []gene.FunctionSpec{
			{Op: "+", Arity: 2},
			{Op: "*", Arity: 2},
		},
	}
}

func (Quadratic) Defaults() Settings {
	return Settings{
		Population:    30,
		Iterations:    50,
		Migrations:    20,
		Islands:       4,
		MaxDepth:      5,
		MutationDepth: 6,
		Tournament:    3,
		MutationProb:  0.1,
	}
}

func (q Quadratic) Evaluate(ctx context.Context, individual gene.Individual) (float64, error) {
	sse := 0.0
	for _, x := range quadraticInputs {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		predicted, err := EvalIndividual(individual, map[string]float64{"x": x})
		if err != nil {
			return 0, fmt.Errorf("evaluate at x=%v: %w", x, err)
		}
		want := x*x + 2*x + 1
		delta := predicted - want
		sse += delta * delta
	}
	return sse, nil
}
