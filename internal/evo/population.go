package evo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"dendros/internal/genotype"
	"dendros/pkg/gene"
)

// Evaluator scores one candidate program; lower is better and 0 is a
// perfect solution. Any error is fatal to the run.
type Evaluator func(ctx context.Context, individual gene.Individual) (float64, error)

// GenerationParams configures one RunGenerations call.
type GenerationParams struct {
	Generations    int
	TournamentSize int
	MutationProb   float64
	MutationDepth  int
	MaxDepth       int
	Module         genotype.ModuleSpec
}

// GenerationResult carries the population and best-so-far state out of a
// RunGenerations call.
type GenerationResult struct {
	Population  []gene.Individual
	Best        gene.Individual
	BestScore   float64
	Generations int
	Evaluations int
}

// Evaluate invokes the evaluator exactly once per individual. Scores are
// positionally parallel to the population.
func Evaluate(ctx context.Context, population []gene.Individual, evaluator Evaluator) ([]float64, error) {
	if evaluator == nil {
		return nil, errors.New("evaluator is required")
	}
	scores := make([]float64, len(population))
	for i, individual := range population {
		score, err := evaluator(ctx, individual)
		if err != nil {
			return nil, fmt.Errorf("evaluate individual %d: %w", i, err)
		}
		scores[i] = score
	}
	return scores, nil
}

// BestOf returns the index and score of the minimum entry. Ties go to the
// first-encountered (lowest index) individual.
func BestOf(scores []float64) (int, float64) {
	best, bestScore := -1, math.Inf(1)
	for i, score := range scores {
		if score < bestScore {
			best, bestScore = i, score
		}
	}
	return best, bestScore
}

// RunGenerations advances the population for up to params.Generations
// generations. Each generation evaluates every individual, folds the
// generation best into the call's running best on strict improvement (so
// the earliest individual reaching a score is retained), and stops when
// the running best reaches 0. Otherwise the next population is bred slot
// by slot: tournament selection, crossover of the best two, mutation,
// height truncation, and finally the running best placed into slot 0.
// Population size is invariant. Cancellation is honored between
// generations.
func RunGenerations(ctx context.Context, rng *rand.Rand, population []gene.Individual, params GenerationParams, evaluator Evaluator) (GenerationResult, error) {
	if rng == nil {
		return GenerationResult{}, ErrNoRand
	}
	if len(population) == 0 {
		return GenerationResult{}, errors.New("population is empty")
	}
	if params.Generations <= 0 {
		return GenerationResult{}, errors.New("generations must be > 0")
	}

	selector := TournamentSelector{Size: params.TournamentSize}
	result := GenerationResult{Population: population, BestScore: math.Inf(1)}
	for g := 0; g < params.Generations; g++ {
		if err := ctx.Err(); err != nil {
			return GenerationResult{}, err
		}
		scores, err := Evaluate(ctx, result.Population, evaluator)
		if err != nil {
			return GenerationResult{}, err
		}
		result.Evaluations += len(scores)
		result.Generations = g + 1
		if idx, score := BestOf(scores); score < result.BestScore {
			result.Best = result.Population[idx].Clone()
			result.BestScore = score
		}
		if result.BestScore <= 0 || g == params.Generations-1 {
			break
		}

		next := make([]gene.Individual, len(result.Population))
		for i := range next {
			father, mother, err := selector.PickParents(rng, result.Population, scores)
			if err != nil {
				return GenerationResult{}, err
			}
			child, err := CrossoverIndividual(rng, father, mother)
			if err != nil {
				return GenerationResult{}, err
			}
			child, err = MutateIndividual(rng, child, params.MutationProb, params.MutationDepth, params.Module)
			if err != nil {
				return GenerationResult{}, err
			}
			next[i] = TruncateIndividual(rng, child, params.MaxDepth)
		}
		next[0] = result.Best.Clone()
		result.Population = next
	}
	return result, nil
}
