// Package tuning refines the numeric constants of an evolved individual
// with an annealed hill climb, leaving the tree structure untouched.
package tuning

import (
	"context"
	"errors"
	"math/rand"

	"dendros/internal/evo"
	"dendros/pkg/gene"
)

// Polisher perturbs every numeric leaf of a candidate and keeps the
// perturbed copy only on strict score improvement. The spread shrinks
// by AnnealingFactor per step, so late steps make fine adjustments.
type Polisher struct {
	Rand              *rand.Rand
	Attempts          int
	Steps             int
	StepSize          float64
	PerturbationRange float64
	AnnealingFactor   float64
}

// Polish returns an individual scoring no worse than the input. A
// candidate with no numeric leaves is returned unchanged without
// calling the evaluator.
func (p *Polisher) Polish(ctx context.Context, individual gene.Individual, evaluator evo.Evaluator) (gene.Individual, float64, error) {
	if err := ctx.Err(); err != nil {
		return gene.Individual{}, 0, err
	}
	if p == nil || p.Rand == nil {
		return gene.Individual{}, 0, errors.New("random source is required")
	}
	if p.Steps <= 0 {
		return gene.Individual{}, 0, errors.New("steps must be > 0")
	}
	if p.StepSize <= 0 {
		return gene.Individual{}, 0, errors.New("step size must be > 0")
	}
	if p.PerturbationRange < 0 {
		return gene.Individual{}, 0, errors.New("perturbation range must be >= 0")
	}
	if p.AnnealingFactor < 0 {
		return gene.Individual{}, 0, errors.New("annealing factor must be >= 0")
	}
	if evaluator == nil {
		return gene.Individual{}, 0, errors.New("evaluator is required")
	}

	attempts := p.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	perturbationRange := p.PerturbationRange
	if perturbationRange == 0 {
		perturbationRange = 1.0
	}
	annealingFactor := p.AnnealingFactor
	if annealingFactor == 0 {
		annealingFactor = 1.0
	}

	best := individual.Clone()
	if len(numericLeaves(&best)) == 0 {
		score, err := evaluator(ctx, best)
		if err != nil {
			return gene.Individual{}, 0, err
		}
		return best, score, nil
	}
	bestScore, err := evaluator(ctx, best)
	if err != nil {
		return gene.Individual{}, 0, err
	}

	for a := 0; a < attempts && bestScore > 0; a++ {
		candidate := best.Clone()
		leaves := numericLeaves(&candidate)
		for step := 0; step < p.Steps; step++ {
			if err := ctx.Err(); err != nil {
				return gene.Individual{}, 0, err
			}
			spread := p.StepSize * perturbationRange * annealed(annealingFactor, step)
			previous := make([]float64, len(leaves))
			for i, leaf := range leaves {
				previous[i] = leaf.Number
				leaf.Number += (p.Rand.Float64()*2 - 1) * spread
			}
			candidateScore, err := evaluator(ctx, candidate)
			if err != nil {
				return gene.Individual{}, 0, err
			}
			if candidateScore < bestScore {
				best = candidate.Clone()
				bestScore = candidateScore
				if bestScore <= 0 {
					break
				}
				continue
			}
			for i, leaf := range leaves {
				leaf.Number = previous[i]
			}
		}
	}
	return best, bestScore, nil
}

func annealed(factor float64, step int) float64 {
	spread := 1.0
	for i := 0; i < step; i++ {
		spread *= factor
	}
	return spread
}

func numericLeaves(individual *gene.Individual) []*gene.Tree {
	var leaves []*gene.Tree
	for i := range individual.Branches {
		leaves = collectNumeric(&individual.Branches[i].Body, leaves)
	}
	return collectNumeric(&individual.Main, leaves)
}

func collectNumeric(tree *gene.Tree, leaves []*gene.Tree) []*gene.Tree {
	if tree.IsLeaf() {
		if tree.Numeric {
			leaves = append(leaves, tree)
		}
		return leaves
	}
	for i := range tree.Children {
		leaves = collectNumeric(&tree.Children[i], leaves)
	}
	return leaves
}
