package evo

import (
	"errors"
	"math/rand"

	"dendros/pkg/gene"
)

var ErrBranchMismatch = errors.New("parents disagree on branch layout")

// CrossoverTree returns a with a randomly selected subtree replaced by a
// randomly selected subtree of b. Neither parent is modified.
func CrossoverTree(rng *rand.Rand, a, b gene.Tree) (gene.Tree, error) {
	if rng == nil {
		return gene.Tree{}, ErrNoRand
	}
	return ReplaceSubtree(rng, a, RandSubtree(rng, b)), nil
}

// CrossoverIndividual crosses either the main branches or one auxiliary
// branch body: with 50% probability, or always when a has no auxiliary
// branches, the main branches are crossed and a's auxiliary branches are
// kept; otherwise one branch index is drawn uniformly in [0, branch count)
// and that branch's bodies are crossed, with the main branch unchanged.
// Both parents must share the run's branch layout.
func CrossoverIndividual(rng *rand.Rand, a, b gene.Individual) (gene.Individual, error) {
	if rng == nil {
		return gene.Individual{}, ErrNoRand
	}
	out := a.Clone()
	if len(out.Branches) == 0 || rng.Intn(2) == 0 {
		main, err := CrossoverTree(rng, out.Main, b.Main)
		if err != nil {
			return gene.Individual{}, err
		}
		out.Main = main
		return out, nil
	}
	idx := rng.Intn(len(out.Branches))
	if idx >= len(b.Branches) {
		return gene.Individual{}, ErrBranchMismatch
	}
	body, err := CrossoverTree(rng, out.Branches[idx].Body, b.Branches[idx].Body)
	if err != nil {
		return gene.Individual{}, err
	}
	out.Branches[idx].Body = body
	return out, nil
}
