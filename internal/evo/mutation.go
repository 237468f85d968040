package evo

import (
	"errors"
	"math/rand"

	"dendros/internal/genotype"
	"dendros/pkg/gene"
)

var ErrNoRand = errors.New("random source is required")

// RegrowSubtree replaces a randomly selected subtree with a freshly grown
// tree of at most Depth levels.
type RegrowSubtree struct {
	Rand  *rand.Rand
	Depth int
}

func (o *RegrowSubtree) Name() string {
	return "regrow_subtree"
}

func (o *RegrowSubtree) Apply(tree gene.Tree, sets genotype.Sets) (gene.Tree, error) {
	if o == nil || o.Rand == nil {
		return gene.Tree{}, ErrNoRand
	}
	if o.Depth < 0 {
		return gene.Tree{}, errors.New("depth must be >= 0")
	}
	grown, err := genotype.NewTree(o.Rand, o.Depth, sets, genotype.ModeGrow)
	if err != nil {
		return gene.Tree{}, err
	}
	return ReplaceSubtree(o.Rand, tree, grown), nil
}

// SimplifySubtree replaces a randomly selected subtree with a single random
// terminal.
type SimplifySubtree struct {
	Rand *rand.Rand
}

func (o *SimplifySubtree) Name() string {
	return "simplify_subtree"
}

func (o *SimplifySubtree) Apply(tree gene.Tree, sets genotype.Sets) (gene.Tree, error) {
	if o == nil || o.Rand == nil {
		return gene.Tree{}, ErrNoRand
	}
	terminal, err := genotype.NewTerminal(o.Rand, sets)
	if err != nil {
		return gene.Tree{}, err
	}
	return ReplaceSubtree(o.Rand, tree, terminal), nil
}

// LiftSubtree promotes a randomly selected subtree to the root, discarding
// everything above it.
type LiftSubtree struct {
	Rand *rand.Rand
}

func (o *LiftSubtree) Name() string {
	return "lift_subtree"
}

func (o *LiftSubtree) Apply(tree gene.Tree, _ genotype.Sets) (gene.Tree, error) {
	if o == nil || o.Rand == nil {
		return gene.Tree{}, ErrNoRand
	}
	return RandSubtree(o.Rand, tree).Clone(), nil
}

// MutateTree applies one uniformly chosen operator with probability pMutate
// and returns the tree unchanged otherwise. A probability of 0 is the
// identity.
func MutateTree(rng *rand.Rand, tree gene.Tree, pMutate float64, depth int, sets genotype.Sets) (gene.Tree, error) {
	if rng == nil {
		return gene.Tree{}, ErrNoRand
	}
	if rng.Float64() >= pMutate {
		return tree, nil
	}
	operators := []Operator{
		&RegrowSubtree{Rand: rng, Depth: depth},
		&SimplifySubtree{Rand: rng},
		&LiftSubtree{Rand: rng},
	}
	return operators[rng.Intn(len(operators))].Apply(tree, sets)
}

// MutateIndividual mutates either the main branch or the auxiliary branch
// bodies, never both in the same generation: with 50% probability, or
// always when there are no auxiliary branches, only the main branch is
// mutated; otherwise every auxiliary body is mutated independently and the
// main branch passes through. Each branch is edited against the symbol
// sets it saw at construction. Branch headers are never touched.
func MutateIndividual(rng *rand.Rand, individual gene.Individual, pMutate float64, depth int, spec genotype.ModuleSpec) (gene.Individual, error) {
	if rng == nil {
		return gene.Individual{}, ErrNoRand
	}
	out := individual.Clone()
	if len(out.Branches) == 0 || rng.Intn(2) == 0 {
		main, err := MutateTree(rng, out.Main, pMutate, depth, genotype.BranchSets(spec, out.Branches, len(out.Branches)))
		if err != nil {
			return gene.Individual{}, err
		}
		out.Main = main
		return out, nil
	}
	for i := range out.Branches {
		body, err := MutateTree(rng, out.Branches[i].Body, pMutate, depth, genotype.BranchSets(spec, out.Branches, i))
		if err != nil {
			return gene.Individual{}, err
		}
		out.Branches[i].Body = body
	}
	return out, nil
}
