package genotype

import (
	"fmt"
	"math/rand"

	"dendros/pkg/gene"
)

// Mode selects how NewTree spends its depth budget.
type Mode string

const (
	// ModeGrow may stop early at any remaining depth with 50% probability.
	ModeGrow Mode = "grow"
	// ModeFill always expands until the depth budget is exhausted.
	ModeFill Mode = "fill"
)

// Sets are the symbols a tree under construction may draw from.
type Sets struct {
	Terminals []string
	Numbers   []float64
	Functions []gene.FunctionSpec
}

// ModuleSpec fixes the branch layout shared by every individual in a run:
// the base symbol sets plus the ADF/ADL headers to generate.
type ModuleSpec struct {
	Sets     Sets
	ADFArity int
	ADFCount int
	ADLCount int
	ADLLimit int
}

// NewTerminal draws one terminal leaf: with 50% probability a numeric
// literal when numbers are available, otherwise a terminal symbol.
func NewTerminal(rng *rand.Rand, sets Sets) (gene.Tree, error) {
	rng = ensureRNG(rng)
	if len(sets.Numbers) > 0 && rng.Intn(2) == 0 {
		value, err := RandomElement(rng, sets.Numbers)
		if err != nil {
			return gene.Tree{}, err
		}
		return gene.NumberLeaf(value), nil
	}
	symbol, err := RandomElement(rng, sets.Terminals)
	if err != nil {
		return gene.Tree{}, fmt.Errorf("terminal set: %w", err)
	}
	return gene.SymbolLeaf(symbol), nil
}

// NewTree builds a random expression tree. An exhausted budget yields a
// terminal, and grow mode may stop at any remaining depth with 50%
// probability. Expansion picks a function uniformly and recurses with
// budget-1 on each of its arity children.
func NewTree(rng *rand.Rand, budget int, sets Sets, mode Mode) (gene.Tree, error) {
	rng = ensureRNG(rng)
	if budget <= 0 || (mode == ModeGrow && rng.Intn(2) == 0) {
		return NewTerminal(rng, sets)
	}
	spec, err := RandomElement(rng, sets.Functions)
	if err != nil {
		return gene.Tree{}, fmt.Errorf("function set: %w", err)
	}
	children := make([]gene.Tree, spec.Arity)
	for i := range children {
		child, err := NewTree(rng, budget-1, sets, mode)
		if err != nil {
			return gene.Tree{}, err
		}
		children[i] = child
	}
	return gene.Tree{Op: spec.Op, Children: children}, nil
}

// BranchSets computes the symbol sets visible to the branch at index: the
// base sets extended by every earlier branch (an ADF contributes a call
// form, or a terminal when it has no parameters, and an ADL contributes a
// terminal) plus the branch's own parameters when it is an ADF.
// index == len(branches) addresses the main branch, which sees every
// auxiliary branch.
func BranchSets(spec ModuleSpec, branches []gene.Branch, index int) Sets {
	terminals := append([]string(nil), spec.Sets.Terminals...)
	functions := append([]gene.FunctionSpec(nil), spec.Sets.Functions...)
	for i := 0; i < index && i < len(branches); i++ {
		branch := branches[i]
		switch branch.Kind {
		case gene.BranchADF:
			if len(branch.Params) == 0 {
				terminals = append(terminals, branch.Name)
				continue
			}
			functions = append(functions, gene.FunctionSpec{Op: branch.Name, Arity: len(branch.Params)})
		case gene.BranchADL:
			terminals = append(terminals, branch.Name)
		}
	}
	if index < len(branches) && branches[index].Kind == gene.BranchADF {
		terminals = append(terminals, branches[index].Params...)
	}
	return Sets{Terminals: terminals, Numbers: spec.Sets.Numbers, Functions: functions}
}

// NewIndividual builds the ADF branches, then the ADL branches, then the
// main branch. Each body is built seeing only the branches before it, so
// references stay acyclic.
func NewIndividual(rng *rand.Rand, budget int, spec ModuleSpec, mode Mode) (gene.Individual, error) {
	rng = ensureRNG(rng)
	total := spec.ADFCount + spec.ADLCount
	var branches []gene.Branch
	if total > 0 {
		branches = make([]gene.Branch, 0, total)
	}
	for i := 0; i < spec.ADFCount; i++ {
		params := make([]string, spec.ADFArity)
		for p := range params {
			params[p] = fmt.Sprintf("p%d", p)
		}
		branches = append(branches, gene.Branch{
			Kind:   gene.BranchADF,
			Name:   fmt.Sprintf("adf%d", i),
			Params: params,
		})
	}
	for i := 0; i < spec.ADLCount; i++ {
		branches = append(branches, gene.Branch{
			Kind:  gene.BranchADL,
			Name:  fmt.Sprintf("adl%d", i),
			Limit: spec.ADLLimit,
		})
	}
	for i := range branches {
		body, err := NewTree(rng, budget, BranchSets(spec, branches, i), mode)
		if err != nil {
			return gene.Individual{}, fmt.Errorf("branch %s: %w", branches[i].Name, err)
		}
		branches[i].Body = body
	}
	main, err := NewTree(rng, budget, BranchSets(spec, branches, len(branches)), mode)
	if err != nil {
		return gene.Individual{}, fmt.Errorf("main branch: %w", err)
	}
	return gene.Individual{Branches: branches, Main: main}, nil
}

// NewPopulation builds size independent individuals, each with a fresh
// 50/50 grow-or-fill choice and a depth budget drawn uniformly from
// [1, mutationDepth].
func NewPopulation(rng *rand.Rand, size, mutationDepth int, spec ModuleSpec) ([]gene.Individual, error) {
	rng = ensureRNG(rng)
	if size <= 0 {
		return nil, fmt.Errorf("population size must be positive")
	}
	if mutationDepth < 1 {
		mutationDepth = 1
	}
	population := make([]gene.Individual, size)
	for i := range population {
		mode := ModeGrow
		if rng.Intn(2) == 0 {
			mode = ModeFill
		}
		budget := 1 + rng.Intn(mutationDepth)
		individual, err := NewIndividual(rng, budget, spec, mode)
		if err != nil {
			return nil, fmt.Errorf("individual %d: %w", i, err)
		}
		population[i] = individual
	}
	return population, nil
}
