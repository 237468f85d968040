package evo

import (
	"math/rand"
	"testing"

	"dendros/internal/genotype"
	"dendros/pkg/gene"
)

func TestCrossoverTreeMixesParents(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	a := gene.Call("+", gene.SymbolLeaf("x"), gene.SymbolLeaf("x"))
	b := gene.Call("*", gene.SymbolLeaf("y"), gene.SymbolLeaf("y"))
	sawDonor := false
	for i := 0; i < 200; i++ {
		child, err := CrossoverTree(rng, a, b)
		if err != nil {
			t.Fatalf("crossover: %v", err)
		}
		if countSymbol(child, "y") > 0 {
			sawDonor = true
		}
		total := countSymbol(child, "x") + countSymbol(child, "y")
		if total == 0 {
			t.Fatalf("child lost every terminal: %s", child)
		}
	}
	if !sawDonor {
		t.Fatal("expected donor material to appear in 200 crossovers")
	}
}

func TestCrossoverTreeLeavesParentsUntouched(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	a, b := sampleTree(), sampleTree()
	wantA, wantB := a.String(), b.String()
	for i := 0; i < 100; i++ {
		if _, err := CrossoverTree(rng, a, b); err != nil {
			t.Fatalf("crossover: %v", err)
		}
	}
	if a.String() != wantA || b.String() != wantB {
		t.Fatal("crossover modified a parent")
	}
}

func TestCrossoverIndividualMainOrSingleBranch(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	spec := genotype.ModuleSpec{Sets: arithmeticSets(), ADFArity: 1, ADFCount: 2, ADLCount: 0, ADLLimit: 0}
	a, err := genotype.NewIndividual(rng, 3, spec, genotype.ModeFill)
	if err != nil {
		t.Fatalf("new individual: %v", err)
	}
	b, err := genotype.NewIndividual(rng, 3, spec, genotype.ModeFill)
	if err != nil {
		t.Fatalf("new individual: %v", err)
	}

	mainCrossed, branchCrossed := 0, 0
	for i := 0; i < 300; i++ {
		child, err := CrossoverIndividual(rng, a, b)
		if err != nil {
			t.Fatalf("crossover individual: %v", err)
		}
		if len(child.Branches) != len(a.Branches) {
			t.Fatalf("child branch count changed: %d", len(child.Branches))
		}
		mainChanged := child.Main.String() != a.Main.String()
		branchesChanged := 0
		for idx := range child.Branches {
			if child.Branches[idx].Body.String() != a.Branches[idx].Body.String() {
				branchesChanged++
			}
		}
		if mainChanged && branchesChanged > 0 {
			t.Fatal("one crossover must touch either the main branch or one auxiliary branch")
		}
		if branchesChanged > 1 {
			t.Fatalf("crossover touched %d auxiliary branches", branchesChanged)
		}
		if mainChanged {
			mainCrossed++
		}
		if branchesChanged == 1 {
			branchCrossed++
		}
	}
	if mainCrossed == 0 || branchCrossed == 0 {
		t.Fatalf("expected both crossover targets over 300 draws: main=%d branch=%d", mainCrossed, branchCrossed)
	}
}

func TestCrossoverIndividualWithoutBranchesKeepsLayout(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	a := gene.Individual{Main: sampleTree()}
	b := gene.Individual{Main: gene.Call("*", gene.SymbolLeaf("y"), gene.NumberLeaf(3))}
	for i := 0; i < 100; i++ {
		child, err := CrossoverIndividual(rng, a, b)
		if err != nil {
			t.Fatalf("crossover individual: %v", err)
		}
		if len(child.Branches) != 0 {
			t.Fatalf("child gained branches: %d", len(child.Branches))
		}
	}
}

func TestCrossoverIndividualBranchMismatch(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	a := gene.Individual{
		Branches: []gene.Branch{{Kind: gene.BranchADF, Name: "adf0", Params: []string{"p0"}, Body: sampleTree()}},
		Main:     sampleTree(),
	}
	b := gene.Individual{Main: sampleTree()}
	sawMismatch := false
	for i := 0; i < 100; i++ {
		if _, err := CrossoverIndividual(rng, a, b); err != nil {
			if err != ErrBranchMismatch {
				t.Fatalf("unexpected error: %v", err)
			}
			sawMismatch = true
		}
	}
	if !sawMismatch {
		t.Fatal("expected a branch layout mismatch when the donor lacks the drawn branch")
	}
}
