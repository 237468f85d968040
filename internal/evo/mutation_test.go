package evo

import (
	"math/rand"
	"testing"

	"dendros/internal/genotype"
	"dendros/pkg/gene"
)

func arithmeticSets() genotype.Sets {
	return genotype.Sets{
		Terminals: []string{"x"},
		Numbers:   []float64{1, 2},
		Functions: []gene.FunctionSpec{{Op: "+", Arity: 2}, {Op: "*", Arity: 2}},
	}
}

func TestMutateTreeZeroProbabilityIsIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tree := sampleTree()
	for i := 0; i < 100; i++ {
		got, err := MutateTree(rng, tree, 0, 4, arithmeticSets())
		if err != nil {
			t.Fatalf("mutate: %v", err)
		}
		if got.String() != tree.String() {
			t.Fatalf("p=0 must be the identity, got %s", got)
		}
	}
}

func TestMutateTreeFullProbabilityChangesTrees(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	tree := sampleTree()
	changed := 0
	for i := 0; i < 200; i++ {
		got, err := MutateTree(rng, tree, 1, 4, arithmeticSets())
		if err != nil {
			t.Fatalf("mutate: %v", err)
		}
		if got.String() != tree.String() {
			changed++
		}
	}
	// Some edits are no-ops (lifting the root, regrowing an identical
	// subtree), but most draws must produce a different tree.
	if changed < 100 {
		t.Fatalf("expected most mutations to change the tree, got %d of 200", changed)
	}
}

func TestMutateTreeRequiresRand(t *testing.T) {
	if _, err := MutateTree(nil, sampleTree(), 1, 4, arithmeticSets()); err == nil {
		t.Fatal("expected an error without a random source")
	}
}

func TestOperatorsProduceWellFormedTrees(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	sets := arithmeticSets()
	operators := []Operator{
		&RegrowSubtree{Rand: rng, Depth: 3},
		&SimplifySubtree{Rand: rng},
		&LiftSubtree{Rand: rng},
	}
	for _, operator := range operators {
		for i := 0; i < 100; i++ {
			got, err := operator.Apply(sampleTree(), sets)
			if err != nil {
				t.Fatalf("%s: %v", operator.Name(), err)
			}
			assertWellFormed(t, got, sets)
		}
	}
}

func TestLiftSubtreeShrinksOrKeeps(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	tree := sampleTree()
	lift := &LiftSubtree{Rand: rng}
	for i := 0; i < 100; i++ {
		got, err := lift.Apply(tree, arithmeticSets())
		if err != nil {
			t.Fatalf("lift: %v", err)
		}
		if got.Size() > tree.Size() {
			t.Fatalf("lifting cannot grow the tree: %s", got)
		}
	}
}

func TestMutateIndividualTargetsMainOrBranches(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	spec := genotype.ModuleSpec{Sets: arithmeticSets(), ADFArity: 1, ADFCount: 1, ADLCount: 1, ADLLimit: 10}
	parent, err := genotype.NewIndividual(rng, 3, spec, genotype.ModeFill)
	if err != nil {
		t.Fatalf("new individual: %v", err)
	}

	mainChanged, branchChanged, bothChanged := 0, 0, 0
	for i := 0; i < 300; i++ {
		got, err := MutateIndividual(rng, parent, 1, 3, spec)
		if err != nil {
			t.Fatalf("mutate individual: %v", err)
		}
		main := got.Main.String() != parent.Main.String()
		branch := false
		for b := range got.Branches {
			if got.Branches[b].Body.String() != parent.Branches[b].Body.String() {
				branch = true
			}
			if got.Branches[b].Name != parent.Branches[b].Name {
				t.Fatal("branch headers must never change")
			}
		}
		if main && branch {
			bothChanged++
		}
		if main {
			mainChanged++
		}
		if branch {
			branchChanged++
		}
	}
	if bothChanged != 0 {
		t.Fatalf("a single generation must not touch main and branches together: %d", bothChanged)
	}
	if mainChanged == 0 || branchChanged == 0 {
		t.Fatalf("expected both mutation targets over 300 draws: main=%d branches=%d", mainChanged, branchChanged)
	}
}

func TestMutateIndividualWithoutBranchesAlwaysMutatesMain(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	spec := genotype.ModuleSpec{Sets: arithmeticSets()}
	parent := gene.Individual{Main: sampleTree()}
	changed := 0
	for i := 0; i < 200; i++ {
		got, err := MutateIndividual(rng, parent, 1, 3, spec)
		if err != nil {
			t.Fatalf("mutate individual: %v", err)
		}
		if got.Main.String() != parent.Main.String() {
			changed++
		}
	}
	if changed < 100 {
		t.Fatalf("without branches every draw targets the main branch, changed only %d of 200", changed)
	}
}

func assertWellFormed(t *testing.T, tree gene.Tree, sets genotype.Sets) {
	t.Helper()
	if tree.IsLeaf() {
		if tree.Numeric {
			return
		}
		for _, terminal := range sets.Terminals {
			if tree.Symbol == terminal {
				return
			}
		}
		t.Fatalf("unknown terminal symbol: %q", tree.Symbol)
	}
	for _, spec := range sets.Functions {
		if spec.Op == tree.Op {
			if len(tree.Children) != spec.Arity {
				t.Fatalf("node %s has %d children, want %d", tree.Op, len(tree.Children), spec.Arity)
			}
			for _, child := range tree.Children {
				assertWellFormed(t, child, sets)
			}
			return
		}
	}
	t.Fatalf("unknown operator: %q", tree.Op)
}
