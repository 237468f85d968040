package problem

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"dendros/internal/dataset"
	"dendros/pkg/gene"
)

// perfectQuadratic is (+ (* x x) (+ (* 2 x) 1)) = x^2 + 2x + 1.
func perfectQuadratic() gene.Individual {
	return gene.Individual{
		Main: gene.Call("+",
			gene.Call("*", gene.SymbolLeaf("x"), gene.SymbolLeaf("x")),
			gene.Call("+",
				gene.Call("*", gene.NumberLeaf(2), gene.SymbolLeaf("x")),
				gene.NumberLeaf(1),
			),
		),
	}
}

func TestQuadraticScoresPerfectTreeZero(t *testing.T) {
	score, err := Quadratic{}.Evaluate(context.Background(), perfectQuadratic())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if score != 0 {
		t.Fatalf("the perfect tree must score 0, got %v", score)
	}
}

func TestQuadraticPenalizesWrongTrees(t *testing.T) {
	constant := gene.Individual{Main: gene.NumberLeaf(1)}
	score, err := Quadratic{}.Evaluate(context.Background(), constant)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	// SSE of the constant 1 against {1, 4, 9, 16}.
	want := 9.0 + 64 + 225
	if math.Abs(score-want) > 1e-9 {
		t.Fatalf("expected %v, got %v", want, score)
	}
}

func TestQuadraticSets(t *testing.T) {
	sets := Quadratic{}.Sets()
	if len(sets.Terminals) != 1 || sets.Terminals[0] != "x" {
		t.Fatalf("unexpected terminals: %v", sets.Terminals)
	}
	if len(sets.Functions) != 2 {
		t.Fatalf("unexpected function set: %v", sets.Functions)
	}
}

func TestByNameNormalization(t *testing.T) {
	for _, alias := range []string{"quadratic", "Quadratic", " QUAD ", "x2"} {
		p, err := ByName(alias)
		if err != nil {
			t.Fatalf("resolve %q: %v", alias, err)
		}
		if p.Name() != "quadratic" {
			t.Fatalf("alias %q resolved to %s", alias, p.Name())
		}
	}
	if _, err := ByName("no-such-problem"); err == nil {
		t.Fatal("expected an error for an unknown problem")
	}
}

func TestAllSortedAndDescribed(t *testing.T) {
	problems := All()
	if len(problems) < 2 {
		t.Fatalf("expected at least two built-in problems, got %d", len(problems))
	}
	for i := 1; i < len(problems); i++ {
		if problems[i-1].Name() >= problems[i].Name() {
			t.Fatalf("problems must list in name order: %s before %s", problems[i-1].Name(), problems[i].Name())
		}
	}
	for _, p := range problems {
		if p.Description() == "" {
			t.Fatalf("problem %s has no description", p.Name())
		}
		if p.Defaults().Population <= 0 {
			t.Fatalf("problem %s has no default population", p.Name())
		}
	}
}

func TestPolynomialScoresTarget(t *testing.T) {
	p := NewPolynomial("cubic", "test target", []float64{0, 0, 0, 1}) // x^3
	perfect := gene.Individual{
		Main: gene.Call("*",
			gene.SymbolLeaf("x"),
			gene.Call("*", gene.SymbolLeaf("x"), gene.SymbolLeaf("x")),
		),
	}
	score, err := p.Evaluate(context.Background(), perfect)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if score != 0 {
		t.Fatalf("x*x*x must match x^3 exactly, got %v", score)
	}
}

func TestCSVProblem(t *testing.T) {
	path := filepath.Join(t.TempDir(), "line.csv")
	if err := dataset.Generate(path, []float64{1, 2}, 0, 4, 5); err != nil {
		t.Fatalf("generate: %v", err)
	}
	p, err := NewCSV(path)
	if err != nil {
		t.Fatalf("new csv: %v", err)
	}
	// 2x + 1 matches the generated line exactly.
	perfect := gene.Individual{
		Main: gene.Call("+",
			gene.Call("*", gene.NumberLeaf(2), gene.SymbolLeaf("x")),
			gene.NumberLeaf(1),
		),
	}
	score, err := p.Evaluate(context.Background(), perfect)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if math.Abs(score) > 1e-9 {
		t.Fatalf("expected a perfect fit, got %v", score)
	}
	if _, err := NewCSV(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Fatal("expected an error for a missing dataset")
	}
}

func TestEvaluateHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (Quadratic{}).Evaluate(ctx, perfectQuadratic()); err == nil {
		t.Fatal("expected a cancellation error")
	}
}
