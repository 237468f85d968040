// Package problem defines the built-in example problems: each supplies
// a terminal/function vocabulary, default engine settings, and a fitness
// evaluator over interpreted expression trees.
package problem

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"dendros/internal/genotype"
	"dendros/pkg/gene"
)

// Settings are the engine defaults a problem suggests for itself. The
// caller may override any field before starting a run.
type Settings struct {
	Population    int     `json:"population"`
	Iterations    int     `json:"iterations"`
	Migrations    int     `json:"migrations"`
	Islands       int     `json:"islands"`
	MaxDepth      int     `json:"max_depth"`
	MutationDepth int     `json:"mutation_depth"`
	Tournament    int     `json:"tournament"`
	MutationProb  float64 `json:"mutation_probability"`
}

// Problem is a named fitness landscape. Lower scores are better and 0
// is a perfect solution.
type Problem interface {
	Name() string
	Description() string
	Sets() genotype.Sets
	Defaults() Settings
	Evaluate(ctx context.Context, individual gene.Individual) (float64, error)
}

// ByName resolves a problem through name normalization: case and
// separator folding plus a few historical aliases.
func ByName(name string) (Problem, error) {
	normalized := Normalize(name)
	for _, candidate := range All() {
		if candidate.Name() == normalized {
			return candidate, nil
		}
	}
	return nil, fmt.Errorf("unknown problem: %s", name)
}

// All lists the built-in problems in name order.
func All() []Problem {
	problems := []Problem{
		Quadratic{},
		NewPolynomial("cubic", "x^3 - 2x target regression", []float64{0, -2, 0, 1}),
	}
	sort.Slice(problems, func(i, j int) bool {
		return problems[i].Name() < problems[j].Name()
	})
	return problems
}

// Normalize canonicalizes problem names and reference aliases.
func Normalize(name string) string {
	normalized := strings.TrimSpace(strings.ToLower(name))
	normalized = strings.ReplaceAll(normalized, "_", "-")
	normalized = strings.ReplaceAll(normalized, " ", "-")
	normalized = strings.Trim(normalized, "-")
	if normalized == "" {
		return ""
	}
	if canonical, ok := canonicalProblemName(normalized); ok {
		return canonical
	}
	return normalized
}

func canonicalProblemName(alias string) (string, bool) {
	switch strings.ReplaceAll(alias, "-", "") {
	case "quadratic", "quad", "x2":
		return "quadratic", true
	case "cubic", "x3":
		return "cubic", true
	case "polynomial", "poly":
		return "polynomial", true
	case "csv", "csvregression", "dataset":
		return "csv", true
	default:
		return "", false
	}
}

func arithmeticSets(terminals []string, numbers []float64) genotype.Sets {
	return genotype.Sets{
		Terminals: terminals,
		Numbers:   numbers,
		Functions: []gene.FunctionSpec{
			{Op: "+", Arity: 2},
			{Op: "-", Arity: 2},
			{Op: "*", Arity: 2},
			{Op: "/", Arity: 2},
		},
	}
}
