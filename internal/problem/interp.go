package problem

import (
	"fmt"

	"dendros/pkg/gene"
)

// EvalIndividual interprets the main branch of an individual as an
// arithmetic expression. Variables resolve through vars, division by
// zero yields 1, ADF calls bind arguments to the branch parameters over
// the calling scope, and an ADL reference evaluates its body Limit times
// and sums the iteration values. A branch body only ever sees the
// branches declared before it.
func EvalIndividual(individual gene.Individual, vars map[string]float64) (float64, error) {
	scope := evalScope{branches: individual.Branches, vars: vars}
	return scope.eval(individual.Main)
}

// EvalTree interprets a bare tree with no auxiliary branches in scope.
func EvalTree(tree gene.Tree, vars map[string]float64) (float64, error) {
	return evalScope{vars: vars}.eval(tree)
}

type evalScope struct {
	branches []gene.Branch
	vars     map[string]float64
}

func (s evalScope) eval(tree gene.Tree) (float64, error) {
	if tree.IsLeaf() {
		return s.evalLeaf(tree)
	}

	switch tree.Op {
	case "+", "-", "*", "/":
		if len(tree.Children) != 2 {
			return 0, fmt.Errorf("operator %q takes 2 arguments, got %d", tree.Op, len(tree.Children))
		}
		left, err := s.eval(tree.Children[0])
		if err != nil {
			return 0, err
		}
		right, err := s.eval(tree.Children[1])
		if err != nil {
			return 0, err
		}
		switch tree.Op {
		case "+":
			return left + right, nil
		case "-":
			return left - right, nil
		case "*":
			return left * right, nil
		default:
			if right == 0 {
				return 1, nil
			}
			return left / right, nil
		}
	}

	for i, branch := range s.branches {
		if branch.Kind != gene.BranchADF || branch.Name != tree.Op {
			continue
		}
		if len(tree.Children) != len(branch.Params) {
			return 0, fmt.Errorf("%s takes %d arguments, got %d", branch.Name, len(branch.Params), len(tree.Children))
		}
		bound := make(map[string]float64, len(s.vars)+len(branch.Params))
		for name, value := range s.vars {
			bound[name] = value
		}
		for p, param := range branch.Params {
			value, err := s.eval(tree.Children[p])
			if err != nil {
				return 0, err
			}
			bound[param] = value
		}
		return evalScope{branches: s.branches[:i], vars: bound}.eval(branch.Body)
	}
	return 0, fmt.Errorf("unknown operator %q", tree.Op)
}

func (s evalScope) evalLeaf(tree gene.Tree) (float64, error) {
	if tree.Numeric {
		return tree.Number, nil
	}
	if value, ok := s.vars[tree.Symbol]; ok {
		return value, nil
	}
	for i, branch := range s.branches {
		if branch.Name != tree.Symbol {
			continue
		}
		inner := evalScope{branches: s.branches[:i], vars: s.vars}
		switch branch.Kind {
		case gene.BranchADF:
			if len(branch.Params) != 0 {
				return 0, fmt.Errorf("%s takes %d arguments, got 0", branch.Name, len(branch.Params))
			}
			return inner.eval(branch.Body)
		case gene.BranchADL:
			total := 0.0
			for iteration := 0; iteration < branch.Limit; iteration++ {
				value, err := inner.eval(branch.Body)
				if err != nil {
					return 0, err
				}
				total += value
			}
			return total, nil
		}
	}
	return 0, fmt.Errorf("unknown symbol %q", tree.Symbol)
}
