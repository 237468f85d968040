package evo

import (
	"dendros/internal/genotype"
	"dendros/pkg/gene"
)

// Operator is one structural edit applied to an expression tree. The sets
// argument carries the symbols visible to the branch being edited, so a
// branch body never gains references it could not see at construction.
type Operator interface {
	Name() string
	Apply(tree gene.Tree, sets genotype.Sets) (gene.Tree, error)
}
