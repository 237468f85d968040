package evo

import (
	"math/rand"

	"dendros/pkg/gene"
)

// RandSubtree samples one subtree of tree by a biased random walk: a depth
// limit is drawn uniformly in [0, height], then the walk descends into a
// uniformly chosen child, redrawing the limit uniformly in [0, limit) after
// each step, and stops at the current node when the limit reaches 0 or the
// node is a leaf. Shallow nodes are favored over a uniform sample of all
// subtrees.
func RandSubtree(rng *rand.Rand, tree gene.Tree) gene.Tree {
	return descend(rng, tree, rng.Intn(tree.Height()+1))
}

func descend(rng *rand.Rand, tree gene.Tree, limit int) gene.Tree {
	node := tree
	for limit > 0 && !node.IsLeaf() {
		node = node.Children[rng.Intn(len(node.Children))]
		limit = rng.Intn(limit)
	}
	return node
}

// ReplaceSubtree performs the same biased walk with its own fresh draws and
// substitutes replacement at the stopping node, rebuilding only the path
// from the root down to it. Siblings and ancestors outside that path are
// carried over unchanged.
func ReplaceSubtree(rng *rand.Rand, tree, replacement gene.Tree) gene.Tree {
	return replaceAt(rng, tree, replacement, rng.Intn(tree.Height()+1))
}

func replaceAt(rng *rand.Rand, tree, replacement gene.Tree, limit int) gene.Tree {
	if limit <= 0 || tree.IsLeaf() {
		return replacement.Clone()
	}
	idx := rng.Intn(len(tree.Children))
	children := make([]gene.Tree, len(tree.Children))
	copy(children, tree.Children)
	children[idx] = replaceAt(rng, children[idx], replacement, rng.Intn(limit))
	out := tree
	out.Children = children
	return out
}

// Truncate enforces a height cap by repeatedly substituting the tree with
// one of its own random subtrees until the cap holds. A leaf always
// satisfies the bound, so the loop terminates; a negative cap is treated
// as 0.
func Truncate(rng *rand.Rand, tree gene.Tree, maxHeight int) gene.Tree {
	if maxHeight < 0 {
		maxHeight = 0
	}
	for tree.Height() > maxHeight {
		tree = RandSubtree(rng, tree)
	}
	return tree
}

// TruncateIndividual applies Truncate to the main branch and every
// auxiliary branch body, preserving branch headers.
func TruncateIndividual(rng *rand.Rand, individual gene.Individual, maxHeight int) gene.Individual {
	out := individual.Clone()
	out.Main = Truncate(rng, out.Main, maxHeight)
	for i := range out.Branches {
		out.Branches[i].Body = Truncate(rng, out.Branches[i].Body, maxHeight)
	}
	return out
}
