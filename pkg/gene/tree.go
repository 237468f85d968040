package gene

// FunctionSpec identifies one callable operator and the child count its
// nodes carry.
type FunctionSpec struct {
	Op    string `json:"op"`
	Arity int    `json:"arity"`
}

// Tree is one expression-tree node. A node with no children is a leaf and
// carries either a variable symbol or a numeric literal; an interior node
// carries its operator in Op and exactly arity children. Trees are edited
// by rebuilding the path to the changed node, never in place, so values
// may share unchanged subtrees safely.
type Tree struct {
	Op       string  `json:"op,omitempty"`
	Symbol   string  `json:"symbol,omitempty"`
	Number   float64 `json:"number,omitempty"`
	Numeric  bool    `json:"numeric,omitempty"`
	Children []Tree  `json:"children,omitempty"`
}

// SymbolLeaf returns a leaf referencing a named terminal.
func SymbolLeaf(symbol string) Tree {
	return Tree{Symbol: symbol}
}

// NumberLeaf returns a leaf carrying a numeric literal.
func NumberLeaf(value float64) Tree {
	return Tree{Number: value, Numeric: true}
}

// Call returns an interior node applying op to the given children.
func Call(op string, children ...Tree) Tree {
	return Tree{Op: op, Children: children}
}

// IsLeaf reports whether t carries a terminal rather than an operator.
func (t Tree) IsLeaf() bool {
	return len(t.Children) == 0
}

// Height is the longest root-to-leaf edge count; a leaf has height 0.
func (t Tree) Height() int {
	if len(t.Children) == 0 {
		return 0
	}
	tallest := 0
	for _, child := range t.Children {
		if h := child.Height(); h > tallest {
			tallest = h
		}
	}
	return tallest + 1
}

// Size counts every node in the tree, leaves included.
func (t Tree) Size() int {
	total := 1
	for _, child := range t.Children {
		total += child.Size()
	}
	return total
}

// Clone returns a deep copy sharing no child slices with t.
func (t Tree) Clone() Tree {
	out := t
	if len(t.Children) == 0 {
		return out
	}
	out.Children = make([]Tree, len(t.Children))
	for i := range t.Children {
		out.Children[i] = t.Children[i].Clone()
	}
	return out
}
