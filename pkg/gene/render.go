package gene

import (
	"strconv"
	"strings"
)

// String renders the tree as an S-expression, numbers in their shortest
// decimal form.
func (t Tree) String() string {
	var b strings.Builder
	writeTree(&b, t)
	return b.String()
}

func writeTree(b *strings.Builder, t Tree) {
	if len(t.Children) == 0 {
		if t.Numeric {
			b.WriteString(strconv.FormatFloat(t.Number, 'g', -1, 64))
			return
		}
		b.WriteString(t.Symbol)
		return
	}
	b.WriteByte('(')
	b.WriteString(t.Op)
	for _, child := range t.Children {
		b.WriteByte(' ')
		writeTree(b, child)
	}
	b.WriteByte(')')
}

// String renders the individual one branch per line, auxiliary definitions
// first, the main expression last.
func (ind Individual) String() string {
	if len(ind.Branches) == 0 {
		return ind.Main.String()
	}
	var b strings.Builder
	for _, branch := range ind.Branches {
		b.WriteString(branch.Name)
		switch branch.Kind {
		case BranchADL:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(branch.Limit))
			b.WriteByte(']')
		default:
			b.WriteByte('(')
			b.WriteString(strings.Join(branch.Params, " "))
			b.WriteByte(')')
		}
		b.WriteString(" := ")
		writeTree(&b, branch.Body)
		b.WriteByte('\n')
	}
	writeTree(&b, ind.Main)
	return b.String()
}
