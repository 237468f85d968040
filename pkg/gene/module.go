package gene

// BranchKind distinguishes the two auxiliary branch forms.
type BranchKind string

const (
	// BranchADF marks an automatically defined function: a named,
	// parameterized branch that later branches may call.
	BranchADF BranchKind = "adf"
	// BranchADL marks an automatically defined loop: a named branch bounded
	// by an iteration limit, referenced by later branches as a terminal.
	BranchADL BranchKind = "adl"
)

// Branch is one auxiliary sub-program of an individual. The header fields
// (Kind, Name, Params, Limit) are fixed for the life of a run; only Body
// changes under mutation and crossover.
type Branch struct {
	Kind   BranchKind `json:"kind"`
	Name   string     `json:"name"`
	Params []string   `json:"params,omitempty"`
	Limit  int        `json:"limit,omitempty"`
	Body   Tree       `json:"body"`
}

// Clone returns a deep copy of the branch.
func (b Branch) Clone() Branch {
	out := b
	out.Params = append([]string(nil), b.Params...)
	out.Body = b.Body.Clone()
	return out
}

// Individual is one candidate program: ordered auxiliary branches followed
// by the main branch that produces the program's result. Each branch may
// reference branches built before it; the main branch may reference them
// all.
type Individual struct {
	Branches []Branch `json:"branches,omitempty"`
	Main     Tree     `json:"main"`
}

// Clone returns a deep copy sharing no structure with ind.
func (ind Individual) Clone() Individual {
	out := Individual{Main: ind.Main.Clone()}
	if len(ind.Branches) > 0 {
		out.Branches = make([]Branch, len(ind.Branches))
		for i := range ind.Branches {
			out.Branches[i] = ind.Branches[i].Clone()
		}
	}
	return out
}

// MaxHeight is the tallest height across the main branch and every
// auxiliary body.
func (ind Individual) MaxHeight() int {
	tallest := ind.Main.Height()
	for _, branch := range ind.Branches {
		if h := branch.Body.Height(); h > tallest {
			tallest = h
		}
	}
	return tallest
}
