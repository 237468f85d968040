package gene

import "testing"

func TestTreeString(t *testing.T) {
	cases := []struct {
		tree Tree
		want string
	}{
		{SymbolLeaf("x"), "x"},
		{NumberLeaf(2), "2"},
		{NumberLeaf(2.5), "2.5"},
		{Call("+", SymbolLeaf("x"), NumberLeaf(1)), "(+ x 1)"},
		{Call("*", Call("+", SymbolLeaf("x"), NumberLeaf(1)), SymbolLeaf("x")), "(* (+ x 1) x)"},
	}
	for _, tc := range cases {
		if got := tc.tree.String(); got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
}

func TestIndividualString(t *testing.T) {
	ind := Individual{
		Branches: []Branch{
			{Kind: BranchADF, Name: "adf0", Params: []string{"p0"}, Body: Call("+", SymbolLeaf("p0"), NumberLeaf(1))},
			{Kind: BranchADL, Name: "adl0", Limit: 25, Body: SymbolLeaf("x")},
		},
		Main: Call("adf0", SymbolLeaf("adl0")),
	}
	want := "adf0(p0) := (+ p0 1)\nadl0[25] := x\n(adf0 adl0)"
	if got := ind.String(); got != want {
		t.Fatalf("expected:\n%s\ngot:\n%s", want, got)
	}

	plain := Individual{Main: Call("+", SymbolLeaf("x"), SymbolLeaf("x"))}
	if got := plain.String(); got != "(+ x x)" {
		t.Fatalf("expected main-only rendering, got %q", got)
	}
}
