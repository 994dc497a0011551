package decide

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/google/go-cmp/cmp"
)

// cmpVarByIdentity tells go-cmp to compare *Variable by pointer
// identity rather than descending into its unexported seq field —
// the same identity-based equality Term's own doc comment specifies
// ("Terms are... compared by identity", term.go).
var cmpVarByIdentity = cmp.Comparer(func(a, b *Variable) bool { return a == b })

// TestRenamingPropagateEqMergesMonadicAliases exercises the renaming
// layer's dependency-index rekeying directly: two propvars aliasing
// the same monadic predicate on two variables must collapse into one
// equiv deduction once the variables are unioned. go-cmp compares the
// resulting Deduction slice against the expected one, with Variable
// pointers compared by identity; the comparison is positional, so the
// test also fixes which of the two propvars ends up on which side.
func TestRenamingPropagateEqMergesMonadicAliases(t *testing.T) {
	eng := newEngine(Config{}, logr.Discard())
	x := eng.table.externalVariable("x")
	y := eng.table.externalVariable("y")

	r := newRenaming()
	ux := r.AliasMonadic(eng, "p", x)
	uy := r.AliasMonadic(eng, "p", y)

	r.propagateEq(eng, x, y, Axiom(0))

	got := r.Deductions()
	want := []Deduction{{Kind: DeducEquiv, U: ux, V: uy}}

	if diff := cmp.Diff(want, got, cmpVarByIdentity); diff != "" {
		t.Fatalf("unexpected deductions (-want +got):\n%s", diff)
	}
}

// TestRenamingPropagateEqMergesEqualAliases covers the equalBinding
// side of the same rekeying logic: alias_equal(x, z) and alias_equal
// (y, z) should collapse into an equiv deduction once x and y merge,
// since both propvars now encode "find(x)=find(z)" for the same
// canonical representative.
func TestRenamingPropagateEqMergesEqualAliases(t *testing.T) {
	eng := newEngine(Config{}, logr.Discard())
	x := eng.table.externalVariable("x")
	y := eng.table.externalVariable("y")
	z := eng.table.externalVariable("z")

	r := newRenaming()
	ux := r.AliasEqual(eng, x, z)
	uy := r.AliasEqual(eng, y, z)

	r.propagateEq(eng, x, y, Axiom(0))

	got := r.Deductions()
	want := []Deduction{{Kind: DeducEquiv, U: ux, V: uy}}

	if diff := cmp.Diff(want, got, cmpVarByIdentity); diff != "" {
		t.Fatalf("unexpected deductions (-want +got):\n%s", diff)
	}
}
