package decide

import "testing"

func TestCCAliasHashConsesUpToCanonical(t *testing.T) {
	tbl := newTermTable()
	p := newPartition()
	cc := newCC()
	x := freshExternal(tbl, "x")

	u1 := cc.Alias(p, tbl, SymUninterpreted, "f", []*Variable{x})
	u2 := cc.Alias(p, tbl, SymUninterpreted, "f", []*Variable{x})
	if u1 != u2 {
		t.Fatalf("aliasing the same f(x) twice should return the same alias variable")
	}
}

func TestCCCloseMergesCongruentApplications(t *testing.T) {
	tbl := newTermTable()
	p := newPartition()
	cc := newCC()
	x := freshExternal(tbl, "x")
	y := freshExternal(tbl, "y")

	ux := cc.Alias(p, tbl, SymUninterpreted, "f", []*Variable{x})
	uy := cc.Alias(p, tbl, SymUninterpreted, "f", []*Variable{y})
	if p.Equal(ux, uy) {
		t.Fatal("f(x) and f(y) should not start congruent")
	}

	p.Union(x, y, Axiom(0))
	cc.Close(p, x, p.Find(x), Axiom(0))

	if !p.Equal(ux, uy) {
		t.Fatal("after x = y, congruence closure should merge f(x) and f(y)'s aliases")
	}
}

func TestCCInvFindsExistingBinding(t *testing.T) {
	tbl := newTermTable()
	p := newPartition()
	cc := newCC()
	x := freshExternal(tbl, "x")

	u := cc.Alias(p, tbl, SymUninterpreted, "f", []*Variable{x})
	got, ok := cc.Inv(p, SymUninterpreted, "f", []*Variable{x})
	if !ok || got != u {
		t.Fatalf("Inv should find the alias created by Alias, got %v, %v", got, ok)
	}

	_, ok = cc.Inv(p, SymUninterpreted, "g", []*Variable{x})
	if ok {
		t.Fatal("Inv should report not-found for an unbound symbol")
	}
}

func TestCCLookupReportsBoundApplication(t *testing.T) {
	tbl := newTermTable()
	p := newPartition()
	cc := newCC()
	x := freshExternal(tbl, "x")

	u := cc.Alias(p, tbl, SymUninterpreted, "f", []*Variable{x})
	b, ok := cc.Lookup(p, u)
	if !ok {
		t.Fatal("Lookup should find the binding on u")
	}
	if b.sym != SymUninterpreted || b.name != "f" || len(b.args) != 1 || b.args[0] != x {
		t.Fatalf("unexpected binding: %+v", b)
	}
}
