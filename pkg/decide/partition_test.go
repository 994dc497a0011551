package decide

import (
	"testing"
)

func freshExternal(tbl *termTable, name string) *Variable {
	return tbl.externalVariable(name)
}

func TestPartitionFindIsIdempotent(t *testing.T) {
	tbl := newTermTable()
	p := newPartition()
	x := freshExternal(tbl, "x")

	if got := p.Find(x); got != x {
		t.Fatalf("Find on an unmerged variable should return itself, got %v", got)
	}
	if got := p.Find(p.Find(x)); got != p.Find(x) {
		t.Fatalf("find(find(x)) != find(x): invariant violated")
	}
}

func TestPartitionUnionMergesClasses(t *testing.T) {
	tbl := newTermTable()
	p := newPartition()
	x := freshExternal(tbl, "x")
	y := freshExternal(tbl, "y")

	if p.Equal(x, y) {
		t.Fatal("x and y should not start equal")
	}
	p.Union(x, y, Axiom(0))
	if !p.Equal(x, y) {
		t.Fatal("x and y should be equal after Union")
	}
}

func TestPartitionUnionTieBreakPrefersExternal(t *testing.T) {
	tbl := newTermTable()
	p := newPartition()
	ext := freshExternal(tbl, "x")
	slack := tbl.freshVariable(VarSlack, "")

	p.Union(slack, ext, Axiom(0))
	if got := p.Find(slack); got != ext {
		t.Fatalf("external variable should survive over slack, got %v", got)
	}

	p2 := newPartition()
	ext2 := freshExternal(tbl, "y")
	fresh2 := tbl.freshVariable(VarFreshRename, "")
	p2.Union(ext2, fresh2, Axiom(0))
	if got := p2.Find(fresh2); got != ext2 {
		t.Fatalf("external should win tie-break regardless of argument order, got %v", got)
	}
}

func TestPartitionSeparateThenUnionIsInconsistent(t *testing.T) {
	tbl := newTermTable()
	p := newPartition()
	x := freshExternal(tbl, "x")
	y := freshExternal(tbl, "y")

	p.Separate(x, y, Axiom(0))
	if !p.Diseq(x, y) {
		t.Fatal("x and y should be disequal after Separate")
	}

	defer func() {
		r := recover()
		if _, ok := r.(inconsistentSignal); !ok {
			t.Fatalf("expected inconsistentSignal, got %v", r)
		}
	}()
	p.Union(x, y, Axiom(1))
	t.Fatal("Union over a recorded disequality should panic with inconsistentSignal")
}

func TestPartitionUnionThenSeparateIsInconsistent(t *testing.T) {
	tbl := newTermTable()
	p := newPartition()
	x := freshExternal(tbl, "x")
	y := freshExternal(tbl, "y")

	p.Union(x, y, Axiom(0))

	defer func() {
		r := recover()
		if _, ok := r.(inconsistentSignal); !ok {
			t.Fatalf("expected inconsistentSignal, got %v", r)
		}
	}()
	p.Separate(x, y, Axiom(1))
	t.Fatal("Separate over already-equal variables should panic with inconsistentSignal")
}

func TestPartitionRefineSignEmptyMeetIsInconsistent(t *testing.T) {
	tbl := newTermTable()
	p := newPartition()
	x := freshExternal(tbl, "x")

	p.RefineSign(x, SignPos, Axiom(0))
	if got := p.SignOf(x); got != SignPos {
		t.Fatalf("expected SignPos, got %v", got)
	}

	defer func() {
		r := recover()
		if _, ok := r.(inconsistentSignal); !ok {
			t.Fatalf("expected inconsistentSignal, got %v", r)
		}
	}()
	p.RefineSign(x, SignNeg, Axiom(1))
	t.Fatal("meeting SignPos with SignNeg should be empty and panic")
}

func TestMeetSignTable(t *testing.T) {
	cases := []struct {
		a, b, want Sign
	}{
		{SignTop, SignPos, SignPos},
		{SignNonNeg, SignNonPos, SignZero},
		{SignPos, SignNeg, SignBot},
		{SignZero, SignNonNeg, SignZero},
		{SignBot, SignTop, SignBot},
	}
	for _, c := range cases {
		if got := MeetSign(c.a, c.b); got != c.want {
			t.Errorf("MeetSign(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestPartitionClone(t *testing.T) {
	tbl := newTermTable()
	p := newPartition()
	x := freshExternal(tbl, "x")
	y := freshExternal(tbl, "y")
	p.Union(x, y, Axiom(0))

	clone := p.clone()
	z := freshExternal(tbl, "z")
	clone.Union(x, z, Axiom(1))

	if p.Equal(x, z) {
		t.Fatal("mutating the clone must not affect the original partition")
	}
	if !clone.Equal(x, z) {
		t.Fatal("the clone itself should reflect its own mutation")
	}
}
