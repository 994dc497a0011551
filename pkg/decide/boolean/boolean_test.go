package boolean_test

import (
	"testing"

	"github.com/go-logr/logr"

	"github.com/gitrdm/decide/pkg/decide"
	"github.com/gitrdm/decide/pkg/decide/boolean"
)

func freshVars(n int) []*decide.Variable {
	s := decide.Empty(decide.Config{}, logr.Discard())
	b := s.Builder()
	out := make([]*decide.Variable, n)
	for i := range out {
		out[i] = b.Var(string(rune('a' + i)))
	}
	return out
}

func TestCollaboratorEquivForcesSameAssignment(t *testing.T) {
	vs := freshVars(2)
	u, v := vs[0], vs[1]

	c := boolean.New()
	c.AbsorbAll([]decide.Deduction{{Kind: decide.DeducEquiv, U: u, V: v}})
	c.Assume(u, true)
	c.Assume(v, false)

	if c.CheckSAT() {
		t.Fatal("u <-> v with u=true, v=false should be unsatisfiable")
	}
}

func TestCollaboratorDisjointForbidsBothTrue(t *testing.T) {
	vs := freshVars(2)
	u, v := vs[0], vs[1]

	c := boolean.New()
	c.AbsorbAll([]decide.Deduction{{Kind: decide.DeducDisjoint, U: u, V: v}})
	c.Assume(u, true)
	c.Assume(v, true)

	if c.CheckSAT() {
		t.Fatal("disjoint u, v with both assumed true should be unsatisfiable")
	}
}

func TestCollaboratorImpliesAllowsBothFalse(t *testing.T) {
	vs := freshVars(2)
	u, v := vs[0], vs[1]

	c := boolean.New()
	c.AbsorbAll([]decide.Deduction{{Kind: decide.DeducImplies, U: u, V: v}})
	c.Assume(u, false)

	if !c.CheckSAT() {
		t.Fatal("u -> v with u=false should be satisfiable regardless of v")
	}
}

func TestCollaboratorImpliesForbidsTrueFalse(t *testing.T) {
	vs := freshVars(2)
	u, v := vs[0], vs[1]

	c := boolean.New()
	c.AbsorbAll([]decide.Deduction{{Kind: decide.DeducImplies, U: u, V: v}})
	c.Assume(u, true)
	c.Assume(v, false)

	if c.CheckSAT() {
		t.Fatal("u -> v with u=true, v=false should be unsatisfiable")
	}
}
