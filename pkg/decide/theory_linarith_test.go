package decide

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinArithCanonIsIdempotent(t *testing.T) {
	eng := newEngine(Config{}, logr.Discard())
	x := eng.table.externalVariable("x")
	y := eng.table.externalVariable("y")

	th := newLinArithTheory()
	sum := eng.table.application(SymAdd, "", []Term{y, x}, nil)

	once := th.Canon(eng, sum)
	twice := th.Canon(eng, once)
	assert.Equal(t, once, twice, "canonicalization must be idempotent: σ(σ(t)) = σ(t)")
}

func TestLinArithCanonSortsByTermOrder(t *testing.T) {
	eng := newEngine(Config{}, logr.Discard())
	x := eng.table.externalVariable("x")
	y := eng.table.externalVariable("y")
	th := newLinArithTheory()

	ltr := th.Canon(eng, eng.table.application(SymAdd, "", []Term{x, y}, nil))
	rtl := th.Canon(eng, eng.table.application(SymAdd, "", []Term{y, x}, nil))
	assert.Equal(t, ltr, rtl, "x+y and y+x must canonicalize to the same term")
}

func TestLinArithSolveIsolatesAVariable(t *testing.T) {
	eng := newEngine(Config{}, logr.Discard())
	x := eng.table.externalVariable("x")
	y := eng.table.externalVariable("y")
	th := newLinArithTheory()

	// x + y = 3  -->  solve for one of them
	lhs := eng.table.application(SymAdd, "", []Term{x, y}, nil)
	rhs := constTerm(eng, RatInt(3))

	eqns := th.Solve(eng, lhs, rhs, Axiom(0))
	require.Len(t, eqns, 1)
	assert.True(t, eqns[0].LHS == x || eqns[0].LHS == y, "solve should isolate one of the two variables")
}

func TestLinArithSolveDetectsFalseConstantEquation(t *testing.T) {
	eng := newEngine(Config{}, logr.Discard())
	th := newLinArithTheory()

	defer func() {
		r := recover()
		_, ok := r.(inconsistentSignal)
		assert.True(t, ok, "0 = 1 should raise inconsistentSignal directly (complete decision procedure)")
	}()
	th.Solve(eng, constTerm(eng, RatInt(0)), constTerm(eng, RatInt(1)), Axiom(0))
}
