package decide

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/go-logr/logr"
)

// evalLinear evaluates a pure linear-arithmetic term under assignment,
// the randomized-property evaluator spec.md §8 calls "Partial" when a
// term's evaluation is undefined (here, an unassigned variable or a
// non-arithmetic symbol) — restricted to the closed Add/Sub/Neg/
// MulConst/Const family solve_i over linarith ever produces.
func evalLinear(t Term, assign map[*Variable]*big.Rat) (*big.Rat, bool) {
	switch v := t.(type) {
	case *Variable:
		r, ok := assign[v]
		return r, ok
	case *Application:
		switch v.Symbol {
		case SymConst:
			r, ok := new(big.Rat).SetString(v.Name)
			return r, ok
		case SymAdd:
			l, ok1 := evalLinear(v.Args[0], assign)
			r, ok2 := evalLinear(v.Args[1], assign)
			if !ok1 || !ok2 {
				return nil, false
			}
			return new(big.Rat).Add(l, r), true
		case SymSub:
			l, ok1 := evalLinear(v.Args[0], assign)
			r, ok2 := evalLinear(v.Args[1], assign)
			if !ok1 || !ok2 {
				return nil, false
			}
			return new(big.Rat).Sub(l, r), true
		case SymNeg:
			l, ok := evalLinear(v.Args[0], assign)
			if !ok {
				return nil, false
			}
			return new(big.Rat).Neg(l), true
		case SymMulConst:
			c, ok := new(big.Rat).SetString(v.Name)
			l, ok2 := evalLinear(v.Args[0], assign)
			if !ok || !ok2 {
				return nil, false
			}
			return new(big.Rat).Mul(c, l), true
		default:
			return nil, false
		}
	default:
		return nil, false
	}
}

// termVars collects the distinct variables reachable from t.
func termVars(t Term, into map[*Variable]struct{}) {
	switch v := t.(type) {
	case *Variable:
		into[v] = struct{}{}
	case *Application:
		for _, a := range v.Args {
			termVars(a, into)
		}
	}
}

// TestLinArithSolveSoundnessRandomized implements spec.md §8's
// "Solver soundness (randomized)" property for the linear arithmetic
// theory: draw a uniform assignment over the variables the solved form
// leaves free, give each solved lhs the value of its rhs, and check
// that every solved equation and the two original sides evaluate
// equal, repeated N >= 10 times per check. With no rhs mentioning a
// solved lhs, the first check holds; one that did would fail it.
func TestLinArithSolveSoundnessRandomized(t *testing.T) {
	const repeats = 25
	rng := rand.New(rand.NewSource(12))

	cases := []struct {
		name     string
		build    func(eng *engine) (lhs, rhs Term)
	}{
		{
			name: "x + y = 3",
			build: func(eng *engine) (Term, Term) {
				x := eng.table.externalVariable("x")
				y := eng.table.externalVariable("y")
				return eng.table.application(SymAdd, "", []Term{x, y}, nil), constTerm(eng, RatInt(3))
			},
		},
		{
			name: "x - y = 2*z",
			build: func(eng *engine) (Term, Term) {
				x := eng.table.externalVariable("x")
				y := eng.table.externalVariable("y")
				z := eng.table.externalVariable("z")
				lhs := eng.table.application(SymSub, "", []Term{x, y}, nil)
				rhs := eng.table.application(SymMulConst, RatInt(2).RatString(), []Term{z}, nil)
				return lhs, rhs
			},
		},
		{
			name: "-x = y + 1",
			build: func(eng *engine) (Term, Term) {
				x := eng.table.externalVariable("x")
				y := eng.table.externalVariable("y")
				lhs := eng.table.application(SymNeg, "", []Term{x}, nil)
				rhs := eng.table.application(SymAdd, "", []Term{y, constTerm(eng, RatInt(1))}, nil)
				return lhs, rhs
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			eng := newEngine(Config{}, logr.Discard())
			th := newLinArithTheory()
			lhs, rhs := c.build(eng)

			eqns := th.Solve(eng, lhs, rhs, Axiom(0))
			if len(eqns) == 0 {
				t.Fatalf("expected at least one oriented equation from Solve")
			}

			vars := map[*Variable]struct{}{}
			termVars(lhs, vars)
			termVars(rhs, vars)
			for _, eq := range eqns {
				vars[eq.LHS] = struct{}{}
				termVars(eq.RHS, vars)
			}

			for i := 0; i < repeats; i++ {
				assign := map[*Variable]*big.Rat{}
				for v := range vars {
					assign[v] = big.NewRat(rng.Int63n(21)-10, 1)
				}
				// A solved lhs is fixed by its rhs, so only the variables
				// the solved form leaves free keep their random values.
				for _, eq := range eqns {
					if v, ok := evalLinear(eq.RHS, assign); ok {
						assign[eq.LHS] = v
					}
				}

				for _, eq := range eqns {
					lv, lok := evalLinear(eq.LHS, assign)
					rv, rok := evalLinear(eq.RHS, assign)
					if !lok || !rok {
						continue // Partial: skip, per §8's evaluation-is-total caveat
					}
					if lv.Cmp(rv) != 0 {
						t.Fatalf("solved equation %s = %s is unsound under assignment: %v != %v",
							eq.LHS, eq.RHS, lv, rv)
					}
				}

				// The solved form must also be consistent with the
				// original equality it replaced: substitute the
				// solved bindings into lhs/rhs and re-check equality.
				sub := func(x *Variable) Term {
					for _, eq := range eqns {
						if eq.LHS == x {
							return eq.RHS
						}
					}
					return x
				}
				origLHS, okL := evalLinear(substituteVarsTest(lhs, sub), assign)
				origRHS, okR := evalLinear(substituteVarsTest(rhs, sub), assign)
				if okL && okR && origLHS.Cmp(origRHS) != 0 {
					t.Fatalf("original equality %v = %v not preserved by solved form under assignment", lhs, rhs)
				}
			}
		})
	}
}

// substituteVarsTest rewrites every Variable leaf of t through sub,
// re-applying the same symbol over the rewritten arguments.
func substituteVarsTest(t Term, sub func(*Variable) Term) Term {
	switch v := t.(type) {
	case *Variable:
		return sub(v)
	case *Application:
		args := make([]Term, len(v.Args))
		for i, a := range v.Args {
			args[i] = substituteVarsTest(a, sub)
		}
		return &Application{Symbol: v.Symbol, Name: v.Name, Args: args, Extra: v.Extra}
	default:
		return t
	}
}
