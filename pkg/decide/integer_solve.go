package decide

import "math/big"

// integerSolveHeuristic implements the integer-solve heuristics §4.3
// alludes to ("integer-solve heuristics apply when both sides of an
// arithmetic equality are Diophantine"): when a variable declared
// integer-valued gets a C-refinement that pins it to a non-integral
// point, or to an interval containing no integer at all, the context
// is inconsistent. Grounded in the teacher's fd_arith.go bounds-
// narrowing loop (the same "check the domain still contains a usable
// value after every refinement" shape, generalized here from a finite
// integer domain to an exact-rational interval with an integer side
// constraint).
//
// drainV (combine.go) adds one more check of the same kind: a
// V-equality that leaves an integer-declared variable's class bound to
// a non-integral constant in the linear-arithmetic solution set.
//
// This is a heuristic, not a full Omega-test-style decision procedure
// for linear integer arithmetic (§9 Open Questions: enabled/disabled
// only at Config-construction time, scoped to the shapes above); a
// Diophantine equation with no single pinned point or empty interval
// is not flagged.
func integerSolveHeuristic(eng *engine, v *Variable, dom cDomain, j Justification) {
	if !eng.intDecls[v] {
		return
	}
	iv := dom.iv
	if iv.IsPoint() {
		if !RatIsInt(iv.Lo) {
			raiseInconsistent(j)
		}
		return
	}
	if iv.Lo == nil || iv.Hi == nil {
		return
	}
	if ceilRat(iv.Lo).Cmp(floorRat(iv.Hi)) > 0 {
		raiseInconsistent(j)
	}
}

// DeclareInteger marks v as integer-valued for the lifetime of the
// engine it belongs to; called through Session.DeclareInteger.
func (e *engine) DeclareInteger(v *Variable) {
	e.intDecls[v] = true
}

func floorRat(r *Rat) *big.Int {
	q := new(big.Int)
	m := new(big.Int)
	q.DivMod(r.Num(), r.Denom(), m) // Euclidean div, m >= 0, matches floor for this sign convention
	return q
}

func ceilRat(r *Rat) *big.Int {
	f := floorRat(r)
	if RatIsInt(r) {
		return f
	}
	return new(big.Int).Add(f, big.NewInt(1))
}
