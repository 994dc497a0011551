package decide

import "math/big"

// linArithTheory implements Theory for linear arithmetic over exact
// rationals (§4.3, §6.1 "theory/linarith"). Terms are Add/Sub/Neg/
// MulConst/Const nodes over otherwise-opaque leaves (variables, or
// aliases standing for a cross-theory subterm). Grounded in the
// teacher's rational_linear_sum.go normal-form combination (a
// coefficient map keyed by term, merged on addition) and
// fd_arith.go's constant-folding; generalized from finite-domain
// integers to exact big.Rat coefficients over an unbounded variable
// set.
type linArithTheory struct{}

func newLinArithTheory() *linArithTheory { return &linArithTheory{} }

func (linArithTheory) ID() TheoryID { return TheoryLinArith }

// linComb is a linear combination Σ coeff(v)*v + konst, the normal
// form this theory canonizes every term into before rebuilding.
type linComb struct {
	coeffs map[*Variable]*Rat
	konst  *Rat
}

func newLinComb() *linComb {
	return &linComb{coeffs: make(map[*Variable]*Rat), konst: new(Rat)}
}

func (lc *linComb) addVar(v *Variable, c *Rat) {
	if c.Sign() == 0 {
		return
	}
	if cur, ok := lc.coeffs[v]; ok {
		sum := new(Rat).Add(cur, c)
		if sum.Sign() == 0 {
			delete(lc.coeffs, v)
		} else {
			lc.coeffs[v] = sum
		}
		return
	}
	lc.coeffs[v] = new(Rat).Set(c)
}

func (lc *linComb) addConst(c *Rat) {
	lc.konst = new(Rat).Add(lc.konst, c)
}

// scale returns a new combination with every coefficient (including
// the constant) multiplied by factor.
func (lc *linComb) scale(factor *Rat) *linComb {
	out := newLinComb()
	for v, c := range lc.coeffs {
		out.coeffs[v] = new(Rat).Mul(c, factor)
	}
	out.konst = new(Rat).Mul(lc.konst, factor)
	return out
}

// add returns lc + other.
func (lc *linComb) add(other *linComb) *linComb {
	out := newLinComb()
	for v, c := range lc.coeffs {
		out.coeffs[v] = new(Rat).Set(c)
	}
	for v, c := range other.coeffs {
		out.addVar(v, c)
	}
	out.konst = new(Rat).Add(lc.konst, other.konst)
	return out
}

func (lc *linComb) withoutVar(v *Variable) *linComb {
	out := newLinComb()
	for w, c := range lc.coeffs {
		if w != v {
			out.coeffs[w] = c
		}
	}
	out.konst = lc.konst
	return out
}

func (lc *linComb) isZero() bool {
	return lc.konst.Sign() == 0 && len(lc.coeffs) == 0
}

// sortedVars returns the combination's variables in the tie-break
// order the spec requires for isolating a variable during solve:
// external before fresh before slack, ties by id (§4.3 "the arithmetic
// solver isolates a non-slack variable when possible").
func (lc *linComb) sortedVars() []*Variable {
	out := make([]*Variable, 0, len(lc.coeffs))
	for v := range lc.coeffs {
		out = append(out, v)
	}
	for i := 1; i < len(out); i++ {
		for k := i; k > 0 && out[k].less(out[k-1]); k-- {
			out[k], out[k-1] = out[k-1], out[k]
		}
	}
	return out
}

// linearize decomposes an arbitrarily-nested pure-linarith term into
// its normal-form combination. Only Add/Sub/Neg/MulConst/Const/
// Variable nodes are expected; anything else is a contract violation
// (abstractWithinTheory never builds anything else for this theory).
func linearize(t Term) *linComb {
	switch v := t.(type) {
	case *Variable:
		lc := newLinComb()
		lc.addVar(v, RatInt(1))
		return lc
	case *Application:
		switch v.Symbol {
		case SymAdd:
			return linearize(v.Args[0]).add(linearize(v.Args[1]))
		case SymSub:
			return linearize(v.Args[0]).add(linearize(v.Args[1]).scale(RatInt(-1)))
		case SymNeg:
			return linearize(v.Args[0]).scale(RatInt(-1))
		case SymMulConst:
			return linearize(v.Args[0]).scale(parseRat(v.Name))
		case SymConst:
			lc := newLinComb()
			lc.konst = parseRat(v.Name)
			return lc
		default:
			panic("decide: non-linarith symbol reached linearize")
		}
	default:
		panic("decide: unknown term kind")
	}
}

func parseRat(s string) *Rat {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		panic("decide: malformed rational literal " + s)
	}
	return r
}

// rebuild turns a normal-form combination back into canonical term
// shape: a sorted Add-chain of MulConst(coeff, var) terms plus a
// trailing constant, or the bare variable itself when the combination
// is exactly "1*x" (so Canon/abstract can recognize it needs no fresh
// alias — "Canonicalization is idempotent", §8).
func (lc *linComb) rebuild(eng *engine) Term {
	vars := lc.sortedVars()
	if len(vars) == 0 {
		return constTerm(eng, lc.konst)
	}
	if len(vars) == 1 && lc.konst.Sign() == 0 {
		if c := lc.coeffs[vars[0]]; c.Cmp(RatInt(1)) == 0 {
			return vars[0]
		}
	}
	var terms []Term
	for _, v := range vars {
		terms = append(terms, mulConstTerm(eng, lc.coeffs[v], v))
	}
	if lc.konst.Sign() != 0 || len(terms) == 0 {
		terms = append(terms, constTerm(eng, lc.konst))
	}
	out := terms[0]
	for _, t := range terms[1:] {
		out = eng.table.application(SymAdd, "", []Term{out, t}, nil)
	}
	return out
}

func constTerm(eng *engine, r *Rat) Term {
	return eng.table.application(SymConst, r.RatString(), nil, nil)
}

func mulConstTerm(eng *engine, coeff *Rat, v *Variable) Term {
	if coeff.Cmp(RatInt(1)) == 0 {
		return v
	}
	return eng.table.application(SymMulConst, coeff.RatString(), []Term{v}, nil)
}

func (linArithTheory) Canon(eng *engine, t Term) Term {
	return linearize(t).rebuild(eng)
}

func (th linArithTheory) Norm(eng *engine, rho func(*Variable) Term, t Term) Term {
	lc := linearize(t)
	out := newLinComb()
	out.konst = lc.konst
	for v, c := range lc.coeffs {
		out = out.add(linearize(rho(v)).scale(c))
	}
	return out.rebuild(eng)
}

// Solve implements solve_i(a = b) for linear arithmetic (§4.3
// "solve_i"). Linear arithmetic over the rationals is itself a
// complete decision procedure for its equational fragment, so Solve
// never raises Unsolvable: an equation either isolates a variable or
// is outright true/false, and falsity is reported directly as
// *inconsistent* (see the Theory.Solve doc comment).
func (th linArithTheory) Solve(eng *engine, a, b Term, j Justification) []Eqn {
	lc := linearize(a).add(linearize(b).scale(RatInt(-1))) // a - b = 0
	vars := lc.sortedVars()
	if len(vars) == 0 {
		if lc.konst.Sign() != 0 {
			raiseInconsistent(j)
		}
		return nil
	}
	pivot := vars[0]
	coeff := lc.coeffs[pivot]
	rest := lc.withoutVar(pivot)
	solved := rest.scale(new(Rat).Neg(new(Rat).Inv(coeff)))
	return []Eqn{{LHS: pivot, RHS: solved.rebuild(eng)}}
}
