package decide

// bitvectorTheory implements Theory for fixed-width bitvectors (§4,
// §6.1 "theory/bitvector"): SymBvConst (width, value in Extra),
// SymBvAnd/Or/Xor/Not/Concat/Extract. Grounded in the teacher's
// domain.go BitSetDomain (a math/bits-backed word array used for
// finite-domain propagation); generalized here from a propagation
// domain into a Shostak canonizer/solver pair operating on exact
// fixed-width values packed into a uint64 (widths above 64 are outside
// this decision procedure's scope, same restriction the teacher's
// BitSetDomain carries implicitly via its machine-word backing).
type bitvectorTheory struct{}

func newBitvectorTheory() *bitvectorTheory { return &bitvectorTheory{} }

func (bitvectorTheory) ID() TheoryID { return TheoryBitvector }

func bvMask(width int64) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(width)) - 1
}

// bvConst reads a constant application's (width, value) pair; a nil
// app (asApp of a variable) is not a constant.
func bvConst(app *Application) (width int64, value uint64, ok bool) {
	if app == nil || app.Symbol != SymBvConst {
		return 0, 0, false
	}
	return app.Extra[0], uint64(app.Extra[1]), true
}

func (th bitvectorTheory) Canon(eng *engine, t Term) Term {
	switch v := t.(type) {
	case *Variable:
		return v
	case *Application:
		args := make([]Term, len(v.Args))
		for i, a := range v.Args {
			args[i] = th.Canon(eng, a)
		}
		switch v.Symbol {
		case SymBvConst:
			return v
		case SymBvNot:
			if w, val, ok := bvConst(asApp(args[0])); ok {
				return bvConstTerm(eng, w, ^val&bvMask(w))
			}
		case SymBvAnd, SymBvOr, SymBvXor:
			if lw, lv, lok := bvConst(asApp(args[0])); lok {
				if _, rv, rok := bvConst(asApp(args[1])); rok {
					return bvConstTerm(eng, lw, bvFold(v.Symbol, lv, rv)&bvMask(lw))
				}
			}
			// Commutative: canonicalize operand order by term id so
			// x AND y and y AND x hash-cons to the same application.
			if !TermOrder(args[0], args[1]) && args[0].id() != args[1].id() {
				args[0], args[1] = args[1], args[0]
			}
		case SymBvConcat:
			if lw, lv, lok := bvConst(asApp(args[0])); lok {
				if rw, rv, rok := bvConst(asApp(args[1])); rok {
					return bvConstTerm(eng, lw+rw, (lv<<uint(rw)|rv)&bvMask(lw+rw))
				}
			}
		case SymBvExtract:
			hi, lo := v.Extra[0], v.Extra[1]
			if w, val, ok := bvConst(asApp(args[0])); ok && hi < w {
				width := hi - lo + 1
				return bvConstTerm(eng, width, (val>>uint(lo))&bvMask(width))
			}
		}
		return eng.table.application(v.Symbol, v.Name, args, v.Extra)
	default:
		panic("decide: unknown term kind")
	}
}

func bvFold(sym SymbolKind, a, b uint64) uint64 {
	switch sym {
	case SymBvAnd:
		return a & b
	case SymBvOr:
		return a | b
	case SymBvXor:
		return a ^ b
	default:
		panic("decide: non-boolean bitvector fold")
	}
}

func asApp(t Term) *Application {
	app, _ := t.(*Application)
	return app
}

func bvConstTerm(eng *engine, width int64, value uint64) Term {
	return eng.table.application(SymBvConst, "", nil, []int64{width, int64(value)})
}

func (th bitvectorTheory) Norm(eng *engine, rho func(*Variable) Term, t Term) Term {
	return th.Canon(eng, substituteVars(eng, rho, t))
}

func (th bitvectorTheory) Solve(eng *engine, a, b Term, j Justification) []Eqn {
	ca, cb := th.Canon(eng, a), th.Canon(eng, b)
	if av, ok := ca.(*Variable); ok {
		if bv, ok := cb.(*Variable); ok {
			if av == bv {
				return nil
			}
			lhs, rhs := orientPair(av, bv)
			return []Eqn{{LHS: lhs, RHS: rhs}}
		}
		return []Eqn{{LHS: av, RHS: cb}}
	}
	if bv, ok := cb.(*Variable); ok {
		return []Eqn{{LHS: bv, RHS: ca}}
	}
	if _, lval, lok := bvConst(asApp(ca)); lok {
		if _, rval, rok := bvConst(asApp(cb)); rok {
			if lval == rval {
				return nil
			}
			raiseInconsistent(j)
		}
	}
	raiseUnsolvable()
	return nil
}
