package decide

// productTheory implements Theory for tuples/products (§4, §6.1
// "theory/product"): SymTuple constructs an n-ary tuple, SymProj (idx
// in Extra[0]) projects one component out. Grounded in the teacher's
// Pair/Car/Cdr (core.go), generalized from a fixed binary pair to
// n-ary tuples the way the spec's §1 "products" roster requires.
type productTheory struct{}

func newProductTheory() *productTheory { return &productTheory{} }

func (productTheory) ID() TheoryID { return TheoryProduct }

func (th productTheory) Canon(eng *engine, t Term) Term {
	switch v := t.(type) {
	case *Variable:
		return v
	case *Application:
		switch v.Symbol {
		case SymTuple:
			args := make([]Term, len(v.Args))
			for i, a := range v.Args {
				args[i] = th.Canon(eng, a)
			}
			return eng.table.application(SymTuple, "", args, nil)
		case SymProj:
			inner := th.Canon(eng, v.Args[0])
			idx := v.Extra[0]
			if innerApp, ok := inner.(*Application); ok && innerApp.Symbol == SymTuple {
				// proj(tuple(a0, ..., an), i) = ai (§4.3 "σᵢ").
				return innerApp.Args[idx]
			}
			return eng.table.application(SymProj, "", []Term{inner}, v.Extra)
		default:
			panic("decide: non-product symbol reached productTheory.Canon")
		}
	default:
		panic("decide: unknown term kind")
	}
}

func (th productTheory) Norm(eng *engine, rho func(*Variable) Term, t Term) Term {
	return th.Canon(eng, substituteVars(eng, rho, t))
}

// substituteVars replaces every Variable leaf of t with rho(leaf),
// leaving the application structure otherwise intact; used by Norm
// implementations that then re-canonize the result (§4.3 "norm_i(ρ,
// t)").
func substituteVars(eng *engine, rho func(*Variable) Term, t Term) Term {
	switch v := t.(type) {
	case *Variable:
		return rho(v)
	case *Application:
		args := make([]Term, len(v.Args))
		for i, a := range v.Args {
			args[i] = substituteVars(eng, rho, a)
		}
		return eng.table.application(v.Symbol, v.Name, args, v.Extra)
	default:
		panic("decide: unknown term kind")
	}
}

func (th productTheory) Solve(eng *engine, a, b Term, j Justification) []Eqn {
	ca, cb := th.Canon(eng, a), th.Canon(eng, b)
	return solveProductEq(eng, ca, cb)
}

func solveProductEq(eng *engine, a, b Term) []Eqn {
	if av, ok := a.(*Variable); ok {
		if bv, ok := b.(*Variable); ok {
			if av == bv {
				return nil
			}
			lhs, rhs := orientPair(av, bv)
			return []Eqn{{LHS: lhs, RHS: rhs}}
		}
		return []Eqn{{LHS: av, RHS: b}}
	}
	if bv, ok := b.(*Variable); ok {
		return []Eqn{{LHS: bv, RHS: a}}
	}
	aApp, bApp := a.(*Application), b.(*Application)
	if aApp.Symbol == SymTuple && bApp.Symbol == SymTuple && len(aApp.Args) == len(bApp.Args) {
		var eqns []Eqn
		for i := range aApp.Args {
			eqns = append(eqns, solveProductEq(eng, aApp.Args[i], bApp.Args[i])...)
		}
		return eqns
	}
	raiseUnsolvable()
	return nil
}

// orientPair picks which of two equal variables becomes the solved
// form's lhs, per the §4.3 tie-break (external < fresh < slack <
// label, ties by id).
func orientPair(a, b *Variable) (lhs *Variable, rhs Term) {
	if b.less(a) {
		return b, a
	}
	return a, b
}
