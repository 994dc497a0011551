package decide

// nonlinearTheory implements Theory for products and powers of
// variables (§4, §6.1 "theory/nonlinear"): SymMult, SymExpt (exponent
// in Extra[0], a small non-negative integer). Grounded in the
// teacher's rational_linear_sum.go normal-form combination, reused
// here for the commutative monomial ordering rather than for solving:
// unlike linear arithmetic, the equational fragment of nonlinear
// arithmetic is not decidable by this procedure in general, so Solve
// only handles the genuinely linear shape of an equation (one side
// already a bare variable) and raises Unsolvable otherwise, triggering
// the alias-and-union fallback (§4.3 "Failure semantics").
type nonlinearTheory struct{}

func newNonlinearTheory() *nonlinearTheory { return &nonlinearTheory{} }

func (nonlinearTheory) ID() TheoryID { return TheoryNonlinear }

func (th nonlinearTheory) Canon(eng *engine, t Term) Term {
	switch v := t.(type) {
	case *Variable:
		return v
	case *Application:
		switch v.Symbol {
		case SymMult:
			factors := flattenMult(th, eng, v)
			sortTerms(factors)
			out := factors[0]
			for _, f := range factors[1:] {
				out = eng.table.application(SymMult, "", []Term{out, f}, nil)
			}
			return out
		case SymExpt:
			base := th.Canon(eng, v.Args[0])
			return eng.table.application(SymExpt, "", []Term{base}, v.Extra)
		default:
			panic("decide: non-nonlinear symbol reached nonlinearTheory.Canon")
		}
	default:
		panic("decide: unknown term kind")
	}
}

// flattenMult collects a chain of nested Mult applications into its
// leaf factors, canonizing each one, so x*y*z canonizes to one
// sorted left-leaning chain of binary Mults whose shape does not
// depend on parse order.
func flattenMult(th nonlinearTheory, eng *engine, app *Application) []Term {
	var out []Term
	for _, a := range app.Args {
		if sub, ok := a.(*Application); ok && sub.Symbol == SymMult {
			out = append(out, flattenMult(th, eng, sub)...)
			continue
		}
		out = append(out, th.Canon(eng, a))
	}
	return out
}

func (th nonlinearTheory) Norm(eng *engine, rho func(*Variable) Term, t Term) Term {
	return th.Canon(eng, substituteVars(eng, rho, t))
}

func (th nonlinearTheory) Solve(eng *engine, a, b Term, j Justification) []Eqn {
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
	// Both sides are genuinely nonlinear (products/powers of more than
	// one leaf): not a shape this theory's equational solver handles.
	raiseUnsolvable()
	return nil
}
