package decide

// coproductTheory implements Theory for sum types (§4, §6.1
// "theory/coproduct"): SymInject (variant tag in Extra[0], payload in
// Args[0]) and SymProject (variant tag in Extra[0], sum term in
// Args[0]). Grounded in the teacher's tagged TypeConstraintKind
// dispatch, repurposed from a type-constraint tag into a term-level
// variant tag.
//
// Abstraction replaces an Inject/Project argument headed by another
// theory's symbol (or an uninterpreted one) with a variable, but keeps
// an Inject/Project argument in place, so Canon sees either a variable
// or a nested coproduct application there (which is what lets it
// rewrite project(i, inject(i, p)) to p).
type coproductTheory struct{}

func newCoproductTheory() *coproductTheory { return &coproductTheory{} }

func (coproductTheory) ID() TheoryID { return TheoryCoproduct }

func (th coproductTheory) Canon(eng *engine, t Term) Term {
	switch v := t.(type) {
	case *Variable:
		return v
	case *Application:
		switch v.Symbol {
		case SymInject:
			return v
		case SymProject:
			if inj, ok := v.Args[0].(*Application); ok && inj.Symbol == SymInject && inj.Extra[0] == v.Extra[0] {
				// project(i, inject(i, payload)) = payload.
				return inj.Args[0]
			}
			return v
		default:
			panic("decide: non-coproduct symbol reached coproductTheory.Canon")
		}
	default:
		panic("decide: unknown term kind")
	}
}

func (th coproductTheory) Norm(eng *engine, rho func(*Variable) Term, t Term) Term {
	return th.Canon(eng, substituteVars(eng, rho, t))
}

func (th coproductTheory) Solve(eng *engine, a, b Term, j Justification) []Eqn {
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
	aApp, bApp := ca.(*Application), cb.(*Application)
	if aApp.Symbol == SymInject && bApp.Symbol == SymInject {
		if aApp.Extra[0] != bApp.Extra[0] {
			// Distinct variants can never be equal: this theory's
			// equational fragment can decide falsity directly, the
			// same way linear arithmetic does (see Theory.Solve).
			raiseInconsistent(j)
		}
		pv := aApp.Args[0].(*Variable)
		qv := bApp.Args[0].(*Variable)
		if pv == qv {
			return nil
		}
		lhs, rhs := orientPair(pv, qv)
		return []Eqn{{LHS: lhs, RHS: rhs}}
	}
	raiseUnsolvable()
	return nil
}
