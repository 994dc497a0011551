package decide

// vEquality is a variable-to-variable equality discovered while
// composing or fusing a theory solution set, destined for
// Partition.Union (§4.3 "compose"/"fuse": "record x = t in V").
type vEquality struct {
	x, y *Variable
}

// compose applies a whole solved form E to Sᵢ, closing under the
// resulting propagations, iterating to a fixpoint (§4.3 "compose(Sᵢ,
// E)"). It returns the V-level equalities it produced so the
// combination engine can fold them into the change-set drain.
func compose(eng *engine, s *SolutionSet, e []Eqn, j Justification) []vEquality {
	var vEqs []vEquality
	pending := append([]Eqn(nil), e...)
	for len(pending) > 0 {
		eq := pending[0]
		pending = pending[1:]

		x, t := eq.LHS, eq.RHS

		if isExternalTerm(s.theory.ID(), t) {
			// t isn't a pure-i term: abstract it down to a variable
			// (possibly via another theory's solution set, or CC for
			// an uninterpreted head) before it can be recorded as a
			// V-equality (§4.3 compose step (1): "if t is external
			// (non-i)... record a V-level equality x = t").
			tv, defs := eng.abstract(t)
			s.restrict(x)
			vEqs = append(vEqs, vEquality{x: x, y: tv})
			pending = append(pending, defs...)
			continue
		}
		if tv, ok := t.(*Variable); ok {
			// x = y between two variables is a V-level equality, not a
			// binding: record it in V so the partition sees it.
			s.restrict(x)
			if tv != x {
				vEqs = append(vEqs, vEquality{x: x, y: tv})
			}
			continue
		} else if xp, ok := s.Inv(t); ok && xp != x {
			s.restrict(x)
			vEqs = append(vEqs, vEquality{x: x, y: xp})
			continue
		}

		users := s.usersOf(x)
		s.union(x, t)

		// Step 2: re-normalize every prior user of x under this new
		// binding and apply the same three-way dispatch (§4.3
		// "compose", step 2).
		for _, y := range users {
			old, ok := s.Apply(y)
			if !ok {
				continue
			}
			renormed := s.theory.Norm(eng, func(v *Variable) Term { return s.Find(v) }, old)
			pending = append(pending, Eqn{LHS: y, RHS: renormed})
		}
	}
	return vEqs
}

// isExternalTerm reports whether t is headed by a symbol owned by a
// theory other than th (§4.3 compose step (1): "if t is external
// (non-i)"). A bare variable is never external: it is a trivial term
// of every theory.
func isExternalTerm(th TheoryID, t Term) bool {
	app, ok := t.(*Application)
	if !ok {
		return false
	}
	owner := theoryOf(app.Symbol)
	return owner != TheoryNone && owner != th
}

// migrate re-asserts the absorbed variable's own binding (if any) on
// the survivor, since after Partition.Union the absorbed variable is
// no longer canonical and solved-form invariant (i) requires every
// lhs to be canonical. If the survivor had no binding of its own, this
// is a plain rename: compose({survivor, tA}). If BOTH had bindings,
// knowing absorbed = survivor now means their two right-hand sides
// must themselves be equal (e.g. this is exactly how "x + y = 3"
// becomes a real constraint linking x and y: the fresh alias for
// "x + y" and the fresh alias for "3" get unioned at the atom level,
// and only here, when that union drains, do their two solution-set
// bindings get solved against each other), so solve_i(tS = tA) is
// invoked and its result composed, instead of one rhs silently
// clobbering the other.
func migrate(eng *engine, s *SolutionSet, absorbed, survivor *Variable, j Justification) []vEquality {
	tA, hasA := s.Apply(absorbed)
	if !hasA {
		return nil
	}
	s.restrict(absorbed)
	tS, hasS := s.Apply(survivor)
	if !hasS {
		return compose(eng, s, []Eqn{{LHS: survivor, RHS: tA}}, j)
	}
	s.restrict(survivor)
	eqns, fallback := solveTermsOrFallback(eng, s.theory, tS, tA, j)
	vEqs := compose(eng, s, eqns, j)
	if fallback != nil {
		vEqs = append(vEqs, *fallback)
	}
	return vEqs
}

// fuse propagates a single equality x = y where x occurs on some
// rhs's: substitutes find(Sᵢ, y) for x everywhere on those rhs's; any
// further equalities this generates are handled by compose (§4.3
// "fuse(Sᵢ, e)").
func fuse(eng *engine, s *SolutionSet, x, y *Variable, j Justification) []vEquality {
	replacement := s.Find(y)
	users := s.usersOf(x)
	var produced []Eqn
	for _, u := range users {
		old, ok := s.Apply(u)
		if !ok {
			continue
		}
		rho := func(v *Variable) Term {
			if v == x {
				return replacement
			}
			return s.Find(v)
		}
		renormed := s.theory.Norm(eng, rho, old)
		produced = append(produced, Eqn{LHS: u, RHS: renormed})
	}
	if produced == nil {
		return nil
	}
	return compose(eng, s, produced, j)
}
