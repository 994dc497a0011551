package decide

// processAtom runs the full atom-processing pipeline of §4.3 for one
// new atom: abstract, process definitional equalities, process the
// abstracted atom, then close to a fixpoint. It mutates eng in place;
// callers run it inside a protect scope (session.go) so a raised
// inconsistentSignal leaves no partial mutation visible to the
// caller.
func processAtom(eng *engine, a Atom, j Justification) {
	switch a.Kind {
	case AtomEq:
		lv, ldefs := eng.abstract(a.LHS)
		rv, rdefs := eng.abstract(a.RHS)
		processDefs(eng, ldefs, j)
		processDefs(eng, rdefs, j)
		eng.partition.Union(lv, rv, j)
	case AtomDiseq:
		lv, ldefs := eng.abstract(a.LHS)
		rv, rdefs := eng.abstract(a.RHS)
		processDefs(eng, ldefs, j)
		processDefs(eng, rdefs, j)
		eng.partition.Separate(lv, rv, j)
	case AtomMember:
		lv, ldefs := eng.abstract(a.LHS)
		processDefs(eng, ldefs, j)
		eng.partition.RefineSign(lv, a.Sign, j)
		if !a.Bound.IsEmpty() {
			eng.partition.RefineInterval(lv, a.Bound, j)
		}
	case AtomPred:
		lv, ldefs := eng.abstract(a.LHS)
		processDefs(eng, ldefs, j)
		u := eng.rename.AliasMonadic(eng, a.Pred, lv)
		if a.Neg {
			eng.rename.propagateUnsat0(eng, u, j)
		} else {
			eng.rename.propagateValid0(eng, u, j)
		}
	default:
		panic("decide: unknown atom kind")
	}
	closeToFixpoint(eng, j)
}

// processDefs inserts each definitional equality v = tᵢ into Sᵢ via
// compose(solve_i(·)) (§4.3 step 2 "Process definitional equalities").
// solve_i failing with *Unsolvable* triggers the incomplete-solver
// fallback: alias both sides and union them in V, losing no soundness
// but possibly completeness (§4.3 "Failure semantics").
func processDefs(eng *engine, defs []Eqn, j Justification) {
	for _, def := range defs {
		th := theoryOf(headSymbol(def.RHS))
		if th == TheoryNone {
			// def.RHS already reduced to a CC alias variable by
			// abstract(); a variable-headed def only needs a V-union.
			if rv, ok := def.RHS.(*Variable); ok {
				eng.partition.Union(def.LHS, rv, j)
			}
			continue
		}
		set := eng.sets[th]
		eqns := solveOrFallback(eng, set.theory, def.LHS, def.RHS, j)
		vEqs := compose(eng, set, eqns, j)
		applyVEqs(eng, vEqs, j)
	}
}

// headSymbol returns the top-level symbol of t, or SymUninterpreted
// for a bare variable (it owns no theory either way).
func headSymbol(t Term) SymbolKind {
	if app, ok := t.(*Application); ok {
		return app.Symbol
	}
	return SymUninterpreted
}

// solveOrFallback calls solve_i(x = t), catching *Unsolvable* and
// substituting the name-both-sides fallback (§4.3 "Failure
// semantics").
func solveOrFallback(eng *engine, th Theory, x *Variable, t Term, j Justification) (eqns []Eqn) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(unsolvableSignal); !ok {
				panic(r)
			}
			u, defs := eng.abstract(t)
			processDefs(eng, defs, j)
			eqns = []Eqn{{LHS: x, RHS: u}}
		}
	}()
	return th.Solve(eng, x, t, j)
}

// solveTermsOrFallback is solveOrFallback's bilateral form, used by
// migrate (compose.go) when two arbitrary pure-i terms (not
// necessarily a bare variable on the left) must be equated.
func solveTermsOrFallback(eng *engine, th Theory, a, b Term, j Justification) (eqns []Eqn, fallback *vEquality) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(unsolvableSignal); !ok {
				panic(r)
			}
			av, adefs := eng.abstract(a)
			processDefs(eng, adefs, j)
			bv, bdefs := eng.abstract(b)
			processDefs(eng, bdefs, j)
			fallback = &vEquality{x: av, y: bv}
		}
	}()
	eqns = th.Solve(eng, a, b, j)
	return
}

func applyVEqs(eng *engine, vEqs []vEquality, j Justification) {
	for _, eq := range vEqs {
		eng.partition.Union(eq.x, eq.y, j)
	}
}

// closeToFixpoint drains the V/D/C change sets in the deterministic
// order the spec requires: V-changes → CC closure → theory fusion, in
// theory-array order, repeated until every change set is empty (§4.3
// step 4 "Close", §5 "Ordering guarantees").
func closeToFixpoint(eng *engine, j Justification) {
	for eng.partition.pending() {
		drainV(eng, j)
		drainD(eng, j)
		drainC(eng, j)
	}
}

func drainV(eng *engine, j Justification) {
	changes := eng.partition.drainV()
	for _, ch := range changes {
		// CC closure first (§5 ordering: "V-changes → CC closure").
		eng.cc.Close(eng.partition, ch.from, ch.to, ch.just)

		// Then theory fusion in fixed theory-array order: a
		// V-equality drained by one solver may enable another (§4.3
		// step 4, §5). Two things must happen for every solution set:
		// (1) if the absorbed variable itself had a binding, it is no
		// longer a valid lhs (solved-form invariant (i): lhs's are
		// canonical) and must be re-composed onto the survivor; (2)
		// every other binding that mentions the absorbed variable on
		// its rhs must be re-normalized (fuse).
		for _, id := range theoryOrder {
			set := eng.sets[id]
			vEqs := migrate(eng, set, ch.from, ch.to, ch.just)
			applyVEqs(eng, vEqs, ch.just)
			vEqs = fuse(eng, set, ch.from, ch.to, ch.just)
			applyVEqs(eng, vEqs, ch.just)
		}

		// An integer-declared class pinned to a non-integral constant
		// by the linear-arithmetic solution set is inconsistent.
		if eng.cfg.IntegerSolve && (eng.intDecls[ch.from] || eng.intDecls[ch.to]) {
			if c, ok := constantValueOf(eng, ch.to); ok && !RatIsInt(c) {
				raiseInconsistent(ch.just)
			}
		}

		eng.rename.propagateEq(eng, ch.from, ch.to, ch.just)
	}
}

func drainD(eng *engine, j Justification) {
	changes := eng.partition.drainD()
	for _, ch := range changes {
		eng.rename.propagateDeq(eng, ch.a, ch.b, ch.just)
	}
}

func drainC(eng *engine, j Justification) {
	changes := eng.partition.drainC()
	for _, ch := range changes {
		if eng.cfg.IntegerSolve {
			integerSolveHeuristic(eng, ch.v, ch.dom, ch.just)
		}
	}
}
