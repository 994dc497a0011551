package decide

import "github.com/go-logr/logr"

// theoryOrder is the fixed, deterministic order in which the
// combination engine drains theory fusion (§5 "Ordering guarantees":
// "V-changes → CC closure → theory fusion, in theory-array order
// (linear arithmetic, tuples, bitvectors, nonlinear, coproduct,
// arrays)").
var theoryOrder = []TheoryID{
	TheoryLinArith,
	TheoryProduct,
	TheoryBitvector,
	TheoryNonlinear,
	TheoryCoproduct,
	TheoryArrays,
}

// engine is the combination engine's mutable working state for one
// Context: the partition, CC configuration, one solution set per
// Shostak theory, and the renaming layer, all sharing the same term
// table (§9 "a single owning context struct holds them by value").
type engine struct {
	table     *termTable
	partition *Partition
	cc        *CC
	sets      map[TheoryID]*SolutionSet
	rename    *Renaming
	cfg       Config
	log       logr.Logger

	// intDecls marks variables the caller has declared integer-valued,
	// consulted by integerSolveHeuristic when cfg.IntegerSolve is set
	// (§4.3 "integer-solve heuristics", §9 Open Questions).
	intDecls map[*Variable]bool

	// predFacts is the minimal boolean-fact sink propagate_valid0/
	// propagate_unsat0 assert into for a monadic binding (§4.4 "assert
	// p(find(x))... into the theory layer"): no Shostak theory in the
	// §2 roster owns monadic predicates, so this is a small dedicated
	// store keyed by (predicate, canonical variable) rather than a
	// repurposed SolutionSet.
	predFacts map[PredSym]map[*Variable]predFact
}

// predFact is one known truth value for a monadic predicate applied
// to a canonical variable, together with the justification that
// pinned it (so a later conflicting assertion can raise
// inconsistentSignal with the right dependency set).
type predFact struct {
	truth bool
	just  Justification
}

func newEngine(cfg Config, log logr.Logger) *engine {
	e := &engine{
		table:     newTermTable(),
		partition: newPartition(),
		cc:        newCC(),
		sets:      make(map[TheoryID]*SolutionSet),
		cfg:       cfg,
		log:       log,
		intDecls:  make(map[*Variable]bool),
		predFacts: make(map[PredSym]map[*Variable]predFact),
	}
	e.sets[TheoryLinArith] = newSolutionSet(newLinArithTheory())
	e.sets[TheoryProduct] = newSolutionSet(newProductTheory())
	e.sets[TheoryBitvector] = newSolutionSet(newBitvectorTheory())
	e.sets[TheoryNonlinear] = newSolutionSet(newNonlinearTheory())
	e.sets[TheoryCoproduct] = newSolutionSet(newCoproductTheory())
	e.sets[TheoryArrays] = newSolutionSet(newArraysTheory())
	e.rename = newRenaming()
	return e
}

func (e *engine) clone() *engine {
	ne := &engine{
		table:     e.table, // term identities are shared across branches; only mutable stores fork
		partition: e.partition.clone(),
		cc:        e.cc.clone(),
		sets:      make(map[TheoryID]*SolutionSet, len(e.sets)),
		rename:    e.rename.clone(),
		cfg:       e.cfg,
		log:       e.log,
		intDecls:  make(map[*Variable]bool, len(e.intDecls)),
		predFacts: make(map[PredSym]map[*Variable]predFact, len(e.predFacts)),
	}
	for id, s := range e.sets {
		ne.sets[id] = s.clone()
	}
	for v, b := range e.intDecls {
		ne.intDecls[v] = b
	}
	for p, facts := range e.predFacts {
		cp := make(map[*Variable]predFact, len(facts))
		for v, f := range facts {
			cp[v] = f
		}
		ne.predFacts[p] = cp
	}
	return ne
}

// AssertPred records p(find(x)) as a known boolean fact, the minimal
// theory-layer sink propagate_valid0/propagate_unsat0 assert into
// (§4.4). Asserting a truth value that conflicts with one already
// recorded for the same (p, find(x)) raises inconsistentSignal with
// the union of both justifications.
func (e *engine) AssertPred(p PredSym, x *Variable, truth bool, j Justification) {
	cx := e.partition.Find(x)
	if e.predFacts[p] == nil {
		e.predFacts[p] = make(map[*Variable]predFact)
	}
	if existing, ok := e.predFacts[p][cx]; ok {
		if existing.truth != truth {
			raiseInconsistent(Dep2(existing.just, j))
		}
		return
	}
	e.predFacts[p][cx] = predFact{truth: truth, just: j}
}

// PredFact reports the known truth value of p(find(x)), if any has
// been asserted yet.
func (e *engine) PredFact(p PredSym, x *Variable) (bool, bool) {
	cx := e.partition.Find(x)
	pf, ok := e.predFacts[p][cx]
	return pf.truth, ok
}

func (e *engine) setFor(id TheoryID) *SolutionSet { return e.sets[id] }

// abstract replaces every maximal pure subterm of t by its alias in
// the appropriate theory (or its CC alias, for uninterpreted symbols),
// introducing fresh rename variables (§4.3 step 1 "Abstract"). A
// "maximal pure subterm" is the largest subtree headed by symbols of
// one theory: nested applications that stay within the same theory as
// their parent are expanded in place, not pre-abstracted, so Canon
// sees the whole subterm (e.g. x + y + z is one Add-tree handed to
// the linear-arithmetic canonizer in one piece, not three separate
// fresh variables chained together). Only arguments that cross a
// theory boundary (a different theory, or an uninterpreted head) are
// recursively abstracted first. Returns the resulting variable and
// the definitional equalities v = tᵢ collected along the way.
func (e *engine) abstract(t Term) (*Variable, []Eqn) {
	switch v := t.(type) {
	case *Variable:
		return v, nil
	case *Application:
		th := theoryOf(v.Symbol)
		if th == TheoryNone {
			var defs []Eqn
			argVars := make([]*Variable, len(v.Args))
			for i, a := range v.Args {
				av, adefs := e.abstract(a)
				argVars[i] = av
				defs = append(defs, adefs...)
			}
			u := e.cc.Alias(e.partition, e.table, v.Symbol, v.Name, argVars)
			return u, defs
		}

		var defs []Eqn
		pure := e.abstractWithinTheory(th, v, &defs)
		canon := e.sets[th].theory.Canon(e, pure)
		if cv, ok := canon.(*Variable); ok {
			return cv, defs
		}
		fresh := e.table.freshVariable(VarFreshRename, "")
		defs = append(defs, Eqn{LHS: fresh, RHS: canon})
		return fresh, defs
	default:
		panic("decide: unknown term kind")
	}
}

// abstractWithinTheory rebuilds app with every argument that crosses
// out of theory th replaced by its alias variable, while arguments
// that are themselves pure-th applications are expanded in place
// (recursively) so the caller's Canon receives the whole maximal
// pure-th subtree in one call.
func (e *engine) abstractWithinTheory(th TheoryID, app *Application, defs *[]Eqn) *Application {
	args := make([]Term, len(app.Args))
	for i, a := range app.Args {
		args[i] = e.abstractArgWithinTheory(th, a, defs)
	}
	return e.table.application(app.Symbol, app.Name, args, app.Extra)
}

func (e *engine) abstractArgWithinTheory(th TheoryID, a Term, defs *[]Eqn) Term {
	if v, ok := a.(*Variable); ok {
		return v
	}
	sub := a.(*Application)
	if theoryOf(sub.Symbol) == th {
		return e.abstractWithinTheory(th, sub, defs)
	}
	av, adefs := e.abstract(a)
	*defs = append(*defs, adefs...)
	return av
}

// probe resolves t to its current canonical variable without
// introducing any fresh variable, CC alias, or solution-set binding —
// a read-only counterpart to abstract used to test whether an atom is
// already entailed before committing a mutation (§6 "is_valid").
// Reports ok=false the moment t mentions a subterm the engine has
// never aliased before, since such an atom cannot already be true: a
// term nobody has named yet carries no prior fact about it.
func (e *engine) probe(t Term) (*Variable, bool) {
	switch v := t.(type) {
	case *Variable:
		return e.partition.Find(v), true
	case *Application:
		th := theoryOf(v.Symbol)
		if th == TheoryNone {
			args := make([]*Variable, len(v.Args))
			for i, a := range v.Args {
				av, ok := e.probe(a)
				if !ok {
					return nil, false
				}
				args[i] = av
			}
			u, ok := e.cc.Inv(e.partition, v.Symbol, v.Name, args)
			if !ok {
				return nil, false
			}
			return e.partition.Find(u), true
		}
		pure, ok := e.probeWithinTheory(th, v)
		if !ok {
			return nil, false
		}
		canon := e.sets[th].theory.Canon(e, pure)
		if cv, ok := canon.(*Variable); ok {
			return e.partition.Find(cv), true
		}
		lhs, ok := e.sets[th].Inv(canon)
		if !ok {
			return nil, false
		}
		return e.partition.Find(lhs), true
	default:
		panic("decide: unknown term kind")
	}
}

func (e *engine) probeWithinTheory(th TheoryID, app *Application) (*Application, bool) {
	args := make([]Term, len(app.Args))
	for i, a := range app.Args {
		if v, ok := a.(*Variable); ok {
			args[i] = v
			continue
		}
		sub := a.(*Application)
		if theoryOf(sub.Symbol) == th {
			p, ok := e.probeWithinTheory(th, sub)
			if !ok {
				return nil, false
			}
			args[i] = p
			continue
		}
		av, ok := e.probe(a)
		if !ok {
			return nil, false
		}
		args[i] = av
	}
	return e.table.application(app.Symbol, app.Name, args, app.Extra), true
}
