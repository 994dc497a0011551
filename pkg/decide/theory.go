package decide

// Theory is the language-neutral shape the spec calls for in §9
// ("Dispatch over theory"): a trait/interface exposing {σ, norm,
// solve} together with a theory id. The combination engine holds an
// ordered fixed array of these, keyed by id, and drains them in a
// fixed deterministic order (§5 "Ordering guarantees").
type Theory interface {
	ID() TheoryID

	// Canon canonizes a pure-theory term (§4.3 "σᵢ(op, args)").
	Canon(eng *engine, t Term) Term

	// Norm normalizes t by substituting rho(x) for each variable it
	// contains, then re-canonicalizing (§4.3 "norm_i(ρ, t)"). rho maps
	// a variable to its replacement term, typically Find(Si, ·).
	Norm(eng *engine, rho func(*Variable) Term, t Term) Term

	// Solve produces a (possibly empty) list of oriented equalities
	// xⱼ = tⱼ equivalent to a = b over this theory, in triangular
	// solved form, or raises unsolvableSignal (§4.3 "solve_i(a = b)").
	// A theory whose equational fragment is itself a complete decision
	// procedure (linear arithmetic) may instead raise inconsistentSignal
	// directly when a = b is outright false (e.g. the constant equation
	// 0 = 1) — Unsolvable is reserved for "could not produce a solved
	// form", not "produced one proving falsity".
	Solve(eng *engine, a, b Term, j Justification) []Eqn
}

// Eqn is an oriented variable-definition equality x = t produced by
// Solve, or a definitional equality v = tᵢ produced by the abstraction
// step (engine.go).
type Eqn struct {
	LHS *Variable
	RHS Term
}

// solBinding is one entry x ↦ tᵢ of a theory solution set (§3 "Theory
// solution set Sᵢ").
type solBinding struct {
	lhs *Variable
	rhs Term
}

// SolutionSet is theory i's solved form: an ordered sequence of
// bindings x ↦ tᵢ with a use-index (variable -> variables whose rhs
// mentions it) (§3 "Theory solution set Sᵢ"). There is no reverse
// index from rhs to lhs: Inv scans the bindings in order.
//
// Grounded in the teacher's pldb.go indexed relational store and
// local_constraint_store.go's per-store bookkeeping.
type SolutionSet struct {
	theory Theory
	order  []*Variable               // lhs insertion order, for deterministic iteration (§5)
	bind   map[*Variable]solBinding  // lhs -> binding
	use    map[*Variable]map[*Variable]struct{} // leaf var -> lhs's whose rhs mentions it
}

func newSolutionSet(th Theory) *SolutionSet {
	return &SolutionSet{
		theory: th,
		bind:   make(map[*Variable]solBinding),
		use:    make(map[*Variable]map[*Variable]struct{}),
	}
}

func (s *SolutionSet) clone() *SolutionSet {
	ns := newSolutionSet(s.theory)
	ns.order = append(ns.order, s.order...)
	for k, v := range s.bind {
		ns.bind[k] = v
	}
	for k, set := range s.use {
		cp := make(map[*Variable]struct{}, len(set))
		for v := range set {
			cp[v] = struct{}{}
		}
		ns.use[k] = cp
	}
	return ns
}

// Apply returns the right-hand side bound to x, or (nil, false) if
// not-found (§4.3 "apply(Sᵢ, x)").
func (s *SolutionSet) Apply(x *Variable) (Term, bool) {
	b, ok := s.bind[x]
	if !ok {
		return nil, false
	}
	return b.rhs, true
}

// Find returns the right-hand side bound to x, or x itself if
// unbound (§4.3 "find(Sᵢ, x)").
func (s *SolutionSet) Find(x *Variable) Term {
	if t, ok := s.Apply(x); ok {
		return t
	}
	return x
}

// Inv returns the left-hand side whose rhs equals t, or (nil, false)
// (§4.3 "inv(Sᵢ, t)").
func (s *SolutionSet) Inv(t Term) (*Variable, bool) {
	for _, x := range s.order {
		b, ok := s.bind[x]
		if ok && termEqual(b.rhs, t) {
			return x, true
		}
	}
	return nil, false
}

// termEqual is structural identity: terms are hash-consed so pointer
// equality is exactly term equality for Applications, and Variables
// compare by pointer directly.
func termEqual(a, b Term) bool {
	if a == b {
		return true
	}
	av, aIsVar := a.(*Variable)
	bv, bIsVar := b.(*Variable)
	if aIsVar && bIsVar {
		return av == bv
	}
	return false
}

// union replaces any existing binding for x, updating the use-index by
// subtracting old rhs's leaves and adding t's (§4.3 "union(x, t)").
func (s *SolutionSet) union(x *Variable, t Term) {
	if old, ok := s.bind[x]; ok {
		for _, leaf := range leavesOf(old.rhs) {
			if set := s.use[leaf]; set != nil {
				delete(set, x)
			}
		}
	} else {
		s.order = append(s.order, x)
	}
	s.bind[x] = solBinding{lhs: x, rhs: t}
	for _, leaf := range leavesOf(t) {
		if s.use[leaf] == nil {
			s.use[leaf] = make(map[*Variable]struct{})
		}
		s.use[leaf][x] = struct{}{}
	}
}

// restrict removes x's binding entirely (used by compose's "t is
// external" branch, §4.3 "compose").
func (s *SolutionSet) restrict(x *Variable) {
	old, ok := s.bind[x]
	if !ok {
		return
	}
	for _, leaf := range leavesOf(old.rhs) {
		if set := s.use[leaf]; set != nil {
			delete(set, x)
		}
	}
	delete(s.bind, x)
	for i, v := range s.order {
		if v == x {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// usersOf returns the (snapshotted) set of lhs variables whose rhs
// mentions x, i.e. use(x) from §4.3's compose step 2. Sorted by
// insertion order (rather than map iteration order) so that
// re-normalization runs in a deterministic sequence, per §5's
// requirement that the canonical form not depend on hash-table
// iteration order.
func (s *SolutionSet) usersOf(x *Variable) []*Variable {
	set := s.use[x]
	if len(set) == 0 {
		return nil
	}
	out := make([]*Variable, 0, len(set))
	for _, v := range s.order {
		if _, ok := set[v]; ok {
			out = append(out, v)
		}
	}
	return out
}

func leavesOf(t Term) []*Variable {
	var out []*Variable
	var walk func(Term)
	walk = func(t Term) {
		switch v := t.(type) {
		case *Variable:
			out = append(out, v)
		case *Application:
			for _, a := range v.Args {
				walk(a)
			}
		}
	}
	walk(t)
	return out
}
