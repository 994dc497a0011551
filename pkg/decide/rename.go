package decide

// PredSym names a monadic predicate symbol the renaming layer can
// alias to a propositional variable (§4.4). The predicate's own
// meaning is opaque to this package — it is handed to the external
// Boolean collaborator, never interpreted here (§1 Non-goals:
// "consuming [implications] into a DPLL search is external").
type PredSym string

// DeductionKind distinguishes the three propositional-level
// deductions the renaming layer can emit (§4.4 "emit equiv(u, v),
// disjoint, or implies").
type DeductionKind int

const (
	DeducEquiv DeductionKind = iota
	DeducDisjoint
	DeducImplies
)

// Deduction is one fact the renaming layer has pushed toward the
// external Boolean collaborator. The core never consumes these
// itself; pkg/decide/boolean reads Session's accumulated deductions
// to drive an actual SAT instance.
type Deduction struct {
	Kind DeductionKind
	U, V *Variable
}

type monadicBinding struct {
	pred PredSym
	x    *Variable
}

type equalBinding struct {
	x, y *Variable // canonical order: x.less(y), or x == y for AliasEqual(x, x)
}

// Renaming bridges monadic predicates and variable equalities to
// propositional variables for an external Boolean collaborator (§4.4
// "Renaming layer"). Grounded in the teacher's constraint_types.go
// (predicate-shaped Constraint variants keyed by kind+args, the same
// "alias a structured fact to a handle" shape) and hybrid_registry.go
// (a symbol-relation table, reused directly for sub/disjoint).
type Renaming struct {
	monadic   map[monadicBinding]*Variable
	monadicOf map[*Variable]monadicBinding
	equal     map[equalBinding]*Variable
	equalOf   map[*Variable]equalBinding

	// dep indexes canonical variable -> propvars mentioning it, so
	// propagate_eq only rescans O(deg(x)) entries (§4.4 "use the
	// dependency index for O(deg(x))"). depOrder tracks each set's
	// insertion order so propagateEq/deducePredicateRelations iterate
	// deterministically rather than in map order (§5's determinism
	// requirement, mirrored on SolutionSet.usersOf).
	dep      map[*Variable]map[*Variable]struct{}
	depOrder map[*Variable][]*Variable

	// truth records a propvar's known value once propagate_valid0/
	// unsat0 has fired on it.
	truth map[*Variable]bool

	subRel      map[PredSym]map[PredSym]struct{}
	disjointRel map[PredSym]map[PredSym]struct{}

	deductions []Deduction
}

func newRenaming() *Renaming {
	return &Renaming{
		monadic:     make(map[monadicBinding]*Variable),
		monadicOf:   make(map[*Variable]monadicBinding),
		equal:       make(map[equalBinding]*Variable),
		equalOf:     make(map[*Variable]equalBinding),
		dep:         make(map[*Variable]map[*Variable]struct{}),
		depOrder:    make(map[*Variable][]*Variable),
		truth:       make(map[*Variable]bool),
		subRel:      make(map[PredSym]map[PredSym]struct{}),
		disjointRel: make(map[PredSym]map[PredSym]struct{}),
	}
}

func (r *Renaming) clone() *Renaming {
	nr := newRenaming()
	for k, v := range r.monadic {
		nr.monadic[k] = v
	}
	for k, v := range r.monadicOf {
		nr.monadicOf[k] = v
	}
	for k, v := range r.equal {
		nr.equal[k] = v
	}
	for k, v := range r.equalOf {
		nr.equalOf[k] = v
	}
	for v, set := range r.dep {
		cp := make(map[*Variable]struct{}, len(set))
		for u := range set {
			cp[u] = struct{}{}
		}
		nr.dep[v] = cp
	}
	for v, order := range r.depOrder {
		nr.depOrder[v] = append([]*Variable(nil), order...)
	}
	for u, v := range r.truth {
		nr.truth[u] = v
	}
	for p, set := range r.subRel {
		cp := make(map[PredSym]struct{}, len(set))
		for q := range set {
			cp[q] = struct{}{}
		}
		nr.subRel[p] = cp
	}
	for p, set := range r.disjointRel {
		cp := make(map[PredSym]struct{}, len(set))
		for q := range set {
			cp[q] = struct{}{}
		}
		nr.disjointRel[p] = cp
	}
	nr.deductions = append(nr.deductions, r.deductions...)
	return nr
}

// Deductions returns the propositional-level facts accumulated so
// far, for a caller-owned Boolean collaborator (pkg/decide/boolean) to
// consume.
func (r *Renaming) Deductions() []Deduction {
	return r.deductions
}

func (r *Renaming) addDep(v, u *Variable) {
	if r.dep[v] == nil {
		r.dep[v] = make(map[*Variable]struct{})
	}
	if _, ok := r.dep[v][u]; !ok {
		r.depOrder[v] = append(r.depOrder[v], u)
	}
	r.dep[v][u] = struct{}{}
}

func (r *Renaming) removeDep(v, u *Variable) {
	if set := r.dep[v]; set != nil {
		delete(set, u)
	}
}

// depUsers returns dep[v]'s members in insertion order, filtering out
// any since-removed entries (removeDep prunes the set but not
// depOrder, to keep removal O(1)).
func (r *Renaming) depUsers(v *Variable) []*Variable {
	set := r.dep[v]
	if len(set) == 0 {
		return nil
	}
	out := make([]*Variable, 0, len(set))
	for _, u := range r.depOrder[v] {
		if _, ok := set[u]; ok {
			out = append(out, u)
		}
	}
	return out
}

func orderEqualBinding(x, y *Variable) equalBinding {
	if y.less(x) {
		return equalBinding{x: y, y: x}
	}
	return equalBinding{x: x, y: y}
}

// AliasMonadic returns the existing propvar for "p(find(x))" if one
// exists, else allocates a fresh one (§4.4 "alias_monadic(p, x)").
func (r *Renaming) AliasMonadic(eng *engine, p PredSym, x *Variable) *Variable {
	cx := eng.partition.Find(x)
	key := monadicBinding{pred: p, x: cx}
	if u, ok := r.monadic[key]; ok {
		return u
	}
	u := eng.table.freshVariable(VarLabel, "")
	r.monadic[key] = u
	r.monadicOf[u] = key
	r.addDep(cx, u)
	return u
}

// AliasEqual returns the existing propvar for "find(x) = find(y)" if
// one exists, else allocates a fresh one (§4.4 "alias_equal(x, y)").
func (r *Renaming) AliasEqual(eng *engine, x, y *Variable) *Variable {
	cx, cy := eng.partition.Find(x), eng.partition.Find(y)
	key := orderEqualBinding(cx, cy)
	if u, ok := r.equal[key]; ok {
		return u
	}
	u := eng.table.freshVariable(VarLabel, "")
	r.equal[key] = u
	r.equalOf[u] = key
	r.addDep(key.x, u)
	r.addDep(key.y, u)
	return u
}

// propagateEq is called by the combination engine after union(from,
// to) with to canonical (§4.4 "propagate_eq(x, y)"). Every propvar
// keyed on the absorbed variable is re-keyed onto the survivor; a
// collision with a propvar already keyed on the survivor means the two
// propvars are now provably equivalent, emitted as an equiv deduction.
func (r *Renaming) propagateEq(eng *engine, from, to *Variable, j Justification) {
	for _, u := range r.depUsers(from) {
		if mb, ok := r.monadicOf[u]; ok && mb.x == from {
			r.rekeyMonadic(u, mb.pred, from, to)
			continue
		}
		if eb, ok := r.equalOf[u]; ok {
			other := eb.y
			if eb.x == from {
				other = eb.y
			} else {
				other = eb.x
			}
			if other == from {
				// x = x, both sides the absorbed variable: stays
				// x = x after the rename, trivially true regardless.
				other = to
			}
			r.rekeyEqual(u, from, to, other)
		}
	}
	r.deducePredicateRelations(to)
}

// deducePredicateRelations scans the propvars now keyed on the same
// canonical variable x for predicate pairs related by sub/disjoint,
// emitting implies/disjoint deductions: sub(p, q) with both p(x) and
// q(x) aliased makes p(x) imply q(x); disjoint(p, q) with both aliased
// makes the two propvars mutually exclusive (§4.4 "emit equiv(u, v),
// disjoint, or implies").
func (r *Renaming) deducePredicateRelations(x *Variable) {
	for _, u := range r.depUsers(x) {
		ub, ok := r.monadicOf[u]
		if !ok || ub.x != x {
			continue
		}
		for _, v := range r.depUsers(x) {
			if v == u {
				continue
			}
			vb, ok := r.monadicOf[v]
			if !ok || vb.x != x {
				continue
			}
			if r.sub(ub.pred, vb.pred) {
				r.deductions = append(r.deductions, Deduction{Kind: DeducImplies, U: u, V: v})
			}
			if r.disjoint(ub.pred, vb.pred) {
				r.deductions = append(r.deductions, Deduction{Kind: DeducDisjoint, U: u, V: v})
			}
		}
	}
}

func (r *Renaming) rekeyMonadic(u *Variable, p PredSym, from, to *Variable) {
	oldKey := monadicBinding{pred: p, x: from}
	delete(r.monadic, oldKey)
	r.removeDep(from, u)

	newKey := monadicBinding{pred: p, x: to}
	if existing, ok := r.monadic[newKey]; ok && existing != u {
		r.deductions = append(r.deductions, Deduction{Kind: DeducEquiv, U: u, V: existing})
		delete(r.monadicOf, u)
		return
	}
	r.monadic[newKey] = u
	r.monadicOf[u] = newKey
	r.addDep(to, u)
}

func (r *Renaming) rekeyEqual(u, from, to, other *Variable) {
	oldKey := r.equalOf[u]
	delete(r.equal, oldKey)
	r.removeDep(oldKey.x, u)
	r.removeDep(oldKey.y, u)

	newKey := orderEqualBinding(to, other)
	if existing, ok := r.equal[newKey]; ok && existing != u {
		r.deductions = append(r.deductions, Deduction{Kind: DeducEquiv, U: u, V: existing})
		delete(r.equalOf, u)
		return
	}
	r.equal[newKey] = u
	r.equalOf[u] = newKey
	r.addDep(newKey.x, u)
	r.addDep(newKey.y, u)
}

// propagateDeq is called by the combination engine after separate(a,
// b) (§4.4 "propagate_deq(x, y)"): every propvar encoding exactly
// "a = b" is now known false.
func (r *Renaming) propagateDeq(eng *engine, a, b *Variable, j Justification) {
	key := orderEqualBinding(a, b)
	if u, ok := r.equal[key]; ok {
		r.propagateUnsat0(eng, u, j)
	}
}

// propagateValid0 asserts u's binding as true (§4.4
// "propagate_valid0(u)"): a monadic binding asserts p(find(x)) into
// eng's theory-layer predicate-fact sink (engine.AssertPred); an
// equality binding performs an actual union in V, which is concretely
// actionable inside this engine.
func (r *Renaming) propagateValid0(eng *engine, u *Variable, j Justification) {
	r.truth[u] = true
	if eb, ok := r.equalOf[u]; ok {
		eng.partition.Union(eb.x, eb.y, j)
		return
	}
	if mb, ok := r.monadicOf[u]; ok {
		eng.AssertPred(mb.pred, mb.x, true, j)
	}
}

// propagateUnsat0 asserts u's binding as false (§4.4
// "propagate_unsat0(u)"); an equality binding performs separate(x, y);
// a monadic binding asserts ¬p(find(x)) into eng's predicate-fact
// sink.
func (r *Renaming) propagateUnsat0(eng *engine, u *Variable, j Justification) {
	r.truth[u] = false
	if eb, ok := r.equalOf[u]; ok {
		eng.partition.Separate(eb.x, eb.y, j)
		return
	}
	if mb, ok := r.monadicOf[u]; ok {
		eng.AssertPred(mb.pred, mb.x, false, j)
	}
}

// propagateValid1 looks up the existing propvar for p(find(x)), if
// any, and forwards its truth as valid0 (§4.4 "propagate_valid1(p,
// x)"). A predicate nobody has aliased yet has no propvar to inform,
// so this is a no-op.
func (r *Renaming) propagateValid1(eng *engine, p PredSym, x *Variable, j Justification) {
	cx := eng.partition.Find(x)
	if u, ok := r.monadic[monadicBinding{pred: p, x: cx}]; ok {
		r.propagateValid0(eng, u, j)
	}
}

// propagateUnsat1 is propagateValid1's negative counterpart (§4.4
// "propagate_unsat1(p, x)").
func (r *Renaming) propagateUnsat1(eng *engine, p PredSym, x *Variable, j Justification) {
	cx := eng.partition.Find(x)
	if u, ok := r.monadic[monadicBinding{pred: p, x: cx}]; ok {
		r.propagateUnsat0(eng, u, j)
	}
}

// DeclareSub records sub(p, q): every x with p(x) also has q(x) (§4.4
// "Symbol relations sub(p, q)... over predicate symbols").
func (r *Renaming) DeclareSub(p, q PredSym) {
	if r.subRel[p] == nil {
		r.subRel[p] = make(map[PredSym]struct{})
	}
	r.subRel[p][q] = struct{}{}
}

// DeclareDisjoint records disjoint(p, q): no x can satisfy both p(x)
// and q(x).
func (r *Renaming) DeclareDisjoint(p, q PredSym) {
	if r.disjointRel[p] == nil {
		r.disjointRel[p] = make(map[PredSym]struct{})
	}
	r.disjointRel[p][q] = struct{}{}
	if r.disjointRel[q] == nil {
		r.disjointRel[q] = make(map[PredSym]struct{})
	}
	r.disjointRel[q][p] = struct{}{}
}

func (r *Renaming) sub(p, q PredSym) bool {
	_, ok := r.subRel[p][q]
	return ok
}

func (r *Renaming) disjoint(p, q PredSym) bool {
	_, ok := r.disjointRel[p][q]
	return ok
}
