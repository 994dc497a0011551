package decide

import (
	"sort"
	"strings"

	"github.com/go-logr/logr"
)

// Config carries the per-run flags the combination engine consults
// (§5 "Shared state policy": "per-run flags... All are snapshotted and
// restored across protect(f, s) scopes"). Config is immutable for the
// lifetime of the Session built from it (§9 Open Questions:
// "integer_solve toggling: enforced at Config construction time
// only").
type Config struct {
	// IntegerSolve enables the integer-solve heuristics on C-domain
	// refinements of integer-declared variables (integer_solve.go) and
	// on V-equalities that pin one to a constant (combine.go).
	IntegerSolve bool

	// ConeOfInfluence is carried on Config but not read by the engine:
	// setting it does not trim Status.Just, which always holds every
	// atom the derivation depended on.
	ConeOfInfluence bool
}

// StatusKind is the tag of the Status sum type (§7 "Status").
type StatusKind int

const (
	StatusOk StatusKind = iota
	StatusValid
	StatusInconsistent
)

func (k StatusKind) String() string {
	switch k {
	case StatusOk:
		return "ok"
	case StatusValid:
		return "valid"
	case StatusInconsistent:
		return "inconsistent"
	default:
		return "unknown"
	}
}

// Status is the result of Add: exactly one of Valid{J}, Inconsistent{J},
// or Ok{*Session} (§6, §7). It is a plain value, never a Go error:
// Inconsistent/Unsolvable are expected outcomes of this procedure, not
// failures (see the ambient-stack error-handling note in DESIGN.md).
type Status struct {
	Kind StatusKind
	Just Justification

	// Ctx holds the successor Session for StatusOk; nil otherwise.
	Ctx *Session
}

func (s Status) IsValid() bool        { return s.Kind == StatusValid }
func (s Status) IsInconsistent() bool { return s.Kind == StatusInconsistent }
func (s Status) IsOk() bool           { return s.Kind == StatusOk }

func (s Status) String() string {
	switch s.Kind {
	case StatusOk:
		return "ok"
	case StatusValid:
		return "valid"
	case StatusInconsistent:
		return "inconsistent(" + joinAtomIDs(s.Just.Atoms()) + ")"
	default:
		return "?"
	}
}

func joinAtomIDs(ids []AtomID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = itoa(uint64(id))
	}
	return strings.Join(parts, ",")
}

func itoa(n uint64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// Session is one immutable decision-procedure context (§3 "Context").
// Add never mutates the receiver: it returns Valid/Inconsistent without
// touching it, or Ok carrying a brand-new successor Session, matching
// the spec's value-semantics framing ("protect... value-semantics
// copy-on-write scope", §5, §9).
type Session struct {
	eng       *engine
	nextAtomID AtomID
}

// Empty returns the initial context (P=(V,D,C)=⊤, U=∅, every Sᵢ=∅)
// (§3 "Lifecycle"). log defaults to logr.Discard() when the zero
// logr.Logger is passed.
func Empty(cfg Config, log logr.Logger) *Session {
	return &Session{eng: newEngine(cfg, log)}
}

// Copy returns an independent Session sharing no mutable state with
// the receiver (§6 "Copy").
func (s *Session) Copy() *Session {
	return &Session{eng: s.eng.clone(), nextAtomID: s.nextAtomID}
}

// Add asserts one atom against the context (§4 "add(s, a)"). It
// returns Valid if checkAlreadyValid finds a already entailed without
// any mutation (tested via the read-only probe mechanism);
// Inconsistent if asserting a would contradict the context; Ok(s')
// otherwise, where s' is the successor context with a committed. The
// Valid pre-check only sees what probe can resolve: an atom whose
// terms probe cannot map to variables already in the context is
// processed again and reported Ok, even when the context entails it,
// so a second Add of a committed atom is not Valid in every case.
func (s *Session) Add(a Atom) Status {
	if j, ok := s.checkAlreadyValid(a); ok {
		return Status{Kind: StatusValid, Just: j}
	}

	clone := s.eng.clone()
	id := s.nextAtomID
	j := Axiom(id)

	var out Status
	func() {
		defer recoverStatus(&out)
		processAtom(clone, a, j)
		out = Status{Kind: StatusOk, Ctx: &Session{eng: clone, nextAtomID: id + 1}}
	}()
	return out
}

// AddList asserts atoms in order, short-circuiting on the first
// non-Ok result (§6 "AddList").
func (s *Session) AddList(atoms []Atom) Status {
	cur := s
	last := Status{Kind: StatusOk, Ctx: s}
	for _, a := range atoms {
		st := cur.Add(a)
		if !st.IsOk() {
			return st
		}
		cur = st.Ctx
		last = st
	}
	return last
}

// checkAlreadyValid implements the Valid pre-check via engine.probe:
// an atom already entailed by the context is reported Valid without
// ever cloning or mutating the engine (§6, §8's monotonicity property).
func (s *Session) checkAlreadyValid(a Atom) (Justification, bool) {
	switch a.Kind {
	case AtomEq:
		lv, lok := s.eng.probe(a.LHS)
		rv, rok := s.eng.probe(a.RHS)
		if lok && rok && s.eng.partition.Equal(lv, rv) {
			return Justification{}, true
		}
		// Congruence: f(s1..sn) = f(t1..tn) holds once every argument
		// pair is equal, even if CC has aliased neither application.
		if la, ok := a.LHS.(*Application); ok && theoryOf(la.Symbol) == TheoryNone {
			if ra, ok := a.RHS.(*Application); ok && ra.Symbol == la.Symbol && ra.Name == la.Name && len(ra.Args) == len(la.Args) {
				n := 0
				for i := range la.Args {
					if av, aok := s.eng.probe(la.Args[i]); aok {
						if bv, bok := s.eng.probe(ra.Args[i]); bok && s.eng.partition.Equal(av, bv) {
							n++
						}
					}
				}
				if n == len(la.Args) {
					return Justification{}, true
				}
			}
		}
	case AtomDiseq:
		lv, lok := s.eng.probe(a.LHS)
		rv, rok := s.eng.probe(a.RHS)
		if lok && rok && s.eng.partition.Diseq(lv, rv) {
			return Justification{}, true
		}
	case AtomMember:
		lv, lok := s.eng.probe(a.LHS)
		if lok {
			cur := s.eng.partition.SignOf(lv)
			if MeetSign(cur, a.Sign) == cur && subsumesInterval(s.eng.partition.IntervalOf(lv), a.Bound) {
				return Justification{}, true
			}
		}
	case AtomPred:
		lv, lok := s.eng.probe(a.LHS)
		if lok {
			if truth, known := s.eng.PredFact(a.Pred, lv); known && truth == !a.Neg {
				return Justification{}, true
			}
		}
	}
	return Justification{}, false
}

// subsumesInterval reports whether cur already satisfies the
// (possibly empty) requested bound, i.e. cur ⊆ bound.
func subsumesInterval(cur, bound Interval) bool {
	if bound.IsEmpty() {
		return true
	}
	return cur.Meet(bound) == cur
}

// IsValid/IsInconsistent report whether a Status has that kind,
// convenience predicates mirroring Status.IsValid/IsInconsistent.
func IsValid(st Status) bool        { return st.IsValid() }
func IsInconsistent(st Status) bool { return st.IsInconsistent() }

// DeclareInteger marks v as integer-valued for this Session's
// lifetime, consulted by the integer-solve heuristics when
// Config.IntegerSolve is set.
func (s *Session) DeclareInteger(v *Variable) {
	s.eng.DeclareInteger(v)
}

// Deductions returns the propositional-level facts the renaming layer
// has accumulated, for a caller-owned Boolean collaborator
// (pkg/decide/boolean) to consume (§1 Non-goals, §4.4).
func (s *Session) Deductions() []Deduction {
	return s.eng.rename.Deductions()
}

// AliasMonadic exposes alias_monadic(p, x) directly (§4.4): the
// propvar naming "p(find(x))", allocating one if none exists yet.
// Unlike Add, this mutates the receiver in place rather than returning
// a successor Session, the same way DeclareInteger does: aliasing a
// propvar is bookkeeping for a caller building Boolean search on top
// of Deductions, not a new logical atom with its own justification.
func (s *Session) AliasMonadic(p PredSym, x Term) *Variable {
	v, defs := s.eng.abstract(x)
	processDefs(s.eng, defs, Justification{})
	return s.eng.rename.AliasMonadic(s.eng, p, v)
}

// AliasEqual exposes alias_equal(x, y) directly (§4.4): the propvar
// naming "find(x) = find(y)". See AliasMonadic for the in-place
// mutation rationale.
func (s *Session) AliasEqual(x, y Term) *Variable {
	vx, xdefs := s.eng.abstract(x)
	vy, ydefs := s.eng.abstract(y)
	processDefs(s.eng, xdefs, Justification{})
	processDefs(s.eng, ydefs, Justification{})
	return s.eng.rename.AliasEqual(s.eng, vx, vy)
}

// PropagateValid exposes propagate_valid0(u) directly (§4.4): asserts
// propvar u's binding true, unioning the underlying variables for an
// equality propvar or recording the predicate fact for a monadic one.
// Intended for a caller that has resolved u's value through an
// external Boolean collaborator (pkg/decide/boolean.Collaborator) and
// wants to feed that verdict back into the context.
func (s *Session) PropagateValid(u *Variable, j Justification) {
	s.eng.rename.propagateValid0(s.eng, u, j)
}

// PropagateUnsat exposes propagate_unsat0(u) directly (§4.4):
// PropagateValid's negative counterpart.
func (s *Session) PropagateUnsat(u *Variable, j Justification) {
	s.eng.rename.propagateUnsat0(s.eng, u, j)
}

// DeclareSub records sub(p, q) on the renaming layer's symbol-relation
// table (§4.4): every x with p(x) also has q(x).
func (s *Session) DeclareSub(p, q PredSym) {
	s.eng.rename.DeclareSub(p, q)
}

// DeclareDisjoint records disjoint(p, q): no x can satisfy both p(x)
// and q(x).
func (s *Session) DeclareDisjoint(p, q PredSym) {
	s.eng.rename.DeclareDisjoint(p, q)
}

// Eq reports whether two Sessions are structurally equivalent: same
// induced equality/disequality relation and sign/interval facts over
// every externally-named variable, and the same resolved constant
// value (if any) for each. Atom history and the internal fresh-
// variable counter are deliberately ignored (§6 "Eq"): two different
// derivations of the same facts should compare equal.
func Eq(s1, s2 *Session) bool {
	names1 := externalNames(s1.eng)
	names2 := externalNames(s2.eng)
	if len(names1) != len(names2) {
		return false
	}
	for i := range names1 {
		if names1[i] != names2[i] {
			return false
		}
	}
	for i, ni := range names1 {
		vi1 := s1.eng.table.externalVariable(ni)
		vi2 := s2.eng.table.externalVariable(ni)
		if s1.eng.partition.SignOf(vi1) != s2.eng.partition.SignOf(vi2) {
			return false
		}
		if !intervalEqual(s1.eng.partition.IntervalOf(vi1), s2.eng.partition.IntervalOf(vi2)) {
			return false
		}
		c1, ok1 := constantValueOf(s1.eng, vi1)
		c2, ok2 := constantValueOf(s2.eng, vi2)
		if ok1 != ok2 || (ok1 && c1.Cmp(c2) != 0) {
			return false
		}
		for _, nj := range names1[i:] {
			vj1 := s1.eng.table.externalVariable(nj)
			vj2 := s2.eng.table.externalVariable(nj)
			if s1.eng.partition.Equal(vi1, vj1) != s2.eng.partition.Equal(vi2, vj2) {
				return false
			}
			if s1.eng.partition.Diseq(vi1, vj1) != s2.eng.partition.Diseq(vi2, vj2) {
				return false
			}
		}
	}
	return true
}

func externalNames(eng *engine) []string {
	eng.table.mu.Lock()
	defer eng.table.mu.Unlock()
	var out []string
	for key := range eng.table.varsByNV {
		if name, ok := strings.CutPrefix(key, "external:"); ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func intervalEqual(a, b Interval) bool {
	return ratPtrEqual(a.Lo, b.Lo) && ratPtrEqual(a.Hi, b.Hi)
}

func ratPtrEqual(a, b *Rat) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Cmp(b) == 0
}

// constantValueOf reports the rational value v is fully pinned to by
// the linear-arithmetic solution set, if any.
func constantValueOf(eng *engine, v *Variable) (*Rat, bool) {
	cv := eng.partition.Find(v)
	t := eng.sets[TheoryLinArith].Find(cv)
	lc := linearize(t)
	if len(lc.coeffs) == 0 {
		return lc.konst, true
	}
	return nil, false
}
