package decide

// AtomKind distinguishes the shapes of atomic assertion this module
// admits: the three the spec's grammar names (§6 "Atom grammar") plus
// AtomPred, the Atom-level surface for the renaming layer's monadic
// predicates (§4.4), which spec.md's grammar leaves implicit ("p(x)"
// is only ever discussed at the renaming-layer level, never given its
// own atom shape) but which Add must still be able to drive.
type AtomKind int

const (
	AtomEq AtomKind = iota
	AtomDiseq
	AtomMember
	AtomPred
)

// Atom is one assertion in the grammar `a ::= t = t | t ≠ t | t ∈ C |
// p(t)` (§6, extended per §4.4). Member atoms carry a sign/interval
// constraint directly rather than a separate Constraint term type,
// since C (sign, interval) is the only arithmetic constraint shape the
// spec defines (§3 "C"). Pred atoms carry a PredSym and use LHS for
// the predicate's argument; Neg asserts the predicate's negation.
type Atom struct {
	Kind  AtomKind
	LHS   Term
	RHS   Term     // unused for AtomMember, AtomPred
	Sign  Sign     // used for AtomMember
	Bound Interval // used for AtomMember
	Pred  PredSym  // used for AtomPred
	Neg   bool     // used for AtomPred: assert ¬p(x) rather than p(x)
}

// EqAtom builds an equality atom t1 = t2.
func EqAtom(t1, t2 Term) Atom { return Atom{Kind: AtomEq, LHS: t1, RHS: t2} }

// DiseqAtom builds a disequality atom t1 ≠ t2.
func DiseqAtom(t1, t2 Term) Atom { return Atom{Kind: AtomDiseq, LHS: t1, RHS: t2} }

// MemberAtom builds an arithmetic membership atom t ∈ C, where C is
// given as a sign together with an optional interval refinement.
func MemberAtom(t Term, s Sign, bound Interval) Atom {
	return Atom{Kind: AtomMember, LHS: t, Sign: s, Bound: bound}
}

// PredAtom builds a monadic-predicate atom p(t) (§4.4), asserting p
// holds of t.
func PredAtom(p PredSym, t Term) Atom {
	return Atom{Kind: AtomPred, LHS: t, Pred: p}
}

// NotPredAtom builds ¬p(t), asserting p does not hold of t.
func NotPredAtom(p PredSym, t Term) Atom {
	return Atom{Kind: AtomPred, LHS: t, Pred: p, Neg: true}
}

func (a Atom) String() string {
	switch a.Kind {
	case AtomEq:
		return a.LHS.String() + " = " + a.RHS.String()
	case AtomDiseq:
		return a.LHS.String() + " ≠ " + a.RHS.String()
	case AtomMember:
		return a.LHS.String() + " ∈ " + a.Sign.String()
	case AtomPred:
		if a.Neg {
			return "¬" + string(a.Pred) + "(" + a.LHS.String() + ")"
		}
		return string(a.Pred) + "(" + a.LHS.String() + ")"
	default:
		return "?"
	}
}

// Negate builds the finite conjunction of atoms expressing ¬a, when
// that is expressible (§8 "when ¬a is expressible as a finite
// conjunction of atoms"). Equality negates to disequality and back;
// a sign membership negates to its lattice complement only when that
// complement is itself a single lattice element (e.g. ¬(x = 0) is not
// a single sign, so Negate reports ok=false for that case).
func (a Atom) Negate() (Atom, bool) {
	switch a.Kind {
	case AtomEq:
		return DiseqAtom(a.LHS, a.RHS), true
	case AtomDiseq:
		return EqAtom(a.LHS, a.RHS), true
	case AtomMember:
		switch a.Sign {
		case SignPos:
			return MemberAtom(a.LHS, SignNonPos, Interval{Hi: RatInt(0)}), true
		case SignNeg:
			return MemberAtom(a.LHS, SignNonNeg, Interval{Lo: RatInt(0)}), true
		case SignNonNeg:
			return MemberAtom(a.LHS, SignNeg, Interval{Hi: RatInt(0)}), true
		case SignNonPos:
			return MemberAtom(a.LHS, SignPos, Interval{Lo: RatInt(0)}), true
		default:
			return Atom{}, false
		}
	case AtomPred:
		return Atom{Kind: AtomPred, LHS: a.LHS, Pred: a.Pred, Neg: !a.Neg}, true
	default:
		return Atom{}, false
	}
}
