package decide

import "fmt"

// Interval is a closed interval over the exact rationals, with nil
// bounds standing for -∞/+∞. It refines the sign lattice (sign.go)
// with bound information the same way the spec's C store couples "a
// sign lattice ... and/or an interval over exact rationals" (§3 "C").
//
// Grounded in the teacher's IntervalArithmetic (interval_arithmetic.go):
// the same containment/intersection/sum shape, generalized from
// positive-int BitSetDomain bounds to open-ended exact-rational bounds.
type Interval struct {
	Lo, Hi *Rat // nil means unbounded
}

// FullInterval is the unconstrained (-∞, +∞) interval.
func FullInterval() Interval { return Interval{} }

// PointInterval is the degenerate [v, v] interval.
func PointInterval(v *Rat) Interval { return Interval{Lo: v, Hi: v} }

// IsEmpty reports whether the interval admits no value: Lo > Hi.
func (iv Interval) IsEmpty() bool {
	if iv.Lo == nil || iv.Hi == nil {
		return false
	}
	return iv.Lo.Cmp(iv.Hi) > 0
}

// IsPoint reports whether the interval is a single exact value.
func (iv Interval) IsPoint() bool {
	return iv.Lo != nil && iv.Hi != nil && iv.Lo.Cmp(iv.Hi) == 0
}

// Meet computes the intersection of two intervals: [max(lo), min(hi)].
// It raises nothing itself: an empty result comes back as an interval
// with Lo > Hi, and callers test IsEmpty to detect the inconsistency
// (§3 "C": "Intersection is meet; empty meet is inconsistent").
func (iv Interval) Meet(other Interval) Interval {
	lo := maxBound(iv.Lo, other.Lo, true)
	hi := maxBound(iv.Hi, other.Hi, false)
	return Interval{Lo: lo, Hi: hi}
}

// maxBound picks the tighter of two optional bounds. lower selects
// whether this is a lower bound (tighter = larger) or an upper bound
// (tighter = smaller).
func maxBound(a, b *Rat, lower bool) *Rat {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	cmp := a.Cmp(b)
	if lower {
		if cmp >= 0 {
			return a
		}
		return b
	}
	if cmp <= 0 {
		return a
	}
	return b
}

// Sign derives the sign lattice element implied by this interval's
// bounds, used to keep the sign and interval parts of C in sync.
func (iv Interval) Sign() Sign {
	switch {
	case iv.IsPoint() && iv.Lo.Sign() == 0:
		return SignZero
	case iv.Lo != nil && iv.Lo.Sign() > 0:
		return SignPos
	case iv.Hi != nil && iv.Hi.Sign() < 0:
		return SignNeg
	case iv.Lo != nil && iv.Lo.Sign() == 0:
		return SignNonNeg
	case iv.Hi != nil && iv.Hi.Sign() == 0:
		return SignNonPos
	default:
		return SignTop
	}
}

// RefineWithSign narrows an interval with a newly learned sign fact,
// e.g. learning SignPos on a [-5, 5] interval yields (0, 5] — stored
// here as [0, 5] since the interval store only tracks closed rational
// bounds; exact open-bound tracking is left to the sign lattice itself.
func (iv Interval) RefineWithSign(s Sign) Interval {
	switch s {
	case SignZero:
		return iv.Meet(PointInterval(RatInt(0)))
	case SignNonNeg:
		return iv.Meet(Interval{Lo: RatInt(0)})
	case SignNonPos:
		return iv.Meet(Interval{Hi: RatInt(0)})
	case SignPos, SignNeg:
		// Strict bounds aren't representable as closed rationals;
		// the sign component of C carries the strictness, this
		// interval component only tightens the non-strict envelope.
		if s == SignPos {
			return iv.Meet(Interval{Lo: RatInt(0)})
		}
		return iv.Meet(Interval{Hi: RatInt(0)})
	default:
		return iv
	}
}

func (iv Interval) String() string {
	lo, hi := "-∞", "+∞"
	if iv.Lo != nil {
		lo = iv.Lo.RatString()
	}
	if iv.Hi != nil {
		hi = iv.Hi.RatString()
	}
	return fmt.Sprintf("[%s, %s]", lo, hi)
}
