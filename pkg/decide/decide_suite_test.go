package decide_test

import (
	"testing"

	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gitrdm/decide/pkg/decide"
	"github.com/gitrdm/decide/pkg/decide/boolean"
)

// TestDecide runs the spec.md §8 "Concrete scenarios" and boundary
// behaviors as a ginkgo/gomega BDD suite, the way
// operator-framework-deppy's pkg/deppy/solver suite encodes its
// resolution scenarios as living specification.
func TestDecide(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Decide Suite")
}

func empty() *decide.Session {
	return decide.Empty(decide.Config{}, logr.Discard())
}

var _ = Describe("boundary behaviors", func() {
	It("reflexive equality is Valid", func() {
		s := empty()
		b := s.Builder()
		x := b.Var("x")
		Expect(s.Add(decide.EqAtom(x, x)).IsValid()).To(BeTrue())
	})

	It("x = y then x != y is Inconsistent", func() {
		s := empty()
		b := s.Builder()
		x, y := b.Var("x"), b.Var("y")

		st := s.Add(decide.EqAtom(x, y))
		Expect(st.IsOk()).To(BeTrue())
		st = st.Ctx.Add(decide.DiseqAtom(x, y))
		Expect(st.IsInconsistent()).To(BeTrue())
	})

	It("x > 0 then x = 0 is Inconsistent", func() {
		s := empty()
		b := s.Builder()
		x := b.Var("x")

		st := s.Add(decide.MemberAtom(x, decide.SignPos, decide.Interval{}))
		Expect(st.IsOk()).To(BeTrue())
		st = st.Ctx.Add(decide.MemberAtom(x, decide.SignZero, decide.Interval{}))
		Expect(st.IsInconsistent()).To(BeTrue())
	})

	It("a committed atom is Valid when added again against its own successor", func() {
		s := empty()
		b := s.Builder()
		x, y := b.Var("x"), b.Var("y")
		a := decide.EqAtom(x, y)

		st := s.Add(a)
		Expect(st.IsOk()).To(BeTrue())
		Expect(st.Ctx.Add(a).IsValid()).To(BeTrue())
	})

	It("a non-integer rhs against an integer-declared variable is Inconsistent when integer-solve is enabled", func() {
		s := decide.Empty(decide.Config{IntegerSolve: true}, logr.Discard())
		b := s.Builder()
		x := b.Var("x")
		s.DeclareInteger(x)

		st := s.Add(decide.EqAtom(x, b.Const(decide.RatFrac(1, 2))))
		Expect(st.IsInconsistent()).To(BeTrue())
	})

	It("Inconsistent(a) implies Valid(not a) when negation is expressible", func() {
		s := empty()
		b := s.Builder()
		x, y := b.Var("x"), b.Var("y")

		st := s.Add(decide.EqAtom(x, y))
		Expect(st.IsOk()).To(BeTrue())
		s2 := st.Ctx
		st2 := s2.Add(decide.DiseqAtom(x, y))
		Expect(st2.IsInconsistent()).To(BeTrue())

		neg, ok := decide.DiseqAtom(x, y).Negate()
		Expect(ok).To(BeTrue())
		Expect(s2.Add(neg).IsValid()).To(BeTrue())
	})
})

var _ = Describe("scenario: uninterpreted congruence", func() {
	It("f(x) = f(y) does not entail x = y: adding it next is Ok", func() {
		s := empty()
		b := s.Builder()
		x, y := b.Var("x"), b.Var("y")

		st := s.Add(decide.EqAtom(b.Uninterpreted("f", x), b.Uninterpreted("f", y)))
		Expect(st.IsOk()).To(BeTrue())
		Expect(st.Ctx.Add(decide.EqAtom(x, y)).IsOk()).To(BeTrue())
	})

	It("asserting x = y first still makes f(x) = f(y) Valid", func() {
		s := empty()
		b := s.Builder()
		x, y := b.Var("x"), b.Var("y")

		st := s.Add(decide.EqAtom(x, y))
		Expect(st.IsOk()).To(BeTrue())
		Expect(st.Ctx.Add(decide.EqAtom(b.Uninterpreted("f", x), b.Uninterpreted("f", y))).IsValid()).To(BeTrue())
	})
})

var _ = Describe("scenario: array read-over-write", func() {
	It("i = j then select(store(a, i, e), j) = e is Valid", func() {
		s := empty()
		b := s.Builder()
		a, i, j, e := b.Var("a"), b.Var("i"), b.Var("j"), b.Var("e")

		st := s.Add(decide.EqAtom(i, j))
		Expect(st.IsOk()).To(BeTrue())
		Expect(st.Ctx.Add(decide.EqAtom(b.Select(b.Store(a, i, e), j), e)).IsValid()).To(BeTrue())
	})
})

var _ = Describe("scenario: linear arithmetic", func() {
	It("x + y = 3, x = 1 then y = 2 is Valid; y = 3 is Inconsistent", func() {
		s := empty()
		b := s.Builder()
		x, y := b.Var("x"), b.Var("y")

		st := s.Add(decide.EqAtom(b.Add(x, y), b.ConstInt(3)))
		Expect(st.IsOk()).To(BeTrue())
		st = st.Ctx.Add(decide.EqAtom(x, b.ConstInt(1)))
		Expect(st.IsOk()).To(BeTrue())

		Expect(st.Ctx.Add(decide.EqAtom(y, b.ConstInt(2))).IsValid()).To(BeTrue())
		Expect(st.Ctx.Add(decide.EqAtom(y, b.ConstInt(3))).IsInconsistent()).To(BeTrue())
	})
})

var _ = Describe("scenario: tuples", func() {
	It("pair(x,y) = pair(u,v), x = u valid, y = v valid, y != v inconsistent", func() {
		s := empty()
		b := s.Builder()
		x, y, u, v := b.Var("x"), b.Var("y"), b.Var("u"), b.Var("v")

		st := s.Add(decide.EqAtom(b.Tuple(x, y), b.Tuple(u, v)))
		Expect(st.IsOk()).To(BeTrue())

		Expect(st.Ctx.Add(decide.EqAtom(x, u)).IsValid()).To(BeTrue())

		Expect(st.Ctx.Add(decide.EqAtom(y, v)).IsValid()).To(BeTrue())

		Expect(st.Ctx.Add(decide.DiseqAtom(y, v)).IsInconsistent()).To(BeTrue())
	})
})

var _ = Describe("scenario: combination", func() {
	It("f(x) = x, f(f(x)) = y entails y = x", func() {
		s := empty()
		b := s.Builder()
		x, y := b.Var("x"), b.Var("y")

		st := s.Add(decide.EqAtom(b.Uninterpreted("f", x), x))
		Expect(st.IsOk()).To(BeTrue())
		st2 := st.Ctx.Add(decide.EqAtom(b.Uninterpreted("f", b.Uninterpreted("f", x)), y))
		Expect(st2.IsOk()).To(BeTrue())

		Expect(st2.Ctx.Add(decide.EqAtom(y, x)).IsValid()).To(BeTrue())
	})
})

var _ = Describe("scenario: disjoint sign lattice", func() {
	It("x >= 0, y <= 0, x = y is Ok; then x > 0 is Inconsistent", func() {
		s := empty()
		b := s.Builder()
		x, y := b.Var("x"), b.Var("y")

		st := s.Add(decide.MemberAtom(x, decide.SignNonNeg, decide.Interval{}))
		Expect(st.IsOk()).To(BeTrue())
		st2 := st.Ctx.Add(decide.MemberAtom(y, decide.SignNonPos, decide.Interval{}))
		Expect(st2.IsOk()).To(BeTrue())
		st3 := st2.Ctx.Add(decide.EqAtom(x, y))
		Expect(st3.IsOk()).To(BeTrue())

		Expect(st3.Ctx.Add(decide.MemberAtom(x, decide.SignPos, decide.Interval{})).IsInconsistent()).To(BeTrue())
	})
})

var _ = Describe("Eq (semantic identity)", func() {
	It("treats two different derivations of the same facts as equal", func() {
		s := empty()
		b := s.Builder()
		x, y, z := b.Var("x"), b.Var("y"), b.Var("z")

		// Derivation 1: x = y, y = z.
		st := s.Add(decide.EqAtom(x, y))
		st = st.Ctx.Add(decide.EqAtom(y, z))
		d1 := st.Ctx

		// Derivation 2: x = z, z = y (same final facts, different order).
		s2 := empty()
		b2 := s2.Builder()
		x2, y2, z2 := b2.Var("x"), b2.Var("y"), b2.Var("z")
		st2 := s2.Add(decide.EqAtom(x2, z2))
		st2 = st2.Ctx.Add(decide.EqAtom(z2, y2))
		d2 := st2.Ctx

		Expect(decide.Eq(d1, d2)).To(BeTrue())
	})

	It("reports inequality when the induced partitions differ", func() {
		s := empty()
		b := s.Builder()
		x, y := b.Var("x"), b.Var("y")
		st := s.Add(decide.EqAtom(x, y))
		d1 := st.Ctx

		d2 := empty()
		d2.Builder().Var("x")
		d2.Builder().Var("y")

		Expect(decide.Eq(d1, d2)).To(BeFalse())
	})
})

var _ = Describe("scenario: monadic predicate atoms", func() {
	It("asserting p(x) twice is Valid the second time", func() {
		s := empty()
		b := s.Builder()
		x := b.Var("x")

		st := s.Add(decide.PredAtom("p", x))
		Expect(st.IsOk()).To(BeTrue())
		Expect(st.Ctx.Add(decide.PredAtom("p", x)).IsValid()).To(BeTrue())
	})

	It("p(x) then not p(x) is Inconsistent", func() {
		s := empty()
		b := s.Builder()
		x := b.Var("x")

		st := s.Add(decide.PredAtom("p", x))
		Expect(st.IsOk()).To(BeTrue())
		Expect(st.Ctx.Add(decide.NotPredAtom("p", x)).IsInconsistent()).To(BeTrue())
	})

	It("p(x) holds under a variable equal to x", func() {
		s := empty()
		b := s.Builder()
		x, y := b.Var("x"), b.Var("y")

		st := s.Add(decide.EqAtom(x, y))
		Expect(st.IsOk()).To(BeTrue())
		st = st.Ctx.Add(decide.PredAtom("p", x))
		Expect(st.IsOk()).To(BeTrue())
		Expect(st.Ctx.Add(decide.PredAtom("p", y)).IsValid()).To(BeTrue())
	})

	It("Negate flips a predicate atom's polarity", func() {
		a := decide.PredAtom("p", empty().Builder().Var("x"))
		neg, ok := a.Negate()
		Expect(ok).To(BeTrue())
		Expect(neg.Neg).To(BeTrue())
		back, ok := neg.Negate()
		Expect(ok).To(BeTrue())
		Expect(back.Neg).To(BeFalse())
	})
})

var _ = Describe("scenario: renaming layer round trip through a Boolean collaborator", func() {
	It("sub(p, q) plus p(x) derives q(w) through gini once x and w are unioned", func() {
		s := empty()
		b := s.Builder()
		x, w := b.Var("x"), b.Var("w")

		s.DeclareSub("p", "q")
		up := s.AliasMonadic("p", x)
		uq := s.AliasMonadic("q", w)

		st := s.Add(decide.EqAtom(x, w))
		Expect(st.IsOk()).To(BeTrue())
		s = st.Ctx

		st = s.Add(decide.PredAtom("p", x))
		Expect(st.IsOk()).To(BeTrue())
		s = st.Ctx

		c := boolean.New()
		c.AbsorbAll(s.Deductions())
		c.Assume(up, true)
		Expect(c.CheckSAT()).To(BeTrue())

		model := c.Model()
		Expect(model[uq]).To(BeTrue())

		s.PropagateValid(uq, decide.Axiom(0))
		Expect(s.Add(decide.PredAtom("q", w)).IsValid()).To(BeTrue())
	})
})
