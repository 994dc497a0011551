package decide

// Builder constructs terms hash-consed into one Session's term table.
// The spec deliberately excludes a surface parser/REPL (§1
// Non-goals); Builder is the Go-API way callers (tests, cmd/decide,
// library consumers) construct atoms without one, the same role the
// teacher's term_utils.go helpers (Pair, List, mkVar) play for
// gokanlogic's miniKanren surface.
type Builder struct {
	s *Session
}

// Builder returns a term builder bound to s's term table.
func (s *Session) Builder() *Builder { return &Builder{s: s} }

// Var returns the external variable named name, hash-consed: calling
// Var(name) twice on the same Session returns the identical Variable.
func (b *Builder) Var(name string) *Variable {
	return b.s.eng.table.externalVariable(name)
}

// Label returns a fresh anonymous extension variable (§3 VarLabel).
func (b *Builder) Label() *Variable {
	return b.s.eng.table.freshVariable(VarLabel, "")
}

func (b *Builder) app(sym SymbolKind, name string, args []Term, extra []int64) Term {
	return b.s.eng.table.application(sym, name, args, extra)
}

// Uninterpreted builds an application of an uninterpreted function
// symbol, handled by congruence closure rather than any Shostak
// theory (§1(a) vs §1(c)).
func (b *Builder) Uninterpreted(name string, args ...Term) Term {
	return b.app(SymUninterpreted, name, args, nil)
}

// Linear arithmetic (theory/linarith).

func (b *Builder) Const(r *Rat) Term      { return b.app(SymConst, r.RatString(), nil, nil) }
func (b *Builder) ConstInt(n int64) Term  { return b.Const(RatInt(n)) }
func (b *Builder) Add(x, y Term) Term     { return b.app(SymAdd, "", []Term{x, y}, nil) }
func (b *Builder) Sub(x, y Term) Term     { return b.app(SymSub, "", []Term{x, y}, nil) }
func (b *Builder) Neg(x Term) Term        { return b.app(SymNeg, "", []Term{x}, nil) }
func (b *Builder) MulConst(c *Rat, x Term) Term {
	return b.app(SymMulConst, c.RatString(), []Term{x}, nil)
}

// Nonlinear arithmetic (theory/nonlinear).

func (b *Builder) Mul(x, y Term) Term { return b.app(SymMult, "", []Term{x, y}, nil) }
func (b *Builder) Expt(x Term, n int64) Term {
	return b.app(SymExpt, "", []Term{x}, []int64{n})
}

// Tuples (theory/product).

func (b *Builder) Tuple(xs ...Term) Term { return b.app(SymTuple, "", xs, nil) }
func (b *Builder) Proj(t Term, i int64) Term {
	return b.app(SymProj, "", []Term{t}, []int64{i})
}

// Bitvectors (theory/bitvector). Widths above 64 are outside this
// decision procedure's scope (see theory_bitvector.go).

func (b *Builder) BvConst(width int64, value uint64) Term {
	return b.app(SymBvConst, "", nil, []int64{width, int64(value)})
}
func (b *Builder) BvAnd(x, y Term) Term    { return b.app(SymBvAnd, "", []Term{x, y}, nil) }
func (b *Builder) BvOr(x, y Term) Term     { return b.app(SymBvOr, "", []Term{x, y}, nil) }
func (b *Builder) BvXor(x, y Term) Term    { return b.app(SymBvXor, "", []Term{x, y}, nil) }
func (b *Builder) BvNot(x Term) Term       { return b.app(SymBvNot, "", []Term{x}, nil) }
func (b *Builder) BvConcat(x, y Term) Term { return b.app(SymBvConcat, "", []Term{x, y}, nil) }
func (b *Builder) BvExtract(x Term, hi, lo int64) Term {
	return b.app(SymBvExtract, "", []Term{x}, []int64{hi, lo})
}

// Coproducts (theory/coproduct).

func (b *Builder) Inject(variant int64, payload Term) Term {
	return b.app(SymInject, "", []Term{payload}, []int64{variant})
}
func (b *Builder) Project(variant int64, sum Term) Term {
	return b.app(SymProject, "", []Term{sum}, []int64{variant})
}

// Arrays (theory/arrays).

func (b *Builder) Select(arr, idx Term) Term       { return b.app(SymSelect, "", []Term{arr, idx}, nil) }
func (b *Builder) Store(arr, idx, val Term) Term { return b.app(SymStore, "", []Term{arr, idx, val}, nil) }
