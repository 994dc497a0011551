// Package decide implements a decision procedure for quantifier-free
// first-order formulas over a combination of equational theories.
//
// The package combines a congruence-closure inference system for
// uninterpreted function symbols with a Shostak-style combination of
// theory-specific canonizer/solver pairs (linear arithmetic, tuples,
// bitvectors, nonlinear arithmetic, coproducts, arrays), all driven
// through a variable partition that tracks equivalences, disequalities,
// and arithmetic sign/interval facts. A renaming layer bridges monadic
// predicates and variable equalities to propositional variables for an
// external Boolean collaborator.
package decide

import (
	"fmt"
	"sort"
	"sync"
)

// VarKind classifies how a variable entered the system. The kind
// drives the tie-break order used when two variables are merged
// (external < fresh-rename < slack < label, §4.3).
type VarKind int

const (
	// VarExternal is a user-introduced variable.
	VarExternal VarKind = iota
	// VarFreshRename is introduced by flattening/abstraction.
	VarFreshRename
	// VarSlack is introduced by the arithmetic solver to eliminate a constant.
	VarSlack
	// VarLabel is an anonymous extension variable.
	VarLabel
)

func (k VarKind) String() string {
	switch k {
	case VarExternal:
		return "external"
	case VarFreshRename:
		return "fresh"
	case VarSlack:
		return "slack"
	case VarLabel:
		return "label"
	default:
		return "unknown"
	}
}

// rank gives the tie-break ordering used by Partition.Union: the
// representative of a merged class is the one with the smallest rank,
// ties broken by id.
func (k VarKind) rank() int {
	return int(k)
}

// SymbolKind enumerates the closed family of interpreted symbols plus
// the uninterpreted escape hatch (§3). Every Application is tagged
// with exactly one of these.
type SymbolKind int

const (
	// SymUninterpreted applications are handled by congruence closure,
	// never by a Shostak theory.
	SymUninterpreted SymbolKind = iota

	// Linear arithmetic.
	SymAdd
	SymSub
	SymNeg
	SymMulConst // scalar * term
	SymConst    // a rational literal, arity 0

	// Nonlinear arithmetic.
	SymMult // term * term
	SymExpt

	// Tuples / products.
	SymTuple
	SymProj // nth projection of a tuple, arg[0] is the tuple

	// Bitvectors.
	SymBvConst
	SymBvAnd
	SymBvOr
	SymBvXor
	SymBvNot
	SymBvConcat
	SymBvExtract // arg[0] is the bitvector; hi/lo carried on the Application

	// Coproducts (sum types).
	SymInject  // inject into variant i, arg[0] is the payload
	SymProject // project variant i, arg[0] is the sum term

	// Arrays.
	SymSelect // select(array, index)
	SymStore  // store(array, index, value)
)

func (k SymbolKind) String() string {
	names := [...]string{
		"uninterpreted", "add", "sub", "neg", "mulc", "const",
		"mult", "expt", "tuple", "proj",
		"bvconst", "bvand", "bvor", "bvxor", "bvnot", "bvconcat", "bvextract",
		"inject", "project", "select", "store",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown-symbol"
}

// TheoryID names a Shostak theory. Uninterpreted symbols are not a
// Shostak theory: they are handled directly by congruence closure.
type TheoryID int

const (
	TheoryNone TheoryID = iota
	TheoryLinArith
	TheoryProduct
	TheoryBitvector
	TheoryNonlinear
	TheoryCoproduct
	TheoryArrays
)

func (t TheoryID) String() string {
	switch t {
	case TheoryLinArith:
		return "linarith"
	case TheoryProduct:
		return "product"
	case TheoryBitvector:
		return "bitvector"
	case TheoryNonlinear:
		return "nonlinear"
	case TheoryCoproduct:
		return "coproduct"
	case TheoryArrays:
		return "arrays"
	default:
		return "none"
	}
}

// theoryOf reports which Shostak theory, if any, owns a symbol.
// Uninterpreted symbols return TheoryNone; they belong to congruence
// closure rather than to any solution set.
func theoryOf(k SymbolKind) TheoryID {
	switch k {
	case SymAdd, SymSub, SymNeg, SymMulConst, SymConst:
		return TheoryLinArith
	case SymMult, SymExpt:
		return TheoryNonlinear
	case SymTuple, SymProj:
		return TheoryProduct
	case SymBvConst, SymBvAnd, SymBvOr, SymBvXor, SymBvNot, SymBvConcat, SymBvExtract:
		return TheoryBitvector
	case SymInject, SymProject:
		return TheoryCoproduct
	case SymSelect, SymStore:
		return TheoryArrays
	default:
		return TheoryNone
	}
}

// Term is a tagged value: exactly one of Variable or Application.
// Terms are immutable once constructed and compared by identity; a
// total order on terms is derived from that identity (§3).
type Term interface {
	fmt.Stringer

	// IsVar reports whether this term is a Variable.
	IsVar() bool

	// id is the hash-consed identity used for O(1) structural
	// equality and the total order.
	id() uint64
}

// Variable is a named slot with stable identity, hash-consed on
// name+kind within a single Session.
type Variable struct {
	Kind VarKind
	Name string // for external/label variables; empty is allowed
	seq  uint64 // disambiguates fresh/slack/label variables and breaks ties
}

var _ Term = (*Variable)(nil)

func (v *Variable) IsVar() bool { return true }

func (v *Variable) id() uint64 { return v.seq }

func (v *Variable) String() string {
	if v.Name != "" {
		return v.Name
	}
	return fmt.Sprintf("%s_%d", v.Kind, v.seq)
}

// less implements the tie-break total order used to pick a canonical
// representative when two classes merge: external < fresh < slack <
// label, ties broken by id (§4.1).
func (v *Variable) less(other *Variable) bool {
	if v.Kind != other.Kind {
		return v.Kind.rank() < other.Kind.rank()
	}
	return v.seq < other.seq
}

// Application is an interpreted or uninterpreted symbol applied to an
// ordered list of term arguments.
type Application struct {
	Symbol SymbolKind
	Name   string // uninterpreted function name, or const payload encoding
	Args   []Term

	// Extra carries symbol-specific fixed parameters that are not
	// themselves terms: the bitvector width for SymBvConst/extract,
	// the variant tag for SymInject/SymProject, the projection index
	// for SymProj, etc. Kept generic so the closed symbol family above
	// does not need a struct per symbol. SymConst and SymMulConst carry
	// their rational payload in Name instead (see arith.go), as
	// big.Rat's numerator/denominator can exceed int64.
	Extra []int64

	seq uint64
}

var _ Term = (*Application)(nil)

func (a *Application) IsVar() bool { return false }

func (a *Application) id() uint64 { return a.seq }

func (a *Application) String() string {
	parts := make([]string, len(a.Args))
	for i, arg := range a.Args {
		parts[i] = arg.String()
	}
	name := a.Name
	if name == "" {
		name = a.Symbol.String()
	}
	if len(parts) == 0 {
		return name
	}
	return fmt.Sprintf("%s(%s)", name, joinTerms(parts))
}

func joinTerms(parts []string) string {
	out := parts[0]
	for _, p := range parts[1:] {
		out += ", " + p
	}
	return out
}

// TermOrder reports whether a sorts strictly before b in the total
// order over term identities (§3: "a total order on terms is derived
// from this identity").
func TermOrder(a, b Term) bool { return a.id() < b.id() }

// sortTerms sorts a slice of terms in place by the total order.
func sortTerms(ts []Term) {
	sort.Slice(ts, func(i, j int) bool { return TermOrder(ts[i], ts[j]) })
}

// termTable hash-conses variables and applications by structural key
// within one Session, giving O(1) structural equality (§3). A Session
// shares its table with every Session derived from it (Add's
// successors and Copy): engine.clone forks only the mutable stores.
// Sessions made by separate Empty calls have separate tables.
type termTable struct {
	mu       sync.Mutex
	counter  uint64
	varsByNV map[string]*Variable // key: kind+name+disambiguator
	appsByOp map[string]*Application
}

func newTermTable() *termTable {
	return &termTable{
		varsByNV: make(map[string]*Variable),
		appsByOp: make(map[string]*Application),
	}
}

func (t *termTable) nextSeq() uint64 {
	t.counter++
	return t.counter
}

// freshVariable allocates a brand-new variable of the given kind. Used
// for fresh-rename, slack, and label variables, which are never
// hash-consed on name (each call must yield a distinct variable).
func (t *termTable) freshVariable(kind VarKind, name string) *Variable {
	t.mu.Lock()
	defer t.mu.Unlock()
	v := &Variable{Kind: kind, Name: name, seq: t.nextSeq()}
	return v
}

// externalVariable hash-conses a user-introduced variable by name:
// calling it twice with the same name returns the identical Variable.
func (t *termTable) externalVariable(name string) *Variable {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := "external:" + name
	if v, ok := t.varsByNV[key]; ok {
		return v
	}
	v := &Variable{Kind: VarExternal, Name: name, seq: t.nextSeq()}
	t.varsByNV[key] = v
	return v
}

// application hash-conses an Application by (symbol, name, args-by-id,
// extra). Structurally identical applications return the same pointer,
// which is what makes Term equality an O(1) identity check.
func (t *termTable) application(sym SymbolKind, name string, args []Term, extra []int64) *Application {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := appKey(sym, name, args, extra)
	if a, ok := t.appsByOp[key]; ok {
		return a
	}
	a := &Application{Symbol: sym, Name: name, Args: args, Extra: extra, seq: t.nextSeq()}
	t.appsByOp[key] = a
	return a
}

func appKey(sym SymbolKind, name string, args []Term, extra []int64) string {
	key := fmt.Sprintf("%d:%s:", sym, name)
	for _, a := range args {
		key += fmt.Sprintf("%d,", a.id())
	}
	key += ":"
	for _, e := range extra {
		key += fmt.Sprintf("%d,", e)
	}
	return key
}
