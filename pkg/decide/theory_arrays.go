package decide

// arraysTheory implements Theory for functional arrays (§4, §6.1
// "theory/arrays"): SymSelect(array, index) and
// SymStore(array, index, value). Grounded in the teacher's pldb.go
// indexed fact store (an index -> value map consulted and rewritten
// as facts arrive), repurposed here as the read-over-write and
// shadowed-write canonicalization rules.
//
// Canon consults the live partition (via eng) rather than only the
// term's own syntactic shape: select(store(a, i, e), j) rewrites to e
// the moment i and j are known-equal in the partition, even if i and j
// started out as distinct external variables (§8 "add(i = j);
// add(select(store(a, i, e), j) = e) -> Valid"). This means Canon's
// result can become more reduced as later facts are learned; called
// twice back to back with no intervening fact it is idempotent, which
// is the sense §8's idempotence property requires.
type arraysTheory struct{}

func newArraysTheory() *arraysTheory { return &arraysTheory{} }

func (arraysTheory) ID() TheoryID { return TheoryArrays }

func (th arraysTheory) Canon(eng *engine, t Term) Term {
	switch v := t.(type) {
	case *Variable:
		return v
	case *Application:
		switch v.Symbol {
		case SymStore:
			arr := th.Canon(eng, v.Args[0])
			idx := th.Canon(eng, v.Args[1])
			val := th.Canon(eng, v.Args[2])
			if inner, ok := arr.(*Application); ok && inner.Symbol == SymStore {
				iv, iok := idx.(*Variable)
				jv, jok := inner.Args[1].(*Variable)
				if iok && jok && eng.partition.Equal(iv, jv) {
					// store(store(a, i, e1), i, e2) = store(a, i, e2):
					// the inner write is immediately shadowed.
					return eng.table.application(SymStore, "", []Term{inner.Args[0], idx, val}, nil)
				}
			}
			return eng.table.application(SymStore, "", []Term{arr, idx, val}, nil)
		case SymSelect:
			arr := th.Canon(eng, v.Args[0])
			idx := th.Canon(eng, v.Args[1])
			if inner, ok := arr.(*Application); ok && inner.Symbol == SymStore {
				iv, iok := idx.(*Variable)
				jv, jok := inner.Args[1].(*Variable)
				if iok && jok {
					if eng.partition.Equal(iv, jv) {
						// select(store(a, i, e), j) = e when i = j.
						return inner.Args[2]
					}
					if eng.partition.Diseq(iv, jv) {
						// select(store(a, i, e), j) = select(a, j) when i != j.
						return th.Canon(eng, eng.table.application(SymSelect, "", []Term{inner.Args[0], idx}, nil))
					}
				}
			}
			return eng.table.application(SymSelect, "", []Term{arr, idx}, nil)
		default:
			panic("decide: non-array symbol reached arraysTheory.Canon")
		}
	default:
		panic("decide: unknown term kind")
	}
}

func (th arraysTheory) Norm(eng *engine, rho func(*Variable) Term, t Term) Term {
	return th.Canon(eng, substituteVars(eng, rho, t))
}

// Solve handles the shapes Canon is able to reduce to a bare variable
// on at least one side; general store/select extensionality beyond
// read-over-write is out of scope (no bitvector-style decision
// procedure is attempted here), so a compound-vs-compound equation
// raises Unsolvable and falls back to alias-and-union (§4.3 "Failure
// semantics").
func (th arraysTheory) Solve(eng *engine, a, b Term, j Justification) []Eqn {
	ca, cb := th.Canon(eng, a), th.Canon(eng, b)
	if av, ok := ca.(*Variable); ok {
		if bv, ok := cb.(*Variable); ok {
			if av == bv {
				return nil
			}
			lhs, rhs := orientPair(av, bv)
			return []Eqn{{LHS: lhs, RHS: rhs}}
		}
		return []Eqn{{LHS: av, RHS: cb}}
	}
	if bv, ok := cb.(*Variable); ok {
		return []Eqn{{LHS: bv, RHS: ca}}
	}
	raiseUnsolvable()
	return nil
}
