package decide

import "sort"

// AtomID identifies one atom in the input sequence fed to a Session,
// in the order it was asserted (§3 "Justification").
type AtomID uint64

// Justification is an opaque dependency set: the input atoms a derived
// fact depends on. It carries no proof term, only enough information
// for unsat-core extraction (§1 Non-goals, §3 "Justification").
//
// The zero value is the empty justification (no dependencies, used for
// facts that hold unconditionally, e.g. x = x).
type Justification struct {
	atoms map[AtomID]struct{}
}

// Axiom wraps a single input atom as its own justification.
func Axiom(a AtomID) Justification {
	return Justification{atoms: map[AtomID]struct{}{a: {}}}
}

// Dep2 unions two justifications, the only combinator the spec allows
// (§3, §9 "Justifications").
func Dep2(a, b Justification) Justification {
	out := make(map[AtomID]struct{}, len(a.atoms)+len(b.atoms))
	for id := range a.atoms {
		out[id] = struct{}{}
	}
	for id := range b.atoms {
		out[id] = struct{}{}
	}
	return Justification{atoms: out}
}

// DepN unions any number of justifications; a thin convenience wrapper
// around repeated Dep2 for a derived fact that depends on several prior
// facts at once. The engine itself combines justifications with Dep2.
func DepN(js ...Justification) Justification {
	out := Justification{}
	for _, j := range js {
		out = Dep2(out, j)
	}
	return out
}

// Atoms returns the sorted input-atom ids this justification depends
// on, suitable for presenting as an unsat core.
func (j Justification) Atoms() []AtomID {
	ids := make([]AtomID, 0, len(j.atoms))
	for id := range j.atoms {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, k int) bool { return ids[i] < ids[k] })
	return ids
}

// Empty reports whether the justification depends on nothing, i.e. is
// a tautology derived without reference to any asserted atom.
func (j Justification) Empty() bool { return len(j.atoms) == 0 }
