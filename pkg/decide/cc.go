package decide

import "fmt"

// ccBinding is one entry of the CC configuration U: u ↦ f(x) (§3 "CC
// configuration U").
type ccBinding struct {
	sym  SymbolKind
	name string
	args []*Variable
}

func (b ccBinding) sameSymbol(o ccBinding) bool {
	return b.sym == o.sym && b.name == o.name && len(b.args) == len(o.args)
}

// CC holds the congruence-closure configuration U: a map from alias
// variables to flat monadic applications of uninterpreted (or
// interpreted-but-not-yet-theory-owned) symbols over canonical
// variables (§3 "CC configuration U", §4.2).
//
// Grounded in the teacher's constraint_store.go ConstraintStore (an
// indexed collection keyed by identity) and pldb.go's indexed fact
// store (alias lookup by argument tuple).
type CC struct {
	byVar map[*Variable]ccBinding // u -> f(x)
	order []*Variable             // insertion order of byVar's keys, so Lookup/Close iterate
	// deterministically rather than in Go map order (§5's determinism
	// requirement, mirrored on SolutionSet.usersOf and Renaming.dep/
	// depOrder).

	// byArg/byArgOrder reverse-index canonical arguments to the u's
	// whose binding mentions them, the same set+insertion-order-slice
	// pairing Renaming.dep/depOrder uses, so membership can be checked
	// in O(1) (no duplicate re-insertion on retarget) while iteration
	// still stays deterministic.
	byArg      map[*Variable]map[*Variable]struct{}
	byArgOrder map[*Variable][]*Variable

	index map[string][]*Variable // "sym:name:argcount" -> candidate u's, for lookup/inv
}

func newCC() *CC {
	return &CC{
		byVar:      make(map[*Variable]ccBinding),
		byArg:      make(map[*Variable]map[*Variable]struct{}),
		byArgOrder: make(map[*Variable][]*Variable),
		index:      make(map[string][]*Variable),
	}
}

func (c *CC) clone() *CC {
	nc := newCC()
	nc.order = append([]*Variable(nil), c.order...)
	for k, v := range c.byVar {
		args := make([]*Variable, len(v.args))
		copy(args, v.args)
		nc.byVar[k] = ccBinding{sym: v.sym, name: v.name, args: args}
	}
	for a, set := range c.byArg {
		cp := make(map[*Variable]struct{}, len(set))
		for u := range set {
			cp[u] = struct{}{}
		}
		nc.byArg[a] = cp
	}
	for a, order := range c.byArgOrder {
		nc.byArgOrder[a] = append([]*Variable(nil), order...)
	}
	for k, vs := range c.index {
		cp := make([]*Variable, len(vs))
		copy(cp, vs)
		nc.index[k] = cp
	}
	return nc
}

func symKey(sym SymbolKind, name string, arity int) string {
	return fmt.Sprintf("%d:%s:%d", sym, name, arity)
}

// Alias returns u such that u ↦ f(x) exists up to V, or creates a
// fresh variable u, inserts u ↦ f(find(x)), and returns it (§4.2
// "alias(f, x)"). Must only be called in a congruence-closed state.
func (c *CC) Alias(p *Partition, t *termTable, sym SymbolKind, name string, rawArgs []*Variable) *Variable {
	args := make([]*Variable, len(rawArgs))
	for i, a := range rawArgs {
		args[i] = p.Find(a)
	}
	if u, ok := c.lookupExact(sym, name, args); ok {
		return u
	}
	u := t.freshVariable(VarFreshRename, "")
	c.insert(u, ccBinding{sym: sym, name: name, args: args})
	return u
}

func (c *CC) insert(u *Variable, b ccBinding) {
	if _, exists := c.byVar[u]; !exists {
		c.order = append(c.order, u)
	}
	c.byVar[u] = b
	for _, a := range b.args {
		c.addByArg(a, u)
	}
	key := symKey(b.sym, b.name, len(b.args))
	c.index[key] = append(c.index[key], u)
}

// addByArg records that u's binding mentions canonical argument a,
// deduplicating against byArg's set so a rewrite that only confirms an
// already-recorded mention (e.g. retarget folding a binding's two
// arguments onto the same post-union variable) does not grow
// byArgOrder with a repeated entry.
func (c *CC) addByArg(a, u *Variable) {
	if c.byArg[a] == nil {
		c.byArg[a] = make(map[*Variable]struct{})
	}
	if _, ok := c.byArg[a][u]; !ok {
		c.byArgOrder[a] = append(c.byArgOrder[a], u)
	}
	c.byArg[a][u] = struct{}{}
}

func (c *CC) lookupExact(sym SymbolKind, name string, args []*Variable) (*Variable, bool) {
	key := symKey(sym, name, len(args))
	for _, u := range c.index[key] {
		b, ok := c.byVar[u]
		if !ok {
			continue
		}
		if sameArgs(b.args, args) {
			return u, true
		}
	}
	return nil, false
}

func sameArgs(a, b []*Variable) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Lookup returns f(y) if a binding u ↦ f(y') exists with find(x) =
// find(u); else not-found (§4.2 "lookup(x)"). Iterates byVar's
// insertion order rather than raw map order, so the first match is
// deterministic when more than one u satisfies find(u) = find(x) (§5).
func (c *CC) Lookup(p *Partition, x *Variable) (ccBinding, bool) {
	cx := p.Find(x)
	for _, u := range c.order {
		if p.Find(u) == cx {
			return c.byVar[u], true
		}
	}
	return ccBinding{}, false
}

// Inv returns the canonical u with u ↦ f(x'), find(x) = find(x'); else
// not-found (§4.2 "inv(f, x)").
func (c *CC) Inv(p *Partition, sym SymbolKind, name string, args []*Variable) (*Variable, bool) {
	canon := make([]*Variable, len(args))
	for i, a := range args {
		canon[i] = p.Find(a)
	}
	key := symKey(sym, name, len(args))
	for _, u := range c.index[key] {
		b, ok := c.byVar[u]
		if !ok {
			continue
		}
		argsEq := true
		for i, a := range b.args {
			if p.Find(a) != canon[i] {
				argsEq = false
				break
			}
		}
		if argsEq {
			return p.Find(u), true
		}
	}
	return nil, false
}

// Close is called for every pair with find(x) = find(y), y canonical,
// x non-canonical (after a Union just performed by the partition). For
// every u ↦ f(x) and v ↦ f(y) it finds, it unions u with v in V
// (propagating further), then removes bindings keyed on x, retaining
// those on y (§4.2 "close(x, y)").
func (c *CC) Close(p *Partition, x, y *Variable, j Justification) {
	xBindings := c.bindingsOn(x)
	for _, ub := range xBindings {
		for _, v := range c.order {
			if v == ub.u {
				continue
			}
			vb := c.byVar[v]
			if !ub.b.sameSymbol(vb) {
				continue
			}
			if argsEqualUnder(p, ub.b.args, vb.args) {
				p.Union(ub.u, v, j)
			}
		}
	}
	c.retarget(x, y)
}

type uBinding struct {
	u *Variable
	b ccBinding
}

// bindingsOn returns every binding mentioning x, in byArgOrder's
// insertion order, via the byArg reverse index rather than a full scan
// of byVar (§4.2, §5 determinism).
func (c *CC) bindingsOn(x *Variable) []uBinding {
	set := c.byArg[x]
	if len(set) == 0 {
		return nil
	}
	out := make([]uBinding, 0, len(set))
	for _, u := range c.byArgOrder[x] {
		if _, ok := set[u]; !ok {
			continue
		}
		b, ok := c.byVar[u]
		if !ok {
			continue
		}
		out = append(out, uBinding{u: u, b: b})
	}
	return out
}

func argsEqualUnder(p *Partition, a, b []*Variable) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if p.Find(a[i]) != p.Find(b[i]) {
			return false
		}
	}
	return true
}

// retarget rewrites every binding that mentions x (non-canonical) to
// mention y (its new canonical representative) instead, keeping the
// index consistent. This implements "removes bindings keyed on x,
// retains on y" together with U's disjointness invariant. Only the
// bindings byArg[x] actually names are visited — no full byVar scan —
// and each is folded into byArg[y] through addByArg's dedup check, so
// a binding already mentioning y elsewhere does not get a duplicate
// byArg[y] entry.
func (c *CC) retarget(x, y *Variable) {
	us := c.byArgOrder[x]
	set := c.byArg[x]
	for _, u := range us {
		if _, ok := set[u]; !ok {
			continue
		}
		b, ok := c.byVar[u]
		if !ok {
			continue
		}
		changed := false
		newArgs := make([]*Variable, len(b.args))
		for i, a := range b.args {
			if a == x {
				newArgs[i] = y
				changed = true
			} else {
				newArgs[i] = a
			}
		}
		if !changed {
			continue
		}
		nb := ccBinding{sym: b.sym, name: b.name, args: newArgs}
		c.byVar[u] = nb
		key := symKey(nb.sym, nb.name, len(nb.args))
		c.index[key] = append(c.index[key], u)
		c.addByArg(y, u)
	}
	delete(c.byArg, x)
	delete(c.byArgOrder, x)
}
