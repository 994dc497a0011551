// Package boolean gives the renaming layer's propositional
// deductions a concrete external Boolean collaborator (§1 Non-goals:
// "consuming [implications] into a DPLL search is external", §4.4).
// It is a pure consumer: the core decision procedure in pkg/decide
// never imports this package or calls into it during Add.
//
// Grounded in operator-framework-deppy's internal/sat litMapping: the
// same "assign each opaque handle its own z.Lit, translate deductions
// to clauses, ask gini for a model" shape, generalized from
// dependency-resolution constraints to decide.Deduction values.
package boolean

import (
	"fmt"

	"github.com/go-air/gini"
	"github.com/go-air/gini/inter"
	"github.com/go-air/gini/z"

	"github.com/gitrdm/decide/pkg/decide"
)

// Collaborator incrementally builds a CNF instance from a Session's
// accumulated Deductions and asks gini whether it is satisfiable.
type Collaborator struct {
	g    inter.S
	lits map[*decide.Variable]z.Lit
}

// New returns an empty Collaborator backed by a fresh gini instance.
func New() *Collaborator {
	return &Collaborator{
		g:    gini.New(),
		lits: make(map[*decide.Variable]z.Lit),
	}
}

func (c *Collaborator) litOf(v *decide.Variable) z.Lit {
	if m, ok := c.lits[v]; ok {
		return m
	}
	m := c.g.Lit()
	c.lits[v] = m
	return m
}

// Assume asserts u's known truth value as a unit clause, for propvars
// whose value the renaming layer has already pinned via
// propagate_valid0/unsat0.
func (c *Collaborator) Assume(u *decide.Variable, truth bool) {
	m := c.litOf(u)
	if !truth {
		m = m.Not()
	}
	c.g.Assume(m)
}

// addClause adds one clause (a disjunction of literals) to the
// instance, gini's usual one-literal-at-a-time Adder protocol
// terminated by the literal 0.
func (c *Collaborator) addClause(lits ...z.Lit) {
	for _, m := range lits {
		c.g.Add(m)
	}
	c.g.Add(0)
}

// Absorb translates one Deduction into clauses over the collaborator's
// literal space: Equiv(u, v) as (u -> v) AND (v -> u); Disjoint(u, v)
// as at-most-one (¬u OR ¬v); Implies(u, v) as (¬u OR v).
func (c *Collaborator) Absorb(d decide.Deduction) {
	u, v := c.litOf(d.U), c.litOf(d.V)
	switch d.Kind {
	case decide.DeducEquiv:
		c.addClause(u.Not(), v)
		c.addClause(v.Not(), u)
	case decide.DeducDisjoint:
		c.addClause(u.Not(), v.Not())
	case decide.DeducImplies:
		c.addClause(u.Not(), v)
	default:
		panic(fmt.Sprintf("boolean: unknown deduction kind %d", d.Kind))
	}
}

// AbsorbAll translates every deduction a Session has accumulated.
func (c *Collaborator) AbsorbAll(deductions []decide.Deduction) {
	for _, d := range deductions {
		c.Absorb(d)
	}
}

// CheckSAT asks gini whether the accumulated clauses and assumptions
// are jointly satisfiable.
func (c *Collaborator) CheckSAT() bool {
	return c.g.Solve() == 1 // gini.inter.Sat
}

// Model returns, for every propvar this Collaborator has allocated a
// literal for, the truth value gini's most recent Solve assigned it.
// Calling Model before CheckSAT has returned true yields an
// unspecified assignment, matching gini's own Value contract. The
// caller feeds this back into the decision procedure one propvar at a
// time via decide.Session.PropagateValid/PropagateUnsat, completing
// the round trip §4.4 describes ("propagate_valid0/unsat0... accepts
// propositional-level verdicts to refine the partition").
func (c *Collaborator) Model() map[*decide.Variable]bool {
	out := make(map[*decide.Variable]bool, len(c.lits))
	for v, m := range c.lits {
		out[v] = c.g.Value(m)
	}
	return out
}
