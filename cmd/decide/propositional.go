package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitrdm/decide/pkg/decide"
	"github.com/gitrdm/decide/pkg/decide/boolean"
)

// newPropositionalCmd demonstrates the renaming layer's full
// round trip through an external Boolean collaborator (§4.4, §1
// Non-goals: "consuming [implications] into a DPLL search is
// external"): alias two monadic predicates related by sub(p, q),
// force them onto the same variable by unioning their arguments,
// collect the resulting Implies deduction, hand it to
// pkg/decide/boolean.Collaborator, ask gini for a model, and feed the
// model back into the Session via PropagateValid/PropagateUnsat.
//
// Grounded the same way scenario.go is: a small demonstration command
// driving the library's public API directly (cmd/example/main.go in
// the teacher), not a parser — the command line never spells out a
// predicate atom's surface syntax, since spec.md §1 excludes a general
// formula parser and PredAtom has no textual literal grammar here.
func newPropositionalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "propositional",
		Short: "Round-trip the renaming layer's deductions through a SAT collaborator",
		Long: `propositional builds two monadic predicates p and q with sub(p, q)
declared (every p(x) implies q(x)), aliases them on two variables, unions
the variables so the renaming layer deduces p(x) implies q(x), asserts
p(x) true, then asks pkg/decide/boolean.Collaborator for a model and
feeds it back into the Session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPropositional(cmd)
		},
	}
}

func runPropositional(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	sess := decide.Empty(decide.Config{}, discardLogger())
	b := sess.Builder()
	x, w := b.Var("x"), b.Var("w")

	sess.DeclareSub("p", "q")
	up := sess.AliasMonadic("p", x)
	uq := sess.AliasMonadic("q", w)

	st := sess.Add(decide.EqAtom(x, w))
	fmt.Fprintf(out, "x = w => %s\n", st)
	if !st.IsOk() {
		return statusToExit(st)
	}
	sess = st.Ctx

	st = sess.Add(decide.PredAtom("p", x))
	fmt.Fprintf(out, "p(x) => %s\n", st)
	if !st.IsOk() {
		return statusToExit(st)
	}
	sess = st.Ctx

	deductions := sess.Deductions()
	fmt.Fprintf(out, "deductions: %d\n", len(deductions))

	c := boolean.New()
	c.AbsorbAll(deductions)
	c.Assume(up, true)

	if !c.CheckSAT() {
		return &exitError{code: exitUnsat, err: fmt.Errorf("propositional layer found p(x), sub(p, q) unsatisfiable")}
	}

	model := c.Model()
	qTruth := model[uq]
	fmt.Fprintf(out, "q(w) in model: %t\n", qTruth)

	// Feed the collaborator's verdict on q(w) back into the context,
	// completing the round trip (§4.4): the Boolean layer resolved a
	// propvar the renaming layer could not resolve on its own, and
	// that resolution is now a known fact inside the Session.
	j := decide.Axiom(0)
	if qTruth {
		sess.PropagateValid(uq, j)
	} else {
		sess.PropagateUnsat(uq, j)
	}

	return nil
}
