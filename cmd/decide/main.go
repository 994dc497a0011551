// Command decide is a thin cobra host around the pkg/decide engine
// (SPEC_FULL.md §8 CLI expansion). It never parses SMT-LIB or any
// general formula syntax — that surface parser is explicitly out of
// scope (spec.md §1) — only a small flag grammar sufficient to build
// the atoms pkg/decide's Builder already knows how to construct.
//
// Grounded in operator-framework-deppy's cmd/root (a cobra root
// command wiring sub-commands from sibling packages) and cmd/dimacs
// (RunE building a solver, printing the outcome, returning an error
// cobra turns into a process exit).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "decide",
		Short: "A Shostak-combination decision procedure for quantifier-free first-order formulas",
		Long: `decide maintains a canonical logical context over a sequence of atomic
assertions (equalities, disequalities, arithmetic membership) and reports,
for each new atom, whether it is already valid, contradicts the context, or
was consistently added.`,
	}
	root.AddCommand(newCheckCmd())
	root.AddCommand(newScenarioCmd())
	root.AddCommand(newPropositionalCmd())
	return root
}

// exitError lets a RunE report one of the §6 exit codes without
// cobra's default "always 1" behavior.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

// Exit codes from spec.md §6: 0 ok, 1 syntax error, 2 unsatisfiable
// input, 3 unknown/incomplete.
const (
	exitOK         = 0
	exitSyntax     = 1
	exitUnsat      = 2
	exitIncomplete = 3
)

func exitCodeFor(err error) int {
	if ee, ok := err.(*exitError); ok {
		return ee.code
	}
	return exitSyntax
}
