package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitrdm/decide/pkg/decide"
)

func newCheckCmd() *cobra.Command {
	var integerSolve bool
	cmd := &cobra.Command{
		Use:   "check <atom>...",
		Short: "Feed a sequence of atoms through Add and print each verdict",
		Long: `check builds each argument as one atom (e.g. "f(x) = f(y)", "x + y = 3",
"x >= 0") via the small literal grammar described on parseAtom and
asserts them in order with Add, printing the verdict of each atom it
asserts. Like AddList it stops at the first atom that is not Ok, and it
exits with the process code of the last atom asserted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, integerSolve)
		},
	}
	cmd.Flags().BoolVar(&integerSolve, "integer-solve", false, "enable the integer-solve heuristic")
	return cmd
}

func runCheck(cmd *cobra.Command, lits []string, integerSolve bool) error {
	sess := decide.Empty(decide.Config{IntegerSolve: integerSolve}, discardLogger())
	b := sess.Builder()

	var last decide.Status
	for _, lit := range lits {
		a, err := parseAtom(b, lit)
		if err != nil {
			return &exitError{code: exitSyntax, err: err}
		}
		last = sess.Add(a)
		fmt.Fprintf(cmd.OutOrStdout(), "%s => %s\n", lit, last)
		if last.IsOk() {
			sess = last.Ctx
			b = sess.Builder()
		} else {
			break
		}
	}
	return statusToExit(last)
}

func statusToExit(st decide.Status) error {
	switch {
	case st.IsInconsistent():
		return &exitError{code: exitUnsat, err: fmt.Errorf("unsatisfiable: %s", st)}
	case st.IsValid(), st.IsOk():
		return nil
	default:
		return &exitError{code: exitIncomplete, err: fmt.Errorf("unknown result")}
	}
}
