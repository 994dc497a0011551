package main

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/gitrdm/decide/pkg/decide"
)

func discardLogger() logr.Logger { return logr.Discard() }

// scenario is one of spec.md §8's "Concrete scenarios", built directly
// against the Go API the way the teacher's cmd/example/main.go
// demonstrates gokanlogic's API rather than parsing anything.
type scenario struct {
	name string
	run  func(cmd *cobra.Command) decide.Status
}

var scenarios = []scenario{
	{
		name: "congruence",
		run: func(cmd *cobra.Command) decide.Status {
			sess := decide.Empty(decide.Config{}, discardLogger())
			b := sess.Builder()
			x, y := b.Var("x"), b.Var("y")

			st := printStep(cmd, sess, decide.EqAtom(b.Uninterpreted("f", x), b.Uninterpreted("f", y)))
			sess, b = advance(sess, b, st)
			return printStep(cmd, sess, decide.EqAtom(x, y))
		},
	},
	{
		name: "array-row",
		run: func(cmd *cobra.Command) decide.Status {
			sess := decide.Empty(decide.Config{}, discardLogger())
			b := sess.Builder()
			a, i, j, e := b.Var("a"), b.Var("i"), b.Var("j"), b.Var("e")

			st := printStep(cmd, sess, decide.EqAtom(i, j))
			sess, b = advance(sess, b, st)
			return printStep(cmd, sess, decide.EqAtom(b.Select(b.Store(a, i, e), j), e))
		},
	},
	{
		name: "linarith",
		run: func(cmd *cobra.Command) decide.Status {
			sess := decide.Empty(decide.Config{}, discardLogger())
			b := sess.Builder()
			x, y := b.Var("x"), b.Var("y")

			st := printStep(cmd, sess, decide.EqAtom(b.Add(x, y), b.ConstInt(3)))
			sess, b = advance(sess, b, st)
			st = printStep(cmd, sess, decide.EqAtom(x, b.ConstInt(1)))
			sess, b = advance(sess, b, st)
			return printStep(cmd, sess, decide.EqAtom(y, b.ConstInt(2)))
		},
	},
	{
		name: "tuples",
		run: func(cmd *cobra.Command) decide.Status {
			sess := decide.Empty(decide.Config{}, discardLogger())
			b := sess.Builder()
			x, y, u, v := b.Var("x"), b.Var("y"), b.Var("u"), b.Var("v")

			st := printStep(cmd, sess, decide.EqAtom(b.Tuple(x, y), b.Tuple(u, v)))
			sess, b = advance(sess, b, st)
			st = printStep(cmd, sess, decide.EqAtom(x, u))
			sess, b = advance(sess, b, st)
			return printStep(cmd, sess, decide.EqAtom(y, v))
		},
	},
	{
		name: "combination",
		run: func(cmd *cobra.Command) decide.Status {
			sess := decide.Empty(decide.Config{}, discardLogger())
			b := sess.Builder()
			x, y := b.Var("x"), b.Var("y")

			st := printStep(cmd, sess, decide.EqAtom(b.Uninterpreted("f", x), x))
			sess, b = advance(sess, b, st)
			st = printStep(cmd, sess, decide.EqAtom(b.Uninterpreted("f", b.Uninterpreted("f", x)), y))
			sess, _ = advance(sess, b, st)
			return printStep(cmd, sess, decide.EqAtom(y, x))
		},
	},
	{
		name: "signs",
		run: func(cmd *cobra.Command) decide.Status {
			sess := decide.Empty(decide.Config{}, discardLogger())
			b := sess.Builder()
			x, y := b.Var("x"), b.Var("y")

			st := printStep(cmd, sess, decide.MemberAtom(x, decide.SignNonNeg, decide.Interval{}))
			sess, b = advance(sess, b, st)
			st = printStep(cmd, sess, decide.MemberAtom(y, decide.SignNonPos, decide.Interval{}))
			sess, b = advance(sess, b, st)
			st = printStep(cmd, sess, decide.EqAtom(x, y))
			sess, _ = advance(sess, b, st)
			return printStep(cmd, sess, decide.MemberAtom(x, decide.SignPos, decide.Interval{}))
		},
	},
}

func printStep(cmd *cobra.Command, sess *decide.Session, a decide.Atom) decide.Status {
	st := sess.Add(a)
	fmt.Fprintf(cmd.OutOrStdout(), "%s => %s\n", a, st)
	return st
}

// advance returns the successor session and a builder bound to it
// when st is Ok; otherwise it returns sess/b unchanged so the caller's
// next printStep reports against the same (terminal) context.
func advance(sess *decide.Session, b *decide.Builder, st decide.Status) (*decide.Session, *decide.Builder) {
	if !st.IsOk() {
		return sess, b
	}
	return st.Ctx, st.Ctx.Builder()
}

func newScenarioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenario <name>",
		Short: "Run one of the built-in §8 scenarios end to end",
		Long:  scenarioNames(),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, sc := range scenarios {
				if sc.name == args[0] {
					return statusToExit(sc.run(cmd))
				}
			}
			return &exitError{code: exitSyntax, err: fmt.Errorf("unknown scenario %q", args[0])}
		},
	}
}

func scenarioNames() string {
	out := "Available scenarios:\n"
	for _, sc := range scenarios {
		out += "  " + sc.name + "\n"
	}
	return out
}
