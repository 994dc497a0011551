package main

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"unicode"

	"github.com/gitrdm/decide/pkg/decide"
)

// parseAtom turns one command-line literal like "f(x) = f(y)",
// "x + y = 3", "pair(x,y) = pair(u,v)", or "x >= 0" into a decide.Atom,
// built through b so every term is hash-consed into the session under
// test. This is deliberately NOT a general formula parser (spec.md §1
// excludes that); it covers exactly the term shapes the builtin
// §8 scenarios need: variables, integer constants, +/-, and a closed
// set of named constructors (f(...) for uninterpreted symbols,
// select/store, pair/proj).
func parseAtom(b *decide.Builder, lit string) (decide.Atom, error) {
	p := &atomParser{b: b, s: lit}
	a, err := p.parse()
	if err != nil {
		return decide.Atom{}, fmt.Errorf("syntax error in %q: %w", lit, err)
	}
	return a, nil
}

type atomParser struct {
	b   *decide.Builder
	s   string
	pos int
}

func (p *atomParser) parse() (decide.Atom, error) {
	lhs, err := p.term()
	if err != nil {
		return decide.Atom{}, err
	}
	op, err := p.relop()
	if err != nil {
		return decide.Atom{}, err
	}
	switch op {
	case "=", "!=":
		rhs, err := p.term()
		if err != nil {
			return decide.Atom{}, err
		}
		if err := p.expectEOF(); err != nil {
			return decide.Atom{}, err
		}
		if op == "=" {
			return decide.EqAtom(lhs, rhs), nil
		}
		return decide.DiseqAtom(lhs, rhs), nil
	case ">", ">=", "<", "<=":
		if err := p.expectLiteralZero(); err != nil {
			return decide.Atom{}, err
		}
		return decide.MemberAtom(lhs, signFor(op), decide.Interval{}), nil
	default:
		return decide.Atom{}, fmt.Errorf("unknown relational operator %q", op)
	}
}

func signFor(op string) decide.Sign {
	switch op {
	case ">":
		return decide.SignPos
	case ">=":
		return decide.SignNonNeg
	case "<":
		return decide.SignNeg
	default: // "<="
		return decide.SignNonPos
	}
}

// term parses a chain of primaries joined by "+"/"-" (no products):
// a minimal level over primary() so "x + y" and "x - y" build the linear
// arithmetic Add/Sub applications the §8 scenarios need.
func (p *atomParser) term() (decide.Term, error) {
	t, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		switch {
		case p.peek("+"):
			p.pos++
			rhs, err := p.primary()
			if err != nil {
				return nil, err
			}
			t = p.b.Add(t, rhs)
		case p.peek("-"):
			p.pos++
			rhs, err := p.primary()
			if err != nil {
				return nil, err
			}
			t = p.b.Sub(t, rhs)
		default:
			return t, nil
		}
	}
}

func (p *atomParser) primary() (decide.Term, error) {
	p.skipSpace()
	if p.pos >= len(p.s) {
		return nil, fmt.Errorf("unexpected end of input")
	}
	if p.s[p.pos] == '-' {
		p.pos++
		inner, err := p.primary()
		if err != nil {
			return nil, err
		}
		return p.b.Neg(inner), nil
	}
	if p.s[p.pos] == '(' {
		p.pos++
		t, err := p.term()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return t, nil
	}
	if isDigit(rune(p.s[p.pos])) {
		return p.integer()
	}
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.peek("(") {
		p.pos++
		args, err := p.termList()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return applyNamed(p.b, name, args)
	}
	return p.b.Var(name), nil
}

// applyNamed dispatches a parsed "name(args...)" to the builtin
// constructors the CLI grammar recognizes (select/store for arrays,
// pair/proj for tuples), falling back to an uninterpreted application
// for every other name — exactly the split spec.md §3 draws between
// the closed interpreted-symbol family and the uninterpreted escape
// hatch.
func applyNamed(b *decide.Builder, name string, args []decide.Term) (decide.Term, error) {
	switch name {
	case "select":
		if len(args) != 2 {
			return nil, fmt.Errorf("select takes 2 arguments, got %d", len(args))
		}
		return b.Select(args[0], args[1]), nil
	case "store":
		if len(args) != 3 {
			return nil, fmt.Errorf("store takes 3 arguments, got %d", len(args))
		}
		return b.Store(args[0], args[1], args[2]), nil
	case "pair":
		if len(args) < 2 {
			return nil, fmt.Errorf("pair takes at least 2 arguments, got %d", len(args))
		}
		return b.Tuple(args...), nil
	case "proj":
		if len(args) != 2 {
			return nil, fmt.Errorf("proj takes 2 arguments, got %d", len(args))
		}
		idx, ok := constIndex(args[1])
		if !ok {
			return nil, fmt.Errorf("proj's second argument must be an integer literal")
		}
		return b.Proj(args[0], idx), nil
	default:
		return b.Uninterpreted(name, args...), nil
	}
}

// constIndex recovers the integer literal parsed as args[1] for proj;
// the parser always hands an integer() result through b.ConstInt, so
// this only needs to recognize that shape (a SymConst application
// whose rational payload is integral).
func constIndex(t decide.Term) (int64, bool) {
	app, ok := t.(*decide.Application)
	if !ok || app.Symbol != decide.SymConst {
		return 0, false
	}
	n, err := strconv.ParseInt(app.Name, 10, 64)
	if err != nil {
		r, ok := new(big.Rat).SetString(app.Name)
		if !ok || !r.IsInt() {
			return 0, false
		}
		return r.Num().Int64(), true
	}
	return n, true
}

func (p *atomParser) termList() ([]decide.Term, error) {
	var out []decide.Term
	p.skipSpace()
	if p.peek(")") {
		return out, nil
	}
	for {
		t, err := p.term()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
		p.skipSpace()
		if p.peek(",") {
			p.pos++
			continue
		}
		return out, nil
	}
}

func (p *atomParser) integer() (decide.Term, error) {
	start := p.pos
	for p.pos < len(p.s) && isDigit(rune(p.s[p.pos])) {
		p.pos++
	}
	n, err := strconv.ParseInt(p.s[start:p.pos], 10, 64)
	if err != nil {
		return nil, err
	}
	return p.b.ConstInt(n), nil
}

func (p *atomParser) ident() (string, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.s) && (unicode.IsLetter(rune(p.s[p.pos])) || unicode.IsDigit(rune(p.s[p.pos])) || p.s[p.pos] == '_') {
		p.pos++
	}
	if start == p.pos {
		return "", fmt.Errorf("expected identifier at position %d", start)
	}
	return p.s[start:p.pos], nil
}

func (p *atomParser) relop() (string, error) {
	p.skipSpace()
	for _, op := range []string{"!=", ">=", "<=", "=", ">", "<"} {
		if p.peek(op) {
			p.pos += len(op)
			return op, nil
		}
	}
	return "", fmt.Errorf("expected a relational operator at position %d", p.pos)
}

func (p *atomParser) expectLiteralZero() error {
	p.skipSpace()
	if !p.peek("0") {
		return fmt.Errorf("sign atoms must compare against the literal 0")
	}
	p.pos++
	return p.expectEOF()
}

func (p *atomParser) expect(tok string) error {
	p.skipSpace()
	if !p.peek(tok) {
		return fmt.Errorf("expected %q at position %d", tok, p.pos)
	}
	p.pos += len(tok)
	return nil
}

func (p *atomParser) expectEOF() error {
	p.skipSpace()
	if p.pos != len(p.s) {
		return fmt.Errorf("unexpected trailing input %q", p.s[p.pos:])
	}
	return nil
}

func (p *atomParser) peek(tok string) bool {
	return strings.HasPrefix(p.s[p.pos:], tok)
}

func (p *atomParser) skipSpace() {
	for p.pos < len(p.s) && p.s[p.pos] == ' ' {
		p.pos++
	}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
