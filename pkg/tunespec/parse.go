package tunespec

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/samcharles93/kerntune/internal/space"
)

// ParseConstraint turns a constraint expression string into a space
// constraint. The grammar is a left-to-right operand chain on each side
// of a single comparator:
//
//	constraint = chain ("==" | "%%") chain
//	chain      = operand { ("*" | "/") operand }
//	operand    = parameter name | integer literal
//
// "A == B*C" requires equality; "A %% B" requires A to be an exact
// multiple of B.
func ParseConstraint(input string) (space.Constraint, error) {
	tokens, err := tokenize(input)
	if err != nil {
		return space.Constraint{}, err
	}
	p := &constraintParser{input: input, tokens: tokens}
	return p.parse()
}

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokInt
	tokMul
	tokDiv
	tokEq
	tokMultipleOf
)

type token struct {
	kind tokenKind
	text string
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(input) {
		c := rune(input[i])
		switch {
		case unicode.IsSpace(c):
			i++
		case c == '*':
			tokens = append(tokens, token{kind: tokMul, text: "*"})
			i++
		case c == '/':
			tokens = append(tokens, token{kind: tokDiv, text: "/"})
			i++
		case c == '=':
			if !strings.HasPrefix(input[i:], "==") {
				return nil, fmt.Errorf("%w: %q: single '=' (use '==')", ErrBadConstraint, input)
			}
			tokens = append(tokens, token{kind: tokEq, text: "=="})
			i += 2
		case c == '%':
			if !strings.HasPrefix(input[i:], "%%") {
				return nil, fmt.Errorf("%w: %q: single '%%' (use '%%%%')", ErrBadConstraint, input)
			}
			tokens = append(tokens, token{kind: tokMultipleOf, text: "%%"})
			i += 2
		case unicode.IsDigit(c):
			j := i
			for j < len(input) && unicode.IsDigit(rune(input[j])) {
				j++
			}
			tokens = append(tokens, token{kind: tokInt, text: input[i:j]})
			i = j
		case unicode.IsLetter(c) || c == '_':
			j := i
			for j < len(input) && (unicode.IsLetter(rune(input[j])) || unicode.IsDigit(rune(input[j])) || input[j] == '_') {
				j++
			}
			tokens = append(tokens, token{kind: tokIdent, text: input[i:j]})
			i = j
		default:
			return nil, fmt.Errorf("%w: %q: unexpected character %q", ErrBadConstraint, input, c)
		}
	}
	return tokens, nil
}

type constraintParser struct {
	input  string
	tokens []token
	pos    int
}

func (p *constraintParser) parse() (space.Constraint, error) {
	lhs, err := p.chain()
	if err != nil {
		return space.Constraint{}, err
	}
	cmp, ok := p.next()
	if !ok || (cmp.kind != tokEq && cmp.kind != tokMultipleOf) {
		return space.Constraint{}, fmt.Errorf("%w: %q: expected '==' or '%%%%'", ErrBadConstraint, p.input)
	}
	rhs, err := p.chain()
	if err != nil {
		return space.Constraint{}, err
	}
	if p.pos != len(p.tokens) {
		return space.Constraint{}, fmt.Errorf("%w: %q: trailing tokens after comparison", ErrBadConstraint, p.input)
	}
	if cmp.kind == tokEq {
		return space.Eq(lhs, rhs), nil
	}
	return space.MultipleOf(lhs, rhs), nil
}

// chain parses operand {("*"|"/") operand} left-to-right.
func (p *constraintParser) chain() (space.Expr, error) {
	expr, err := p.operand()
	if err != nil {
		return space.Expr{}, err
	}
	for {
		op, ok := p.peek()
		if !ok || (op.kind != tokMul && op.kind != tokDiv) {
			return expr, nil
		}
		p.pos++
		rhs, err := p.operand()
		if err != nil {
			return space.Expr{}, err
		}
		if op.kind == tokMul {
			expr = expr.Mul(rhs)
		} else {
			expr = expr.Div(rhs)
		}
	}
}

func (p *constraintParser) operand() (space.Expr, error) {
	tok, ok := p.next()
	if !ok {
		return space.Expr{}, fmt.Errorf("%w: %q: expected operand", ErrBadConstraint, p.input)
	}
	switch tok.kind {
	case tokIdent:
		return space.Param(tok.text), nil
	case tokInt:
		v, err := strconv.ParseInt(tok.text, 10, 64)
		if err != nil {
			return space.Expr{}, fmt.Errorf("%w: %q: %v", ErrBadConstraint, p.input, err)
		}
		return space.Value(v), nil
	default:
		return space.Expr{}, fmt.Errorf("%w: %q: unexpected %q", ErrBadConstraint, p.input, tok.text)
	}
}

func (p *constraintParser) next() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	tok := p.tokens[p.pos]
	p.pos++
	return tok, true
}

func (p *constraintParser) peek() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.pos], true
}
