package space

import (
	"fmt"
	"strings"
)

type exprOp int

const (
	opValue exprOp = iota
	opParam
	opMul
	opDiv
)

// Expr is a small arithmetic expression over parameter values: a literal,
// a parameter reference, or a left-to-right chain of multiplications and
// divisions. Expressions are immutable; the combinators return new nodes.
type Expr struct {
	op    exprOp
	value int64
	param string
	lhs   *Expr
	rhs   *Expr
}

// Param references the value of a named parameter.
func Param(name string) Expr {
	return Expr{op: opParam, param: name}
}

// Value is a literal operand.
func Value(v int64) Expr {
	return Expr{op: opValue, value: v}
}

// Mul returns e multiplied by rhs.
func (e Expr) Mul(rhs Expr) Expr {
	l, r := e, rhs
	return Expr{op: opMul, lhs: &l, rhs: &r}
}

// Div returns e divided by rhs. Division is exact integer division: a zero
// divisor or a non-zero remainder makes the enclosing constraint fail.
func (e Expr) Div(rhs Expr) Expr {
	l, r := e, rhs
	return Expr{op: opDiv, lhs: &l, rhs: &r}
}

// eval computes the expression against cfg. ok is false when a referenced
// parameter is missing or a division is undefined or inexact.
func (e Expr) eval(cfg Configuration) (int64, bool) {
	switch e.op {
	case opValue:
		return e.value, true
	case opParam:
		return cfg.Value(e.param)
	case opMul:
		l, lok := e.lhs.eval(cfg)
		r, rok := e.rhs.eval(cfg)
		if !lok || !rok {
			return 0, false
		}
		return l * r, true
	case opDiv:
		l, lok := e.lhs.eval(cfg)
		r, rok := e.rhs.eval(cfg)
		if !lok || !rok || r == 0 || l%r != 0 {
			return 0, false
		}
		return l / r, true
	}
	return 0, false
}

func (e Expr) visitParams(fn func(string)) {
	switch e.op {
	case opParam:
		fn(e.param)
	case opMul, opDiv:
		e.lhs.visitParams(fn)
		e.rhs.visitParams(fn)
	}
}

func (e Expr) String() string {
	switch e.op {
	case opValue:
		return fmt.Sprintf("%d", e.value)
	case opParam:
		return e.param
	case opMul:
		return e.lhs.String() + "*" + e.rhs.String()
	case opDiv:
		return e.lhs.String() + "/" + e.rhs.String()
	}
	return "?"
}

type cmpOp int

const (
	cmpEq cmpOp = iota
	cmpMultipleOf
)

// Constraint is a predicate over parameter values: two expression chains
// compared with equality or divisibility. Immutable once built.
type Constraint struct {
	cmp cmpOp
	lhs Expr
	rhs Expr
}

// Eq requires lhs == rhs.
func Eq(lhs, rhs Expr) Constraint {
	return Constraint{cmp: cmpEq, lhs: lhs, rhs: rhs}
}

// MultipleOf requires lhs to be an exact multiple of rhs.
func MultipleOf(lhs, rhs Expr) Constraint {
	return Constraint{cmp: cmpMultipleOf, lhs: lhs, rhs: rhs}
}

// Holds evaluates the constraint against a concrete assignment. Undefined
// arithmetic (missing parameter, zero divisor, inexact division) makes the
// constraint fail rather than error: such a candidate is simply invalid.
func (c Constraint) Holds(cfg Configuration) bool {
	l, lok := c.lhs.eval(cfg)
	r, rok := c.rhs.eval(cfg)
	if !lok || !rok {
		return false
	}
	switch c.cmp {
	case cmpEq:
		return l == r
	case cmpMultipleOf:
		return r != 0 && l%r == 0
	}
	return false
}

// Params returns the distinct parameter names the constraint references.
func (c Constraint) Params() []string {
	seen := make(map[string]struct{})
	var names []string
	visit := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	c.lhs.visitParams(visit)
	c.rhs.visitParams(visit)
	return names
}

func (c Constraint) String() string {
	var b strings.Builder
	b.WriteString(c.lhs.String())
	switch c.cmp {
	case cmpEq:
		b.WriteString(" == ")
	case cmpMultipleOf:
		b.WriteString(" %% ")
	}
	b.WriteString(c.rhs.String())
	return b.String()
}
