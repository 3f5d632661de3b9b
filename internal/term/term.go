// Package term models the expressions built from a single repeated digit.
//
// A Term is one of three shapes: a literal (the digit written n times), a
// unary factorial, or a binary operation. Value, cost and text are computed
// once when the node is constructed and never change afterwards, so a subterm
// shared by thousands of parents is evaluated exactly once.
package term

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Kind tags the shape of a Term.
type Kind uint8

const (
	KindLiteral Kind = iota
	KindUnary
	KindBinary
)

// Op is the operator of a unary or binary node.
type Op uint8

const (
	OpNone Op = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpPow
	OpFactorial
)

// Symbol returns the printable operator.
func (o Op) Symbol() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpPow:
		return "^"
	case OpFactorial:
		return "!"
	}
	return ""
}

// Term is an immutable expression node.
type Term struct {
	kind  Kind
	op    Op
	left  *Term // operand of a unary node
	right *Term
	val   *big.Int
	cost  int
	text  string
}

// Repdigit returns the literal formed by writing digit n times, e.g.
// Repdigit(7, 3) is 777 with cost 3. It panics unless 0 <= digit <= 9 and n >= 1.
func Repdigit(digit, n int) *Term {
	if digit < 0 || digit > 9 || n < 1 {
		panic("term: invalid repdigit " + strconv.Itoa(digit) + "x" + strconv.Itoa(n))
	}
	s := strings.Repeat(strconv.Itoa(digit), n)
	v, _ := new(big.Int).SetString(s, 10)
	return &Term{kind: KindLiteral, val: v, cost: n, text: s}
}

// Binary combines l and r with op. It reports false when the operation is
// not applicable: division by zero, inexact division, a negative exponent or
// a power whose result would exceed MaxDigits decimal digits.
func Binary(op Op, l, r *Term) (*Term, bool) {
	var v *big.Int
	switch op {
	case OpAdd:
		v = new(big.Int).Add(l.val, r.val)
	case OpSub:
		v = new(big.Int).Sub(l.val, r.val)
	case OpMul:
		v = new(big.Int).Mul(l.val, r.val)
	case OpDiv:
		q, ok := ExactQuo(l.val, r.val)
		if !ok {
			return nil, false
		}
		v = q
	case OpPow:
		if !PowFits(l.val, r.val) {
			return nil, false
		}
		v = new(big.Int).Exp(l.val, r.val, nil)
	default:
		return nil, false
	}
	return &Term{
		kind:  KindBinary,
		op:    op,
		left:  l,
		right: r,
		val:   v,
		cost:  l.cost + r.cost,
		text:  "(" + l.text + op.Symbol() + r.text + ")",
	}, true
}

// Factorial wraps t in a factorial. Only 3 <= t <= MaxFactorial is accepted;
// below 3 the factorial is a fixed point or a cost-free rewrite of 1 and 2.
// The factorial adds no digits, so the cost is the operand's cost.
func Factorial(t *Term) (*Term, bool) {
	if !t.val.IsInt64() {
		return nil, false
	}
	n := t.val.Int64()
	if n < 3 || n > int64(MaxFactorial) {
		return nil, false
	}
	return &Term{
		kind: KindUnary,
		op:   OpFactorial,
		left: t,
		val:  new(big.Int).MulRange(1, n),
		cost: t.cost,
		text: wrap(t) + "!",
	}, true
}

func wrap(t *Term) string {
	if t.kind == KindUnary {
		return "(" + t.text + ")"
	}
	return t.text
}

// ExactQuo returns a/b when b divides a without remainder.
func ExactQuo(a, b *big.Int) (*big.Int, bool) {
	if b.Sign() == 0 {
		return nil, false
	}
	q, m := new(big.Int).QuoRem(a, b, new(big.Int))
	if m.Sign() != 0 {
		return nil, false
	}
	return q, true
}

// PowFits reports whether base^exp is an integer with at most MaxDigits
// decimal digits, estimated as floor(exp*log10|base|)+1. Estimates that
// overflow a float64 count as too large.
func PowFits(base, exp *big.Int) bool {
	if exp.Sign() < 0 {
		return false
	}
	if exp.Sign() == 0 || base.CmpAbs(bigOne) <= 0 {
		return true
	}
	if !exp.IsInt64() {
		return false
	}
	est := math.Floor(float64(exp.Int64())*log10(base)) + 1
	if math.IsInf(est, 0) || math.IsNaN(est) {
		return false
	}
	return est <= MaxDigits
}

var bigOne = big.NewInt(1)

// log10 of |x|, +Inf when x does not fit a float64.
func log10(x *big.Int) float64 {
	f, _ := new(big.Float).SetInt(x).Float64()
	return math.Log10(math.Abs(f))
}

// Value returns the exact value. The result is shared and must not be modified.
func (t *Term) Value() *big.Int { return t.val }

// Cost is the number of digit occurrences used by the term.
func (t *Term) Cost() int { return t.cost }

// Text is the canonical printable form.
func (t *Term) Text() string { return t.text }

func (t *Term) String() string { return t.text }

func (t *Term) Kind() Kind { return t.kind }

func (t *Term) Op() Op { return t.op }

// Left returns the left operand of a binary node or the operand of a unary node.
func (t *Term) Left() *Term { return t.left }

// Right returns the right operand of a binary node.
func (t *Term) Right() *Term { return t.right }

// Less orders terms by cost, then text length, then text. It is the single
// tie-break used everywhere a cheaper representative has to be chosen.
func Less(a, b *Term) bool {
	if a.cost != b.cost {
		return a.cost < b.cost
	}
	if len(a.text) != len(b.text) {
		return len(a.text) < len(b.text)
	}
	return a.text < b.text
}
