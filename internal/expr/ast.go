package expr

import (
	"strconv"
	"strings"
)

// Expr is a sealed interface over the expression node variants.
// Only Var, Val, Unary and Binary implement it.
type Expr interface {
	exprNode() // Sealed - only these types implement it
}

// Var references a named free variable. Its value is supplied at
// evaluation time through the binding list.
type Var struct {
	Name string
}

func (Var) exprNode() {}

// Val is a numeric literal.
type Val struct {
	Number float64
}

func (Val) exprNode() {}

// Unary applies a prefix operator to its operand.
type Unary struct {
	Op      UnaryOp
	Operand Expr
}

func (Unary) exprNode() {}

// Binary applies an infix operator to its operands.
type Binary struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func (Binary) exprNode() {}

// UnaryOp identifies a prefix operator.
type UnaryOp int

const (
	// OpPos is unary plus. It evaluates to its operand unchanged.
	OpPos UnaryOp = iota + 1
	// OpNeg is unary minus.
	OpNeg
)

// String returns the operator's source form.
func (op UnaryOp) String() string {
	switch op {
	case OpPos:
		return "+"
	case OpNeg:
		return "-"
	}
	return "?"
}

// BinaryOp identifies an infix operator.
type BinaryOp int

const (
	// OpAdd is addition.
	OpAdd BinaryOp = iota + 1
	// OpSub is subtraction.
	OpSub
	// OpMul is multiplication.
	OpMul
	// OpDiv is division. Division by zero follows IEEE-754.
	OpDiv
)

// String returns the operator's source form.
func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	}
	return "?"
}

// precedence returns the binding tier: multiplicative operators bind
// tighter than additive ones.
func (op BinaryOp) precedence() int {
	switch op {
	case OpMul, OpDiv:
		return 2
	default:
		return 1
	}
}

// Format renders an expression as a deterministic, fully parenthesized
// string. Two structurally equal trees always format identically, which
// makes the output suitable for golden files.
func Format(e Expr) string {
	var b strings.Builder
	formatInto(&b, e)
	return b.String()
}

func formatInto(b *strings.Builder, e Expr) {
	switch n := e.(type) {
	case Var:
		b.WriteString(n.Name)
	case Val:
		b.WriteString(strconv.FormatFloat(n.Number, 'g', -1, 64))
	case Unary:
		b.WriteByte('(')
		b.WriteString(n.Op.String())
		formatInto(b, n.Operand)
		b.WriteByte(')')
	case Binary:
		b.WriteByte('(')
		formatInto(b, n.Left)
		b.WriteByte(' ')
		b.WriteString(n.Op.String())
		b.WriteByte(' ')
		formatInto(b, n.Right)
		b.WriteByte(')')
	}
}

// Vars returns the expression's free variable names in first-occurrence
// order, deduplicated. The traversal is pre-order: left operand before
// right for Binary, operand before nothing else for Unary. A name used
// twice occupies a single entry; both occurrences read the same bound
// value.
func Vars(e Expr) []string {
	var names []string
	seen := make(map[string]bool)
	collectVars(e, seen, &names)
	return names
}

func collectVars(e Expr, seen map[string]bool, names *[]string) {
	switch n := e.(type) {
	case Var:
		if !seen[n.Name] {
			seen[n.Name] = true
			*names = append(*names, n.Name)
		}
	case Unary:
		collectVars(n.Operand, seen, names)
	case Binary:
		collectVars(n.Left, seen, names)
		collectVars(n.Right, seen, names)
	}
}
