package expr

// Eval computes the numeric value of e given the current bindings.
//
// names and values are positionally paired: values[i] is the current
// value of the variable names[i]. The lookup for a Var always succeeds
// when names was derived from e via Vars; that is a structural invariant
// of the caller, not a runtime check. Arithmetic is IEEE-754 float64
// throughout, so division by zero yields an infinity or NaN, never an
// error.
//
// Eval caches nothing: values may change between calls, so every call
// walks the tree.
func Eval(e Expr, names []string, values []float64) float64 {
	switch n := e.(type) {
	case Val:
		return n.Number
	case Var:
		for i, name := range names {
			if name == n.Name {
				return values[i]
			}
		}
		return 0
	case Unary:
		v := Eval(n.Operand, names, values)
		if n.Op == OpNeg {
			return -v
		}
		return v
	case Binary:
		l := Eval(n.Left, names, values)
		r := Eval(n.Right, names, values)
		switch n.Op {
		case OpAdd:
			return l + r
		case OpSub:
			return l - r
		case OpMul:
			return l * r
		case OpDiv:
			return l / r
		}
	}
	return 0
}
