// Package expr implements the arithmetic expression language used by
// expression nodes: a lexer, a recursive-descent parser, an immutable
// AST, and a pure evaluator.
//
// The language is deliberately tiny. It has 64-bit floating point
// numbers, named variables, unary plus/minus, and the four arithmetic
// operators with the usual two precedence tiers, both left-associative.
// There are no functions, no strings, and no statements; an input is a
// single expression and must be consumed in full.
//
// Key properties:
//   - Parse never mutates anything; a failed parse returns a typed
//     *ParseError and no tree.
//   - Eval has no error path. Variable lookup is positional against a
//     binding list derived from the same tree (see Vars), and arithmetic
//     follows IEEE-754, so division by zero yields an infinity or NaN
//     rather than an error.
//   - Trees are immutable after construction and never shared; every
//     edit produces a wholly new tree.
//
// Package expr imports nothing internal. All other internal packages
// may import it.
package expr
