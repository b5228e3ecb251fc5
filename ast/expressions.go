// expressions.go contains all the expression AST nodes. An expression node
// always evaluates to a value.
package ast

import "riascript/token"

// Binary represents a binary operation expression (e.g. "a + b"). Per
// spec §4.2, riascript's expression grammar has no operator precedence:
// an expression is parsed as a flat left-to-right fold, so nested Binary
// nodes are always left-associative regardless of which operator was
// used at each step ("2+3*4" parses as "(2+3)*4").
type Binary struct {
	Left     Expression
	Operator token.Token
	Right    Expression
}

func (b Binary) Accept(v ExpressionVisitor) any { return v.VisitBinary(b) }

// Unary represents a prefix unary expression: "-", "~", or "!". Spec §4.2
// only permits these as the prefix of an operand, never as an infix step.
type Unary struct {
	Operator token.Token
	Right    Expression
}

func (u Unary) Accept(v ExpressionVisitor) any { return v.VisitUnary(u) }

// Literal represents a string, integer, or boolean constant.
type Literal struct {
	Value any
}

func (l Literal) Accept(v ExpressionVisitor) any { return v.VisitLiteral(l) }

// Grouping represents a parenthesised expression, "(a + b)".
type Grouping struct {
	Expression Expression
}

func (g Grouping) Accept(v ExpressionVisitor) any { return v.VisitGrouping(g) }

// Variable represents a "$name" reference to a local or global slot.
type Variable struct {
	Name token.Token
}

func (va Variable) Accept(v ExpressionVisitor) any { return v.VisitVariable(va) }

// Param represents an "@N" reference to a caller-supplied parameter.
type Param struct {
	Index token.Token
}

func (p Param) Accept(v ExpressionVisitor) any { return v.VisitParam(p) }

// Call represents a built-in invocation used as an expression,
// "builtin(args)", e.g. "extract_string(...)".
type Call struct {
	Name token.Token
	Args []Expression
}

func (c Call) Accept(v ExpressionVisitor) any { return v.VisitCall(c) }
