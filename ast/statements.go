// statements.go contains all the statement AST nodes. A statement node does
// not produce a value.
package ast

import "riascript/token"

// ExprStmt represents a bare builtin-call statement whose return value is
// discarded ("builtin(args);", spec §4.2 "Statements").
type ExprStmt struct {
	Expression Expression
}

func (e ExprStmt) Accept(v StmtVisitor) any { return v.VisitExprStmt(e) }

// AssignStmt represents "$ident = expression;". The local is created on
// first use; its inferred type is the type of the right-hand side at that
// point (spec §4.2).
type AssignStmt struct {
	Name  token.Token
	Value Expression
}

func (a AssignStmt) Accept(v StmtVisitor) any { return v.VisitAssignStmt(a) }

// ReturnStmt represents "return(expression);".
type ReturnStmt struct {
	Value Expression
}

func (r ReturnStmt) Accept(v StmtVisitor) any { return v.VisitReturnStmt(r) }

// IfStmt represents "if (cond) { ... } [else { ... }]".
type IfStmt struct {
	Condition Expression
	Then      Stmt
	Else      Stmt // nil when no else branch is present
}

func (i IfStmt) Accept(v StmtVisitor) any { return v.VisitIfStmt(i) }

// WhileStmt represents "while (cond) { ... }".
type WhileStmt struct {
	Condition Expression
	Body      Stmt
}

func (w WhileStmt) Accept(v StmtVisitor) any { return v.VisitWhileStmt(w) }

// BlockStmt represents a brace-delimited list of statements.
type BlockStmt struct {
	Statements []Stmt
}

func (b BlockStmt) Accept(v StmtVisitor) any { return v.VisitBlockStmt(b) }

// GlobalDecl is a top-level "global($name[:type]);" declaration. It does
// not implement Stmt: globals are declared once per module, outside any
// function body (spec §4.2 "Module form").
type GlobalDecl struct {
	Name token.Token
	Type string // "int", "string", "boolean", or "" when inferred
}

// FuncDecl is a top-level "name(arity){ body }" entry point declaration.
type FuncDecl struct {
	Name  token.Token
	Arity int
	Body  []Stmt
}

// Module is the parsed form of an entire script: its global declarations
// followed by its entry points, in source order.
type Module struct {
	Globals []GlobalDecl
	Funcs   []FuncDecl
}
