// interfaces.go contains all visitor interfaces that any code traversing
// expression and statement AST nodes must implement. It also contains the
// interfaces that all statement and expression AST nodes must implement,
// following the visitor design pattern.
package ast

// ExpressionVisitor is the interface for operating on all Expression AST
// nodes. The compiler is the only implementation in this module, but the
// visitor shape keeps expression emission decoupled from the node types
// themselves.
type ExpressionVisitor interface {
	VisitBinary(binary Binary) any
	VisitUnary(unary Unary) any
	VisitLiteral(literal Literal) any
	VisitGrouping(grouping Grouping) any
	VisitVariable(variable Variable) any
	VisitParam(param Param) any
	VisitCall(call Call) any
}

// StmtVisitor is the interface for operating on all Statement AST nodes.
type StmtVisitor interface {
	VisitExprStmt(stmt ExprStmt) any
	VisitAssignStmt(stmt AssignStmt) any
	VisitReturnStmt(stmt ReturnStmt) any
	VisitIfStmt(stmt IfStmt) any
	VisitWhileStmt(stmt WhileStmt) any
	VisitBlockStmt(stmt BlockStmt) any
}

// Stmt is the base interface for all statement nodes in the AST.
type Stmt interface {
	Accept(v StmtVisitor) any
}

// Expression is the core interface for all expression nodes in the AST.
type Expression interface {
	Accept(v ExpressionVisitor) any
}
