// Package parser implements a recursive-descent parser for riascript
// module source, as scanned by package lexer. Rather than a
// Pratt/precedence-climbing expression grammar, expression parsing here
// is a single flat left-to-right fold: operators bind one step at a
// time with no precedence, so "2+3*4" parses as "(2+3)*4", not
// "2+(3*4)". See DESIGN.md's Open Questions.
package parser

import (
	"fmt"

	"riascript/ast"
	"riascript/token"
)

var unaryTokenTypes = map[token.TokenType]bool{
	token.SUB:  true,
	token.BNOT: true,
	token.BANG: true,
}

type Parser struct {
	tokens   []token.Token
	position int
}

func Make(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// NOTE: the parser's position always refers to the next unconsumed token;
// previous() looks one token behind it.

func (p *Parser) peek() token.Token {
	return p.tokens[p.position]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.position-1]
}

func (p *Parser) advance() token.Token {
	if !p.isFinished() {
		p.position++
	}
	return p.previous()
}

func (p *Parser) isFinished() bool {
	return p.peek().TokenType == token.EOF
}

func (p *Parser) checkType(tt token.TokenType) bool {
	return !p.isFinished() && p.peek().TokenType == tt
}

func (p *Parser) isMatch(types ...token.TokenType) bool {
	for _, tt := range types {
		if p.checkType(tt) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(tt token.TokenType, errMsg string) (token.Token, error) {
	if p.checkType(tt) {
		return p.advance(), nil
	}
	return token.Token{}, CreateSyntaxError(p.peek().Pos, errMsg)
}

// Parse parses an entire module: zero or more global declarations
// followed by one or more named entry points (spec §4.2 "Module form").
func (p *Parser) Parse() (*ast.Module, []error) {
	mod := &ast.Module{}
	var errs []error

	for !p.isFinished() {
		decl, err := p.topLevelDecl()
		if err != nil {
			errs = append(errs, err)
			p.skipToNextTopLevel()
			continue
		}
		switch d := decl.(type) {
		case ast.GlobalDecl:
			mod.Globals = append(mod.Globals, d)
		case ast.FuncDecl:
			mod.Funcs = append(mod.Funcs, d)
		}
	}
	if len(mod.Funcs) > 255 {
		errs = append(errs, CreateSyntaxError(0, "too many entry points (max 255)"))
	}
	return mod, errs
}

// skipToNextTopLevel discards tokens until it finds a plausible start of
// the next top-level declaration, so one malformed declaration does not
// prevent reporting errors in the rest of the module.
func (p *Parser) skipToNextTopLevel() {
	for !p.isFinished() {
		if p.checkType(token.RCUR) {
			p.advance()
			return
		}
		p.advance()
	}
}

func (p *Parser) topLevelDecl() (any, error) {
	if p.checkType(token.GLOBAL) {
		return p.globalDecl()
	}
	return p.funcDecl()
}

// globalDecl parses "global($name[:type]);".
func (p *Parser) globalDecl() (ast.GlobalDecl, error) {
	p.advance() // 'global'
	if _, err := p.consume(token.LPA, "expected '(' after 'global'"); err != nil {
		return ast.GlobalDecl{}, err
	}
	name, err := p.consume(token.DOLLAR_ID, "expected $name in global declaration")
	if err != nil {
		return ast.GlobalDecl{}, err
	}

	var typ string
	if p.isMatch(token.COLON) {
		switch {
		case p.isMatch(token.TYPE_INT):
			typ = "int"
		case p.isMatch(token.TYPE_STRING):
			typ = "string"
		case p.isMatch(token.TYPE_BOOL):
			typ = "boolean"
		default:
			return ast.GlobalDecl{}, CreateSyntaxError(p.peek().Pos, "expected int, string, or boolean after ':'")
		}
	}
	if _, err := p.consume(token.RPA, "expected ')' to close global declaration"); err != nil {
		return ast.GlobalDecl{}, err
	}
	if _, err := p.consume(token.SEMICOLON, "expected ';' after global declaration"); err != nil {
		return ast.GlobalDecl{}, err
	}
	return ast.GlobalDecl{Name: name, Type: typ}, nil
}

// funcDecl parses "name(arity){ body }".
func (p *Parser) funcDecl() (ast.FuncDecl, error) {
	name, err := p.consume(token.IDENTIFIER, "expected entry point name")
	if err != nil {
		return ast.FuncDecl{}, err
	}
	if _, err := p.consume(token.LPA, "expected '(' after entry point name"); err != nil {
		return ast.FuncDecl{}, err
	}
	arityTok, err := p.consume(token.INT, "expected arity (decimal literal)")
	if err != nil {
		return ast.FuncDecl{}, err
	}
	arity := int(arityTok.Literal.(uint64))
	if arity > 255 {
		return ast.FuncDecl{}, CreateSyntaxError(arityTok.Pos, "arity exceeds 255")
	}
	if _, err := p.consume(token.RPA, "expected ')' after arity"); err != nil {
		return ast.FuncDecl{}, err
	}
	if _, err := p.consume(token.LCUR, "expected '{' to start entry point body"); err != nil {
		return ast.FuncDecl{}, err
	}
	body, err := p.block()
	if err != nil {
		return ast.FuncDecl{}, err
	}
	return ast.FuncDecl{Name: name, Arity: arity, Body: body}, nil
}

// block parses statements until a closing '}', which it consumes.
func (p *Parser) block() ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for !p.checkType(token.RCUR) && !p.isFinished() {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.consume(token.RCUR, "expected '}' to close block"); err != nil {
		return nil, err
	}
	return stmts, nil
}

// statement parses exactly one of the forms listed in spec §4.2
// "Statements".
func (p *Parser) statement() (ast.Stmt, error) {
	switch {
	case p.checkType(token.DOLLAR_ID):
		return p.assignStatement()
	case p.isMatch(token.RETURN):
		return p.returnStatement()
	case p.isMatch(token.IF):
		return p.ifStatement()
	case p.isMatch(token.WHILE):
		return p.whileStatement()
	case p.checkType(token.LCUR):
		p.advance()
		stmts, err := p.block()
		if err != nil {
			return nil, err
		}
		return ast.BlockStmt{Statements: stmts}, nil
	case p.checkType(token.IDENTIFIER):
		return p.builtinCallStatement()
	default:
		return nil, CreateSyntaxError(p.peek().Pos, "expected a statement")
	}
}

func (p *Parser) assignStatement() (ast.Stmt, error) {
	name := p.advance() // $ident
	if _, err := p.consume(token.ASSIGN, "expected '=' in assignment"); err != nil {
		return nil, err
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "expected ';' after assignment"); err != nil {
		return nil, err
	}
	return ast.AssignStmt{Name: name, Value: value}, nil
}

func (p *Parser) returnStatement() (ast.Stmt, error) {
	if _, err := p.consume(token.LPA, "expected '(' after 'return'"); err != nil {
		return nil, err
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RPA, "expected ')' to close return"); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "expected ';' after return"); err != nil {
		return nil, err
	}
	return ast.ReturnStmt{Value: value}, nil
}

func (p *Parser) ifStatement() (ast.Stmt, error) {
	if _, err := p.consume(token.LPA, "expected '(' after 'if'"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RPA, "expected ')' after if condition"); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LCUR, "expected '{' to start if-body"); err != nil {
		return nil, err
	}
	thenStmts, err := p.block()
	if err != nil {
		return nil, err
	}
	stmt := ast.IfStmt{Condition: cond, Then: ast.BlockStmt{Statements: thenStmts}}

	if p.isMatch(token.ELSE) {
		if _, err := p.consume(token.LCUR, "expected '{' to start else-body"); err != nil {
			return nil, err
		}
		elseStmts, err := p.block()
		if err != nil {
			return nil, err
		}
		stmt.Else = ast.BlockStmt{Statements: elseStmts}
	}
	return stmt, nil
}

func (p *Parser) whileStatement() (ast.Stmt, error) {
	if _, err := p.consume(token.LPA, "expected '(' after 'while'"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RPA, "expected ')' after while condition"); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LCUR, "expected '{' to start while-body"); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return ast.WhileStmt{Condition: cond, Body: ast.BlockStmt{Statements: body}}, nil
}

// builtinCallStatement parses "builtin(args);" where the return value is
// discarded.
func (p *Parser) builtinCallStatement() (ast.Stmt, error) {
	call, err := p.call()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "expected ';' after builtin call"); err != nil {
		return nil, err
	}
	return ast.ExprStmt{Expression: call}, nil
}

// expression parses a flat left-to-right fold of operands and operators
// with no precedence (spec §4.2 "Expressions").
func (p *Parser) expression() (ast.Expression, error) {
	left, err := p.unaryOperand()
	if err != nil {
		return nil, err
	}
	for p.isBinaryOperator(p.peek().TokenType) {
		op := p.advance()
		right, err := p.unaryOperand()
		if err != nil {
			return nil, err
		}
		left = ast.Binary{Left: left, Operator: op, Right: right}
	}
	return left, nil
}

func (p *Parser) isBinaryOperator(tt token.TokenType) bool {
	switch tt {
	case token.ADD, token.SUB, token.MULT, token.DIV, token.REM,
		token.BAND, token.BOR, token.XOR,
		token.LESS, token.LESS_EQUAL, token.LARGER, token.LARGER_EQUAL,
		token.EQUAL_EQUAL, token.NOT_EQUAL, token.AND, token.OR:
		return true
	}
	return false
}

func (p *Parser) unaryOperand() (ast.Expression, error) {
	if unaryTokenTypes[p.peek().TokenType] {
		op := p.advance()
		operand, err := p.operand()
		if err != nil {
			return nil, err
		}
		return ast.Unary{Operator: op, Right: operand}, nil
	}
	return p.operand()
}

// operand parses: (expr) | $ident | @decimal | "string" | int literal |
// builtin(args).
func (p *Parser) operand() (ast.Expression, error) {
	switch {
	case p.isMatch(token.LPA):
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RPA, "expected ')' to close grouped expression"); err != nil {
			return nil, err
		}
		return ast.Grouping{Expression: expr}, nil

	case p.checkType(token.DOLLAR_ID):
		return ast.Variable{Name: p.advance()}, nil

	case p.checkType(token.AT_PARAM):
		return ast.Param{Index: p.advance()}, nil

	case p.checkType(token.STRING):
		return ast.Literal{Value: p.advance().Literal}, nil

	case p.checkType(token.INT):
		return ast.Literal{Value: p.advance().Literal}, nil

	case p.isMatch(token.TRUE):
		return ast.Literal{Value: true}, nil

	case p.isMatch(token.FALSE):
		return ast.Literal{Value: false}, nil

	case p.checkType(token.IDENTIFIER):
		return p.call()
	}
	return nil, CreateSyntaxError(p.peek().Pos, "expected an operand")
}

// call parses "name(arg, arg, ...)".
func (p *Parser) call() (ast.Call, error) {
	name := p.advance()
	if _, err := p.consume(token.LPA, fmt.Sprintf("expected '(' after '%s'", name.Lexeme)); err != nil {
		return ast.Call{}, err
	}
	var args []ast.Expression
	if !p.checkType(token.RPA) {
		for {
			arg, err := p.expression()
			if err != nil {
				return ast.Call{}, err
			}
			args = append(args, arg)
			if !p.isMatch(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(token.RPA, "expected ')' to close call arguments"); err != nil {
		return ast.Call{}, err
	}
	return ast.Call{Name: name, Args: args}, nil
}
