// Package parser implements the recursive descent parser for the
// teaching grammar. It produces a typed AST plus, for reporting, a
// display parse tree and a BNF derivation trace.
package parser

import (
	"fmt"
	"strconv"

	"github.com/Navindu-Ashen/PLCD-grammar-analyzer/internal/lexer"
)

// SyntaxError reports the first grammar violation found. It either
// carries the offending token or marks premature end of input.
type SyntaxError struct {
	Offset    int
	TokenType string
	Lexeme    string
	AtEOF     bool
	Reason    string // overrides the default message when set
}

func (e *SyntaxError) Error() string {
	if e.Reason != "" {
		return "Syntax Error: " + e.Reason
	}
	if e.AtEOF {
		return "Syntax Error: Unexpected end of input"
	}
	return fmt.Sprintf("Syntax Error: Unexpected token %s ('%s') at position %d",
		e.TokenType, e.Lexeme, e.Offset)
}

// Parser is the recursive descent parser. A fresh instance is built
// per request; the grammar itself is the only shared (immutable) state.
type Parser struct {
	tokens []lexer.Token
	pos    int
}

// New creates a parser over an already-tokenized statement.
func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse parses a complete single statement. All tokens must be
// consumed; trailing input is a syntax error.
func Parse(tokens []lexer.Token) (Statement, error) {
	p := New(tokens)
	if len(tokens) == 0 {
		return nil, &SyntaxError{AtEOF: true, Reason: "Empty expression"}
	}
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if !p.atEOF() {
		return nil, p.unexpected()
	}
	return stmt, nil
}

func (p *Parser) atEOF() bool { return p.pos >= len(p.tokens) }

// current returns the token under examination, or an EOF sentinel.
func (p *Parser) current() lexer.Token {
	if p.atEOF() {
		return lexer.Token{Type: lexer.TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() lexer.Token {
	tok := p.current()
	p.pos++
	return tok
}

func (p *Parser) currentIs(tokenType lexer.TokenType) bool {
	return p.current().Type == tokenType
}

// expect consumes a token of the given type or fails.
func (p *Parser) expect(tokenType lexer.TokenType) (lexer.Token, error) {
	if !p.currentIs(tokenType) {
		return lexer.Token{}, p.unexpected()
	}
	return p.advance(), nil
}

// unexpected builds the syntax error for the current position.
func (p *Parser) unexpected() *SyntaxError {
	if p.atEOF() {
		return &SyntaxError{AtEOF: true}
	}
	tok := p.current()
	return &SyntaxError{
		Offset:    tok.Offset,
		TokenType: tok.Type.String(),
		Lexeme:    tok.Literal,
	}
}

// parseStatement dispatches on the first token; the grammar is LL(1).
func (p *Parser) parseStatement() (Statement, error) {
	switch p.current().Type {
	case lexer.TokenInt, lexer.TokenDouble, lexer.TokenStringType, lexer.TokenBoolType:
		return p.parseDeclaration()
	case lexer.TokenIf:
		return p.parseIfStatement()
	case lexer.TokenWhile:
		return p.parseWhileStatement()
	default:
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &ExpressionStatement{Expr: expr}, nil
	}
}

// parseDeclaration parses `type IDENT ('=' expression)?`.
func (p *Parser) parseDeclaration() (Statement, error) {
	typeTok := p.advance()

	nameTok, err := p.expect(lexer.TokenIdentifier)
	if err != nil {
		return nil, err
	}

	decl := &Declaration{DeclType: typeTok.Literal, Name: nameTok.Literal}
	if p.currentIs(lexer.TokenAssign) {
		p.advance()
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		decl.Value = value
	}
	return decl, nil
}

// parseExpression parses `term (('+' | '-') term)*`, left-associative.
func (p *Parser) parseExpression() (Expression, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.currentIs(lexer.TokenPlus) || p.currentIs(lexer.TokenMinus) {
		op := p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpression{Operator: op.Literal, Left: left, Right: right}
	}
	return left, nil
}

// parseTerm parses `factor (('*' | '/') factor)*`, binding tighter than
// addition.
func (p *Parser) parseTerm() (Expression, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.currentIs(lexer.TokenMultiply) || p.currentIs(lexer.TokenDivide) {
		op := p.advance()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpression{Operator: op.Literal, Left: left, Right: right}
	}
	return left, nil
}

// parseFactor parses an identifier, a literal, or a parenthesized
// expression.
func (p *Parser) parseFactor() (Expression, error) {
	switch tok := p.current(); tok.Type {
	case lexer.TokenIdentifier:
		p.advance()
		return &Identifier{Name: tok.Literal}, nil
	case lexer.TokenNumber:
		p.advance()
		value, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			return nil, p.syntaxErrorAt(tok)
		}
		return &IntegerLiteral{Value: value, Literal: tok.Literal}, nil
	case lexer.TokenDecimal:
		p.advance()
		value, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, p.syntaxErrorAt(tok)
		}
		return &DecimalLiteral{Value: value, Literal: tok.Literal}, nil
	case lexer.TokenString:
		p.advance()
		return &StringLiteral{Value: tok.Literal}, nil
	case lexer.TokenBool:
		p.advance()
		return &BooleanLiteral{Value: tok.Literal == "true"}, nil
	case lexer.TokenLParen:
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenRParen); err != nil {
			return nil, err
		}
		return &GroupedExpression{Expr: inner}, nil
	default:
		return nil, p.unexpected()
	}
}

// parseIfStatement parses `if ( condition )`.
func (p *Parser) parseIfStatement() (Statement, error) {
	p.advance() // if
	cond, err := p.parseParenCondition()
	if err != nil {
		return nil, err
	}
	return &IfStatement{Cond: cond}, nil
}

// parseWhileStatement parses `while ( condition )`.
func (p *Parser) parseWhileStatement() (Statement, error) {
	p.advance() // while
	cond, err := p.parseParenCondition()
	if err != nil {
		return nil, err
	}
	return &WhileStatement{Cond: cond}, nil
}

func (p *Parser) parseParenCondition() (*Condition, error) {
	if _, err := p.expect(lexer.TokenLParen); err != nil {
		return nil, err
	}
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenRParen); err != nil {
		return nil, err
	}
	return cond, nil
}

// parseCondition parses `expression relop expression`.
func (p *Parser) parseCondition() (*Condition, error) {
	left, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	switch p.current().Type {
	case lexer.TokenGt, lexer.TokenLt, lexer.TokenGe, lexer.TokenLe, lexer.TokenEq, lexer.TokenNe:
	default:
		return nil, p.unexpected()
	}
	op := p.advance()
	right, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &Condition{Operator: op.Literal, Left: left, Right: right}, nil
}

func (p *Parser) syntaxErrorAt(tok lexer.Token) *SyntaxError {
	return &SyntaxError{
		Offset:    tok.Offset,
		TokenType: tok.Type.String(),
		Lexeme:    tok.Literal,
	}
}
