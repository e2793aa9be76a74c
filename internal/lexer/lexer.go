// Package lexer implements the lexical analyzer for the pseudo-C
// teaching grammar: keywords, identifiers, operators, delimiters and
// literals over a single line of source text.
package lexer

import (
	"fmt"
	"strconv"
)

// TokenType represents the type of a token.
type TokenType int

// Token types recognized by the analyzer.
const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError

	// Literals
	TokenIdentifier
	TokenNumber
	TokenDecimal
	TokenString
	TokenBool

	// Keywords
	TokenInt
	TokenDouble
	TokenStringType
	TokenBoolType
	TokenIf
	TokenElse
	TokenWhile
	TokenReturn
	TokenVoid

	// Operators
	TokenPlus
	TokenMinus
	TokenMultiply
	TokenDivide
	TokenAssign
	TokenGt
	TokenLt
	TokenGe
	TokenLe
	TokenEq
	TokenNe

	// Delimiters
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenSemicolon
)

// String returns a string representation of the token type.
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(tt))
}

// tokenNames provides string representations for token types.
var tokenNames = map[TokenType]string{
	TokenEOF:   "EOF",
	TokenError: "ERROR",

	TokenIdentifier: "ID",
	TokenNumber:     "NUMBER",
	TokenDecimal:    "DECIMAL",
	TokenString:     "STRING",
	TokenBool:       "BOOL",

	TokenInt:        "INT",
	TokenDouble:     "DOUBLE",
	TokenStringType: "STRING_TYPE",
	TokenBoolType:   "BOOL_TYPE",
	TokenIf:         "IF",
	TokenElse:       "ELSE",
	TokenWhile:      "WHILE",
	TokenReturn:     "RETURN",
	TokenVoid:       "VOID",

	TokenPlus:     "PLUS",
	TokenMinus:    "MINUS",
	TokenMultiply: "MULTIPLY",
	TokenDivide:   "DIVIDE",
	TokenAssign:   "ASSIGN",
	TokenGt:       "GT",
	TokenLt:       "LT",
	TokenGe:       "GE",
	TokenLe:       "LE",
	TokenEq:       "EQ",
	TokenNe:       "NE",

	TokenLParen:    "LPAREN",
	TokenRParen:    "RPAREN",
	TokenLBrace:    "LBRACE",
	TokenRBrace:    "RBRACE",
	TokenSemicolon: "SEMICOLON",
}

// keywords maps reserved words to their token types. true/false are
// boolean literals, not control-flow keywords.
var keywords = map[string]TokenType{
	"int":    TokenInt,
	"double": TokenDouble,
	"string": TokenStringType,
	"bool":   TokenBoolType,
	"if":     TokenIf,
	"else":   TokenElse,
	"while":  TokenWhile,
	"return": TokenReturn,
	"void":   TokenVoid,
	"true":   TokenBool,
	"false":  TokenBool,
}

// Category classifies a token for reporting purposes.
type Category int

// Token categories.
const (
	CategoryOther Category = iota
	CategoryKeyword
	CategoryIdentifier
	CategoryOperator
	CategoryDelimiter
	CategoryLiteral
)

// categoryNames uses the original report labels; the keyword category
// is historically plural.
var categoryNames = map[Category]string{
	CategoryOther:      "Other",
	CategoryKeyword:    "Keywords",
	CategoryIdentifier: "Identifier",
	CategoryOperator:   "Operator",
	CategoryDelimiter:  "Delimiter",
	CategoryLiteral:    "Literal",
}

// String returns the report label for the category.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Other"
}

// tokenCategories is the fixed classification table from token type to
// category.
var tokenCategories = map[TokenType]Category{
	TokenIdentifier: CategoryIdentifier,

	TokenNumber:  CategoryLiteral,
	TokenDecimal: CategoryLiteral,
	TokenString:  CategoryLiteral,
	TokenBool:    CategoryLiteral,

	TokenInt:        CategoryKeyword,
	TokenDouble:     CategoryKeyword,
	TokenStringType: CategoryKeyword,
	TokenBoolType:   CategoryKeyword,
	TokenIf:         CategoryKeyword,
	TokenElse:       CategoryKeyword,
	TokenWhile:      CategoryKeyword,
	TokenReturn:     CategoryKeyword,
	TokenVoid:       CategoryKeyword,

	TokenPlus:     CategoryOperator,
	TokenMinus:    CategoryOperator,
	TokenMultiply: CategoryOperator,
	TokenDivide:   CategoryOperator,
	TokenAssign:   CategoryOperator,
	TokenGt:       CategoryOperator,
	TokenLt:       CategoryOperator,
	TokenGe:       CategoryOperator,
	TokenLe:       CategoryOperator,
	TokenEq:       CategoryOperator,
	TokenNe:       CategoryOperator,

	TokenLParen:    CategoryDelimiter,
	TokenRParen:    CategoryDelimiter,
	TokenLBrace:    CategoryDelimiter,
	TokenRBrace:    CategoryDelimiter,
	TokenSemicolon: CategoryDelimiter,
}

// typeNames maps token types to the names used in the JSON report.
// Keywords, operators and delimiters report their own spelling; literal
// kinds use descriptive names.
var typeNames = map[TokenType]string{
	TokenIdentifier: "identifier",

	TokenNumber:  "integer",
	TokenDecimal: "decimal",
	TokenString:  "string",
	TokenBool:    "boolean",

	TokenInt:        "int",
	TokenDouble:     "double",
	TokenStringType: "string",
	TokenBoolType:   "bool",
	TokenIf:         "if",
	TokenElse:       "else",
	TokenWhile:      "while",
	TokenReturn:     "return",
	TokenVoid:       "void",

	TokenPlus:     "+",
	TokenMinus:    "-",
	TokenMultiply: "*",
	TokenDivide:   "/",
	TokenAssign:   "=",
	TokenGt:       ">",
	TokenLt:       "<",
	TokenGe:       ">=",
	TokenLe:       "<=",
	TokenEq:       "==",
	TokenNe:       "!=",

	TokenLParen:    "(",
	TokenRParen:    ")",
	TokenLBrace:    "{",
	TokenRBrace:    "}",
	TokenSemicolon: ";",
}

// Token represents a lexical token with position information.
type Token struct {
	Type    TokenType
	Literal string

	Line   int // 1-based line number
	Column int // 1-based column number
	Offset int // 0-based byte offset in source
}

// String returns a string representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Literal: %q, Line: %d, Column: %d}",
		t.Type, t.Literal, t.Line, t.Column)
}

// Category returns the classification of the token.
func (t Token) Category() Category {
	if c, ok := tokenCategories[t.Type]; ok {
		return c
	}
	return CategoryOther
}

// TypeName returns the token type name used in the JSON report.
func (t Token) TypeName() string {
	if n, ok := typeNames[t.Type]; ok {
		return n
	}
	return "error"
}

// Lexeme returns the report value for the token: integer literals as
// int64, decimal literals as float64, everything else as the literal
// text. String literal quotes are already stripped.
func (t Token) Lexeme() any {
	switch t.Type {
	case TokenNumber:
		if v, err := strconv.ParseInt(t.Literal, 10, 64); err == nil {
			return v
		}
	case TokenDecimal:
		if v, err := strconv.ParseFloat(t.Literal, 64); err == nil {
			return v
		}
	}
	return t.Literal
}

// LexicalError describes an error found during tokenization. Lexical
// errors do not abort the scan; they are accumulated and reported as a
// syntax-level rejection by the caller.
type LexicalError struct {
	Offset  int
	Message string
}

func (e *LexicalError) Error() string { return e.Message }

// Lexer is a byte-at-a-time scanner over a single statement.
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	line         int
	column       int

	errors []*LexicalError
}

// New creates a new lexer instance.
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

// Errors returns the lexical errors accumulated so far.
func (l *Lexer) Errors() []*LexicalError { return l.errors }

// Tokenize scans the whole input and returns all tokens (excluding the
// EOF sentinel) together with any lexical errors. It never fails.
func Tokenize(input string) ([]Token, []*LexicalError) {
	l := New(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Type == TokenEOF {
			break
		}
		tokens = append(tokens, tok)
	}
	return tokens, l.errors
}

// readChar reads the next character and advances position.
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0 // NUL represents EOF
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++

	if l.ch == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
}

// peekChar returns the next character without advancing position.
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// skipWhitespace skips separator characters; they are never emitted as
// tokens.
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
		l.readChar()
	}
}

// readIdentifier reads a maximal identifier-like run.
func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readNumber reads an integer or decimal literal. A second decimal
// point is left in the input and surfaces as an illegal character.
func (l *Lexer) readNumber() (string, TokenType) {
	position := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar() // consume '.'
		for isDigit(l.ch) {
			l.readChar()
		}
		return l.input[position:l.position], TokenDecimal
	}
	return l.input[position:l.position], TokenNumber
}

// readString reads a double-quoted literal, returning the contents with
// the quotes stripped and whether the literal was terminated.
func (l *Lexer) readString() (string, bool) {
	position := l.position + 1 // skip the opening quote
	for {
		l.readChar()
		if l.ch == '"' {
			return l.input[position:l.position], true
		}
		if l.ch == 0 {
			return l.input[position:l.position], false
		}
	}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func (l *Lexer) addError(offset int, format string, args ...any) {
	l.errors = append(l.errors, &LexicalError{
		Offset:  offset,
		Message: fmt.Sprintf(format, args...),
	})
}

func (l *Lexer) newToken(tokenType TokenType, literal string, line, column, offset int) Token {
	return Token{Type: tokenType, Literal: literal, Line: line, Column: column, Offset: offset}
}

// NextToken scans the input and returns the next token.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	line, column, offset := l.line, l.column, l.position

	var tok Token
	switch l.ch {
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.newToken(TokenEq, "==", line, column, offset)
		} else {
			tok = l.newToken(TokenAssign, "=", line, column, offset)
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.newToken(TokenNe, "!=", line, column, offset)
		} else {
			l.addError(offset, "Lexical Error: Illegal character '!' at position %d", offset)
			tok = l.newToken(TokenError, "!", line, column, offset)
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.newToken(TokenGe, ">=", line, column, offset)
		} else {
			tok = l.newToken(TokenGt, ">", line, column, offset)
		}
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.newToken(TokenLe, "<=", line, column, offset)
		} else {
			tok = l.newToken(TokenLt, "<", line, column, offset)
		}
	case '+':
		tok = l.newToken(TokenPlus, "+", line, column, offset)
	case '-':
		tok = l.newToken(TokenMinus, "-", line, column, offset)
	case '*':
		tok = l.newToken(TokenMultiply, "*", line, column, offset)
	case '/':
		tok = l.newToken(TokenDivide, "/", line, column, offset)
	case '(':
		tok = l.newToken(TokenLParen, "(", line, column, offset)
	case ')':
		tok = l.newToken(TokenRParen, ")", line, column, offset)
	case '{':
		tok = l.newToken(TokenLBrace, "{", line, column, offset)
	case '}':
		tok = l.newToken(TokenRBrace, "}", line, column, offset)
	case ';':
		tok = l.newToken(TokenSemicolon, ";", line, column, offset)
	case '"':
		literal, terminated := l.readString()
		if !terminated {
			l.addError(offset, "Lexical Error: Unterminated string literal at position %d", offset)
			return l.newToken(TokenError, literal, line, column, offset)
		}
		tok = l.newToken(TokenString, literal, line, column, offset)
	case 0:
		return l.newToken(TokenEOF, "", line, column, offset)
	default:
		if isLetter(l.ch) || l.ch == '_' {
			literal := l.readIdentifier()
			tokenType := TokenIdentifier
			if kw, ok := keywords[literal]; ok {
				tokenType = kw
			}
			return l.newToken(tokenType, literal, line, column, offset)
		}
		if isDigit(l.ch) {
			literal, tokenType := l.readNumber()
			return l.newToken(tokenType, literal, line, column, offset)
		}
		l.addError(offset, "Lexical Error: Illegal character '%c' at position %d", l.ch, offset)
		tok = l.newToken(TokenError, string(l.ch), line, column, offset)
	}

	l.readChar()
	return tok
}
