// Package semantics implements the semantic checker: a single
// pre-order walk over the parse result that maintains the per-request
// symbol table and accumulates type and declaration errors.
package semantics

import (
	"fmt"

	"github.com/Navindu-Ashen/PLCD-grammar-analyzer/internal/parser"
)

// SymbolEntry records one declared variable.
type SymbolEntry struct {
	Type        string `json:"type"`
	LineNo      int    `json:"line_no"`
	Initialized bool   `json:"initialized"`
}

// Result is the outcome of a semantic pass.
type Result struct {
	Errors    []string
	Variables map[string]SymbolEntry
}

// valueType is the inferred static type of an expression.
type valueType int

const (
	typeUnknown valueType = iota
	typeInt
	typeDouble
	typeString
	typeBool
)

var valueTypeNames = map[valueType]string{
	typeInt:    "int",
	typeDouble: "double",
	typeString: "string",
	typeBool:   "bool",
}

// friendlyNames are the human-readable type names used in assignment
// error messages.
var friendlyNames = map[valueType]string{
	typeInt:    "integer",
	typeDouble: "decimal",
	typeString: "string",
	typeBool:   "boolean",
}

var declaredTypes = map[string]valueType{
	"int":    typeInt,
	"double": typeDouble,
	"string": typeString,
	"bool":   typeBool,
}

// Checker walks statements against one symbol table. A fresh checker
// is built per analysis request; successive Check calls on the same
// checker share the table, which is how duplicate declarations become
// observable.
type Checker struct {
	line      int
	variables map[string]SymbolEntry
	errors    []string
}

// NewChecker creates a checker with an empty symbol table. line is the
// source line reported for declarations (single-statement requests are
// always line 1).
func NewChecker(line int) *Checker {
	if line < 1 {
		line = 1
	}
	return &Checker{line: line, variables: make(map[string]SymbolEntry)}
}

// Check walks one statement and returns the accumulated findings.
// Errors from earlier Check calls on the same checker are retained.
func (c *Checker) Check(stmt parser.Statement) *Result {
	switch s := stmt.(type) {
	case *parser.Declaration:
		c.checkDeclaration(s)
	case *parser.ExpressionStatement:
		c.inferType(s.Expr)
	case *parser.IfStatement:
		c.checkCondition(s.Cond)
	case *parser.WhileStatement:
		c.checkCondition(s.Cond)
	}
	return c.result()
}

// Check runs a fresh checker over a single statement.
func Check(stmt parser.Statement, line int) *Result {
	return NewChecker(line).Check(stmt)
}

func (c *Checker) result() *Result {
	errs := c.errors
	if errs == nil {
		errs = []string{}
	}
	return &Result{Errors: errs, Variables: c.variables}
}

func (c *Checker) errorf(format string, args ...any) {
	c.errors = append(c.errors, fmt.Sprintf(format, args...))
}

// checkDeclaration declares the variable and validates the initializer.
// The duplicate check runs first and suppresses the compatibility
// check; the original entry is kept (first declaration wins). Errors
// inside the initializer expression are still surfaced.
func (c *Checker) checkDeclaration(d *parser.Declaration) {
	if _, exists := c.variables[d.Name]; exists {
		c.errorf("Semantic Error: Variable '%s' is already declared", d.Name)
		if d.Value != nil {
			c.inferType(d.Value)
		}
		return
	}

	declared := declaredTypes[d.DeclType]
	c.variables[d.Name] = SymbolEntry{
		Type:        d.DeclType,
		LineNo:      c.line,
		Initialized: d.Value != nil,
	}

	if d.Value == nil {
		return
	}
	inferred := c.inferType(d.Value)
	if inferred == typeUnknown {
		// The initializer already produced its own error.
		return
	}
	if !assignable(declared, inferred) {
		c.errorf("Semantic Error: Cannot assign %s value to %s variable '%s'",
			friendlyNames[inferred], friendlyNames[declared], d.Name)
	}
}

// assignable implements the exact declaration compatibility rules:
// int accepts int only, double accepts int or double, string and bool
// accept themselves only.
func assignable(declared, value valueType) bool {
	if declared == value {
		return true
	}
	return declared == typeDouble && value == typeInt
}

// checkCondition checks both operand expressions. No compatibility
// rule is imposed across the relational operator itself.
func (c *Checker) checkCondition(cond *parser.Condition) {
	c.inferType(cond.Left)
	c.inferType(cond.Right)
}

// inferType determines the static type of an expression, reporting
// undeclared identifiers and invalid arithmetic operands along the
// way. Unknown propagates without cascading further errors.
func (c *Checker) inferType(e parser.Expression) valueType {
	switch expr := e.(type) {
	case *parser.IntegerLiteral:
		return typeInt
	case *parser.DecimalLiteral:
		return typeDouble
	case *parser.StringLiteral:
		return typeString
	case *parser.BooleanLiteral:
		return typeBool
	case *parser.Identifier:
		entry, ok := c.variables[expr.Name]
		if !ok {
			c.errorf("Semantic Error: Undeclared variable '%s' used", expr.Name)
			return typeUnknown
		}
		return declaredTypes[entry.Type]
	case *parser.GroupedExpression:
		return c.inferType(expr.Expr)
	case *parser.BinaryExpression:
		return c.inferBinary(expr)
	default:
		return typeUnknown
	}
}

// inferBinary types an arithmetic operation: double when either
// operand is double, otherwise int. String and bool operands are
// rejected; one error per operator, naming the first offending
// operand.
func (c *Checker) inferBinary(b *parser.BinaryExpression) valueType {
	left := c.inferType(b.Left)
	right := c.inferType(b.Right)

	for _, operand := range []valueType{left, right} {
		if operand == typeString || operand == typeBool {
			c.errorf("Semantic Error: Cannot apply arithmetic operator to %s",
				valueTypeNames[operand])
			return typeUnknown
		}
	}
	if left == typeUnknown || right == typeUnknown {
		return typeUnknown
	}
	if left == typeDouble || right == typeDouble {
		return typeDouble
	}
	return typeInt
}
