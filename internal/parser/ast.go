package parser

import (
	"fmt"
	"strings"
)

// Node is the base interface for all AST nodes.
type Node interface {
	String() string
}

// Statement is the root production of the grammar. Exactly one
// statement is parsed per request.
type Statement interface {
	Node
	statementNode()
}

// Expression nodes produce a value when analyzed.
type Expression interface {
	Node
	expressionNode()
}

// Declaration is `type IDENT ('=' expression)?`. Value is nil for an
// uninitialized declaration.
type Declaration struct {
	DeclType string // int, double, string or bool
	Name     string
	Value    Expression
}

func (d *Declaration) statementNode() {}
func (d *Declaration) String() string {
	if d.Value == nil {
		return fmt.Sprintf("%s %s", d.DeclType, d.Name)
	}
	return fmt.Sprintf("%s %s = %s", d.DeclType, d.Name, d.Value.String())
}

// ExpressionStatement is a bare expression used as a statement.
type ExpressionStatement struct {
	Expr Expression
}

func (s *ExpressionStatement) statementNode() {}
func (s *ExpressionStatement) String() string { return s.Expr.String() }

// IfStatement is a single-line conditional header: `if ( condition )`.
type IfStatement struct {
	Cond *Condition
}

func (s *IfStatement) statementNode() {}
func (s *IfStatement) String() string { return fmt.Sprintf("if (%s)", s.Cond.String()) }

// WhileStatement is a single-line loop header: `while ( condition )`.
type WhileStatement struct {
	Cond *Condition
}

func (s *WhileStatement) statementNode() {}
func (s *WhileStatement) String() string { return fmt.Sprintf("while (%s)", s.Cond.String()) }

// Condition is a comparison between two arithmetic expressions.
type Condition struct {
	Operator string // > < >= <= == !=
	Left     Expression
	Right    Expression
}

func (c *Condition) String() string {
	return fmt.Sprintf("%s %s %s", c.Left.String(), c.Operator, c.Right.String())
}

// Identifier is a variable reference.
type Identifier struct {
	Name string
}

func (i *Identifier) expressionNode() {}
func (i *Identifier) String() string  { return i.Name }

// IntegerLiteral is a whole-number literal.
type IntegerLiteral struct {
	Value   int64
	Literal string
}

func (l *IntegerLiteral) expressionNode() {}
func (l *IntegerLiteral) String() string  { return l.Literal }

// DecimalLiteral is a floating-point literal.
type DecimalLiteral struct {
	Value   float64
	Literal string
}

func (l *DecimalLiteral) expressionNode() {}
func (l *DecimalLiteral) String() string  { return l.Literal }

// StringLiteral is a double-quoted literal; Value holds the contents
// without quotes.
type StringLiteral struct {
	Value string
}

func (l *StringLiteral) expressionNode() {}
func (l *StringLiteral) String() string  { return fmt.Sprintf("%q", l.Value) }

// BooleanLiteral is `true` or `false`.
type BooleanLiteral struct {
	Value bool
}

func (l *BooleanLiteral) expressionNode() {}
func (l *BooleanLiteral) String() string {
	if l.Value {
		return "true"
	}
	return "false"
}

// BinaryExpression is a left-associative arithmetic operation.
type BinaryExpression struct {
	Operator string // + - * /
	Left     Expression
	Right    Expression
}

func (b *BinaryExpression) expressionNode() {}
func (b *BinaryExpression) String() string {
	return fmt.Sprintf("%s %s %s", b.Left.String(), b.Operator, b.Right.String())
}

// GroupedExpression is a parenthesized expression. The node is kept in
// the tree so the parse tree and derivation can reproduce the original
// bracketing.
type GroupedExpression struct {
	Expr Expression
}

func (g *GroupedExpression) expressionNode() {}
func (g *GroupedExpression) String() string  { return "(" + g.Expr.String() + ")" }

// ParseNode is one node of the display parse tree: internal nodes carry
// non-terminal names, leaves carry terminal text. Each node exclusively
// owns its children.
type ParseNode struct {
	Value    string       `json:"value"`
	Children []*ParseNode `json:"children,omitempty"`
}

// leaf creates a terminal node.
func leaf(value string) *ParseNode { return &ParseNode{Value: value} }

// node creates a non-terminal node with the given children.
func node(value string, children ...*ParseNode) *ParseNode {
	return &ParseNode{Value: value, Children: children}
}

// Render writes the tree in a box-drawing layout, one node per line.
func (n *ParseNode) Render() string {
	var b strings.Builder
	n.render(&b, "", true, true)
	return b.String()
}

func (n *ParseNode) render(b *strings.Builder, prefix string, isLast, isRoot bool) {
	if isRoot {
		b.WriteString(n.Value)
		b.WriteByte('\n')
	} else {
		connector := "├── "
		if isLast {
			connector = "└── "
		}
		b.WriteString(prefix)
		b.WriteString(connector)
		b.WriteString(n.Value)
		b.WriteByte('\n')
		if isLast {
			prefix += "    "
		} else {
			prefix += "│   "
		}
	}
	for i, child := range n.Children {
		child.render(b, prefix, i == len(n.Children)-1, false)
	}
}
