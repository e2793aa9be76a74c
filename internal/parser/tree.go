package parser

// BuildParseTree converts the AST into the display parse tree rooted
// at `statement`. The layout mirrors the grammar: internal nodes are
// the non-terminals expression/term/factor, leaves are the terminals as
// written.
func BuildParseTree(stmt Statement) *ParseNode {
	switch s := stmt.(type) {
	case *Declaration:
		children := []*ParseNode{
			node("type", leaf(s.DeclType)),
			node("identifier", leaf(s.Name)),
		}
		if s.Value != nil {
			children = append(children, leaf("="), expressionTree(s.Value))
		}
		return node("statement", node("declaration", children...))
	case *ExpressionStatement:
		return node("statement", expressionTree(s.Expr))
	case *IfStatement:
		return node("statement", node("if_statement",
			leaf("if"), leaf("("), conditionTree(s.Cond), leaf(")")))
	case *WhileStatement:
		return node("statement", node("while_statement",
			leaf("while"), leaf("("), conditionTree(s.Cond), leaf(")")))
	default:
		return nil
	}
}

func conditionTree(c *Condition) *ParseNode {
	return node("condition",
		expressionTree(c.Left), leaf(c.Operator), expressionTree(c.Right))
}

// expressionTree expands an expression into the expression/term chain.
func expressionTree(e Expression) *ParseNode {
	if b, ok := e.(*BinaryExpression); ok && (b.Operator == "+" || b.Operator == "-") {
		return node("expression",
			expressionTree(b.Left), leaf(b.Operator), termTree(b.Right))
	}
	return node("expression", termTree(e))
}

func termTree(e Expression) *ParseNode {
	if b, ok := e.(*BinaryExpression); ok && (b.Operator == "*" || b.Operator == "/") {
		return node("term", termTree(b.Left), leaf(b.Operator), factorTree(b.Right))
	}
	return node("term", factorTree(e))
}

func factorTree(e Expression) *ParseNode {
	if g, ok := e.(*GroupedExpression); ok {
		return node("factor", leaf("("), expressionTree(g.Expr), leaf(")"))
	}
	return node("factor", leaf(e.String()))
}
