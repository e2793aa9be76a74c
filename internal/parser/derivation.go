package parser

import "fmt"

// DerivationStep is one applied production of the BNF derivation
// sequence. Steps are 1-based and contiguous.
type DerivationStep struct {
	Step int    `json:"step"`
	Rule string `json:"rule"`
}

// Derivation lists the productions applied while accepting the
// statement, in pre-order over the parse tree. The rule text uses the
// classic `<lhs> ::= rhs` form.
func Derivation(stmt Statement) []DerivationStep {
	d := &derivation{}
	d.statement(stmt)
	return d.steps
}

type derivation struct {
	steps []DerivationStep
}

func (d *derivation) add(format string, args ...any) {
	d.steps = append(d.steps, DerivationStep{
		Step: len(d.steps) + 1,
		Rule: fmt.Sprintf(format, args...),
	})
}

func (d *derivation) statement(stmt Statement) {
	switch s := stmt.(type) {
	case *Declaration:
		d.add("<statement> ::= <declaration>")
		if s.Value != nil {
			d.add("<declaration> ::= <type> <identifier> = <expression>")
		} else {
			d.add("<declaration> ::= <type> <identifier>")
		}
		d.add("<type> ::= %s", s.DeclType)
		d.add("<identifier> ::= %s", s.Name)
		if s.Value != nil {
			d.expression(s.Value)
		}
	case *ExpressionStatement:
		d.add("<statement> ::= <expression>")
		d.expression(s.Expr)
	case *IfStatement:
		d.add("<statement> ::= <if_statement>")
		d.add("<if_statement> ::= if ( <condition> )")
		d.condition(s.Cond)
	case *WhileStatement:
		d.add("<statement> ::= <while_statement>")
		d.add("<while_statement> ::= while ( <condition> )")
		d.condition(s.Cond)
	}
}

func (d *derivation) condition(c *Condition) {
	d.add("<condition> ::= <expression> %s <expression>", c.Operator)
	d.expression(c.Left)
	d.expression(c.Right)
}

func (d *derivation) expression(e Expression) {
	if b, ok := e.(*BinaryExpression); ok && (b.Operator == "+" || b.Operator == "-") {
		d.add("<expression> ::= <expression> %s <term>", b.Operator)
		d.expression(b.Left)
		d.term(b.Right)
		return
	}
	d.add("<expression> ::= <term>")
	d.term(e)
}

func (d *derivation) term(e Expression) {
	if b, ok := e.(*BinaryExpression); ok && (b.Operator == "*" || b.Operator == "/") {
		d.add("<term> ::= <term> %s <factor>", b.Operator)
		d.term(b.Left)
		d.factor(b.Right)
		return
	}
	d.add("<term> ::= <factor>")
	d.factor(e)
}

func (d *derivation) factor(e Expression) {
	if g, ok := e.(*GroupedExpression); ok {
		d.add("<factor> ::= ( <expression> )")
		d.expression(g.Expr)
		return
	}
	d.add("<factor> ::= %s", e.String())
}
