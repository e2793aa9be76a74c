package parser

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/Navindu-Ashen/PLCD-grammar-analyzer/internal/lexer"
)

func mustParse(t *testing.T, input string) Statement {
	t.Helper()
	tokens, lexErrs := lexer.Tokenize(input)
	if len(lexErrs) != 0 {
		t.Fatalf("unexpected lexical errors for %q: %v", input, lexErrs)
	}
	stmt, err := Parse(tokens)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", input, err)
	}
	return stmt
}

func parseError(t *testing.T, input string) *SyntaxError {
	t.Helper()
	tokens, _ := lexer.Tokenize(input)
	_, err := Parse(tokens)
	if err == nil {
		t.Fatalf("Parse(%q) succeeded, want syntax error", input)
	}
	var synErr *SyntaxError
	if !errors.As(err, &synErr) {
		t.Fatalf("Parse(%q) returned %T, want *SyntaxError", input, err)
	}
	return synErr
}

func TestParseInitializedDeclaration(t *testing.T) {
	stmt := mustParse(t, "int x = 5")

	decl, ok := stmt.(*Declaration)
	if !ok {
		t.Fatalf("expected *Declaration, got %T", stmt)
	}
	if decl.DeclType != "int" || decl.Name != "x" {
		t.Errorf("got %s %s, want int x", decl.DeclType, decl.Name)
	}
	lit, ok := decl.Value.(*IntegerLiteral)
	if !ok || lit.Value != 5 {
		t.Errorf("initializer = %v, want IntegerLiteral(5)", decl.Value)
	}
}

func TestParseUninitializedDeclaration(t *testing.T) {
	for _, input := range []string{"int x", "double d", "string s", "bool ok"} {
		stmt := mustParse(t, input)
		decl, ok := stmt.(*Declaration)
		if !ok {
			t.Fatalf("%q: expected *Declaration, got %T", input, stmt)
		}
		if decl.Value != nil {
			t.Errorf("%q: expected nil initializer, got %v", input, decl.Value)
		}
	}
}

func TestOperatorPrecedence(t *testing.T) {
	stmt := mustParse(t, "a + b * c")

	expr := stmt.(*ExpressionStatement).Expr
	add, ok := expr.(*BinaryExpression)
	if !ok || add.Operator != "+" {
		t.Fatalf("root = %v, want '+' expression", expr)
	}
	mul, ok := add.Right.(*BinaryExpression)
	if !ok || mul.Operator != "*" {
		t.Fatalf("right of '+' = %v, want '*' term", add.Right)
	}
}

func TestLeftAssociativity(t *testing.T) {
	stmt := mustParse(t, "a - b - c")

	// (a - b) - c
	outer := stmt.(*ExpressionStatement).Expr.(*BinaryExpression)
	if outer.Operator != "-" {
		t.Fatalf("outer operator = %q", outer.Operator)
	}
	inner, ok := outer.Left.(*BinaryExpression)
	if !ok || inner.Operator != "-" {
		t.Fatalf("left of outer = %v, want '-' expression", outer.Left)
	}
	if id, ok := outer.Right.(*Identifier); !ok || id.Name != "c" {
		t.Fatalf("right of outer = %v, want c", outer.Right)
	}
}

func TestParenthesesOverridePrecedence(t *testing.T) {
	stmt := mustParse(t, "(a + b) * c")

	mul := stmt.(*ExpressionStatement).Expr.(*BinaryExpression)
	if mul.Operator != "*" {
		t.Fatalf("root operator = %q, want *", mul.Operator)
	}
	grouped, ok := mul.Left.(*GroupedExpression)
	if !ok {
		t.Fatalf("left of '*' = %T, want *GroupedExpression", mul.Left)
	}
	if add, ok := grouped.Expr.(*BinaryExpression); !ok || add.Operator != "+" {
		t.Fatalf("grouped = %v, want '+' expression", grouped.Expr)
	}
}

func TestParseConditionals(t *testing.T) {
	tests := []struct {
		input string
		op    string
	}{
		{"if(x > 9)", ">"},
		{"while(i < 7)", "<"},
		{"if(count >= 10)", ">="},
		{"while(value != 0)", "!="},
		{"if(a == b)", "=="},
		{"while(n <= 3)", "<="},
	}

	for _, tt := range tests {
		stmt := mustParse(t, tt.input)
		var cond *Condition
		switch s := stmt.(type) {
		case *IfStatement:
			cond = s.Cond
		case *WhileStatement:
			cond = s.Cond
		default:
			t.Fatalf("%q: unexpected statement %T", tt.input, stmt)
		}
		if cond.Operator != tt.op {
			t.Errorf("%q: operator = %q, want %q", tt.input, cond.Operator, tt.op)
		}
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		input string
		atEOF bool
	}{
		{"int x =", true},
		{"int", true},
		{"(a + b", true},
		{"a +", true},
		{"if(x > )", false},
		{"int 5", false},
		{"a b", false},
		{"= 5", false},
	}

	for _, tt := range tests {
		synErr := parseError(t, tt.input)
		if synErr.AtEOF != tt.atEOF {
			t.Errorf("%q: AtEOF = %v, want %v (err: %v)", tt.input, synErr.AtEOF, tt.atEOF, synErr)
		}
	}
}

func TestEmptyInputIsSyntaxError(t *testing.T) {
	synErr := parseError(t, "")
	if synErr.Error() != "Syntax Error: Empty expression" {
		t.Fatalf("message = %q", synErr.Error())
	}
}

func TestSyntaxErrorCarriesPosition(t *testing.T) {
	synErr := parseError(t, "int 5")
	if synErr.Offset != 4 {
		t.Errorf("Offset = %d, want 4", synErr.Offset)
	}
	if synErr.Error() != "Syntax Error: Unexpected token NUMBER ('5') at position 4" {
		t.Errorf("message = %q", synErr.Error())
	}
}

func TestDerivationNumbering(t *testing.T) {
	stmt := mustParse(t, "int x = 5")
	steps := Derivation(stmt)

	want := []string{
		"<statement> ::= <declaration>",
		"<declaration> ::= <type> <identifier> = <expression>",
		"<type> ::= int",
		"<identifier> ::= x",
		"<expression> ::= <term>",
		"<term> ::= <factor>",
		"<factor> ::= 5",
	}
	if len(steps) != len(want) {
		t.Fatalf("got %d steps, want %d: %v", len(steps), len(want), steps)
	}
	for i, step := range steps {
		if step.Step != i+1 {
			t.Errorf("steps[%d].Step = %d, want %d", i, step.Step, i+1)
		}
		if step.Rule != want[i] {
			t.Errorf("steps[%d].Rule = %q, want %q", i, step.Rule, want[i])
		}
	}
}

func TestDerivationLeftAssociative(t *testing.T) {
	stmt := mustParse(t, "a + b * 2")
	steps := Derivation(stmt)

	want := []string{
		"<statement> ::= <expression>",
		"<expression> ::= <expression> + <term>",
		"<expression> ::= <term>",
		"<term> ::= <factor>",
		"<factor> ::= a",
		"<term> ::= <term> * <factor>",
		"<term> ::= <factor>",
		"<factor> ::= b",
		"<factor> ::= 2",
	}
	var got []string
	for _, s := range steps {
		got = append(got, s.Rule)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("derivation mismatch:\ngot  %v\nwant %v", got, want)
	}
}

func TestDerivationParenthesized(t *testing.T) {
	stmt := mustParse(t, "(a + b) * c")
	steps := Derivation(stmt)

	want := []string{
		"<statement> ::= <expression>",
		"<expression> ::= <term>",
		"<term> ::= <term> * <factor>",
		"<term> ::= <factor>",
		"<factor> ::= ( <expression> )",
		"<expression> ::= <expression> + <term>",
		"<expression> ::= <term>",
		"<term> ::= <factor>",
		"<factor> ::= a",
		"<term> ::= <factor>",
		"<factor> ::= b",
		"<factor> ::= c",
	}
	var got []string
	for _, s := range steps {
		got = append(got, s.Rule)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("derivation mismatch:\ngot  %v\nwant %v", got, want)
	}
}

func TestParseTreeShape(t *testing.T) {
	stmt := mustParse(t, "int x = 5")
	tree := BuildParseTree(stmt)

	if tree.Value != "statement" || len(tree.Children) != 1 {
		t.Fatalf("root = %+v, want statement with one child", tree)
	}
	decl := tree.Children[0]
	if decl.Value != "declaration" || len(decl.Children) != 4 {
		t.Fatalf("declaration node = %+v", decl)
	}
	if decl.Children[0].Children[0].Value != "int" {
		t.Errorf("type leaf = %+v", decl.Children[0])
	}
	if decl.Children[1].Children[0].Value != "x" {
		t.Errorf("identifier leaf = %+v", decl.Children[1])
	}
	if decl.Children[2].Value != "=" || len(decl.Children[2].Children) != 0 {
		t.Errorf("assign leaf = %+v", decl.Children[2])
	}
	// 5 sits at expression -> term -> factor -> leaf
	expr := decl.Children[3]
	factorLeaf := expr.Children[0].Children[0].Children[0]
	if factorLeaf.Value != "5" {
		t.Errorf("literal leaf = %+v", factorLeaf)
	}
}

func TestParseTreeRender(t *testing.T) {
	stmt := mustParse(t, "x + 1")
	out := BuildParseTree(stmt).Render()

	if out == "" {
		t.Fatal("empty render")
	}
	for _, want := range []string{"statement", "expression", "term", "factor", "x", "+", "1"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
}
