package analyzer

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/Navindu-Ashen/PLCD-grammar-analyzer/internal/semantics"
)

func TestSuccessfulDeclaration(t *testing.T) {
	r := Analyze("int x = 5")

	if r.Status != StatusSuccess || r.ResultType != ResultSuccess {
		t.Fatalf("status=%q result_type=%q, want success/success", r.Status, r.ResultType)
	}
	if !r.Syntax.Accepted {
		t.Fatal("syntax not accepted")
	}

	wantTokens := []Token{
		{Lexeme: "int", TokenType: "int", Category: "Keywords"},
		{Lexeme: "x", TokenType: "identifier", Category: "Identifier"},
		{Lexeme: "=", TokenType: "=", Category: "Operator"},
		{Lexeme: int64(5), TokenType: "integer", Category: "Literal"},
	}
	if !reflect.DeepEqual(r.Lexical.Tokens, wantTokens) {
		t.Errorf("tokens = %v, want %v", r.Lexical.Tokens, wantTokens)
	}

	if len(r.Semantic.Errors) != 0 {
		t.Errorf("semantic errors = %v", r.Semantic.Errors)
	}
	wantVars := map[string]semantics.SymbolEntry{
		"x": {Type: "int", LineNo: 1, Initialized: true},
	}
	if !reflect.DeepEqual(r.Semantic.VariablesDeclared, wantVars) {
		t.Errorf("variables = %v, want %v", r.Semantic.VariablesDeclared, wantVars)
	}
}

func TestSemanticErrorResult(t *testing.T) {
	r := Analyze(`int x = "hello"`)

	if !r.Syntax.Accepted {
		t.Fatal("grammatically valid declaration must be accepted")
	}
	if r.Status != StatusError || r.ResultType != ResultSemanticError {
		t.Fatalf("status=%q result_type=%q", r.Status, r.ResultType)
	}
	if len(r.Semantic.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one", r.Semantic.Errors)
	}
	if !strings.Contains(r.Semantic.Errors[0], "'x'") {
		t.Errorf("error does not name the variable: %q", r.Semantic.Errors[0])
	}
}

func TestUndeclaredVariableResult(t *testing.T) {
	r := Analyze("y + 5")

	if !r.Syntax.Accepted {
		t.Fatal("expected syntax accepted")
	}
	if r.ResultType != ResultSemanticError {
		t.Fatalf("result_type = %q", r.ResultType)
	}
	want := []string{"Semantic Error: Undeclared variable 'y' used"}
	if !reflect.DeepEqual(r.Semantic.Errors, want) {
		t.Fatalf("errors = %v, want %v", r.Semantic.Errors, want)
	}
	if len(r.Semantic.VariablesDeclared) != 0 {
		t.Fatalf("variables = %v, want empty", r.Semantic.VariablesDeclared)
	}
}

func TestSyntaxErrorResult(t *testing.T) {
	r := Analyze("int x =")

	if r.Syntax.Accepted {
		t.Fatal("expected rejection")
	}
	if r.ResultType != ResultSyntaxError || r.Status != StatusError {
		t.Fatalf("status=%q result_type=%q", r.Status, r.ResultType)
	}
	if r.Syntax.ParseTree != nil || r.Syntax.BNFDerivation != nil {
		t.Error("parse tree/derivation must be absent on syntax failure")
	}
	if len(r.Syntax.Errors) != 1 {
		t.Fatalf("syntax errors = %v", r.Syntax.Errors)
	}
	// Tokens are still reported.
	if len(r.Lexical.Tokens) != 3 {
		t.Errorf("tokens = %v, want 3 entries", r.Lexical.Tokens)
	}
	// Semantic section carries no findings.
	if len(r.Semantic.Errors) != 0 || len(r.Semantic.VariablesDeclared) != 0 {
		t.Errorf("semantic section populated on syntax failure: %+v", r.Semantic)
	}
}

func TestLexicalErrorIsSyntaxFailure(t *testing.T) {
	r := Analyze(`string s = "oops`)

	if r.Syntax.Accepted || r.ResultType != ResultSyntaxError {
		t.Fatalf("accepted=%v result_type=%q", r.Syntax.Accepted, r.ResultType)
	}
	if len(r.Syntax.Errors) == 0 || !strings.Contains(r.Syntax.Errors[0], "Unterminated string") {
		t.Fatalf("syntax errors = %v", r.Syntax.Errors)
	}
}

func TestNoCrossRequestLeakage(t *testing.T) {
	// Declaring x twice in two independent requests must succeed both
	// times: the symbol table is request-scoped.
	first := Analyze("int x = 5")
	second := Analyze("int x = 5")

	if first.ResultType != ResultSuccess {
		t.Fatalf("first: %v", first.Semantic.Errors)
	}
	if second.ResultType != ResultSuccess {
		t.Fatalf("second call leaked state: %v", second.Semantic.Errors)
	}
}

func TestIdempotence(t *testing.T) {
	a := Analyze("int x = (1 + 2) * y")
	b := Analyze("int x = (1 + 2) * y")

	if !reflect.DeepEqual(a, b) {
		t.Fatal("repeated analysis produced different results")
	}
}

func TestDerivationStepsContiguous(t *testing.T) {
	r := Analyze("a + b * (c - 1)")
	if !r.Syntax.Accepted {
		t.Fatalf("rejected: %v", r.Syntax.Errors)
	}
	for i, step := range r.Syntax.BNFDerivation {
		if step.Step != i+1 {
			t.Fatalf("step %d numbered %d", i, step.Step)
		}
	}
}

func TestConditionalStatements(t *testing.T) {
	r := Analyze("if(x > 9)")
	if !r.Syntax.Accepted {
		t.Fatalf("if rejected: %v", r.Syntax.Errors)
	}
	if r.ResultType != ResultSemanticError {
		t.Fatalf("undeclared x must be semantic error, got %q", r.ResultType)
	}

	r = Analyze("while(3 < 7)")
	if r.ResultType != ResultSuccess {
		t.Fatalf("while(3 < 7): %q %v", r.ResultType, r.Semantic.Errors)
	}
}

func TestEmptyExpression(t *testing.T) {
	r := Analyze("")

	if r.Syntax.Accepted || r.ResultType != ResultSyntaxError {
		t.Fatalf("accepted=%v result_type=%q", r.Syntax.Accepted, r.ResultType)
	}
	want := []string{"Syntax Error: Empty expression"}
	if !reflect.DeepEqual(r.Syntax.Errors, want) {
		t.Fatalf("errors = %v, want %v", r.Syntax.Errors, want)
	}
	if len(r.Lexical.Tokens) != 0 {
		t.Fatalf("tokens = %v, want none", r.Lexical.Tokens)
	}
}

func TestJSONShape(t *testing.T) {
	data, err := json.Marshal(Analyze("int x = 5"))
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{
		"input_expression", "status", "result_type",
		"lexical_analysis", "syntax_analysis", "semantic_analysis",
	} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing top-level key %q", key)
		}
	}

	lexical := decoded["lexical_analysis"].(map[string]any)
	tokens := lexical["tokens"].([]any)
	first := tokens[0].(map[string]any)
	if first["lexeme"] != "int" || first["token_type"] != "int" || first["category"] != "Keywords" {
		t.Errorf("first token JSON = %v", first)
	}
	// Numeric lexemes serialize as JSON numbers.
	last := tokens[len(tokens)-1].(map[string]any)
	if last["lexeme"] != float64(5) {
		t.Errorf("numeric lexeme = %v (%T)", last["lexeme"], last["lexeme"])
	}

	semantic := decoded["semantic_analysis"].(map[string]any)
	if _, ok := semantic["errors"].([]any); !ok {
		t.Errorf("semantic errors must be a JSON array, got %v", semantic["errors"])
	}
	vars := semantic["variables_declared"].(map[string]any)
	x := vars["x"].(map[string]any)
	if x["type"] != "int" || x["line_no"] != float64(1) || x["initialized"] != true {
		t.Errorf("variable JSON = %v", x)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	// Concatenating lexemes in order reconstructs the symbol sequence
	// of the input.
	input := "int x = 5 + y * 2"
	r := Analyze(input)

	var parts []string
	for _, tok := range r.Lexical.Tokens {
		switch v := tok.Lexeme.(type) {
		case int64:
			parts = append(parts, strconv.FormatInt(v, 10))
		case string:
			parts = append(parts, v)
		}
	}
	if got := strings.Join(parts, " "); got != input {
		t.Fatalf("round trip = %q, want %q", got, input)
	}
}

func TestWriteText(t *testing.T) {
	var b strings.Builder
	WriteText(&b, Analyze("int x = 5"))

	out := b.String()
	for _, want := range []string{
		"LEXICAL ANALYSIS",
		"PARSE TREE",
		"BNF DERIVATION SEQUENCE",
		"syntactically and semantically correct",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}
