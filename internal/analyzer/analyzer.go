// Package analyzer ties the pipeline together: lexer, parser and
// semantic checker run in sequence over one line of source text and
// their findings are assembled into a single immutable Result.
package analyzer

import (
	"github.com/Navindu-Ashen/PLCD-grammar-analyzer/internal/lexer"
	"github.com/Navindu-Ashen/PLCD-grammar-analyzer/internal/parser"
	"github.com/Navindu-Ashen/PLCD-grammar-analyzer/internal/semantics"
)

// Analyze runs the full pipeline over one statement. It is a pure
// function of its input: every call constructs fresh lexer, parser and
// checker state, so concurrent and repeated calls never interact.
func Analyze(expression string) *Result {
	return AnalyzeAt(expression, 1)
}

// AnalyzeAt is Analyze with an explicit source line number recorded
// for declarations, used when analyzing a line inside a larger file.
func AnalyzeAt(expression string, line int) *Result {
	result := &Result{
		InputExpression: expression,
		Status:          StatusError,
		Semantic: SemanticAnalysis{
			Errors:            []string{},
			VariablesDeclared: map[string]semantics.SymbolEntry{},
		},
	}

	tokens, lexErrs := lexer.Tokenize(expression)
	result.Lexical.Tokens = reportTokens(tokens)

	// Lexical errors reject the request before parsing; the token list
	// is still reported.
	if len(lexErrs) > 0 {
		result.ResultType = ResultSyntaxError
		for _, e := range lexErrs {
			result.Syntax.Errors = append(result.Syntax.Errors, e.Error())
		}
		return result
	}

	stmt, err := parser.Parse(tokens)
	if err != nil {
		result.ResultType = ResultSyntaxError
		result.Syntax.Errors = []string{err.Error()}
		return result
	}

	result.Syntax.Accepted = true
	result.Syntax.ParseTree = parser.BuildParseTree(stmt)
	result.Syntax.BNFDerivation = parser.Derivation(stmt)

	checked := semantics.Check(stmt, line)
	result.Semantic.Errors = checked.Errors
	result.Semantic.VariablesDeclared = checked.Variables

	if len(checked.Errors) > 0 {
		result.ResultType = ResultSemanticError
		return result
	}
	result.Status = StatusSuccess
	result.ResultType = ResultSuccess
	return result
}

// reportTokens converts lexer tokens into their report form,
// preserving source order.
func reportTokens(tokens []lexer.Token) []Token {
	out := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, Token{
			Lexeme:    tok.Lexeme(),
			TokenType: tok.TypeName(),
			Category:  tok.Category().String(),
		})
	}
	return out
}
