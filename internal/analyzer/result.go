package analyzer

import (
	"github.com/Navindu-Ashen/PLCD-grammar-analyzer/internal/parser"
	"github.com/Navindu-Ashen/PLCD-grammar-analyzer/internal/semantics"
)

// Result status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result type values. Syntax failure takes precedence over semantic
// reporting.
const (
	ResultSuccess       = "success"
	ResultSyntaxError   = "syntax_error"
	ResultSemanticError = "semantic_error"
)

// Token is the report form of a lexical token. Lexeme is a number for
// numeric literals and a string otherwise.
type Token struct {
	Lexeme    any    `json:"lexeme"`
	TokenType string `json:"token_type"`
	Category  string `json:"category"`
}

// LexicalAnalysis lists the tokens in source order.
type LexicalAnalysis struct {
	Tokens []Token `json:"tokens"`
}

// SyntaxAnalysis reports grammar acceptance. ParseTree and
// BNFDerivation are present only on accepted input; Errors only on
// rejected input.
type SyntaxAnalysis struct {
	Accepted      bool                    `json:"accepted"`
	ParseTree     *parser.ParseNode       `json:"parse_tree,omitempty"`
	BNFDerivation []parser.DerivationStep `json:"bnf_derivation,omitempty"`
	Errors        []string                `json:"errors,omitempty"`
}

// SemanticAnalysis reports accumulated semantic errors and the symbol
// table built from declarations. Both fields are always present (empty
// rather than null) once syntax has been accepted.
type SemanticAnalysis struct {
	Errors            []string                         `json:"errors"`
	VariablesDeclared map[string]semantics.SymbolEntry `json:"variables_declared"`
}

// Result is the complete outcome of analyzing one statement. It is
// constructed once per request and never mutated afterwards.
type Result struct {
	InputExpression string           `json:"input_expression"`
	Status          string           `json:"status"`
	ResultType      string           `json:"result_type"`
	Lexical         LexicalAnalysis  `json:"lexical_analysis"`
	Syntax          SyntaxAnalysis   `json:"syntax_analysis"`
	Semantic        SemanticAnalysis `json:"semantic_analysis"`
}
