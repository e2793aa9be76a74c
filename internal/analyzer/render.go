package analyzer

import (
	"fmt"
	"io"
	"strings"
)

// WriteText renders the result as the classic console report: lexical
// table, parse tree, BNF derivation sequence and final verdict.
func WriteText(w io.Writer, r *Result) {
	rule := strings.Repeat("=", 60)

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "LEXICAL ANALYSIS")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-15s %-15s %-12s\n", "Lexeme", "Token Type", "Category")
	fmt.Fprintln(w, strings.Repeat("-", 44))
	for _, tok := range r.Lexical.Tokens {
		fmt.Fprintf(w, "%-15v %-15s %-12s\n", tok.Lexeme, tok.TokenType, tok.Category)
	}

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "SYNTAX ANALYSIS")
	fmt.Fprintln(w, rule)
	if !r.Syntax.Accepted {
		fmt.Fprintln(w, "✗ REJECTED: Input rejected by the grammar")
		for _, msg := range r.Syntax.Errors {
			fmt.Fprintf(w, "  - %s\n", msg)
		}
	} else {
		fmt.Fprintln(w, "✓ ACCEPTED: Input string accepted by the grammar")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "PARSE TREE")
		fmt.Fprint(w, r.Syntax.ParseTree.Render())
		fmt.Fprintln(w)
		fmt.Fprintln(w, "BNF DERIVATION SEQUENCE")
		for _, step := range r.Syntax.BNFDerivation {
			fmt.Fprintf(w, "%2d. %s\n", step.Step, step.Rule)
		}
	}

	if r.Syntax.Accepted {
		fmt.Fprintln(w, rule)
		fmt.Fprintln(w, "SEMANTIC ANALYSIS")
		fmt.Fprintln(w, rule)
		if len(r.Semantic.Errors) == 0 {
			fmt.Fprintln(w, "✓ SEMANTICS: No semantic errors found")
		} else {
			for _, msg := range r.Semantic.Errors {
				fmt.Fprintf(w, "  - %s\n", msg)
			}
		}
		if len(r.Semantic.VariablesDeclared) > 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "VARIABLES DECLARED")
			for name, entry := range r.Semantic.VariablesDeclared {
				fmt.Fprintf(w, "  %s: type=%s line=%d initialized=%t\n",
					name, entry.Type, entry.LineNo, entry.Initialized)
			}
		}
	}

	fmt.Fprintln(w, rule)
	switch r.ResultType {
	case ResultSuccess:
		fmt.Fprintln(w, "✓ ACCEPTED: Statement is syntactically and semantically correct")
	case ResultSyntaxError:
		fmt.Fprintln(w, "✗ REJECTED: Statement contains SYNTAX ERROR")
	case ResultSemanticError:
		fmt.Fprintln(w, "✗ REJECTED: Statement contains SEMANTIC ERROR")
	}
	fmt.Fprintln(w, rule)
}
