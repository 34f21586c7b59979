package parser

import (
	"github.com/atl-run/atl/ast"
	"github.com/atl-run/atl/tokens"
)

// parseConditional parses `if cond then thenExpr else elseExpr endif`. A
// chained `else if ...` is just the else-branch expression starting with
// the `if` keyword again, so no separate elseif production is needed.
func parseConditional(p *Parser) ast.Expression {
	tok := p.head()
	p.advance() // 'if'
	cond := p.parseExpression(LOWEST)
	p.expect(tokens.KeywordThen)
	thenExpr := p.parseExpression(LOWEST)
	p.expect(tokens.KeywordElse)
	elseExpr := p.parseExpression(LOWEST)
	end, _ := p.expect(tokens.KeywordEndIf)
	return ast.NewConditional(cond, thenExpr, elseExpr, span(tok.Range, end.Range))
}
